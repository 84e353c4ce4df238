package realtime

import (
	"context"
	"sync"
	"time"
)

// Entry holds one piece of registered state and its broadcaster.
type Entry[T any] struct {
	ID    string
	State T
	hub   *Broadcaster
}

// Registry tracks state objects by ID, each with its own broadcaster and
// optionally a timer loop that drives scheduled state transitions.
type Registry[T any] struct {
	mu    sync.RWMutex
	items map[string]*Entry[T]
	loops map[string]context.CancelFunc
	wakes map[string]chan struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		items: make(map[string]*Entry[T]),
		loops: make(map[string]context.CancelFunc),
		wakes: make(map[string]chan struct{}),
	}
}

// Add registers state under the given id with a fresh broadcaster.
func (r *Registry[T]) Add(id string, state T) *Entry[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := &Entry[T]{ID: id, State: state, hub: NewBroadcaster()}
	r.items[id] = e
	return e
}

// Get returns the entry for id if it exists.
func (r *Registry[T]) Get(id string) (*Entry[T], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.items[id]
	return e, ok
}

// Broadcaster returns the broadcaster for id, creating an empty entry if
// nothing is registered yet (subscribers may connect before state exists).
func (r *Registry[T]) Broadcaster(id string) *Broadcaster {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		hub := NewBroadcaster()
		r.items[id] = &Entry[T]{ID: id, hub: hub}
		return hub
	}
	if e.hub == nil {
		e.hub = NewBroadcaster()
	}
	return e.hub
}

// Publish notifies subscribers of the entry's broadcaster.
func (r *Registry[T]) Publish(id string, event string) {
	r.Broadcaster(id).Publish(event)
}

// TickFunc is called by RunLoop to determine the next wake time and the
// events to publish. stop true means exit the loop.
type TickFunc[T any] func(state T, now time.Time) (next time.Time, events []string, stop bool)

// RunLoop starts a timer loop for the entry. The loop calls tick, publishes
// any returned events, then sleeps until the returned wake time or until
// Wake is called. A second RunLoop for the same id is a no-op.
func (r *Registry[T]) RunLoop(id string, getState func() T, tick TickFunc[T]) {
	r.mu.Lock()
	if _, ok := r.loops[id]; ok {
		r.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	wake := make(chan struct{}, 1)
	r.loops[id] = cancel
	r.wakes[id] = wake
	r.mu.Unlock()

	go func() {
		defer func() {
			r.mu.Lock()
			delete(r.loops, id)
			delete(r.wakes, id)
			r.mu.Unlock()
		}()

		for {
			state := getState()
			now := time.Now().UTC()
			next, events, stop := tick(state, now)
			// Publish before sleeping or exiting so subscribers see a
			// transition as soon as it happens, not when the next deadline
			// fires. A final tick may both publish and stop.
			for _, e := range events {
				r.Publish(id, e)
			}
			if stop {
				return
			}
			wait := time.Until(next)
			if wait < 0 {
				wait = 0
			}
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			case <-wake:
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
			}
		}
	}()
}

// Wake unblocks the entry's loop so it recomputes immediately, e.g. after
// a submission scheduled a new deadline.
func (r *Registry[T]) Wake(id string) {
	r.mu.RLock()
	wake, ok := r.wakes[id]
	r.mu.RUnlock()
	if !ok {
		return
	}
	select {
	case wake <- struct{}{}:
	default:
	}
}

// StopLoop cancels the entry's timer loop if one is running.
func (r *Registry[T]) StopLoop(id string) {
	r.mu.RLock()
	cancel, ok := r.loops[id]
	r.mu.RUnlock()
	if ok {
		cancel()
	}
}
