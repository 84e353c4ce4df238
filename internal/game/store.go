package game

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"kelime/internal/wordbank"
	"kelime/pkg/realtime"
)

// EventState is published whenever a session's visible state changes.
const EventState = "state"

// StoreOptions carry the defaults applied to every created session.
type StoreOptions struct {
	SuccessDelay time.Duration
	ErrorDelay   time.Duration
}

// Store holds sessions and delegates to realtime.Registry for lookup,
// broadcast, and the feedback timer loops.
type Store struct {
	r    *realtime.Registry[*Session]
	bank *wordbank.Bank
	opts StoreOptions
}

// NewStore creates an in-memory session store over the given bank.
func NewStore(bank *wordbank.Bank, opts StoreOptions) *Store {
	return &Store{r: realtime.NewRegistry[*Session](), bank: bank, opts: opts}
}

// CreateSession initializes a session with its first puzzle loaded and
// registers its broadcaster. A bank configuration error leaves the session
// registered in the failed status so the client can retry via a new-puzzle
// request.
func (s *Store) CreateSession(difficulty Difficulty, rng *rand.Rand) *Session {
	session := NewSession(uuid.NewString(), Options{
		Bank:         s.bank,
		Rng:          rng,
		Difficulty:   difficulty,
		SuccessDelay: s.opts.SuccessDelay,
		ErrorDelay:   s.opts.ErrorDelay,
	})
	_ = session.LoadPuzzle(time.Now().UTC())
	s.r.Add(session.ID, session)
	return session
}

// GetSession returns a session by ID if it exists.
func (s *Store) GetSession(id string) (*Session, bool) {
	entry, ok := s.r.Get(id)
	if !ok || entry.State == nil {
		return nil, false
	}
	return entry.State, true
}

// Broadcaster returns the event broadcaster for a session.
func (s *Store) Broadcaster(id string) *realtime.Broadcaster {
	return s.r.Broadcaster(id)
}

// Publish notifies subscribers of a session update.
func (s *Store) Publish(id string, event string) {
	s.r.Publish(id, event)
}

// EnsureFeedbackLoop starts the timer loop that resolves a session's
// pending feedback deadline (success auto-advance, error auto-clear).
// The loop exits once no deadline is outstanding; callers re-ensure it
// after every submission.
func (s *Store) EnsureFeedbackLoop(id string) {
	getState := func() *Session {
		session, ok := s.GetSession(id)
		if !ok {
			return nil
		}
		return session
	}
	tick := func(state *Session, now time.Time) (time.Time, []string, bool) {
		if state == nil {
			return time.Time{}, nil, true
		}
		next, ok := state.NextTimer(now)
		if !ok {
			return time.Time{}, nil, true
		}
		if state.AdvanceIfNeeded(now) {
			next2, ok2 := state.NextTimer(now)
			if !ok2 {
				return time.Time{}, []string{EventState}, true
			}
			return next2, []string{EventState}, false
		}
		return next, nil, false
	}
	s.r.RunLoop(id, getState, tick)
}

// WakeFeedbackLoop unblocks the loop so it recomputes, e.g. after an
// explicit new-puzzle request cancelled the pending deadline.
func (s *Store) WakeFeedbackLoop(id string) {
	s.r.Wake(id)
}
