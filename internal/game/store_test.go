package game

import (
	"math/rand"
	"testing"
	"time"

	"kelime/internal/wordbank"
)

func testStore(t *testing.T, opts StoreOptions) *Store {
	t.Helper()
	bank, err := wordbank.New([]wordbank.Puzzle{
		{Word: "KEDI", Hint: "Evcil hayvan", Category: "Hayvanlar"},
	})
	if err != nil {
		t.Fatalf("wordbank.New: %v", err)
	}
	return NewStore(bank, opts)
}

func TestStore_CreateSession_GetSession(t *testing.T) {
	s := testStore(t, StoreOptions{})
	session := s.CreateSession(DifficultyMedium, rand.New(rand.NewSource(1)))
	if session == nil {
		t.Fatal("CreateSession returned nil")
	}
	if session.ID == "" {
		t.Error("session ID is empty")
	}
	snap := session.Snapshot(time.Now().UTC())
	if snap.Status != StatusReady {
		t.Errorf("status %q, want ready (first puzzle loaded)", snap.Status)
	}

	got, ok := s.GetSession(session.ID)
	if !ok {
		t.Fatal("GetSession returned false for existing session")
	}
	if got != session {
		t.Error("GetSession returned different pointer")
	}

	_, ok = s.GetSession("nonexistent")
	if ok {
		t.Error("GetSession should return false for missing ID")
	}
}

func TestStore_CreateSession_EmptyBank(t *testing.T) {
	s := NewStore(nil, StoreOptions{})
	session := s.CreateSession(DifficultyMedium, rand.New(rand.NewSource(1)))
	snap := session.Snapshot(time.Now().UTC())
	if snap.Status != StatusFailed {
		t.Errorf("status %q, want failed", snap.Status)
	}
	if _, ok := s.GetSession(session.ID); !ok {
		t.Error("failed session should stay registered so the client can retry")
	}
}

func TestStore_Publish(t *testing.T) {
	s := testStore(t, StoreOptions{})
	session := s.CreateSession(DifficultyMedium, nil)
	hub := s.Broadcaster(session.ID)
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	s.Publish(session.ID, EventState)
	if got := <-ch; got != EventState {
		t.Errorf("got event %q, want %q", got, EventState)
	}
}

func TestStore_FeedbackLoop_PublishesOnAdvance(t *testing.T) {
	s := testStore(t, StoreOptions{SuccessDelay: 20 * time.Millisecond, ErrorDelay: 10 * time.Millisecond})
	session := s.CreateSession(DifficultyMedium, rand.New(rand.NewSource(1)))
	hub := s.Broadcaster(session.ID)
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	gen := session.Snapshot(time.Now().UTC()).Generation
	session.SetInput("kedi")
	if ok, err := session.Submit(time.Now().UTC()); err != nil || !ok {
		t.Fatalf("Submit: ok=%v err=%v", ok, err)
	}
	s.EnsureFeedbackLoop(session.ID)
	s.WakeFeedbackLoop(session.ID)

	select {
	case got := <-ch:
		if got != EventState {
			t.Errorf("got event %q, want %q", got, EventState)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("feedback loop never published")
	}
	snap := session.Snapshot(time.Now().UTC())
	if snap.Generation != gen+1 {
		t.Errorf("generation %d, want %d (auto-advance)", snap.Generation, gen+1)
	}
}

func TestStore_EnsureFeedbackLoop_Idempotent(t *testing.T) {
	s := testStore(t, StoreOptions{})
	session := s.CreateSession(DifficultyMedium, nil)
	s.EnsureFeedbackLoop(session.ID)
	s.EnsureFeedbackLoop(session.ID)
	s.WakeFeedbackLoop(session.ID)
}

func TestStore_WakeFeedbackLoop_NoPanicWhenNoLoop(t *testing.T) {
	s := testStore(t, StoreOptions{})
	s.WakeFeedbackLoop("nonexistent")
}
