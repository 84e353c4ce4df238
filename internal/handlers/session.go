package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"kelime/internal/game"
	"kelime/internal/wordbank"
)

// SessionHandler exposes the game session boundary as a JSON API.
type SessionHandler struct {
	store             *game.Store
	defaultDifficulty game.Difficulty
}

// NewSessionHandler creates the handler. defaultDifficulty applies when a
// create request names none.
func NewSessionHandler(store *game.Store, defaultDifficulty game.Difficulty) *SessionHandler {
	if defaultDifficulty == "" {
		defaultDifficulty = game.DifficultyMedium
	}
	return &SessionHandler{store: store, defaultDifficulty: defaultDifficulty}
}

// RegisterRoutes mounts the API on r.
func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/languages", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string][]string{"languages": wordbank.SupportedLanguages()})
	})
	r.Post("/sessions", h.createSession)
	r.Route("/session/{id}", func(r chi.Router) {
		r.Get("/", h.state)
		r.Post("/input", h.setInput)
		r.Post("/guess", h.submitGuess)
		r.Post("/hint", h.toggleHint)
		r.Post("/difficulty", h.setDifficulty)
		r.Post("/new", h.newPuzzle)
		r.Get("/stream", h.stream)
		r.Get("/ws", h.ws)
	})
}

func (h *SessionHandler) lookup(w http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	id := chi.URLParam(r, "id")
	session, ok := h.store.GetSession(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return session, true
}

type createSessionReq struct {
	Difficulty string `json:"difficulty"`
}

func (h *SessionHandler) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	difficulty := h.defaultDifficulty
	if req.Difficulty != "" {
		parsed, err := game.ParseDifficulty(req.Difficulty)
		if err != nil {
			writeError(w, http.StatusBadRequest, "difficulty must be easy, medium, or hard")
			return
		}
		difficulty = parsed
	}

	session := h.store.CreateSession(difficulty, nil)
	snap := session.Snapshot(time.Now().UTC())
	log.Info().Str("session", session.ID).Str("difficulty", string(difficulty)).Msg("session created")
	writeJSON(w, http.StatusCreated, snap)
}

func (h *SessionHandler) state(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.Snapshot(time.Now().UTC()))
}

type inputReq struct {
	Input string `json:"input"`
}

func (h *SessionHandler) setInput(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var req inputReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	session.SetInput(req.Input)
	h.store.Publish(session.ID, game.EventState)
	writeJSON(w, http.StatusOK, session.Snapshot(time.Now().UTC()))
}

type guessReq struct {
	Guess string `json:"guess"`
}

type guessRes struct {
	Correct  bool          `json:"correct"`
	Snapshot game.Snapshot `json:"snapshot"`
}

func (h *SessionHandler) submitGuess(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	now := time.Now().UTC()
	session.SetInput(req.Guess)
	correct, err := session.Submit(now)
	if err != nil {
		if errors.Is(err, game.ErrNoPuzzle) {
			writeError(w, http.StatusConflict, "no puzzle loaded")
			return
		}
		log.Error().Err(err).Str("session", session.ID).Msg("submit")
		writeError(w, http.StatusInternalServerError, "submit failed")
		return
	}
	h.store.EnsureFeedbackLoop(session.ID)
	h.store.WakeFeedbackLoop(session.ID)
	h.store.Publish(session.ID, game.EventState)
	log.Debug().Str("session", session.ID).Bool("correct", correct).Msg("guess")
	writeJSON(w, http.StatusOK, guessRes{Correct: correct, Snapshot: session.Snapshot(now)})
}

func (h *SessionHandler) toggleHint(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(w, r)
	if !ok {
		return
	}
	session.ToggleHint()
	h.store.Publish(session.ID, game.EventState)
	writeJSON(w, http.StatusOK, session.Snapshot(time.Now().UTC()))
}

type difficultyReq struct {
	Difficulty string `json:"difficulty"`
}

func (h *SessionHandler) setDifficulty(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var req difficultyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	difficulty, err := game.ParseDifficulty(req.Difficulty)
	if err != nil {
		writeError(w, http.StatusBadRequest, "difficulty must be easy, medium, or hard")
		return
	}
	if err := session.SetDifficulty(difficulty); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.store.Publish(session.ID, game.EventState)
	writeJSON(w, http.StatusOK, session.Snapshot(time.Now().UTC()))
}

func (h *SessionHandler) newPuzzle(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(w, r)
	if !ok {
		return
	}
	now := time.Now().UTC()
	if err := session.LoadPuzzle(now); err != nil {
		log.Error().Err(err).Str("session", session.ID).Msg("load puzzle")
		h.store.Publish(session.ID, game.EventState)
		writeError(w, http.StatusServiceUnavailable, "no puzzle available")
		return
	}
	h.store.WakeFeedbackLoop(session.ID)
	h.store.Publish(session.ID, game.EventState)
	writeJSON(w, http.StatusOK, session.Snapshot(now))
}

func (h *SessionHandler) stream(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	hub := h.store.Broadcaster(session.ID)
	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	sendSnapshot := func() {
		data, err := json.Marshal(session.Snapshot(time.Now().UTC()))
		if err != nil {
			log.Error().Err(err).Msg("marshal snapshot")
			return
		}
		writeSSE(w, game.EventState, data)
		flusher.Flush()
	}

	sendSnapshot()

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case _, open := <-sub:
			if !open {
				return
			}
			sendSnapshot()
		case <-keepAlive.C:
			_, _ = w.Write([]byte(": keepalive\n\n"))
			flusher.Flush()
		}
	}
}
