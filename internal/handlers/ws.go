package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The API is same-box during development; validate the origin
		// before exposing it publicly.
		return true
	},
}

const wsPingInterval = 30 * time.Second

// ws streams session snapshots over a WebSocket. It is write-only: the
// client drives the game through the regular HTTP endpoints and uses the
// socket purely as a state feed, mirroring the SSE stream.
func (h *SessionHandler) ws(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(w, r)
	if !ok {
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Str("session", session.ID).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	hub := h.store.Broadcaster(session.ID)
	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	// Drain reads so close frames and pongs are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func() error {
		return conn.WriteJSON(session.Snapshot(time.Now().UTC()))
	}
	if err := send(); err != nil {
		return
	}

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case _, open := <-sub:
			if !open {
				return
			}
			if err := send(); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
