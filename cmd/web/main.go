package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"kelime/internal/config"
	"kelime/internal/game"
	"kelime/internal/handlers"
	"kelime/internal/wordbank"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	bank, err := wordbank.Load(cfg.Game.Lang)
	if err != nil {
		log.Fatal().Err(err).Str("lang", cfg.Game.Lang).Msg("load word bank")
	}
	difficulty, err := game.ParseDifficulty(cfg.Game.DefaultDifficulty)
	if err != nil {
		log.Fatal().Str("value", cfg.Game.DefaultDifficulty).Msg("bad GAME_DIFFICULTY")
	}

	store := game.NewStore(bank, game.StoreOptions{
		SuccessDelay: cfg.Game.SuccessDelay,
		ErrorDelay:   cfg.Game.ErrorDelay,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	handlers.NewSessionHandler(store, difficulty).RegisterRoutes(r)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      0, // SSE and WebSocket streams stay open
		IdleTimeout:       120 * time.Second,
	}

	log.Info().
		Str("addr", cfg.Addr()).
		Str("lang", cfg.Game.Lang).
		Int("puzzles", bank.Len()).
		Msg("listening")
	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
