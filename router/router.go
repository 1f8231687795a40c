// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"log/slog"
	"net/http"
	"os"

	"pairvote/auth"
	"pairvote/cliparse"
	"pairvote/handlers"
	"pairvote/ledger"
	"pairvote/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	codec, err := auth.NewTokenCodec(cfg.TokenKey)
	if err != nil {
		// Config validation guarantees a usable key length.
		slog.Error("invalid battle token key", "error", err)
		os.Exit(1)
	}

	// Initialize handlers
	store := ledger.NewStore(db)
	battleHandler := handlers.NewBattleHandler(store, codec, cfg)
	aggregateHandler := handlers.NewAggregateHandler(store)
	prolificHandler := handlers.NewProlificHandler(store)
	adminHandler := handlers.NewAdminHandler(store, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Voting (public)
	mux.HandleFunc("GET /battles", middleware.WithLogging(battleHandler.GetBattles))
	mux.HandleFunc("POST /vote", middleware.WithLogging(battleHandler.SubmitVote))

	// Aggregates (public)
	mux.HandleFunc("GET /session-vote-count", middleware.WithLogging(aggregateHandler.SessionVoteCount))
	mux.HandleFunc("GET /vote-count", middleware.WithLogging(aggregateHandler.VoteCount))
	mux.HandleFunc("GET /votes-per-system", middleware.WithLogging(aggregateHandler.VotesPerSystem))
	mux.HandleFunc("GET /votes-per-session", middleware.WithLogging(aggregateHandler.VotesPerSession))
	mux.HandleFunc("GET /votes.csv", middleware.WithLogging(aggregateHandler.ExportVotes))
	mux.HandleFunc("GET /stats", middleware.WithLogging(aggregateHandler.Stats))

	// Prolific study bookkeeping
	mux.HandleFunc("POST /prolific-consent", middleware.WithLogging(prolificHandler.Consent))
	mux.HandleFunc("POST /prolific-finish", middleware.WithLogging(prolificHandler.Finish))

	// Ingestion (admin, requires X-Admin-Key)
	mux.HandleFunc("POST /admin/prompts", middleware.WithLogging(adminHandler.IngestPrompts))
	mux.HandleFunc("POST /admin/outputs", middleware.WithLogging(adminHandler.IngestOutputs))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pairvote API v1"))
	})

	return mux
}
