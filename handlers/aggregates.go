// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"pairvote/ledger"
	"pairvote/middleware"
)

type AggregateHandler struct {
	store *ledger.Store
}

func NewAggregateHandler(store *ledger.Store) *AggregateHandler {
	return &AggregateHandler{store: store}
}

// SessionVoteCount handles GET /session-vote-count
func (h *AggregateHandler) SessionVoteCount(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(w, r)

	count, err := h.store.SessionVoteCount(r.Context(), sessionID)
	if err != nil {
		slog.Error("failed to count session votes", "error", err, "session", sessionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, map[string]int{"count": count})
}

// VoteCount handles GET /vote-count
func (h *AggregateHandler) VoteCount(w http.ResponseWriter, r *http.Request) {
	withoutSkips := r.URL.Query().Get("without_skips") == "true"

	count, err := h.store.VoteCount(r.Context(), withoutSkips)
	if err != nil {
		slog.Error("failed to count votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, map[string]int{"count": count})
}

// VotesPerSystem handles GET /votes-per-system?task=
func (h *AggregateHandler) VotesPerSystem(w http.ResponseWriter, r *http.Request) {
	task := taskOrDefault(r.URL.Query().Get("task"))

	counts, err := h.store.VotesPerSystem(r.Context(), task)
	if err != nil {
		slog.Error("failed to count votes per system", "error", err, "task", task)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, counts)
}

// VotesPerSession handles GET /votes-per-session
func (h *AggregateHandler) VotesPerSession(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.VotesPerSession(r.Context())
	if err != nil {
		slog.Error("failed to count votes per session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, counts)
}
