// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"pairvote/ledger"
	"pairvote/middleware"
	"pairvote/models"
)

type ProlificHandler struct {
	store *ledger.Store
}

func NewProlificHandler(store *ledger.Store) *ProlificHandler {
	return &ProlificHandler{store: store}
}

// Consent handles POST /prolific-consent
func (h *ProlificHandler) Consent(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(w, r)

	if err := h.store.ProlificConsent(r.Context(), sessionID, time.Now().UTC()); err != nil {
		slog.Error("failed to record consent", "error", err, "session", sessionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("consent recorded", "session", sessionID)
	middleware.JSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Finish handles POST /prolific-finish
func (h *ProlificHandler) Finish(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(w, r)

	var req models.ProlificFinishRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.store.ProlificFinish(r.Context(), sessionID, req.Comments, time.Now().UTC()); err != nil {
		slog.Error("failed to record finish", "error", err, "session", sessionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("study finished", "session", sessionID)
	middleware.JSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
