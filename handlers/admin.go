// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"pairvote/auth"
	"pairvote/cliparse"
	"pairvote/ingest"
	"pairvote/ledger"
	"pairvote/middleware"
	"pairvote/models"
)

// adminScope is the HMAC scope for ingestion keys. The key itself is
// derived from the salt; mint it with auth.GenerateAdminKey.
const adminScope = "ingest"

type AdminHandler struct {
	store *ledger.Store
	cfg   cliparse.Config
}

func NewAdminHandler(store *ledger.Store, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{store: store, cfg: cfg}
}

func (h *AdminHandler) authorized(w http.ResponseWriter, r *http.Request) bool {
	key := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(adminScope, key, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return false
	}
	return true
}

// IngestPrompts handles POST /admin/prompts with a TSV body
func (h *AdminHandler) IngestPrompts(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}
	defer r.Body.Close()

	prompts, err := ingest.ReadPrompts(r.Body)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := ingest.IngestPrompts(r.Context(), h.store, prompts)
	if err != nil {
		slog.Error("failed to ingest prompts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("prompts ingested", "rows", rows)
	middleware.JSONResponse(w, http.StatusOK, models.IngestResponse{Rows: rows})
}

// IngestOutputs handles POST /admin/outputs?system_id=&task= with a TSV body
func (h *AdminHandler) IngestOutputs(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}
	defer r.Body.Close()

	systemID := r.URL.Query().Get("system_id")
	if systemID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "system_id is required")
		return
	}
	task, err := models.ParseTask(r.URL.Query().Get("task"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid task")
		return
	}

	texts, err := ingest.ReadSubmission(r.Body)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := ingest.IngestOutputs(r.Context(), h.store, systemID, task, texts)
	if err != nil {
		var mismatch *models.PromptSetMismatchError
		if errors.As(err, &mismatch) {
			middleware.ErrorResponse(w, http.StatusBadRequest, mismatch.Error())
			return
		}
		slog.Error("failed to ingest outputs", "error", err, "system", systemID, "task", task)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("outputs ingested", "system", systemID, "task", string(task), "rows", rows)
	middleware.JSONResponse(w, http.StatusOK, models.IngestResponse{Rows: rows})
}
