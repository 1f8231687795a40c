// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"pairvote/auth"
	"pairvote/middleware"
	"pairvote/models"
)

// SubmitVote handles POST /vote
func (h *BattleHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(w, r)

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	promptID, systemA, systemB, err := h.codec.Decode(req.Token)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid battle token")
		return
	}

	vote, err := models.ParseVote(req.Vote)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid vote choice")
		return
	}

	ignored, err := h.decodeIgnored(req.IgnoredTokens)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid ignored token")
		return
	}

	record := models.VoteRecord{
		PromptID:     promptID,
		SystemIDA:    systemA,
		SystemIDB:    systemB,
		SessionID:    sessionID,
		Vote:         vote,
		Date:         time.Now().UTC(),
		IsOffensiveA: req.IsOffensiveA,
		IsOffensiveB: req.IsOffensiveB,
	}
	if err := h.store.AddVote(r.Context(), record); err != nil {
		if errors.Is(err, models.ErrInvalidVote) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid vote choice")
			return
		}
		slog.Error("failed to record vote", "error", err, "prompt", promptID, "session", sessionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	// Hash the client IP for the audit log; the raw address is never kept.
	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKeySalt)
	slog.Info("vote recorded", "prompt", promptID, "vote", string(vote), "session", sessionID, "ip_hash", ipHash)

	// Serve the next battle for the same task, excluding outputs the
	// voter asked to ignore.
	task, err := models.TaskForPromptID(promptID)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid battle token")
		return
	}
	next, err := h.serveBatch(r, task, sessionID, 1, ignored)
	if err != nil {
		slog.Error("failed to select next battle", "error", err, "task", task, "session", sessionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var resp models.VoteResponse
	if len(next) > 0 {
		battle, err := h.battleResponse(next[0])
		if err != nil {
			slog.Error("failed to encode battle token", "error", err, "prompt", next[0].Prompt().ID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to serve battles")
			return
		}
		resp.Next = &battle
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// decodeIgnored turns ignored battle tokens into exclusion keys. Both
// outputs of an ignored battle are excluded.
func (h *BattleHandler) decodeIgnored(tokens []string) ([]models.OutputKey, error) {
	var keys []models.OutputKey
	for _, token := range tokens {
		promptID, systemA, systemB, err := h.codec.Decode(token)
		if err != nil {
			return nil, auth.ErrInvalidToken
		}
		keys = append(keys,
			models.OutputKey{PromptID: promptID, SystemID: systemA},
			models.OutputKey{PromptID: promptID, SystemID: systemB},
		)
	}
	return keys, nil
}
