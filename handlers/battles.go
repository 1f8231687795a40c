// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"pairvote/arena"
	"pairvote/auth"
	"pairvote/cliparse"
	"pairvote/ledger"
	"pairvote/middleware"
	"pairvote/models"
)

type BattleHandler struct {
	store *ledger.Store
	codec *auth.TokenCodec
	cfg   cliparse.Config
}

func NewBattleHandler(store *ledger.Store, codec *auth.TokenCodec, cfg cliparse.Config) *BattleHandler {
	return &BattleHandler{
		store: store,
		codec: codec,
		cfg:   cfg,
	}
}

// GetBattles handles GET /battles?task=
func (h *BattleHandler) GetBattles(w http.ResponseWriter, r *http.Request) {
	task := taskOrDefault(r.URL.Query().Get("task"))
	sessionID := middleware.SessionID(w, r)

	battles, err := h.serveBatch(r, task, sessionID, h.cfg.BatchSize, nil)
	if err != nil {
		slog.Error("failed to select battles", "error", err, "task", task, "session", sessionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	responses := make([]models.BattleResponse, 0, len(battles))
	for _, b := range battles {
		resp, err := h.battleResponse(b)
		if err != nil {
			slog.Error("failed to encode battle token", "error", err, "prompt", b.Prompt().ID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to serve battles")
			return
		}
		responses = append(responses, resp)
	}

	middleware.JSONResponse(w, http.StatusOK, responses)
}

// serveBatch runs the fair selector and pads any shortfall with uniform
// random battles so voters always get a full batch while the task has
// valid pairs.
func (h *BattleHandler) serveBatch(r *http.Request, task models.Task, sessionID string, batchSize int, ignored []models.OutputKey) ([]models.Battle, error) {
	snap, err := h.store.LoadSnapshot(r.Context(), task, sessionID)
	if err != nil {
		return nil, err
	}

	// A fresh selector per request: its rand source is not safe for
	// concurrent use, and selection state must not outlive the batch.
	sel := arena.NewSelector(nil)
	battles := sel.SelectBattles(snap, batchSize, ignored)
	if len(battles) < batchSize {
		battles = append(battles, sel.RandomBattles(snap, batchSize-len(battles))...)
	}
	return battles, nil
}

func (h *BattleHandler) battleResponse(b models.Battle) (models.BattleResponse, error) {
	prompt := b.Prompt()
	token, err := h.codec.Encode(prompt.ID, b.OutputA.System, b.OutputB.System)
	if err != nil {
		return models.BattleResponse{}, err
	}
	return models.BattleResponse{
		PromptID:       prompt.ID,
		Prompt:         prompt.Verbalized(),
		PromptImageURL: prompt.URL,
		OutputA:        b.OutputA.Text,
		OutputB:        b.OutputB.Text,
		Token:          token,
	}, nil
}

// taskOrDefault keeps unknown task names serving the English text task
// instead of erroring, so stale frontend links still work.
func taskOrDefault(s string) models.Task {
	task, err := models.ParseTask(s)
	if err != nil {
		return models.TaskAEn
	}
	return task
}
