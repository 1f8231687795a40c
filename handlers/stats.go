// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/montanaflynn/stats"

	"pairvote/middleware"
	"pairvote/models"
)

// Stats handles GET /stats
func (h *AggregateHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	votes, err := h.store.VoteCount(ctx, false)
	if err != nil {
		h.statsError(w, err)
		return
	}
	votesWithoutSkips, err := h.store.VoteCount(ctx, true)
	if err != nil {
		h.statsError(w, err)
		return
	}
	sessions, err := h.store.SessionCount(ctx, false)
	if err != nil {
		h.statsError(w, err)
		return
	}
	sessionsNonSkip, err := h.store.SessionCount(ctx, true)
	if err != nil {
		h.statsError(w, err)
		return
	}
	perCategory, err := h.store.VotesPerCategory(ctx)
	if err != nil {
		h.statsError(w, err)
		return
	}
	histogram, err := h.store.PromptVoteHistogram(ctx)
	if err != nil {
		h.statsError(w, err)
		return
	}

	// Per-task spread of system coverage: the population standard
	// deviation of per-system vote totals. Lower means the selector is
	// keeping coverage even.
	spread := make(map[models.Task]float64, len(models.Tasks))
	for _, task := range models.Tasks {
		counts, err := h.store.VotesPerSystem(ctx, task)
		if err != nil {
			h.statsError(w, err)
			return
		}
		if len(counts) == 0 {
			continue
		}
		values := make([]float64, 0, len(counts))
		for _, n := range counts {
			values = append(values, float64(n))
		}
		sd, err := stats.StdDevP(values)
		if err != nil {
			slog.Error("failed to compute coverage spread", "error", err, "task", task)
			continue
		}
		spread[task] = sd
	}

	middleware.JSONResponse(w, http.StatusOK, models.StatsResponse{
		Votes:             votes,
		VotesPretty:       humanize.Comma(int64(votes)),
		VotesWithoutSkips: votesWithoutSkips,
		Sessions:          sessions,
		SessionsNonSkip:   sessionsNonSkip,
		VotesPerCategory:  perCategory,
		Histogram:         histogram,
		CoverageSpread:    spread,
	})
}

func (h *AggregateHandler) statsError(w http.ResponseWriter, err error) {
	slog.Error("failed to build stats", "error", err)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
}
