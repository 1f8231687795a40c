// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"pairvote/middleware"
)

// ExportVotes handles GET /votes.csv
func (h *AggregateHandler) ExportVotes(w http.ResponseWriter, r *http.Request) {
	votes, err := h.store.AllVotes(r.Context())
	if err != nil {
		slog.Error("failed to export votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="votes.csv"`)

	cw := csv.NewWriter(w)
	header := []string{"prompt_id", "system_id_a", "system_id_b", "session_id", "vote", "date", "is_offensive_a", "is_offensive_b"}
	if err := cw.Write(header); err != nil {
		slog.Error("failed to write CSV header", "error", err)
		return
	}
	for _, v := range votes {
		row := []string{
			v.PromptID,
			v.SystemIDA,
			v.SystemIDB,
			v.SessionID,
			string(v.Vote),
			v.Date.UTC().Format(time.RFC3339),
			strconv.FormatBool(v.IsOffensiveA),
			strconv.FormatBool(v.IsOffensiveB),
		}
		if err := cw.Write(row); err != nil {
			slog.Error("failed to write CSV row", "error", err)
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		slog.Error("failed to flush CSV export", "error", err)
	}
}
