// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"

	"pairvote/models"
)

// VoteCount returns the total number of votes, optionally excluding
// skips.
func (s *Store) VoteCount(ctx context.Context, withoutSkips bool) (int, error) {
	query := `SELECT COUNT(*) FROM votes`
	if withoutSkips {
		query += ` WHERE vote <> 'n'`
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, storageErr("failed to count votes", err)
	}
	return n, nil
}

// SessionVoteCount returns one session's non-skip vote total.
func (s *Store) SessionVoteCount(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM votes WHERE session_id = $1 AND vote <> 'n'`, sessionID).Scan(&n)
	if err != nil {
		return 0, storageErr("failed to count session votes", err)
	}
	return n, nil
}

// SessionCount returns the number of distinct voting sessions,
// optionally counting only sessions with at least one non-skip vote.
func (s *Store) SessionCount(ctx context.Context, withoutSkips bool) (int, error) {
	query := `SELECT COUNT(DISTINCT session_id) FROM votes`
	if withoutSkips {
		query += ` WHERE vote <> 'n'`
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, storageErr("failed to count sessions", err)
	}
	return n, nil
}

// VotesPerSystem returns non-skip vote totals for every system that has
// an output for the task, zero-filled so rankings always list all
// participants.
func (s *Store) VotesPerSystem(ctx context.Context, task models.Task) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT o.system_id
		FROM outputs o
		JOIN prompts p ON p.prompt_id = o.prompt_id
		WHERE p.task = $1`, string(task))
	if err != nil {
		return nil, storageErr("failed to query task systems", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var systemID string
		if err := rows.Scan(&systemID); err != nil {
			return nil, storageErr("failed to scan system", err)
		}
		counts[systemID] = 0
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	voted, err := s.SystemVoteCounts(ctx, task)
	if err != nil {
		return nil, err
	}
	for systemID, n := range voted {
		counts[systemID] = n
	}
	return counts, nil
}

// VotesPerSession returns non-skip vote totals per session.
func (s *Store) VotesPerSession(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, COUNT(*) FROM votes WHERE vote <> 'n' GROUP BY session_id`)
	if err != nil {
		return nil, storageErr("failed to query votes per session", err)
	}
	defer rows.Close()
	return scanCounts(rows)
}

// VotesPerCategory returns totals per vote choice. Every choice is
// present in the result, zero-filled when it has no votes yet.
func (s *Store) VotesPerCategory(ctx context.Context) (map[models.Vote]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT vote, COUNT(*) FROM votes GROUP BY vote`)
	if err != nil {
		return nil, storageErr("failed to query votes per category", err)
	}
	defer rows.Close()

	counts := make(map[models.Vote]int, len(models.VoteChoices))
	for _, v := range models.VoteChoices {
		counts[v] = 0
	}
	for rows.Next() {
		var (
			v string
			n int
		)
		if err := rows.Scan(&v, &n); err != nil {
			return nil, storageErr("failed to scan category count", err)
		}
		counts[models.Vote(v)] = n
	}
	return counts, rows.Err()
}

// PromptVoteHistogram buckets prompts by their non-skip vote totals:
// histogram[k] is the number of prompts with exactly k votes. Prompts
// without outputs are excluded; they were never eligible.
func (s *Store) PromptVoteHistogram(ctx context.Context) (map[int]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.prompt_id, COUNT(v.prompt_id)
		FROM prompts p
		LEFT JOIN votes v ON v.prompt_id = p.prompt_id AND v.vote <> 'n'
		WHERE EXISTS (SELECT 1 FROM outputs o WHERE o.prompt_id = p.prompt_id)
		GROUP BY p.prompt_id`)
	if err != nil {
		return nil, storageErr("failed to query prompt histogram", err)
	}
	defer rows.Close()

	histogram := make(map[int]int)
	for rows.Next() {
		var (
			promptID string
			n        int
		)
		if err := rows.Scan(&promptID, &n); err != nil {
			return nil, storageErr("failed to scan histogram row", err)
		}
		histogram[n]++
	}
	return histogram, rows.Err()
}

// AllVotes returns the full ledger in insertion-date order, for export.
func (s *Store) AllVotes(ctx context.Context) ([]models.VoteRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT prompt_id, system_id_a, system_id_b, session_id, vote, date, is_offensive_a, is_offensive_b
		FROM votes
		ORDER BY date, prompt_id, system_id_a, system_id_b`)
	if err != nil {
		return nil, storageErr("failed to query votes", err)
	}
	defer rows.Close()

	var votes []models.VoteRecord
	for rows.Next() {
		var (
			v    models.VoteRecord
			vote string
		)
		if err := rows.Scan(&v.PromptID, &v.SystemIDA, &v.SystemIDB, &v.SessionID,
			&vote, &v.Date, &v.IsOffensiveA, &v.IsOffensiveB); err != nil {
			return nil, storageErr("failed to scan vote", err)
		}
		v.Vote = models.Vote(vote)
		votes = append(votes, v)
	}
	return votes, rows.Err()
}
