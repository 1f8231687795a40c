// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"

	"pairvote/arena"
	"pairvote/models"
)

// OutputsForTask returns every output of a task joined with its prompt,
// grouped by prompt ID. Rows come back in (prompt_id, system_id) order
// so snapshots are stable across calls.
func (s *Store) OutputsForTask(ctx context.Context, task models.Task) (map[string][]models.Output, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.prompt_id, p.word1, p.word2, p.headline, p.url, p.prompt_text, o.system_id, o.text
		FROM outputs o
		JOIN prompts p ON p.prompt_id = o.prompt_id
		WHERE p.task = $1
		ORDER BY p.prompt_id, o.system_id`, string(task))
	if err != nil {
		return nil, storageErr("failed to query outputs", err)
	}
	defer rows.Close()

	outputs := make(map[string][]models.Output)
	for rows.Next() {
		var (
			promptID, systemID, text           string
			word1, word2, headline, url, ptext sql.NullString
		)
		if err := rows.Scan(&promptID, &word1, &word2, &headline, &url, &ptext, &systemID, &text); err != nil {
			return nil, storageErr("failed to scan output", err)
		}
		prompt := models.Prompt{
			ID:         promptID,
			Word1:      word1.String,
			Word2:      word2.String,
			Headline:   headline.String,
			URL:        url.String,
			PromptText: ptext.String,
		}
		outputs[promptID] = append(outputs[promptID], models.Output{
			Prompt: prompt,
			System: systemID,
			Text:   text,
		})
	}
	return outputs, rows.Err()
}

// SystemVoteCounts counts non-skip votes touching each system on either
// side, scoped to one task. Only systems that still have an output for
// the task are counted; systems without votes are absent.
func (s *Store) SystemVoteCounts(ctx context.Context, task models.Task) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sides.system_id, COUNT(*)
		FROM (
			SELECT prompt_id, system_id_a AS system_id FROM votes WHERE vote <> 'n'
			UNION ALL
			SELECT prompt_id, system_id_b FROM votes WHERE vote <> 'n'
		) sides
		JOIN prompts p ON p.prompt_id = sides.prompt_id
		WHERE p.task = $1
		AND EXISTS (
			SELECT 1 FROM outputs o
			JOIN prompts op ON op.prompt_id = o.prompt_id
			WHERE o.system_id = sides.system_id AND op.task = $2
		)
		GROUP BY sides.system_id`, string(task), string(task))
	if err != nil {
		return nil, storageErr("failed to query system vote counts", err)
	}
	defer rows.Close()
	return scanCounts(rows)
}

// PromptVoteCounts counts non-skip votes per prompt, scoped to one task.
func (s *Store) PromptVoteCounts(ctx context.Context, task models.Task) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT v.prompt_id, COUNT(*)
		FROM votes v
		JOIN prompts p ON p.prompt_id = v.prompt_id
		WHERE p.task = $1 AND v.vote <> 'n'
		GROUP BY v.prompt_id`, string(task))
	if err != nil {
		return nil, storageErr("failed to query prompt vote counts", err)
	}
	defer rows.Close()
	return scanCounts(rows)
}

// SessionSeenCounts counts how often one session has voted on each
// output of a task, across both presentation sides. Skips count as
// seen: the session was shown the output either way.
func (s *Store) SessionSeenCounts(ctx context.Context, task models.Task, sessionID string) (map[models.OutputKey]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sides.prompt_id, sides.system_id, COUNT(*)
		FROM (
			SELECT prompt_id, system_id_a AS system_id FROM votes WHERE session_id = $1
			UNION ALL
			SELECT prompt_id, system_id_b FROM votes WHERE session_id = $2
		) sides
		JOIN prompts p ON p.prompt_id = sides.prompt_id
		WHERE p.task = $3
		GROUP BY sides.prompt_id, sides.system_id`,
		sessionID, sessionID, string(task))
	if err != nil {
		return nil, storageErr("failed to query session seen counts", err)
	}
	defer rows.Close()

	seen := make(map[models.OutputKey]int)
	for rows.Next() {
		var (
			k models.OutputKey
			n int
		)
		if err := rows.Scan(&k.PromptID, &k.SystemID, &n); err != nil {
			return nil, storageErr("failed to scan seen count", err)
		}
		seen[k] = n
	}
	return seen, rows.Err()
}

// LoadSnapshot assembles the selector's view of one task for one
// session. The snapshot is a plain read; concurrent voters may race it,
// which the vote key's idempotency absorbs.
func (s *Store) LoadSnapshot(ctx context.Context, task models.Task, sessionID string) (*arena.Snapshot, error) {
	outputs, err := s.OutputsForTask(ctx, task)
	if err != nil {
		return nil, err
	}
	systemVotes, err := s.SystemVoteCounts(ctx, task)
	if err != nil {
		return nil, err
	}
	promptVotes, err := s.PromptVoteCounts(ctx, task)
	if err != nil {
		return nil, err
	}
	sessionSeen, err := s.SessionSeenCounts(ctx, task, sessionID)
	if err != nil {
		return nil, err
	}
	return &arena.Snapshot{
		Outputs:     outputs,
		SystemVotes: systemVotes,
		PromptVotes: promptVotes,
		SessionSeen: sessionSeen,
	}, nil
}

func scanCounts(rows *sql.Rows) (map[string]int, error) {
	counts := make(map[string]int)
	for rows.Next() {
		var (
			key string
			n   int
		)
		if err := rows.Scan(&key, &n); err != nil {
			return nil, storageErr("failed to scan count", err)
		}
		counts[key] = n
	}
	return counts, rows.Err()
}
