// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pairvote/models"
)

// Store is the vote ledger: an append-only record of battles judged by
// sessions, plus the prompt/system/output tables it aggregates over.
// All SQL is portable between sqlite and postgres.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// storageErr classifies a database failure under models.ErrStorage while
// keeping the driver error in the chain.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, models.ErrStorage, err)
}

// AddVote records one judged battle. The vote key is
// (prompt_id, system_id_a, system_id_b, session_id): re-submitting the
// same key is a silent no-op and the first vote wins.
func (s *Store) AddVote(ctx context.Context, v models.VoteRecord) error {
	if !v.Vote.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidVote, v.Vote)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO votes (prompt_id, system_id_a, system_id_b, session_id, vote, date, is_offensive_a, is_offensive_b)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT DO NOTHING`,
		v.PromptID, v.SystemIDA, v.SystemIDB, v.SessionID, string(v.Vote), v.Date.UTC(), v.IsOffensiveA, v.IsOffensiveB)
	if err != nil {
		return storageErr("failed to record vote", err)
	}
	return nil
}

// ProlificConsent records the consent timestamp for a prolific session.
// Re-consenting keeps the original timestamp.
func (s *Store) ProlificConsent(ctx context.Context, sessionID string, when time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO prolific (session_id, consent_date)
		VALUES ($1, $2)
		ON CONFLICT (session_id) DO NOTHING`,
		sessionID, when.UTC())
	if err != nil {
		return storageErr("failed to record consent", err)
	}
	return nil
}

// ProlificFinish records the finish timestamp and free-form comments,
// creating the row if the participant never hit the consent endpoint.
func (s *Store) ProlificFinish(ctx context.Context, sessionID, comments string, when time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO prolific (session_id, finish_date, comments)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id) DO UPDATE
		SET finish_date = excluded.finish_date, comments = excluded.comments`,
		sessionID, when.UTC(), comments)
	if err != nil {
		return storageErr("failed to record finish", err)
	}
	return nil
}

// InsertPrompts loads validated prompts in one transaction. Re-loading
// a prompt ID replaces its content.
func (s *Store) InsertPrompts(ctx context.Context, prompts []models.Prompt) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("failed to begin prompt load", err)
	}
	defer tx.Rollback()

	for _, p := range prompts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO prompts (prompt_id, task, word1, word2, headline, url, prompt_text)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (prompt_id) DO UPDATE
			SET task = excluded.task, word1 = excluded.word1, word2 = excluded.word2,
			    headline = excluded.headline, url = excluded.url, prompt_text = excluded.prompt_text`,
			p.ID, string(p.Task()), nullable(p.Word1), nullable(p.Word2),
			nullable(p.Headline), nullable(p.URL), nullable(p.PromptText))
		if err != nil {
			return storageErr(fmt.Sprintf("failed to load prompt %q", p.ID), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return storageErr("failed to commit prompt load", err)
	}
	return nil
}

// ReferencePromptIDs returns the ingested prompt IDs for a task, sorted.
func (s *Store) ReferencePromptIDs(ctx context.Context, task models.Task) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT prompt_id FROM prompts WHERE task = $1 ORDER BY prompt_id`, string(task))
	if err != nil {
		return nil, storageErr("failed to query reference prompts", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, storageErr("failed to scan prompt ID", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ReplaceOutputs upserts a system's outputs in one transaction,
// creating the system row if needed. Validation of the prompt-ID set
// happens before this is called; here a replay simply overwrites.
func (s *Store) ReplaceOutputs(ctx context.Context, systemID string, texts map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("failed to begin output load", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO systems (system_id) VALUES ($1) ON CONFLICT DO NOTHING`, systemID)
	if err != nil {
		return storageErr(fmt.Sprintf("failed to ensure system %q", systemID), err)
	}

	for promptID, text := range texts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO outputs (prompt_id, system_id, text)
			VALUES ($1, $2, $3)
			ON CONFLICT (prompt_id, system_id) DO UPDATE SET text = excluded.text`,
			promptID, systemID, text)
		if err != nil {
			return storageErr(fmt.Sprintf("failed to load output (%q, %q)", promptID, systemID), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return storageErr("failed to commit output load", err)
	}
	return nil
}

// nullable maps "" to NULL so empty prompt variants stay unset.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
