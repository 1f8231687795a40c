// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Portable across sqlite and postgres: no DEFAULT NOW(), timestamps are
// always written from Go.
const schema = `
-- Prompts. Exactly one of word1+word2, headline, or url(+prompt_text)
-- is populated; task is derived from the prompt_id prefix at ingest.
CREATE TABLE IF NOT EXISTS prompts (
    prompt_id TEXT PRIMARY KEY,
    task TEXT NOT NULL,
    word1 TEXT,
    word2 TEXT,
    headline TEXT,
    url TEXT,
    prompt_text TEXT
);

CREATE INDEX IF NOT EXISTS idx_prompts_task ON prompts(task);

-- Participant systems
CREATE TABLE IF NOT EXISTS systems (
    system_id TEXT PRIMARY KEY
);

-- One output per system per prompt
CREATE TABLE IF NOT EXISTS outputs (
    prompt_id TEXT NOT NULL REFERENCES prompts(prompt_id),
    system_id TEXT NOT NULL REFERENCES systems(system_id),
    text TEXT NOT NULL,
    PRIMARY KEY (prompt_id, system_id)
);

CREATE INDEX IF NOT EXISTS idx_outputs_system_id ON outputs(system_id);

-- Append-only vote ledger. The primary key is the idempotency
-- mechanism: re-submitting the same battle key for a session is a
-- no-op and the first vote wins.
CREATE TABLE IF NOT EXISTS votes (
    prompt_id TEXT NOT NULL REFERENCES prompts(prompt_id),
    system_id_a TEXT NOT NULL REFERENCES systems(system_id),
    system_id_b TEXT NOT NULL REFERENCES systems(system_id),
    session_id TEXT NOT NULL,
    vote TEXT NOT NULL CHECK (vote IN ('a', 'b', 't', 'n')),
    date TIMESTAMP NOT NULL,
    is_offensive_a BOOLEAN NOT NULL,
    is_offensive_b BOOLEAN NOT NULL,
    PRIMARY KEY (prompt_id, system_id_a, system_id_b, session_id)
);

CREATE INDEX IF NOT EXISTS idx_votes_session_id ON votes(session_id);

-- Prolific participant bookkeeping
CREATE TABLE IF NOT EXISTS prolific (
    session_id TEXT PRIMARY KEY,
    consent_date TIMESTAMP,
    finish_date TIMESTAMP,
    comments TEXT
);
`
