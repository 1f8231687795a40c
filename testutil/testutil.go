// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package testutil provides helpers for tests: an in-process sqlite
// database with the full schema, seed helpers for fixtures, and small
// HTTP assertion utilities.
package testutil

import (
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"pairvote/cliparse"
	"pairvote/db"
	"pairvote/models"
)

// GetTestConfig returns a fully populated config for tests.
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3319,
		DatabaseURL:  "file:test.db",
		DatabaseType: "sqlite",
		AdminKeySalt: "test-salt",
		TokenKey:     []byte("0123456789abcdef"),
		BatchSize:    3,
		MaxBatchSize: 10,
	}
}

// SetupTestDB creates a fresh sqlite database in a temp directory with
// the full schema applied. The file is removed with the test's temp dir.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// sqlite allows one writer; serialize through a single connection.
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	return conn
}

// SeedPrompt inserts a word-pair prompt row.
func SeedPrompt(t *testing.T, conn *sql.DB, promptID, word1, word2 string) {
	t.Helper()
	task, err := models.TaskForPromptID(promptID)
	if err != nil {
		t.Fatalf("bad prompt ID %q: %v", promptID, err)
	}
	_, err = conn.Exec(`INSERT INTO prompts (prompt_id, task, word1, word2) VALUES ($1, $2, $3, $4)`,
		promptID, string(task), word1, word2)
	if err != nil {
		t.Fatalf("failed to seed prompt %q: %v", promptID, err)
	}
}

// SeedImagePrompt inserts a url prompt row.
func SeedImagePrompt(t *testing.T, conn *sql.DB, promptID, url, promptText string) {
	t.Helper()
	task, err := models.TaskForPromptID(promptID)
	if err != nil {
		t.Fatalf("bad prompt ID %q: %v", promptID, err)
	}
	_, err = conn.Exec(`INSERT INTO prompts (prompt_id, task, url, prompt_text) VALUES ($1, $2, $3, $4)`,
		promptID, string(task), url, promptText)
	if err != nil {
		t.Fatalf("failed to seed prompt %q: %v", promptID, err)
	}
}

// SeedSystem inserts a system row, ignoring duplicates.
func SeedSystem(t *testing.T, conn *sql.DB, systemID string) {
	t.Helper()
	_, err := conn.Exec(`INSERT INTO systems (system_id) VALUES ($1) ON CONFLICT DO NOTHING`, systemID)
	if err != nil {
		t.Fatalf("failed to seed system %q: %v", systemID, err)
	}
}

// SeedOutput inserts an output row, creating the system if needed.
func SeedOutput(t *testing.T, conn *sql.DB, promptID, systemID, text string) {
	t.Helper()
	SeedSystem(t, conn, systemID)
	_, err := conn.Exec(`INSERT INTO outputs (prompt_id, system_id, text) VALUES ($1, $2, $3)`,
		promptID, systemID, text)
	if err != nil {
		t.Fatalf("failed to seed output (%q, %q): %v", promptID, systemID, err)
	}
}

// SeedVote inserts a vote row directly, bypassing the ledger.
func SeedVote(t *testing.T, conn *sql.DB, promptID, systemA, systemB, sessionID string, vote models.Vote) {
	t.Helper()
	_, err := conn.Exec(`
		INSERT INTO votes (prompt_id, system_id_a, system_id_b, session_id, vote, date, is_offensive_a, is_offensive_b)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		promptID, systemA, systemB, sessionID, string(vote), time.Now().UTC(), false, false)
	if err != nil {
		t.Fatalf("failed to seed vote (%q, %q, %q, %q): %v", promptID, systemA, systemB, sessionID, err)
	}
}

// MakeRequest performs an HTTP request against a handler and returns
// the response recorder.
func MakeRequest(t *testing.T, handler http.Handler, method, path string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// AssertStatus fails the test if the recorded status differs.
func AssertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d (body: %s)", want, rec.Code, rec.Body.String())
	}
}

// DecodeJSON unmarshals the recorded body into out.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response body %q: %v", rec.Body.String(), err)
	}
}
