// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pairvote/auth"
	"pairvote/cliparse"
	"pairvote/handlers"
	"pairvote/ledger"
	"pairvote/models"
	"pairvote/testutil"
)

func testConfig() cliparse.Config {
	return testutil.GetTestConfig()
}

func testCodec(t *testing.T) *auth.TokenCodec {
	t.Helper()
	codec, err := auth.NewTokenCodec(testConfig().TokenKey)
	if err != nil {
		t.Fatalf("failed to create token codec: %v", err)
	}
	return codec
}

// seedArena loads three systems with outputs for two a-en prompts.
func seedArena(t *testing.T, conn *sql.DB) {
	t.Helper()
	testutil.SeedPrompt(t, conn, "en_00001", "cat", "moon")
	testutil.SeedPrompt(t, conn, "en_00002", "dog", "sun")
	for _, promptID := range []string{"en_00001", "en_00002"} {
		for _, systemID := range []string{"s1", "s2", "s3"} {
			testutil.SeedOutput(t, conn, promptID, systemID, "output of "+systemID+" for "+promptID)
		}
	}
}

func sessionRequest(method, path string, body *bytes.Buffer) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.AddCookie(&http.Cookie{Name: "id", Value: "test-session"})
	return req
}

func TestGetBattles(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	seedArena(t, conn)
	h := handlers.NewBattleHandler(ledger.NewStore(conn), testCodec(t), testConfig())

	req := sessionRequest("GET", "/battles?task=a-en", nil)
	w := httptest.NewRecorder()
	h.GetBattles(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (body: %s)", w.Code, w.Body.String())
	}

	var battles []models.BattleResponse
	if err := json.Unmarshal(w.Body.Bytes(), &battles); err != nil {
		t.Fatalf("failed to decode battles: %v", err)
	}
	if len(battles) != 3 {
		t.Fatalf("expected a batch of 3 battles, got %d", len(battles))
	}
	for i, b := range battles {
		if b.Token == "" {
			t.Errorf("battle %d: missing token", i)
		}
		if b.OutputA == "" || b.OutputB == "" {
			t.Errorf("battle %d: missing output text", i)
		}
		if b.OutputA == b.OutputB {
			t.Errorf("battle %d: identical outputs", i)
		}
		if b.Prompt == "" {
			t.Errorf("battle %d: missing verbalized prompt", i)
		}
		if strings.Contains(b.OutputA, "system_id") {
			t.Errorf("battle %d: system identity leaked", i)
		}
	}
}

func TestGetBattlesUnknownTaskFallsBack(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	seedArena(t, conn)
	h := handlers.NewBattleHandler(ledger.NewStore(conn), testCodec(t), testConfig())

	req := sessionRequest("GET", "/battles?task=bogus", nil)
	w := httptest.NewRecorder()
	h.GetBattles(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var battles []models.BattleResponse
	if err := json.Unmarshal(w.Body.Bytes(), &battles); err != nil {
		t.Fatal(err)
	}
	if len(battles) == 0 {
		t.Fatal("expected the unknown task to fall back to a-en battles")
	}
	if !strings.HasPrefix(battles[0].PromptID, "en_") {
		t.Errorf("expected an a-en prompt, got %q", battles[0].PromptID)
	}
}

func TestGetBattlesEmptyTask(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	h := handlers.NewBattleHandler(ledger.NewStore(conn), testCodec(t), testConfig())

	req := sessionRequest("GET", "/battles?task=b1", nil)
	w := httptest.NewRecorder()
	h.GetBattles(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var battles []models.BattleResponse
	if err := json.Unmarshal(w.Body.Bytes(), &battles); err != nil {
		t.Fatal(err)
	}
	if len(battles) != 0 {
		t.Errorf("expected an empty batch for a task without outputs, got %d", len(battles))
	}
}

func TestSubmitVoteRoundTrip(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	seedArena(t, conn)
	store := ledger.NewStore(conn)
	h := handlers.NewBattleHandler(store, testCodec(t), testConfig())

	// Fetch a battle first
	req := sessionRequest("GET", "/battles?task=a-en", nil)
	w := httptest.NewRecorder()
	h.GetBattles(w, req)
	var battles []models.BattleResponse
	if err := json.Unmarshal(w.Body.Bytes(), &battles); err != nil {
		t.Fatal(err)
	}
	if len(battles) == 0 {
		t.Fatal("no battles served")
	}

	// Vote on it
	body, _ := json.Marshal(models.VoteRequest{Token: battles[0].Token, Vote: "a"})
	req = sessionRequest("POST", "/vote", bytes.NewBuffer(body))
	w = httptest.NewRecorder()
	h.SubmitVote(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (body: %s)", w.Code, w.Body.String())
	}

	var resp models.VoteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Next == nil {
		t.Error("expected a next battle while fresh pairs remain")
	}

	count, err := store.SessionVoteCount(req.Context(), "test-session")
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected 1 recorded vote, got %d", count)
	}
}

func TestSubmitVoteReplayIsSilent(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	seedArena(t, conn)
	store := ledger.NewStore(conn)
	h := handlers.NewBattleHandler(store, testCodec(t), testConfig())

	token, err := testCodec(t).Encode("en_00001", "s1", "s2")
	if err != nil {
		t.Fatal(err)
	}

	for _, vote := range []string{"a", "b"} {
		body, _ := json.Marshal(models.VoteRequest{Token: token, Vote: vote})
		req := sessionRequest("POST", "/vote", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		h.SubmitVote(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("vote %q: expected status 200, got %d", vote, w.Code)
		}
	}

	votes, err := store.AllVotes(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(votes) != 1 {
		t.Fatalf("expected 1 vote after replay, got %d", len(votes))
	}
	if votes[0].Vote != models.VoteA {
		t.Errorf("expected the first vote to win, got %q", votes[0].Vote)
	}
}

func TestSubmitVoteRejectsTamperedToken(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	seedArena(t, conn)
	h := handlers.NewBattleHandler(ledger.NewStore(conn), testCodec(t), testConfig())

	cases := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(models.VoteRequest{Token: tc.token, Vote: "a"})
			req := sessionRequest("POST", "/vote", bytes.NewBuffer(body))
			w := httptest.NewRecorder()
			h.SubmitVote(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestSubmitVoteRejectsInvalidChoice(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	seedArena(t, conn)
	h := handlers.NewBattleHandler(ledger.NewStore(conn), testCodec(t), testConfig())

	token, err := testCodec(t).Encode("en_00001", "s1", "s2")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := json.Marshal(models.VoteRequest{Token: token, Vote: "x"})
	req := sessionRequest("POST", "/vote", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	h.SubmitVote(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestSubmitVoteHonorsIgnoredTokens(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	// Single prompt, two systems: ignoring the only pair leaves nothing.
	testutil.SeedPrompt(t, conn, "en_00001", "cat", "moon")
	testutil.SeedOutput(t, conn, "en_00001", "s1", "one")
	testutil.SeedOutput(t, conn, "en_00001", "s2", "two")
	h := handlers.NewBattleHandler(ledger.NewStore(conn), testCodec(t), testConfig())

	token, err := testCodec(t).Encode("en_00001", "s1", "s2")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := json.Marshal(models.VoteRequest{
		Token:         token,
		Vote:          "n",
		IgnoredTokens: []string{token},
	})
	req := sessionRequest("POST", "/vote", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	h.SubmitVote(w, req)

	// The fair selector has nothing left; the random fallback may still
	// serve the pair. Either way this must not fail.
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (body: %s)", w.Code, w.Body.String())
	}
}

func TestSessionVoteCountEndpoint(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	seedArena(t, conn)
	h := handlers.NewAggregateHandler(ledger.NewStore(conn))

	testutil.SeedVote(t, conn, "en_00001", "s1", "s2", "test-session", models.VoteA)
	testutil.SeedVote(t, conn, "en_00002", "s1", "s2", "test-session", models.VoteSkip)

	req := sessionRequest("GET", "/session-vote-count", nil)
	w := httptest.NewRecorder()
	h.SessionVoteCount(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["count"] != 1 {
		t.Errorf("expected 1 non-skip vote, got %d", resp["count"])
	}
}

func TestVotesPerSystemEndpoint(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	seedArena(t, conn)
	h := handlers.NewAggregateHandler(ledger.NewStore(conn))

	testutil.SeedVote(t, conn, "en_00001", "s1", "s2", "sess-1", models.VoteA)

	req := sessionRequest("GET", "/votes-per-system?task=a-en", nil)
	w := httptest.NewRecorder()
	h.VotesPerSystem(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var counts map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &counts); err != nil {
		t.Fatal(err)
	}
	if len(counts) != 3 {
		t.Fatalf("expected all 3 systems, got %v", counts)
	}
	if counts["s3"] != 0 {
		t.Errorf("expected zero-filled s3, got %d", counts["s3"])
	}
}

func TestExportVotesCSV(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	seedArena(t, conn)
	h := handlers.NewAggregateHandler(ledger.NewStore(conn))

	testutil.SeedVote(t, conn, "en_00001", "s1", "s2", "sess-1", models.VoteTie)

	req := sessionRequest("GET", "/votes.csv", nil)
	w := httptest.NewRecorder()
	h.ExportVotes(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("expected text/csv, got %q", ct)
	}
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "prompt_id,") {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], ",t,") {
		t.Errorf("expected the tie vote in the row: %q", lines[1])
	}
}

func TestStatsEndpoint(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	seedArena(t, conn)
	h := handlers.NewAggregateHandler(ledger.NewStore(conn))

	testutil.SeedVote(t, conn, "en_00001", "s1", "s2", "sess-1", models.VoteA)
	testutil.SeedVote(t, conn, "en_00002", "s1", "s3", "sess-1", models.VoteSkip)

	req := sessionRequest("GET", "/stats", nil)
	w := httptest.NewRecorder()
	h.Stats(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (body: %s)", w.Code, w.Body.String())
	}
	var resp models.StatsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Votes != 2 {
		t.Errorf("expected 2 votes, got %d", resp.Votes)
	}
	if resp.VotesWithoutSkips != 1 {
		t.Errorf("expected 1 non-skip vote, got %d", resp.VotesWithoutSkips)
	}
	if resp.VotesPretty != "2" {
		t.Errorf("expected humanized total '2', got %q", resp.VotesPretty)
	}
	if resp.VotesPerCategory[models.VoteA] != 1 || resp.VotesPerCategory[models.VoteSkip] != 1 {
		t.Errorf("unexpected per-category counts: %v", resp.VotesPerCategory)
	}
	if _, ok := resp.CoverageSpread[models.TaskAEn]; !ok {
		t.Error("expected a coverage spread entry for a-en")
	}
}

func TestProlificEndpoints(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	h := handlers.NewProlificHandler(ledger.NewStore(conn))

	req := httptest.NewRequest("POST", "/prolific-consent?PROLIFIC_PID=P1&SESSION_ID=S1", nil)
	w := httptest.NewRecorder()
	h.Consent(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("consent: expected status 200, got %d", w.Code)
	}

	body, _ := json.Marshal(models.ProlificFinishRequest{Comments: "fine study"})
	req = httptest.NewRequest("POST", "/prolific-finish?PROLIFIC_PID=P1&SESSION_ID=S1", bytes.NewBuffer(body))
	w = httptest.NewRecorder()
	h.Finish(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("finish: expected status 200, got %d", w.Code)
	}

	var comments string
	err := conn.QueryRow(`SELECT comments FROM prolific WHERE session_id = $1`, "prolific-id-P1-S1").Scan(&comments)
	if err != nil {
		t.Fatalf("failed to read prolific row: %v", err)
	}
	if comments != "fine study" {
		t.Errorf("expected comments to be stored, got %q", comments)
	}
}

func TestAdminIngestion(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testConfig()
	h := handlers.NewAdminHandler(ledger.NewStore(conn), cfg)
	adminKey := auth.GenerateAdminKey("ingest", cfg.AdminKeySalt)

	t.Run("rejects a missing key", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/admin/prompts", strings.NewReader("id\tword1\tword2\theadline\turl\tprompt\n"))
		w := httptest.NewRecorder()
		h.IngestPrompts(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", w.Code)
		}
	})

	t.Run("loads prompts then outputs", func(t *testing.T) {
		promptTSV := "id\tword1\tword2\theadline\turl\tprompt\nen_00001\tcat\tmoon\t-\t-\t-\n"
		req := httptest.NewRequest("POST", "/admin/prompts", strings.NewReader(promptTSV))
		req.Header.Set("X-Admin-Key", adminKey)
		w := httptest.NewRecorder()
		h.IngestPrompts(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("prompts: expected status 200, got %d (body: %s)", w.Code, w.Body.String())
		}

		outputTSV := "id\ttext\nen_00001\thello world\n"
		req = httptest.NewRequest("POST", "/admin/outputs?system_id=s1&task=a-en", strings.NewReader(outputTSV))
		req.Header.Set("X-Admin-Key", adminKey)
		w = httptest.NewRecorder()
		h.IngestOutputs(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("outputs: expected status 200, got %d (body: %s)", w.Code, w.Body.String())
		}

		var resp models.IngestResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Rows != 1 {
			t.Errorf("expected 1 row ingested, got %d", resp.Rows)
		}
	})

	t.Run("prompt set mismatch is a 400", func(t *testing.T) {
		outputTSV := "id\ttext\nen_00001\thello\nen_00099\tstray\n"
		req := httptest.NewRequest("POST", "/admin/outputs?system_id=s1&task=a-en", strings.NewReader(outputTSV))
		req.Header.Set("X-Admin-Key", adminKey)
		w := httptest.NewRecorder()
		h.IngestOutputs(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "en_00099") {
			t.Errorf("expected the extra ID in the error, got %s", w.Body.String())
		}
	})
}
