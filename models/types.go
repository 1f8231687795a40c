// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Request types

// VoteRequest submits a ballot for a previously served battle. The
// battle token is the opaque identifier handed out with the battle;
// system identities never appear on the wire.
type VoteRequest struct {
	Token         string   `json:"token"`
	Vote          string   `json:"vote"`
	IsOffensiveA  bool     `json:"is_offensive_a"`
	IsOffensiveB  bool     `json:"is_offensive_b"`
	IgnoredTokens []string `json:"ignored_tokens,omitempty"`
}

// ProlificFinishRequest carries the free-form exit comments.
type ProlificFinishRequest struct {
	Comments string `json:"comments"`
}

// Response types

// BattleResponse is the outward battle representation. System IDs are
// withheld; the token is the only way to refer back to the battle.
type BattleResponse struct {
	PromptID       string `json:"prompt_id"`
	Prompt         string `json:"prompt"`
	PromptImageURL string `json:"prompt_image_url,omitempty"`
	OutputA        string `json:"output_a"`
	OutputB        string `json:"output_b"`
	Token          string `json:"token"`
}

// VoteResponse returns the next battle for the same task, when one is
// available.
type VoteResponse struct {
	Next *BattleResponse `json:"next,omitempty"`
}

// IngestResponse reports how many rows an admin ingestion touched.
type IngestResponse struct {
	Rows int `json:"rows"`
}

// StatsResponse is the /stats payload. Histogram maps a vote count to
// the number of prompts with that many votes. CoverageSpread is the
// population standard deviation of per-system non-skip vote counts,
// one entry per task; lower means fairer coverage.
type StatsResponse struct {
	Votes             int              `json:"votes"`
	VotesPretty       string           `json:"votes_pretty"`
	VotesWithoutSkips int              `json:"votes_without_skips"`
	Sessions          int              `json:"sessions"`
	SessionsNonSkip   int              `json:"sessions_without_skips"`
	VotesPerCategory  map[Vote]int     `json:"votes_per_category"`
	Histogram         map[int]int      `json:"histogram"`
	CoverageSpread    map[Task]float64 `json:"coverage_spread"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
