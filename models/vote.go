// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"fmt"
	"time"
)

// Vote is a closed enum of the four ballot values. The wire encoding is
// single letters: left output, right output, tie, skip.
type Vote string

const (
	VoteA    Vote = "a"
	VoteB    Vote = "b"
	VoteTie  Vote = "t"
	VoteSkip Vote = "n"
)

// VoteChoices lists every vote value in a stable order.
var VoteChoices = []Vote{VoteA, VoteB, VoteTie, VoteSkip}

func (v Vote) Valid() bool {
	switch v {
	case VoteA, VoteB, VoteTie, VoteSkip:
		return true
	}
	return false
}

// NonSkip reports whether the vote counts toward coverage.
func (v Vote) NonSkip() bool { return v != VoteSkip }

// ParseVote validates a vote string from the wire.
func ParseVote(s string) (Vote, error) {
	v := Vote(s)
	if !v.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidVote, s)
	}
	return v, nil
}

// VoteRecord is one persisted row of the vote ledger. Rows are
// append-only: at most one per (prompt, system_a, system_b, session),
// and the first submission wins.
type VoteRecord struct {
	PromptID     string    `json:"prompt_id"`
	SystemIDA    string    `json:"system_id_a"`
	SystemIDB    string    `json:"system_id_b"`
	SessionID    string    `json:"session_id"`
	Vote         Vote      `json:"vote"`
	Date         time.Time `json:"date"`
	IsOffensiveA bool      `json:"is_offensive_a"`
	IsOffensiveB bool      `json:"is_offensive_b"`
}
