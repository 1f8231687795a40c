// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidVote = errors.New("invalid vote")
	ErrInvalidTask = errors.New("invalid task")

	// ErrStorage classifies database failures so handlers can map them
	// to 500 without matching on driver error strings.
	ErrStorage = errors.New("storage error")
)

// PromptSetMismatchError is returned when a submitted output file's
// prompt-ID set does not exactly match the reference prompt set for a
// task. The whole ingestion fails; nothing is partially loaded.
type PromptSetMismatchError struct {
	Task    Task
	Missing []string
	Extra   []string
}

func (e *PromptSetMismatchError) Error() string {
	return fmt.Sprintf("submitted prompt IDs do not match the reference set for task %q: missing %v, extra %v",
		e.Task, e.Missing, e.Extra)
}
