// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package ingest parses and validates system submissions and reference
// prompt files. An output submission is accepted only when its prompt-ID
// set exactly matches the task's reference prompts; a mismatch reports
// the missing and extra IDs and loads nothing.
package ingest
