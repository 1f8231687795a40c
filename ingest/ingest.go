// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"pairvote/ledger"
	"pairvote/models"
)

// ReadSubmission parses a system's output file: tab-separated, a header
// row of "id" and "text", one output per prompt. Duplicate prompt IDs
// are an error.
func ReadSubmission(r io.Reader) (map[string]string, error) {
	records, err := readTSV(r, []string{"id", "text"})
	if err != nil {
		return nil, err
	}

	texts := make(map[string]string, len(records))
	for i, rec := range records {
		id, text := rec[0], rec[1]
		if id == "" {
			return nil, fmt.Errorf("row %d: empty prompt ID", i+2)
		}
		if _, dup := texts[id]; dup {
			return nil, fmt.Errorf("row %d: duplicate prompt ID %q", i+2, id)
		}
		texts[id] = text
	}
	return texts, nil
}

// IngestOutputs loads one system's outputs for a task. The submitted
// prompt-ID set must exactly match the task's reference prompts; any
// mismatch fails the whole ingestion and nothing is loaded. A repeated
// ingestion for the same system overwrites its previous outputs.
func IngestOutputs(ctx context.Context, store *ledger.Store, systemID string, task models.Task, texts map[string]string) (int, error) {
	if !task.Valid() {
		return 0, fmt.Errorf("%w: %q", models.ErrInvalidTask, task)
	}
	if systemID == "" {
		return 0, fmt.Errorf("empty system ID")
	}

	reference, err := store.ReferencePromptIDs(ctx, task)
	if err != nil {
		return 0, err
	}
	if mismatch := diffPromptSets(task, reference, texts); mismatch != nil {
		return 0, mismatch
	}

	if err := store.ReplaceOutputs(ctx, systemID, texts); err != nil {
		return 0, err
	}
	return len(texts), nil
}

// diffPromptSets compares the submitted IDs against the reference set
// and returns a mismatch error with sorted diffs, or nil on exact match.
func diffPromptSets(task models.Task, reference []string, texts map[string]string) *models.PromptSetMismatchError {
	refSet := make(map[string]bool, len(reference))
	for _, id := range reference {
		refSet[id] = true
	}

	var missing, extra []string
	for _, id := range reference {
		if _, ok := texts[id]; !ok {
			missing = append(missing, id)
		}
	}
	for id := range texts {
		if !refSet[id] {
			extra = append(extra, id)
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	sort.Strings(missing)
	sort.Strings(extra)
	return &models.PromptSetMismatchError{Task: task, Missing: missing, Extra: extra}
}

// ReadPrompts parses a reference prompt file: tab-separated with a
// header of id, word1, word2, headline, url and prompt columns, "-"
// marking an unset column. Every row must validate as a prompt.
func ReadPrompts(r io.Reader) ([]models.Prompt, error) {
	records, err := readTSV(r, []string{"id", "word1", "word2", "headline", "url", "prompt"})
	if err != nil {
		return nil, err
	}

	prompts := make([]models.Prompt, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i, rec := range records {
		id := rec[0]
		if seen[id] {
			return nil, fmt.Errorf("row %d: duplicate prompt ID %q", i+2, id)
		}
		seen[id] = true

		p, err := models.NewPrompt(id, unset(rec[1]), unset(rec[2]), unset(rec[3]), unset(rec[4]), unset(rec[5]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		prompts = append(prompts, p)
	}
	return prompts, nil
}

// IngestPrompts loads the reference prompts in one transaction.
func IngestPrompts(ctx context.Context, store *ledger.Store, prompts []models.Prompt) (int, error) {
	if err := store.InsertPrompts(ctx, prompts); err != nil {
		return 0, err
	}
	return len(prompts), nil
}

// readTSV reads a tab-separated file, checks the header against the
// expected column names and returns the data rows.
func readTSV(r io.Reader, header []string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse submission: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty submission: missing header")
	}
	if len(records[0]) != len(header) {
		return nil, fmt.Errorf("expected %d columns %v, got %d", len(header), header, len(records[0]))
	}
	for i, name := range header {
		if records[0][i] != name {
			return nil, fmt.Errorf("expected column %d to be %q, got %q", i+1, name, records[0][i])
		}
	}
	return records[1:], nil
}

// unset maps the file's "-" placeholder to an empty column.
func unset(s string) string {
	if s == "-" {
		return ""
	}
	return s
}
