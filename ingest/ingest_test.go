// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pairvote/ingest"
	"pairvote/ledger"
	"pairvote/models"
	"pairvote/testutil"
)

func TestReadSubmission(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		texts, err := ingest.ReadSubmission(strings.NewReader("id\ttext\nen_00001\thello there\nen_00002\tsecond output\n"))
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"en_00001": "hello there",
			"en_00002": "second output",
		}, texts)
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := ingest.ReadSubmission(strings.NewReader(""))
		assert.Error(t, err)
	})

	t.Run("wrong header", func(t *testing.T) {
		_, err := ingest.ReadSubmission(strings.NewReader("prompt\toutput\nen_00001\thi\n"))
		assert.Error(t, err)
	})

	t.Run("duplicate prompt ID", func(t *testing.T) {
		_, err := ingest.ReadSubmission(strings.NewReader("id\ttext\nen_00001\tfirst\nen_00001\tsecond\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})
}

func TestIngestOutputsExactMatch(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := ledger.NewStore(conn)
	ctx := context.Background()

	testutil.SeedPrompt(t, conn, "en_00001", "cat", "moon")
	testutil.SeedPrompt(t, conn, "en_00002", "dog", "sun")

	rows, err := ingest.IngestOutputs(ctx, store, "s1", models.TaskAEn, map[string]string{
		"en_00001": "one",
		"en_00002": "two",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, rows)

	outputs, err := store.OutputsForTask(ctx, models.TaskAEn)
	require.NoError(t, err)
	assert.Len(t, outputs, 2)
	assert.Equal(t, "one", outputs["en_00001"][0].Text)
}

func TestIngestOutputsPromptSetMismatch(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := ledger.NewStore(conn)
	ctx := context.Background()

	// Reference set img_00001..img_00100; submission stops at 99.
	for i := 1; i <= 100; i++ {
		testutil.SeedImagePrompt(t, conn, fmt.Sprintf("img_%05d", i), "https://example.com/img.jpg", "Describe the image.")
	}
	texts := make(map[string]string)
	for i := 1; i <= 99; i++ {
		texts[fmt.Sprintf("img_%05d", i)] = "a caption"
	}

	_, err := ingest.IngestOutputs(ctx, store, "s1", models.TaskB1, texts)
	var mismatch *models.PromptSetMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, models.TaskB1, mismatch.Task)
	assert.Equal(t, []string{"img_00100"}, mismatch.Missing)
	assert.Empty(t, mismatch.Extra)

	// Nothing was loaded.
	outputs, err := store.OutputsForTask(ctx, models.TaskB1)
	require.NoError(t, err)
	assert.Empty(t, outputs)
}

func TestIngestOutputsReportsExtraIDs(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := ledger.NewStore(conn)
	ctx := context.Background()

	testutil.SeedPrompt(t, conn, "en_00001", "cat", "moon")

	_, err := ingest.IngestOutputs(ctx, store, "s1", models.TaskAEn, map[string]string{
		"en_00001": "one",
		"en_00009": "stray",
		"en_00005": "stray",
	})
	var mismatch *models.PromptSetMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Empty(t, mismatch.Missing)
	assert.Equal(t, []string{"en_00005", "en_00009"}, mismatch.Extra, "extras must be sorted")
}

func TestIngestOutputsReplacesOnReingest(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := ledger.NewStore(conn)
	ctx := context.Background()

	testutil.SeedPrompt(t, conn, "en_00001", "cat", "moon")

	_, err := ingest.IngestOutputs(ctx, store, "s1", models.TaskAEn, map[string]string{"en_00001": "draft"})
	require.NoError(t, err)
	_, err = ingest.IngestOutputs(ctx, store, "s1", models.TaskAEn, map[string]string{"en_00001": "final"})
	require.NoError(t, err)

	outputs, err := store.OutputsForTask(ctx, models.TaskAEn)
	require.NoError(t, err)
	assert.Equal(t, "final", outputs["en_00001"][0].Text)
}

func TestIngestOutputsRejectsInvalidTask(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := ledger.NewStore(conn)

	_, err := ingest.IngestOutputs(context.Background(), store, "s1", models.Task("bogus"), nil)
	assert.True(t, errors.Is(err, models.ErrInvalidTask))
}

func TestReadPrompts(t *testing.T) {
	input := "id\tword1\tword2\theadline\turl\tprompt\n" +
		"en_00001\tcat\tmoon\t-\t-\t-\n" +
		"es_00001\t-\t-\tEl titular del día\t-\t-\n" +
		"img_00001\t-\t-\t-\thttps://example.com/1.jpg\tDescribe the image.\n"

	prompts, err := ingest.ReadPrompts(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, prompts, 3)

	assert.Equal(t, "cat", prompts[0].Word1)
	assert.Equal(t, "moon", prompts[0].Word2)
	assert.Equal(t, "El titular del día", prompts[1].Headline)
	assert.Equal(t, "https://example.com/1.jpg", prompts[2].URL)
	assert.Equal(t, "Describe the image.", prompts[2].PromptText)
}

func TestReadPromptsRejectsBadRows(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{
			name:  "unknown prefix",
			input: "id\tword1\tword2\theadline\turl\tprompt\nxx_00001\tcat\tmoon\t-\t-\t-\n",
		},
		{
			name:  "word1 without word2",
			input: "id\tword1\tword2\theadline\turl\tprompt\nen_00001\tcat\t-\t-\t-\t-\n",
		},
		{
			name:  "two variants at once",
			input: "id\tword1\tword2\theadline\turl\tprompt\nen_00001\tcat\tmoon\ta headline\t-\t-\n",
		},
		{
			name:  "no variant",
			input: "id\tword1\tword2\theadline\turl\tprompt\nen_00001\t-\t-\t-\t-\t-\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ingest.ReadPrompts(strings.NewReader(tc.input))
			assert.Error(t, err)
		})
	}
}

func TestIngestPrompts(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := ledger.NewStore(conn)
	ctx := context.Background()

	prompts, err := ingest.ReadPrompts(strings.NewReader(
		"id\tword1\tword2\theadline\turl\tprompt\nen_00001\tcat\tmoon\t-\t-\t-\n"))
	require.NoError(t, err)

	rows, err := ingest.IngestPrompts(ctx, store, prompts)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	ids, err := store.ReferencePromptIDs(ctx, models.TaskAEn)
	require.NoError(t, err)
	assert.Equal(t, []string{"en_00001"}, ids)
}
