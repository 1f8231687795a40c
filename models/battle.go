// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "fmt"

// OutputKey uniquely identifies an output.
type OutputKey struct {
	PromptID string
	SystemID string
}

// Output is one system's generated response to one prompt. Produced
// once at ingestion time and never mutated.
type Output struct {
	Prompt Prompt
	System string
	Text   string
}

// Key returns the output's (prompt, system) identity.
func (o Output) Key() OutputKey {
	return OutputKey{PromptID: o.Prompt.ID, SystemID: o.System}
}

// Battle pairs two outputs from different systems for the same prompt.
// Battles are ephemeral: only the resulting vote is persisted.
type Battle struct {
	OutputA Output
	OutputB Output
}

// NewBattle enforces the pairing invariants.
func NewBattle(a, b Output) (Battle, error) {
	if a.Prompt.ID != b.Prompt.ID {
		return Battle{}, fmt.Errorf("battle outputs must share a prompt: %q vs %q", a.Prompt.ID, b.Prompt.ID)
	}
	if a.System == b.System {
		return Battle{}, fmt.Errorf("battle outputs must come from different systems: %q", a.System)
	}
	return Battle{OutputA: a, OutputB: b}, nil
}

// Prompt returns the shared prompt.
func (b Battle) Prompt() Prompt { return b.OutputA.Prompt }

// Swapped returns the battle with the a/b presentation labels exchanged.
func (b Battle) Swapped() Battle { return Battle{OutputA: b.OutputB, OutputB: b.OutputA} }
