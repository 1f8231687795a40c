// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package arena

import (
	"sort"

	"pairvote/models"
)

// Snapshot is an immutable view of one task's outputs and coverage
// state, loaded once per request. Absent map keys mean zero. The
// selector never mutates a snapshot; per-call simulated counters live
// in a separate structure.
type Snapshot struct {
	// Outputs groups every output of the task by prompt ID.
	Outputs map[string][]models.Output
	// SystemVotes counts non-skip votes touching each system on either
	// side, restricted to systems with at least one output for the task.
	SystemVotes map[string]int
	// PromptVotes counts non-skip votes per prompt.
	PromptVotes map[string]int
	// SessionSeen counts the requesting session's prior votes (any vote
	// value) touching each output, across both sides of the battle.
	SessionSeen map[models.OutputKey]int
}

// promptIDs returns the snapshot's prompt IDs in sorted order, so
// selection is a pure function of (snapshot, rng seed).
func (s *Snapshot) promptIDs() []string {
	ids := make([]string, 0, len(s.Outputs))
	for id := range s.Outputs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// simState carries one call's simulated coverage counters, seeded from
// the snapshot and bumped after every emitted battle so later picks in
// the same batch spread across systems and prompts.
type simState struct {
	sessionSeen map[models.OutputKey]int
	systemVotes map[string]int
	promptSeen  map[string]int
	promptVotes map[string]int
	excluded    map[models.OutputKey]bool
}

func newSimState(snap *Snapshot, ignored []models.OutputKey) *simState {
	st := &simState{
		sessionSeen: make(map[models.OutputKey]int, len(snap.SessionSeen)),
		systemVotes: make(map[string]int, len(snap.SystemVotes)),
		promptSeen:  make(map[string]int),
		promptVotes: make(map[string]int, len(snap.PromptVotes)),
		excluded:    make(map[models.OutputKey]bool, len(ignored)),
	}
	for k, n := range snap.SessionSeen {
		st.sessionSeen[k] = n
		st.promptSeen[k.PromptID] += n
	}
	for id, n := range snap.SystemVotes {
		st.systemVotes[id] = n
	}
	for id, n := range snap.PromptVotes {
		st.promptVotes[id] = n
	}
	// Outputs already served but not yet acknowledged client-side count
	// as seen once and are never served again within this call.
	for _, k := range ignored {
		st.excluded[k] = true
		st.sessionSeen[k]++
		st.promptSeen[k.PromptID]++
	}
	return st
}

// record simulates a vote on the battle for intra-batch diversity.
func (st *simState) record(b models.Battle) {
	for _, o := range []models.Output{b.OutputA, b.OutputB} {
		st.sessionSeen[o.Key()]++
		st.systemVotes[o.System]++
	}
	st.promptSeen[b.Prompt().ID]++
	st.promptVotes[b.Prompt().ID]++
}
