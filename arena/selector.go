// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package arena

import (
	"math/rand"
	"sort"
	"time"

	"pairvote/models"
)

// Selector picks battle batches that spread vote coverage evenly over
// systems and prompts. Each call works on an in-memory snapshot: the
// per-task output sets are small (tens to low hundreds), so scanning
// every output per pick is cheap, and far cheaper than pushing an
// ORDER BY RAND() to the database for every battle.
type Selector struct {
	rng *rand.Rand
}

// NewSelector builds a selector around the given random source; pass
// nil for a time-seeded one. Tests inject a seeded source to make
// selection reproducible.
func NewSelector(rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{rng: rng}
}

// candidate is one output annotated with its ranking tuple.
type candidate struct {
	out         models.Output
	sessionSeen int
	systemVotes int
	promptSeen  int
	promptVotes int
}

// SelectBattles returns up to batchSize battles for the snapshot's
// task. Each pick anchors on the output least seen by the session,
// breaking ties by least-voted system, then least-session-seen prompt,
// then least-voted prompt, then at random; the anchor is paired with a
// valid partner for the same prompt. Outputs in ignored are never
// served on either side. After each pick the simulated counters are
// bumped, so one batch does not pile onto a single system or prompt.
// Fewer than batchSize battles are returned when no valid pair remains.
func (s *Selector) SelectBattles(snap *Snapshot, batchSize int, ignored []models.OutputKey) []models.Battle {
	st := newSimState(snap, ignored)
	promptIDs := snap.promptIDs()

	battles := make([]models.Battle, 0, batchSize)
	for len(battles) < batchSize {
		b, ok := s.pickOne(snap, st, promptIDs)
		if !ok {
			break
		}
		st.record(b)
		if s.rng.Intn(2) == 0 {
			b = b.Swapped()
		}
		battles = append(battles, b)
	}
	return battles
}

// pickOne runs one ranked scan over all outputs and returns the first
// anchor that has a valid partner, already paired.
func (s *Selector) pickOne(snap *Snapshot, st *simState, promptIDs []string) (models.Battle, bool) {
	cands := make([]candidate, 0, 64)
	for _, promptID := range promptIDs {
		for _, out := range snap.Outputs[promptID] {
			key := out.Key()
			if st.excluded[key] {
				continue
			}
			cands = append(cands, candidate{
				out:         out,
				sessionSeen: st.sessionSeen[key],
				systemVotes: st.systemVotes[out.System],
				promptSeen:  st.promptSeen[promptID],
				promptVotes: st.promptVotes[promptID],
			})
		}
	}

	// Shuffle first: the sort is stable, so equal tuples keep their
	// shuffled order and ties resolve uniformly at random.
	s.rng.Shuffle(len(cands), func(i, j int) { cands[i], cands[j] = cands[j], cands[i] })
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.sessionSeen != b.sessionSeen {
			return a.sessionSeen < b.sessionSeen
		}
		if a.systemVotes != b.systemVotes {
			return a.systemVotes < b.systemVotes
		}
		if a.promptSeen != b.promptSeen {
			return a.promptSeen < b.promptSeen
		}
		return a.promptVotes < b.promptVotes
	})

	for _, c := range cands {
		partner, ok := s.pickPartner(snap, st, c.out)
		if !ok {
			continue
		}
		b, err := models.NewBattle(c.out, partner)
		if err != nil {
			continue
		}
		return b, true
	}
	return models.Battle{}, false
}

// pickPartner chooses the valid partner least seen by the session,
// breaking ties by least-voted system and then at random via the
// pre-scan shuffle. A partner must come from another system, must not
// be excluded, and must not repeat the anchor's text (an
// identical-text battle decides nothing).
func (s *Selector) pickPartner(snap *Snapshot, st *simState, anchor models.Output) (models.Output, bool) {
	partners := make([]models.Output, 0, 8)
	for _, out := range snap.Outputs[anchor.Prompt.ID] {
		if out.System == anchor.System || st.excluded[out.Key()] || out.Text == anchor.Text {
			continue
		}
		partners = append(partners, out)
	}
	if len(partners) == 0 {
		return models.Output{}, false
	}

	s.rng.Shuffle(len(partners), func(i, j int) { partners[i], partners[j] = partners[j], partners[i] })
	best := partners[0]
	for _, p := range partners[1:] {
		seen, bestSeen := st.sessionSeen[p.Key()], st.sessionSeen[best.Key()]
		if seen < bestSeen || (seen == bestSeen && st.systemVotes[p.System] < st.systemVotes[best.System]) {
			best = p
		}
	}
	return best, true
}

// RandomBattles samples up to count battles uniformly from all valid
// same-prompt cross-system pairs, ignoring coverage entirely. Callers
// use it to pad a batch when SelectBattles comes up short.
func (s *Selector) RandomBattles(snap *Snapshot, count int) []models.Battle {
	if count <= 0 {
		return nil
	}

	pairs := make([]models.Battle, 0, 64)
	for _, promptID := range snap.promptIDs() {
		outs := snap.Outputs[promptID]
		for i := 0; i < len(outs); i++ {
			for j := i + 1; j < len(outs); j++ {
				if outs[i].System == outs[j].System {
					continue
				}
				b, err := models.NewBattle(outs[i], outs[j])
				if err != nil {
					continue
				}
				pairs = append(pairs, b)
			}
		}
	}

	s.rng.Shuffle(len(pairs), func(i, j int) { pairs[i], pairs[j] = pairs[j], pairs[i] })
	if count > len(pairs) {
		count = len(pairs)
	}

	battles := make([]models.Battle, 0, count)
	for _, b := range pairs[:count] {
		if s.rng.Intn(2) == 0 {
			b = b.Swapped()
		}
		battles = append(battles, b)
	}
	return battles
}
