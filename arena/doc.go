// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package arena implements battle selection: deciding which pair of
system outputs a voting session should judge next.

# Selection

SelectBattles ranks every output of a task by a four-part ascending
key - times seen by this session, non-skip votes on the system,
session votes touching the prompt, non-skip votes on the prompt - with
ties broken uniformly at random (shuffle before a stable sort). The
top-ranked output with a valid partner anchors the battle; the partner
is the least-seen output from another system for the same prompt.

Between picks of one batch the selector simulates the pending votes in
request-local counters, so a batch of three battles does not land on
the same system or prompt three times. The counters are discarded when
the call returns; concurrent sessions may race on the same snapshot
and both pick the globally least-voted output, which is tolerated
(eventual, not strict, fairness).

# Fallback

RandomBattles ignores coverage and samples uniformly from all valid
pairs. Handlers use it to pad a batch when the fair selector runs out
of unseen material for a session.

# Randomness

Both entry points draw from an injected *rand.Rand, so tests can seed
selection and replay it deterministically. The 50% a/b presentation
swap happens after all tie-break bookkeeping and never influences it.
*/
package arena
