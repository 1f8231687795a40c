// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the pairvote API.

# Handler Types

Each handler is a struct with its dependencies injected:

  - BattleHandler: Battle selection and vote submission
  - AggregateHandler: Vote counts, stats and the CSV export
  - ProlificHandler: Prolific consent and finish bookkeeping
  - AdminHandler: Prompt and output ingestion

Handlers are created via constructor functions:

	battleHandler := handlers.NewBattleHandler(store, codec, cfg)

# Voting Flow

Voters fetch a batch and submit ballots referencing battle tokens:

	GET  /battles?task=a-en → batch of battles with opaque tokens
	POST /vote              → record ballot, returns the next battle

System identities never appear on the wire; the AEAD battle token is
the only handle a client holds. A tampered token is a 400.

A short batch from the fair selector is padded with uniform random
battles so voters always get a full screen while the task has valid
pairs.

# Ingestion

Admin operations require the X-Admin-Key header, validated against the
HMAC scheme in the auth package:

	POST /admin/prompts                      → reference prompt TSV
	POST /admin/outputs?system_id=&task=     → one system's output TSV

An output submission must cover the task's reference prompt set
exactly; mismatches report the missing and extra IDs and load nothing.
*/
package handlers
