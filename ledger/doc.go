// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package ledger is the persistence layer: the append-only vote ledger,
// the prompt/system/output tables, and the aggregate queries the battle
// selector and the reporting endpoints read.
//
// Idempotency lives in the schema, not in application locks: a vote's
// primary key is its battle key plus the session, and inserts use
// ON CONFLICT DO NOTHING, so the first vote for a key wins and replays
// are silent no-ops under any interleaving.
package ledger
