// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema includes:

  - prompts: Evaluation prompts, one content variant each
  - systems: Participant systems
  - outputs: One generated output per (prompt, system)
  - votes: Append-only vote ledger, one row per session per battle key
  - prolific: Prolific participant consent/finish bookkeeping

# Relationships

	prompts 1──* outputs
	systems 1──* outputs
	prompts 1──* votes

# Constraints

The composite primary keys on outputs and votes double as the
idempotency guards: duplicate output loads upsert, duplicate votes are
silently ignored. The SQL is portable across sqlite and postgres, so
the same schema backs production and in-process tests.
*/
package db
