// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the pairvote API server.

Pairvote is an arena-style human-evaluation service: anonymous sessions
judge pairwise battles between system outputs for the same prompt, and
the selector keeps coverage even across systems and prompts while never
re-serving an output a session has already judged.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=file:votes.db ADMIN_KEY_SALT=... TOKEN_KEY=... go run .

Or with flags:

	go run . -p 3319 -d "postgres://..." -t postgres

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite file or PostgreSQL connection string
  - ADMIN_KEY_SALT (-admin-salt): Secret for the ingestion admin key
  - TOKEN_KEY (-token-key): Hex AES key for battle tokens

Optional settings:

  - PORT (-p): Server port (default: 3319)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - BATCH_SIZE (-b): Battles per served batch (default: 3)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - arena: The battle selection algorithm and random fallback sampler
  - ledger: Vote ledger, prompt/system/output storage, aggregates
  - ingest: Submission parsing and prompt-set validation
  - handlers: HTTP request handlers (battles, votes, stats, admin)
  - router: Route definitions using Go 1.22+ routing
  - middleware: Session identity, CORS, logging, JSON helpers
  - models: Domain types and request/response types
  - auth: Session IDs, admin keys and AEAD battle tokens
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
