// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the pairvote API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Voting (public, session resolved from cookie or Prolific params):

	GET  /battles - Batch of battles for a task
	POST /vote    - Submit a ballot, returns the next battle

Aggregates (public):

	GET /session-vote-count - Caller's non-skip vote total
	GET /vote-count         - Global vote total
	GET /votes-per-system   - Per-system totals for a task
	GET /votes-per-session  - Per-session totals
	GET /votes.csv          - Full ledger export
	GET /stats              - Totals, histogram and coverage spread

Prolific study bookkeeping:

	POST /prolific-consent - Record consent
	POST /prolific-finish  - Record completion and comments

Ingestion (admin, requires X-Admin-Key):

	POST /admin/prompts - Load the reference prompt file
	POST /admin/outputs - Load one system's outputs for a task

# Handler Initialization

The router creates handler instances with dependency injection:

	store := ledger.NewStore(db)
	battleHandler := handlers.NewBattleHandler(store, codec, cfg)
	aggregateHandler := handlers.NewAggregateHandler(store)

All handlers receive the ledger store; the battle handler also gets the
token codec and configuration.
*/
package router
