// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain and wire types shared across the API.

# Domain Types

  - Task, Vote: closed string enums with Parse helpers; adding a value
    is a compile-visible change everywhere they are switched on
  - Prompt: closed content variant (word pair, headline, or image URL)
  - Output: one system's response to one prompt, keyed by OutputKey
  - Battle: two same-prompt outputs from different systems
  - VoteRecord: one append-only ledger row

# Request/Response Types

Wire types mirror the JSON contract: battles go out with an opaque
token instead of system identities, and votes come back referencing
that token.
*/
package models
