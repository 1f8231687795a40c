// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identity and token primitives for the voting API.

# Session Identity

Sessions are opaque strings: a random UUID minted on a visitor's first
request (set as a cookie by the middleware), or a deterministic
composite for Prolific participants so their history survives page
reloads.

# Admin Keys

Admin endpoints are guarded by deterministic HMAC keys derived from a
server-side salt, validated in constant time. No key storage needed.

# Battle Tokens

Battles are served without system identities; instead each carries an
AES-GCM sealed token of its (prompt, system A, system B) triple. A vote
submission echoes the token back, and the codec refuses anything
tampered, truncated or sealed under another key. Decrypted IDs are only
trusted because GCM authenticates them.
*/
package auth
