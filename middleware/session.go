// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"time"

	"pairvote/auth"
)

// sessionCookie is the browser cookie carrying the anonymous session ID.
const sessionCookie = "id"

// sessionMaxAge keeps a voter's identity stable across visits.
const sessionMaxAge = 365 * 24 * time.Hour

// SessionID resolves the caller's session identity, creating one when
// needed, and refreshes the cookie. Prolific participants arrive with
// PROLIFIC_PID and SESSION_ID query parameters and get a deterministic
// ID composed from both; everyone else is identified by the cookie.
func SessionID(w http.ResponseWriter, r *http.Request) string {
	pid := r.URL.Query().Get("PROLIFIC_PID")
	sid := r.URL.Query().Get("SESSION_ID")
	if pid != "" && sid != "" {
		id := auth.ProlificSessionID(pid, sid)
		setSessionCookie(w, id)
		return id
	}

	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		setSessionCookie(w, c.Value)
		return c.Value
	}

	id := auth.NewSessionID()
	setSessionCookie(w, id)
	return id
}

func setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	// Battles are personalized; intermediaries must not cache them.
	w.Header().Set("Cache-Control", "no-store")
}
