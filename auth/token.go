// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
)

// tokenSep separates the three IDs inside the sealed payload. IDs are
// rejected at encode time if they contain it.
const tokenSep = "\x1f"

// TokenCodec seals (promptID, systemIDA, systemIDB) triples into opaque
// battle tokens. Clients echo the token back when voting, so system
// identities never cross the wire in the clear. AES-GCM authenticates
// the payload: a tampered token decodes to ErrInvalidToken, never to
// attacker-chosen IDs.
type TokenCodec struct {
	aead cipher.AEAD
}

// NewTokenCodec builds a codec from a 16, 24 or 32 byte key.
func NewTokenCodec(key []byte) (*TokenCodec, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create token cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create token AEAD: %w", err)
	}
	return &TokenCodec{aead: aead}, nil
}

// Encode seals a battle identity into a URL-safe token.
func (c *TokenCodec) Encode(promptID, systemIDA, systemIDB string) (string, error) {
	for _, id := range []string{promptID, systemIDA, systemIDB} {
		if id == "" || strings.Contains(id, tokenSep) {
			return "", fmt.Errorf("battle token ID %q is not encodable", id)
		}
	}
	plaintext := []byte(promptID + tokenSep + systemIDA + tokenSep + systemIDB)

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate token nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decode opens a token and returns the battle identity. Any malformed,
// truncated, or tampered token yields ErrInvalidToken.
func (c *TokenCodec) Decode(token string) (promptID, systemIDA, systemIDB string, err error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(raw) < c.aead.NonceSize() {
		return "", "", "", ErrInvalidToken
	}

	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", "", "", ErrInvalidToken
	}

	parts := strings.Split(string(plaintext), tokenSep)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", ErrInvalidToken
	}
	return parts[0], parts[1], parts[2], nil
}
