// Package token mints the opaque credentials embedded in patient-facing
// confirmation and management links. Tokens are the sole authorization for
// those actions, so they come from crypto/rand rather than a guessable
// source.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// DefaultBytes of entropy per token. 24 bytes encodes to a 32-character
// URL-safe string.
const DefaultBytes = 24

// Generator mints unguessable URL-safe tokens.
type Generator struct {
	size int
}

// NewGenerator returns a Generator producing tokens with n bytes of entropy.
// Values below DefaultBytes are raised to it.
func NewGenerator(n int) *Generator {
	if n < DefaultBytes {
		n = DefaultBytes
	}
	return &Generator{size: n}
}

// Generate returns a new random token.
func (g *Generator) Generate() (string, error) {
	buf := make([]byte, g.size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// GenerateUnique mints tokens until taken reports the candidate as unused,
// giving up after maxAttempts.
func (g *Generator) GenerateUnique(taken func(string) bool, maxAttempts int) (string, error) {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	for i := 0; i < maxAttempts; i++ {
		tok, err := g.Generate()
		if err != nil {
			return "", err
		}
		if !taken(tok) {
			return tok, nil
		}
	}
	return "", fmt.Errorf("failed to mint a unique token after %d attempts", maxAttempts)
}
