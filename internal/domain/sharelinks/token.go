package sharelinks

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenBytes = 256 bits de entropía.
const tokenBytes = 32

// NewToken genera un token opaco url-safe con crypto/rand.
func NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
