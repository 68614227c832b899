package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// Byte lengths for opaque bearer secrets.
const (
	RefreshTokenBytes = 32
	MagicLinkBytes    = 32
)

// Generate returns a cryptographically random opaque token, base64url
// encoded without padding.
func Generate(byteLength int) (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// RefreshHasher computes keyed hashes of refresh-token secrets for storage.
// The store never sees the raw secret, so a database compromise does not
// yield usable refresh tokens.
type RefreshHasher struct {
	secret []byte
}

// NewRefreshHasher creates a RefreshHasher keyed with the provided secret.
func NewRefreshHasher(secret string) *RefreshHasher {
	return &RefreshHasher{secret: []byte(secret)}
}

// Hash returns the hex-encoded HMAC-SHA256 of the raw token.
func (h *RefreshHasher) Hash(raw string) string {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}
