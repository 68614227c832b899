// Package password provides one-way password hashing and verification.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// Default scrypt cost parameters. The encoded hash carries its own
// parameters, so these can be raised later without breaking stored hashes.
const (
	scryptN       = 16384
	scryptR       = 8
	scryptP       = 1
	scryptSaltLen = 16
	scryptKeyLen  = 64
)

const algoTag = "scrypt"

// Hasher hashes and verifies passwords using scrypt.
type Hasher struct{}

// NewHasher creates a new scrypt Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Hash derives a key from the password with a fresh random salt and returns
// a self-describing encoded string: scrypt$N$r$p$<salt>$<key>.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, scryptSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("failed to derive key: %w", err)
	}

	encoded := strings.Join([]string{
		algoTag,
		strconv.Itoa(scryptN),
		strconv.Itoa(scryptR),
		strconv.Itoa(scryptP),
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key),
	}, "$")

	return encoded, nil
}

// Verify reports whether the password matches the encoded hash. The derived
// key is compared in constant time. Any parse failure or algorithm mismatch
// returns false.
func (h *Hasher) Verify(password, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return false
	}
	if parts[0] != algoTag {
		return false
	}

	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	r, err := strconv.Atoi(parts[2])
	if err != nil {
		return false
	}
	p, err := strconv.Atoi(parts[3])
	if err != nil {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	expected, err := base64.StdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}
	if len(expected) == 0 {
		return false
	}

	key, err := scrypt.Key([]byte(password), salt, n, r, p, len(expected))
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(key, expected) == 1
}
