package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
)

// SessionIDBytes is the entropy of a session id (hex encoded to 64 chars).
const SessionIDBytes = 32

var (
	// ErrInvalidSessionID indicates a cookie value that cannot be a session id.
	ErrInvalidSessionID = errors.New("invalid session id")

	sessionIDRegex = regexp.MustCompile(`^[a-f0-9]{64}$`)
)

// GenerateSessionID returns a new random opaque session id.
func GenerateSessionID() (string, error) {
	b := make([]byte, SessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// ValidateSessionID checks the format of a session id taken from a cookie.
func ValidateSessionID(id string) error {
	if !sessionIDRegex.MatchString(id) {
		return ErrInvalidSessionID
	}
	return nil
}

// StorageKey derives the Redis key suffix for a session id, so the store
// never holds usable cookie values.
func StorageKey(id string) string {
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:])
}
