package internal

import (
	"github.com/google/uuid"
)

// SessionTokenLength is the length of a canonical UUID string.
const SessionTokenLength = 36

// NewSessionToken returns a random (version 4) UUID in canonical form.
// It fails only if the system entropy source fails.
func NewSessionToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// IsSessionToken reports whether s parses as a UUID in canonical form.
func IsSessionToken(s string) bool {
	if len(s) != SessionTokenLength {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
