package domain

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// AuthToken is an opaque bearer credential. Each user holds at most one;
// repeat logins return the existing token instead of minting another.
// Tokens carry no expiry.
type AuthToken struct {
	Token    string
	UserID   string
	IssuedAt time.Time
}

// NewTokenString mints a 40-character hex token from 20 random bytes.
func NewTokenString() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
