package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// NewSecureToken returns a 64-character hex token backed by 32 bytes of
// crypto/rand entropy. Used for email verification, password reset and
// refresh tokens.
func NewSecureToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
