package storage

import (
	"context"
	"errors"
	"time"
)

// ErrTokenNotFound is returned when a refresh token is unknown, expired or
// already consumed.
var ErrTokenNotFound = errors.New("refresh token not found")

// RefreshToken is the server-side record of a long-lived refresh credential.
// IssuedAt is compared against the user's PasswordChangedAt so a password
// change invalidates every token issued before it.
type RefreshToken struct {
	Token     string    `json:"token"`
	UserID    uint      `json:"user_id"`
	OrgID     uint      `json:"org_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the token is past its expiry.
func (t *RefreshToken) Expired() bool {
	return time.Now().After(t.ExpiresAt)
}

// Store defines the interface for refresh token storage
type Store interface {
	Save(ctx context.Context, token *RefreshToken) error
	Get(ctx context.Context, token string) (*RefreshToken, error)
	Delete(ctx context.Context, token string) error
	Close() error
}
