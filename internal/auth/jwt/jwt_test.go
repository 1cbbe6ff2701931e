package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewService_Validation(t *testing.T) {
	_, err := NewService(Config{SecretKey: "", Duration: time.Hour})
	assert.ErrorIs(t, err, ErrEmptySecretKey)

	_, err = NewService(Config{SecretKey: "short", Duration: time.Hour})
	assert.ErrorIs(t, err, ErrWeakSecretKey)

	_, err = NewService(Config{SecretKey: testSecret, Duration: 0})
	assert.ErrorIs(t, err, ErrInvalidDuration)

	s, err := NewService(Config{SecretKey: testSecret, Duration: time.Hour})
	assert.NoError(t, err)
	assert.Equal(t, time.Hour, s.Duration())
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	s, err := NewService(Config{SecretKey: testSecret, Duration: time.Hour})
	assert.NoError(t, err)

	tok, err := s.GenerateToken(42, 7, "admin")
	assert.NoError(t, err)
	claims, err := s.ValidateToken(tok)
	assert.NoError(t, err)
	if assert.NotNil(t, claims) {
		assert.Equal(t, uint(42), claims.UserID)
		assert.Equal(t, uint(7), claims.OrgID)
		assert.Equal(t, "admin", claims.Role)
	}
}

func TestJWTService_ExpiredAndInvalid(t *testing.T) {
	s, err := NewService(Config{SecretKey: testSecret, Duration: time.Millisecond})
	assert.NoError(t, err)
	tok, err := s.GenerateToken(1, 1, "user")
	assert.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	claims, err := s.ValidateToken(tok)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrExpiredToken)

	claims, err = s.ValidateToken("not-a-token")
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	a, _ := NewService(Config{SecretKey: testSecret, Duration: time.Hour})
	b, _ := NewService(Config{SecretKey: strings.Repeat("x", 32), Duration: time.Hour})

	tok, err := a.GenerateToken(1, 1, "user")
	assert.NoError(t, err)
	claims, err := b.ValidateToken(tok)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
