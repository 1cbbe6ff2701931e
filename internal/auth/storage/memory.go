package storage

import (
	"context"
	"sync"
)

// MemoryStorage implements the Store interface using in-memory storage
type MemoryStorage struct {
	mu     sync.RWMutex
	tokens map[string]*RefreshToken
}

var _ Store = (*MemoryStorage)(nil)

// NewMemoryStorage creates a new memory storage instance
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		tokens: make(map[string]*RefreshToken),
	}
}

// Save stores a refresh token
func (s *MemoryStorage) Save(ctx context.Context, token *RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[token.Token] = token
	return nil
}

// Get retrieves a refresh token; expired entries are dropped on read.
func (s *MemoryStorage) Get(ctx context.Context, token string) (*RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rt, ok := s.tokens[token]
	if !ok {
		return nil, ErrTokenNotFound
	}
	if rt.Expired() {
		delete(s.tokens, token)
		return nil, ErrTokenNotFound
	}
	return rt, nil
}

// Delete removes a refresh token
func (s *MemoryStorage) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, token)
	return nil
}

// Close is a no-op for memory storage
func (s *MemoryStorage) Close() error {
	return nil
}
