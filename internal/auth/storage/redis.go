package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const refreshTokenPrefix = "auth:refresh:"

// RedisStorage implements the Store interface using Redis. Entries carry a
// TTL matching the token expiry so stale tokens clean themselves up.
type RedisStorage struct {
	client *redis.Client
}

var _ Store = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance
func NewRedisStorage(addr, username, password string, db int) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStorage{client: client}, nil
}

// Save stores a refresh token with a TTL equal to its remaining lifetime
func (s *RedisStorage) Save(ctx context.Context, token *RefreshToken) error {
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}

	ttl := time.Until(token.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, refreshTokenPrefix+token.Token, data, ttl).Err()
}

// Get retrieves a refresh token
func (s *RedisStorage) Get(ctx context.Context, token string) (*RefreshToken, error) {
	data, err := s.client.Get(ctx, refreshTokenPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}

	var rt RefreshToken
	if err := json.Unmarshal(data, &rt); err != nil {
		return nil, err
	}
	if rt.Expired() {
		return nil, ErrTokenNotFound
	}
	return &rt, nil
}

// Delete removes a refresh token
func (s *RedisStorage) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, refreshTokenPrefix+token).Err()
}

// Close closes the Redis connection
func (s *RedisStorage) Close() error {
	return s.client.Close()
}
