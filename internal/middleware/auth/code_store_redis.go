package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisCodeStore struct {
	client *redis.Client
}

func NewRedisCodeStore(client *redis.Client) *RedisCodeStore {
	return &RedisCodeStore{client: client}
}

func codeKey(userID int64) string {
	return fmt.Sprintf("auth:confirmation_code:user:%d", userID)
}

func (s *RedisCodeStore) Save(ctx context.Context, userID int64, hash string, ttl time.Duration) error {
	if err := s.client.Set(ctx, codeKey(userID), hash, ttl).Err(); err != nil {
		return fmt.Errorf("redis set confirmation code: %w", err)
	}
	return nil
}

func (s *RedisCodeStore) Get(ctx context.Context, userID int64) (string, error) {
	hash, err := s.client.Get(ctx, codeKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCodeNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get confirmation code: %w", err)
	}
	return hash, nil
}

// Delete relies on DEL's reply count so concurrent consumers cannot both win.
func (s *RedisCodeStore) Delete(ctx context.Context, userID int64) (bool, error) {
	n, err := s.client.Del(ctx, codeKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis delete confirmation code: %w", err)
	}
	return n == 1, nil
}
