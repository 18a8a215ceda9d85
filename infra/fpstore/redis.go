package fpstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/kilianp07/svitlo/core/fingerprint"
)

// RedisStore keeps fingerprints as plain string keys, <prefix><key>, without
// expiry.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Key returns the redis key holding the fingerprint of key.
func (s *RedisStore) Key(key string) string { return s.prefix + key }

func (s *RedisStore) Load(ctx context.Context, key string) (fingerprint.Fingerprint, error) {
	v, err := s.client.Get(ctx, s.Key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", fingerprint.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return fingerprint.Fingerprint(v), nil
}

func (s *RedisStore) Save(ctx context.Context, key string, fp fingerprint.Fingerprint) error {
	return s.client.Set(ctx, s.Key(key), string(fp), 0).Err()
}

// Close closes the client.
func (s *RedisStore) Close() error { return s.client.Close() }
