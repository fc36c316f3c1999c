package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mediride/transit-client/internal/core/ports"
)

const defaultPingTimeout = 5 * time.Second

// Config holds the settings for the Redis credential backend.
type Config struct {
	Addr string
	DB   int
	// KeyPrefix namespaces every key so several logical clients can share
	// one Redis database.
	KeyPrefix string
	// PingTimeout bounds the connectivity check; zero means 5s.
	PingTimeout time.Duration
}

// KVStore adapts a Redis client to the key-value persistence capability used
// by the keychain. Intended for headless/agent deployments where the client
// runs without a local filesystem of its own. MSET and DEL are single
// commands, so the multi-key operations are atomic as a set.
type KVStore struct {
	client *redis.Client
	prefix string
}

var _ ports.KeyValueStore = (*KVStore)(nil)

// Connect dials Redis, verifies connectivity with a ping, and returns a
// store ready for the keychain. The pool is sized for one short-lived client
// process holding a handful of keys, not a server under load.
func Connect(ctx context.Context, cfg Config) (*KVStore, error) {
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		DB:           cfg.DB,
		PoolSize:     2,
		MinIdleConns: 0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewKVStore(client, cfg.KeyPrefix), nil
}

// NewKVStore wraps an already connected client.
func NewKVStore(client *redis.Client, prefix string) *KVStore {
	return &KVStore{client: client, prefix: prefix}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *KVStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *KVStore) MultiSet(ctx context.Context, pairs map[string]string) error {
	args := make([]any, 0, len(pairs)*2)
	for k, v := range pairs {
		args = append(args, s.prefix+k, v)
	}
	if err := s.client.MSet(ctx, args...).Err(); err != nil {
		return fmt.Errorf("redis mset: %w", err)
	}
	return nil
}

func (s *KVStore) MultiRemove(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.prefix + k
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
