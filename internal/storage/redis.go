package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"consentd/pkg/platform/sentinel"
)

// Redis persists the preference blob in Redis. This is the production adapter:
// preferences survive process restarts and are shared across instances.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Available reports whether Redis currently answers pings. A false result
// makes the manager skip persistence rather than fail the operation.
func (r *Redis) Available(ctx context.Context) bool {
	return r.client.Ping(ctx).Err() == nil
}

// Get returns the stored blob. Missing keys map to sentinel.ErrNotFound.
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get preference blob: %w: %w", sentinel.ErrUnavailable, err)
	}
	return val, nil
}

// Set overwrites the stored blob. Preferences have no TTL: they persist until
// overwritten or cleared externally.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("set preference blob: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}
