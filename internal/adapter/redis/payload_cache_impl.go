package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/serp-visibility/internal/repository"
	"github.com/user/serp-visibility/pkg/utils"
)

const payloadKeyPrefix = "serp:payload:"

// PayloadCacheImpl provides a concrete implementation for the PayloadCache interface using Redis.
type PayloadCacheImpl struct {
	client    redis.Cmdable
	namespace string
}

// NewPayloadCache creates a new instance of PayloadCacheImpl. namespace separates
// responses of different engines or locales that share a keyword.
func NewPayloadCache(client redis.Cmdable, namespace string) *PayloadCacheImpl {
	return &PayloadCacheImpl{client: client, namespace: namespace}
}

// generateKey creates a consistent Redis key for a keyword by hashing it.
func (r *PayloadCacheImpl) generateKey(keyword string) string {
	return fmt.Sprintf("%s%s", payloadKeyPrefix, utils.HashKey(r.namespace, keyword))
}

// Get returns the stored body, or repository.ErrCacheMiss when the key is absent or expired.
func (r *PayloadCacheImpl) Get(ctx context.Context, keyword string) ([]byte, error) {
	body, err := r.client.Get(ctx, r.generateKey(keyword)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get payload: %w", err)
	}
	return body, nil
}

// Set stores the body with an expiry. SET with EX is atomic.
func (r *PayloadCacheImpl) Set(ctx context.Context, keyword string, body []byte, expiry time.Duration) error {
	if err := r.client.Set(ctx, r.generateKey(keyword), body, expiry).Err(); err != nil {
		return fmt.Errorf("redis set payload: %w", err)
	}
	return nil
}

// Ping checks that the server is reachable.
func (r *PayloadCacheImpl) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
