package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/serp-visibility/internal/repository"
)

func TestPayloadCache_KeyIsNamespaced(t *testing.T) {
	a := NewPayloadCache(nil, "google")
	b := NewPayloadCache(nil, "bing")
	assert.NotEqual(t, a.generateKey("acme"), b.generateKey("acme"))
	assert.Equal(t, a.generateKey("acme"), NewPayloadCache(nil, "google").generateKey("acme"))
	assert.Contains(t, a.generateKey("acme"), payloadKeyPrefix)
}

// fakeRedis answers GET, SET and PING from memory. Other commands are not implemented.
type fakeRedis struct {
	redis.Cmdable
	store   map[string]string
	expiry  map[string]time.Duration
	failErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{store: map[string]string{}, expiry: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.failErr != nil {
		return redis.NewStringResult("", f.failErr)
	}
	v, ok := f.store[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.failErr != nil {
		return redis.NewStatusResult("", f.failErr)
	}
	switch v := value.(type) {
	case []byte:
		f.store[key] = string(v)
	case string:
		f.store[key] = v
	}
	f.expiry[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Ping(_ context.Context) *redis.StatusCmd {
	if f.failErr != nil {
		return redis.NewStatusResult("", f.failErr)
	}
	return redis.NewStatusResult("PONG", nil)
}

func TestPayloadCache_GetSet(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	cache := NewPayloadCache(fake, "google")

	_, err := cache.Get(ctx, "acme")
	assert.ErrorIs(t, err, repository.ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "acme", []byte(`{"ok":true}`), 2*time.Hour))
	key := cache.generateKey("acme")
	assert.Equal(t, 2*time.Hour, fake.expiry[key])

	body, err := cache.Get(ctx, "acme")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))

	_, err = NewPayloadCache(fake, "bing").Get(ctx, "acme")
	assert.ErrorIs(t, err, repository.ErrCacheMiss)
	assert.NoError(t, cache.Ping(ctx))
}

func TestPayloadCache_Errors(t *testing.T) {
	ctx := context.Background()
	down := errors.New("connection refused")
	fake := newFakeRedis()
	fake.failErr = down
	cache := NewPayloadCache(fake, "google")

	_, err := cache.Get(ctx, "acme")
	assert.ErrorIs(t, err, down)
	assert.NotErrorIs(t, err, repository.ErrCacheMiss)
	assert.ErrorIs(t, cache.Set(ctx, "acme", []byte("{}"), time.Minute), down)
	assert.ErrorIs(t, cache.Ping(ctx), down)
}

// Runs against a live server when REDIS_ADDR is set.
func TestPayloadCache_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(ctx).Err())

	cache := NewPayloadCache(client, "test-"+time.Now().Format(time.RFC3339Nano))
	_, err := cache.Get(ctx, "acme")
	assert.ErrorIs(t, err, repository.ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "acme", []byte(`{"ok":true}`), time.Minute))
	body, err := cache.Get(ctx, "acme")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	client.Del(ctx, cache.generateKey("acme"))
}
