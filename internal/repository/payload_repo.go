package repository

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrCacheMiss is returned by PayloadCache.Get when nothing is stored for a keyword.
	ErrCacheMiss = errors.New("payload not cached")
	// ErrProviderRejected is wrapped by sources when the search provider refused the query.
	ErrProviderRejected = errors.New("search provider rejected the query")
)

// PayloadSource defines the contract for obtaining the raw search response of a keyword.
type PayloadSource interface {
	// Fetch returns the undecoded response body for keyword.
	Fetch(ctx context.Context, keyword string) ([]byte, error)
}

// PayloadCache defines the interface for reusing recently fetched responses.
type PayloadCache interface {
	// Get returns the cached body for keyword, or ErrCacheMiss.
	Get(ctx context.Context, keyword string) ([]byte, error)
	// Set stores body for keyword with the given expiry.
	Set(ctx context.Context, keyword string, body []byte, expiry time.Duration) error
}
