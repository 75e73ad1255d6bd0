package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key has no value (or the value expired).
var ErrNotFound = errors.New("storage: key not found")

// KV is the scoped key/value store backing the order query cache. Values are
// opaque strings; callers handle their own serialization.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Remove(ctx context.Context, key string) error
}
