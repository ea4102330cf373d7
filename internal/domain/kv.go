package domain

import (
	"context"
	"time"
)

// KVStore is the port for string-keyed local persistence.
// Get reports ok=false (and a nil error) when the key is absent.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// SubmissionGuard rejects repeated submissions of the same mutation.
// AcquireOnce returns true only for the first caller of key within ttl.
// Release drops a claim so a rejected submission can be retried.
type SubmissionGuard interface {
	AcquireOnce(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}
