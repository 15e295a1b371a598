package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys that were already handled: payment
// Idempotency-Key headers and delivered event IDs.
type IdempotencyStore interface {
	// MarkProcessed claims key for ttl. Returns false if the key is already claimed.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key is currently claimed
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release drops a claim so the key can be retried, e.g. after a failed transaction
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// DefaultIdempotencyTTL is how long a claimed key blocks duplicates
const DefaultIdempotencyTTL = 24 * time.Hour
