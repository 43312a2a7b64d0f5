package shared

import (
	"context"
	"time"
)

// StoredResponse is the recorded outcome of a request made under an
// idempotency key. A Pending response marks a request still in flight.
type StoredResponse struct {
	Pending     bool   `json:"pending,omitempty"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

// IdempotencyStore records request outcomes so a retried create is replayed
// instead of executed twice
type IdempotencyStore interface {
	// Reserve claims key for an in-flight request.
	// Returns false if the key is already reserved or completed.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Load returns the stored response for key, or nil if there is none
	Load(ctx context.Context, key string) (*StoredResponse, error)

	// Complete stores the final response for a reserved key
	Complete(ctx context.Context, key string, resp StoredResponse, ttl time.Duration) error

	// Release drops a reservation so the request can be retried
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a completed response is replayed
	// Default: 24 hours
	TTL time.Duration

	// Enabled determines whether idempotency checking is enabled
	// Default: true
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
