package ports

import (
	"context"
	"errors"
	"time"
)

// ErrIdempotencyConflict indicates the same key was used for a different checkout.
var ErrIdempotencyConflict = errors.New("idempotency conflict")

// CheckoutRecord ties a client supplied key to the lead its checkout produced.
type CheckoutRecord struct {
	Key         string
	RequestHash string
	LeadID      string
	Destination string
	Message     string
	TotalMinor  int64
	Channel     string
	Reference   string
	URL         string
	CreatedAt   time.Time
}

// IdempotencyStore lets checkout retries replay the first result.
type IdempotencyStore interface {
	// Get returns nil when the key is unknown.
	Get(ctx context.Context, key string) (*CheckoutRecord, error)
	// Save returns the stored record when the key already exists with the same hash,
	// and ErrIdempotencyConflict when it exists with a different one.
	Save(ctx context.Context, record CheckoutRecord) (*CheckoutRecord, error)
}
