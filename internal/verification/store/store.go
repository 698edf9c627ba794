// Package store persists verification records. Stores are interface-driven
// so the service layer stays testable and the backing engine (in-memory,
// Redis, PostgreSQL) can be swapped without rewiring business code.
package store

import (
	"context"

	"vouch/internal/verification/models"
	dErrors "vouch/pkg/domain-errors"
)

// Store is the record persistence contract. Each call is atomic at
// single-record granularity and fails fast when the backend is unreachable
// (CodeUnavailable) rather than hanging.
type Store interface {
	// FindAny probes keys in order and returns the first record found.
	// Returns ErrNotFound when no key matches.
	FindAny(ctx context.Context, keys ...string) (models.Record, error)

	// Save creates or fully replaces the record under rec.Username.
	Save(ctx context.Context, rec models.Record) error

	// Delete removes the record under key, reporting whether one existed.
	Delete(ctx context.Context, key string) (bool, error)
}

// ErrNotFound keeps store-level misses consistent across implementations.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "record not found")
