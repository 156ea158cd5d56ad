// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"

	"flat_watch/internal/model"
)

// Storage is the interface for all persistence operations.
type Storage interface {
	// SeenIDs returns the set of listing IDs already notified for a
	// source. An empty database yields an empty map, not an error.
	SeenIDs(ctx context.Context, source string) (map[string]bool, error)

	// MarkSeen records listing IDs as notified. Re-marking an ID is
	// harmless.
	MarkSeen(ctx context.Context, source string, ids []string) error

	// RecordNotified archives listings that went into a summary.
	RecordNotified(ctx context.Context, listings []model.Listing) error

	// RecentNotified returns the most recently archived listings,
	// newest first.
	RecentNotified(ctx context.Context, limit int) ([]model.Listing, error)

	Close() error
}
