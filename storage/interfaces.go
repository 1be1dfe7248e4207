package storage

import (
	"context"

	"openhouse-aggregator/models"
)

// BatchSink delivers a cleaned batch to a remote storage/query tier.
type BatchSink interface {
	// Send delivers the whole batch in one call. Any failure applies to
	// the batch as a whole; there is no partial delivery.
	Send(ctx context.Context, batch []*models.CanonicalListing) error

	// TestConnection is a lightweight health probe against the same
	// endpoint, used to fail fast before a pipeline run.
	TestConnection(ctx context.Context) error
}

// ListingStore is the consumer-side store the sink ultimately targets.
type ListingStore interface {
	BulkInsert(listings []*models.StoredListing) error
	List() ([]*models.StoredListing, error)
	Clear() (int, error)
	Close() error
}
