package scraper

import (
	"context"

	"openhouse-aggregator/models"
)

// Source is the capability set every listing source must provide, whether
// it scrapes a live site or synthesizes data.
type Source interface {
	// ScrapeListings produces raw, untrusted listings for a location query.
	// Live sources degrade network failure to an empty slice with a nil
	// error; a non-nil error means the source itself misbehaved and the
	// caller may substitute a fallback batch.
	ScrapeListings(ctx context.Context, location string) ([]*models.RawListing, error)

	// ParseListingDetails fetches per-listing enrichment, best effort.
	// A failed fetch yields an empty map, never an error the caller must
	// branch on record-by-record.
	ParseListingDetails(ctx context.Context, listingURL string) (map[string]string, error)
}
