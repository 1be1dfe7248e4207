package mock

import (
	"context"
	"math"
	"strings"
	"testing"

	"openhouse-aggregator/services"
	"openhouse-aggregator/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func TestScrapeListingsInvariants(t *testing.T) {
	s := NewWithSeed(newTestLogger(), 42)

	listings, err := s.ScrapeListings(context.Background(), "San Francisco, CA")
	if err != nil {
		t.Fatalf("mock adapter must not fail: %v", err)
	}
	if len(listings) != 6 {
		t.Fatalf("got %d listings; want exactly 6", len(listings))
	}

	for i, l := range listings {
		if l.Source != "mock" {
			t.Errorf("listing %d: source = %q", i, l.Source)
		}
		if l.Address == "" {
			t.Errorf("listing %d: empty address", i)
		}
		if l.Price == nil || *l.Price < 80_000_000 || *l.Price > 200_000_000 {
			t.Errorf("listing %d: price out of generator range: %v", i, l.Price)
		}
		if l.Beds == nil || *l.Beds < 1 || *l.Beds > 4 {
			t.Errorf("listing %d: beds out of [1,4]: %v", i, l.Beds)
		}
		if l.Baths == nil {
			t.Errorf("listing %d: missing baths", i)
		}
		// Small epsilon absorbs float error from the 6-decimal rounding.
		if l.Latitude == nil || math.Abs(*l.Latitude-37.7749) > 0.05+1e-6 {
			t.Errorf("listing %d: latitude outside jitter bound: %v", i, l.Latitude)
		}
		if l.Longitude == nil || math.Abs(*l.Longitude-(-122.4194)) > 0.05+1e-6 {
			t.Errorf("listing %d: longitude outside jitter bound: %v", i, l.Longitude)
		}
		if !strings.HasPrefix(l.ListingURL, "https://example.com/listing/") {
			t.Errorf("listing %d: unexpected url %q", i, l.ListingURL)
		}
	}
}

// Synthetic data is constructed to always satisfy the cleaner's gating
// invariants; a smaller batch here means generator and cleaner drifted
// apart.
func TestMockBatchSurvivesCleaning(t *testing.T) {
	logger := newTestLogger()
	cleaner := services.NewCleaner(logger)

	for _, seed := range []int64{1, 42, 1234567} {
		s := NewWithSeed(logger, seed)
		raw, err := s.ScrapeListings(context.Background(), "San Francisco, CA")
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}

		cleaned := cleaner.Clean(raw)
		if len(cleaned) < 6 {
			t.Errorf("seed %d: only %d of %d mock listings survived cleaning", seed, len(cleaned), len(raw))
		}
	}
}

func TestParseListingDetails(t *testing.T) {
	s := NewWithSeed(newTestLogger(), 7)

	details, err := s.ParseListingDetails(context.Background(), "https://example.com/listing/1")
	if err != nil {
		t.Fatalf("mock details must not fail: %v", err)
	}

	for _, key := range []string{"square_feet", "year_built", "parking"} {
		if details[key] == "" {
			t.Errorf("missing detail key %q", key)
		}
	}
}
