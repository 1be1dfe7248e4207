// Package mock generates synthetic open-house listings so the pipeline can
// be developed, demoed and tested without touching a live site.
package mock

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"

	"openhouse-aggregator/models"
	"openhouse-aggregator/utils"
)

const (
	source      = "mock"
	batchSize   = 6
	centerLat   = 37.7749
	centerLon   = -122.4194
	coordJitter = 0.05

	// Generator price bounds in cents: $800K to $2M.
	minPriceGen = 80_000_000
	maxPriceGen = 200_000_000
)

var addresses = []string{
	"425 1st St, San Francisco, CA",
	"789 Mission St, San Francisco, CA",
	"321 Hayes St, San Francisco, CA",
	"654 Irving St, San Francisco, CA",
	"987 Lombard St, San Francisco, CA",
	"147 Geary St, San Francisco, CA",
	"258 Folsom St, San Francisco, CA",
	"369 Bush St, San Francisco, CA",
}

var descriptions = []string{
	"Stunning modern condo with city views and updated kitchen",
	"Charming Victorian home with original details and garden",
	"Contemporary apartment with hardwood floors and balcony",
	"Spacious family home with garage and private yard",
	"Luxury penthouse with panoramic bay views",
	"Cozy starter home in quiet residential neighborhood",
	"Historic building converted to modern loft space",
	"Bright and airy unit with in-unit laundry",
}

var openHouseTimes = []string{
	"Sat 1-4pm", "Sun 2-5pm", "Sat 12-3pm", "Sun 1-4pm",
	"Sat 2-5pm", "Sun 12-3pm", "Sat 11am-2pm", "Sun 3-6pm",
}

var bathOptions = []float64{1, 1.5, 2, 2.5, 3}

// Scraper draws plausible listings from fixed catalogues. Deterministic
// interface, non-deterministic output; always succeeds.
type Scraper struct {
	logger *utils.Logger
	rng    *rand.Rand
}

// New creates a mock Scraper seeded from the wall clock.
func New(logger *utils.Logger) *Scraper {
	return NewWithSeed(logger, time.Now().UnixNano())
}

// NewWithSeed creates a mock Scraper with a fixed seed, for reproducible runs.
func NewWithSeed(logger *utils.Logger, seed int64) *Scraper {
	return &Scraper{logger: logger, rng: rand.New(rand.NewSource(seed))}
}

// ScrapeListings generates a fixed-size batch of raw listings. The location
// argument is accepted for interface parity; the catalogue is San Francisco.
func (s *Scraper) ScrapeListings(_ context.Context, location string) ([]*models.RawListing, error) {
	listings := make([]*models.RawListing, 0, batchSize)

	for i := 0; i < batchSize; i++ {
		price := float64(minPriceGen + s.rng.Int63n(maxPriceGen-minPriceGen+1))
		beds := 1 + s.rng.Intn(4)
		baths := bathOptions[s.rng.Intn(len(bathOptions))]
		lat := round6(centerLat + s.jitter())
		lon := round6(centerLon + s.jitter())

		listings = append(listings, &models.RawListing{
			Source:        source,
			Address:       addresses[s.rng.Intn(len(addresses))],
			Price:         &price,
			Beds:          &beds,
			Baths:         &baths,
			OpenHouseTime: openHouseTimes[s.rng.Intn(len(openHouseTimes))],
			Description:   descriptions[s.rng.Intn(len(descriptions))],
			Latitude:      &lat,
			Longitude:     &lon,
			ListingURL:    fmt.Sprintf("https://example.com/listing/%d", i+1),
		})
	}

	s.logger.Info("[mock] Generated %d mock listings for %q", len(listings), location)
	return listings, nil
}

// ParseListingDetails synthesizes the enrichment fields a detail page
// would provide.
func (s *Scraper) ParseListingDetails(_ context.Context, _ string) (map[string]string, error) {
	parking := []string{"None", "1 space", "2 spaces", "Garage"}
	return map[string]string{
		"square_feet": strconv.Itoa(800 + s.rng.Intn(2201)),
		"year_built":  strconv.Itoa(1950 + s.rng.Intn(74)),
		"parking":     parking[s.rng.Intn(len(parking))],
	}, nil
}

func (s *Scraper) jitter() float64 {
	return (s.rng.Float64()*2 - 1) * coordJitter
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
