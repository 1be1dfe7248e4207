// Package redfin scrapes open-house listings from Redfin search pages.
//
// The selectors below are illustrative shapes, not a verified contract with
// the live site's markup; they are centralized so swapping in real ones is
// a one-constant change.
package redfin

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"openhouse-aggregator/models"
	"openhouse-aggregator/scraper"
	"openhouse-aggregator/utils"
)

const (
	defaultBaseURL = "https://www.redfin.com"
	source         = "redfin"

	// Each fetch is bounded to this many listing containers.
	maxContainers = 10

	// CSS selectors for the search results page.
	containerSelector = "div.HomeCard"
	priceSelector     = "span.price"
	addressSelector   = "div.address"
	statsSelector     = "div.stats"
	openHouseSelector = "div.open-house-time"
	linkSelector      = "a[href]"
)

var (
	bedsRegexp  = regexp.MustCompile(`(\d+)\s*bed`)
	bathsRegexp = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*bath`)
)

// Scraper extracts open-house listings from Redfin search result pages.
type Scraper struct {
	// BaseURL is overridable for tests; defaults to the live site.
	BaseURL string

	session *scraper.Session
	visited *utils.URLSet
	logger  *utils.Logger
}

// New creates a Redfin Scraper with the given politeness delay bounds.
// Redfin gets a wider default cadence than most sources (2-4s).
func New(minDelay, maxDelay time.Duration, logger *utils.Logger) *Scraper {
	if minDelay == 0 && maxDelay == 0 {
		minDelay, maxDelay = 2*time.Second, 4*time.Second
	}
	return &Scraper{
		BaseURL: defaultBaseURL,
		session: scraper.NewSession(minDelay, maxDelay, logger),
		visited: utils.NewURLSet(),
		logger:  logger,
	}
}

// ScrapeListings fetches the open-house search page for a location and
// extracts up to maxContainers raw listings. A failed top-level fetch
// degrades to an empty batch; per-container failures skip that container.
func (s *Scraper) ScrapeListings(ctx context.Context, location string) ([]*models.RawListing, error) {
	searchURL := s.buildSearchURL(location)

	doc, err := s.session.GetPage(ctx, searchURL)
	if err != nil {
		s.logger.Error("[redfin] Search page fetch failed: %v", err)
		return nil, nil
	}

	var listings []*models.RawListing
	doc.Find(containerSelector).EachWithBreak(func(i int, container *goquery.Selection) bool {
		if len(listings) >= maxContainers {
			return false
		}

		listing, err := s.parseContainer(container)
		if err != nil {
			s.logger.Error("[redfin] Skipping container %d: %v", i, err)
			return true
		}
		listings = append(listings, listing)
		return true
	})

	s.logger.Info("[redfin] Scraped %d listings from %q", len(listings), location)
	return listings, nil
}

// buildSearchURL constructs the open-house search URL for a location.
func (s *Scraper) buildSearchURL(location string) string {
	return fmt.Sprintf("%s/city/%s/filter/include=open-house", s.BaseURL, url.PathEscape(location))
}

// parseContainer extracts one raw listing from a HomeCard element.
func (s *Scraper) parseContainer(container *goquery.Selection) (*models.RawListing, error) {
	price := scraper.NormalizePrice(container.Find(priceSelector).First().Text())
	address := scraper.NormalizeAddress(container.Find(addressSelector).First().Text())

	var beds *int
	var baths *float64
	if stats := container.Find(statsSelector).First(); stats.Length() > 0 {
		beds, baths = parseBedBath(stats.Text())
	}

	openHouseTime := strings.TrimSpace(container.Find(openHouseSelector).First().Text())

	var listingURL string
	if href, ok := container.Find(linkSelector).First().Attr("href"); ok {
		resolved, err := s.resolveURL(href)
		if err != nil {
			return nil, fmt.Errorf("bad detail link %q: %w", href, err)
		}
		listingURL = resolved
	}

	if listingURL != "" && !s.visited.Add(listingURL) {
		return nil, fmt.Errorf("duplicate detail link %s", listingURL)
	}

	return &models.RawListing{
		Source:        source,
		Address:       address,
		Price:         price,
		Beds:          beds,
		Baths:         baths,
		OpenHouseTime: openHouseTime,
		ListingURL:    listingURL,
		// Description, latitude and longitude come from enrichment
		// and geocoding later; absent at scrape time.
	}, nil
}

// parseBedBath extracts counts from a stats string like "2 beds, 1.5 baths".
func parseBedBath(statsText string) (*int, *float64) {
	statsText = strings.ToLower(statsText)

	var beds *int
	if m := bedsRegexp.FindStringSubmatch(statsText); len(m) >= 2 {
		if n, err := strconv.Atoi(m[1]); err == nil {
			beds = &n
		}
	}

	var baths *float64
	if m := bathsRegexp.FindStringSubmatch(statsText); len(m) >= 2 {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil {
			baths = &f
		}
	}

	return beds, baths
}

func (s *Scraper) resolveURL(href string) (string, error) {
	base, err := url.Parse(s.BaseURL)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

// ParseListingDetails fetches a listing detail page, best effort. A failed
// fetch yields an empty map rather than an error.
func (s *Scraper) ParseListingDetails(ctx context.Context, listingURL string) (map[string]string, error) {
	doc, err := s.session.GetPage(ctx, listingURL)
	if err != nil {
		s.logger.Error("[redfin] Detail page fetch failed: %v", err)
		return map[string]string{}, nil
	}

	details := make(map[string]string)
	if desc := strings.TrimSpace(doc.Find("div.remarks").First().Text()); desc != "" {
		details["description"] = desc
	}
	return details, nil
}
