package services

import (
	"strings"
	"unicode"

	"openhouse-aggregator/models"
	"openhouse-aggregator/utils"
)

// Price bounds in cents: $100K to $50M.
const (
	minPriceCents int64 = 10_000_000
	maxPriceCents int64 = 5_000_000_000
)

const (
	maxBeds            = 10
	maxBaths           = 20.0
	maxDescriptionLen  = 500
	descriptionKeepLen = 497
	ellipsis           = "..."
)

// Cleaner validates and normalizes raw listings into canonical records.
// It is pure: the same input always yields the same output, and internal
// failures become rejections, never panics across the boundary.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean processes raw listings in order and returns the accepted records.
func (c *Cleaner) Clean(raw []*models.RawListing) []*models.CanonicalListing {
	result := make([]*models.CanonicalListing, 0, len(raw))

	for _, r := range raw {
		if listing, ok := c.CleanListing(r); ok {
			result = append(result, listing)
		}
	}

	c.logger.Info("[cleaner] Cleaned %d -> %d listings (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

// CleanListing validates one raw listing. The second return value is false
// when the record is rejected; the only gating fields are a non-empty
// address and an in-range price. Every other field degrades to absent.
func (c *Cleaner) CleanListing(raw *models.RawListing) (*models.CanonicalListing, bool) {
	if raw == nil {
		c.logger.Warn("[cleaner] Dropping nil listing")
		return nil, false
	}

	address := cleanAddress(raw.Address)
	price := validatePrice(raw.Price)

	if address == "" || price == nil {
		c.logger.Warn("[cleaner] Missing required fields in listing: %q", address)
		return nil, false
	}

	return &models.CanonicalListing{
		Source:        strings.ToLower(raw.Source),
		Address:       address,
		Price:         *price,
		Beds:          validateBeds(raw.Beds),
		Baths:         validateBaths(raw.Baths),
		OpenHouseTime: strings.TrimSpace(raw.OpenHouseTime),
		Description:   cleanDescription(raw.Description),
		Latitude:      copyFloat(raw.Latitude),
		Longitude:     copyFloat(raw.Longitude),
		ListingURL:    raw.ListingURL,
	}, true
}

// cleanAddress collapses whitespace runs, trims, and title-cases.
func cleanAddress(address string) string {
	return titleCase(collapseWhitespace(address))
}

// validatePrice truncates to integer cents and gates on the sanity range.
func validatePrice(price *float64) *int64 {
	if price == nil {
		return nil
	}
	cents := int64(*price)
	if cents < minPriceCents || cents > maxPriceCents {
		return nil
	}
	return &cents
}

// validateBeds accepts bedroom counts in [0, 10].
func validateBeds(beds *int) *int {
	if beds == nil || *beds < 0 || *beds > maxBeds {
		return nil
	}
	v := *beds
	return &v
}

// validateBaths accepts bathroom counts in [0, 20].
func validateBaths(baths *float64) *float64 {
	if baths == nil || *baths < 0 || *baths > maxBaths {
		return nil
	}
	v := *baths
	return &v
}

// cleanDescription collapses whitespace and caps the result at 500
// characters, ending in an ellipsis marker when truncated.
func cleanDescription(description string) string {
	description = collapseWhitespace(description)

	runes := []rune(description)
	if len(runes) > maxDescriptionLen {
		return string(runes[:descriptionKeepLen]) + ellipsis
	}
	return description
}

// collapseWhitespace trims and reduces internal whitespace runs to single
// spaces.
func collapseWhitespace(s string) string {
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	return strings.Join(fields, " ")
}

// titleCase uppercases the first letter of every letter run and lowercases
// the rest, so "san francisco, ca" becomes "San Francisco, Ca".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
