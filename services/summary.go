package services

import (
	"fmt"
	"sort"

	"openhouse-aggregator/models"
	"openhouse-aggregator/utils"
)

// BatchSummary holds simple statistics over one cleaned batch.
type BatchSummary struct {
	Attempted  int
	Accepted   int
	Dropped    int
	MinPrice   int64 // cents
	MaxPrice   int64
	AvgPrice   int64
	WithCoords int
	BySource   map[string]int
}

// SummaryService computes and prints batch statistics after a run.
type SummaryService struct {
	logger *utils.Logger
}

func NewSummaryService(logger *utils.Logger) *SummaryService {
	return &SummaryService{logger: logger}
}

// Generate computes statistics for a run report.
func (s *SummaryService) Generate(report *models.RunReport) *BatchSummary {
	summary := &BatchSummary{
		Attempted: report.Attempted,
		Accepted:  report.Accepted,
		Dropped:   report.Attempted - report.Accepted,
		BySource:  make(map[string]int),
	}

	if len(report.Batch) == 0 {
		return summary
	}

	summary.MinPrice = report.Batch[0].Price
	summary.MaxPrice = report.Batch[0].Price

	var total int64
	for _, l := range report.Batch {
		total += l.Price
		if l.Price < summary.MinPrice {
			summary.MinPrice = l.Price
		}
		if l.Price > summary.MaxPrice {
			summary.MaxPrice = l.Price
		}
		if l.Latitude != nil && l.Longitude != nil {
			summary.WithCoords++
		}
		summary.BySource[l.Source]++
	}
	summary.AvgPrice = total / int64(len(report.Batch))

	return summary
}

// Print writes a human-readable summary to stdout.
func (s *SummaryService) Print(summary *BatchSummary) {
	fmt.Println()
	fmt.Println("=== Run Summary ===")
	fmt.Printf("  Listings: %d attempted, %d accepted, %d dropped\n",
		summary.Attempted, summary.Accepted, summary.Dropped)

	if summary.Accepted > 0 {
		fmt.Printf("  Price:    $%s min / $%s avg / $%s max\n",
			formatDollars(summary.MinPrice), formatDollars(summary.AvgPrice),
			formatDollars(summary.MaxPrice))
		fmt.Printf("  Geocoded: %d of %d\n", summary.WithCoords, summary.Accepted)

		sources := make([]string, 0, len(summary.BySource))
		for src := range summary.BySource {
			sources = append(sources, src)
		}
		sort.Strings(sources)
		for _, src := range sources {
			fmt.Printf("  Source:   %s (%d)\n", src, summary.BySource[src])
		}
	}
	fmt.Println()
}

// formatDollars renders cents as whole dollars with thousands separators.
func formatDollars(cents int64) string {
	dollars := cents / 100
	s := fmt.Sprintf("%d", dollars)
	if len(s) <= 3 {
		return s
	}

	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}
