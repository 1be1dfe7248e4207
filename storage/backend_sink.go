package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"openhouse-aggregator/models"
	"openhouse-aggregator/utils"
)

const (
	sendTimeout  = 30 * time.Second
	probeTimeout = 5 * time.Second

	// Static tag identifying this pipeline to the backend.
	sourceTag = "data-ingestion"
)

// bulkPayload is the wire format of POST /api/v1/listings/bulk.
type bulkPayload struct {
	Listings []*models.CanonicalListing `json:"listings"`
	Source   string                     `json:"source"`
}

// BackendSink delivers listing batches to the backend ingestion endpoint
// over HTTP.
type BackendSink struct {
	baseURL string
	client  *http.Client
	logger  *utils.Logger
}

// NewBackendSink creates a sink targeting the backend rooted at baseURL.
func NewBackendSink(baseURL string, logger *utils.Logger) *BackendSink {
	return &BackendSink{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		logger:  logger,
	}
}

// Send serializes the batch plus the source tag and performs one
// synchronous POST. Non-2xx responses and network failures are logged and
// returned as errors; the caller decides the run outcome, nothing retries.
func (s *BackendSink) Send(ctx context.Context, batch []*models.CanonicalListing) error {
	body, err := json.Marshal(bulkPayload{Listings: batch, Source: sourceTag})
	if err != nil {
		return fmt.Errorf("sink: marshal batch: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/api/v1/listings/bulk", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sink: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("[sink] Failed to send data to backend: %v", err)
		return fmt.Errorf("sink: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("[sink] Backend returned %d", resp.StatusCode)
		return fmt.Errorf("sink: backend returned %d", resp.StatusCode)
	}

	s.logger.Info("[sink] Successfully sent %d listings to backend", len(batch))
	return nil
}

// TestConnection probes GET /health with a short timeout.
func (s *BackendSink) TestConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("sink: build probe: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("[sink] Cannot reach backend: %v", err)
		return fmt.Errorf("sink: health probe: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("[sink] Backend health check failed: %d", resp.StatusCode)
		return fmt.Errorf("sink: health check returned %d", resp.StatusCode)
	}

	s.logger.Info("[sink] Backend connection successful")
	return nil
}
