// Package server exposes the stored canonical listings to the map-based
// front end.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"openhouse-aggregator/models"
	"openhouse-aggregator/storage"
	"openhouse-aggregator/utils"
)

const apiVersion = "1.0.0"

// Defaults applied at ingest so the front end always has coordinates and
// an open-house label to render.
const (
	defaultLatitude  = 37.7749
	defaultLongitude = -122.4194
	defaultTime      = "TBD"
)

// Server is the consumer-side query API over an explicitly owned store.
type Server struct {
	store  storage.ListingStore
	logger *utils.Logger
}

// New creates a Server backed by the given store.
func New(store storage.ListingStore, logger *utils.Logger) *Server {
	return &Server{store: store, logger: logger}
}

// Handler returns the full route table wrapped in CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/open-houses", s.handleOpenHouses)
	mux.HandleFunc("/api/v1/listings/bulk", s.handleBulk)
	mux.HandleFunc("/api/v1/listings/clear", s.handleClear)
	return corsMiddleware(mux)
}

// corsMiddleware allows the front end to call from any origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, map[string]string{
		"message": "Open House Finder API",
		"version": apiVersion,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "healthy"})
}

// handleOpenHouses returns every stored listing for the map view.
func (s *Server) handleOpenHouses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	listings, err := s.store.List()
	if err != nil {
		s.logger.Error("[server] List failed: %v", err)
		http.Error(w, "storage failure", http.StatusInternalServerError)
		return
	}
	if listings == nil {
		listings = []*models.StoredListing{}
	}

	writeJSON(w, map[string]any{"open_houses": listings})
}

// bulkRequest is the ingestion payload from the pipeline sink.
type bulkRequest struct {
	Listings []*models.CanonicalListing `json:"listings"`
	Source   string                     `json:"source"`
}

// handleBulk accepts a cleaned batch, replacing all stored listings.
func (s *Server) handleBulk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, map[string]string{"status": "error", "message": err.Error()})
		return
	}

	// Replace-all semantics: each bulk upload is a full refresh.
	if _, err := s.store.Clear(); err != nil {
		s.logger.Error("[server] Clear before bulk insert failed: %v", err)
		writeJSON(w, map[string]string{"status": "error", "message": err.Error()})
		return
	}

	stored := make([]*models.StoredListing, 0, len(req.Listings))
	for _, l := range req.Listings {
		stored = append(stored, toStored(l))
	}

	if err := s.store.BulkInsert(stored); err != nil {
		s.logger.Error("[server] Bulk insert failed: %v", err)
		writeJSON(w, map[string]string{"status": "error", "message": err.Error()})
		return
	}

	s.logger.Info("[server] Ingested %d listings from %q", len(stored), req.Source)
	writeJSON(w, map[string]any{
		"status":         "success",
		"message":        fmt.Sprintf("Added %d listings", len(req.Listings)),
		"total_listings": len(stored),
	})
}

// handleClear drops all stored listings.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	count, err := s.store.Clear()
	if err != nil {
		s.logger.Error("[server] Clear failed: %v", err)
		http.Error(w, "storage failure", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{"message": fmt.Sprintf("Cleared %d listings", count)})
}

// toStored converts a canonical listing to the consumer shape: cents
// become whole dollars, absent fields get map-friendly defaults.
func toStored(l *models.CanonicalListing) *models.StoredListing {
	stored := &models.StoredListing{
		Address:       l.Address,
		Price:         l.Price / 100,
		Latitude:      defaultLatitude,
		Longitude:     defaultLongitude,
		OpenHouseTime: defaultTime,
		Description:   l.Description,
	}

	if l.Beds != nil {
		stored.Beds = *l.Beds
	}
	if l.Baths != nil {
		stored.Baths = *l.Baths
	}
	if l.Latitude != nil {
		stored.Latitude = *l.Latitude
	}
	if l.Longitude != nil {
		stored.Longitude = *l.Longitude
	}
	if l.OpenHouseTime != "" {
		stored.OpenHouseTime = l.OpenHouseTime
	}
	return stored
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
