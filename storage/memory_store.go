package storage

import (
	"sync"

	"openhouse-aggregator/models"
)

// MemoryStore is an explicitly owned in-memory ListingStore. It backs the
// consumer API when no Postgres host is configured, and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	listings []*models.StoredListing
	nextID   int64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

// BulkInsert appends listings, assigning sequential IDs.
func (m *MemoryStore) BulkInsert(listings []*models.StoredListing) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, l := range listings {
		stored := *l
		stored.ID = m.nextID
		m.nextID++
		m.listings = append(m.listings, &stored)
	}
	return nil
}

// List returns all stored listings in insertion order.
func (m *MemoryStore) List() ([]*models.StoredListing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.StoredListing, len(m.listings))
	copy(out, m.listings)
	return out, nil
}

// Clear removes all listings and returns how many were removed.
func (m *MemoryStore) Clear() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := len(m.listings)
	m.listings = nil
	return count, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error { return nil }
