package utils

import (
	"math/rand"
	"sync"
	"time"
)

// RandomDelay sleeps a uniformly random duration before each request to
// keep live scrapers within a polite cadence. It is a cooperative
// rate-limiting measure, not a concurrency primitive.
type RandomDelay struct {
	Min time.Duration
	Max time.Duration

	rng *rand.Rand
}

// NewRandomDelay creates a RandomDelay over [min, max].
func NewRandomDelay(min, max time.Duration) *RandomDelay {
	if max < min {
		max = min
	}
	return &RandomDelay{
		Min: min,
		Max: max,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Wait blocks for a random duration drawn uniformly from [Min, Max].
func (d *RandomDelay) Wait() {
	time.Sleep(d.Next())
}

// Next returns the duration the next Wait would sleep.
func (d *RandomDelay) Next() time.Duration {
	if d.Max <= d.Min {
		return d.Min
	}
	return d.Min + time.Duration(d.rng.Int63n(int64(d.Max-d.Min)))
}

// URLSet is a thread-safe set for tracking visited URLs.
type URLSet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewURLSet creates an empty URLSet.
func NewURLSet() *URLSet {
	return &URLSet{seen: make(map[string]struct{})}
}

// Add returns true if the URL was newly added, false if already present.
func (s *URLSet) Add(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[url]; exists {
		return false
	}
	s.seen[url] = struct{}{}
	return true
}

// Contains returns true if the URL has already been visited.
func (s *URLSet) Contains(url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[url]
	return exists
}

// Size returns the number of unique URLs tracked.
func (s *URLSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
