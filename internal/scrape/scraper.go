// Package scrape provides page-text extraction for competitor analysis.
// A Scraper returns extracted text for a URL; an empty string signals
// failure, never an error the pipeline has to branch on.
package scrape

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/leadscout/leadscout-backend/internal/pkg/logger"
)

// Scraper extracts readable text from a page
type Scraper interface {
	// Scrape returns the extracted text for url, or an error on transport failure
	Scrape(ctx context.Context, url string) (string, error)

	// Name identifies the backend for stats and logging
	Name() string
}

// Stats tracks per-backend usage counters
type Stats struct {
	mu       sync.Mutex
	requests map[string]int64
	failures map[string]int64
}

func newStats() *Stats {
	return &Stats{
		requests: make(map[string]int64),
		failures: make(map[string]int64),
	}
}

func (s *Stats) record(backend string, failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[backend]++
	if failed {
		s.failures[backend]++
	}
}

// Snapshot returns a copy of the request/failure counts per backend
func (s *Stats) Snapshot() (requests, failures map[string]int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	requests = make(map[string]int64, len(s.requests))
	failures = make(map[string]int64, len(s.failures))
	for k, v := range s.requests {
		requests[k] = v
	}
	for k, v := range s.failures {
		failures[k] = v
	}
	return requests, failures
}

// Manager tries each configured backend in order until one returns text.
// The original research flow preferred the reader API and only fell back
// to direct fetching or a rendered browser session when it came back empty.
type Manager struct {
	backends []Scraper
	stats    *Stats
	log      *logger.Logger
}

// NewManager creates a manager over an ordered backend chain
func NewManager(log *logger.Logger, backends ...Scraper) *Manager {
	return &Manager{
		backends: backends,
		stats:    newStats(),
		log:      log,
	}
}

// Scrape returns the first non-empty extraction from the backend chain.
// If every backend fails the result is an empty string, mirroring the
// degraded-but-usable contract of the aggregation pipeline.
func (m *Manager) Scrape(ctx context.Context, url string) string {
	for _, b := range m.backends {
		text, err := b.Scrape(ctx, url)
		failed := err != nil || text == ""
		m.stats.record(b.Name(), failed)

		if err != nil {
			m.log.Warn("scrape backend failed",
				zap.String("backend", b.Name()),
				zap.String("url", url),
				zap.Error(err),
			)
			continue
		}
		if text != "" {
			return text
		}
	}
	return ""
}

// Stats exposes the usage counters
func (m *Manager) Stats() *Stats {
	return m.stats
}
