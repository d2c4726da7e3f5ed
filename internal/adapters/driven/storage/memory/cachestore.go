// Package memory provides in-memory implementations of driven port
// interfaces. They back tests and dry runs where nothing should touch
// disk; nothing survives process exit.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/openroster/affilscan/internal/core/domain"
	"github.com/openroster/affilscan/internal/core/ports/driven"
)

// Ensure CacheStore implements the interface.
var _ driven.FilingCache = (*CacheStore)(nil)

// CacheStore is an in-memory implementation of driven.FilingCache.
type CacheStore struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

type cacheEntry struct {
	content   string
	fetchedAt time.Time
}

// NewCacheStore creates a new in-memory filing cache with the given TTL
// in days.
func NewCacheStore(ttlDays int) *CacheStore {
	if ttlDays <= 0 {
		ttlDays = 30
	}
	return &CacheStore{
		entries: make(map[string]cacheEntry),
		ttl:     time.Duration(ttlDays) * 24 * time.Hour,
	}
}

// Get returns cached content for the accession number. Expired entries
// are evicted and reported as missing.
func (s *CacheStore) Get(_ context.Context, accessionNo string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[accessionNo]
	if !ok {
		return "", domain.ErrNotFound
	}
	if time.Since(entry.fetchedAt) > s.ttl {
		delete(s.entries, accessionNo)
		return "", domain.ErrNotFound
	}
	return entry.content, nil
}

// Set stores content under the accession number.
func (s *CacheStore) Set(_ context.Context, accessionNo, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[accessionNo] = cacheEntry{content: content, fetchedAt: time.Now()}
	return nil
}

// Has reports whether an unexpired entry exists.
func (s *CacheStore) Has(ctx context.Context, accessionNo string) (bool, error) {
	_, err := s.Get(ctx, accessionNo)
	if err == domain.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ClearExpired removes all entries older than the TTL.
func (s *CacheStore) ClearExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for key, entry := range s.entries {
		if time.Since(entry.fetchedAt) > s.ttl {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

// ClearAll removes all entries.
func (s *CacheStore) ClearAll(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := int64(len(s.entries))
	s.entries = make(map[string]cacheEntry)
	return removed, nil
}

// Stats summarises cache contents.
func (s *CacheStore) Stats(_ context.Context) (domain.CacheStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.CacheStats{Count: int64(len(s.entries))}
	var totalBytes int
	var oldest time.Time
	for _, entry := range s.entries {
		totalBytes += len(entry.content)
		if oldest.IsZero() || entry.fetchedAt.Before(oldest) {
			oldest = entry.fetchedAt
		}
	}
	stats.TotalSizeMB = float64(totalBytes) / (1024 * 1024)
	if !oldest.IsZero() {
		age := time.Since(oldest).Hours() / 24
		stats.OldestAgeDays = &age
	}
	return stats, nil
}
