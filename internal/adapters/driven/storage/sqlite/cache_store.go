package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/openroster/affilscan/internal/core/domain"
	"github.com/openroster/affilscan/internal/core/ports/driven"
)

// DefaultCacheTTLDays is the retention period applied when the caller
// does not configure one.
const DefaultCacheTTLDays = 30

// cacheStore implements driven.FilingCache. Expiry is lazy: stale rows
// are removed when a read touches them or when ClearExpired runs.
type cacheStore struct {
	store   *Store
	ttlDays int
}

var _ driven.FilingCache = (*cacheStore)(nil)

func (c *cacheStore) cutoff(now time.Time) time.Time {
	days := c.ttlDays
	if days <= 0 {
		days = DefaultCacheTTLDays
	}
	return now.AddDate(0, 0, -days)
}

// Get returns cached content for the accession number. Expired entries
// are deleted on the way out and reported as missing.
func (c *cacheStore) Get(ctx context.Context, accessionNo string) (string, error) {
	row := c.store.db.QueryRowContext(ctx, `
		SELECT content, download_timestamp
		FROM filing_cache WHERE accession_number = ?
	`, accessionNo)

	var content string
	var downloadedAt time.Time
	if err := row.Scan(&content, &downloadedAt); err != nil {
		if err == sql.ErrNoRows {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("scanning cached filing: %w", err)
	}

	if downloadedAt.Before(c.cutoff(time.Now().UTC())) {
		if _, err := c.store.db.ExecContext(ctx,
			"DELETE FROM filing_cache WHERE accession_number = ?", accessionNo); err != nil {
			return "", fmt.Errorf("evicting expired filing: %w", err)
		}
		return "", domain.ErrNotFound
	}

	return content, nil
}

// Set stores content under the accession number, replacing any prior
// entry wholesale.
func (c *cacheStore) Set(ctx context.Context, accessionNo, content string) error {
	_, err := c.store.db.ExecContext(ctx, `
		INSERT INTO filing_cache (accession_number, content, download_timestamp, file_size)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(accession_number) DO UPDATE SET
			content = excluded.content,
			download_timestamp = excluded.download_timestamp,
			file_size = excluded.file_size
	`, accessionNo, content, time.Now().UTC(), len(content))

	if err != nil {
		return fmt.Errorf("caching filing: %w", err)
	}
	return nil
}

// Has reports whether an unexpired entry exists.
func (c *cacheStore) Has(ctx context.Context, accessionNo string) (bool, error) {
	var count int
	err := c.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM filing_cache
		WHERE accession_number = ? AND download_timestamp >= ?
	`, accessionNo, c.cutoff(time.Now().UTC())).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking cached filing: %w", err)
	}
	return count > 0, nil
}

// ClearExpired removes all entries older than the TTL.
func (c *cacheStore) ClearExpired(ctx context.Context) (int64, error) {
	res, err := c.store.db.ExecContext(ctx,
		"DELETE FROM filing_cache WHERE download_timestamp < ?", c.cutoff(time.Now().UTC()))
	if err != nil {
		return 0, fmt.Errorf("clearing expired filings: %w", err)
	}
	return res.RowsAffected()
}

// ClearAll removes all entries.
func (c *cacheStore) ClearAll(ctx context.Context) (int64, error) {
	res, err := c.store.db.ExecContext(ctx, "DELETE FROM filing_cache")
	if err != nil {
		return 0, fmt.Errorf("clearing filing cache: %w", err)
	}
	return res.RowsAffected()
}

// Stats summarises cache contents. Size is reported in megabytes to two
// decimals and the oldest entry age in days to one decimal.
func (c *cacheStore) Stats(ctx context.Context) (domain.CacheStats, error) {
	var stats domain.CacheStats
	var totalBytes sql.NullInt64

	err := c.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*), SUM(file_size)
		FROM filing_cache
	`).Scan(&stats.Count, &totalBytes)
	if err != nil {
		return domain.CacheStats{}, fmt.Errorf("reading cache stats: %w", err)
	}

	if totalBytes.Valid {
		stats.TotalSizeMB = math.Round(float64(totalBytes.Int64)/(1024*1024)*100) / 100
	}

	// Aggregating the timestamp column loses its type affinity, so the
	// oldest entry is read as a plain row instead of via MIN().
	var oldest time.Time
	err = c.store.db.QueryRowContext(ctx, `
		SELECT download_timestamp FROM filing_cache
		ORDER BY download_timestamp ASC LIMIT 1
	`).Scan(&oldest)
	switch {
	case err == sql.ErrNoRows:
		// Empty cache; no oldest age.
	case err != nil:
		return domain.CacheStats{}, fmt.Errorf("reading oldest cache entry: %w", err)
	default:
		age := math.Round(time.Since(oldest).Hours()/24*10) / 10
		stats.OldestAgeDays = &age
	}

	return stats, nil
}
