package driven

import (
	"context"

	"github.com/openroster/affilscan/internal/core/domain"
)

// FilingCache stores downloaded documents keyed by accession number, with
// time-to-live expiry. Storage errors propagate; a write is never silently
// dropped. The backing store is not designed for concurrent writers.
type FilingCache interface {
	// Get returns cached content for the accession number.
	// An entry older than the TTL is deleted and domain.ErrNotFound is
	// returned, the same as for a missing entry.
	Get(ctx context.Context, accessionNo string) (string, error)

	// Set stores content under the accession number, replacing any
	// prior entry wholesale.
	Set(ctx context.Context, accessionNo, content string) error

	// Has reports whether an unexpired entry exists.
	Has(ctx context.Context, accessionNo string) (bool, error)

	// ClearExpired removes all entries older than the TTL and returns
	// the number removed.
	ClearExpired(ctx context.Context) (int64, error)

	// ClearAll removes all entries and returns the number removed.
	ClearAll(ctx context.Context) (int64, error)

	// Stats summarises cache contents.
	Stats(ctx context.Context) (domain.CacheStats, error)
}
