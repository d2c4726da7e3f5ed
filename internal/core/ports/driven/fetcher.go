package driven

import (
	"context"

	"github.com/openroster/affilscan/internal/core/domain"
)

// FilingFetcher downloads filing documents from the regulatory archive.
// Implementations must enforce the archive's rate-limiting discipline and
// send a contact identity with every request.
type FilingFetcher interface {
	// Fetch downloads the document the metadata points at and returns
	// its raw content.
	Fetch(ctx context.Context, meta domain.FilingMetadata) (string, error)

	// Close releases resources.
	Close() error
}
