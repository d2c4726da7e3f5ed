package driving

import (
	"context"

	"github.com/openroster/affilscan/internal/core/domain"
)

// PipelineService runs the extraction-and-reconciliation pipeline over
// already-fetched documents. Processing is single-threaded and synchronous;
// a per-document failure is captured in its result, never raised out of a
// batch.
type PipelineService interface {
	// ProcessDocument runs one document through cache, section location,
	// extraction, deduplication and reconciliation.
	ProcessDocument(ctx context.Context, content string, meta domain.FilingMetadata) domain.DocumentResult

	// ProcessCached processes a document already present in the cache.
	ProcessCached(ctx context.Context, meta domain.FilingMetadata) domain.DocumentResult

	// ProcessBatch processes documents sequentially and summarises.
	ProcessBatch(ctx context.Context, docs []domain.FilingMetadata, contents map[string]string) domain.BatchSummary

	// ExtractCached locates, extracts and deduplicates claims for a
	// cached document without touching the roster. Used for reporting.
	ExtractCached(ctx context.Context, meta domain.FilingMetadata) ([]domain.AffiliationClaim, error)
}
