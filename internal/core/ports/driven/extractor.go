package driven

import (
	"context"

	"github.com/openroster/affilscan/internal/core/domain"
)

// AffiliationExtractor turns a biographical passage into structured
// affiliation claims. Three interchangeable implementations exist:
// pattern-based, NER-assisted, and delegated to an LLM service. Callers
// depend only on this interface and select a variant at construction time.
type AffiliationExtractor interface {
	// Name returns the variant identifier for logging and summaries.
	Name() string

	// Extract scans the passage for the institution name patterns and
	// returns one claim per attributable mention. meta identifies the
	// source document and supplies the filing date where a variant can
	// use it for year-of-birth inference.
	Extract(ctx context.Context, text string, patterns []string, meta domain.FilingMetadata) ([]domain.AffiliationClaim, error)
}
