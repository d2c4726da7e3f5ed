package domain

// DocumentStatus is the per-document outcome within a batch run.
type DocumentStatus string

const (
	// DocProcessed means the document went through the full pipeline.
	DocProcessed DocumentStatus = "processed"

	// DocSkipped means processing failed and the run moved on.
	DocSkipped DocumentStatus = "skipped"
)

// DocumentResult is the outcome of processing one document. Failures are
// carried as data rather than raised, so a bulk run continues past them.
type DocumentResult struct {
	// DocumentRef identifies the document.
	DocumentRef string

	// Status is processed or skipped.
	Status DocumentStatus

	// Reason explains a skip; empty for processed documents.
	Reason string

	// Claims is the number of unique claims reconciled.
	Claims int

	// Sections is the number of biographical sections located.
	Sections int
}

// BatchSummary aggregates DocumentResults for a run.
type BatchSummary struct {
	Processed int
	Skipped   int
	Claims    int

	// SkipReasons maps document refs to the reason they were skipped.
	SkipReasons map[string]string
}

// Summarise folds per-document results into a batch summary.
func Summarise(results []DocumentResult) BatchSummary {
	s := BatchSummary{SkipReasons: make(map[string]string)}
	for _, r := range results {
		switch r.Status {
		case DocProcessed:
			s.Processed++
			s.Claims += r.Claims
		case DocSkipped:
			s.Skipped++
			s.SkipReasons[r.DocumentRef] = r.Reason
		}
	}
	return s
}
