package domain

// ExportContextLimit is the evidence-context truncation length applied
// when claims are exported for reporting.
const ExportContextLimit = 500

// ExportRecord is the flattened per-claim row written by the export
// surface. Evidence context is truncated to ExportContextLimit.
type ExportRecord struct {
	PersonName      string
	AffiliationType AffiliationType
	Confidence      Confidence
	EvidenceContext string
	Ticker          string
	CompanyCIK      string
	FilingType      string
	FilingDate      string
	AccessionNo     string
}

// NewExportRecord builds an export row from a claim, truncating context.
func NewExportRecord(c AffiliationClaim) ExportRecord {
	ctx := c.EvidenceContext
	if len(ctx) > ExportContextLimit {
		ctx = ctx[:ExportContextLimit]
	}
	return ExportRecord{
		PersonName:      c.PersonName,
		AffiliationType: c.Type,
		Confidence:      c.Confidence,
		EvidenceContext: ctx,
		Ticker:          c.Metadata.Ticker,
		CompanyCIK:      c.Metadata.CompanyCIK,
		FilingType:      c.Metadata.FilingType,
		FilingDate:      c.Metadata.FilingDate,
		AccessionNo:     c.Metadata.AccessionNo,
	}
}
