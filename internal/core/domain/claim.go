package domain

import "strings"

// AffiliationType classifies how a person is connected to the institution.
type AffiliationType string

// Affiliation types, in decreasing order of classification priority.
const (
	AffiliationDegree     AffiliationType = "degree"
	AffiliationPosition   AffiliationType = "position"
	AffiliationEducation  AffiliationType = "education"
	AffiliationEmployment AffiliationType = "employment"
	AffiliationMention    AffiliationType = "mention"
)

// Confidence is the coarse reliability tier attached to a claim.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// UnknownPerson is the placeholder name used when extraction could not
// attribute an institution mention to a specific individual. It never
// matches a roster entry.
const UnknownPerson = "Unknown"

// FilingMetadata describes the source document a claim was extracted from.
// It travels with the claim through deduplication into reconciliation.
type FilingMetadata struct {
	// AccessionNo is the opaque document identifier.
	AccessionNo string

	// CompanyName is the filer's name, if known.
	CompanyName string

	// CompanyCIK is the filer's registry key, if known.
	CompanyCIK string

	// Ticker is the filer's ticker symbol, if known.
	Ticker string

	// FilingType is the form type (e.g. "DEF 14A", "10-K").
	FilingType string

	// FilingDate is the filing date in YYYY-MM-DD form, if known.
	FilingDate string

	// DocumentURL is the canonical location of the document.
	DocumentURL string
}

// AffiliationClaim is a single extracted assertion that a named person is
// connected to the institution of interest. Claims are ephemeral: they live
// for one extraction pass and are consumed by the reconciler.
type AffiliationClaim struct {
	// PersonName is the person's full name, or UnknownPerson.
	PersonName string

	// Type classifies the connection.
	Type AffiliationType

	// Confidence is the reliability tier.
	Confidence Confidence

	// EvidenceContext is the text surrounding the institution mention.
	EvidenceContext string

	// Relationship carries the richer vocabulary from the delegated
	// extractor; empty for the other variants.
	Relationship Relationship

	// YearOfBirth is inferred by the delegated extractor, nil otherwise.
	YearOfBirth *int

	// Degree is a degree abbreviation (e.g. "M.B.A.") when detected.
	Degree string

	// DegreeYear is the likely graduation year when detected.
	DegreeYear *int

	// Position is a title held at the institution when detected.
	Position string

	// Metadata identifies the source document.
	Metadata FilingMetadata
}

// HasTitlePrefix reports whether the person name is title-qualified
// ("Mr. Smith") rather than a full attribution ("John Smith").
func (c AffiliationClaim) HasTitlePrefix() bool {
	for _, t := range []string{"Mr.", "Ms.", "Mrs.", "Dr.", "Mr ", "Ms ", "Mrs ", "Dr "} {
		if strings.HasPrefix(c.PersonName, t) {
			return true
		}
	}
	return false
}

// LastName returns the final whitespace-separated token of the person name.
func (c AffiliationClaim) LastName() string {
	fields := strings.Fields(c.PersonName)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
