package domain

// SectionLabel describes how a biographical section was located.
type SectionLabel string

const (
	// SectionHeadingMatch marks a section found under a known heading.
	SectionHeadingMatch SectionLabel = "heading-match"

	// SectionTable marks a section extracted from a biography table.
	SectionTable SectionLabel = "table"

	// SectionFallbackParagraph marks the whole-document fallback used
	// when no heading matched.
	SectionFallbackParagraph SectionLabel = "fallback-paragraph"
)

// BioSection is a candidate biographical passage within one document.
// Sections are ephemeral; they are produced per document and never persisted.
type BioSection struct {
	// Label records how the section was located.
	Label SectionLabel

	// Name is the human-readable heading the section was found under.
	Name string

	// Text is the plain-text content of the section.
	Text string

	// SourceOffset is the section's start position in the document text.
	SourceOffset int

	// HasEducationSignal is true when the section contains
	// education-indicative keywords. Used downstream as a weak signal.
	HasEducationSignal bool
}
