// Package pattern implements the regex-based affiliation extraction
// variant. It is the baseline strategy the others fall back to: no models,
// no network, just institution-name windows classified by keyword priority.
package pattern

import (
	"context"
	"regexp"
	"strings"

	"github.com/openroster/affilscan/internal/core/domain"
	"github.com/openroster/affilscan/internal/core/ports/driven"
	"github.com/openroster/affilscan/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.AffiliationExtractor = (*Extractor)(nil)

// contextWindow is the symmetric evidence window around an institution
// mention, in characters.
const contextWindow = 1500

// degreeAbbrevs matches common degree abbreviations and spelled-out forms.
var degreeAbbrevs = regexp.MustCompile(
	`(?i)\b(?:B\.?A\.?|Bachelor(?:'s)?|B\.?S\.?|Master(?:'s)?|M\.?A\.?|M\.?B\.?A\.?|M\.?S\.?|` +
		`Ph\.?D\.?|J\.?D\.?|M\.?D\.?|LL\.?M\.?|LL\.?B\.?|Ed\.?D\.?)\b`)

// roleKeywords indicate a position held at the institution.
var roleKeywords = []string{
	"professor", "faculty", "instructor", "lecturer", "researcher",
	"fellow", "trustee", "board member", "dean", "chair",
	"president", "chancellor", "provost",
}

// educationKeywords indicate study without a detected degree.
var educationKeywords = []string{"studied", "attended", "graduated", "alumnus", "alumni", "educated"}

// employmentKeywords indicate non-academic service at the institution.
var employmentKeywords = []string{"served", "worked", "employed", "appointed", "joined"}

// Extractor is the pattern-based affiliation extraction strategy.
type Extractor struct{}

// New creates a pattern-based extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the variant identifier.
func (e *Extractor) Name() string {
	return "pattern"
}

// Extract finds institution mentions and classifies their surrounding
// context. The passage is first segmented into per-individual biographies
// by a name+age heuristic so claims carry a person name; when segmentation
// finds nothing, the whole passage is scanned with the person left Unknown.
func (e *Extractor) Extract(_ context.Context, text string, patterns []string, meta domain.FilingMetadata) ([]domain.AffiliationClaim, error) {
	var claims []domain.AffiliationClaim

	bios := SegmentBiographies(text)
	if len(bios) == 0 {
		return e.findInText(text, domain.UnknownPerson, patterns, meta), nil
	}

	for _, bio := range bios {
		claims = append(claims, e.findInText(bio.Text, bio.Name, patterns, meta)...)
	}
	return claims, nil
}

// findInText windows every institution mention and classifies it.
func (e *Extractor) findInText(text, personName string, patterns []string, meta domain.FilingMetadata) []domain.AffiliationClaim {
	var claims []domain.AffiliationClaim

	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			logger.Warn("skipping invalid institution pattern %q: %v", p, err)
			continue
		}

		for _, loc := range re.FindAllStringIndex(text, -1) {
			start := loc[0] - contextWindow
			if start < 0 {
				start = 0
			}
			end := loc[1] + contextWindow
			if end > len(text) {
				end = len(text)
			}
			evidence := strings.TrimSpace(text[start:end])

			affType, confidence := classify(evidence)
			claims = append(claims, domain.AffiliationClaim{
				PersonName:      personName,
				Type:            affType,
				Confidence:      confidence,
				EvidenceContext: evidence,
				Metadata:        meta,
			})
		}
	}
	return claims
}

// classify determines affiliation type and confidence from evidence
// context, in strict priority order: degree, position, education,
// employment, bare mention.
func classify(evidence string) (domain.AffiliationType, domain.Confidence) {
	lower := strings.ToLower(evidence)

	if degreeAbbrevs.MatchString(evidence) {
		return domain.AffiliationDegree, domain.ConfidenceHigh
	}
	for _, kw := range roleKeywords {
		if strings.Contains(lower, kw) {
			return domain.AffiliationPosition, domain.ConfidenceHigh
		}
	}
	for _, kw := range educationKeywords {
		if strings.Contains(lower, kw) {
			return domain.AffiliationEducation, domain.ConfidenceMedium
		}
	}
	for _, kw := range employmentKeywords {
		if strings.Contains(lower, kw) {
			return domain.AffiliationEmployment, domain.ConfidenceMedium
		}
	}
	return domain.AffiliationMention, domain.ConfidenceLow
}
