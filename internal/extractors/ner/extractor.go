// Package ner implements the NER-assisted affiliation extraction variant.
// Person names come from a named-entity recogniser rather than layout
// heuristics, which survives prose where the name+age convention breaks
// down. Recogniser failures surface as domain.ErrExtractorUnavailable so
// callers can fall back to the pattern variant.
package ner

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	prose "github.com/jdkato/prose/v2"

	"github.com/openroster/affilscan/internal/core/domain"
	"github.com/openroster/affilscan/internal/core/ports/driven"
	"github.com/openroster/affilscan/internal/extractors/pattern"
)

// Ensure Extractor implements the interface.
var _ driven.AffiliationExtractor = (*Extractor)(nil)

const (
	// entityWindow is scanned for person entities around each
	// institution mention.
	entityWindow = 1000

	// focusPadding extends the span covering both person and
	// institution when building the focused evidence context.
	focusPadding = 200
)

// degreePatterns each capture one family of degree abbreviations. The
// longer families come first so that M.B.A. is not reported as B.A.
var degreePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(M\.?B\.?A\.?|M\.S\.W\.?|M\.Ed\.?|M\.?A\.?|M\.?S\.?|M\.Sc\.?)(?:\W|$)`),
	regexp.MustCompile(`(?i)\b(LL\.?M\.?|LL\.?B\.?|J\.?D\.?)(?:\W|$)`),
	regexp.MustCompile(`(?i)\b(D\.?M\.?D\.?|M\.?D\.?)(?:\W|$)`),
	regexp.MustCompile(`(?i)\b(Ph\.?D\.?|D\.?Phil\.?)(?:\W|$)`),
	regexp.MustCompile(`(?i)\b(B\.?A\.?|B\.?S\.?|B\.Sc\.?)(?:\W|$)`),
}

var educationKeywords = []string{
	"degree", "graduated", "alumnus", "alumna", "alumni",
	"studied", "attended", "earned", "received", "holds",
	"bachelor", "master", "doctorate", "undergraduate", "graduate",
}

var positionKeywords = []string{
	"professor", "faculty", "instructor", "lecturer", "researcher",
	"dean", "president", "chair", "director", "trustee",
	"board member", "fellow", "visiting", "adjunct",
	"taught", "teaches", "appointed", "serves", "served",
}

var (
	// Verbs of receiving or earning near the mention imply a degree;
	// verbs of teaching or serving imply employment.
	receivingVerbs = regexp.MustCompile(`(?i)\b(?:receiv|earn|obtain)\w*\b|\bheld\b|\bholds\b`)
	servingVerbs   = regexp.MustCompile(`(?i)\b(?:teach|taught|serv|work)\w*\b`)

	yearPattern     = regexp.MustCompile(`\b(19[5-9]\d|20[0-3]\d)\b`)
	positionPattern = regexp.MustCompile(`(?i)\b(professor|dean|chair|director|trustee|fellow|lecturer|instructor)\b`)
)

// Extractor is the NER-assisted affiliation extraction strategy.
type Extractor struct{}

// New creates a NER-assisted extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the variant identifier.
func (e *Extractor) Name() string {
	return "ner"
}

// Extract locates institution mentions, recognises person entities around
// each one, and classifies a focused window spanning both. Claims are
// deduplicated by person name within one call, first occurrence kept.
func (e *Extractor) Extract(_ context.Context, text string, patterns []string, meta domain.FilingMetadata) ([]domain.AffiliationClaim, error) {
	var claims []domain.AffiliationClaim
	seen := make(map[string]bool)

	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			continue
		}

		for _, loc := range re.FindAllStringIndex(text, -1) {
			winStart := loc[0] - entityWindow
			if winStart < 0 {
				winStart = 0
			}
			winEnd := loc[1] + entityWindow
			if winEnd > len(text) {
				winEnd = len(text)
			}

			persons, err := recognisePersons(text[winStart:winEnd])
			if err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrExtractorUnavailable, err)
			}

			for _, person := range persons {
				if seen[person.name] {
					continue
				}

				focused := focusedContext(text, winStart+person.start, winStart+person.end, loc[0], loc[1])
				claim := classifyAffiliation(person.name, focused)
				claim.Metadata = meta
				claims = append(claims, claim)
				seen[person.name] = true
			}
		}
	}
	return claims, nil
}

// personEntity is a recognised person with offsets into the scanned window.
type personEntity struct {
	name  string
	start int
	end   int
}

// recognisePersons runs NER over the window and filters false positives.
func recognisePersons(window string) ([]personEntity, error) {
	doc, err := prose.NewDocument(window, prose.WithSegmentation(false))
	if err != nil {
		return nil, err
	}

	var persons []personEntity
	searchFrom := 0
	for _, ent := range doc.Entities() {
		if ent.Label != "PERSON" {
			continue
		}
		if !validPersonName(ent.Text) {
			continue
		}
		// prose does not report offsets; recover them by ordered search.
		idx := strings.Index(window[searchFrom:], ent.Text)
		if idx < 0 {
			continue
		}
		start := searchFrom + idx
		persons = append(persons, personEntity{name: ent.Text, start: start, end: start + len(ent.Text)})
		searchFrom = start + len(ent.Text)
	}
	return persons, nil
}

// institutionWords reject entities the recogniser tags as PERSON but
// that name organisations rather than people.
var institutionWords = []string{
	"university", "college", "institute", "school", "academy", "foundation",
}

// validPersonName filters short names, acronyms, headers and
// organisations, the same screen used for biography segmentation.
func validPersonName(name string) bool {
	if len(name) < 4 {
		return false
	}
	if len(strings.Fields(name)) < 2 {
		return false
	}
	if name == strings.ToUpper(name) {
		return false
	}
	lower := strings.ToLower(name)
	for _, w := range institutionWords {
		if strings.Contains(lower, w) {
			return false
		}
	}
	return pattern.IsLikelyPersonName(name)
}

// focusedContext returns the span covering both the person and the
// institution mention, padded on both sides.
func focusedContext(text string, pStart, pEnd, oStart, oEnd int) string {
	start := min(pStart, oStart) - focusPadding
	if start < 0 {
		start = 0
	}
	end := max(pEnd, oEnd) + focusPadding
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}

// classifyAffiliation determines type, confidence and detail fields from
// the focused context: degree abbreviations first, then education and
// position keywords, then verb cues.
func classifyAffiliation(personName, context string) domain.AffiliationClaim {
	lower := strings.ToLower(context)

	claim := domain.AffiliationClaim{
		PersonName:      personName,
		Type:            domain.AffiliationMention,
		Confidence:      domain.ConfidenceLow,
		EvidenceContext: strings.TrimSpace(context),
	}

	claim.Degree = extractDegree(context)
	claim.DegreeYear = extractYear(context)

	switch {
	case claim.Degree != "":
		claim.Type = domain.AffiliationDegree
		claim.Confidence = domain.ConfidenceHigh
	case containsAny(lower, educationKeywords):
		claim.Type = domain.AffiliationEducation
		claim.Confidence = domain.ConfidenceMedium
	case containsAny(lower, positionKeywords):
		claim.Type = domain.AffiliationPosition
		claim.Confidence = domain.ConfidenceHigh
		claim.Position = extractPosition(context)
	}

	// Verb cues sharpen the weaker classifications.
	if claim.Type == domain.AffiliationMention || claim.Type == domain.AffiliationEducation {
		switch {
		case receivingVerbs.MatchString(context):
			claim.Type = domain.AffiliationDegree
			claim.Confidence = domain.ConfidenceHigh
		case servingVerbs.MatchString(context):
			claim.Type = domain.AffiliationEmployment
			claim.Confidence = domain.ConfidenceHigh
		}
	}

	return claim
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// extractDegree returns the first degree abbreviation in the text.
func extractDegree(text string) string {
	for _, re := range degreePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// extractYear returns the first plausible graduation year (1950-2039).
func extractYear(text string) *int {
	m := yearPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	y, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &y
}

// extractPosition returns the first recognised title, capitalised.
func extractPosition(text string) string {
	m := positionPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	p := strings.ToLower(m[1])
	return strings.ToUpper(p[:1]) + p[1:]
}
