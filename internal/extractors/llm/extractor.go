// Package llm implements the delegated affiliation extraction variant. A
// language model reads each passage and returns structured relationship
// findings, which this package validates and maps onto claims. Responses
// that cannot be parsed surface as domain.ErrMalformedResponse so the
// caller can drop the passage and continue.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/openroster/affilscan/internal/core/domain"
	"github.com/openroster/affilscan/internal/core/ports/driven"
	"github.com/openroster/affilscan/internal/logger"
)

var _ driven.AffiliationExtractor = (*Extractor)(nil)

const (
	responseMaxTokens = 4096

	systemPrompt = `You are a careful analyst reading excerpts from regulatory filings.
You identify people affiliated with a specific institution and report each
affiliation as structured JSON. You only report affiliations stated in the
text. You never invent people or facts.`
)

// relationshipVocabulary is offered to the model verbatim. Values outside
// it are discarded during normalisation rather than rejected here.
var relationshipVocabulary = []string{
	"student", "professor", "admin", "advisor",
	"board_of_trustees", "donor", "researcher", "business",
}

// finding is one record in the model's JSON array response.
type finding struct {
	Name         string    `json:"name"`
	Relationship string    `json:"relationship"`
	YearOfBirth  yearValue `json:"year_of_birth"`
	Quote        string    `json:"quote"`
	Editorial    string    `json:"editorial"`
	Reconsider   string    `json:"reconsider"`
}

// yearValue tolerates the model emitting year_of_birth as a bare number,
// a quoted string, or null. An unusable token simply yields no year.
type yearValue string

func (y *yearValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*y = yearValue(s)
		return nil
	}
	*y = yearValue(strings.Trim(string(data), `"`))
	return nil
}

// Extractor delegates affiliation extraction to a language model.
type Extractor struct {
	svc driven.LLMService
}

// New creates a delegated extractor backed by the given model service.
func New(svc driven.LLMService) *Extractor {
	return &Extractor{svc: svc}
}

// Name returns the variant identifier.
func (e *Extractor) Name() string {
	return "llm"
}

// Extract sends the passage to the model and converts its findings into
// claims. Findings the model marks for reconsideration, and findings
// missing a name or supporting quote, are dropped with a warning.
func (e *Extractor) Extract(ctx context.Context, text string, patterns []string, meta domain.FilingMetadata) ([]domain.AffiliationClaim, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: no model service configured", domain.ErrLLMUnavailable)
	}

	messages := []driven.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildPrompt(text, patterns, meta)},
	}

	response, err := e.svc.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   responseMaxTokens,
		Temperature: 0.0,
	})
	if err != nil {
		return nil, fmt.Errorf("delegated extraction: %w", err)
	}

	findings, err := parseResponse(response)
	if err != nil {
		return nil, err
	}

	var claims []domain.AffiliationClaim
	for _, f := range findings {
		claim, ok := e.toClaim(f, meta)
		if !ok {
			continue
		}
		claims = append(claims, claim)
	}
	return claims, nil
}

// buildPrompt renders the passage with the institution aliases, the
// relationship vocabulary and the filing date. The date lets the model
// infer a year of birth from a stated age.
func buildPrompt(text string, patterns []string, meta domain.FilingMetadata) string {
	var b strings.Builder

	b.WriteString("Institution of interest (any of these names or patterns):\n")
	for _, p := range patterns {
		fmt.Fprintf(&b, "  - %s\n", p)
	}

	b.WriteString("\nList every person the excerpt affiliates with this institution.\n")
	b.WriteString("Respond with a JSON array only. Each element must have these keys:\n")
	fmt.Fprintf(&b, "  name: the person's full name\n")
	fmt.Fprintf(&b, "  relationship: one of %s\n", strings.Join(relationshipVocabulary, ", "))
	b.WriteString("  year_of_birth: four digits, or \"null\" when the text gives no age\n")
	b.WriteString("  quote: the sentence from the excerpt supporting the affiliation\n")
	b.WriteString("  editorial: one sentence of your reasoning\n")
	b.WriteString("  reconsider: \"Y\" if you stand by the finding after rereading the quote, \"N\" to withdraw it\n")
	b.WriteString("\nIf nobody is affiliated, respond with an empty JSON array.\n")

	if meta.FilingDate != "" {
		fmt.Fprintf(&b, "\nThe filing is dated %s. Use it to derive year_of_birth from any stated age.\n", meta.FilingDate)
	}

	b.WriteString("\nExcerpt:\n---\n")
	b.WriteString(text)
	b.WriteString("\n---\n")
	return b.String()
}

// parseResponse strips code fences and decodes the findings array.
func parseResponse(response string) ([]finding, error) {
	cleaned := stripFences(response)

	var findings []finding
	if err := json.Unmarshal([]byte(cleaned), &findings); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return findings, nil
}

// stripFences removes a surrounding markdown code fence, with or without
// a language tag, that models often wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// toClaim validates one finding and maps it to a claim. The second return
// is false when the finding should be dropped.
func (e *Extractor) toClaim(f finding, meta domain.FilingMetadata) (domain.AffiliationClaim, bool) {
	if strings.EqualFold(strings.TrimSpace(f.Reconsider), "N") {
		logger.Debug("model withdrew finding for %q on rereading", f.Name)
		return domain.AffiliationClaim{}, false
	}

	name := strings.TrimSpace(f.Name)
	quote := strings.TrimSpace(f.Quote)
	if name == "" || quote == "" {
		logger.Warn("dropping finding with missing name or quote: %+v", f)
		return domain.AffiliationClaim{}, false
	}

	var relationship domain.Relationship
	if rel := domain.NormalizeRelationship(f.Relationship); rel != nil {
		relationship = *rel
	}

	claim := domain.AffiliationClaim{
		PersonName:      name,
		Type:            affiliationType(f.Relationship),
		Confidence:      domain.ConfidenceHigh,
		EvidenceContext: quote,
		Relationship:    relationship,
		YearOfBirth:     parseYearOfBirth(string(f.YearOfBirth)),
		Metadata:        meta,
	}
	return claim, true
}

// affiliationType maps the model's relationship word onto the claim
// taxonomy used by the other variants.
func affiliationType(relationship string) domain.AffiliationType {
	switch strings.ToLower(strings.TrimSpace(relationship)) {
	case "student", "alumnus", "alumna", "alumni":
		return domain.AffiliationEducation
	case "professor", "admin", "researcher":
		return domain.AffiliationEmployment
	case "advisor", "board_of_trustees":
		return domain.AffiliationPosition
	default:
		return domain.AffiliationMention
	}
}

// parseYearOfBirth accepts four-digit years and treats "null", empty and
// unparseable values as unknown.
func parseYearOfBirth(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "null") {
		return nil
	}
	y, err := strconv.Atoi(raw)
	if err != nil || y < 1850 || y > 2100 {
		return nil
	}
	return &y
}
