package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasTitlePrefix(t *testing.T) {
	assert.True(t, AffiliationClaim{PersonName: "Mr. Smith"}.HasTitlePrefix())
	assert.True(t, AffiliationClaim{PersonName: "Ms. Doe"}.HasTitlePrefix())
	assert.True(t, AffiliationClaim{PersonName: "Dr. Jane Roe"}.HasTitlePrefix())
	assert.False(t, AffiliationClaim{PersonName: "John Smith"}.HasTitlePrefix())
	assert.False(t, AffiliationClaim{PersonName: UnknownPerson}.HasTitlePrefix())
}

func TestLastName(t *testing.T) {
	assert.Equal(t, "Smith", AffiliationClaim{PersonName: "John Q. Smith"}.LastName())
	assert.Equal(t, "Smith", AffiliationClaim{PersonName: "Mr. Smith"}.LastName())
	assert.Equal(t, "", AffiliationClaim{PersonName: "  "}.LastName())
}

func TestNewExportRecord_TruncatesContext(t *testing.T) {
	long := strings.Repeat("x", ExportContextLimit+100)
	rec := NewExportRecord(AffiliationClaim{
		PersonName:      "John Smith",
		Type:            AffiliationDegree,
		Confidence:      ConfidenceHigh,
		EvidenceContext: long,
		Metadata:        FilingMetadata{AccessionNo: "0000320193-23-000077"},
	})

	assert.Len(t, rec.EvidenceContext, ExportContextLimit)
	assert.Equal(t, "0000320193-23-000077", rec.AccessionNo)
}

func TestSummarise(t *testing.T) {
	results := []DocumentResult{
		{DocumentRef: "a", Status: DocProcessed, Claims: 3},
		{DocumentRef: "b", Status: DocSkipped, Reason: "malformed extraction response"},
		{DocumentRef: "c", Status: DocProcessed, Claims: 1},
	}

	s := Summarise(results)
	assert.Equal(t, 2, s.Processed)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, 4, s.Claims)
	assert.Equal(t, "malformed extraction response", s.SkipReasons["b"])
}
