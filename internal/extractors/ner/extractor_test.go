package ner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openroster/affilscan/internal/core/domain"
)

func TestClassifyAffiliation(t *testing.T) {
	tests := []struct {
		name       string
		context    string
		wantType   domain.AffiliationType
		wantConf   domain.Confidence
		wantDegree string
	}{
		{
			name:       "degree abbreviation wins",
			context:    "John Smith holds an M.B.A. from Boston University.",
			wantType:   domain.AffiliationDegree,
			wantConf:   domain.ConfidenceHigh,
			wantDegree: "M.B.A.",
		},
		{
			name:     "position keyword",
			context:  "Jane Roe, a trustee of Boston University, also chairs the audit committee.",
			wantType: domain.AffiliationPosition,
			wantConf: domain.ConfidenceHigh,
		},
		{
			name:     "receiving verb promotes to degree",
			context:  "John Smith studied economics and received honours from Boston University.",
			wantType: domain.AffiliationDegree,
			wantConf: domain.ConfidenceHigh,
		},
		{
			name:     "serving verb implies employment",
			context:  "John Smith worked at Boston University during the relevant period.",
			wantType: domain.AffiliationEmployment,
			wantConf: domain.ConfidenceHigh,
		},
		{
			name:     "bare mention",
			context:  "John Smith and Boston University were both named in the complaint.",
			wantType: domain.AffiliationMention,
			wantConf: domain.ConfidenceLow,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claim := classifyAffiliation("John Smith", tt.context)
			assert.Equal(t, tt.wantType, claim.Type)
			assert.Equal(t, tt.wantConf, claim.Confidence)
			assert.Equal(t, tt.wantDegree, claim.Degree)
			assert.Equal(t, "John Smith", claim.PersonName)
		})
	}
}

func TestExtractYear(t *testing.T) {
	y := extractYear("graduated in 1987 with honours")
	require.NotNil(t, y)
	assert.Equal(t, 1987, *y)

	assert.Nil(t, extractYear("graduated in 1887"))
	assert.Nil(t, extractYear("section 2098 of the code"))
	assert.Nil(t, extractYear("no year at all"))
}

func TestExtractPosition(t *testing.T) {
	assert.Equal(t, "Professor", extractPosition("was a professor of law"))
	assert.Equal(t, "Trustee", extractPosition("elected Trustee in 2001"))
	assert.Equal(t, "", extractPosition("no title here"))
}

func TestValidPersonName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"John Smith", true},
		{"Mary Jane Watson", true},
		{"Jo", false},
		{"Smith", false},
		{"ITEM 10", false},
		{"New York Stock Exchange", false},
		{"Boston University", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validPersonName(tt.name))
		})
	}
}

func TestFocusedContext(t *testing.T) {
	text := "aaaa John Smith bbbb Boston University cccc"
	got := focusedContext(text, 5, 15, 21, 38)
	assert.Contains(t, got, "John Smith")
	assert.Contains(t, got, "Boston University")
	assert.Equal(t, text, got) // padding exceeds the text on both sides
}
