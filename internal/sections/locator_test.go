package sections

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openroster/affilscan/internal/core/domain"
)

func bioFiller(n int) string {
	return strings.Repeat("John Smith has served as a director of the company since 2001. ", n)
}

func TestLocate_HeadingMatch(t *testing.T) {
	locator := NewLocator(false)
	doc := "Preamble text.\n\nDIRECTORS AND EXECUTIVE OFFICERS\n" + bioFiller(10) +
		"\nItem 11 Executive Compensation\nUnrelated tail."

	sections := locator.Locate(doc)
	require.NotEmpty(t, sections)

	s := sections[0]
	assert.Equal(t, domain.SectionHeadingMatch, s.Label)
	assert.Equal(t, "Directors & Officers", s.Name)
	assert.Contains(t, s.Text, "DIRECTORS AND EXECUTIVE OFFICERS")
	// Truncated at the next numbered-item boundary.
	assert.NotContains(t, s.Text, "Unrelated tail")
}

func TestLocate_ShortMatchDiscarded(t *testing.T) {
	locator := NewLocator(false)
	// Heading with almost no content under it should not survive on its
	// own; the document falls back to the largest paragraph.
	doc := "EXECUTIVE OFFICERS\nshort\nItem 11 Compensation"

	sections := locator.Locate(doc)
	require.Len(t, sections, 1)
	assert.Equal(t, domain.SectionFallbackParagraph, sections[0].Label)
}

func TestLocate_OverlappingHeadingsDeduplicated(t *testing.T) {
	locator := NewLocator(false)
	// Two patterns match at nearly the same offset; only one section
	// should be accepted.
	doc := "BOARD OF DIRECTORS AND EXECUTIVE OFFICERS\n" + bioFiller(10)

	sections := locator.Locate(doc)
	require.Len(t, sections, 1)
}

func TestLocate_OrderedByOccurrence(t *testing.T) {
	locator := NewLocator(false)
	doc := "BIOGRAPHICAL INFORMATION\n" + bioFiller(10) +
		"\nItem 9 Other\n" + strings.Repeat("padding text ", 50) +
		"\nELECTION OF DIRECTORS IS COVERED UNDER PROPOSAL 1 - ELECTION OF DIRECTORS\n" + bioFiller(10)

	sections := locator.Locate(doc)
	require.GreaterOrEqual(t, len(sections), 2)
	assert.Less(t, sections[0].SourceOffset, sections[1].SourceOffset)
}

func TestLocate_FallbackToLargestParagraph(t *testing.T) {
	locator := NewLocator(false)
	doc := "Small paragraph.\n\n" + bioFiller(5) + "\n\nAnother small one."

	sections := locator.Locate(doc)
	require.Len(t, sections, 1)

	s := sections[0]
	assert.Equal(t, domain.SectionFallbackParagraph, s.Label)
	assert.Contains(t, s.Text, "John Smith")
	assert.NotContains(t, s.Text, "Small paragraph")
}

func TestLocate_EmptyDocument(t *testing.T) {
	locator := NewLocator(false)
	assert.Empty(t, locator.Locate(""))
	assert.Empty(t, locator.Locate("   \n\t  "))
}

func TestLocate_EducationSignal(t *testing.T) {
	locator := NewLocator(false)
	doc := "EXECUTIVE OFFICERS\n" + bioFiller(5) +
		"He graduated from a well regarded university with a bachelor degree.\n" + bioFiller(3)

	sections := locator.Locate(doc)
	require.NotEmpty(t, sections)
	assert.True(t, sections[0].HasEducationSignal)
}

func TestLocate_TableSections(t *testing.T) {
	locator := NewLocator(true)
	rows := ""
	for i := 0; i < 20; i++ {
		rows += "<tr><td>John Smith</td><td>54</td><td>Director of the company with long tenure</td></tr>"
	}
	doc := "<html><body><p>Nothing biographical here at all.</p>" +
		"<table><tr><th>Name</th><th>Age</th><th>Position</th></tr>" + rows + "</table></body></html>"

	sections := locator.Locate(doc)

	var table *domain.BioSection
	for i := range sections {
		if sections[i].Label == domain.SectionTable {
			table = &sections[i]
		}
	}
	require.NotNil(t, table)
	assert.Contains(t, table.Text, "John Smith")
}

func TestLocate_MalformedMarkupDegradesToText(t *testing.T) {
	locator := NewLocator(true)
	doc := "<html><body><div><p>BIOGRAPHICAL INFORMATION\n" + bioFiller(10) +
		"<table><tr><td>unclosed" // malformed tail

	require.NotPanics(t, func() {
		sections := locator.Locate(doc)
		assert.NotEmpty(t, sections)
	})
}

func TestExtractText_StripsScriptAndStyle(t *testing.T) {
	in := "<html><head><title>t</title></head><body>" +
		"<script>var x = 1;</script><style>.a{color:red}</style>" +
		"<p>Visible &amp; decoded</p></body></html>"

	out := ExtractText(in)
	assert.NotContains(t, out, "var x")
	assert.NotContains(t, out, "color:red")
	assert.Contains(t, out, "Visible & decoded")
}

func TestExtractText_PlainTextPassthrough(t *testing.T) {
	in := "line one   with   spaces\n\n\n\nline two"
	out := ExtractText(in)
	assert.Equal(t, "line one with spaces\n\nline two", out)
}
