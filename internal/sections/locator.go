// Package sections narrows a multi-megabyte filing down to the candidate
// biographical passages worth extracting from. It works on plain text;
// markup is stripped first and any parse trouble degrades to text rather
// than failing.
package sections

import (
	"regexp"
	"sort"
	"strings"

	"github.com/openroster/affilscan/internal/core/domain"
	"github.com/openroster/affilscan/internal/logger"
)

const (
	// maxSectionSpan caps a section window at the heading match.
	maxSectionSpan = 20000

	// minSectionLen filters out header-only matches.
	minSectionLen = 200

	// startProximity is the window-start distance within which two
	// heading matches are treated as the same section.
	startProximity = 100

	// boundaryScanFrom skips past the heading itself before looking for
	// the next section boundary.
	boundaryScanFrom = 100
)

// headingPattern pairs a compiled heading regex with a section name.
type headingPattern struct {
	re   *regexp.Regexp
	name string
}

// Heading phrases that typically introduce biographical content, in
// priority order. All matching is case-insensitive over plain text.
var headingPatterns = []headingPattern{
	{regexp.MustCompile(`(?i)Item\s+10\.?\s+Directors[,\s]+Executive Officers`), "Item 10: Directors & Officers"},
	{regexp.MustCompile(`(?i)(?:BOARD OF DIRECTORS|DIRECTORS AND EXECUTIVE OFFICERS)`), "Directors & Officers"},
	{regexp.MustCompile(`(?i)(?:EXECUTIVE OFFICERS|MANAGEMENT)`), "Executive Officers"},
	{regexp.MustCompile(`(?i)(?:BIOGRAPHICAL INFORMATION|BIOGRAPHIES)`), "Biographies"},
	{regexp.MustCompile(`(?i)PROPOSAL\s+\d+[\s\-]+ELECTION OF DIRECTORS`), "Election of Directors"},
}

// nextBoundary finds a following numbered-item or part heading that ends a
// section early.
var nextBoundary = regexp.MustCompile(`(?i)\n\s*(?:Item\s+\d+|PART\s+[IVX]+)`)

// educationSignal marks sections containing education-indicative keywords.
var educationSignal = regexp.MustCompile(`(?i)\b(?:degree|graduated|alumnus|alumna|alumni|studied|bachelor|master|doctorate|university|college|institute)\b`)

// tableBioColumns are the biography-indicative column names a table header
// row must mention (at least two) to be emitted as a table section.
var tableBioColumns = []string{"name", "age", "position", "background"}

var tableTag = regexp.MustCompile(`(?is)<table[^>]*>.*?</table>`)

// Locator finds biographical sections in filing text.
type Locator struct {
	scanTables bool
}

// NewLocator creates a section locator. When scanTables is true, tabular
// structures with biography-indicative headers are emitted as additional
// sections.
func NewLocator(scanTables bool) *Locator {
	return &Locator{scanTables: scanTables}
}

// Locate returns candidate biographical sections ordered by first
// occurrence in the document. If nothing matches, the largest paragraph of
// the document is returned as a single fallback section, never an empty
// list (for non-empty input).
func (l *Locator) Locate(content string) []domain.BioSection {
	text := ExtractText(content)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	found := l.headingSections(text)

	if l.scanTables && looksLikeMarkup(content) {
		found = append(found, l.tableSections(content)...)
	}

	if len(found) == 0 {
		logger.Debug("no biographical heading matched, falling back to largest paragraph")
		return []domain.BioSection{fallbackSection(text)}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].SourceOffset < found[j].SourceOffset
	})
	return dedupeByProximity(found)
}

// headingSections runs the heading patterns over plain text and windows
// each match.
func (l *Locator) headingSections(text string) []domain.BioSection {
	var out []domain.BioSection

	for _, hp := range headingPatterns {
		for _, loc := range hp.re.FindAllStringIndex(text, -1) {
			start := loc[0]
			end := start + maxSectionSpan
			if end > len(text) {
				end = len(text)
			}

			// Truncate at the next higher-level section boundary.
			scanFrom := start + boundaryScanFrom
			if scanFrom < end {
				if b := nextBoundary.FindStringIndex(text[scanFrom:end]); b != nil {
					end = scanFrom + b[0]
				}
			}

			sectionText := strings.TrimSpace(text[start:end])
			if len(sectionText) <= minSectionLen {
				continue
			}

			out = append(out, domain.BioSection{
				Label:              domain.SectionHeadingMatch,
				Name:               hp.name,
				Text:               sectionText,
				SourceOffset:       start,
				HasEducationSignal: educationSignal.MatchString(sectionText),
			})
		}
	}
	return out
}

// tableSections extracts tables whose header row names biographical
// columns.
func (l *Locator) tableSections(content string) []domain.BioSection {
	var out []domain.BioSection

	for _, loc := range tableTag.FindAllStringIndex(content, -1) {
		raw := content[loc[0]:loc[1]]
		text := ExtractText(raw)
		if len(text) <= minSectionLen {
			continue
		}

		header := strings.ToLower(firstLines(text, 3))
		hits := 0
		for _, col := range tableBioColumns {
			if strings.Contains(header, col) {
				hits++
			}
		}
		if hits < 2 {
			continue
		}

		out = append(out, domain.BioSection{
			Label:              domain.SectionTable,
			Name:               "Biography Table",
			Text:               text,
			SourceOffset:       loc[0],
			HasEducationSignal: educationSignal.MatchString(text),
		})
	}
	return out
}

// dedupeByProximity keeps the first section at each start position,
// skipping any whose start falls within startProximity of one already
// accepted. Input must be sorted by SourceOffset.
func dedupeByProximity(sections []domain.BioSection) []domain.BioSection {
	var out []domain.BioSection
	lastStart := -(startProximity + 1)
	for _, s := range sections {
		if s.SourceOffset-lastStart <= startProximity {
			continue
		}
		out = append(out, s)
		lastStart = s.SourceOffset
	}
	return out
}

// fallbackSection treats the largest paragraph (or the whole document when
// it has no paragraph breaks) as one section.
func fallbackSection(text string) domain.BioSection {
	best := ""
	bestOffset := 0
	offset := 0
	for _, para := range strings.Split(text, "\n\n") {
		if len(para) > len(best) {
			best = para
			bestOffset = offset
		}
		offset += len(para) + 2
	}
	if best == "" {
		best = text
		bestOffset = 0
	}

	return domain.BioSection{
		Label:              domain.SectionFallbackParagraph,
		Name:               "Full Document",
		Text:               strings.TrimSpace(best),
		SourceOffset:       bestOffset,
		HasEducationSignal: educationSignal.MatchString(best),
	}
}

// firstLines returns up to n leading lines of text joined by spaces.
func firstLines(text string, n int) string {
	lines := strings.SplitN(text, "\n", n+1)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, " ")
}
