package pattern

import (
	"regexp"
	"strings"
)

// bioSpanLimit caps a segmented biography when no following name bounds it.
const bioSpanLimit = 2000

// Biography is one individual's segment of a biographical passage.
type Biography struct {
	// Name is the person's full name as it appears at the segment start.
	Name string

	// Age is the stated age, empty when the segment was found without one.
	Age string

	// Text is the biography segment.
	Text string
}

// organisationKeywords mark strings that look like a name but are not a
// person. Shared by segmentation and by the NER false-positive filter.
var organisationKeywords = []string{
	"stock exchange", "securities", "commission", "corporation",
	"company", "inc.", "llc", "ltd", "limited", "incorporated",
	"new york", "nasdaq", "exchange", "federal", "department",
	"united states", "internal revenue", "financial accounting",
	"table of contents", "form 10", "part i",
}

var (
	consecutiveCaps = regexp.MustCompile(`[A-Z]{3,}`)

	// Name, age 54 / Name (age 54) at a line start.
	nameWithAge = regexp.MustCompile(
		`(?m)(?:^|\n\s*)([A-Z][a-z]+(?:\s+[A-Z]\.?)?\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)[,\s(]+(?:age\s+)?(\d{2})`)

	// Name followed by a title or role verb at a line start.
	nameWithTitle = regexp.MustCompile(
		`(?m)(?:^|\n\s*)([A-Z][a-z]+(?:\s+[A-Z]\.?)?\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)[,\s]+` +
			`(?i:Mr\.|Ms\.|Mrs\.|Dr\.|Director|President|CEO|CFO|COO|Chief|Vice|Trustee|has\s+served|is\s+a|serves)`)

	// Any First [Middle.] Last run, for the paragraph fallback.
	looseName = regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z]\.?)?(?:\s+[A-Z][a-z]+)+)`)
)

// IsLikelyPersonName reports whether a candidate looks like a person
// rather than an organisation, section header or acronym.
func IsLikelyPersonName(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range organisationKeywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	if name == strings.ToUpper(name) {
		return false
	}
	if consecutiveCaps.MatchString(name) {
		return false
	}
	return true
}

// SegmentBiographies splits a biographical section into per-individual
// segments. It tries the name+age heuristic first, then name+title, then
// falls back to paragraph scanning. An empty result means the passage
// could not be attributed to individuals.
func SegmentBiographies(text string) []Biography {
	if bios := segmentByMatches(text, nameWithAge, true, 0); len(bios) > 0 {
		return bios
	}
	if bios := segmentByMatches(text, nameWithTitle, false, 100); len(bios) > 0 {
		return bios
	}
	return segmentByParagraphs(text)
}

// segmentByMatches windows the text between successive regex matches.
// minLen discards trailing fragments shorter than a real biography.
func segmentByMatches(text string, re *regexp.Regexp, withAge bool, minLen int) []Biography {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	var bios []Biography

	for i, m := range matches {
		name := strings.TrimSpace(text[m[2]:m[3]])
		if !IsLikelyPersonName(name) {
			continue
		}

		age := ""
		if withAge {
			age = text[m[4]:m[5]]
		}

		start := m[0]
		end := start + bioSpanLimit
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		if end > len(text) {
			end = len(text)
		}

		segment := strings.TrimSpace(text[start:end])
		if len(segment) <= minLen {
			continue
		}

		bios = append(bios, Biography{Name: name, Age: age, Text: segment})
	}
	return bios
}

// segmentByParagraphs attributes substantial paragraphs to the first
// plausible name on their opening line.
func segmentByParagraphs(text string) []Biography {
	var bios []Biography

	for _, para := range strings.Split(text, "\n\n") {
		if len(para) <= 100 {
			continue
		}
		firstLine := strings.SplitN(para, "\n", 2)[0]
		name := looseName.FindString(firstLine)
		if name == "" || !IsLikelyPersonName(name) {
			continue
		}

		segment := para
		if len(segment) > 1000 {
			segment = segment[:1000]
		}
		bios = append(bios, Biography{Name: name, Text: segment})
	}
	return bios
}
