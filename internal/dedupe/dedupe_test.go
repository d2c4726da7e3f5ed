package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openroster/affilscan/internal/core/domain"
)

func claim(name, context string) domain.AffiliationClaim {
	return domain.AffiliationClaim{
		PersonName:      name,
		Type:            domain.AffiliationMention,
		Confidence:      domain.ConfidenceLow,
		EvidenceContext: context,
	}
}

func names(claims []domain.AffiliationClaim) []string {
	out := make([]string, len(claims))
	for i, c := range claims {
		out[i] = c.PersonName
	}
	return out
}

func TestClaims_ExactDuplicates(t *testing.T) {
	in := []domain.AffiliationClaim{
		claim("John Smith", "Mr. Smith received his degree from Boston University."),
		claim("John Smith", "Mr. Smith received his degree from Boston University."),
		claim("Jane Roe", "Ms. Roe is a trustee of Boston University."),
	}

	out := Claims(in)
	assert.Equal(t, []string{"John Smith", "Jane Roe"}, names(out))
}

func TestClaims_NearbyWindowsCollide(t *testing.T) {
	base := "Mr. Smith received his M.B.A. from Boston University in 1990 and " +
		"went on to serve on the audit committee of the registrant for many years."
	in := []domain.AffiliationClaim{
		claim("John Smith", base),
		claim("John Smith", base+" He retired in 2019."),
	}

	out := Claims(in)
	require.Len(t, out, 1)
	assert.Equal(t, base, out[0].EvidenceContext)
}

func TestClaims_DistinctContextsKept(t *testing.T) {
	in := []domain.AffiliationClaim{
		claim("John Smith", "Mr. Smith received his M.B.A. from Boston University."),
		claim("John Smith", "Separately, Mr. Smith serves as a trustee of the university."),
	}

	out := Claims(in)
	assert.Len(t, out, 2)
}

func TestClaims_TitleFoldedIntoFullName(t *testing.T) {
	in := []domain.AffiliationClaim{
		claim("John Smith", "John Smith, age 54, received his M.B.A. from Boston University."),
		claim("Mr. Smith", "Mr. Smith has served as a director since 2001."),
	}

	out := Claims(in)
	assert.Equal(t, []string{"John Smith"}, names(out))
}

func TestClaims_TitleFoldedAcrossOrder(t *testing.T) {
	// The full-named claim appears after the title-only one.
	in := []domain.AffiliationClaim{
		claim("Mr. Smith", "Mr. Smith has served as a director since 2001."),
		claim("John Smith", "John Smith, age 54, received his M.B.A. from Boston University."),
	}

	out := Claims(in)
	assert.Equal(t, []string{"John Smith"}, names(out))
}

func TestClaims_TitleWithoutFullNameKept(t *testing.T) {
	in := []domain.AffiliationClaim{
		claim("Mr. Jones", "Mr. Jones attended Boston University."),
		claim("John Smith", "John Smith is a professor at Boston University."),
	}

	out := Claims(in)
	assert.Equal(t, []string{"Mr. Jones", "John Smith"}, names(out))
}

func TestClaims_CaseInsensitive(t *testing.T) {
	in := []domain.AffiliationClaim{
		claim("John Smith", "MR. SMITH RECEIVED HIS DEGREE FROM BOSTON UNIVERSITY."),
		claim("JOHN SMITH", "Mr. Smith received his degree from Boston University."),
	}

	out := Claims(in)
	require.Len(t, out, 1)
	assert.Equal(t, "John Smith", out[0].PersonName)
}

func TestClaims_EmptyAndSingle(t *testing.T) {
	assert.Empty(t, Claims(nil))

	single := []domain.AffiliationClaim{claim("John Smith", "text")}
	assert.Equal(t, single, Claims(single))
}
