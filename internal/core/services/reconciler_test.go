package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openroster/affilscan/internal/adapters/driven/storage/memory"
	"github.com/openroster/affilscan/internal/core/domain"
)

func intPtr(v int) *int { return &v }

func newTestReconciler() (*Reconciler, *memory.RosterStore) {
	roster := memory.NewRosterStore()
	return NewReconciler(roster, "Boston University"), roster
}

func TestReconcile_NewPerson(t *testing.T) {
	rec, roster := newTestReconciler()
	ctx := context.Background()

	id, err := rec.Reconcile(ctx, domain.AffiliationClaim{
		PersonName:  "John Smith",
		Type:        domain.AffiliationEducation,
		YearOfBirth: intPtr(1970),
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	entity, err := roster.GetAlumni(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1970, *entity.YearOfBirth)
	require.NotNil(t, entity.Relationship)
	assert.Equal(t, domain.RelStudent, *entity.Relationship)

	ids, err := roster.MatchAlumni(ctx, "John Smith")
	require.NoError(t, err)
	assert.Equal(t, []string{id}, ids)
}

func TestReconcile_UnknownPersonSkipped(t *testing.T) {
	rec, roster := newTestReconciler()
	ctx := context.Background()

	id, err := rec.Reconcile(ctx, domain.AffiliationClaim{
		PersonName: domain.UnknownPerson,
		Type:       domain.AffiliationMention,
	})
	require.NoError(t, err)
	assert.Empty(t, id)

	ids, err := roster.MatchAlumni(ctx, domain.UnknownPerson)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestReconcile_BirthYearWithinToleranceMerges(t *testing.T) {
	rec, _ := newTestReconciler()
	ctx := context.Background()

	first, err := rec.Reconcile(ctx, domain.AffiliationClaim{
		PersonName:  "John Smith",
		Type:        domain.AffiliationEducation,
		YearOfBirth: intPtr(1990),
	})
	require.NoError(t, err)

	second, err := rec.Reconcile(ctx, domain.AffiliationClaim{
		PersonName:  "John Smith",
		Type:        domain.AffiliationEducation,
		YearOfBirth: intPtr(1991),
	})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestReconcile_BirthYearConflictBranches(t *testing.T) {
	rec, roster := newTestReconciler()
	ctx := context.Background()

	first, err := rec.Reconcile(ctx, domain.AffiliationClaim{
		PersonName:  "John Smith",
		Type:        domain.AffiliationEducation,
		YearOfBirth: intPtr(1990),
	})
	require.NoError(t, err)

	second, err := rec.Reconcile(ctx, domain.AffiliationClaim{
		PersonName:  "John Smith",
		Type:        domain.AffiliationEducation,
		YearOfBirth: intPtr(2000),
	})
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	// Both identities survive under the same name.
	ids, err := roster.MatchAlumni(ctx, "John Smith")
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	// The original record keeps its birth year.
	entity, err := roster.GetAlumni(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 1990, *entity.YearOfBirth)
}

func TestReconcile_FillsMissingBirthYear(t *testing.T) {
	rec, roster := newTestReconciler()
	ctx := context.Background()

	id, err := rec.Reconcile(ctx, domain.AffiliationClaim{
		PersonName: "John Smith",
		Type:       domain.AffiliationMention,
	})
	require.NoError(t, err)

	same, err := rec.Reconcile(ctx, domain.AffiliationClaim{
		PersonName:  "John Smith",
		Type:        domain.AffiliationMention,
		YearOfBirth: intPtr(1970),
	})
	require.NoError(t, err)
	assert.Equal(t, id, same)

	entity, err := roster.GetAlumni(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, entity.YearOfBirth)
	assert.Equal(t, 1970, *entity.YearOfBirth)
}

func TestReconcile_DegreeCompletesUntypedRecord(t *testing.T) {
	rec, roster := newTestReconciler()
	ctx := context.Background()

	// First sighting knows only that a degree exists.
	id, err := rec.Reconcile(ctx, domain.AffiliationClaim{
		PersonName: "John Smith",
		Type:       domain.AffiliationDegree,
	})
	require.NoError(t, err)

	// Second sighting supplies the type and year.
	_, err = rec.Reconcile(ctx, domain.AffiliationClaim{
		PersonName: "John Smith",
		Type:       domain.AffiliationDegree,
		Degree:     "M.B.A.",
		DegreeYear: intPtr(1992),
	})
	require.NoError(t, err)

	degrees, err := roster.ListDegrees(ctx, id)
	require.NoError(t, err)
	require.Len(t, degrees, 1)
	assert.Equal(t, "M.B.A.", *degrees[0].DegreeType)
	assert.Equal(t, 1992, *degrees[0].EndYear)
	assert.Equal(t, "Boston University", *degrees[0].School)
}

func TestReconcile_SoleDegreeUpdatedWhateverItsType(t *testing.T) {
	rec, roster := newTestReconciler()
	ctx := context.Background()

	id, err := rec.Reconcile(ctx, domain.AffiliationClaim{
		PersonName: "John Smith",
		Type:       domain.AffiliationDegree,
		Degree:     "M.B.A.",
	})
	require.NoError(t, err)

	// A differently typed claim against the single existing row fills its
	// missing fields; the original type is kept, not overwritten.
	_, err = rec.Reconcile(ctx, domain.AffiliationClaim{
		PersonName: "John Smith",
		Type:       domain.AffiliationDegree,
		Degree:     "Ph.D.",
		DegreeYear: intPtr(1988),
	})
	require.NoError(t, err)

	degrees, err := roster.ListDegrees(ctx, id)
	require.NoError(t, err)
	require.Len(t, degrees, 1)
	assert.Equal(t, "M.B.A.", *degrees[0].DegreeType)
	assert.Equal(t, 1988, *degrees[0].EndYear)
}

func TestReconcile_TypeMatchAmongSeveralDegrees(t *testing.T) {
	rec, roster := newTestReconciler()
	ctx := context.Background()

	id, err := rec.Reconcile(ctx, domain.AffiliationClaim{
		PersonName: "John Smith",
		Type:       domain.AffiliationDegree,
		Degree:     "B.A.",
	})
	require.NoError(t, err)

	jd := "J.D."
	_, err = roster.InsertDegree(ctx, domain.DegreeRecord{
		AlumniID:   id,
		DegreeType: &jd,
	})
	require.NoError(t, err)

	// With two rows, a claim updates the row of matching type.
	_, err = rec.Reconcile(ctx, domain.AffiliationClaim{
		PersonName: "John Smith",
		Type:       domain.AffiliationDegree,
		Degree:     "J.D.",
		DegreeYear: intPtr(1988),
	})
	require.NoError(t, err)

	degrees, err := roster.ListDegrees(ctx, id)
	require.NoError(t, err)
	require.Len(t, degrees, 2)
	for _, deg := range degrees {
		if deg.DegreeType != nil && *deg.DegreeType == "J.D." {
			require.NotNil(t, deg.EndYear)
			assert.Equal(t, 1988, *deg.EndYear)
		}
	}

	// A novel type among several rows inserts a third.
	_, err = rec.Reconcile(ctx, domain.AffiliationClaim{
		PersonName: "John Smith",
		Type:       domain.AffiliationDegree,
		Degree:     "M.D.",
	})
	require.NoError(t, err)

	degrees, err = roster.ListDegrees(ctx, id)
	require.NoError(t, err)
	assert.Len(t, degrees, 3)
}

func TestReconcile_EmploymentUniquePerCompany(t *testing.T) {
	rec, roster := newTestReconciler()
	ctx := context.Background()

	meta := domain.FilingMetadata{
		AccessionNo: "0001-24-000001",
		CompanyName: "Acme Corp",
		CompanyCIK:  "0000123456",
	}

	id, err := rec.Reconcile(ctx, domain.AffiliationClaim{
		PersonName: "John Smith",
		Type:       domain.AffiliationEmployment,
		Metadata:   meta,
	})
	require.NoError(t, err)

	// A later filing from the same company adds no second record.
	meta2 := meta
	meta2.AccessionNo = "0001-25-000002"
	_, err = rec.Reconcile(ctx, domain.AffiliationClaim{
		PersonName: "John Smith",
		Type:       domain.AffiliationPosition,
		Position:   "Director",
		Metadata:   meta2,
	})
	require.NoError(t, err)

	emp, err := roster.GetEmployment(ctx, id, "Acme Corp")
	require.NoError(t, err)
	require.NotNil(t, emp.CompanyID)

	// The company landed in the registry exactly once.
	company, err := roster.FindCompanyByCIK(ctx, "0000123456")
	require.NoError(t, err)
	assert.Equal(t, *emp.CompanyID, company.ID)
}

func TestReconcile_FilingLinkAppendsEvidence(t *testing.T) {
	rec, roster := newTestReconciler()
	ctx := context.Background()

	meta := domain.FilingMetadata{
		AccessionNo: "0001-24-000001",
		CompanyName: "Acme Corp",
		FilingDate:  "2024-03-15",
	}

	id, err := rec.Reconcile(ctx, domain.AffiliationClaim{
		PersonName:      "John Smith",
		Type:            domain.AffiliationEducation,
		EvidenceContext: "first passage",
		Metadata:        meta,
	})
	require.NoError(t, err)

	_, err = rec.Reconcile(ctx, domain.AffiliationClaim{
		PersonName:      "John Smith",
		Type:            domain.AffiliationEducation,
		EvidenceContext: "second passage",
		Metadata:        meta,
	})
	require.NoError(t, err)

	link, err := roster.GetFilingLink(ctx, id, "0001-24-000001")
	require.NoError(t, err)
	assert.Equal(t, "first passage\nsecond passage", link.ExtractedText)
	require.NotNil(t, link.FilingDate)
	assert.Equal(t, "2024-03-15", *link.FilingDate)
}

func TestReconcile_DelegatedRelationshipWins(t *testing.T) {
	rec, roster := newTestReconciler()
	ctx := context.Background()

	id, err := rec.Reconcile(ctx, domain.AffiliationClaim{
		PersonName:   "Jane Roe",
		Type:         domain.AffiliationPosition,
		Relationship: domain.RelBoardOfTrustees,
	})
	require.NoError(t, err)

	entity, err := roster.GetAlumni(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, entity.Relationship)
	assert.Equal(t, domain.RelBoardOfTrustees, *entity.Relationship)
}
