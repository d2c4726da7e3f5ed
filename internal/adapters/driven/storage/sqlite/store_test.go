package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openroster/affilscan/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

func relPtr(v domain.Relationship) *domain.Relationship { return &v }

func TestNewStore_RunsMigrations(t *testing.T) {
	store := setupTestStore(t)

	// Reopening the same directory must not re-apply migrations.
	second, err := NewStore(filepath.Dir(store.Path()))
	require.NoError(t, err)
	assert.NoError(t, second.Close())
}

func TestCacheStore_SetGet(t *testing.T) {
	store := setupTestStore(t)
	cache := store.FilingCache(30)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "0001-24-000001", "filing body"))

	content, err := cache.Get(ctx, "0001-24-000001")
	require.NoError(t, err)
	assert.Equal(t, "filing body", content)

	ok, err := cache.Has(ctx, "0001-24-000001")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCacheStore_MissingEntry(t *testing.T) {
	store := setupTestStore(t)
	cache := store.FilingCache(30)
	ctx := context.Background()

	_, err := cache.Get(ctx, "no-such-accession")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ok, err := cache.Has(ctx, "no-such-accession")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheStore_SetReplaces(t *testing.T) {
	store := setupTestStore(t)
	cache := store.FilingCache(30)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "acc-1", "first"))
	require.NoError(t, cache.Set(ctx, "acc-1", "second"))

	content, err := cache.Get(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "second", content)

	stats, err := cache.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Count)
}

func TestCacheStore_ClearAll(t *testing.T) {
	store := setupTestStore(t)
	cache := store.FilingCache(30)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "acc-1", "one"))
	require.NoError(t, cache.Set(ctx, "acc-2", "two"))

	removed, err := cache.ClearAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	stats, err := cache.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, stats.Count)
	assert.Nil(t, stats.OldestAgeDays)
}

func TestCacheStore_ClearExpired(t *testing.T) {
	store := setupTestStore(t)
	cache := store.FilingCache(30)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "acc-1", "fresh"))

	// Backdate the entry past the TTL.
	_, err := store.db.ExecContext(ctx, `
		UPDATE filing_cache SET download_timestamp = datetime('now', '-45 days')
		WHERE accession_number = ?
	`, "acc-1")
	require.NoError(t, err)

	removed, err := cache.ClearExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
}

func TestCacheStore_ExpiredEntryEvictedOnRead(t *testing.T) {
	store := setupTestStore(t)
	cache := store.FilingCache(30)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "acc-1", "stale"))
	_, err := store.db.ExecContext(ctx, `
		UPDATE filing_cache SET download_timestamp = datetime('now', '-45 days')
		WHERE accession_number = ?
	`, "acc-1")
	require.NoError(t, err)

	_, err = cache.Get(ctx, "acc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The row is gone, not merely hidden.
	stats, err := cache.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, stats.Count)
}

func TestCacheStore_Stats(t *testing.T) {
	store := setupTestStore(t)
	cache := store.FilingCache(30)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "acc-1", "some cached content"))

	stats, err := cache.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Count)
	require.NotNil(t, stats.OldestAgeDays)
	assert.GreaterOrEqual(t, *stats.OldestAgeDays, 0.0)
}

func TestRosterStore_InsertAndGetAlumni(t *testing.T) {
	store := setupTestStore(t)
	roster := store.RosterStore()
	ctx := context.Background()

	id, err := roster.InsertAlumni(ctx, domain.AlumniRecord{
		YearOfBirth:  intPtr(1970),
		Relationship: relPtr(domain.RelStudent),
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	rec, err := roster.GetAlumni(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.ID)
	assert.Nil(t, rec.InstitutionID)
	require.NotNil(t, rec.YearOfBirth)
	assert.Equal(t, 1970, *rec.YearOfBirth)
	require.NotNil(t, rec.Relationship)
	assert.Equal(t, domain.RelStudent, *rec.Relationship)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestRosterStore_GetAlumniNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.RosterStore().GetAlumni(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRosterStore_UpdateAlumniCoalesces(t *testing.T) {
	store := setupTestStore(t)
	roster := store.RosterStore()
	ctx := context.Background()

	id, err := roster.InsertAlumni(ctx, domain.AlumniRecord{YearOfBirth: intPtr(1970)})
	require.NoError(t, err)

	// The existing birth year must survive; the missing relationship fills in.
	err = roster.UpdateAlumni(ctx, id, domain.AlumniRecord{
		YearOfBirth:  intPtr(1999),
		Relationship: relPtr(domain.RelProfessor),
	})
	require.NoError(t, err)

	rec, err := roster.GetAlumni(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1970, *rec.YearOfBirth)
	assert.Equal(t, domain.RelProfessor, *rec.Relationship)
}

func TestRosterStore_MatchAlumni(t *testing.T) {
	store := setupTestStore(t)
	roster := store.RosterStore()
	ctx := context.Background()

	id, err := roster.InsertAlumni(ctx, domain.AlumniRecord{})
	require.NoError(t, err)
	require.NoError(t, roster.InsertName(ctx, domain.NameRecord{AlumniID: id, FullName: "John Smith"}))

	ids, err := roster.MatchAlumni(ctx, "John Smith")
	require.NoError(t, err)
	assert.Equal(t, []string{id}, ids)

	ids, err = roster.MatchAlumni(ctx, "Jane Roe")
	require.NoError(t, err)
	assert.Empty(t, ids)

	// The placeholder name never matches even if inserted.
	ids, err = roster.MatchAlumni(ctx, domain.UnknownPerson)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRosterStore_InsertNameIdempotent(t *testing.T) {
	store := setupTestStore(t)
	roster := store.RosterStore()
	ctx := context.Background()

	id, err := roster.InsertAlumni(ctx, domain.AlumniRecord{})
	require.NoError(t, err)

	name := domain.NameRecord{AlumniID: id, FullName: "John Smith"}
	require.NoError(t, roster.InsertName(ctx, name))
	require.NoError(t, roster.InsertName(ctx, name))

	ids, err := roster.MatchAlumni(ctx, "John Smith")
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestRosterStore_Degrees(t *testing.T) {
	store := setupTestStore(t)
	roster := store.RosterStore()
	ctx := context.Background()

	alumniID, err := roster.InsertAlumni(ctx, domain.AlumniRecord{})
	require.NoError(t, err)

	degID, err := roster.InsertDegree(ctx, domain.DegreeRecord{
		AlumniID: alumniID,
		School:   strPtr("Boston University"),
	})
	require.NoError(t, err)

	// Coalesce fills the missing type but keeps the school.
	err = roster.UpdateDegree(ctx, degID, domain.DegreeRecord{
		School:     strPtr("Somewhere Else"),
		DegreeType: strPtr("M.B.A."),
		EndYear:    intPtr(1992),
	})
	require.NoError(t, err)

	degrees, err := roster.ListDegrees(ctx, alumniID)
	require.NoError(t, err)
	require.Len(t, degrees, 1)
	assert.Equal(t, "Boston University", *degrees[0].School)
	assert.Equal(t, "M.B.A.", *degrees[0].DegreeType)
	assert.Equal(t, 1992, *degrees[0].EndYear)
	assert.Nil(t, degrees[0].StartYear)
}

func TestRosterStore_Employment(t *testing.T) {
	store := setupTestStore(t)
	roster := store.RosterStore()
	ctx := context.Background()

	alumniID, err := roster.InsertAlumni(ctx, domain.AlumniRecord{})
	require.NoError(t, err)

	_, err = roster.InsertEmployment(ctx, domain.EmploymentRecord{
		AlumniID:    alumniID,
		CompanyName: "Acme Corp",
		YearStart:   intPtr(2001),
	})
	require.NoError(t, err)

	// Lookup is case-insensitive on the company name.
	emp, err := roster.GetEmployment(ctx, alumniID, "acme corp")
	require.NoError(t, err)
	assert.Equal(t, 2001, *emp.YearStart)
	assert.Nil(t, emp.YearEnd)

	err = roster.UpdateEmployment(ctx, domain.EmploymentRecord{
		AlumniID:    alumniID,
		CompanyName: "Acme Corp",
		YearStart:   intPtr(1999),
		YearEnd:     intPtr(2010),
	})
	require.NoError(t, err)

	emp, err = roster.GetEmployment(ctx, alumniID, "Acme Corp")
	require.NoError(t, err)
	assert.Equal(t, 2001, *emp.YearStart)
	assert.Equal(t, 2010, *emp.YearEnd)

	_, err = roster.GetEmployment(ctx, alumniID, "Other Corp")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRosterStore_FilingLinks(t *testing.T) {
	store := setupTestStore(t)
	roster := store.RosterStore()
	ctx := context.Background()

	alumniID, err := roster.InsertAlumni(ctx, domain.AlumniRecord{})
	require.NoError(t, err)

	link := domain.FilingLink{
		AlumniID:      alumniID,
		DocumentRef:   "0001-24-000001",
		ExtractedText: "first sighting",
	}
	require.NoError(t, roster.InsertFilingLink(ctx, link))

	err = roster.AppendFilingLink(ctx, domain.FilingLink{
		AlumniID:      alumniID,
		DocumentRef:   "0001-24-000001",
		ExtractedText: "second sighting",
		FilingDate:    strPtr("2024-03-15"),
	})
	require.NoError(t, err)

	got, err := roster.GetFilingLink(ctx, alumniID, "0001-24-000001")
	require.NoError(t, err)
	assert.Equal(t, "first sighting\nsecond sighting", got.ExtractedText)
	require.NotNil(t, got.FilingDate)
	assert.Equal(t, "2024-03-15", *got.FilingDate)

	_, err = roster.GetFilingLink(ctx, alumniID, "other-doc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRosterStore_Companies(t *testing.T) {
	store := setupTestStore(t)
	roster := store.RosterStore()
	ctx := context.Background()

	id, err := roster.InsertOrGetCompany(ctx, domain.Company{Name: "Acme Corp", CIK: strPtr("0000123456")})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// Same name in different case resolves to the same registry row.
	again, err := roster.InsertOrGetCompany(ctx, domain.Company{Name: "ACME CORP"})
	require.NoError(t, err)
	assert.Equal(t, id, again)

	company, err := roster.FindCompanyByName(ctx, "Acme Corp")
	require.NoError(t, err)
	assert.Equal(t, "acme corp", company.Name)

	company, err = roster.FindCompanyByCIK(ctx, "0000123456")
	require.NoError(t, err)
	assert.Equal(t, id, company.ID)

	_, err = roster.FindCompanyByName(ctx, "Unknown Inc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
