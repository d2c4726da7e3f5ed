package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openroster/affilscan/internal/core/domain"
	"github.com/openroster/affilscan/internal/core/ports/driven"
)

// rosterStore implements driven.RosterStore. Updates fill null columns
// only; existing values are never overwritten.
type rosterStore struct {
	store *Store
}

var _ driven.RosterStore = (*rosterStore)(nil)

// MatchAlumni returns the IDs of entities with an exact name match. The
// unknown-person placeholder never matches anything.
func (r *rosterStore) MatchAlumni(ctx context.Context, fullName string) ([]string, error) {
	if fullName == "" || fullName == domain.UnknownPerson {
		return nil, nil
	}

	rows, err := r.store.db.QueryContext(ctx, `
		SELECT alumni_id FROM names WHERE full_name = ?
	`, fullName)
	if err != nil {
		return nil, fmt.Errorf("querying name matches: %w", err)
	}
	defer rows.Close()

	var ids []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning name match: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating name matches: %w", err)
	}

	return ids, nil
}

// GetAlumni retrieves one roster entity.
func (r *rosterStore) GetAlumni(ctx context.Context, id string) (*domain.AlumniRecord, error) {
	row := r.store.db.QueryRowContext(ctx, `
		SELECT id, institution_id, year_of_birth, relationship, created_at, updated_at
		FROM alumni WHERE id = ?
	`, id)

	var rec domain.AlumniRecord
	var institutionID, relationship sql.NullString
	var yearOfBirth sql.NullInt64
	if err := row.Scan(&rec.ID, &institutionID, &yearOfBirth, &relationship,
		&rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning alumni record: %w", err)
	}

	if institutionID.Valid {
		rec.InstitutionID = &institutionID.String
	}
	if yearOfBirth.Valid {
		y := int(yearOfBirth.Int64)
		rec.YearOfBirth = &y
	}
	if relationship.Valid {
		rel := domain.Relationship(relationship.String)
		rec.Relationship = &rel
	}

	return &rec, nil
}

// InsertAlumni creates a roster entity and returns its ID.
func (r *rosterStore) InsertAlumni(ctx context.Context, rec domain.AlumniRecord) (string, error) {
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()

	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO alumni (id, institution_id, year_of_birth, relationship, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, nullStringPtr(rec.InstitutionID), nullIntPtr(rec.YearOfBirth),
		nullRelationship(rec.Relationship), now, now)

	if err != nil {
		return "", fmt.Errorf("inserting alumni record: %w", err)
	}
	return id, nil
}

// UpdateAlumni fills null columns of an existing entity from rec.
func (r *rosterStore) UpdateAlumni(ctx context.Context, id string, rec domain.AlumniRecord) error {
	res, err := r.store.db.ExecContext(ctx, `
		UPDATE alumni SET
			institution_id = COALESCE(institution_id, ?),
			year_of_birth = COALESCE(year_of_birth, ?),
			relationship = COALESCE(relationship, ?),
			updated_at = ?
		WHERE id = ?
	`, nullStringPtr(rec.InstitutionID), nullIntPtr(rec.YearOfBirth),
		nullRelationship(rec.Relationship), time.Now().UTC(), id)

	if err != nil {
		return fmt.Errorf("updating alumni record: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// InsertName associates a full-name spelling with an entity. Re-inserting
// a known spelling is a no-op.
func (r *rosterStore) InsertName(ctx context.Context, name domain.NameRecord) error {
	if name.AlumniID == "" || name.FullName == "" {
		return domain.ErrInvalidInput
	}

	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO names (alumni_id, full_name) VALUES (?, ?)
		ON CONFLICT(alumni_id, full_name) DO NOTHING
	`, name.AlumniID, name.FullName)

	if err != nil {
		return fmt.Errorf("inserting name record: %w", err)
	}
	return nil
}

// ListDegrees returns the degrees owned by an entity.
func (r *rosterStore) ListDegrees(ctx context.Context, alumniID string) ([]domain.DegreeRecord, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT id, alumni_id, school, degree_type, start_year, end_year
		FROM degrees WHERE alumni_id = ?
	`, alumniID)
	if err != nil {
		return nil, fmt.Errorf("querying degrees: %w", err)
	}
	defer rows.Close()

	var degrees []domain.DegreeRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var deg domain.DegreeRecord
		var school, degreeType sql.NullString
		var startYear, endYear sql.NullInt64
		if err := rows.Scan(&deg.ID, &deg.AlumniID, &school, &degreeType,
			&startYear, &endYear); err != nil {
			return nil, fmt.Errorf("scanning degree record: %w", err)
		}

		if school.Valid {
			deg.School = &school.String
		}
		if degreeType.Valid {
			deg.DegreeType = &degreeType.String
		}
		if startYear.Valid {
			y := int(startYear.Int64)
			deg.StartYear = &y
		}
		if endYear.Valid {
			y := int(endYear.Int64)
			deg.EndYear = &y
		}
		degrees = append(degrees, deg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating degrees: %w", err)
	}

	return degrees, nil
}

// InsertDegree creates a degree record and returns its ID.
func (r *rosterStore) InsertDegree(ctx context.Context, deg domain.DegreeRecord) (string, error) {
	id := deg.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO degrees (id, alumni_id, school, degree_type, start_year, end_year)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, deg.AlumniID, nullStringPtr(deg.School), nullStringPtr(deg.DegreeType),
		nullIntPtr(deg.StartYear), nullIntPtr(deg.EndYear))

	if err != nil {
		return "", fmt.Errorf("inserting degree record: %w", err)
	}
	return id, nil
}

// UpdateDegree fills null columns of an existing degree record.
func (r *rosterStore) UpdateDegree(ctx context.Context, id string, deg domain.DegreeRecord) error {
	res, err := r.store.db.ExecContext(ctx, `
		UPDATE degrees SET
			school = COALESCE(school, ?),
			degree_type = COALESCE(degree_type, ?),
			start_year = COALESCE(start_year, ?),
			end_year = COALESCE(end_year, ?)
		WHERE id = ?
	`, nullStringPtr(deg.School), nullStringPtr(deg.DegreeType),
		nullIntPtr(deg.StartYear), nullIntPtr(deg.EndYear), id)

	if err != nil {
		return fmt.Errorf("updating degree record: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetEmployment returns the record for the entity and company name.
func (r *rosterStore) GetEmployment(ctx context.Context, alumniID, companyName string) (*domain.EmploymentRecord, error) {
	row := r.store.db.QueryRowContext(ctx, `
		SELECT id, alumni_id, company_id, company_name, year_start, year_end, compensation, location
		FROM employment WHERE alumni_id = ? AND company_name = ?
	`, alumniID, companyName)

	var emp domain.EmploymentRecord
	var companyID, compensation, location sql.NullString
	var yearStart, yearEnd sql.NullInt64
	if err := row.Scan(&emp.ID, &emp.AlumniID, &companyID, &emp.CompanyName,
		&yearStart, &yearEnd, &compensation, &location); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning employment record: %w", err)
	}

	if companyID.Valid {
		emp.CompanyID = &companyID.String
	}
	if yearStart.Valid {
		y := int(yearStart.Int64)
		emp.YearStart = &y
	}
	if yearEnd.Valid {
		y := int(yearEnd.Int64)
		emp.YearEnd = &y
	}
	if compensation.Valid {
		emp.Compensation = &compensation.String
	}
	if location.Valid {
		emp.Location = &location.String
	}

	return &emp, nil
}

// InsertEmployment creates an employment record and returns its ID.
func (r *rosterStore) InsertEmployment(ctx context.Context, emp domain.EmploymentRecord) (string, error) {
	id := emp.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO employment (id, alumni_id, company_id, company_name, year_start, year_end, compensation, location)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, emp.AlumniID, nullStringPtr(emp.CompanyID), emp.CompanyName,
		nullIntPtr(emp.YearStart), nullIntPtr(emp.YearEnd),
		nullStringPtr(emp.Compensation), nullStringPtr(emp.Location))

	if err != nil {
		return "", fmt.Errorf("inserting employment record: %w", err)
	}
	return id, nil
}

// UpdateEmployment fills null columns of the record for the
// (alumni, company name) pair.
func (r *rosterStore) UpdateEmployment(ctx context.Context, emp domain.EmploymentRecord) error {
	res, err := r.store.db.ExecContext(ctx, `
		UPDATE employment SET
			company_id = COALESCE(company_id, ?),
			year_start = COALESCE(year_start, ?),
			year_end = COALESCE(year_end, ?),
			compensation = COALESCE(compensation, ?),
			location = COALESCE(location, ?)
		WHERE alumni_id = ? AND company_name = ?
	`, nullStringPtr(emp.CompanyID), nullIntPtr(emp.YearStart), nullIntPtr(emp.YearEnd),
		nullStringPtr(emp.Compensation), nullStringPtr(emp.Location),
		emp.AlumniID, emp.CompanyName)

	if err != nil {
		return fmt.Errorf("updating employment record: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetFilingLink returns the link for the (alumni, document) pair.
func (r *rosterStore) GetFilingLink(ctx context.Context, alumniID, documentRef string) (*domain.FilingLink, error) {
	row := r.store.db.QueryRowContext(ctx, `
		SELECT alumni_id, document_ref, company_id, extracted_text, filing_date
		FROM filing_links WHERE alumni_id = ? AND document_ref = ?
	`, alumniID, documentRef)

	var link domain.FilingLink
	var companyID, filingDate sql.NullString
	if err := row.Scan(&link.AlumniID, &link.DocumentRef, &companyID,
		&link.ExtractedText, &filingDate); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning filing link: %w", err)
	}

	if companyID.Valid {
		link.CompanyID = &companyID.String
	}
	if filingDate.Valid {
		link.FilingDate = &filingDate.String
	}

	return &link, nil
}

// InsertFilingLink creates a filing link.
func (r *rosterStore) InsertFilingLink(ctx context.Context, link domain.FilingLink) error {
	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO filing_links (alumni_id, document_ref, company_id, extracted_text, filing_date)
		VALUES (?, ?, ?, ?, ?)
	`, link.AlumniID, link.DocumentRef, nullStringPtr(link.CompanyID),
		link.ExtractedText, nullStringPtr(link.FilingDate))

	if err != nil {
		return fmt.Errorf("inserting filing link: %w", err)
	}
	return nil
}

// AppendFilingLink concatenates newly extracted text onto the existing
// link, newline-joined, and fills null columns.
func (r *rosterStore) AppendFilingLink(ctx context.Context, link domain.FilingLink) error {
	res, err := r.store.db.ExecContext(ctx, `
		UPDATE filing_links SET
			extracted_text = CASE
				WHEN extracted_text = '' THEN ?
				ELSE extracted_text || char(10) || ?
			END,
			company_id = COALESCE(company_id, ?),
			filing_date = COALESCE(filing_date, ?)
		WHERE alumni_id = ? AND document_ref = ?
	`, link.ExtractedText, link.ExtractedText,
		nullStringPtr(link.CompanyID), nullStringPtr(link.FilingDate),
		link.AlumniID, link.DocumentRef)

	if err != nil {
		return fmt.Errorf("appending filing link: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FindCompanyByName returns the company matched case-insensitively.
func (r *rosterStore) FindCompanyByName(ctx context.Context, name string) (*domain.Company, error) {
	row := r.store.db.QueryRowContext(ctx, `
		SELECT id, name, cik FROM companies WHERE name = ?
	`, strings.ToLower(name))

	return scanCompany(row)
}

// FindCompanyByCIK returns the company with the registry key.
func (r *rosterStore) FindCompanyByCIK(ctx context.Context, cik string) (*domain.Company, error) {
	row := r.store.db.QueryRowContext(ctx, `
		SELECT id, name, cik FROM companies WHERE cik = ?
	`, cik)

	return scanCompany(row)
}

// InsertOrGetCompany resolves a company reference, creating the registry
// row when absent. Names are stored lower-cased.
func (r *rosterStore) InsertOrGetCompany(ctx context.Context, company domain.Company) (string, error) {
	if company.Name == "" {
		return "", domain.ErrInvalidInput
	}

	if existing, err := r.FindCompanyByName(ctx, company.Name); err == nil {
		return existing.ID, nil
	} else if err != domain.ErrNotFound {
		return "", err
	}

	id := company.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO companies (id, name, cik) VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`, id, strings.ToLower(company.Name), nullStringPtr(company.CIK))
	if err != nil {
		return "", fmt.Errorf("inserting company: %w", err)
	}

	// A concurrent insert may have won the conflict; read back the row.
	existing, err := r.FindCompanyByName(ctx, company.Name)
	if err != nil {
		return "", err
	}
	return existing.ID, nil
}

// scanCompany scans a single company row.
func scanCompany(row *sql.Row) (*domain.Company, error) {
	var company domain.Company
	var cik sql.NullString
	if err := row.Scan(&company.ID, &company.Name, &cik); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning company: %w", err)
	}

	if cik.Valid {
		company.CIK = &cik.String
	}

	return &company, nil
}

// ==================== Helper Functions ====================

func nullStringPtr(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullIntPtr(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullRelationship(v *domain.Relationship) any {
	if v == nil {
		return nil
	}
	return string(*v)
}
