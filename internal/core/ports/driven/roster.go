package driven

import (
	"context"

	"github.com/openroster/affilscan/internal/core/domain"
)

// RosterStore persists the roster of known individuals and their dependent
// records. All update operations use coalesce semantics: existing non-null
// fields are never overwritten. The merge-or-branch decision itself lives
// in the reconciler service, not here.
type RosterStore interface {
	// MatchAlumni returns the IDs of roster entities whose Name records
	// match the full name exactly. domain.UnknownPerson never matches.
	MatchAlumni(ctx context.Context, fullName string) ([]string, error)

	// GetAlumni retrieves one roster entity.
	GetAlumni(ctx context.Context, id string) (*domain.AlumniRecord, error)

	// InsertAlumni creates a roster entity and returns its ID.
	InsertAlumni(ctx context.Context, rec domain.AlumniRecord) (string, error)

	// UpdateAlumni fills null fields of an existing entity from rec.
	UpdateAlumni(ctx context.Context, id string, rec domain.AlumniRecord) error

	// InsertName associates a full-name spelling with an entity.
	InsertName(ctx context.Context, name domain.NameRecord) error

	// ListDegrees returns the degrees owned by an entity.
	ListDegrees(ctx context.Context, alumniID string) ([]domain.DegreeRecord, error)

	// InsertDegree creates a degree record and returns its ID.
	InsertDegree(ctx context.Context, deg domain.DegreeRecord) (string, error)

	// UpdateDegree fills null fields of an existing degree record.
	UpdateDegree(ctx context.Context, id string, deg domain.DegreeRecord) error

	// GetEmployment returns the employment record for the entity and
	// company name (matched case-insensitively), or domain.ErrNotFound.
	GetEmployment(ctx context.Context, alumniID, companyName string) (*domain.EmploymentRecord, error)

	// InsertEmployment creates an employment record and returns its ID.
	InsertEmployment(ctx context.Context, emp domain.EmploymentRecord) (string, error)

	// UpdateEmployment fills null fields of the record for the
	// (alumniID, companyName) pair.
	UpdateEmployment(ctx context.Context, emp domain.EmploymentRecord) error

	// GetFilingLink returns the link for the (alumniID, documentRef)
	// pair, or domain.ErrNotFound.
	GetFilingLink(ctx context.Context, alumniID, documentRef string) (*domain.FilingLink, error)

	// InsertFilingLink creates a filing link.
	InsertFilingLink(ctx context.Context, link domain.FilingLink) error

	// AppendFilingLink concatenates newly extracted text onto the
	// existing link (newline-joined) and coalesces date and company.
	AppendFilingLink(ctx context.Context, link domain.FilingLink) error

	// FindCompanyByName returns the company whose name matches
	// case-insensitively, or domain.ErrNotFound.
	FindCompanyByName(ctx context.Context, name string) (*domain.Company, error)

	// FindCompanyByCIK returns the company with the registry key, or
	// domain.ErrNotFound.
	FindCompanyByCIK(ctx context.Context, cik string) (*domain.Company, error)

	// InsertOrGetCompany resolves a company reference, creating the
	// registry row when absent. Names are stored lower-cased.
	InsertOrGetCompany(ctx context.Context, company domain.Company) (string, error)
}
