package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openroster/affilscan/internal/core/domain"
	"github.com/openroster/affilscan/internal/core/ports/driven"
)

// Ensure RosterStore implements the interface.
var _ driven.RosterStore = (*RosterStore)(nil)

// RosterStore is an in-memory implementation of driven.RosterStore with
// the same fill-null-only update semantics as the SQLite store.
type RosterStore struct {
	mu         sync.RWMutex
	alumni     map[string]domain.AlumniRecord
	names      map[string][]string // lower full name -> alumni IDs
	degrees    map[string]domain.DegreeRecord
	employment map[string]domain.EmploymentRecord
	links      map[string]domain.FilingLink // alumniID + "\x00" + documentRef
	companies  map[string]domain.Company    // lower name -> company
}

// NewRosterStore creates a new in-memory roster store.
func NewRosterStore() *RosterStore {
	return &RosterStore{
		alumni:     make(map[string]domain.AlumniRecord),
		names:      make(map[string][]string),
		degrees:    make(map[string]domain.DegreeRecord),
		employment: make(map[string]domain.EmploymentRecord),
		links:      make(map[string]domain.FilingLink),
		companies:  make(map[string]domain.Company),
	}
}

// MatchAlumni returns the IDs of entities with a name match.
func (s *RosterStore) MatchAlumni(_ context.Context, fullName string) ([]string, error) {
	if fullName == "" || fullName == domain.UnknownPerson {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.names[strings.ToLower(fullName)]
	return append([]string(nil), ids...), nil
}

// GetAlumni retrieves one roster entity.
func (s *RosterStore) GetAlumni(_ context.Context, id string) (*domain.AlumniRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.alumni[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// InsertAlumni creates a roster entity and returns its ID.
func (s *RosterStore) InsertAlumni(_ context.Context, rec domain.AlumniRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	s.alumni[rec.ID] = rec
	return rec.ID, nil
}

// UpdateAlumni fills nil fields of an existing entity from rec.
func (s *RosterStore) UpdateAlumni(_ context.Context, id string, rec domain.AlumniRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.alumni[id]
	if !ok {
		return domain.ErrNotFound
	}
	if existing.InstitutionID == nil {
		existing.InstitutionID = rec.InstitutionID
	}
	if existing.YearOfBirth == nil {
		existing.YearOfBirth = rec.YearOfBirth
	}
	if existing.Relationship == nil {
		existing.Relationship = rec.Relationship
	}
	existing.UpdatedAt = time.Now().UTC()
	s.alumni[id] = existing
	return nil
}

// InsertName associates a full-name spelling with an entity.
func (s *RosterStore) InsertName(_ context.Context, name domain.NameRecord) error {
	if name.AlumniID == "" || name.FullName == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(name.FullName)
	for _, id := range s.names[key] {
		if id == name.AlumniID {
			return nil
		}
	}
	s.names[key] = append(s.names[key], name.AlumniID)
	return nil
}

// ListDegrees returns the degrees owned by an entity.
func (s *RosterStore) ListDegrees(_ context.Context, alumniID string) ([]domain.DegreeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var degrees []domain.DegreeRecord
	for _, deg := range s.degrees {
		if deg.AlumniID == alumniID {
			degrees = append(degrees, deg)
		}
	}
	return degrees, nil
}

// InsertDegree creates a degree record and returns its ID.
func (s *RosterStore) InsertDegree(_ context.Context, deg domain.DegreeRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if deg.ID == "" {
		deg.ID = uuid.NewString()
	}
	s.degrees[deg.ID] = deg
	return deg.ID, nil
}

// UpdateDegree fills nil fields of an existing degree record.
func (s *RosterStore) UpdateDegree(_ context.Context, id string, deg domain.DegreeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.degrees[id]
	if !ok {
		return domain.ErrNotFound
	}
	if existing.School == nil {
		existing.School = deg.School
	}
	if existing.DegreeType == nil {
		existing.DegreeType = deg.DegreeType
	}
	if existing.StartYear == nil {
		existing.StartYear = deg.StartYear
	}
	if existing.EndYear == nil {
		existing.EndYear = deg.EndYear
	}
	s.degrees[id] = existing
	return nil
}

func employmentKey(alumniID, companyName string) string {
	return alumniID + "\x00" + strings.ToLower(companyName)
}

// GetEmployment returns the record for the entity and company name.
func (s *RosterStore) GetEmployment(_ context.Context, alumniID, companyName string) (*domain.EmploymentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	emp, ok := s.employment[employmentKey(alumniID, companyName)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &emp, nil
}

// InsertEmployment creates an employment record and returns its ID.
func (s *RosterStore) InsertEmployment(_ context.Context, emp domain.EmploymentRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}
	s.employment[employmentKey(emp.AlumniID, emp.CompanyName)] = emp
	return emp.ID, nil
}

// UpdateEmployment fills nil fields of the record for the
// (alumni, company name) pair.
func (s *RosterStore) UpdateEmployment(_ context.Context, emp domain.EmploymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := employmentKey(emp.AlumniID, emp.CompanyName)
	existing, ok := s.employment[key]
	if !ok {
		return domain.ErrNotFound
	}
	if existing.CompanyID == nil {
		existing.CompanyID = emp.CompanyID
	}
	if existing.YearStart == nil {
		existing.YearStart = emp.YearStart
	}
	if existing.YearEnd == nil {
		existing.YearEnd = emp.YearEnd
	}
	if existing.Compensation == nil {
		existing.Compensation = emp.Compensation
	}
	if existing.Location == nil {
		existing.Location = emp.Location
	}
	s.employment[key] = existing
	return nil
}

func linkKey(alumniID, documentRef string) string {
	return alumniID + "\x00" + documentRef
}

// GetFilingLink returns the link for the (alumni, document) pair.
func (s *RosterStore) GetFilingLink(_ context.Context, alumniID, documentRef string) (*domain.FilingLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.links[linkKey(alumniID, documentRef)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &link, nil
}

// InsertFilingLink creates a filing link.
func (s *RosterStore) InsertFilingLink(_ context.Context, link domain.FilingLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links[linkKey(link.AlumniID, link.DocumentRef)] = link
	return nil
}

// AppendFilingLink concatenates newly extracted text onto the existing
// link, newline-joined.
func (s *RosterStore) AppendFilingLink(_ context.Context, link domain.FilingLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := linkKey(link.AlumniID, link.DocumentRef)
	existing, ok := s.links[key]
	if !ok {
		return domain.ErrNotFound
	}
	if existing.ExtractedText == "" {
		existing.ExtractedText = link.ExtractedText
	} else {
		existing.ExtractedText += "\n" + link.ExtractedText
	}
	if existing.CompanyID == nil {
		existing.CompanyID = link.CompanyID
	}
	if existing.FilingDate == nil {
		existing.FilingDate = link.FilingDate
	}
	s.links[key] = existing
	return nil
}

// FindCompanyByName returns the company matched case-insensitively.
func (s *RosterStore) FindCompanyByName(_ context.Context, name string) (*domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	company, ok := s.companies[strings.ToLower(name)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &company, nil
}

// FindCompanyByCIK returns the company with the registry key.
func (s *RosterStore) FindCompanyByCIK(_ context.Context, cik string) (*domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, company := range s.companies {
		if company.CIK != nil && *company.CIK == cik {
			return &company, nil
		}
	}
	return nil, domain.ErrNotFound
}

// InsertOrGetCompany resolves a company reference, creating the registry
// row when absent. Names are stored lower-cased.
func (s *RosterStore) InsertOrGetCompany(_ context.Context, company domain.Company) (string, error) {
	if company.Name == "" {
		return "", domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(company.Name)
	if existing, ok := s.companies[key]; ok {
		return existing.ID, nil
	}

	if company.ID == "" {
		company.ID = uuid.NewString()
	}
	company.Name = key
	s.companies[key] = company
	return company.ID, nil
}
