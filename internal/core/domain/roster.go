package domain

import (
	"strconv"
	"strings"
	"time"
)

// Relationship is the controlled vocabulary for how a roster entity is
// connected to the institution. Only the delegated extractor emits it
// directly; the reconciler normalises free-form values into it.
type Relationship string

const (
	RelStudent         Relationship = "student"
	RelProfessor       Relationship = "professor"
	RelAdmin           Relationship = "admin"
	RelAdvisor         Relationship = "advisor"
	RelBoardOfTrustees Relationship = "board_of_trustees"
	RelDonor           Relationship = "donor"
	RelResearcher      Relationship = "researcher"
	RelBusiness        Relationship = "business"
	RelTransitive      Relationship = "transitive"
)

// NormalizeRelationship lower-cases and validates a relationship value.
// The synonyms "alumnus" and "alumni" collapse to student; anything
// unrecognised collapses to nil rather than polluting the roster.
func NormalizeRelationship(raw string) *Relationship {
	v := Relationship(strings.ToLower(strings.TrimSpace(raw)))
	switch v {
	case RelStudent, RelProfessor, RelAdmin, RelAdvisor, RelBoardOfTrustees,
		RelDonor, RelResearcher, RelBusiness, RelTransitive:
		return &v
	case "alumnus", "alumni":
		s := RelStudent
		return &s
	}
	return nil
}

// BirthYearTolerance is the maximum difference, in years, between two
// birth-year observations still treated as the same person.
const BirthYearTolerance = 2

// AlumniRecord is the persistent roster entity for one individual.
// Records are never deleted; a conflicting birth year branches to a new
// record for a deliberately distinct identity.
type AlumniRecord struct {
	ID string

	// InstitutionID is the external institutional identifier, nil until
	// matched against an outside registry.
	InstitutionID *string

	YearOfBirth *int

	Relationship *Relationship

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NameRecord associates a full-name spelling with a roster entity.
type NameRecord struct {
	AlumniID string
	FullName string
}

// DegreeRecord holds one degree attributed to a roster entity.
type DegreeRecord struct {
	ID         string
	AlumniID   string
	School     *string
	DegreeType *string
	StartYear  *int
	EndYear    *int
}

// EmploymentRecord holds one employer attributed to a roster entity.
// At most one record exists per (AlumniID, CompanyID) pair.
type EmploymentRecord struct {
	ID           string
	AlumniID     string
	CompanyID    *string
	CompanyName  string
	YearStart    *int
	YearEnd      *int
	Compensation *string
	Location     *string
}

// FilingLink ties a roster entity to a document it was sighted in.
// Repeated sightings of the same pair concatenate extracted text.
type FilingLink struct {
	AlumniID      string
	DocumentRef   string
	CompanyID     *string
	ExtractedText string
	FilingDate    *string
}

// Company is a registry entry for an employer referenced by claims.
type Company struct {
	ID   string
	Name string
	CIK  *string
}

// CleanYear converts an extracted year value into an integer year.
// "present" maps to the current year, "null" and unparseable values to nil.
func CleanYear(raw string, now time.Time) *int {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch raw {
	case "", "null":
		return nil
	case "present":
		y := now.Year()
		return &y
	}
	y, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &y
}
