package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/openroster/affilscan/internal/core/domain"
	"github.com/openroster/affilscan/internal/core/ports/driven"
	"github.com/openroster/affilscan/internal/logger"
)

// Reconciler merges extracted claims into the persistent roster. Roster
// records are append-or-fill: existing values are never overwritten, and
// a birth-year conflict beyond the tolerance branches to a new record
// rather than failing.
type Reconciler struct {
	roster      driven.RosterStore
	institution string
}

// NewReconciler creates a reconciler writing to the given roster store.
// institution is the canonical name recorded on degree rows.
func NewReconciler(roster driven.RosterStore, institution string) *Reconciler {
	return &Reconciler{
		roster:      roster,
		institution: institution,
	}
}

// Reconcile merges one claim and returns the roster entity it landed on.
// Claims attributed to the unknown-person placeholder are not reconciled;
// the empty ID marks them.
func (r *Reconciler) Reconcile(ctx context.Context, claim domain.AffiliationClaim) (string, error) {
	if claim.PersonName == "" || claim.PersonName == domain.UnknownPerson {
		return "", nil
	}

	alumniID, err := r.resolveEntity(ctx, claim)
	if err != nil {
		return "", err
	}

	if err := r.applyDegree(ctx, alumniID, claim); err != nil {
		return "", err
	}
	if err := r.applyEmployment(ctx, alumniID, claim); err != nil {
		return "", err
	}
	if err := r.linkFiling(ctx, alumniID, claim); err != nil {
		return "", err
	}

	return alumniID, nil
}

// resolveEntity finds or creates the roster entity for the claim. A
// birth-year disagreement beyond the tolerance is treated as a distinct
// person sharing the name, and branches to a fresh record.
func (r *Reconciler) resolveEntity(ctx context.Context, claim domain.AffiliationClaim) (string, error) {
	candidate := domain.AlumniRecord{
		YearOfBirth:  claim.YearOfBirth,
		Relationship: r.relationship(claim),
	}

	matches, err := r.roster.MatchAlumni(ctx, claim.PersonName)
	if err != nil {
		return "", fmt.Errorf("matching roster entities: %w", err)
	}

	for _, id := range matches {
		existing, err := r.roster.GetAlumni(ctx, id)
		if err != nil {
			return "", fmt.Errorf("loading roster entity %s: %w", id, err)
		}
		if birthYearsConflict(existing.YearOfBirth, claim.YearOfBirth) {
			continue
		}

		if err := r.roster.UpdateAlumni(ctx, id, candidate); err != nil {
			return "", fmt.Errorf("filling roster entity %s: %w", id, err)
		}
		return id, nil
	}

	if len(matches) > 0 {
		logger.Debug("birth year conflict for %q, branching to a new record", claim.PersonName)
	}

	id, err := r.roster.InsertAlumni(ctx, candidate)
	if err != nil {
		return "", fmt.Errorf("inserting roster entity: %w", err)
	}
	if err := r.roster.InsertName(ctx, domain.NameRecord{AlumniID: id, FullName: claim.PersonName}); err != nil {
		return "", fmt.Errorf("inserting name: %w", err)
	}
	return id, nil
}

// relationship derives the roster relationship from the claim. The
// delegated extractor supplies it directly; for the local variants a
// degree or education claim implies a former student.
func (r *Reconciler) relationship(claim domain.AffiliationClaim) *domain.Relationship {
	if claim.Relationship != "" {
		rel := claim.Relationship
		return &rel
	}
	if claim.Type == domain.AffiliationDegree || claim.Type == domain.AffiliationEducation {
		rel := domain.RelStudent
		return &rel
	}
	return nil
}

// applyDegree records a detected degree. An entity with exactly one
// degree row has that row's missing fields filled in place, whatever its
// type; with several rows, the one matching the claimed type is filled;
// otherwise a new row is inserted.
func (r *Reconciler) applyDegree(ctx context.Context, alumniID string, claim domain.AffiliationClaim) error {
	if claim.Degree == "" && claim.Type != domain.AffiliationDegree {
		return nil
	}

	candidate := domain.DegreeRecord{
		AlumniID: alumniID,
		School:   &r.institution,
		EndYear:  claim.DegreeYear,
	}
	if claim.Degree != "" {
		deg := claim.Degree
		candidate.DegreeType = &deg
	}

	existing, err := r.roster.ListDegrees(ctx, alumniID)
	if err != nil {
		return fmt.Errorf("listing degrees: %w", err)
	}

	if len(existing) == 1 {
		if err := r.roster.UpdateDegree(ctx, existing[0].ID, candidate); err != nil {
			return fmt.Errorf("completing degree: %w", err)
		}
		return nil
	}

	if candidate.DegreeType != nil {
		for _, deg := range existing {
			if deg.DegreeType != nil && *deg.DegreeType == *candidate.DegreeType {
				if err := r.roster.UpdateDegree(ctx, deg.ID, candidate); err != nil {
					return fmt.Errorf("filling degree: %w", err)
				}
				return nil
			}
		}
	}

	if _, err := r.roster.InsertDegree(ctx, candidate); err != nil {
		return fmt.Errorf("inserting degree: %w", err)
	}
	return nil
}

// applyEmployment records the person's role at the filing company. At
// most one employment row exists per entity and company.
func (r *Reconciler) applyEmployment(ctx context.Context, alumniID string, claim domain.AffiliationClaim) error {
	if claim.Metadata.CompanyName == "" {
		return nil
	}
	if claim.Type != domain.AffiliationEmployment && claim.Type != domain.AffiliationPosition &&
		claim.Position == "" {
		return nil
	}

	companyID, err := r.companyID(ctx, claim.Metadata)
	if err != nil {
		return err
	}

	candidate := domain.EmploymentRecord{
		AlumniID:    alumniID,
		CompanyID:   companyID,
		CompanyName: claim.Metadata.CompanyName,
	}

	_, err = r.roster.GetEmployment(ctx, alumniID, claim.Metadata.CompanyName)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if _, err := r.roster.InsertEmployment(ctx, candidate); err != nil {
			return fmt.Errorf("inserting employment: %w", err)
		}
	case err != nil:
		return fmt.Errorf("looking up employment: %w", err)
	default:
		if err := r.roster.UpdateEmployment(ctx, candidate); err != nil {
			return fmt.Errorf("filling employment: %w", err)
		}
	}
	return nil
}

// linkFiling ties the entity to the source document. Repeated sightings
// in the same document concatenate their evidence.
func (r *Reconciler) linkFiling(ctx context.Context, alumniID string, claim domain.AffiliationClaim) error {
	if claim.Metadata.AccessionNo == "" {
		return nil
	}

	companyID, err := r.companyID(ctx, claim.Metadata)
	if err != nil {
		return err
	}

	link := domain.FilingLink{
		AlumniID:      alumniID,
		DocumentRef:   claim.Metadata.AccessionNo,
		CompanyID:     companyID,
		ExtractedText: claim.EvidenceContext,
	}
	if claim.Metadata.FilingDate != "" {
		date := claim.Metadata.FilingDate
		link.FilingDate = &date
	}

	_, err = r.roster.GetFilingLink(ctx, alumniID, claim.Metadata.AccessionNo)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if err := r.roster.InsertFilingLink(ctx, link); err != nil {
			return fmt.Errorf("inserting filing link: %w", err)
		}
	case err != nil:
		return fmt.Errorf("looking up filing link: %w", err)
	default:
		if err := r.roster.AppendFilingLink(ctx, link); err != nil {
			return fmt.Errorf("appending filing link: %w", err)
		}
	}
	return nil
}

// companyID resolves the filing company in the registry, creating it on
// first sight. Documents without a company yield nil.
func (r *Reconciler) companyID(ctx context.Context, meta domain.FilingMetadata) (*string, error) {
	if meta.CompanyName == "" {
		return nil, nil
	}

	company := domain.Company{Name: meta.CompanyName}
	if meta.CompanyCIK != "" {
		cik := meta.CompanyCIK
		company.CIK = &cik
	}

	id, err := r.roster.InsertOrGetCompany(ctx, company)
	if err != nil {
		return nil, fmt.Errorf("resolving company: %w", err)
	}
	return &id, nil
}

// birthYearsConflict reports whether two birth-year observations are too
// far apart to belong to the same person.
func birthYearsConflict(a, b *int) bool {
	if a == nil || b == nil {
		return false
	}
	diff := *a - *b
	if diff < 0 {
		diff = -diff
	}
	return diff > domain.BirthYearTolerance
}
