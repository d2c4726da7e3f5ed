// Package dedupe collapses affiliation claims that describe the same
// person in the same passage. Claims are compared by name and by the
// opening of their evidence context, and title-only references such as
// "Mr. Smith" are folded into a full-named claim for the same surname.
package dedupe

import (
	"strings"

	"github.com/openroster/affilscan/internal/core/domain"
)

// contextKeyLen bounds how much of the evidence context participates in
// the identity key, so windows that start at slightly different offsets
// still collide.
const contextKeyLen = 100

// Claims returns the input with duplicates removed, preserving order.
// The first claim for each (name, context prefix) pair wins. A claim
// whose name is only a title and surname is dropped when an earlier or
// later claim names the same surname in full.
func Claims(claims []domain.AffiliationClaim) []domain.AffiliationClaim {
	if len(claims) <= 1 {
		return claims
	}

	// Surnames covered by a fully named claim.
	fullNames := make(map[string]bool)
	for _, c := range claims {
		if !c.HasTitlePrefix() {
			fullNames[strings.ToLower(c.LastName())] = true
		}
	}

	seen := make(map[string]bool, len(claims))
	out := make([]domain.AffiliationClaim, 0, len(claims))
	for _, c := range claims {
		if c.HasTitlePrefix() && fullNames[strings.ToLower(c.LastName())] {
			continue
		}

		key := identityKey(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

func identityKey(c domain.AffiliationClaim) string {
	ctx := strings.ToLower(c.EvidenceContext)
	if len(ctx) > contextKeyLen {
		ctx = ctx[:contextKeyLen]
	}
	return strings.ToLower(c.PersonName) + "\x00" + ctx
}
