// Package policy implements the access decision for protected operations:
// a closed two-tier rule of role membership OR ownership of the referenced
// resource. It is a pure function over request-derived facts and is
// re-evaluated on every call.
package policy

import (
	"github.com/packbroker/supply-system/internal/core/domain"
)

// Principal is the authenticated caller, derived fresh per request from a
// verified bearer token.
type Principal struct {
	ID    int64
	Role  domain.Role
	Email string
}

// OwnerField is one request-supplied ownership candidate (e.g. a customerId
// body field or an id path parameter) that has already been resolved to a
// numeric value.
type OwnerField struct {
	Name  string
	Value int64
}

// Decision is the outcome applied when no explicit rule matches.
type Decision int

const (
	Deny Decision = iota
	Allow
)

// DefaultWhenNoOwnerField governs tier-1 requests (no role restriction)
// where the request carries no ownership field at all. The current behavior
// is permissive; it is kept behind this constant so it can be revisited
// without silently changing semantics.
const DefaultWhenNoOwnerField = Allow

// Authorize decides whether p may proceed with an operation guarded by
// requiredRoles and the given ownership candidates. owners must already be
// filtered to present values, in priority order; only the first candidate
// participates in the decision.
//
// Returns nil on allow, domain.ErrUnauthenticated when no principal is
// present, and domain.ErrForbidden on a policy denial.
func Authorize(p *Principal, requiredRoles []domain.Role, owners []OwnerField) error {
	if p == nil {
		return domain.ErrUnauthenticated
	}

	isOwner := len(owners) > 0 && owners[0].Value == p.ID

	if len(requiredRoles) == 0 {
		if len(owners) == 0 {
			if DefaultWhenNoOwnerField == Allow {
				return nil
			}
			return domain.ErrForbidden
		}
		if isOwner {
			return nil
		}
		return domain.ErrForbidden
	}

	for _, r := range requiredRoles {
		if p.Role == r {
			return nil
		}
	}
	if isOwner {
		return nil
	}
	return domain.ErrForbidden
}
