package policy

import (
	"errors"
	"testing"

	"github.com/packbroker/supply-system/internal/core/domain"
)

func TestAuthorize_NoPrincipal(t *testing.T) {
	err := Authorize(nil, []domain.Role{domain.RoleAdmin}, nil)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthorize_RoleBranch(t *testing.T) {
	p := &Principal{ID: 10, Role: domain.RoleAdmin}

	// Role membership wins regardless of ownership fields.
	err := Authorize(p, []domain.Role{domain.RoleAdmin}, []OwnerField{{Name: "customerId", Value: 99}})
	if err != nil {
		t.Fatalf("admin should pass role check, got %v", err)
	}
}

func TestAuthorize_OwnershipBranch(t *testing.T) {
	p := &Principal{ID: 7, Role: domain.RoleCustomer}

	cases := []struct {
		name    string
		owners  []OwnerField
		wantErr error
	}{
		{"owner allowed", []OwnerField{{Name: "id", Value: 7}}, nil},
		{"non-owner denied", []OwnerField{{Name: "id", Value: 8}}, domain.ErrForbidden},
		{"only first candidate counts", []OwnerField{{Name: "customerId", Value: 8}, {Name: "id", Value: 7}}, domain.ErrForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(p, []domain.Role{domain.RoleAdmin}, tc.owners)
			if !errors.Is(err, tc.wantErr) && !(err == nil && tc.wantErr == nil) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

// Pins the permissive tier-1 fallback: no role restriction and no ownership
// field present means the request is allowed. Current behavior, guarded by
// DefaultWhenNoOwnerField.
func TestAuthorize_DefaultAllowWithoutOwnerField(t *testing.T) {
	p := &Principal{ID: 3, Role: domain.RoleSupplier}
	if err := Authorize(p, nil, nil); err != nil {
		t.Fatalf("expected default allow, got %v", err)
	}
}

func TestAuthorize_Tier1OwnershipOnly(t *testing.T) {
	p := &Principal{ID: 3, Role: domain.RoleSupplier}

	if err := Authorize(p, nil, []OwnerField{{Name: "supplierId", Value: 3}}); err != nil {
		t.Fatalf("owner should be allowed, got %v", err)
	}
	err := Authorize(p, nil, []OwnerField{{Name: "supplierId", Value: 4}})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-owner should be forbidden, got %v", err)
	}
}
