package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/packbroker/supply-system/internal/core/domain"
	"github.com/packbroker/supply-system/internal/core/policy"
	"github.com/packbroker/supply-system/internal/core/ports"
)

type interestFixture struct {
	users     *stubUserRepo
	orders    *stubOrderRepo
	interests *stubInterestRepo
	recorder  *stubRecorder
	svc       *InterestService
}

func newInterestFixture() *interestFixture {
	f := &interestFixture{
		users:     newStubUserRepo(),
		orders:    newStubOrderRepo(),
		interests: newStubInterestRepo(),
		recorder:  &stubRecorder{},
	}
	f.svc = NewInterestService(f.interests, f.orders, f.users, f.recorder, discardLogger)
	return f
}

func strPtr(s string) *string { return &s }

func TestInterestService_Upsert_CreatesThenUpdates(t *testing.T) {
	f := newInterestFixture()
	customer := f.users.add("Cathy", "cathy@example.com", domain.RoleCustomer)
	supplier := f.users.add("Ali Veli", "ali@example.com", domain.RoleSupplier)
	order := f.orders.add(customer.ID)

	first, err := f.svc.UpsertInterest(context.Background(), ports.UpsertInterestInput{
		SupplierID: supplier.ID, OrderID: order.ID, IsInterested: true, Notes: strPtr("can do friday"),
	})
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if !first.Created {
		t.Fatalf("first call must create")
	}
	if !first.Interest.CreatedAt.Equal(first.Interest.UpdatedAt) {
		t.Fatalf("created_at must equal updated_at on first insert")
	}

	second, err := f.svc.UpsertInterest(context.Background(), ports.UpsertInterestInput{
		SupplierID: supplier.ID, OrderID: order.ID, IsInterested: false,
	})
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if second.Created {
		t.Fatalf("second call must update, not create")
	}
	if len(f.interests.rows) != 1 {
		t.Fatalf("exactly one row per pair, got %d", len(f.interests.rows))
	}

	stored := f.interests.rows[pairKey{supplier.ID, order.ID}]
	if stored.IsInterested {
		t.Fatalf("stored stance must reflect the most recent call")
	}
	if !stored.CreatedAt.Equal(first.Interest.CreatedAt) {
		t.Fatalf("created_at must be unchanged across updates")
	}
	if len(f.recorder.records) != 2 {
		t.Fatalf("expected 2 activity records, got %d", len(f.recorder.records))
	}
}

// A concurrent first insert losing the race sees a duplicate-key error and
// must fall back to an update instead of failing.
func TestInterestService_Upsert_DuplicateKeyRetriesAsUpdate(t *testing.T) {
	f := newInterestFixture()
	customer := f.users.add("Cathy", "cathy@example.com", domain.RoleCustomer)
	supplier := f.users.add("Ali Veli", "ali@example.com", domain.RoleSupplier)
	order := f.orders.add(customer.ID)

	// The competing writer's row lands between this call's FindByPair miss
	// and its Insert attempt.
	now := time.Now().UTC()
	f.interests.raceRow = &domain.SupplierInterest{
		ID: 1, SupplierID: supplier.ID, OrderID: order.ID, IsInterested: false, CreatedAt: now, UpdatedAt: now,
	}

	result, err := f.svc.UpsertInterest(context.Background(), ports.UpsertInterestInput{
		SupplierID: supplier.ID, OrderID: order.ID, IsInterested: true,
	})
	if err != nil {
		t.Fatalf("update fallback failed: %v", err)
	}
	if result.Created {
		t.Fatalf("race loser must report an update")
	}
	if !f.interests.rows[pairKey{supplier.ID, order.ID}].IsInterested {
		t.Fatalf("update did not land")
	}
}

func TestInterestService_Upsert_Preconditions(t *testing.T) {
	f := newInterestFixture()
	customer := f.users.add("Cathy", "cathy@example.com", domain.RoleCustomer)
	order := f.orders.add(customer.ID)

	// Order missing.
	_, err := f.svc.UpsertInterest(context.Background(), ports.UpsertInterestInput{SupplierID: 1, OrderID: 999, IsInterested: true})
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}

	// Supplier missing.
	_, err = f.svc.UpsertInterest(context.Background(), ports.UpsertInterestInput{SupplierID: 999, OrderID: order.ID, IsInterested: true})
	if !errors.Is(err, domain.ErrSupplierNotFound) {
		t.Fatalf("expected ErrSupplierNotFound, got %v", err)
	}

	// Existing user without the supplier role.
	_, err = f.svc.UpsertInterest(context.Background(), ports.UpsertInterestInput{SupplierID: customer.ID, OrderID: order.ID, IsInterested: true})
	if !errors.Is(err, domain.ErrSupplierNotFound) {
		t.Fatalf("expected ErrSupplierNotFound for non-supplier, got %v", err)
	}
}

func TestInterestService_ListByOrder_MasksForCustomer(t *testing.T) {
	f := newInterestFixture()
	customer := f.users.add("Cathy", "cathy@example.com", domain.RoleCustomer)
	supplier := f.users.add("Ahmet Yılmaz", "ahmet@example.com", domain.RoleSupplier)
	order := f.orders.add(customer.ID)

	f.interests.rows[pairKey{supplier.ID, order.ID}] = &domain.SupplierInterest{
		ID: 1, SupplierID: supplier.ID, OrderID: order.ID, SupplierName: "Ahmet Yılmaz", IsInterested: true,
	}

	adminRows, err := f.svc.ListByOrder(context.Background(), policy.Principal{ID: 1000, Role: domain.RoleAdmin}, order.ID)
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if adminRows[0].SupplierName != "Ahmet Yılmaz" {
		t.Fatalf("admin must see the unmasked name, got %q", adminRows[0].SupplierName)
	}

	customerRows, err := f.svc.ListByOrder(context.Background(), policy.Principal{ID: customer.ID, Role: domain.RoleCustomer}, order.ID)
	if err != nil {
		t.Fatalf("customer list failed: %v", err)
	}
	if customerRows[0].SupplierName != "Ah*** Yı***" {
		t.Fatalf("expected prefix-masked name, got %q", customerRows[0].SupplierName)
	}

	_, err = f.svc.ListByOrder(context.Background(), policy.Principal{ID: 555, Role: domain.RoleCustomer}, order.ID)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("foreign customer must be denied, got %v", err)
	}
}

func TestInterestService_ListBySupplier(t *testing.T) {
	f := newInterestFixture()
	customer := f.users.add("Cathy", "cathy@example.com", domain.RoleCustomer)
	supplier := f.users.add("Ali Veli", "ali@example.com", domain.RoleSupplier)
	o1 := f.orders.add(customer.ID)
	o2 := f.orders.add(customer.ID)

	f.interests.rows[pairKey{supplier.ID, o1.ID}] = &domain.SupplierInterest{ID: 1, SupplierID: supplier.ID, OrderID: o1.ID, IsInterested: true}
	f.interests.rows[pairKey{supplier.ID, o2.ID}] = &domain.SupplierInterest{ID: 2, SupplierID: supplier.ID, OrderID: o2.ID, IsInterested: false}

	rows, err := f.svc.ListBySupplier(context.Background(), supplier.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	if _, err := f.svc.ListBySupplier(context.Background(), customer.ID); !errors.Is(err, domain.ErrSupplierNotFound) {
		t.Fatalf("non-supplier id must be ErrSupplierNotFound, got %v", err)
	}
}
