package ports

import (
	"context"

	"github.com/packbroker/supply-system/internal/core/domain"
	"github.com/packbroker/supply-system/internal/core/policy"
	"github.com/packbroker/supply-system/internal/core/view"
)

// UpsertInterestInput carries a supplier's stance on an order.
type UpsertInterestInput struct {
	SupplierID   int64
	OrderID      int64
	IsInterested bool
	Notes        *string
}

// UpsertInterestResult reports the stored row and whether it was newly created.
type UpsertInterestResult struct {
	Interest domain.SupplierInterest
	Created  bool
}

// InterestService defines use-case operations for supplier interests.
type InterestService interface {
	// UpsertInterest records or updates a supplier's stance, enforcing at
	// most one row per (supplier, order) pair.
	UpsertInterest(ctx context.Context, input UpsertInterestInput) (*UpsertInterestResult, error)
	// ListByOrder returns an order's interest rows: unmasked for admins,
	// prefix-masked for the order's owning customer.
	ListByOrder(ctx context.Context, viewer policy.Principal, orderID int64) ([]view.InterestView, error)
	// ListBySupplier returns one supplier's own interest rows.
	ListBySupplier(ctx context.Context, supplierID int64) ([]domain.SupplierInterest, error)
}
