package ports

import (
	"context"

	"github.com/packbroker/supply-system/internal/core/domain"
)

// InterestRepository defines persistence operations for supplier interests.
// The store enforces a unique index on (supplier_id, order_id); Insert must
// surface a duplicate-key violation as domain.ErrInterestExists so the
// service can retry as an update.
type InterestRepository interface {
	Insert(ctx context.Context, i *domain.SupplierInterest) (*domain.SupplierInterest, error)
	Update(ctx context.Context, supplierID, orderID int64, isInterested bool, notes *string) (*domain.SupplierInterest, error)
	FindByPair(ctx context.Context, supplierID, orderID int64) (*domain.SupplierInterest, error)
	// FindByOrder returns all interest rows for an order, supplier names
	// resolved at read time.
	FindByOrder(ctx context.Context, orderID int64) ([]domain.SupplierInterest, error)
	// FindBySupplier returns one supplier's interest rows, newest first.
	FindBySupplier(ctx context.Context, supplierID int64) ([]domain.SupplierInterest, error)
}

// ActivityRepository persists the append-only interest audit trail.
type ActivityRepository interface {
	Insert(ctx context.Context, a *domain.InterestActivity) error
}
