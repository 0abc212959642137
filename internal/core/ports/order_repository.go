package ports

import (
	"context"

	"github.com/packbroker/supply-system/internal/core/domain"
)

// ListOrdersFilter carries query parameters for listing orders. Pagination
// and sorting happen in the repository, before any view composition.
type ListOrdersFilter struct {
	CustomerID int64  // 0 = no customer scoping (admin/supplier)
	SortBy     string // "id" or "created_at"; defaults to "id"
	SortDesc   bool   // default sort is id descending
	Page       int    // 1-based
	Limit      int    // capped at 100 by the service
}

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	// FindByID returns the order with its lines enriched with product name
	// and type resolved from the catalog at read time.
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	// List returns a page of orders matching filter and the total count.
	List(ctx context.Context, filter ListOrdersFilter) ([]*domain.Order, int64, error)
	Delete(ctx context.Context, id int64) error
}
