package ports

import (
	"context"

	"github.com/packbroker/supply-system/internal/core/domain"
)

// ProductRepository defines persistence operations for catalog products.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	// FindByIDs returns the products for the given ids, keyed by id. Missing
	// ids are simply absent from the map.
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Product, error)
	// List returns products, optionally restricted to active ones.
	List(ctx context.Context, activeOnly bool) ([]*domain.Product, error)
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}
