package ports

import (
	"context"

	"github.com/packbroker/supply-system/internal/core/domain"
)

// CreateProductInput carries the data for a new catalog product.
type CreateProductInput struct {
	Name string
	Type string
}

// ProductService defines use-case operations for the product catalog.
type ProductService interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	// ListProducts returns the catalog; non-admin viewers see active
	// products only.
	ListProducts(ctx context.Context, viewerRole domain.Role) ([]*domain.Product, error)
	SetProductActive(ctx context.Context, id int64, active bool) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}
