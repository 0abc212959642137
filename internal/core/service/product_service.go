package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/packbroker/supply-system/internal/api/metrics"
	"github.com/packbroker/supply-system/internal/core/domain"
	"github.com/packbroker/supply-system/internal/core/ports"
)

type ProductService struct {
	repo   ports.ProductRepository
	logger zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger}
}

// CreateProduct adds a product to the catalog. Names are unique; a duplicate
// surfaces as domain.ErrProductExists.
func (s *ProductService) CreateProduct(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	product := &domain.Product{
		Name:     input.Name,
		Type:     input.Type,
		IsActive: true,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, err
	}

	metrics.ProductsCreatedTotal.WithLabelValues(created.Type).Inc()
	s.logger.Info().Int64("product_id", created.ID).Str("name", created.Name).Msg("product created")
	return created, nil
}

// ListProducts returns the catalog. Admins see everything; customers and
// suppliers see only active products.
func (s *ProductService) ListProducts(ctx context.Context, viewerRole domain.Role) ([]*domain.Product, error) {
	return s.repo.List(ctx, viewerRole != domain.RoleAdmin)
}

func (s *ProductService) SetProductActive(ctx context.Context, id int64, active bool) (*domain.Product, error) {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, fmt.Errorf("product with ID %d: %w", id, err)
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product with ID %d: %w", id, err)
	}

	s.logger.Info().Int64("product_id", id).Bool("active", active).Msg("product activation toggled")
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("product with ID %d: %w", id, err)
	}
	s.logger.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}
