package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/packbroker/supply-system/internal/api/metrics"
	"github.com/packbroker/supply-system/internal/core/domain"
	"github.com/packbroker/supply-system/internal/core/policy"
	"github.com/packbroker/supply-system/internal/core/ports"
	"github.com/packbroker/supply-system/internal/core/view"
)

const maxPageLimit = 100

// IdempotencyStore abstracts the order-creation replay store (Redis).
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) (int64, bool, error)
	Remember(ctx context.Context, key string, orderID int64) error
}

type OrderService struct {
	orders    ports.OrderRepository
	products  ports.ProductRepository
	users     ports.UserRepository
	interests ports.InterestRepository
	idem      IdempotencyStore
	logger    zerolog.Logger
}

func NewOrderService(
	orders ports.OrderRepository,
	products ports.ProductRepository,
	users ports.UserRepository,
	interests ports.InterestRepository,
	idem IdempotencyStore,
	logger zerolog.Logger,
) *OrderService {
	return &OrderService{
		orders:    orders,
		products:  products,
		users:     users,
		interests: interests,
		idem:      idem,
		logger:    logger,
	}
}

// CreateOrder validates the customer and every referenced product before
// anything is written, so a failed request persists no order or line rows.
// If an idempotency key is provided and already seen, the previously created
// order is returned without side effects.
func (s *OrderService) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*ports.CreateOrderResult, error) {
	if s.idem != nil && input.IdempotencyKey != "" {
		if orderID, ok, err := s.idem.Lookup(ctx, input.IdempotencyKey); err == nil && ok {
			existing, err := s.orders.FindByID(ctx, orderID)
			if err == nil {
				s.logger.Info().Str("idempotency_key", input.IdempotencyKey).Int64("order_id", orderID).Msg("idempotent replay")
				return &ports.CreateOrderResult{Order: *existing, AlreadyExisted: true}, nil
			}
		}
	}

	customer, err := s.users.FindByID(ctx, input.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("customer with ID %d: %w", input.CustomerID, err)
	}
	if customer.Role != domain.RoleCustomer {
		return nil, fmt.Errorf("customer with ID %d: %w", input.CustomerID, domain.ErrUserNotFound)
	}

	ids := make([]int64, 0, len(input.Items))
	for _, item := range input.Items {
		ids = append(ids, item.ProductID)
	}
	catalog, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, item := range input.Items {
		p, ok := catalog[item.ProductID]
		// Inactive products cannot be referenced by new orders and are
		// indistinguishable from missing ones to the caller.
		if !ok || !p.IsActive {
			return nil, fmt.Errorf("product with ID %d: %w", item.ProductID, domain.ErrProductNotFound)
		}
	}

	order := &domain.Order{
		CustomerID: input.CustomerID,
		CreatedAt:  time.Now().UTC(),
		Items:      make([]domain.OrderLine, 0, len(input.Items)),
	}
	for i, item := range input.Items {
		order.Items = append(order.Items, domain.OrderLine{
			ID:        int64(i + 1),
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create order")
		return nil, err
	}

	if s.idem != nil && input.IdempotencyKey != "" {
		if err := s.idem.Remember(ctx, input.IdempotencyKey, created.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("failed to store idempotency key")
		}
	}

	metrics.OrdersCreatedTotal.Inc()
	s.logger.Info().Int64("order_id", created.ID).Int64("customer_id", created.CustomerID).Int("lines", len(created.Items)).Msg("order created")

	return &ports.CreateOrderResult{Order: *created}, nil
}

// GetOrder fetches an order with its interest rows and composes the
// projection the viewer is entitled to: full detail for admins, masked
// detail for the owning customer, own-interest detail for suppliers.
func (s *OrderService) GetOrder(ctx context.Context, viewer policy.Principal, orderID int64) (*view.OrderView, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order with ID %d: %w", orderID, err)
	}

	interests, err := s.interests.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	composed, err := s.compose(*order, interests, viewer)
	if err != nil {
		return nil, err
	}
	return &composed, nil
}

// ListOrders returns a page of role-scoped views: admins and suppliers see
// every order, customers only their own. Default sort is order id descending.
func (s *OrderService) ListOrders(ctx context.Context, input ports.ListOrdersInput) (*ports.ListOrdersResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	filter := ports.ListOrdersFilter{
		SortBy:   input.SortBy,
		SortDesc: true,
		Page:     page,
		Limit:    limit,
	}
	if input.SortDesc != nil {
		filter.SortDesc = *input.SortDesc
	}
	if input.Viewer.Role == domain.RoleCustomer {
		filter.CustomerID = input.Viewer.ID
	}

	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]view.OrderView, 0, len(orders))
	for _, order := range orders {
		interests, err := s.interests.FindByOrder(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		composed, err := s.compose(*order, interests, input.Viewer)
		if err != nil {
			return nil, err
		}
		items = append(items, composed)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListOrdersResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// DeleteOrder removes an order and its lines. Allowed for admins and the
// order's owning customer.
func (s *OrderService) DeleteOrder(ctx context.Context, viewer policy.Principal, orderID int64) error {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("order with ID %d: %w", orderID, err)
	}

	if viewer.Role != domain.RoleAdmin && order.CustomerID != viewer.ID {
		return domain.ErrForbidden
	}

	if err := s.orders.Delete(ctx, orderID); err != nil {
		return fmt.Errorf("order with ID %d: %w", orderID, err)
	}

	s.logger.Info().Int64("order_id", orderID).Int64("deleted_by", viewer.ID).Msg("order deleted")
	return nil
}

func (s *OrderService) compose(order domain.Order, interests []domain.SupplierInterest, viewer policy.Principal) (view.OrderView, error) {
	switch viewer.Role {
	case domain.RoleAdmin:
		return view.ForAdmin(order, interests), nil
	case domain.RoleSupplier:
		return view.ForSupplier(order, interests, viewer.ID), nil
	case domain.RoleCustomer:
		if order.CustomerID != viewer.ID {
			return view.OrderView{}, domain.ErrForbidden
		}
		return view.ForCustomer(order, interests), nil
	default:
		return view.OrderView{}, domain.ErrForbidden
	}
}
