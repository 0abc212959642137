package ports

import (
	"context"

	"github.com/packbroker/supply-system/internal/core/domain"
	"github.com/packbroker/supply-system/internal/core/policy"
	"github.com/packbroker/supply-system/internal/core/view"
)

// OrderLineInput is one requested product position.
type OrderLineInput struct {
	ProductID int64
	Quantity  int
}

// CreateOrderInput carries all data needed to create a new order.
type CreateOrderInput struct {
	CustomerID int64
	Items      []OrderLineInput
	// IdempotencyKey, when non-empty, makes repeated submissions return the
	// originally created order instead of creating a duplicate.
	IdempotencyKey string
}

// CreateOrderResult is returned by the service after creating an order.
type CreateOrderResult struct {
	Order domain.Order
	// AlreadyExisted is true when the Idempotency-Key matched a previous creation.
	AlreadyExisted bool
}

// ListOrdersInput carries all parameters for the list endpoint.
type ListOrdersInput struct {
	Viewer   policy.Principal
	SortBy   string
	SortDesc *bool // nil = default (descending by id)
	Page     int
	Limit    int
}

// ListOrdersResult is a page of role-scoped order views.
type ListOrdersResult struct {
	Items      []view.OrderView
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// OrderService defines use-case operations for orders.
type OrderService interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error)
	// GetOrder returns the role-scoped projection of one order. The shape is
	// selected server-side from the viewer's role and ownership, never by
	// the caller.
	GetOrder(ctx context.Context, viewer policy.Principal, orderID int64) (*view.OrderView, error)
	ListOrders(ctx context.Context, input ListOrdersInput) (*ListOrdersResult, error)
	DeleteOrder(ctx context.Context, viewer policy.Principal, orderID int64) error
}
