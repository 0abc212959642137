package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/packbroker/supply-system/internal/api/metrics"
	"github.com/packbroker/supply-system/internal/core/domain"
	"github.com/packbroker/supply-system/internal/core/policy"
	"github.com/packbroker/supply-system/internal/core/ports"
	"github.com/packbroker/supply-system/internal/core/view"
)

// ActivityRecorder accepts interest audit records for asynchronous
// persistence (the queue dispatcher).
type ActivityRecorder interface {
	Enqueue(a domain.InterestActivity)
}

type InterestService struct {
	interests ports.InterestRepository
	orders    ports.OrderRepository
	users     ports.UserRepository
	recorder  ActivityRecorder
	logger    zerolog.Logger
}

func NewInterestService(
	interests ports.InterestRepository,
	orders ports.OrderRepository,
	users ports.UserRepository,
	recorder ActivityRecorder,
	logger zerolog.Logger,
) *InterestService {
	return &InterestService{
		interests: interests,
		orders:    orders,
		users:     users,
		recorder:  recorder,
		logger:    logger,
	}
}

// UpsertInterest records or updates a supplier's stance on an order. At most
// one row exists per (supplier, order) pair: an existing row is updated in
// place with a fresh updated_at and an untouched created_at. A duplicate-key
// violation from a concurrent first insert is retried as an update.
func (s *InterestService) UpsertInterest(ctx context.Context, input ports.UpsertInterestInput) (*ports.UpsertInterestResult, error) {
	if _, err := s.orders.FindByID(ctx, input.OrderID); err != nil {
		return nil, fmt.Errorf("order with ID %d: %w", input.OrderID, err)
	}

	supplier, err := s.users.FindByID(ctx, input.SupplierID)
	if err != nil || supplier.Role != domain.RoleSupplier {
		return nil, fmt.Errorf("supplier with ID %d: %w", input.SupplierID, domain.ErrSupplierNotFound)
	}

	existing, err := s.interests.FindByPair(ctx, input.SupplierID, input.OrderID)
	switch {
	case err == nil && existing != nil:
		return s.update(ctx, input)
	case errors.Is(err, domain.ErrInterestNotFound):
		return s.insert(ctx, input)
	default:
		return nil, err
	}
}

func (s *InterestService) insert(ctx context.Context, input ports.UpsertInterestInput) (*ports.UpsertInterestResult, error) {
	now := time.Now().UTC()
	row := &domain.SupplierInterest{
		SupplierID:   input.SupplierID,
		OrderID:      input.OrderID,
		IsInterested: input.IsInterested,
		Notes:        input.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.interests.Insert(ctx, row)
	if errors.Is(err, domain.ErrInterestExists) {
		// Lost the race against a concurrent first insert: the row now
		// exists, so this call becomes an update.
		return s.update(ctx, input)
	}
	if err != nil {
		return nil, err
	}

	s.record(*created, true)
	metrics.InterestUpsertsTotal.WithLabelValues("created").Inc()
	s.logger.Info().Int64("supplier_id", input.SupplierID).Int64("order_id", input.OrderID).Bool("interested", input.IsInterested).Msg("interest recorded")
	return &ports.UpsertInterestResult{Interest: *created, Created: true}, nil
}

func (s *InterestService) update(ctx context.Context, input ports.UpsertInterestInput) (*ports.UpsertInterestResult, error) {
	updated, err := s.interests.Update(ctx, input.SupplierID, input.OrderID, input.IsInterested, input.Notes)
	if err != nil {
		return nil, err
	}

	s.record(*updated, false)
	metrics.InterestUpsertsTotal.WithLabelValues("updated").Inc()
	s.logger.Info().Int64("supplier_id", input.SupplierID).Int64("order_id", input.OrderID).Bool("interested", input.IsInterested).Msg("interest updated")
	return &ports.UpsertInterestResult{Interest: *updated, Created: false}, nil
}

func (s *InterestService) record(row domain.SupplierInterest, created bool) {
	if s.recorder == nil {
		return
	}
	s.recorder.Enqueue(domain.InterestActivity{
		OrderID:      row.OrderID,
		SupplierID:   row.SupplierID,
		IsInterested: row.IsInterested,
		Created:      created,
		At:           row.UpdatedAt,
	})
}

// ListByOrder returns the interest rows for an order. Admins see full
// supplier identity; the order's owning customer sees prefix-masked names.
// Everyone else is denied.
func (s *InterestService) ListByOrder(ctx context.Context, viewer policy.Principal, orderID int64) ([]view.InterestView, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order with ID %d: %w", orderID, err)
	}

	var mask view.MaskStrategy
	switch {
	case viewer.Role == domain.RoleAdmin:
		mask = nil
	case viewer.Role == domain.RoleCustomer && order.CustomerID == viewer.ID:
		mask = view.MaskPrefix
	default:
		return nil, domain.ErrForbidden
	}

	rows, err := s.interests.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	out := make([]view.InterestView, 0, len(rows))
	for _, row := range rows {
		name := row.SupplierName
		if mask != nil {
			name = mask.Mask(name)
		}
		out = append(out, view.InterestView{
			SupplierID:   row.SupplierID,
			SupplierName: name,
			IsInterested: row.IsInterested,
			Notes:        row.Notes,
			CreatedAt:    row.CreatedAt,
			UpdatedAt:    row.UpdatedAt,
		})
	}
	return out, nil
}

// ListBySupplier returns one supplier's own rows, newest first. The route
// guard restricts callers to admins and the supplier themselves.
func (s *InterestService) ListBySupplier(ctx context.Context, supplierID int64) ([]domain.SupplierInterest, error) {
	supplier, err := s.users.FindByID(ctx, supplierID)
	if err != nil || supplier.Role != domain.RoleSupplier {
		return nil, fmt.Errorf("supplier with ID %d: %w", supplierID, domain.ErrSupplierNotFound)
	}
	return s.interests.FindBySupplier(ctx, supplierID)
}
