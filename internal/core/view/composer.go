// Package view composes role-scoped projections of an order and its
// supplier interests. Every function here is pure: data arrives fully
// resolved from the repository layer and nothing is fetched or mutated.
package view

import (
	"time"

	"github.com/packbroker/supply-system/internal/core/domain"
)

// OrderLineView is a line with its product attributes resolved at read time.
type OrderLineView struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	ProductType string `json:"product_type"`
	Quantity    int    `json:"quantity"`
}

// InterestView is one supplier's interest row as shown to admins and, with a
// masked name, to the order's owning customer. The supplier id is always
// retained as a stable list key.
type InterestView struct {
	SupplierID   int64     `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
	IsInterested bool      `json:"is_interested"`
	Notes        *string   `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// OwnInterestView is the togglable interest affordance shown to a supplier.
type OwnInterestView struct {
	IsInterested bool    `json:"is_interested"`
	Notes        *string `json:"notes"`
}

// OrderView is the aggregate projection returned for a single order. The
// Interests list is populated for admins (full identity) and the owning
// customer (masked identity); suppliers instead see only OwnInterest.
type OrderView struct {
	ID                       int64           `json:"id"`
	CustomerID               int64           `json:"customer_id"`
	CreatedAt                time.Time       `json:"created_at"`
	Items                    []OrderLineView `json:"items"`
	Interests                []InterestView  `json:"supplier_interests,omitempty"`
	OwnInterest              *OwnInterestView `json:"own_interest,omitempty"`
	InterestedSuppliersCount int             `json:"interested_suppliers_count"`
	TotalSuppliersCount      int             `json:"total_suppliers_count"`
}

// Counts returns the role-independent aggregate interest counts: total rows
// and rows flagged interested. Uniqueness per supplier is enforced at the
// data layer, so no further deduplication happens here.
func Counts(interests []domain.SupplierInterest) (interested, total int) {
	for _, i := range interests {
		if i.IsInterested {
			interested++
		}
	}
	return interested, len(interests)
}

// ForAdmin produces the full-identity projection.
func ForAdmin(order domain.Order, interests []domain.SupplierInterest) OrderView {
	v := baseView(order, interests)
	v.Interests = projectInterests(interests, nil)
	return v
}

// ForCustomer produces the identity-masked projection for the order's
// owning customer. Supplier ids survive; display names pass through the
// edge-preserving mask. Notes and timestamps are unmodified.
func ForCustomer(order domain.Order, interests []domain.SupplierInterest) OrderView {
	v := baseView(order, interests)
	v.Interests = projectInterests(interests, MaskEdgePreserving)
	return v
}

// ForSupplier produces the supplier-facing projection: the order and its
// lines, plus only the viewer's own interest (nil when none recorded).
// Other suppliers' rows are never exposed.
func ForSupplier(order domain.Order, interests []domain.SupplierInterest, supplierID int64) OrderView {
	v := baseView(order, interests)
	for _, i := range interests {
		if i.SupplierID == supplierID {
			v.OwnInterest = &OwnInterestView{IsInterested: i.IsInterested, Notes: i.Notes}
			break
		}
	}
	return v
}

func baseView(order domain.Order, interests []domain.SupplierInterest) OrderView {
	interested, total := Counts(interests)
	items := make([]OrderLineView, 0, len(order.Items))
	for _, l := range order.Items {
		items = append(items, OrderLineView{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			ProductType: l.ProductType,
			Quantity:    l.Quantity,
		})
	}
	return OrderView{
		ID:                       order.ID,
		CustomerID:               order.CustomerID,
		CreatedAt:                order.CreatedAt,
		Items:                    items,
		InterestedSuppliersCount: interested,
		TotalSuppliersCount:      total,
	}
}

func projectInterests(interests []domain.SupplierInterest, mask MaskStrategy) []InterestView {
	out := make([]InterestView, 0, len(interests))
	for _, i := range interests {
		name := i.SupplierName
		if mask != nil {
			name = mask.Mask(name)
		}
		out = append(out, InterestView{
			SupplierID:   i.SupplierID,
			SupplierName: name,
			IsInterested: i.IsInterested,
			Notes:        i.Notes,
			CreatedAt:    i.CreatedAt,
			UpdatedAt:    i.UpdatedAt,
		})
	}
	return out
}
