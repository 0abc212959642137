package domain

import (
	"errors"
	"time"
)

var ErrInterestNotFound = errors.New("supplier interest not found")
var ErrInterestExists = errors.New("supplier interest already exists")

// SupplierInterest records one supplier's stance on one order. At most one
// row exists per (SupplierID, OrderID) pair; a repeated expression updates
// the existing row in place.
//
// SupplierName is resolved from the user store at read time and never
// persisted with the interest.
type SupplierInterest struct {
	ID           int64     `json:"id" bson:"_id"`
	SupplierID   int64     `json:"supplier_id" bson:"supplier_id"`
	OrderID      int64     `json:"order_id" bson:"order_id"`
	IsInterested bool      `json:"is_interested" bson:"is_interested"`
	Notes        *string   `json:"notes" bson:"notes,omitempty"`
	SupplierName string    `json:"-" bson:"-"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// InterestActivity is an append-only audit record of an interest toggle,
// written asynchronously after a successful upsert.
type InterestActivity struct {
	OrderID      int64     `bson:"order_id"`
	SupplierID   int64     `bson:"supplier_id"`
	IsInterested bool      `bson:"is_interested"`
	Created      bool      `bson:"created"`
	At           time.Time `bson:"at"`
}
