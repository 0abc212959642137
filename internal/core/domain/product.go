package domain

import "errors"

var ErrProductNotFound = errors.New("product not found")
var ErrProductExists = errors.New("product already exists")

// Product is a catalog entry a customer can order packaging supplies from.
// Inactive products stay in the catalog for admins but are hidden from
// customers and cannot be referenced by new orders.
type Product struct {
	ID       int64  `json:"id" bson:"_id"`
	Name     string `json:"name" bson:"name"`
	Type     string `json:"type" bson:"type"`
	IsActive bool   `json:"is_active" bson:"is_active"`
}
