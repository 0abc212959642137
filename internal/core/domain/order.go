package domain

import (
	"errors"
	"time"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderLine is a single product position on an order. ProductName and
// ProductType are resolved from the catalog at read time and never stored
// on the line itself.
type OrderLine struct {
	ID          int64  `json:"id" bson:"id"`
	OrderID     int64  `json:"order_id" bson:"-"`
	ProductID   int64  `json:"product_id" bson:"product_id"`
	ProductName string `json:"product_name" bson:"-"`
	ProductType string `json:"product_type" bson:"-"`
	Quantity    int    `json:"quantity" bson:"quantity"`
}

// Order is a customer's packaging-supply request. Lines are immutable once
// the order is created; full deletion is the only destructive operation.
type Order struct {
	ID         int64       `json:"id" bson:"_id"`
	CustomerID int64       `json:"customer_id" bson:"customer_id"`
	Items      []OrderLine `json:"items" bson:"items"`
	CreatedAt  time.Time   `json:"created_at" bson:"created_at"`
}
