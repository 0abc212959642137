package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/packbroker/supply-system/internal/core/domain"
	"github.com/packbroker/supply-system/internal/core/ports"
)

const collectionOrders = "orders"

type OrderRepository struct {
	db       *mongo.Database
	col      *mongo.Collection
	products *ProductRepository
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		db:       db,
		col:      db.Collection(collectionOrders),
		products: NewProductRepository(db),
	}
}

// Create inserts the order with its embedded lines as a single document, so
// creation is all-or-nothing without a transaction.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, "orders")
	if err != nil {
		return nil, err
	}

	created := *o
	created.ID = id
	if _, err := r.col.InsertOne(ctx, created); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return &created, nil
}

// FindByID retrieves an order and resolves each line's product name and
// type from the catalog. The product attributes are a read-time projection,
// never stored on the line.
func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var o domain.Order
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	if err := r.resolveLines(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// List returns a page of orders matching filter and the total count.
// Default sort is order id descending.
func (r *OrderRepository) List(ctx context.Context, filter ports.ListOrdersFilter) ([]*domain.Order, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.CustomerID != 0 {
		query["customer_id"] = filter.CustomerID
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	sortField := "_id"
	if filter.SortBy == "created_at" {
		sortField = "created_at"
	}
	dir := -1
	if !filter.SortDesc {
		dir = 1
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: sortField, Value: dir}})
	if filter.Limit > 0 {
		opts = opts.SetSkip(int64((page - 1) * filter.Limit)).SetLimit(int64(filter.Limit))
	}

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Order
	for cur.Next(ctx) {
		var o domain.Order
		if err := cur.Decode(&o); err != nil {
			return nil, 0, fmt.Errorf("decode order: %w", err)
		}
		if err := r.resolveLines(ctx, &o); err != nil {
			return nil, 0, err
		}
		clone := o
		out = append(out, &clone)
	}
	return out, total, cur.Err()
}

// Delete removes the order document; embedded lines go with it.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) resolveLines(ctx context.Context, o *domain.Order) error {
	if len(o.Items) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(o.Items))
	for _, l := range o.Items {
		ids = append(ids, l.ProductID)
	}
	catalog, err := r.products.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}

	for i := range o.Items {
		o.Items[i].OrderID = o.ID
		if p, ok := catalog[o.Items[i].ProductID]; ok {
			o.Items[i].ProductName = p.Name
			o.Items[i].ProductType = p.Type
		}
	}
	return nil
}
