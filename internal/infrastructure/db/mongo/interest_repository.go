package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/packbroker/supply-system/internal/core/domain"
)

const (
	collectionInterests = "supplier_interests"
	collectionActivity  = "interest_activity"
)

type InterestRepository struct {
	db    *mongo.Database
	col   *mongo.Collection
	users *UserRepository
}

func NewInterestRepository(db *mongo.Database) *InterestRepository {
	return &InterestRepository{
		db:    db,
		col:   db.Collection(collectionInterests),
		users: NewUserRepository(db),
	}
}

// Insert creates a new interest row. A concurrent insert for the same
// (supplier_id, order_id) pair violates the unique index and surfaces as
// domain.ErrInterestExists so the service can retry as an update.
func (r *InterestRepository) Insert(ctx context.Context, i *domain.SupplierInterest) (*domain.SupplierInterest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, "supplier_interests")
	if err != nil {
		return nil, err
	}

	created := *i
	created.ID = id
	if _, err := r.col.InsertOne(ctx, created); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrInterestExists
		}
		return nil, fmt.Errorf("insert interest: %w", err)
	}
	return &created, nil
}

// Update mutates an existing row in place, refreshing updated_at and
// leaving created_at untouched.
func (r *InterestRepository) Update(ctx context.Context, supplierID, orderID int64, isInterested bool, notes *string) (*domain.SupplierInterest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var updated domain.SupplierInterest
	err := r.col.FindOneAndUpdate(
		ctx,
		bson.M{"supplier_id": supplierID, "order_id": orderID},
		bson.M{"$set": bson.M{
			"is_interested": isInterested,
			"notes":         notes,
			"updated_at":    time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInterestNotFound
		}
		return nil, fmt.Errorf("update interest: %w", err)
	}
	return &updated, nil
}

func (r *InterestRepository) FindByPair(ctx context.Context, supplierID, orderID int64) (*domain.SupplierInterest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var i domain.SupplierInterest
	err := r.col.FindOne(ctx, bson.M{"supplier_id": supplierID, "order_id": orderID}).Decode(&i)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInterestNotFound
		}
		return nil, fmt.Errorf("find interest: %w", err)
	}
	return &i, nil
}

// FindByOrder returns all interest rows for an order with supplier display
// names resolved from the user store at read time.
func (r *InterestRepository) FindByOrder(ctx context.Context, orderID int64) ([]domain.SupplierInterest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"order_id": orderID}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find interests: %w", err)
	}
	defer cur.Close(ctx)

	rows, err := decodeInterests(ctx, cur)
	if err != nil {
		return nil, err
	}
	if err := r.resolveSupplierNames(ctx, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// FindBySupplier returns one supplier's rows, newest first.
func (r *InterestRepository) FindBySupplier(ctx context.Context, supplierID int64) ([]domain.SupplierInterest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"supplier_id": supplierID}, options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find interests: %w", err)
	}
	defer cur.Close(ctx)

	return decodeInterests(ctx, cur)
}

// EnsureIndexes creates the unique (supplier_id, order_id) index the upsert
// race resolution depends on.
func (r *InterestRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "supplier_id", Value: 1}, {Key: "order_id", Value: 1}},
			Options: uniqueIndex(),
		},
		{Keys: bson.D{{Key: "order_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func decodeInterests(ctx context.Context, cur *mongo.Cursor) ([]domain.SupplierInterest, error) {
	var out []domain.SupplierInterest
	for cur.Next(ctx) {
		var i domain.SupplierInterest
		if err := cur.Decode(&i); err != nil {
			return nil, fmt.Errorf("decode interest: %w", err)
		}
		out = append(out, i)
	}
	return out, cur.Err()
}

func (r *InterestRepository) resolveSupplierNames(ctx context.Context, rows []domain.SupplierInterest) error {
	for idx := range rows {
		supplier, err := r.users.FindByID(ctx, rows[idx].SupplierID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				continue
			}
			return err
		}
		rows[idx].SupplierName = supplier.FullName
	}
	return nil
}

// ActivityRepository persists the append-only interest audit trail.
type ActivityRepository struct {
	col *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{col: db.Collection(collectionActivity)}
}

func (r *ActivityRepository) Insert(ctx context.Context, a *domain.InterestActivity) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}
