package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/packbroker/supply-system/internal/core/domain"
	"github.com/packbroker/supply-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories shared by the service tests
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type stubUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func (r *stubUserRepo) add(fullName, email string, role domain.Role) *domain.User {
	u := &domain.User{ID: r.nextID, FullName: fullName, Email: email, Role: role}
	r.users[u.ID] = u
	r.nextID++
	return u
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneUser(user)
	copy.ID = r.nextID
	r.nextID++
	r.users[copy.ID] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type stubProductRepo struct {
	products map[int64]*domain.Product
	nextID   int64
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[int64]*domain.Product), nextID: 1}
}

func (r *stubProductRepo) add(name, typ string, active bool) *domain.Product {
	p := &domain.Product{ID: r.nextID, Name: name, Type: typ, IsActive: active}
	r.products[p.ID] = p
	r.nextID++
	return p
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	for _, existing := range r.products {
		if existing.Name == p.Name {
			return nil, domain.ErrProductExists
		}
	}
	clone := *p
	clone.ID = r.nextID
	r.nextID++
	r.products[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) FindByIDs(_ context.Context, ids []int64) (map[int64]*domain.Product, error) {
	out := make(map[int64]*domain.Product)
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			clone := *p
			out[id] = &clone
		}
	}
	return out, nil
}

func (r *stubProductRepo) List(_ context.Context, activeOnly bool) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if activeOnly && !p.IsActive {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubProductRepo) SetActive(_ context.Context, id int64, active bool) error {
	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.IsActive = active
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

type stubOrderRepo struct {
	orders map[int64]*domain.Order
	nextID int64
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[int64]*domain.Order), nextID: 1}
}

func (r *stubOrderRepo) add(customerID int64, items ...domain.OrderLine) *domain.Order {
	o := &domain.Order{ID: r.nextID, CustomerID: customerID, Items: items, CreatedAt: time.Now().UTC()}
	r.orders[o.ID] = o
	r.nextID++
	return o
}

func cloneOrder(o *domain.Order) *domain.Order {
	clone := *o
	clone.Items = append([]domain.OrderLine(nil), o.Items...)
	return &clone
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) (*domain.Order, error) {
	clone := cloneOrder(o)
	clone.ID = r.nextID
	r.nextID++
	r.orders[clone.ID] = cloneOrder(clone)
	return cloneOrder(clone), nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id int64) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *stubOrderRepo) List(_ context.Context, filter ports.ListOrdersFilter) ([]*domain.Order, int64, error) {
	var matched []*domain.Order
	for _, o := range r.orders {
		if filter.CustomerID != 0 && o.CustomerID != filter.CustomerID {
			continue
		}
		matched = append(matched, cloneOrder(o))
	}

	sort.Slice(matched, func(i, j int) bool {
		if filter.SortDesc {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].ID < matched[j].ID
	})

	total := int64(len(matched))
	limit := filter.Limit
	if limit <= 0 {
		limit = len(matched)
	}
	skip := (filter.Page - 1) * limit
	if skip < 0 {
		skip = 0
	}
	if skip > len(matched) {
		return nil, total, nil
	}
	end := skip + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubOrderRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.orders, id)
	return nil
}

type pairKey struct{ supplierID, orderID int64 }

type stubInterestRepo struct {
	rows   map[pairKey]*domain.SupplierInterest
	nextID int64
	// raceRow, when set, is materialised by a simulated concurrent writer
	// just before the next Insert, which then fails with a duplicate key.
	raceRow *domain.SupplierInterest
}

func newStubInterestRepo() *stubInterestRepo {
	return &stubInterestRepo{rows: make(map[pairKey]*domain.SupplierInterest), nextID: 1}
}

func (r *stubInterestRepo) Insert(_ context.Context, i *domain.SupplierInterest) (*domain.SupplierInterest, error) {
	if r.raceRow != nil {
		r.rows[pairKey{r.raceRow.SupplierID, r.raceRow.OrderID}] = r.raceRow
		r.raceRow = nil
		return nil, domain.ErrInterestExists
	}
	key := pairKey{i.SupplierID, i.OrderID}
	if _, exists := r.rows[key]; exists {
		return nil, domain.ErrInterestExists
	}
	clone := *i
	clone.ID = r.nextID
	r.nextID++
	r.rows[key] = &clone
	out := clone
	return &out, nil
}

func (r *stubInterestRepo) Update(_ context.Context, supplierID, orderID int64, isInterested bool, notes *string) (*domain.SupplierInterest, error) {
	row, ok := r.rows[pairKey{supplierID, orderID}]
	if !ok {
		return nil, domain.ErrInterestNotFound
	}
	row.IsInterested = isInterested
	row.Notes = notes
	row.UpdatedAt = time.Now().UTC()
	clone := *row
	return &clone, nil
}

func (r *stubInterestRepo) FindByPair(_ context.Context, supplierID, orderID int64) (*domain.SupplierInterest, error) {
	row, ok := r.rows[pairKey{supplierID, orderID}]
	if !ok {
		return nil, domain.ErrInterestNotFound
	}
	clone := *row
	return &clone, nil
}

func (r *stubInterestRepo) FindByOrder(_ context.Context, orderID int64) ([]domain.SupplierInterest, error) {
	var out []domain.SupplierInterest
	for _, row := range r.rows {
		if row.OrderID == orderID {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubInterestRepo) FindBySupplier(_ context.Context, supplierID int64) ([]domain.SupplierInterest, error) {
	var out []domain.SupplierInterest
	for _, row := range r.rows {
		if row.SupplierID == supplierID {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type stubIdemStore struct {
	keys map[string]int64
}

func newStubIdemStore() *stubIdemStore {
	return &stubIdemStore{keys: make(map[string]int64)}
}

func (s *stubIdemStore) Lookup(_ context.Context, key string) (int64, bool, error) {
	id, ok := s.keys[key]
	return id, ok, nil
}

func (s *stubIdemStore) Remember(_ context.Context, key string, orderID int64) error {
	s.keys[key] = orderID
	return nil
}

type stubRecorder struct {
	records []domain.InterestActivity
}

func (s *stubRecorder) Enqueue(a domain.InterestActivity) {
	s.records = append(s.records, a)
}
