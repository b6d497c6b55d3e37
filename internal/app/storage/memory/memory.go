package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/conecteai/sales_layer/internal/app/domain/customer"
	"github.com/conecteai/sales_layer/internal/app/domain/identity"
	"github.com/conecteai/sales_layer/internal/app/domain/order"
	"github.com/conecteai/sales_layer/internal/app/domain/product"
	"github.com/conecteai/sales_layer/internal/app/storage"
)

// Store is an in-memory implementation of the storage interfaces. It is safe
// for concurrent use and is primarily intended for tests and local development.
type Store struct {
	mu        sync.RWMutex
	nextID    map[string]int64
	customers map[int64]customer.Customer
	products  map[int64]product.Product
	orders    map[int64]order.Order
	users     map[int64]identity.User
	now       func() time.Time
}

var _ storage.CustomerStore = (*Store)(nil)
var _ storage.ProductStore = (*Store)(nil)
var _ storage.OrderStore = (*Store)(nil)
var _ storage.IdentityStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		nextID:    make(map[string]int64),
		customers: make(map[int64]customer.Customer),
		products:  make(map[int64]product.Product),
		orders:    make(map[int64]order.Order),
		users:     make(map[int64]identity.User),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Identities are assigned per table, starting at 1, like a serial column.
func (s *Store) nextIDLocked(table string) int64 {
	s.nextID[table]++
	return s.nextID[table]
}

func notFound(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, storage.ErrNotFound)
}

// CustomerStore implementation -------------------------------------------------

func (s *Store) CreateCustomer(_ context.Context, p customer.Patch) (customer.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var c customer.Customer
	p.Apply(&c)
	c.ID = s.nextIDLocked("customers")
	c.CreatedAt = s.now()
	c.UpdatedAt = c.CreatedAt

	s.customers[c.ID] = c
	return c, nil
}

func (s *Store) GetCustomer(_ context.Context, id int64) (customer.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[id]
	if !ok {
		return customer.Customer{}, notFound("customer", id)
	}
	return c, nil
}

func (s *Store) ListCustomers(_ context.Context) ([]customer.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]customer.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) UpdateCustomer(_ context.Context, id int64, p customer.Patch) (customer.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[id]
	if !ok {
		return customer.Customer{}, notFound("customer", id)
	}
	p.Apply(&c)
	c.UpdatedAt = s.now()

	s.customers[id] = c
	return c, nil
}

func (s *Store) DeleteCustomer(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[id]; !ok {
		return notFound("customer", id)
	}
	for _, o := range s.orders {
		if o.CustomerID == id {
			return fmt.Errorf("customer %d: %w", id, storage.ErrReferenced)
		}
	}
	delete(s.customers, id)
	return nil
}

// ProductStore implementation --------------------------------------------------

func (s *Store) CreateProduct(_ context.Context, p product.Patch) (product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var prod product.Product
	p.Apply(&prod)
	prod.ID = s.nextIDLocked("products")
	prod.CreatedAt = s.now()
	prod.UpdatedAt = prod.CreatedAt

	s.products[prod.ID] = prod
	return prod, nil
}

func (s *Store) GetProduct(_ context.Context, id int64) (product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prod, ok := s.products[id]
	if !ok {
		return product.Product{}, notFound("product", id)
	}
	return prod, nil
}

func (s *Store) ListProducts(_ context.Context) ([]product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]product.Product, 0, len(s.products))
	for _, prod := range s.products {
		result = append(result, prod)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) UpdateProduct(_ context.Context, id int64, p product.Patch) (product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prod, ok := s.products[id]
	if !ok {
		return product.Product{}, notFound("product", id)
	}
	p.Apply(&prod)
	prod.UpdatedAt = s.now()

	s.products[id] = prod
	return prod, nil
}

func (s *Store) DeleteProduct(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return notFound("product", id)
	}
	for _, o := range s.orders {
		if o.ProductID == id {
			return fmt.Errorf("product %d: %w", id, storage.ErrReferenced)
		}
	}
	delete(s.products, id)
	return nil
}

// OrderStore implementation ----------------------------------------------------

func (s *Store) CreateOrder(_ context.Context, p order.Patch) (order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var o order.Order
	p.Apply(&o)
	if err := s.checkOrderRefsLocked(o); err != nil {
		return order.Order{}, err
	}
	o.ID = s.nextIDLocked("orders")
	o.CreatedAt = s.now()
	o.UpdatedAt = o.CreatedAt

	s.orders[o.ID] = o
	return o, nil
}

func (s *Store) GetOrder(_ context.Context, id int64) (order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return order.Order{}, notFound("order", id)
	}
	return o, nil
}

func (s *Store) ListOrders(_ context.Context) ([]order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]order.Order, 0, len(s.orders))
	for _, o := range s.orders {
		result = append(result, o)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) UpdateOrder(_ context.Context, id int64, p order.Patch) (order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return order.Order{}, notFound("order", id)
	}
	p.Apply(&o)
	if err := s.checkOrderRefsLocked(o); err != nil {
		return order.Order{}, err
	}
	o.UpdatedAt = s.now()

	s.orders[id] = o
	return o, nil
}

func (s *Store) DeleteOrder(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return notFound("order", id)
	}
	delete(s.orders, id)
	return nil
}

// checkOrderRefsLocked plays the role of the foreign keys a SQL backend has.
func (s *Store) checkOrderRefsLocked(o order.Order) error {
	if _, ok := s.customers[o.CustomerID]; !ok {
		return fmt.Errorf("order references customer %d: %w", o.CustomerID, storage.ErrConflict)
	}
	if _, ok := s.products[o.ProductID]; !ok {
		return fmt.Errorf("order references product %d: %w", o.ProductID, storage.ErrConflict)
	}
	return nil
}

// IdentityStore implementation -------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u identity.User) (identity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return identity.User{}, fmt.Errorf("user %s: %w", u.Email, storage.ErrConflict)
		}
	}

	u.ID = s.nextIDLocked("users")
	u.CreatedAt = s.now()
	u.UpdatedAt = u.CreatedAt

	s.users[u.ID] = u
	return u, nil
}

func (s *Store) GetUser(_ context.Context, id int64) (identity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return identity.User{}, notFound("user", id)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (identity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return identity.User{}, fmt.Errorf("user %s: %w", email, storage.ErrNotFound)
}

func (s *Store) EmailInUse(_ context.Context, email string, exceptCustomerID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	for _, c := range s.customers {
		if c.ID != exceptCustomerID && strings.EqualFold(c.Email, email) {
			return true, nil
		}
	}
	return false, nil
}
