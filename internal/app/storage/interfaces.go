package storage

import (
	"context"
	"errors"

	"github.com/conecteai/sales_layer/internal/app/domain/customer"
	"github.com/conecteai/sales_layer/internal/app/domain/identity"
	"github.com/conecteai/sales_layer/internal/app/domain/order"
	"github.com/conecteai/sales_layer/internal/app/domain/product"
)

var (
	// ErrNotFound is returned when no record has the requested identity.
	ErrNotFound = errors.New("record not found")
	// ErrReferenced is returned when a delete is refused because orders still
	// point at the record.
	ErrReferenced = errors.New("record is referenced by orders")
	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("record conflicts with an existing one")
)

// CustomerStore persists customer records.
type CustomerStore interface {
	CreateCustomer(ctx context.Context, p customer.Patch) (customer.Customer, error)
	GetCustomer(ctx context.Context, id int64) (customer.Customer, error)
	ListCustomers(ctx context.Context) ([]customer.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, p customer.Patch) (customer.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
}

// ProductStore persists product records.
type ProductStore interface {
	CreateProduct(ctx context.Context, p product.Patch) (product.Product, error)
	GetProduct(ctx context.Context, id int64) (product.Product, error)
	ListProducts(ctx context.Context) ([]product.Product, error)
	UpdateProduct(ctx context.Context, id int64, p product.Patch) (product.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// OrderStore persists order records.
type OrderStore interface {
	CreateOrder(ctx context.Context, p order.Patch) (order.Order, error)
	GetOrder(ctx context.Context, id int64) (order.Order, error)
	ListOrders(ctx context.Context) ([]order.Order, error)
	UpdateOrder(ctx context.Context, id int64, p order.Patch) (order.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
}

// IdentityStore persists API users and answers email ownership questions for
// the shared user/customer email namespace.
type IdentityStore interface {
	CreateUser(ctx context.Context, u identity.User) (identity.User, error)
	GetUser(ctx context.Context, id int64) (identity.User, error)
	GetUserByEmail(ctx context.Context, email string) (identity.User, error)
	// EmailInUse reports whether a user or a customer other than
	// exceptCustomerID already holds email. Comparison ignores case.
	EmailInUse(ctx context.Context, email string, exceptCustomerID int64) (bool, error)
}
