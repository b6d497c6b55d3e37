// Package testutil provides common testing utilities and mock implementations.
package testutil

import (
	"context"
	"sync"

	"github.com/conecteai/sales_layer/internal/app/domain/customer"
	"github.com/conecteai/sales_layer/internal/app/domain/order"
	"github.com/conecteai/sales_layer/internal/app/domain/product"
	"github.com/conecteai/sales_layer/internal/app/storage/memory"
)

// FaultyStore is a memory store whose methods can be made to fail. Injected
// errors are consumed by the next call to the named method.
type FaultyStore struct {
	*memory.Store

	mu   sync.Mutex
	fail map[string]error
}

// NewFaultyStore wraps an empty memory store.
func NewFaultyStore() *FaultyStore {
	return &FaultyStore{Store: memory.New(), fail: make(map[string]error)}
}

// FailOn makes the next call to method return err.
func (f *FaultyStore) FailOn(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[method] = err
}

// Reset drops every pending failure.
func (f *FaultyStore) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = make(map[string]error)
}

func (f *FaultyStore) take(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := f.fail[method]
	delete(f.fail, method)
	return err
}

func (f *FaultyStore) CreateCustomer(ctx context.Context, p customer.Patch) (customer.Customer, error) {
	if err := f.take("CreateCustomer"); err != nil {
		return customer.Customer{}, err
	}
	return f.Store.CreateCustomer(ctx, p)
}

func (f *FaultyStore) GetCustomer(ctx context.Context, id int64) (customer.Customer, error) {
	if err := f.take("GetCustomer"); err != nil {
		return customer.Customer{}, err
	}
	return f.Store.GetCustomer(ctx, id)
}

func (f *FaultyStore) ListCustomers(ctx context.Context) ([]customer.Customer, error) {
	if err := f.take("ListCustomers"); err != nil {
		return nil, err
	}
	return f.Store.ListCustomers(ctx)
}

func (f *FaultyStore) UpdateCustomer(ctx context.Context, id int64, p customer.Patch) (customer.Customer, error) {
	if err := f.take("UpdateCustomer"); err != nil {
		return customer.Customer{}, err
	}
	return f.Store.UpdateCustomer(ctx, id, p)
}

func (f *FaultyStore) DeleteCustomer(ctx context.Context, id int64) error {
	if err := f.take("DeleteCustomer"); err != nil {
		return err
	}
	return f.Store.DeleteCustomer(ctx, id)
}

func (f *FaultyStore) CreateProduct(ctx context.Context, p product.Patch) (product.Product, error) {
	if err := f.take("CreateProduct"); err != nil {
		return product.Product{}, err
	}
	return f.Store.CreateProduct(ctx, p)
}

func (f *FaultyStore) GetProduct(ctx context.Context, id int64) (product.Product, error) {
	if err := f.take("GetProduct"); err != nil {
		return product.Product{}, err
	}
	return f.Store.GetProduct(ctx, id)
}

func (f *FaultyStore) ListProducts(ctx context.Context) ([]product.Product, error) {
	if err := f.take("ListProducts"); err != nil {
		return nil, err
	}
	return f.Store.ListProducts(ctx)
}

func (f *FaultyStore) UpdateProduct(ctx context.Context, id int64, p product.Patch) (product.Product, error) {
	if err := f.take("UpdateProduct"); err != nil {
		return product.Product{}, err
	}
	return f.Store.UpdateProduct(ctx, id, p)
}

func (f *FaultyStore) DeleteProduct(ctx context.Context, id int64) error {
	if err := f.take("DeleteProduct"); err != nil {
		return err
	}
	return f.Store.DeleteProduct(ctx, id)
}

func (f *FaultyStore) CreateOrder(ctx context.Context, p order.Patch) (order.Order, error) {
	if err := f.take("CreateOrder"); err != nil {
		return order.Order{}, err
	}
	return f.Store.CreateOrder(ctx, p)
}

func (f *FaultyStore) GetOrder(ctx context.Context, id int64) (order.Order, error) {
	if err := f.take("GetOrder"); err != nil {
		return order.Order{}, err
	}
	return f.Store.GetOrder(ctx, id)
}

func (f *FaultyStore) ListOrders(ctx context.Context) ([]order.Order, error) {
	if err := f.take("ListOrders"); err != nil {
		return nil, err
	}
	return f.Store.ListOrders(ctx)
}

func (f *FaultyStore) UpdateOrder(ctx context.Context, id int64, p order.Patch) (order.Order, error) {
	if err := f.take("UpdateOrder"); err != nil {
		return order.Order{}, err
	}
	return f.Store.UpdateOrder(ctx, id, p)
}

func (f *FaultyStore) DeleteOrder(ctx context.Context, id int64) error {
	if err := f.take("DeleteOrder"); err != nil {
		return err
	}
	return f.Store.DeleteOrder(ctx, id)
}

func (f *FaultyStore) EmailInUse(ctx context.Context, email string, exceptCustomerID int64) (bool, error) {
	if err := f.take("EmailInUse"); err != nil {
		return false, err
	}
	return f.Store.EmailInUse(ctx, email, exceptCustomerID)
}
