package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/conecteai/sales_layer/internal/app/domain/customer"
	"github.com/conecteai/sales_layer/internal/app/domain/order"
	"github.com/conecteai/sales_layer/internal/app/domain/patch"
	"github.com/conecteai/sales_layer/internal/app/domain/product"
	"github.com/conecteai/sales_layer/internal/app/storage"
)

var fixedNow = time.Date(2021, 6, 15, 12, 0, 0, 0, time.UTC)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := New(sqlx.NewDb(db, "postgres"))
	store.now = func() time.Time { return fixedNow }
	return store, mock
}

func customerPatch() customer.Patch {
	return customer.Patch{
		Name:      patch.Set("Felipe Kazuo"),
		CNPJ:      patch.Set("11.222.333/0001-81"),
		Email:     patch.Set("felipe@example.com"),
		Telephone: patch.Set("(11) 99999-9999"),
	}
}

func TestCreateCustomerReturnsIdentity(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO customers").
		WithArgs("Felipe Kazuo", "11.222.333/0001-81", "felipe@example.com", "(11) 99999-9999", fixedNow, fixedNow).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	c, err := store.CreateCustomer(context.Background(), customerPatch())
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	if c.ID != 7 || c.Name != "Felipe Kazuo" || !c.CreatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected customer: %+v", c)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO customers").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "customers_email_key"})

	_, err := store.CreateCustomer(context.Background(), customerPatch())
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestGetCustomerNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM customers WHERE id").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "cnpj", "email", "telephone", "created_at", "updated_at"}))

	_, err := store.GetCustomer(context.Background(), 99)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateCustomerMergesSetFields(t *testing.T) {
	store, mock := newMockStore(t)
	created := fixedNow.Add(-time.Hour)

	mock.ExpectQuery("SELECT (.+) FROM customers WHERE id").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "cnpj", "email", "telephone", "created_at", "updated_at"}).
			AddRow(3, "Felipe Kazuo", "11.222.333/0001-81", "felipe@example.com", "(11) 99999-9999", created, created))
	mock.ExpectExec("UPDATE customers").
		WithArgs(int64(3), "Felipe Kazuo", "11.222.333/0001-81", "novo@example.com", "(11) 99999-9999", fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, err := store.UpdateCustomer(context.Background(), 3, customer.Patch{Email: patch.Set("novo@example.com")})
	if err != nil {
		t.Fatalf("update customer: %v", err)
	}
	if c.Email != "novo@example.com" || c.Name != "Felipe Kazuo" {
		t.Fatalf("unexpected merge result: %+v", c)
	}
	if !c.CreatedAt.Equal(created) || !c.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected timestamps: %+v", c)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDeleteCustomerRestricted(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM customers").
		WithArgs(int64(1)).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "orders_customer_id_fkey"})

	err := store.DeleteCustomer(context.Background(), 1)
	if !errors.Is(err, storage.ErrReferenced) {
		t.Fatalf("expected referenced, got %v", err)
	}
}

func TestDeleteProductMissing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM products").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.DeleteProduct(context.Background(), 5)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListProductsOrdered(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM products ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "description", "color", "dimensions", "price", "created_at", "updated_at"}).
			AddRow(1, "Cadeira gamer", "preto", "60x60x120", 899.9, fixedNow, fixedNow).
			AddRow(2, "Mesa de escritorio", "branco", "120x60x75", 450.0, fixedNow, fixedNow))

	items, err := store.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(items) != 2 || items[0].ID != 1 || items[1].Price != 450.0 {
		t.Fatalf("unexpected products: %+v", items)
	}
}

func TestListOrdersEmpty(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM orders ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	items, err := store.ListOrders(context.Background())
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", items)
	}
}

func TestCreateOrderStoresNormalizedDate(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO orders").
		WithArgs("Ana Souza", int64(1), "2021-06-15", "Pago", int64(2), 100.0, 5.0, fixedNow, fixedNow).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	o, err := store.CreateOrder(context.Background(), order.Patch{
		Salesman:   patch.Set("Ana Souza"),
		CustomerID: patch.Set(int64(1)),
		Date:       patch.Set(order.NewDate(2021, time.June, 15)),
		Status:     patch.Set("Pago"),
		ProductID:  patch.Set(int64(2)),
		TotalPrice: patch.Set(100.0),
		Commission: patch.Set(5.0),
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if o.ID != 11 {
		t.Fatalf("unexpected order id %d", o.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetOrderScansDate(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE id").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "salesman", "customer_id", "date", "status", "product_id", "total_price", "commission", "created_at", "updated_at"}).
			AddRow(4, "Ana Souza", 1, time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC), "Pago", 2, 100.0, 5.0, fixedNow, fixedNow))

	o, err := store.GetOrder(context.Background(), 4)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if o.Date.String() != "2021-06-15" {
		t.Fatalf("unexpected date %q", o.Date.String())
	}
}

func TestEmailInUseQueriesBothTables(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("felipe@example.com", int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	used, err := store.EmailInUse(context.Background(), "felipe@example.com", 3)
	if err != nil {
		t.Fatalf("email in use: %v", err)
	}
	if !used {
		t.Fatalf("expected email to be reported as used")
	}
}

func TestStoreIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping postgres integration test")
	}

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	store := New(db)
	ctx := context.Background()

	c, err := store.CreateCustomer(ctx, customer.Patch{
		Name:      patch.Set("Integra Teste"),
		CNPJ:      patch.Set("11.222.333/0001-81"),
		Email:     patch.Set("integration-" + time.Now().Format("150405.000000") + "@example.com"),
		Telephone: patch.Set("(11) 99999-9999"),
	})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}

	p, err := store.CreateProduct(ctx, product.Patch{
		Description: patch.Set("Produto integrado"),
		Color:       patch.Set("azul"),
		Dimensions:  patch.Set("10x10"),
		Price:       patch.Set(10.0),
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	o, err := store.CreateOrder(ctx, order.Patch{
		Salesman:   patch.Set("Ana Souza"),
		CustomerID: patch.Set(c.ID),
		Date:       patch.Set(order.NewDate(2021, time.June, 15)),
		Status:     patch.Set("Aberto"),
		ProductID:  patch.Set(p.ID),
		TotalPrice: patch.Set(10.0),
		Commission: patch.Set(1.0),
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if err := store.DeleteCustomer(ctx, c.ID); !errors.Is(err, storage.ErrReferenced) {
		t.Fatalf("expected restricted delete, got %v", err)
	}
	if err := store.DeleteOrder(ctx, o.ID); err != nil {
		t.Fatalf("delete order: %v", err)
	}
	if err := store.DeleteCustomer(ctx, c.ID); err != nil {
		t.Fatalf("delete customer: %v", err)
	}
	if err := store.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
}
