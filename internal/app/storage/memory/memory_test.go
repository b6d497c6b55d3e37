package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/conecteai/sales_layer/internal/app/domain/customer"
	"github.com/conecteai/sales_layer/internal/app/domain/identity"
	"github.com/conecteai/sales_layer/internal/app/domain/order"
	"github.com/conecteai/sales_layer/internal/app/domain/patch"
	"github.com/conecteai/sales_layer/internal/app/domain/product"
	"github.com/conecteai/sales_layer/internal/app/storage"
)

func seed(t *testing.T, s *Store) (customer.Customer, product.Product) {
	t.Helper()
	ctx := context.Background()
	c, err := s.CreateCustomer(ctx, customer.Patch{
		Name:      patch.Set("Felipe Kazuo"),
		CNPJ:      patch.Set("11.222.333/0001-81"),
		Email:     patch.Set("felipe@example.com"),
		Telephone: patch.Set("(11) 99999-9999"),
	})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	p, err := s.CreateProduct(ctx, product.Patch{
		Description: patch.Set("Cadeira gamer"),
		Color:       patch.Set("preto"),
		Dimensions:  patch.Set("60x60x120"),
		Price:       patch.Set(899.9),
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return c, p
}

func TestCustomerLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()
	c, _ := seed(t, s)

	if c.ID != 1 {
		t.Fatalf("expected first id to be 1, got %d", c.ID)
	}

	updated, err := s.UpdateCustomer(ctx, c.ID, customer.Patch{Telephone: patch.Set("11 9999-9999")})
	if err != nil {
		t.Fatalf("update customer: %v", err)
	}
	if updated.Telephone != "11 9999-9999" || updated.Name != c.Name {
		t.Fatalf("update did not merge: %+v", updated)
	}

	got, err := s.GetCustomer(ctx, c.ID)
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	if got.Telephone != "11 9999-9999" {
		t.Fatalf("update not persisted: %+v", got)
	}

	if err := s.DeleteCustomer(ctx, c.ID); err != nil {
		t.Fatalf("delete customer: %v", err)
	}
	if _, err := s.GetCustomer(ctx, c.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := s.DeleteCustomer(ctx, c.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestListSortedByID(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, d := range []string{"Produto um", "Produto dois", "Produto tres"} {
		if _, err := s.CreateProduct(ctx, product.Patch{Description: patch.Set(d)}); err != nil {
			t.Fatalf("create product: %v", err)
		}
	}

	items, err := s.ListProducts(ctx)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 products, got %d", len(items))
	}
	for i, p := range items {
		if p.ID != int64(i+1) {
			t.Fatalf("unexpected order: %+v", items)
		}
	}
}

func TestOrderReferencesRestrictDelete(t *testing.T) {
	s := New()
	ctx := context.Background()
	c, p := seed(t, s)

	o, err := s.CreateOrder(ctx, order.Patch{
		Salesman:   patch.Set("Ana Souza"),
		CustomerID: patch.Set(c.ID),
		Date:       patch.Set(order.NewDate(2021, time.June, 15)),
		Status:     patch.Set("Pago"),
		ProductID:  patch.Set(p.ID),
		TotalPrice: patch.Set(899.9),
		Commission: patch.Set(10.0),
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if err := s.DeleteCustomer(ctx, c.ID); !errors.Is(err, storage.ErrReferenced) {
		t.Fatalf("expected referenced customer, got %v", err)
	}
	if err := s.DeleteProduct(ctx, p.ID); !errors.Is(err, storage.ErrReferenced) {
		t.Fatalf("expected referenced product, got %v", err)
	}

	if err := s.DeleteOrder(ctx, o.ID); err != nil {
		t.Fatalf("delete order: %v", err)
	}
	if err := s.DeleteCustomer(ctx, c.ID); err != nil {
		t.Fatalf("delete customer after order removal: %v", err)
	}
}

func TestOrderRequiresExistingReferences(t *testing.T) {
	s := New()
	ctx := context.Background()
	c, _ := seed(t, s)

	_, err := s.CreateOrder(ctx, order.Patch{CustomerID: patch.Set(c.ID), ProductID: patch.Set(int64(42))})
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected conflict for dangling product, got %v", err)
	}
	orders, _ := s.ListOrders(ctx)
	if len(orders) != 0 {
		t.Fatalf("order should not be stored: %+v", orders)
	}
}

func TestEmailInUse(t *testing.T) {
	s := New()
	ctx := context.Background()
	c, _ := seed(t, s)

	if _, err := s.CreateUser(ctx, identity.User{Name: "Operador", Email: "ops@example.com"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := s.CreateUser(ctx, identity.User{Name: "Outro", Email: "OPS@example.com"}); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected duplicate user conflict, got %v", err)
	}

	cases := []struct {
		email  string
		except int64
		want   bool
	}{
		{"FELIPE@example.com", 0, true},
		{"felipe@example.com", c.ID, false},
		{"ops@example.com", c.ID, true},
		{"free@example.com", 0, false},
	}
	for _, tc := range cases {
		used, err := s.EmailInUse(ctx, tc.email, tc.except)
		if err != nil {
			t.Fatalf("email in use: %v", err)
		}
		if used != tc.want {
			t.Fatalf("EmailInUse(%q, %d) = %v, want %v", tc.email, tc.except, used, tc.want)
		}
	}

	u, err := s.GetUserByEmail(ctx, "Ops@Example.com")
	if err != nil || u.Name != "Operador" {
		t.Fatalf("get user by email: %+v %v", u, err)
	}
}
