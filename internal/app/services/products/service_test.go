package products

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/conecteai/sales_layer/internal/app/domain/order"
	"github.com/conecteai/sales_layer/internal/app/domain/patch"
	"github.com/conecteai/sales_layer/internal/app/validation"
	apperrors "github.com/conecteai/sales_layer/internal/errors"
	"github.com/conecteai/sales_layer/pkg/testutil"
)

func TestService(t *testing.T) {
	store := testutil.NewFaultyStore()
	svc := New(store, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, testutil.ValidProductInput())
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if created.ID != 1 || created.Price != 899.9 {
		t.Fatalf("unexpected product: %+v", created)
	}

	updated, err := svc.Update(ctx, "1", validation.Input{"price": json.Number("10.50"), "color": ""})
	if err != nil {
		t.Fatalf("update product: %v", err)
	}
	if updated.Price != 10.5 || updated.Color != "preto" {
		t.Fatalf("update did not merge: %+v", updated)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(list) != 1 || list[0].Price != 10.5 {
		t.Fatalf("unexpected list: %+v", list)
	}

	if err := svc.Delete(ctx, "1"); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	if _, err := svc.Get(ctx, "1"); !apperrors.Is(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	cases := map[string]struct {
		in   validation.Input
		want map[string][]string
	}{
		"empty body": {
			validation.Input{},
			map[string][]string{
				"description": {"The description field is required."},
				"color":       {"The color field is required."},
				"dimensions":  {"The dimensions field is required."},
				"price":       {"The price field is required."},
			},
		},
		"short description": {
			testutil.With(testutil.ValidProductInput(), "description", "Mesa"),
			map[string][]string{"description": {"The description must be at least 5 characters."}},
		},
		"price too high": {
			testutil.With(testutil.ValidProductInput(), "price", 10000.0),
			map[string][]string{"price": {"The price must not be greater than 9999.99."}},
		},
		"negative price": {
			testutil.With(testutil.ValidProductInput(), "price", -1.0),
			map[string][]string{"price": {"The price must be at least 0."}},
		},
		"padded short values": {
			testutil.With(testutil.ValidProductInput(), "description", "   abc  ", "color", " ab "),
			map[string][]string{
				"description": {"The description must be at least 5 characters."},
				"color":       {"The color must be at least 3 characters."},
			},
		},
		"long color": {
			testutil.With(testutil.ValidProductInput(), "color", "azul-marinho-escuro-brilhante"),
			map[string][]string{"color": {"The color must not be greater than 20 characters."}},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc := New(testutil.NewFaultyStore(), nil)
			_, err := svc.Create(context.Background(), tc.in)

			var verr *validation.Error
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			got := verr.Violations.Map()
			if len(got) != len(tc.want) {
				t.Fatalf("unexpected violations: %v", got)
			}
			for field, msgs := range tc.want {
				if len(got[field]) != len(msgs) || got[field][0] != msgs[0] {
					t.Fatalf("field %s: got %v, want %v", field, got[field], msgs)
				}
			}
		})
	}
}

func TestDeleteReferencedProduct(t *testing.T) {
	store := testutil.NewFaultyStore()
	svc := New(store, nil)
	ctx := context.Background()

	c, err := store.CreateCustomer(ctx, testutil.CustomerPatch())
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	p, err := svc.Create(ctx, testutil.ValidProductInput())
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if _, err := store.CreateOrder(ctx, order.Patch{CustomerID: patch.Set(c.ID), ProductID: patch.Set(p.ID)}); err != nil {
		t.Fatalf("create order: %v", err)
	}

	if err := svc.Delete(ctx, "1"); !apperrors.Is(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestStorageFailures(t *testing.T) {
	store := testutil.NewFaultyStore()
	svc := New(store, nil)
	ctx := context.Background()

	store.FailOn("CreateProduct", errors.New("disk full"))
	if _, err := svc.Create(ctx, testutil.ValidProductInput()); !apperrors.Is(err, apperrors.CodeStorage) {
		t.Fatalf("expected storage error on create, got %v", err)
	}

	if _, err := svc.Create(ctx, testutil.ValidProductInput()); err != nil {
		t.Fatalf("create product: %v", err)
	}
	store.FailOn("UpdateProduct", errors.New("disk full"))
	if _, err := svc.Update(ctx, "1", validation.Input{"color": "azul"}); !apperrors.Is(err, apperrors.CodeStorage) {
		t.Fatalf("expected storage error on update, got %v", err)
	}
	store.FailOn("DeleteProduct", errors.New("disk full"))
	if err := svc.Delete(ctx, "1"); !apperrors.Is(err, apperrors.CodeStorage) {
		t.Fatalf("expected storage error on delete, got %v", err)
	}
}
