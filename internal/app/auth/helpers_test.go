package auth

import (
	"github.com/conecteai/sales_layer/internal/app/domain/customer"
	"github.com/conecteai/sales_layer/internal/app/domain/identity"
	"github.com/conecteai/sales_layer/internal/app/domain/patch"
)

func testUser() identity.User {
	return identity.User{ID: 1, Name: "Operador", Email: "ops@example.com"}
}

func testCustomer() customer.Patch {
	return customer.Patch{
		Name:  patch.Set("Felipe Kazuo"),
		Email: patch.Set("felipe@example.com"),
	}
}
