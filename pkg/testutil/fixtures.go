package testutil

import (
	"github.com/conecteai/sales_layer/internal/app/domain/customer"
	"github.com/conecteai/sales_layer/internal/app/domain/patch"
	"github.com/conecteai/sales_layer/internal/app/domain/product"
	"github.com/conecteai/sales_layer/internal/app/validation"
)

// ValidCustomerInput returns a customer payload that passes the create rules.
func ValidCustomerInput() validation.Input {
	return validation.Input{
		"name":      "Felipe Kazuo",
		"cnpj":      "11.222.333/0001-81",
		"email":     "felipe@example.com",
		"telephone": "(11) 99999-9999",
	}
}

// ValidProductInput returns a product payload that passes the create rules.
func ValidProductInput() validation.Input {
	return validation.Input{
		"description": "Cadeira gamer",
		"color":       "preto",
		"dimensions":  "60x60x120",
		"price":       899.9,
	}
}

// ValidOrderInput returns an order payload referencing the given customer and
// product.
func ValidOrderInput(customerID, productID int64) validation.Input {
	return validation.Input{
		"salesman":    "Ana Souza",
		"customer_id": float64(customerID),
		"date":        "15/06/2021",
		"status":      "Pendente",
		"product_id":  float64(productID),
		"total_price": 899.9,
		"commission":  45.0,
	}
}

// With returns a copy of in with the given pairs set. A nil value deletes the
// key.
func With(in validation.Input, kv ...any) validation.Input {
	out := make(validation.Input, len(in)+len(kv)/2)
	for k, v := range in {
		out[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		if kv[i+1] == nil {
			delete(out, key)
			continue
		}
		out[key] = kv[i+1]
	}
	return out
}

// CustomerPatch is ValidCustomerInput as a store patch.
func CustomerPatch() customer.Patch {
	return customer.Patch{
		Name:      patch.Set("Felipe Kazuo"),
		CNPJ:      patch.Set("11.222.333/0001-81"),
		Email:     patch.Set("felipe@example.com"),
		Telephone: patch.Set("(11) 99999-9999"),
	}
}

// ProductPatch is ValidProductInput as a store patch.
func ProductPatch() product.Patch {
	return product.Patch{
		Description: patch.Set("Cadeira gamer"),
		Color:       patch.Set("preto"),
		Dimensions:  patch.Set("60x60x120"),
		Price:       patch.Set(899.9),
	}
}
