package product

import (
	"time"

	"github.com/conecteai/sales_layer/internal/app/domain/patch"
)

// Product is an item that can be sold in an order.
type Product struct {
	ID          int64     `json:"id" db:"id"`
	Description string    `json:"description" db:"description"`
	Color       string    `json:"color" db:"color"`
	Dimensions  string    `json:"dimensions" db:"dimensions"`
	Price       float64   `json:"price" db:"price"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Patch carries the fillable product columns of a create or update request.
type Patch struct {
	Description patch.Field[string]
	Color       patch.Field[string]
	Dimensions  patch.Field[string]
	Price       patch.Field[float64]
}

// Apply merges the set fields into p.
func (pt Patch) Apply(p *Product) {
	pt.Description.ApplyTo(&p.Description)
	pt.Color.ApplyTo(&p.Color)
	pt.Dimensions.ApplyTo(&p.Dimensions)
	pt.Price.ApplyTo(&p.Price)
}
