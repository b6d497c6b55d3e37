package order

import (
	"time"

	"github.com/conecteai/sales_layer/internal/app/domain/patch"
)

// Order records a sale of one product to one customer.
type Order struct {
	ID         int64     `json:"id" db:"id"`
	Salesman   string    `json:"salesman" db:"salesman"`
	CustomerID int64     `json:"customer_id" db:"customer_id"`
	Date       Date      `json:"date" db:"date"`
	Status     string    `json:"status" db:"status"`
	ProductID  int64     `json:"product_id" db:"product_id"`
	TotalPrice float64   `json:"total_price" db:"total_price"`
	Commission float64   `json:"commission" db:"commission"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Patch carries the fillable order columns of a create or update request.
type Patch struct {
	Salesman   patch.Field[string]
	CustomerID patch.Field[int64]
	Date       patch.Field[Date]
	Status     patch.Field[string]
	ProductID  patch.Field[int64]
	TotalPrice patch.Field[float64]
	Commission patch.Field[float64]
}

// Apply merges the set fields into o.
func (p Patch) Apply(o *Order) {
	p.Salesman.ApplyTo(&o.Salesman)
	p.CustomerID.ApplyTo(&o.CustomerID)
	p.Date.ApplyTo(&o.Date)
	p.Status.ApplyTo(&o.Status)
	p.ProductID.ApplyTo(&o.ProductID)
	p.TotalPrice.ApplyTo(&o.TotalPrice)
	p.Commission.ApplyTo(&o.Commission)
}
