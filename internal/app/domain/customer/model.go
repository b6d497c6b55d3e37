package customer

import (
	"time"

	"github.com/conecteai/sales_layer/internal/app/domain/patch"
)

// Customer is a buyer registered by the sales team.
type Customer struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CNPJ      string    `json:"cnpj" db:"cnpj"`
	Email     string    `json:"email" db:"email"`
	Telephone string    `json:"telephone" db:"telephone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Patch carries the fillable customer columns of a create or update request.
type Patch struct {
	Name      patch.Field[string]
	CNPJ      patch.Field[string]
	Email     patch.Field[string]
	Telephone patch.Field[string]
}

// Apply merges the set fields into c.
func (p Patch) Apply(c *Customer) {
	p.Name.ApplyTo(&c.Name)
	p.CNPJ.ApplyTo(&c.CNPJ)
	p.Email.ApplyTo(&c.Email)
	p.Telephone.ApplyTo(&c.Telephone)
}
