package orders

import (
	"github.com/conecteai/sales_layer/internal/app/domain/order"
	"github.com/conecteai/sales_layer/internal/app/validation"
)

// Rules returns the order rule set for op. Referenced ids are only checked
// for shape here; the service resolves them.
func Rules(op validation.Operation) validation.RuleSet {
	return validation.NewRuleSet("order", op,
		validation.Field("salesman", validation.Regex(validation.PersonName)),
		validation.Field("customer_id", validation.Integer()),
		validation.Field("date", validation.DateFormat(order.InputLayout, "d/m/Y")),
		validation.Field("status", validation.String(), validation.MinLength(4), validation.MaxLength(10)),
		validation.Field("product_id", validation.Integer()),
		validation.Field("total_price", validation.Numeric(), validation.Min(0), validation.Max(99999)),
		validation.Field("commission", validation.Numeric(), validation.Min(0)),
	)
}
