package products

import "github.com/conecteai/sales_layer/internal/app/validation"

// Rules returns the product rule set for op.
func Rules(op validation.Operation) validation.RuleSet {
	return validation.NewRuleSet("product", op,
		validation.Field("description", validation.String(), validation.MinLength(5), validation.MaxLength(50)),
		validation.Field("color", validation.String(), validation.MinLength(3), validation.MaxLength(20)),
		validation.Field("dimensions", validation.String()),
		validation.Field("price", validation.Numeric(), validation.Min(0), validation.Max(9999.99)),
	)
}
