package customers

import (
	"github.com/conecteai/sales_layer/internal/app/validation"
)

// Rules returns the customer rule set for op. taken backs the email
// uniqueness check.
func Rules(op validation.Operation, taken validation.TakenFunc) validation.RuleSet {
	cnpj := []validation.Rule{validation.Regex(validation.CNPJFormat)}
	if op == validation.Update {
		cnpj = append([]validation.Rule{validation.CNPJ()}, cnpj...)
	}

	return validation.NewRuleSet("customer", op,
		validation.Field("name",
			validation.String(),
			validation.MinLength(5),
			validation.MaxLength(100),
			validation.Regex(validation.PersonName),
		),
		validation.Field("cnpj", cnpj...),
		validation.Field("telephone", validation.Regex(validation.Telephone)),
		validation.Field("email", validation.Email(), validation.Unique(taken)),
	)
}
