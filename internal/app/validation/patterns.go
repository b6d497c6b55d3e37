package validation

import (
	"context"
	"regexp"
)

var (
	// PersonName is two or more space separated words of letters; every word
	// after the first has at least two letters.
	PersonName = regexp.MustCompile(`^(\pL+ )(\pL{2,} ?)+$`)

	// CNPJFormat is the punctuated 99.999.999/9999-99 tax id layout.
	CNPJFormat = regexp.MustCompile(`^\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}$`)

	// Telephone is an optional (99) area code followed by 9999-9999 or 99999-9999.
	Telephone = regexp.MustCompile(`^(\(?\d{2}\)?\s?)?(\d{4,5}-?\d{4})$`)
)

// IDRules validates a path identifier: present, integral and positive.
var IDRules = RuleSet{
	Name: "id",
	Fields: []FieldRules{
		{Field: "id", Presence: Required, Rules: []Rule{Integer(), positiveID()}},
	},
}

func positiveID() Rule {
	return pure("positive", func(attr string, value any) string {
		n, ok := AsInteger(value)
		if ok && n < 1 {
			return "The " + attr + " must be at least 1."
		}
		return ""
	})
}

// ParseID validates raw against IDRules and returns the identifier.
func ParseID(raw string) (int64, error) {
	in := Input{"id": raw}
	v, _ := IDRules.Validate(context.Background(), in)
	if !v.Empty() {
		return 0, &Error{RuleSet: IDRules.Name, Violations: v}
	}
	id, _ := in.Int("id")
	return id, nil
}
