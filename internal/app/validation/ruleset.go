// Package validation evaluates declarative per-field rule tables against
// decoded request bodies.
package validation

import (
	"context"
	"strings"
)

// Presence decides how absent fields are treated.
type Presence int

const (
	// Required fields must be present; absence is reported.
	Required Presence = iota
	// Nullable fields may be absent, in which case their rules are skipped.
	Nullable
)

// Operation selects the rule set variant.
type Operation int

const (
	Create Operation = iota
	Update
)

func (op Operation) String() string {
	if op == Update {
		return "update"
	}
	return "create"
}

// Presence returns the presence mode fields take under op.
func (op Operation) Presence() Presence {
	if op == Update {
		return Nullable
	}
	return Required
}

// FieldRules is the ordered rule list for one field.
type FieldRules struct {
	Field    string
	Presence Presence
	Rules    []Rule
}

// Field declares the rules of one field. Presence is filled in by NewRuleSet.
func Field(name string, rules ...Rule) FieldRules {
	return FieldRules{Field: name, Rules: rules}
}

// RuleSet is the rule table applied for one operation on one entity kind.
type RuleSet struct {
	Name   string
	Fields []FieldRules
}

// NewRuleSet builds a rule set where every field takes op's presence mode.
func NewRuleSet(name string, op Operation, fields ...FieldRules) RuleSet {
	rs := RuleSet{Name: name + "." + op.String(), Fields: make([]FieldRules, 0, len(fields))}
	for _, f := range fields {
		f.Presence = op.Presence()
		rs.Fields = append(rs.Fields, f)
	}
	return rs
}

// With returns a copy of rs where field also runs extra rules.
func (rs RuleSet) With(field string, extra ...Rule) RuleSet {
	out := RuleSet{Name: rs.Name, Fields: make([]FieldRules, len(rs.Fields))}
	copy(out.Fields, rs.Fields)
	for i := range out.Fields {
		if out.Fields[i].Field == field {
			rules := make([]Rule, 0, len(out.Fields[i].Rules)+len(extra))
			rules = append(rules, out.Fields[i].Rules...)
			out.Fields[i].Rules = append(rules, extra...)
		}
	}
	return out
}

// Validate evaluates every field independently and collects all failures. The
// error is non-nil only when a rule could not be evaluated.
func (rs RuleSet) Validate(ctx context.Context, in Input) (Violations, error) {
	var v Violations
	for _, f := range rs.Fields {
		attr := Attribute(f.Field)
		value, present := in.Lookup(f.Field)
		if !present {
			if f.Presence == Required {
				v.Add(f.Field, "The "+attr+" field is required.")
			}
			continue
		}
		for _, rule := range f.Rules {
			msg, err := rule.Check(ctx, attr, value)
			if err != nil {
				return Violations{}, err
			}
			if msg != "" {
				v.Add(f.Field, msg)
			}
		}
	}
	return v, nil
}

// Check is Validate folded into a single error: nil on pass, *Error on
// violations, or the evaluation failure.
func (rs RuleSet) Check(ctx context.Context, in Input) error {
	v, err := rs.Validate(ctx, in)
	if err != nil {
		return err
	}
	if !v.Empty() {
		return &Error{RuleSet: rs.Name, Violations: v}
	}
	return nil
}

// Attribute turns a field name into the label used in messages.
func Attribute(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}
