package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Violations maps field names to failure messages. Fields keep the order in
// which they were first reported, which is the rule set's declaration order.
type Violations struct {
	entries []fieldMessages
}

type fieldMessages struct {
	field    string
	messages []string
}

// Add appends a message for field.
func (v *Violations) Add(field, message string) {
	for i := range v.entries {
		if v.entries[i].field == field {
			v.entries[i].messages = append(v.entries[i].messages, message)
			return
		}
	}
	v.entries = append(v.entries, fieldMessages{field: field, messages: []string{message}})
}

// Empty reports whether no rule failed.
func (v Violations) Empty() bool {
	return len(v.entries) == 0
}

// Len returns the number of offending fields.
func (v Violations) Len() int {
	return len(v.entries)
}

// Fields returns the offending fields in order.
func (v Violations) Fields() []string {
	out := make([]string, 0, len(v.entries))
	for _, e := range v.entries {
		out = append(out, e.field)
	}
	return out
}

// Messages returns the messages recorded for field.
func (v Violations) Messages(field string) []string {
	for _, e := range v.entries {
		if e.field == field {
			return append([]string(nil), e.messages...)
		}
	}
	return nil
}

// Map flattens the violations; order is lost.
func (v Violations) Map() map[string][]string {
	out := make(map[string][]string, len(v.entries))
	for _, e := range v.entries {
		out[e.field] = append([]string(nil), e.messages...)
	}
	return out
}

// MarshalJSON renders an object whose keys follow declaration order.
func (v Violations) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range v.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.field)
		if err != nil {
			return nil, err
		}
		msgs, err := json.Marshal(e.messages)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(msgs)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Error is returned when a rule set rejects its input.
type Error struct {
	RuleSet    string
	Violations Violations
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: invalid fields: %s", e.RuleSet, strings.Join(e.Violations.Fields(), ", "))
}
