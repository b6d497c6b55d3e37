package validation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Input is a decoded request body: field name to submitted value.
type Input map[string]any

// Lookup returns the value of field and whether it counts as present. Missing
// keys, nulls, blank strings and empty lists are all absent. Strings come back
// trimmed, so rules see the same text that gets stored.
func (in Input) Lookup(field string) (any, bool) {
	v, ok := in[field]
	if !ok || v == nil {
		return nil, false
	}
	switch t := v.(type) {
	case string:
		t = strings.TrimSpace(t)
		if t == "" {
			return nil, false
		}
		return t, true
	case []any:
		if len(t) == 0 {
			return nil, false
		}
	}
	return v, true
}

// String returns the trimmed text of a present field. Numbers are rendered the
// way they were submitted.
func (in Input) String(field string) (string, bool) {
	v, ok := in.Lookup(field)
	if !ok {
		return "", false
	}
	return AsText(v)
}

// Float returns a present numeric field.
func (in Input) Float(field string) (float64, bool) {
	v, ok := in.Lookup(field)
	if !ok {
		return 0, false
	}
	return AsNumber(v)
}

// Int returns a present integral field.
func (in Input) Int(field string) (int64, bool) {
	v, ok := in.Lookup(field)
	if !ok {
		return 0, false
	}
	return AsInteger(v)
}

// AsText converts strings and numbers to text.
func AsText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	default:
		return "", false
	}
}

// AsNumber converts numbers and numeric strings to float64.
func AsNumber(v any) (float64, bool) {
	var (
		f   float64
		err error
	)
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		f, err = t.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// AsInteger converts whole numbers and integral strings to int64.
func AsInteger(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		if t != math.Trunc(t) || math.Abs(t) >= math.MaxInt64 {
			return 0, false
		}
		return int64(t), true
	case json.Number:
		n, err := strconv.ParseInt(t.String(), 10, 64)
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}
