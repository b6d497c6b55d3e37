package order

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	// InputLayout is the DD/MM/YYYY form clients submit and read back.
	InputLayout = "02/01/2006"
	// StorageLayout is the normalized calendar form persisted by the stores.
	StorageLayout = "2006-01-02"
)

// Date is a calendar day without time of day or zone.
type Date struct {
	t time.Time
}

// NewDate builds a Date from its components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseInput parses the DD/MM/YYYY client form.
func ParseInput(s string) (Date, error) {
	t, err := time.Parse(InputLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t: t}, nil
}

// ParseStorage parses the YYYY-MM-DD storage form.
func ParseStorage(s string) (Date, error) {
	t, err := time.Parse(StorageLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t: t}, nil
}

// IsZero reports whether d is unset.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// String returns the storage form.
func (d Date) String() string {
	if d.t.IsZero() {
		return ""
	}
	return d.t.Format(StorageLayout)
}

// Input returns the client form.
func (d Date) Input() string {
	if d.t.IsZero() {
		return ""
	}
	return d.t.Format(InputLayout)
}

// Time returns the date at midnight UTC.
func (d Date) Time() time.Time {
	return d.t
}

// MarshalJSON renders the client form, matching what clients submit.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Input())
}

// UnmarshalJSON accepts either the client or the storage form.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	if parsed, err := ParseInput(s); err == nil {
		*d = parsed
		return nil
	}
	parsed, err := ParseStorage(s)
	if err != nil {
		return fmt.Errorf("date %q: %w", s, err)
	}
	*d = parsed
	return nil
}

// Value stores the normalized YYYY-MM-DD form.
func (d Date) Value() (driver.Value, error) {
	if d.t.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan reads DATE columns returned either as time.Time or as text.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = NewDate(v.Year(), v.Month(), v.Day())
		return nil
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	default:
		return fmt.Errorf("cannot scan %T into order.Date", src)
	}
}

func (d *Date) scanText(s string) error {
	if len(s) > len(StorageLayout) {
		s = s[:len(StorageLayout)]
	}
	parsed, err := ParseStorage(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
