package validation

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var formats = validator.New()

// Rule checks one present value. An empty message means the rule passed.
type Rule struct {
	Name  string
	check func(ctx context.Context, attr string, value any) (string, error)
}

// Check runs the rule against value using attr in messages.
func (r Rule) Check(ctx context.Context, attr string, value any) (string, error) {
	return r.check(ctx, attr, value)
}

func pure(name string, fn func(attr string, value any) string) Rule {
	return Rule{Name: name, check: func(_ context.Context, attr string, value any) (string, error) {
		return fn(attr, value), nil
	}}
}

// String requires a JSON string.
func String() Rule {
	return pure("string", func(attr string, value any) string {
		if _, ok := value.(string); !ok {
			return fmt.Sprintf("The %s must be a string.", attr)
		}
		return ""
	})
}

// Numeric requires a number or a numeric string.
func Numeric() Rule {
	return pure("numeric", func(attr string, value any) string {
		if _, ok := AsNumber(value); !ok {
			return fmt.Sprintf("The %s must be a number.", attr)
		}
		return ""
	})
}

// Integer requires a whole number.
func Integer() Rule {
	return pure("integer", func(attr string, value any) string {
		if _, ok := AsInteger(value); !ok {
			return fmt.Sprintf("The %s must be an integer.", attr)
		}
		return ""
	})
}

// MinLength bounds the character count of string values.
func MinLength(n int) Rule {
	return pure("min_length", func(attr string, value any) string {
		s, ok := value.(string)
		if ok && utf8.RuneCountInString(s) < n {
			return fmt.Sprintf("The %s must be at least %d characters.", attr, n)
		}
		return ""
	})
}

// MaxLength bounds the character count of string values.
func MaxLength(n int) Rule {
	return pure("max_length", func(attr string, value any) string {
		s, ok := value.(string)
		if ok && utf8.RuneCountInString(s) > n {
			return fmt.Sprintf("The %s must not be greater than %d characters.", attr, n)
		}
		return ""
	})
}

// Min is an inclusive lower bound on numeric values.
func Min(x float64) Rule {
	return pure("min", func(attr string, value any) string {
		f, ok := AsNumber(value)
		if ok && f < x {
			return fmt.Sprintf("The %s must be at least %s.", attr, formatBound(x))
		}
		return ""
	})
}

// Max is an inclusive upper bound on numeric values.
func Max(x float64) Rule {
	return pure("max", func(attr string, value any) string {
		f, ok := AsNumber(value)
		if ok && f > x {
			return fmt.Sprintf("The %s must not be greater than %s.", attr, formatBound(x))
		}
		return ""
	})
}

// Regex requires the textual form of the value to match re.
func Regex(re *regexp.Regexp) Rule {
	return pure("regex", func(attr string, value any) string {
		s, ok := AsText(value)
		if !ok || !re.MatchString(s) {
			return fmt.Sprintf("The %s format is invalid.", attr)
		}
		return ""
	})
}

// Email requires a syntactically valid address.
func Email() Rule {
	return pure("email", func(attr string, value any) string {
		s, ok := value.(string)
		if !ok || formats.Var(s, "required,email") != nil {
			return fmt.Sprintf("The %s must be a valid email address.", attr)
		}
		return ""
	})
}

// DateFormat requires a string parseable with layout. display is the layout
// shown to clients.
func DateFormat(layout, display string) Rule {
	return pure("date_format", func(attr string, value any) string {
		s, ok := value.(string)
		if !ok {
			return fmt.Sprintf("The %s does not match the format %s.", attr, display)
		}
		if _, err := time.Parse(layout, s); err != nil {
			return fmt.Sprintf("The %s does not match the format %s.", attr, display)
		}
		return ""
	})
}

// TakenFunc reports whether value is already used in storage.
type TakenFunc func(ctx context.Context, value string) (bool, error)

// Unique rejects values the lookup reports as taken. Lookup failures abort
// validation.
func Unique(taken TakenFunc) Rule {
	return Rule{Name: "unique", check: func(ctx context.Context, attr string, value any) (string, error) {
		s, ok := AsText(value)
		if !ok {
			return "", nil
		}
		used, err := taken(ctx, s)
		if err != nil {
			return "", fmt.Errorf("unique %s: %w", attr, err)
		}
		if used {
			return fmt.Sprintf("The %s has already been taken.", attr), nil
		}
		return "", nil
	}}
}

// CNPJ verifies the two check digits of a Brazilian company tax id.
func CNPJ() Rule {
	return pure("cnpj", func(attr string, value any) string {
		s, ok := AsText(value)
		if !ok || !validCNPJ(s) {
			return fmt.Sprintf("The %s is not a valid CNPJ.", attr)
		}
		return ""
	})
}

func validCNPJ(s string) bool {
	digits := make([]int, 0, 14)
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		}
	}
	if len(digits) != 14 {
		return false
	}
	same := true
	for _, d := range digits[1:] {
		if d != digits[0] {
			same = false
			break
		}
	}
	if same {
		return false
	}

	weights := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	for pos := 12; pos <= 13; pos++ {
		sum := 0
		w := weights[13-pos:]
		for i := 0; i < pos; i++ {
			sum += digits[i] * w[i]
		}
		check := 0
		if rem := sum % 11; rem >= 2 {
			check = 11 - rem
		}
		if digits[pos] != check {
			return false
		}
	}
	return true
}

func formatBound(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
