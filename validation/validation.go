package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Violations maps a field path to a readable reason.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add records a violation unless the field already has one.
func (v Violations) Add(field, format string, args ...any) {
	if _, ok := v[field]; ok {
		return
	}
	v[field] = fmt.Sprintf(format, args...)
}

// Error joins violations in a stable, readable form.
func (v Violations) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v[k])
	}
	return strings.Join(parts, "; ")
}

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "required")
	}
}

func PositiveDecimal(field string, val decimal.Decimal, v Violations) {
	if !val.IsPositive() {
		v.Add(field, "must be greater than 0, got %s", val.String())
	}
}

func NonNegativeDecimal(field string, val decimal.Decimal, v Violations) {
	if val.IsNegative() {
		v.Add(field, "must not be negative, got %s", val.String())
	}
}

func RangeDecimal(field string, val, minVal, maxVal decimal.Decimal, v Violations) {
	if val.LessThan(minVal) || val.GreaterThan(maxVal) {
		v.Add(field, "must be between %s and %s, got %s", minVal.String(), maxVal.String(), val.String())
	}
}

// MaxScale rejects values with more than places digits after the decimal
// point, so they survive a fixed scale column unrounded.
func MaxScale(field string, val decimal.Decimal, places int32, v Violations) {
	if val.Exponent() < -places && !val.Equal(val.Truncate(places)) {
		v.Add(field, "must have at most %d decimal places, got %s", places, val.String())
	}
}

func RangeInt(field string, val, minVal, maxVal int, v Violations) {
	if val < minVal || val > maxVal {
		v.Add(field, "must be between %d and %d, got %d", minVal, maxVal, val)
	}
}

func OneOf(field, val string, allowed []string, v Violations) {
	for _, a := range allowed {
		if val == a {
			return
		}
	}
	v.Add(field, "must be one of %s, got %q", strings.Join(allowed, ", "), val)
}
