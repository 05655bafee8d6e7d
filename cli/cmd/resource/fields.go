package resource

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/plasturgie/plasturgie/cli/helpers"
)

// Required rejects blank form input.
func Required(field string) func(string) error {
	return func(s string) error {
		return helpers.ValidateRequired(strings.TrimSpace(s), field)
	}
}

// PositiveID accepts a record id typed into a form.
func PositiveID(field string) func(string) error {
	return func(s string) error {
		if _, err := helpers.ParseID(strings.TrimSpace(s)); err != nil {
			return fmt.Errorf("%s must be a positive number", field)
		}
		return nil
	}
}

// OptionalPositive accepts a blank value or a positive integer.
func OptionalPositive(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		return PositiveID(field)(s)
	}
}

// OptionalDecimal accepts a blank value or a non-negative amount.
func OptionalDecimal(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil || d.IsNegative() {
			return fmt.Errorf("%s must be a non-negative amount", field)
		}
		return nil
	}
}

// IDText renders an id for a form field, blank when unset.
func IDText(id int64) string {
	if id <= 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

// OptionalIntText renders an optional count for a form field.
func OptionalIntText(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// ParseIDText reads a form id back. Blank yields zero.
func ParseIDText(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return helpers.ParseID(s)
}

// ParseOptionalInt reads an optional count back. Blank yields nil.
func ParseOptionalInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return &v, nil
}

// ParseOptionalDecimal reads an optional amount back. Blank yields a null decimal.
func ParseOptionalDecimal(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return decimal.NewNullDecimal(d), nil
}

// DecimalText renders an optional amount, blank when null.
func DecimalText(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}
