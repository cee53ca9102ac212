package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Coercion of loosely typed analyzer values. These never fail: a
// present-but-garbage barrier or weight resolves to nil rather than
// aborting the whole ingestion.

// coerceInt parses a value as an integer, or nil if absent or unparseable
func coerceInt(v any) *int {
	switch t := v.(type) {
	case float64:
		n := int(t)
		return &n
	case int:
		n := t
		return &n
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil
		}
		return &n
	default:
		return nil
	}
}

// coerceDecimal parses a value as a decimal, or nil if absent or unparseable
func coerceDecimal(v any) *decimal.Decimal {
	switch t := v.(type) {
	case float64:
		d := decimal.NewFromFloat(t)
		return &d
	case int:
		d := decimal.NewFromInt(int64(t))
		return &d
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil
		}
		return &d
	case decimal.Decimal:
		d := t
		return &d
	default:
		return nil
	}
}

// coerceString renders a value as text, or the empty string if absent
func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}
