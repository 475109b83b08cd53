// Package amount turns the numbers found in exported spreadsheets into decimals.
//
// Exports from Indonesian accounting systems mix European grouping
// (5.600.000,00) with US grouping (5,600,000.00). Parsing never fails: input
// that cannot be read as a number yields zero.
package amount

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Parse converts a cell value to a decimal. Numeric values are returned
// unchanged, strings go through ParseString, and anything else is zero.
func Parse(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero
		}
		return *x
	case int:
		return decimal.NewFromInt(int64(x))
	case int32:
		return decimal.NewFromInt32(x)
	case int64:
		return decimal.NewFromInt(x)
	case float32:
		return decimal.NewFromFloat32(x)
	case float64:
		return decimal.NewFromFloat(x)
	case string:
		return ParseString(x)
	default:
		return decimal.Zero
	}
}

// ParseString parses a locale-ambiguous numeric string.
//
// When both separators occur, whichever comes last is the decimal point.
// When only one kind occurs more than once it is grouping. A single
// separator, dot or comma, is grouping when exactly three digits follow it
// ("5.000", "5,000"), otherwise it is the decimal point. Parentheses and a
// leading or trailing minus mark a negative amount.
func ParseString(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}

	negative := strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")

	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '.' || r == ',' || r == '-' {
			return r
		}
		return -1
	}, s)

	switch {
	case strings.HasPrefix(cleaned, "-"):
		negative = true
		cleaned = cleaned[1:]
	case strings.HasSuffix(cleaned, "-"):
		negative = true
		cleaned = cleaned[:len(cleaned)-1]
	}
	if cleaned == "" || strings.Contains(cleaned, "-") {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(canonical(cleaned))
	if err != nil {
		return decimal.Zero
	}
	if negative {
		return d.Neg()
	}
	return d
}

// canonical rewrites digits and separators into "1234.56" form.
func canonical(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			return european(s)
		}
		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		return single(s, ",", lastComma)
	case lastDot >= 0:
		return single(s, ".", lastDot)
	default:
		return s
	}
}

// single handles strings using only one kind of separator.
func single(s, sep string, last int) string {
	if strings.Count(s, sep) > 1 || len(s)-last-1 == 3 {
		return strings.ReplaceAll(s, sep, "")
	}
	return strings.Replace(s, sep, ".", 1)
}

func european(s string) string {
	s = strings.ReplaceAll(s, ".", "")
	return strings.ReplaceAll(s, ",", ".")
}
