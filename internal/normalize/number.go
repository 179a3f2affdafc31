// Package normalize turns noisy export cells into numbers, universe tickers and calendar days.
package normalize

import (
	"math"
	"strconv"
	"strings"
)

// NaN is the NotANumber sentinel returned for anything that does not parse to a finite value.
var NaN = math.NaN()

var numberCleaner = strings.NewReplacer(
	",", "",
	"%", "",
	"$", "",
	"€", "",
	"£", "",
	"¥", "",
	"\u00a0", "",
	"\u2009", "",
)

// ParseNumber converts a raw cell into a float64. Absent, empty, non-numeric and non-finite
// inputs yield NaN. Strings may carry currency symbols, thousands commas, a percent sign,
// a Unicode minus, or accounting parentheses for negatives. Comma is always a thousands
// separator and dot the decimal point.
func ParseNumber(v any) float64 {
	switch n := v.(type) {
	case nil:
		return NaN
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case string:
		return parseString(n)
	default:
		return NaN
	}
}

func parseString(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return NaN
	}
	s = strings.ReplaceAll(s, "\u2212", "-")
	if len(s) >= 2 && strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}
	s = strings.TrimSpace(numberCleaner.Replace(s))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return NaN
	}
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NaN
	}
	return f
}

// IsNumber reports whether f is a finite value rather than the NotANumber sentinel.
func IsNumber(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
