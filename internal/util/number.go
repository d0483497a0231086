package util

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

var digitsPattern = regexp.MustCompile(`\d+`)

// FirstDigits extracts the first run of ASCII digits, ignoring units around it ("20 kg" -> 20).
func FirstDigits(input string) (int64, bool) {
	m := digitsPattern.FindString(input)
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseNumber coerces a cell value to a finite float64. With commaDecimal a textual
// "8,5" reads as 8.5.
func ParseNumber(v any, commaDecimal bool) (float64, bool) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(strings.ReplaceAll(s, " ", " "))
		if s == "" {
			return 0, false
		}
		if commaDecimal {
			s = strings.ReplaceAll(s, ",", ".")
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	}
	if _, ok := v.(bool); ok {
		return 0, false
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func RoundHalfEven(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.RoundToEven(v*p) / p
}
