package normalize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"travelclean/internal"
	"travelclean/internal/util"
)

var (
	reClassWord = regexp.MustCompile(`\bclass\b`)
	validStars  = map[float64]int64{1: 1, 2: 2, 3: 3, 4: 4, 5: 5}
)

// Star accepts 1..5 given as integers or integral decimals ("4", 4.0).
func Star(v any) (int64, bool) {
	if internal.IsNull(v) {
		return 0, false
	}
	f, ok := util.ParseNumber(v, false)
	if !ok {
		return 0, false
	}
	star, ok := validStars[f]
	return star, ok
}

func Rating(v any, commaDecimal bool) (float64, bool) {
	if internal.IsNull(v) {
		return 0, false
	}
	return util.ParseNumber(v, commaDecimal)
}

// SeatClass: "PREMIUM ECONOMY class/first" -> "Premium economy / First".
func SeatClass(v any) (string, bool) {
	if internal.IsNull(v) {
		return "", false
	}
	text := strings.ToLower(util.CellString(v))
	text = reClassWord.ReplaceAllString(text, "")

	upper := cases.Upper(language.Und)
	parts := make([]string, 0, 2)
	for _, p := range strings.Split(text, "/") {
		p = util.NormalizeSpaces(p)
		if p == "" {
			continue
		}
		first, size := utf8.DecodeRuneInString(p)
		parts = append(parts, upper.String(string(first))+p[size:])
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, " / "), true
}

func FirstNumber(v any) (float64, bool) {
	if internal.IsNull(v) {
		return 0, false
	}
	n, ok := util.FirstDigits(util.CellString(v))
	return float64(n), ok
}

func TransitCount(v any) int64 {
	if internal.IsNull(v) {
		return 0
	}
	n, ok := util.FirstDigits(util.CellString(v))
	if !ok {
		return 0
	}
	return n
}

func Airport(v any) (string, bool) {
	if internal.IsNull(v) {
		return "", false
	}
	tok := util.FirstToken(util.CellString(v))
	return tok, tok != ""
}
