package util

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/spf13/cast"
	"golang.org/x/text/unicode/norm"
)

var reSpaces = regexp.MustCompile(`\s+`)

func NormalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

// CleanText folds compatibility characters (NBSP, full-width digits) and drops control
// characters before collapsing whitespace.
func CleanText(input string) string {
	s := norm.NFKC.String(input)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
	return NormalizeSpaces(s)
}

func CellString(v any) string {
	if v == nil {
		return ""
	}
	return CleanText(cast.ToString(v))
}

// FirstToken returns the first whitespace separated token ("CGK Soekarno-Hatta" -> "CGK").
func FirstToken(input string) string {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
