package datetime

import (
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"

	"travelclean/internal"
	"travelclean/internal/util"
)

// genericLayouts are tried in order; day-first spellings come before month-first ones so
// "03/04/2025" reads as 3 April while "10/13/2025" still parses as 13 October.
var genericLayouts = []string{
	"2/1/2006", "2/1/06", "2-1-2006", "2-1-06", "2.1.2006", "2.1.06",
	"2006-1-2", "2006/1/2", "2006.1.2",
	time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02 15:04",
	"2/1/2006 15:04:05", "2/1/2006 15:04",
	"2 Jan 2006", "2 January 2006", "2-Jan-2006", "2 Jan 06", "Mon, 2 Jan 2006", "Monday, 2 January 2006",
	"Jan 2, 2006", "January 2, 2006", "Mon, Jan 2, 2006",
	"1/2/2006", "1/2/06", "1-2-2006",
}

var monthNames = map[string]string{
	"januari": "January", "februari": "February", "maret": "March", "mei": "May",
	"juni": "June", "juli": "July", "agustus": "August", "agu": "Aug", "agt": "Aug",
	"oktober": "October", "okt": "Oct", "desember": "December", "des": "Dec",
}

var reMonthWord = regexp.MustCompile(`(?i)\b(januari|februari|maret|mei|juni|juli|agustus|agu|agt|oktober|okt|desember|des)\b`)

// excel serial day numbers between 1954 and 2173
const (
	minExcelSerial = 20000
	maxExcelSerial = 100000
)

func ParseDate(v any) (time.Time, bool) {
	if internal.IsNull(v) {
		return time.Time{}, false
	}
	if tm, ok := v.(time.Time); ok {
		return tm, true
	}
	if f, ok := util.ParseNumber(v, false); ok {
		if f < minExcelSerial || f > maxExcelSerial {
			return time.Time{}, false
		}
		tm, err := excelize.ExcelDateToTime(f, false)
		return tm, err == nil
	}

	s := englishMonths(util.CellString(v))
	for _, layout := range genericLayouts {
		if tm, err := time.Parse(layout, s); err == nil {
			return tm, true
		}
	}
	if tm, err := cast.ToTimeE(s); err == nil {
		return tm, true
	}
	return time.Time{}, false
}

// englishMonths rewrites Indonesian month names ("13 Okt 2025") so English layouts match.
func englishMonths(s string) string {
	return reMonthWord.ReplaceAllStringFunc(s, func(m string) string {
		return monthNames[strings.ToLower(m)]
	})
}

// ParseClock reads "HH:MM[:SS]" with ":" or "." separators. Numbers below 1 are Excel
// day fractions unless they already read as a two-digit-minute clock ("0.30" is 00:30).
// A single minute digit is a minute, not tens: "9.3" is 09:03.
func ParseClock(v any) (time.Time, bool) {
	if internal.IsNull(v) {
		return time.Time{}, false
	}
	if f, ok := v.(float64); ok && f >= 0 && f < 1 {
		return dayFraction(f), true
	}
	s := strings.ReplaceAll(util.CellString(v), ".", ":")
	if tm, ok := parseLayouts(s, "15:04:05", "15:04"); ok {
		return tm, true
	}
	if f, ok := util.ParseNumber(v, false); ok && f >= 0 && f < 1 {
		return dayFraction(f), true
	}
	return parseLayouts(s, "15:4:05", "15:4")
}

func parseLayouts(s string, layouts ...string) (time.Time, bool) {
	for _, layout := range layouts {
		if tm, err := time.Parse(layout, s); err == nil {
			return tm, true
		}
	}
	return time.Time{}, false
}

func dayFraction(f float64) time.Time {
	secs := int(f*86400 + 0.5)
	return time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(secs) * time.Second)
}
