package datetime

import (
	"strings"
	"time"

	"travelclean/internal"
	"travelclean/internal/util"
)

const (
	StayDateLayout   = "02/01/2006"
	FlightDateLayout = "02/01/06"
	ClockLayout      = "15:04"
)

var FlightDateCandidates = []string{"2/1/2006", "2/1/06", "2006/1/2", "1/2/2006"}

type Report struct {
	Column   string
	Layout   string
	Fallback int
	Dropped  int
	Nulled   int
}

func UnifyStayDates(t *internal.Table, checkin, checkout string) (Report, error) {
	if err := t.RequireColumns(checkin, checkout); err != nil {
		return Report{}, err
	}
	for _, col := range []string{checkin, checkout} {
		raw := t.Column(col)
		out := make([]any, len(raw))
		for i, v := range raw {
			if tm, ok := ParseDate(v); ok {
				out[i] = tm.Format(StayDateLayout)
			}
		}
		t.SetColumn(col, out, internal.TypeDate)
	}
	dropped := t.Filter(func(r internal.Row) bool {
		return !internal.IsNull(r[checkin]) && !internal.IsNull(r[checkout])
	})
	return Report{Column: checkin + "," + checkout, Layout: StayDateLayout, Dropped: dropped}, nil
}

// UnifyFlightDate adopts the first candidate layout that parses at least one value of the
// column for the whole column, retries the rest with ParseDate and writes DD/MM/YY.
// Rows left without a date are dropped.
func UnifyFlightDate(t *internal.Table, col string) (Report, error) {
	if err := t.RequireColumns(col); err != nil {
		return Report{}, err
	}
	rep := Report{Column: col}

	raw := t.Column(col)
	texts := make([]string, len(raw))
	for i, v := range raw {
		if !internal.IsNull(v) {
			texts[i] = strings.ReplaceAll(util.CellString(v), "-", "/")
		}
	}

	parsed := make([]*time.Time, len(raw))
	for _, layout := range FlightDateCandidates {
		attempt := make([]*time.Time, len(raw))
		hits := 0
		for i, s := range texts {
			if s == "" {
				continue
			}
			if tm, err := time.Parse(layout, s); err == nil {
				attempt[i] = &tm
				hits++
			}
		}
		if hits > 0 {
			parsed = attempt
			rep.Layout = layout
			break
		}
	}

	out := make([]any, len(raw))
	for i, v := range raw {
		if parsed[i] == nil {
			tm, ok := ParseDate(v)
			if !ok {
				continue
			}
			parsed[i] = &tm
			rep.Fallback++
		}
		out[i] = parsed[i].Format(FlightDateLayout)
	}
	t.SetColumn(col, out, internal.TypeDate)
	rep.Dropped = t.Filter(func(r internal.Row) bool { return !internal.IsNull(r[col]) })
	return rep, nil
}

// UnifyClockTimes truncates departure/arrival times to HH:MM. Absent columns are skipped and
// unparsable values become null.
func UnifyClockTimes(t *internal.Table, cols ...string) []Report {
	reports := make([]Report, 0, len(cols))
	for _, col := range cols {
		if !t.HasColumn(col) {
			continue
		}
		rep := Report{Column: col, Layout: ClockLayout}
		raw := t.Column(col)
		out := make([]any, len(raw))
		for i, v := range raw {
			tm, ok := ParseClock(v)
			if !ok {
				if !internal.IsNull(v) {
					rep.Nulled++
				}
				continue
			}
			out[i] = tm.Format(ClockLayout)
		}
		t.SetColumn(col, out, internal.TypeTime)
		reports = append(reports, rep)
	}
	return reports
}
