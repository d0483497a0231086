package datetime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelclean/internal"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  string
	}{
		{name: "day first", input: "13/10/2025", want: "2025-10-13"},
		{name: "ambiguous is day first", input: "03/04/2025", want: "2025-04-03"},
		{name: "two digit year", input: "03/04/25", want: "2025-04-03"},
		{name: "iso", input: "2025-10-13", want: "2025-10-13"},
		{name: "iso timestamp", input: "2025-10-13T08:30:00", want: "2025-10-13"},
		{name: "month first when day > 12", input: "10/13/2025", want: "2025-10-13"},
		{name: "english month", input: "13 Oct 2025", want: "2025-10-13"},
		{name: "indonesian month", input: "13 Okt 2025", want: "2025-10-13"},
		{name: "indonesian long month", input: "1 Desember 2025", want: "2025-12-01"},
		{name: "with time", input: "13/10/2025 08:30", want: "2025-10-13"},
		{name: "excel serial", input: 45943.0, want: "2025-10-13"},
		{name: "excel serial text", input: "45943", want: "2025-10-13"},
		{name: "time value", input: time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC), want: "2025-10-13"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tm, ok := ParseDate(tc.input)
			require.True(t, ok)
			assert.Equal(t, tc.want, tm.Format("2006-01-02"))
		})
	}
}

func TestParseDateRejects(t *testing.T) {
	for _, in := range []any{nil, "", "nan", "soon", "31/31/2025", 12.0} {
		_, ok := ParseDate(in)
		assert.False(t, ok, "input %v", in)
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		input any
		want  string
	}{
		{input: "08:30", want: "08:30"},
		{input: "8.30", want: "08:30"},
		{input: "14:05:59", want: "14:05"},
		{input: " 06.15.00 ", want: "06:15"},
		{input: 0.5, want: "12:00"},
		{input: "0.75", want: "18:00"},
		{input: "9.3", want: "09:03"},
		{input: "9:3:00", want: "09:03"},
		{input: "0.30", want: "00:30"},
		{input: "0.5", want: "12:00"},
	}
	for _, tc := range cases {
		tm, ok := ParseClock(tc.input)
		require.True(t, ok, "input %v", tc.input)
		assert.Equal(t, tc.want, tm.Format(ClockLayout), "input %v", tc.input)
	}

	_, ok := ParseClock("soon")
	assert.False(t, ok)
	_, ok = ParseClock("25:00")
	assert.False(t, ok)
}

func flightTable(dates ...any) *internal.Table {
	t := internal.NewTable("flights", []string{"date", "airline"})
	for _, d := range dates {
		t.AppendRow(d, "Garuda")
	}
	return t
}

func TestUnifyFlightDateMixedFormats(t *testing.T) {
	tbl := flightTable("13/10/2025", "2025-10-13", "garbage", nil)
	rep, err := UnifyFlightDate(tbl, "date")
	require.NoError(t, err)

	assert.Equal(t, []any{"13/10/25", "13/10/25"}, tbl.Column("date"))
	assert.Equal(t, "2/1/2006", rep.Layout)
	assert.Equal(t, 1, rep.Fallback)
	assert.Equal(t, 2, rep.Dropped)
	assert.Equal(t, internal.TypeDate, tbl.Types["date"])
}

func TestUnifyFlightDateColumnFormatWins(t *testing.T) {
	tbl := flightTable("03/04/25", "05/06/25")
	rep, err := UnifyFlightDate(tbl, "date")
	require.NoError(t, err)

	assert.Equal(t, "2/1/06", rep.Layout)
	assert.Equal(t, []any{"03/04/25", "05/06/25"}, tbl.Column("date"))
}

func TestUnifyFlightDateYearFirst(t *testing.T) {
	tbl := flightTable("2025-04-03", "2025/12/31")
	rep, err := UnifyFlightDate(tbl, "date")
	require.NoError(t, err)

	assert.Equal(t, "2006/1/2", rep.Layout)
	assert.Equal(t, []any{"03/04/25", "31/12/25"}, tbl.Column("date"))
}

func TestUnifyFlightDateMonthFirst(t *testing.T) {
	tbl := flightTable("12/31/2025")
	rep, err := UnifyFlightDate(tbl, "date")
	require.NoError(t, err)

	assert.Equal(t, "1/2/2006", rep.Layout)
	assert.Equal(t, []any{"31/12/25"}, tbl.Column("date"))
}

func TestUnifyFlightDateGenericOnly(t *testing.T) {
	tbl := flightTable("13 Oct 2025", 45943.0)
	rep, err := UnifyFlightDate(tbl, "date")
	require.NoError(t, err)

	assert.Empty(t, rep.Layout)
	assert.Equal(t, 2, rep.Fallback)
	assert.Equal(t, []any{"13/10/25", "13/10/25"}, tbl.Column("date"))
}

func TestUnifyStayDates(t *testing.T) {
	tbl := internal.NewTable("hotels", []string{"Hotel Name", "Checkin Date", "Checkout Date"})
	tbl.AppendRow("A", "2025-10-13", "14/10/2025")
	tbl.AppendRow("B", "bad", "15/10/2025")
	tbl.AppendRow("C", "16 Okt 2025", nil)

	rep, err := UnifyStayDates(tbl, "Checkin Date", "Checkout Date")
	require.NoError(t, err)

	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, 2, rep.Dropped)
	assert.Equal(t, "13/10/2025", tbl.Rows[0]["Checkin Date"])
	assert.Equal(t, "14/10/2025", tbl.Rows[0]["Checkout Date"])
}

func TestUnifyClockTimes(t *testing.T) {
	tbl := internal.NewTable("flights", []string{"departure_time", "arrival_time"})
	tbl.AppendRow("08.30", "10:45:00")
	tbl.AppendRow("soon", 0.5)

	reps := UnifyClockTimes(tbl, "departure_time", "arrival_time", "missing")
	require.Len(t, reps, 2)
	assert.Equal(t, 1, reps[0].Nulled)

	assert.Equal(t, []any{"08:30", nil}, tbl.Column("departure_time"))
	assert.Equal(t, []any{"10:45", "12:00"}, tbl.Column("arrival_time"))
}
