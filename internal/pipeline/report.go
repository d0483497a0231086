package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"travelclean/internal"
	"travelclean/internal/util"
)

const maxCellWidth = 40

func WriteNullCounts(w io.Writer, t *internal.Table) error {
	counts := t.NullCounts()
	width := 0
	for _, c := range counts {
		if n := runewidth.StringWidth(c.Column); n > width {
			width = n
		}
	}
	if _, err := fmt.Fprintf(w, "Null values on each column of %s:\n", t.Name); err != nil {
		return err
	}
	for _, c := range counts {
		if _, err := fmt.Fprintf(w, "%s %d\n", runewidth.FillRight(c.Column, width), c.Nulls); err != nil {
			return err
		}
	}
	return nil
}

// WriteTable renders up to limit rows as a pipe table. A limit of 0 prints every row.
func WriteTable(w io.Writer, t *internal.Table, limit int) error {
	rows := t.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	cells := make([][]string, 0, len(rows)+1)
	cells = append(cells, append([]string(nil), t.Columns...))
	for _, r := range rows {
		line := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			line[i] = displayCell(r[c])
		}
		cells = append(cells, line)
	}

	widths := make([]int, len(t.Columns))
	for _, line := range cells {
		for i, cell := range line {
			if n := runewidth.StringWidth(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}

	var sb strings.Builder
	for i, line := range cells {
		writeRow(&sb, line, widths)
		if i == 0 {
			sep := make([]string, len(widths))
			for j, n := range widths {
				sep[j] = strings.Repeat("-", n)
			}
			writeRow(&sb, sep, widths)
		}
	}
	if len(rows) < t.Len() {
		fmt.Fprintf(&sb, "... %d more rows\n", t.Len()-len(rows))
	}
	fmt.Fprintf(&sb, "[%d rows x %d columns]\n", t.Len(), len(t.Columns))

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeRow(sb *strings.Builder, line []string, widths []int) {
	sb.WriteString("|")
	for i, cell := range line {
		sb.WriteString(" ")
		sb.WriteString(runewidth.FillRight(cell, widths[i]))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}

func displayCell(v any) string {
	if internal.IsNull(v) {
		return "NaN"
	}
	s := util.CellString(v)
	if f, ok := v.(float64); ok {
		s = fmt.Sprintf("%.1f", f)
	}
	return runewidth.Truncate(s, maxCellWidth, "...")
}
