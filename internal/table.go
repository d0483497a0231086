package internal

import (
	"fmt"
	"math"
	"strings"
)

// naMarkers are the strings spreadsheet exports use for an empty cell. Matching is case sensitive.
var naMarkers = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {}, "-NaN": {}, "-nan": {},
	"1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {},
	"n/a": {}, "nan": {}, "null": {}, "NaT": {},
}

func IsNull(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return true
		}
		_, ok := naMarkers[s]
		return ok
	case float64:
		return math.IsNaN(t)
	}
	return false
}

func NewTable(name string, columns []string) *Table {
	types := make(map[string]ColumnType, len(columns))
	for _, c := range columns {
		types[c] = TypeText
	}
	return &Table{Name: name, Columns: append([]string(nil), columns...), Types: types}
}

func (t *Table) Len() int {
	return len(t.Rows)
}

func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// RequireColumns returns ErrMissingColumn naming the first absent column.
func (t *Table) RequireColumns(names ...string) error {
	for _, n := range names {
		if !t.HasColumn(n) {
			return fmt.Errorf("%w: %q in table %s", ErrMissingColumn, n, t.Name)
		}
	}
	return nil
}

func (t *Table) AppendRow(values ...any) {
	row := make(Row, len(t.Columns))
	for i, c := range t.Columns {
		if i < len(values) {
			row[c] = values[i]
		} else {
			row[c] = nil
		}
	}
	t.Rows = append(t.Rows, row)
}

func (t *Table) Clone() *Table {
	out := &Table{
		Name:    t.Name,
		Columns: append([]string(nil), t.Columns...),
		Types:   make(map[string]ColumnType, len(t.Types)),
		Rows:    make([]Row, 0, len(t.Rows)),
	}
	for k, v := range t.Types {
		out.Types[k] = v
	}
	for _, r := range t.Rows {
		cp := make(Row, len(r))
		for k, v := range r {
			cp[k] = v
		}
		out.Rows = append(out.Rows, cp)
	}
	return out
}

// RenameColumns applies every rename at once, so {a: b, b: c} moves a to b and b to c.
// Unknown keys are ignored. A rename that would leave two columns with the same name fails
// and leaves the table unchanged.
func (t *Table) RenameColumns(mapping map[string]string) error {
	renamed := make([]string, len(t.Columns))
	seen := make(map[string]struct{}, len(t.Columns))
	for i, c := range t.Columns {
		name := c
		if to, ok := mapping[c]; ok {
			name = to
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: %q in table %s", ErrDuplicateColumn, name, t.Name)
		}
		seen[name] = struct{}{}
		renamed[i] = name
	}

	types := make(map[string]ColumnType, len(renamed))
	for i, c := range t.Columns {
		types[renamed[i]] = t.Types[c]
	}
	for i, r := range t.Rows {
		row := make(Row, len(renamed))
		for j, c := range t.Columns {
			row[renamed[j]] = r[c]
		}
		t.Rows[i] = row
	}
	t.Columns = renamed
	t.Types = types
	return nil
}

// DropColumns removes the named columns. Absent columns are not an error.
func (t *Table) DropColumns(names ...string) {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	kept := t.Columns[:0]
	for _, c := range t.Columns {
		if _, ok := drop[c]; ok {
			delete(t.Types, c)
			for _, r := range t.Rows {
				delete(r, c)
			}
			continue
		}
		kept = append(kept, c)
	}
	t.Columns = kept
}

// DropNullRows removes every row holding a null in any of the required columns.
func (t *Table) DropNullRows(required ...string) error {
	if err := t.RequireColumns(required...); err != nil {
		return err
	}
	t.Filter(func(r Row) bool {
		for _, c := range required {
			if IsNull(r[c]) {
				return false
			}
		}
		return true
	})
	return nil
}

func (t *Table) Filter(keep func(Row) bool) int {
	kept := t.Rows[:0]
	dropped := 0
	for _, r := range t.Rows {
		if keep(r) {
			kept = append(kept, r)
			continue
		}
		dropped++
	}
	for i := len(kept); i < len(t.Rows); i++ {
		t.Rows[i] = nil
	}
	t.Rows = kept
	return dropped
}

func (t *Table) Column(name string) []any {
	out := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[name]
	}
	return out
}

// SetColumn replaces the values of a column, adding it when absent.
func (t *Table) SetColumn(name string, values []any, typ ColumnType) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
	t.Types[name] = typ
	for i, r := range t.Rows {
		if i < len(values) {
			r[name] = values[i]
		} else {
			r[name] = nil
		}
	}
}

func (t *Table) NullCounts() []ColumnNulls {
	out := make([]ColumnNulls, 0, len(t.Columns))
	for _, c := range t.Columns {
		n := 0
		for _, r := range t.Rows {
			if IsNull(r[c]) {
				n++
			}
		}
		out = append(out, ColumnNulls{Column: c, Nulls: n})
	}
	return out
}
