package internal

import (
	"errors"
	"math"
	"testing"
)

func sampleTable() *Table {
	t := NewTable("hotels", []string{"Hotel_ID", "Hotel Name", "Price", "fare_type"})
	t.AppendRow(1, "Aston", 500000.0, "Economy")
	t.AppendRow(2, "nan", 420000.0, "Business")
	t.AppendRow(3, "Ibis", nil)
	return t
}

func TestIsNull(t *testing.T) {
	nulls := []any{nil, "", "  ", "NaN", "nan", " NULL ", "null", "n/a", "N/A", "NA", "#N/A", "None", "<NA>", "-nan", "NaT", math.NaN()}
	for _, v := range nulls {
		if !IsNull(v) {
			t.Fatalf("expected %#v to be null", v)
		}
	}
	values := []any{0, 0.0, "0", "Nana", false, "-", "Na", "NONE", "Null", "NAN"}
	for _, v := range values {
		if IsNull(v) {
			t.Fatalf("expected %#v to be a value", v)
		}
	}
}

func TestRenameAndDropColumns(t *testing.T) {
	tbl := sampleTable()
	if err := tbl.RenameColumns(map[string]string{"fare_type": "seat_class", "absent": "x"}); err != nil {
		t.Fatalf("RenameColumns: %v", err)
	}
	tbl.DropColumns("Hotel_ID", "Source URL")

	want := []string{"Hotel Name", "Price", "seat_class"}
	if len(tbl.Columns) != len(want) {
		t.Fatalf("columns = %v, want %v", tbl.Columns, want)
	}
	for i, c := range want {
		if tbl.Columns[i] != c {
			t.Fatalf("columns = %v, want %v", tbl.Columns, want)
		}
	}
	if tbl.Rows[0]["seat_class"] != "Economy" {
		t.Fatalf("renamed value lost: %v", tbl.Rows[0])
	}
	if _, ok := tbl.Rows[0]["Hotel_ID"]; ok {
		t.Fatalf("dropped column still present in row")
	}
	if _, ok := tbl.Types["fare_type"]; ok {
		t.Fatalf("old column type should be removed")
	}
}

func TestRenameColumnsChainedAndColliding(t *testing.T) {
	tbl := NewTable("flights", []string{"a", "b", "c"})
	tbl.AppendRow(1, 2, 3)

	if err := tbl.RenameColumns(map[string]string{"a": "b", "b": "d"}); err != nil {
		t.Fatalf("RenameColumns: %v", err)
	}
	want := []string{"b", "d", "c"}
	for i, c := range want {
		if tbl.Columns[i] != c {
			t.Fatalf("columns = %v, want %v", tbl.Columns, want)
		}
	}
	if tbl.Rows[0]["b"] != 1 || tbl.Rows[0]["d"] != 2 || tbl.Rows[0]["c"] != 3 {
		t.Fatalf("values moved incorrectly: %v", tbl.Rows[0])
	}

	err := tbl.RenameColumns(map[string]string{"b": "c"})
	if !errors.Is(err, ErrDuplicateColumn) {
		t.Fatalf("expected ErrDuplicateColumn, got %v", err)
	}
	if tbl.Columns[0] != "b" || tbl.Rows[0]["b"] != 1 {
		t.Fatalf("failed rename should leave the table unchanged: %v %v", tbl.Columns, tbl.Rows[0])
	}
}

func TestDropNullRows(t *testing.T) {
	tbl := sampleTable()
	if err := tbl.DropNullRows("Hotel Name", "Price"); err != nil {
		t.Fatalf("DropNullRows: %v", err)
	}
	if tbl.Len() != 1 || tbl.Rows[0]["Hotel Name"] != "Aston" {
		t.Fatalf("unexpected rows: %v", tbl.Rows)
	}

	err := tbl.DropNullRows("Checkin Date")
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestFilterAndClone(t *testing.T) {
	tbl := sampleTable()
	cp := tbl.Clone()
	dropped := tbl.Filter(func(r Row) bool { return r["Hotel_ID"] != 2 })
	if dropped != 1 || tbl.Len() != 2 {
		t.Fatalf("dropped=%d len=%d", dropped, tbl.Len())
	}
	if cp.Len() != 3 {
		t.Fatalf("clone should be independent, len=%d", cp.Len())
	}
	cp.Rows[0]["Hotel Name"] = "changed"
	if tbl.Rows[0]["Hotel Name"] != "Aston" {
		t.Fatalf("clone shares row maps")
	}
}

func TestSetColumnAndNullCounts(t *testing.T) {
	tbl := sampleTable()
	tbl.SetColumn("Star", []any{int64(4), nil}, TypeInteger)
	if tbl.Types["Star"] != TypeInteger || !tbl.HasColumn("Star") {
		t.Fatalf("column not added")
	}
	if tbl.Rows[2]["Star"] != nil {
		t.Fatalf("short value slice should pad with nil")
	}

	counts := map[string]int{}
	for _, c := range tbl.NullCounts() {
		counts[c.Column] = c.Nulls
	}
	if counts["Hotel Name"] != 1 || counts["Price"] != 1 || counts["Star"] != 2 || counts["Hotel_ID"] != 0 {
		t.Fatalf("unexpected null counts: %v", counts)
	}
}
