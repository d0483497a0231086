package internal

import "errors"

var (
	ErrMissingColumn   = errors.New("missing column")
	ErrDuplicateColumn = errors.New("duplicate column")
)

type SourceKind string

const (
	KindHotel  SourceKind = "hotel"
	KindFlight SourceKind = "flight"
)

type ColumnType string

const (
	TypeInteger     ColumnType = "integer"
	TypeDecimal     ColumnType = "decimal"
	TypeDate        ColumnType = "date"
	TypeTime        ColumnType = "time"
	TypeCategorical ColumnType = "categorical"
	TypeText        ColumnType = "text"
)

// Row maps a column name to its value. A nil value is null.
type Row map[string]any

type Table struct {
	Name    string
	Columns []string
	Types   map[string]ColumnType
	Rows    []Row
}

type ColumnNulls struct {
	Column string
	Nulls  int
}

type RunRow struct {
	ID        int
	TraceID   string
	Source    string
	Kind      string
	Path      string
	Status    string
	Message   string
	RowCount  int
	CreatedAt string
}
