package storage

import "travelclean/internal"

type TableSink interface {
	SaveTable(source string, t *internal.Table) error
}

var (
	_ TableSink = (*DB)(nil)
	_ TableSink = (*PostgresWriter)(nil)
)
