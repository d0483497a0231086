package storage

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"travelclean/internal"
)

var ErrNoTable = errors.New("no cleaned table stored")

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  source TEXT NOT NULL,
  kind TEXT NOT NULL,
  path TEXT NOT NULL,
  status TEXT NOT NULL,
  message TEXT NOT NULL DEFAULT '',
  rowCount INTEGER NOT NULL DEFAULT 0,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);

CREATE TABLE IF NOT EXISTS cleaned_tables (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  source TEXT NOT NULL,
  columnsJson TEXT NOT NULL,
  typesJson TEXT NOT NULL,
  rowCount INTEGER NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_cleaned_tables_source ON cleaned_tables(source);

CREATE TABLE IF NOT EXISTS cleaned_rows (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  tableId INTEGER NOT NULL,
  rowNo INTEGER NOT NULL,
  rowJson TEXT NOT NULL,
  UNIQUE(tableId, rowNo),
  FOREIGN KEY(tableId) REFERENCES cleaned_tables(id)
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) InsertRun(run internal.RunRow) error {
	_, err := d.conn.Exec(`
INSERT INTO runs (traceId, source, kind, path, status, message, rowCount)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, run.TraceID, run.Source, run.Kind, run.Path, run.Status, run.Message, run.RowCount)
	return err
}

func (d *DB) ListRuns(limit int) ([]internal.RunRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.conn.Query(`
SELECT id, traceId, source, kind, path, status, message, rowCount, createdAt
FROM runs
ORDER BY id DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []internal.RunRow{}
	for rows.Next() {
		var r internal.RunRow
		if err := rows.Scan(&r.ID, &r.TraceID, &r.Source, &r.Kind, &r.Path, &r.Status, &r.Message, &r.RowCount, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) SaveTable(source string, t *internal.Table) error {
	columnsJSON, err := json.Marshal(t.Columns)
	if err != nil {
		return err
	}
	typesJSON, err := json.Marshal(t.Types)
	if err != nil {
		return err
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`INSERT INTO cleaned_tables (source, columnsJson, typesJson, rowCount) VALUES (?, ?, ?, ?)`,
		source, string(columnsJSON), string(typesJSON), t.Len())
	if err != nil {
		return err
	}
	tableID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO cleaned_rows (tableId, rowNo, rowJson) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, row := range t.Rows {
		rowJSON, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		if _, err := stmt.Exec(tableID, i+1, string(rowJSON)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LatestTable reloads the most recently stored table of a source with its declared column types.
func (d *DB) LatestTable(source string) (*internal.Table, error) {
	var (
		tableID              int64
		columnsJSON, typesJS string
	)
	err := d.conn.QueryRow(`
SELECT id, columnsJson, typesJson FROM cleaned_tables
WHERE source = ?
ORDER BY id DESC
LIMIT 1
`, source).Scan(&tableID, &columnsJSON, &typesJS)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNoTable, source)
	}
	if err != nil {
		return nil, err
	}

	var columns []string
	if err := json.Unmarshal([]byte(columnsJSON), &columns); err != nil {
		return nil, err
	}
	t := internal.NewTable(source, columns)
	if err := json.Unmarshal([]byte(typesJS), &t.Types); err != nil {
		return nil, err
	}

	rows, err := d.conn.Query(`SELECT rowJson FROM cleaned_rows WHERE tableId = ? ORDER BY rowNo`, tableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		row, err := decodeRow(raw, t.Types)
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, row)
	}
	return t, rows.Err()
}

func decodeRow(raw string, types map[string]internal.ColumnType) (internal.Row, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var row internal.Row
	if err := dec.Decode(&row); err != nil {
		return nil, err
	}
	for k, v := range row {
		n, ok := v.(json.Number)
		if !ok {
			continue
		}
		if types[k] == internal.TypeInteger {
			if i, err := n.Int64(); err == nil {
				row[k] = i
				continue
			}
		}
		f, err := n.Float64()
		if err != nil {
			return nil, err
		}
		row[k] = f
	}
	return row, nil
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
