package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"travelclean/internal"
	"travelclean/internal/logger"
)

// PostgresWriter stores cleaned rows in PostgreSQL as JSONB documents.
type PostgresWriter struct {
	db     *sql.DB
	logger *logger.Logger
}

func NewPostgresWriter(connStr string, log *logger.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Minute * 5)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	log.Info("connected to postgres")
	return &PostgresWriter{db: db, logger: log}, nil
}

func (w *PostgresWriter) CreateTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS cleaned_rows (
		id         SERIAL PRIMARY KEY,
		source     VARCHAR(100) NOT NULL,
		batch      TIMESTAMPTZ  NOT NULL,
		row_no     INTEGER      NOT NULL,
		payload    JSONB        NOT NULL,
		created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
		UNIQUE (source, batch, row_no)
	);

	CREATE INDEX IF NOT EXISTS idx_cleaned_rows_source ON cleaned_rows (source);
	`
	if _, err := w.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// SaveTable inserts every row of t in a single transaction under one batch timestamp.
func (w *PostgresWriter) SaveTable(source string, t *internal.Table) (err error) {
	if t.Len() == 0 {
		return nil
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.Prepare(`
		INSERT INTO cleaned_rows (source, batch, row_no, payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (source, batch, row_no) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	batch := time.Now().UTC()
	for i, row := range t.Rows {
		payload, mErr := json.Marshal(row)
		if mErr != nil {
			err = fmt.Errorf("row %d: %w", i+1, mErr)
			return err
		}
		if _, err = stmt.Exec(source, batch, i+1, string(payload)); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i+1, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	w.logger.Info("stored cleaned rows", "sink", "postgres", "source", source, "rows", t.Len())
	return nil
}

func (w *PostgresWriter) Close() error {
	if w.db == nil {
		return nil
	}
	return w.db.Close()
}
