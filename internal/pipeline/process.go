package pipeline

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"travelclean/internal"
	"travelclean/internal/config"
	"travelclean/internal/logger"
	"travelclean/internal/storage"
)

const (
	StatusOK        = "ok"
	StatusMissing   = "missing"
	StatusFailed    = "failed"
	StatusSinkError = "sink_error"
)

type SourceError struct {
	Source string
	Path   string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s (%s): %v", e.Source, e.Path, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

func (c *Cleaner) ProcessSource(path string, schema Schema) (*internal.Table, error) {
	raw, err := LoadTable(path, schema.Name)
	if err != nil {
		return nil, &SourceError{Source: schema.Name, Path: path, Err: err}
	}
	c.log.Debug("loaded source", "source", schema.Name, "path", path, "rows", raw.Len(), "columns", len(raw.Columns))

	cleaned, err := c.Clean(raw, schema)
	if err != nil {
		return nil, &SourceError{Source: schema.Name, Path: path, Err: err}
	}
	return cleaned, nil
}

type RunRecorder interface {
	InsertRun(run internal.RunRow) error
}

type NamedSink struct {
	Name string
	Sink storage.TableSink
}

type Result struct {
	Source string
	Kind   internal.SourceKind
	Path   string
	Table  *internal.Table
	Err    error
}

// Runner cleans a list of sources one after the other. A failing source is logged and
// skipped; the others are unaffected.
type Runner struct {
	cleaner  *Cleaner
	sinks    []NamedSink
	recorder RunRecorder
	log      *logger.Logger
	traceID  string
}

func NewRunner(log *logger.Logger, recorder RunRecorder, sinks ...NamedSink) *Runner {
	return &Runner{
		cleaner:  NewCleaner(log),
		sinks:    sinks,
		recorder: recorder,
		log:      log,
		traceID:  traceID(),
	}
}

func (r *Runner) TraceID() string {
	return r.traceID
}

func (r *Runner) Run(ctx context.Context, sources []config.Source) ([]Result, error) {
	results := make([]Result, 0, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if !src.Enabled {
			continue
		}
		results = append(results, r.runSource(src))
	}
	return results, nil
}

func (r *Runner) runSource(src config.Source) Result {
	start := time.Now()
	log := r.log.With("source", src.Name, "path", src.Path)
	res := Result{Source: src.Name, Kind: src.Kind, Path: src.Path}

	table, err := r.cleaner.ProcessSource(src.Path, SchemaFromSource(src))
	if err != nil {
		res.Err = err
		status := StatusFailed
		if errors.Is(err, ErrMissingFile) {
			status = StatusMissing
			log.Warn("input file missing, skipping source")
		} else {
			log.Error("source cleaning failed", "err", err)
		}
		r.record(src, status, err.Error(), 0)
		return res
	}
	res.Table = table

	status, message := StatusOK, ""
	for _, s := range r.sinks {
		if err := s.Sink.SaveTable(src.Name, table); err != nil {
			log.Error("sink failed", "sink", s.Name, "err", err)
			status, message = StatusSinkError, fmt.Sprintf("%s: %v", s.Name, err)
			continue
		}
		log.Debug("table stored", "sink", s.Name)
	}
	log.Info("source cleaned", "rows", table.Len(), "ms", time.Since(start).Milliseconds())
	r.record(src, status, message, table.Len())
	return res
}

func (r *Runner) record(src config.Source, status, message string, rows int) {
	if r.recorder == nil {
		return
	}
	err := r.recorder.InsertRun(internal.RunRow{
		TraceID:  r.traceID,
		Source:   src.Name,
		Kind:     string(src.Kind),
		Path:     src.Path,
		Status:   status,
		Message:  message,
		RowCount: rows,
	})
	if err != nil {
		r.log.Warn("failed to record run", "source", src.Name, "err", err)
	}
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
