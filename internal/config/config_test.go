package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"travelclean/internal"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadSourcesFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	writeFile(t, path, `sources:
  - name: agoda
    kind: Hotel
    path: hotel/agoda.xlsx
    enabled: true
  - name: trip
    kind: flight
    path: flight/trip.xlsx
    enabled: true
    comma_decimal: true
    rename:
      fare_type: seat_class
    required: [date, airline]
`)

	sources, err := LoadSources(path)
	if err != nil {
		t.Fatalf("LoadSources: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	hotel := sources[0]
	if hotel.Kind != internal.KindHotel {
		t.Fatalf("expected kind normalized to hotel, got %q", hotel.Kind)
	}
	if len(hotel.Drop) != len(HotelDropColumns) || len(hotel.Required) != len(HotelRequiredColumns) {
		t.Fatalf("expected hotel defaults, got drop=%v required=%v", hotel.Drop, hotel.Required)
	}
	flight := sources[1]
	if flight.Rename["fare_type"] != "seat_class" || !flight.CommaDecimal {
		t.Fatalf("unexpected flight source: %+v", flight)
	}
	if len(flight.Required) != 2 {
		t.Fatalf("explicit required list should be kept, got %v", flight.Required)
	}
}

func TestLoadSourcesValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want error
	}{
		{"empty", "sources: []\n", ErrNoSources},
		{"missing path", "sources:\n  - name: a\n    kind: hotel\n    enabled: true\n", ErrMissingPath},
		{"bad kind", "sources:\n  - name: a\n    kind: train\n    path: a.xlsx\n    enabled: true\n", ErrUnknownKind},
		{"duplicate", "sources:\n  - {name: a, kind: hotel, path: a.xlsx, enabled: true}\n  - {name: a, kind: flight, path: b.xlsx, enabled: true}\n", ErrDuplicateSource},
		{"none enabled", "sources:\n  - {name: a, kind: hotel, path: a.xlsx}\n", ErrNoEnabledSources},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sources.yaml")
			writeFile(t, path, tc.body)
			_, err := LoadSources(path)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestDefaultSources(t *testing.T) {
	cfg := Config{Sources: DefaultSources(), Sinks: []string{"xlsx"}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default sources should validate: %v", err)
	}
	if got := len(cfg.EnabledSources()); got != 6 {
		t.Fatalf("expected 6 enabled sources, got %d", got)
	}
	trip, ok := cfg.Source("trip")
	if !ok || trip.Rename["baggage_value"] != "baggage" {
		t.Fatalf("trip source should rename baggage_value: %+v", trip)
	}
	agoda, _ := cfg.Source("agoda-flight")
	if agoda.Enabled {
		t.Fatalf("agoda flights should be disabled by default")
	}
}

func TestValidateSinks(t *testing.T) {
	cfg := Config{Sources: DefaultSources(), Sinks: []string{"parquet"}}
	if err := cfg.Validate(); !errors.Is(err, ErrUnknownSink) {
		t.Fatalf("expected ErrUnknownSink, got %v", err)
	}
	cfg.Sinks = []string{"postgres"}
	if err := cfg.Validate(); !errors.Is(err, ErrPostgresDSN) {
		t.Fatalf("expected ErrPostgresDSN, got %v", err)
	}
	cfg.DatabaseURL = "postgres://localhost/travel"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.HasSink("postgres") || cfg.HasSink("xlsx") {
		t.Fatalf("HasSink mismatch for %v", cfg.Sinks)
	}
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_DIR", dir)
	t.Setenv("SOURCES_FILE", filepath.Join(dir, "missing.yaml"))
	t.Setenv("SINKS", " XLSX , sqlite ,")
	t.Setenv("PRINT_ROWS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Sinks) != 2 || cfg.Sinks[0] != "xlsx" {
		t.Fatalf("unexpected sinks: %v", cfg.Sinks)
	}
	if cfg.PrintRows != 20 {
		t.Fatalf("expected fallback print rows, got %d", cfg.PrintRows)
	}
	agoda, ok := cfg.Source("agoda")
	if !ok || agoda.Path != filepath.Join(dir, "hotel", "hotel_agoda_20250926_10days.xlsx") {
		t.Fatalf("source path not resolved against data dir: %+v", agoda)
	}
}

func TestLoadRejectsUnreadableSourcesFile(t *testing.T) {
	dir := t.TempDir()
	notDir := filepath.Join(dir, "notadir")
	writeFile(t, notDir, "x")
	t.Setenv("DATA_DIR", dir)
	t.Setenv("SINKS", "xlsx")
	t.Setenv("SOURCES_FILE", filepath.Join(notDir, "sources.yaml"))

	if _, err := Load(); err == nil {
		t.Fatalf("expected an error when the sources file cannot be checked")
	}
}

func TestExampleSourcesMatchDefaults(t *testing.T) {
	sources, err := LoadSources(filepath.Join("..", "..", "sources.example.yaml"))
	if err != nil {
		t.Fatalf("LoadSources: %v", err)
	}
	defaults := DefaultSources()
	if len(sources) != len(defaults) {
		t.Fatalf("expected %d sources, got %d", len(defaults), len(sources))
	}
	for i, s := range sources {
		d := defaults[i]
		if s.Name != d.Name || s.Kind != d.Kind || s.Path != d.Path || s.Enabled != d.Enabled {
			t.Fatalf("source %d differs: %+v vs %+v", i, s, d)
		}
	}
}
