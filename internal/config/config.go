package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"travelclean/internal"
)

var (
	ErrNoSources        = errors.New("at least one source is required")
	ErrNoEnabledSources = errors.New("at least one source must be enabled")
	ErrMissingName      = errors.New("source name is required")
	ErrMissingPath      = errors.New("source path is required")
	ErrUnknownKind      = errors.New("source kind must be 'hotel' or 'flight'")
	ErrDuplicateSource  = errors.New("duplicate source name")
	ErrUnknownSink      = errors.New("sink must be one of: xlsx, sqlite, postgres")
	ErrPostgresDSN      = errors.New("postgres sink requires DATABASE_URL")
)

var (
	HotelDropColumns      = []string{"Hotel_ID", "Scraped Timestamp", "Source URL"}
	HotelRequiredColumns  = []string{"Hotel Name", "Price", "Checkin Date", "Checkout Date"}
	FlightRequiredColumns = []string{"date", "airline", "departure_time", "arrival_time", "price", "origin", "destination", "seat_class"}
)

type Config struct {
	DataDir     string
	OutputDir   string
	DBPath      string
	SourcesFile string
	LogLevel    string
	Sinks       []string
	DatabaseURL string
	PrintRows   int

	Sources []Source
}

// Source describes one scraped export and how its schema lines up with the others.
type Source struct {
	Name         string             `yaml:"name"`
	Kind         internal.SourceKind `yaml:"kind"`
	Path         string             `yaml:"path"`
	Enabled      bool               `yaml:"enabled"`
	Rename       map[string]string  `yaml:"rename,omitempty"`
	Drop         []string           `yaml:"drop,omitempty"`
	Required     []string           `yaml:"required,omitempty"`
	CommaDecimal bool               `yaml:"comma_decimal"`
}

type sourcesFile struct {
	Sources []Source `yaml:"sources"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DataDir:     getEnv("DATA_DIR", filepath.Join(cwd, "data-scraping")),
		OutputDir:   getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		DBPath:      getEnv("DB_PATH", filepath.Join(cwd, "data", "travelclean.db")),
		SourcesFile: getEnv("SOURCES_FILE", filepath.Join(cwd, "sources.yaml")),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Sinks:       splitList(getEnv("SINKS", "xlsx,sqlite")),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		PrintRows:   getEnvInt("PRINT_ROWS", 20),
	}

	switch _, err := os.Stat(cfg.SourcesFile); {
	case err == nil:
		sources, err := LoadSources(cfg.SourcesFile)
		if err != nil {
			return Config{}, err
		}
		cfg.Sources = sources
	case errors.Is(err, os.ErrNotExist):
		cfg.Sources = DefaultSources()
	default:
		return Config{}, fmt.Errorf("failed to stat sources file: %w", err)
	}
	cfg.Sources = cfg.resolvePaths(cfg.Sources)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}
	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}
	out := make([]Source, 0, len(file.Sources))
	for _, s := range file.Sources {
		out = append(out, s.WithDefaults())
	}
	if err := validateSources(out); err != nil {
		return nil, fmt.Errorf("sources file %s: %w", path, err)
	}
	return out, nil
}

// DefaultSources lists the exports of the original scraping run.
func DefaultSources() []Source {
	sources := []Source{
		{Name: "agoda", Kind: internal.KindHotel, Path: "hotel/hotel_agoda_20250926_10days.xlsx", Enabled: true, CommaDecimal: true},
		{Name: "traveloka", Kind: internal.KindHotel, Path: "hotel/hotel_traveloka_20250926_10days.xlsx", Enabled: true, CommaDecimal: true},
		{Name: "trip", Kind: internal.KindFlight, Path: "flight/flight_trip.xlsx", Enabled: true, CommaDecimal: true,
			Rename: map[string]string{"fare_type": "seat_class", "baggage_value": "baggage"}},
		{Name: "traveloka-flight", Kind: internal.KindFlight, Path: "flight/flight_traveloka.xlsx", Enabled: true, CommaDecimal: true},
		{Name: "booking-flight", Kind: internal.KindFlight, Path: "flight/flight_booking.xlsx", Enabled: true, CommaDecimal: true},
		{Name: "tiket-flight", Kind: internal.KindFlight, Path: "flight/flight_tiket.xlsx", Enabled: true, CommaDecimal: true},
		{Name: "agoda-flight", Kind: internal.KindFlight, Path: "flight/flights_agoda.xlsx", Enabled: false, CommaDecimal: true},
	}
	for i := range sources {
		sources[i] = sources[i].WithDefaults()
	}
	return sources
}

// WithDefaults fills the drop and required column lists of the source kind when unset.
func (s Source) WithDefaults() Source {
	s.Kind = internal.SourceKind(strings.ToLower(strings.TrimSpace(string(s.Kind))))
	switch s.Kind {
	case internal.KindHotel:
		if s.Drop == nil {
			s.Drop = append([]string(nil), HotelDropColumns...)
		}
		if s.Required == nil {
			s.Required = append([]string(nil), HotelRequiredColumns...)
		}
	case internal.KindFlight:
		if s.Required == nil {
			s.Required = append([]string(nil), FlightRequiredColumns...)
		}
	}
	return s
}

func (c Config) WithSourcesFile(path string) (Config, error) {
	sources, err := LoadSources(path)
	if err != nil {
		return Config{}, err
	}
	c.SourcesFile = path
	c.Sources = c.resolvePaths(sources)
	return c, c.Validate()
}

func (c Config) WithSinks(list string) (Config, error) {
	c.Sinks = splitList(list)
	return c, c.Validate()
}

func (c Config) EnabledSources() []Source {
	var out []Source
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

func (c Config) Source(name string) (Source, bool) {
	for _, s := range c.Sources {
		if s.Name == name {
			return s, true
		}
	}
	return Source{}, false
}

func (c Config) HasSink(name string) bool {
	for _, s := range c.Sinks {
		if s == name {
			return true
		}
	}
	return false
}

func (c Config) Validate() error {
	if err := validateSources(c.Sources); err != nil {
		return err
	}
	for _, s := range c.Sinks {
		switch s {
		case "xlsx", "sqlite":
		case "postgres":
			if strings.TrimSpace(c.DatabaseURL) == "" {
				return ErrPostgresDSN
			}
		default:
			return fmt.Errorf("%w: %q", ErrUnknownSink, s)
		}
	}
	return nil
}

func validateSources(sources []Source) error {
	if len(sources) == 0 {
		return ErrNoSources
	}
	seen := map[string]struct{}{}
	enabled := 0
	for i, s := range sources {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("%w: source[%d]", ErrMissingName, i)
		}
		if strings.TrimSpace(s.Path) == "" {
			return fmt.Errorf("%w: source[%d]", ErrMissingPath, i)
		}
		if s.Kind != internal.KindHotel && s.Kind != internal.KindFlight {
			return fmt.Errorf("%w: source[%d] kind=%q", ErrUnknownKind, i, s.Kind)
		}
		if _, ok := seen[s.Name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateSource, s.Name)
		}
		seen[s.Name] = struct{}{}
		if s.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return ErrNoEnabledSources
	}
	return nil
}

func (c Config) resolvePaths(sources []Source) []Source {
	out := make([]Source, 0, len(sources))
	for _, s := range sources {
		if !filepath.IsAbs(s.Path) {
			s.Path = filepath.Join(c.DataDir, s.Path)
		}
		out = append(out, s)
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
