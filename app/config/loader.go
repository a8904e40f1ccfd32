package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and validation of the run configuration
type Loader struct {
	path string
}

// NewLoader creates a loader for the given sources file. An empty path means
// the built-in defaults are used.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads the sources file, fills gaps with defaults and validates the
// result.
func (l *Loader) Load() (*Config, error) {
	if l.path == "" {
		slog.Debug("No sources file given, using built-in defaults")
		return Default(), nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	l.setDefaults(&cfg)

	if err := l.validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid sources file %s: %w", l.path, err)
	}

	slog.Debug("Configuration loaded", "path", l.path, "sources", len(cfg.Sources))

	return &cfg, nil
}

// setDefaults fills any list left empty in the file with the built-in table
func (l *Loader) setDefaults(cfg *Config) {
	defaults := defaultTables()

	if len(cfg.Sources) == 0 {
		cfg.Sources = Default().Sources
	}
	if len(cfg.Tables.TrackingParams) == 0 {
		cfg.Tables.TrackingParams = defaults.TrackingParams
	}
	if len(cfg.Tables.OwnHosts) == 0 {
		cfg.Tables.OwnHosts = defaults.OwnHosts
	}
	if len(cfg.Tables.OwnSuffixes) == 0 {
		cfg.Tables.OwnSuffixes = defaults.OwnSuffixes
	}
	if len(cfg.Tables.BlockedSuffixes) == 0 {
		cfg.Tables.BlockedSuffixes = defaults.BlockedSuffixes
	}
	if len(cfg.Tables.BlockedExtensions) == 0 {
		cfg.Tables.BlockedExtensions = defaults.BlockedExtensions
	}
	if len(cfg.Tables.JunkTitles) == 0 {
		cfg.Tables.JunkTitles = defaults.JunkTitles
	}
}

// validate validates the configuration
func (l *Loader) validate(cfg *Config) error {
	seen := make(map[string]bool, len(cfg.Sources))

	for i, src := range cfg.Sources {
		if src.Name == "" {
			return fmt.Errorf("source at index %d: name is required", i)
		}
		if src.URL == "" {
			return fmt.Errorf("source %s: url is required", src.Name)
		}
		parsed, err := url.Parse(src.URL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("source %s: invalid url %q", src.Name, src.URL)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("source %s: unsupported scheme %q", src.Name, parsed.Scheme)
		}
		if seen[src.Name] {
			return fmt.Errorf("duplicate source name %q", src.Name)
		}
		seen[src.Name] = true
	}

	return nil
}
