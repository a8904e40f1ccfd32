package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Input configuration
	SourcesFile string `long:"sources" env:"SOURCES_FILE" description:"YAML file listing sources and denylist overrides (built-in defaults when omitted)"`
	PostLimit   int    `long:"post-limit" env:"POST_LIMIT" default:"50" description:"Maximum recent posts fetched per source"`

	// Output configuration
	OutputFile string `long:"output" env:"OUTPUT_FILE" default:"rss.xml" description:"Path of the generated feed file"`
	MaxItems   int    `long:"max-items" env:"MAX_ITEMS" default:"100" description:"Maximum items in the generated feed"`

	// Fetch behavior
	SourceTimeout  int `long:"source-timeout" env:"SOURCE_TIMEOUT" default:"20" description:"Source listing fetch timeout in seconds"`
	ResolveTimeout int `long:"resolve-timeout" env:"RESOLVE_TIMEOUT" default:"15" description:"Per-candidate title fetch timeout in seconds"`
	PacingDelay    int `long:"pacing-delay" env:"PACING_DELAY" default:"2" description:"Delay between source fetches in seconds"`
	WorkerCount    int `long:"worker-count" env:"WORKER_COUNT" default:"4" description:"Number of workers for candidate title resolution"`

	// Optional persistent dedup store
	StorePath string `long:"store-path" env:"STORE_PATH" description:"SQLite file for a cross-run item store (in-memory when omitted)"`

	// Optional article excerpt extraction
	ExtractExcerpts bool `long:"extract-excerpts" env:"EXTRACT_EXCERPTS" description:"Extract a short article excerpt for item descriptions"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"marit/0.2 (outbound link aggregation for personal use)" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		SourcesFile:     raw.SourcesFile,
		PostLimit:       raw.PostLimit,
		OutputFile:      raw.OutputFile,
		MaxItems:        raw.MaxItems,
		SourceTimeout:   raw.SourceTimeout,
		ResolveTimeout:  raw.ResolveTimeout,
		PacingDelay:     raw.PacingDelay,
		WorkerCount:     raw.WorkerCount,
		StorePath:       raw.StorePath,
		ExtractExcerpts: raw.ExtractExcerpts,
		UserAgent:       raw.UserAgent,
		Timezone:        raw.Timezone,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
