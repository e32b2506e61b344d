/*
Package config provides environment-level configuration for the unifmt tool.
It covers the knobs that belong to the tool process itself, not to formatting
style; style options live in the discovered configuration file and CLI flags.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Environment Variables:

	UNIFMT_WORKERS        Number of concurrent file tasks
	UNIFMT_RATE_LIMIT     Rate limit for task starts per second
	UNIFMT_REPORT         Report format: text|json|yaml
	UNIFMT_NO_PROGRESS    Disable the progress display
	UNIFMT_NO_COLOR       Disable colored output
	UNIFMT_VERBOSE        Verbosity level (number of 'v's)

Default Values:

	Workers:    Number of CPU cores
	RateLimit:  0 (unlimited)
	Report:     "text"
*/
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all process-level configuration parameters
type Config struct {
	// Workers is the number of concurrent file-formatting tasks
	Workers int

	// RateLimit is the maximum number of task starts per second (0 for unlimited)
	RateLimit int

	// Report specifies the report format (text, json, or yaml)
	Report string

	// NoProgress disables the progress display
	NoProgress bool

	// NoColor disables colored output
	NoColor bool

	// Verbose sets the verbosity level
	Verbose int
}

// validReportFormats contains the list of supported report formats
var validReportFormats = map[string]bool{
	"text": true,
	"json": true,
	"yaml": true,
}

// Load reads configuration from environment variables and validates it
func Load() (Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("rate_limit", 0)
	v.SetDefault("report", "text")
	v.SetDefault("no_progress", false)
	v.SetDefault("no_color", false)
	v.SetDefault("verbose", 0)

	// Configure environment variables
	v.SetEnvPrefix("UNIFMT")
	v.AutomaticEnv()

	v.BindEnv("workers")
	v.BindEnv("rate_limit")
	v.BindEnv("report")
	v.BindEnv("no_progress")
	v.BindEnv("no_color")
	v.BindEnv("verbose")

	// Process verbosity level from string of 'v's
	if verboseStr := v.GetString("verbose"); verboseStr != "" {
		v.Set("verbose", strings.Count(verboseStr, "v"))
	}

	cfg := Config{
		Workers:    v.GetInt("workers"),
		RateLimit:  v.GetInt("rate_limit"),
		Report:     v.GetString("report"),
		NoProgress: v.GetBool("no_progress"),
		NoColor:    v.GetBool("no_color"),
		Verbose:    v.GetInt("verbose"),
	}

	// Handle special case for workers=0
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers count must be positive")
	}
	maxWorkers := runtime.NumCPU() * 4
	if c.Workers > maxWorkers {
		return fmt.Errorf("workers count cannot exceed system CPU count * 4")
	}

	if !validReportFormats[c.Report] {
		return fmt.Errorf("invalid report format: must be one of [text json yaml]")
	}

	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}

	return nil
}

// String returns a string representation of the configuration
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{Workers: %d, RateLimit: %d, Report: %s, NoProgress: %v, NoColor: %v, Verbose: %d}",
		c.Workers, c.RateLimit, c.Report, c.NoProgress, c.NoColor, c.Verbose,
	)
}
