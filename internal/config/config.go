// Package config holds runtime configuration: defaults, validation, and the
// small amount of path normalization the CLI needs before scanning.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by the CLI flag layer before being passed (by pointer) to
// packages that need it.
type Config struct {
	// Root directory to scan (positional arg or interactive prompt).
	RootDir string

	// Scan behavior.
	Workers      int           // Probe concurrency. 0 means "pick at runtime".
	ProbeTimeout time.Duration // Per-file ffprobe budget. Default: 30s.

	// Export.
	NoExport  bool   // Skip writing the Markdown document.
	OutputDir string // Directory for the exported document. Default: ".".

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// the CLI applies flag overrides.
func DefaultConfig() Config {
	return Config{
		Workers:      0,
		ProbeTimeout: 30 * time.Second,
		NoExport:     false,
		OutputDir:    ".",
		Verbose:      false,
		ColorMode:    ColorAuto,
		CheckOnly:    false,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	for len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	return path
}

// Validate checks enum and numeric fields. When not in CheckOnly mode it
// also requires a root directory.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.Workers < 0 {
		return fmt.Errorf("invalid worker count %d (must be >= 0)", c.Workers)
	}
	if c.ProbeTimeout <= 0 {
		return errors.New("probe timeout must be positive")
	}
	if c.OutputDir == "" {
		return errors.New("output directory must not be empty")
	}

	if c.CheckOnly {
		return nil
	}
	if c.RootDir == "" {
		return errors.New("need a folder to scan")
	}
	return nil
}
