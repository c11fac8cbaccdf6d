// Package config defines core configuration types for ifdeflens.
// These types are pure data structures with no dependency on how they are loaded.
package config

import "time"

// OutputFormat specifies the output format for scan results.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// DefaultDebounce is the quiet period before a changed file is re-analyzed.
const DefaultDebounce = 500 * time.Millisecond

// Config is the root configuration structure for ifdeflens.
type Config struct {
	// Families maps file extensions to directive family names
	// ("markup", "line", "block"). Entries override the built-in table.
	Families map[string][]string `yaml:"families"`

	// Detect enables language detection for extensions not in Families
	// or the built-in table.
	Detect bool `yaml:"detect"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `yaml:"ignore"`

	// Jobs specifies the number of parallel workers (0 = auto).
	Jobs int `yaml:"jobs"`

	// Debounce is the watch-mode quiet period as a duration string.
	Debounce string `yaml:"debounce"`

	// Format specifies the output format.
	Format OutputFormat `yaml:"format"`

	// CLI-level options (not persisted to config files).

	// ShowDead lists only blocks that no platform can reach.
	ShowDead bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Families: make(map[string][]string),
		Ignore:   []string{"node_modules/**", "unpackage/**", "dist/**"},
		Jobs:     0, // 0 means use GOMAXPROCS
		Debounce: DefaultDebounce.String(),
		Format:   FormatText,
	}
}

// DebounceDuration parses Debounce, falling back to DefaultDebounce when
// it is empty.
func (c *Config) DebounceDuration() (time.Duration, error) {
	if c == nil || c.Debounce == "" {
		return DefaultDebounce, nil
	}
	return time.ParseDuration(c.Debounce)
}
