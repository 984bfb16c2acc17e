// Package config loads and validates the assetstage configuration file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// MissingSourcePolicy controls what happens when the asset source directory is absent.
type MissingSourcePolicy string

const (
	// MissingSourceFail aborts the run with a filesystem error (the default).
	MissingSourceFail MissingSourcePolicy = "fail"
	// MissingSourceSkip logs a warning and treats the run as a no-op.
	MissingSourceSkip MissingSourcePolicy = "skip"
)

// NormalizeMissingSourcePolicy canonicalizes user input returning empty string if unknown.
func NormalizeMissingSourcePolicy(raw string) MissingSourcePolicy {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(MissingSourceFail):
		return MissingSourceFail
	case string(MissingSourceSkip):
		return MissingSourceSkip
	default:
		return ""
	}
}

// WatchConfig holds continuous-mode tuning knobs. Durations are YAML duration
// strings ("500ms", "10m") parsed via the accessor methods.
type WatchConfig struct {
	// Debounce coalesces rapid filesystem events into a single re-stage (default 500ms).
	Debounce string `yaml:"debounce,omitempty"`
	// ResyncInterval schedules periodic full resyncs independent of
	// filesystem events. Empty disables periodic resync.
	ResyncInterval string `yaml:"resync_interval,omitempty"`
	// MetricsListen is the address for the Prometheus /metrics endpoint in
	// watch mode. Empty disables the endpoint.
	MetricsListen string `yaml:"metrics_listen,omitempty"`
}

// DebounceDuration returns the parsed debounce window, defaulting to 500ms.
func (w WatchConfig) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}

// ResyncIntervalDuration returns the parsed resync interval, 0 if disabled.
func (w WatchConfig) ResyncIntervalDuration() time.Duration {
	d, err := time.ParseDuration(w.ResyncInterval)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}

// HistoryConfig configures the SQLite run-history store.
type HistoryConfig struct {
	// Path to the database file. Empty disables run history.
	Path string `yaml:"path,omitempty"`
}

// NotifyConfig configures NATS run notifications.
type NotifyConfig struct {
	// URL of the NATS server. Empty disables notifications.
	URL string `yaml:"url,omitempty"`
	// Subject to publish run events on.
	Subject string `yaml:"subject,omitempty"`
}

// Config represents the full assetstage configuration.
type Config struct {
	// SiteDir is the generator's output directory the assets are staged into.
	SiteDir string `yaml:"site_dir"`
	// BaseDir is the root against which a relative Source is resolved.
	// Defaults to the current working directory.
	BaseDir string `yaml:"base_dir,omitempty"`
	// Source is the prebuilt asset directory, relative to BaseDir.
	Source string `yaml:"source,omitempty"`
	// DestSubdir is the subdirectory of SiteDir the assets land in.
	DestSubdir string `yaml:"dest_subdir,omitempty"`
	// OnMissingSource selects the policy when Source does not exist.
	OnMissingSource MissingSourcePolicy `yaml:"on_missing_source,omitempty"`

	Watch   WatchConfig   `yaml:"watch,omitempty"`
	History HistoryConfig `yaml:"history,omitempty"`
	Notify  NotifyConfig  `yaml:"notify,omitempty"`
}

// ApplyDefaults fills in defaults for unset fields.
func (c *Config) ApplyDefaults() {
	if c.BaseDir == "" {
		c.BaseDir = "."
	}
	if c.Source == "" {
		c.Source = "pkg"
	}
	if c.DestSubdir == "" {
		c.DestSubdir = "dist"
	}
	if c.OnMissingSource == "" {
		c.OnMissingSource = MissingSourceFail
	}
	if c.Watch.Debounce == "" {
		c.Watch.Debounce = "500ms"
	}
	if c.Notify.URL != "" && c.Notify.Subject == "" {
		c.Notify.Subject = "assetstage.runs"
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.SiteDir == "" {
		return fmt.Errorf("site_dir is required")
	}
	if NormalizeMissingSourcePolicy(string(c.OnMissingSource)) == "" {
		return fmt.Errorf("invalid on_missing_source: %q (expected fail or skip)", c.OnMissingSource)
	}
	if c.Watch.Debounce != "" {
		if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
			return fmt.Errorf("invalid watch.debounce: %w", err)
		}
	}
	if c.Watch.ResyncInterval != "" {
		if _, err := time.ParseDuration(c.Watch.ResyncInterval); err != nil {
			return fmt.Errorf("invalid watch.resync_interval: %w", err)
		}
	}
	return nil
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	// Load .env files if present; existing process env is not overwritten.
	// Each candidate is attempted independently so a missing .env.local does
	// not block .env.
	for _, envPath := range []string{".env.local", ".env"} {
		if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Note: %s couldn't be loaded: %v\n", envPath, err)
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Config{
		SiteDir:         "./site",
		Source:          "pkg",
		DestSubdir:      "dist",
		OnMissingSource: MissingSourceFail,
		Watch: WatchConfig{
			Debounce:       "500ms",
			ResyncInterval: "10m",
		},
		History: HistoryConfig{
			Path: "assetstage.db",
		},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}

	header := "# assetstage configuration\n# Stages prebuilt assets into the site output after a documentation build.\n"
	if err := os.WriteFile(configPath, append([]byte(header), data...), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
