// Package config holds edgehop configuration: browser locations, helper
// binary settings, and the timeouts that bound every external call.
//
// Resolution order is compiled-in defaults, then an optional YAML file,
// then EDGE_* environment variables. Environment names stay compatible
// with the original Alfred workflow (EDGE_BIN, EDGE_APP, EDGE_USER_DATA_DIR,
// EDGE_BUNDLE_ID).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	defaultAppBundle = "/Applications/Microsoft Edge.app"
	defaultBundleID  = "com.microsoft.edgemac"

	defaultQueryTimeout = 5 * time.Second
	defaultProbeTimeout = 2 * time.Second
	defaultRaiseTimeout = 3 * time.Second
	defaultPollInterval = 200 * time.Millisecond
	defaultPollAttempts = 15
)

// Config holds all edgehop settings. Duration fields are strings ("5s",
// "200ms") so they round-trip through YAML and the environment; use the
// Get* helpers, which fall back to defaults on parse failure.
type Config struct {
	// Browser location. Bin wins over App; both empty means the default
	// bundle path, then mdfind by bundle id.
	Bin      string `yaml:"bin" envconfig:"BIN"`
	App      string `yaml:"app" envconfig:"APP"`
	BundleID string `yaml:"bundle_id" envconfig:"BUNDLE_ID"`

	// UserDataDir is the browser profile root holding Local State and the
	// per-profile workspace caches.
	UserDataDir string `yaml:"user_data_dir" envconfig:"USER_DATA_DIR"`

	// HelperDir optionally points at the directory holding the native
	// window helpers (edge-list-windows, edge-raise-window). Empty means
	// look beside the edgehop executable, then on PATH.
	HelperDir string `yaml:"helper_dir" envconfig:"HELPER_DIR"`

	// Timeouts for the external calls.
	QueryTimeout string `yaml:"query_timeout" envconfig:"QUERY_TIMEOUT"`
	ProbeTimeout string `yaml:"probe_timeout" envconfig:"PROBE_TIMEOUT"`
	RaiseTimeout string `yaml:"raise_timeout" envconfig:"RAISE_TIMEOUT"`

	// New-window polling budget after a detached workspace launch.
	PollAttempts int    `yaml:"poll_attempts" envconfig:"POLL_ATTEMPTS"`
	PollInterval string `yaml:"poll_interval" envconfig:"POLL_INTERVAL"`
}

// Default returns the compiled-in configuration.
func Default() *Config {
	return &Config{
		App:          defaultAppBundle,
		BundleID:     defaultBundleID,
		UserDataDir:  defaultUserDataDir(),
		QueryTimeout: defaultQueryTimeout.String(),
		ProbeTimeout: defaultProbeTimeout.String(),
		RaiseTimeout: defaultRaiseTimeout.String(),
		PollAttempts: defaultPollAttempts,
		PollInterval: defaultPollInterval.String(),
	}
}

// Load builds the configuration from defaults, an optional YAML file at
// path (missing file is not an error), and EDGE_* environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := envconfig.Process("edge", cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	return cfg, nil
}

func defaultUserDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "Library", "Application Support", "Microsoft Edge")
}

// LocalStatePath returns the shared profile catalog document.
func (c *Config) LocalStatePath() string {
	return filepath.Join(c.UserDataDir, "Local State")
}

// WorkspacesCachePath returns the workspace cache document for one profile
// directory.
func (c *Config) WorkspacesCachePath(profileDir string) string {
	return filepath.Join(c.UserDataDir, profileDir, "Workspaces", "WorkspacesCache")
}

// ProfileDirPath returns the on-disk directory of one profile.
func (c *Config) ProfileDirPath(profileDir string) string {
	return filepath.Join(c.UserDataDir, profileDir)
}

// GetQueryTimeout returns the live-session scripting query timeout.
func (c *Config) GetQueryTimeout() time.Duration {
	return parseDuration(c.QueryTimeout, defaultQueryTimeout)
}

// GetProbeTimeout returns the timeout for short scripting probes and the
// native window listing.
func (c *Config) GetProbeTimeout() time.Duration {
	return parseDuration(c.ProbeTimeout, defaultProbeTimeout)
}

// GetRaiseTimeout returns the timeout for raise and tab-selection calls.
func (c *Config) GetRaiseTimeout() time.Duration {
	return parseDuration(c.RaiseTimeout, defaultRaiseTimeout)
}

// GetPollInterval returns the sleep between new-window poll attempts.
func (c *Config) GetPollInterval() time.Duration {
	return parseDuration(c.PollInterval, defaultPollInterval)
}

// GetPollAttempts returns the bounded retry count for new-window polling.
func (c *Config) GetPollAttempts() int {
	if c.PollAttempts <= 0 {
		return defaultPollAttempts
	}
	return c.PollAttempts
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
