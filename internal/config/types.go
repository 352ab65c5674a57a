// Package config handles configuration loading and defaults.
package config

import "time"

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, in load order.
	Files []string
}

// Default values.
const (
	DefaultDataDir      = "~/.tasklist"
	DefaultLogDir       = "~/.tasklist/logs"
	DefaultBackend      = "file"
	DefaultKey          = "tasks"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultErrorDelayMS = 2000
	DefaultWatch        = true
)

// Config holds the full configuration for tasklist.
type Config struct {
	// Paths
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`

	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// StorageConfig selects where the task list is kept.
type StorageConfig struct {
	// Backend is file, sqlite or memory.
	Backend string `toml:"backend"`
	// Key is the storage key the list is saved under.
	Key string `toml:"key"`
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	// ErrorDelayMS is how long the empty-task error stays visible.
	ErrorDelayMS int `toml:"error_delay_ms"`
	// Watch reloads the list when the store changes on disk.
	Watch bool `toml:"watch"`
}

// ErrorDelay returns the validation error display time.
func (c *Config) ErrorDelay() time.Duration {
	return time.Duration(c.UI.ErrorDelayMS) * time.Millisecond
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"data_dir",
		"log_dir",
		"storage.backend",
		"storage.key",
		"ui.error_delay_ms",
		"ui.watch",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// setDefaults sets default values for all config fields.
func setDefaults(cfg *Config) {
	cfg.DataDir = DefaultDataDir
	cfg.LogDir = DefaultLogDir
	cfg.Storage.Backend = DefaultBackend
	cfg.Storage.Key = DefaultKey
	cfg.UI.ErrorDelayMS = DefaultErrorDelayMS
	cfg.UI.Watch = DefaultWatch
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = true
	cfg.LogCaller = false
}
