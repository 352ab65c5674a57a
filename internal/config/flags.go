package config

import (
	"flag"
)

// flagFields maps flag names to config field names.
var flagFields = map[string]string{
	"data-dir":       "data_dir",
	"log-dir":        "log_dir",
	"storage":        "storage.backend",
	"key":            "storage.key",
	"error-delay":    "ui.error_delay_ms",
	"watch":          "ui.watch",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines the global flags on fs, parses args and records every
// flag that was explicitly set. Flags default to the values loaded so far, so
// unset flags leave cfg unchanged.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasklist", flag.ContinueOnError)
	}

	// Paths
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory holding the task store")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Log directory")

	// Storage
	fs.StringVar(&cfg.Storage.Backend, "storage", cfg.Storage.Backend, "Storage backend (file, sqlite, memory)")
	fs.StringVar(&cfg.Storage.Key, "key", cfg.Storage.Key, "Storage key the list is saved under")

	// UI
	fs.IntVar(&cfg.UI.ErrorDelayMS, "error-delay", cfg.UI.ErrorDelayMS, "How long the empty-task error is shown (milliseconds)")
	fs.BoolVar(&cfg.UI.Watch, "watch", cfg.UI.Watch, "Reload when the store changes on disk")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
