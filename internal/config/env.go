package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by tasklist.
const EnvPrefix = "TASKLIST_"

// lookupFunc resolves an environment variable.
type lookupFunc func(key string) (string, bool)

// envLookup returns a lookup that prefers non-empty process environment
// values and falls back to the dotenv file at path, if it exists. The process
// environment is not modified.
func envLookup(path string) (lookupFunc, error) {
	dotenv := map[string]string{}
	if path != "" {
		values, err := godotenv.Read(path)
		switch {
		case err == nil:
			dotenv = values
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}, nil
}

// loadFromEnv overrides config from TASKLIST_* variables and records them as
// environment-sourced. Empty values are ignored.
func loadFromEnv(cfg *Config, lookup lookupFunc, sources map[string]ConfigSource) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		if !ok || strings.TrimSpace(v) == "" {
			return "", false
		}
		return v, true
	}
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v, ok := get("DATA_DIR"); ok {
		cfg.DataDir = v
		set("data_dir")
	}
	if v, ok := get("LOG_DIR"); ok {
		cfg.LogDir = v
		set("log_dir")
	}
	if v, ok := get("STORAGE"); ok {
		cfg.Storage.Backend = v
		set("storage.backend")
	}
	if v, ok := get("KEY"); ok {
		cfg.Storage.Key = v
		set("storage.key")
	}
	if v, ok := get("ERROR_DELAY_MS"); ok {
		ms, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sERROR_DELAY_MS: %q is not a number", EnvPrefix, v)
		}
		cfg.UI.ErrorDelayMS = ms
		set("ui.error_delay_ms")
	}
	if v, ok := get("WATCH"); ok {
		cfg.UI.Watch = boolFromString(v)
		set("ui.watch")
	}

	// Logging configuration
	if v, ok := get("LOG_LEVEL"); ok {
		cfg.LogLevel = v
		set("log_level")
	}
	if v, ok := get("LOG_FORMAT"); ok {
		cfg.LogFormat = v
		set("log_format")
	}
	if v, ok := get("LOG_TIMESTAMPS"); ok {
		cfg.LogTimestamps = boolFromString(v)
		set("log_timestamps")
	}
	if v, ok := get("LOG_CALLER"); ok {
		cfg.LogCaller = boolFromString(v)
		set("log_caller")
	}
	return nil
}

// boolFromString parses common truthy spellings.
func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
