package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.tasklist/tasklist.toml or OS-specific config dir)
// 3. Project config file (tasklist.toml or .tasklist.toml in current directory)
// 4. Environment variables (process environment, then .env)
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := LoadWithSources(fs, args)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
// Returns ConfigWithSources containing the config and a map of field names to their sources.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	cfg := &Config{}
	var files []string

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
		files = append(files, userConfigFile)
	}

	// 3. Try to load from project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
		files = append(files, projectConfigFile)
	}

	// 4. Override from environment
	lookup, err := envLookup(".env")
	if err != nil {
		return nil, err
	}
	if err := loadFromEnv(cfg, lookup, sources); err != nil {
		return nil, err
	}

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg, lookup); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return &ConfigWithSources{
		Config:  cfg,
		Sources: sources,
		Files:   files,
	}, nil
}

// loadConfigFile decodes a TOML file over cfg and marks every key the file
// defines as coming from source.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	for _, field := range configFields() {
		if md.IsDefined(strings.Split(field, ".")...) {
			sources[field] = source
		}
	}
	return nil
}

// finalizeConfig computes derived values and validates settings.
func finalizeConfig(cfg *Config, lookup lookupFunc) error {
	if cfg.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.ProjectRoot = wd
	}

	windows := runtime.GOOS == "windows"
	cfg.DataDir = resolveDir(cfg.DataDir, cfg.ProjectRoot, lookup, windows)
	cfg.LogDir = resolveDir(cfg.LogDir, cfg.ProjectRoot, lookup, windows)

	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	return Validate(cfg)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a finalized config.
func Validate(cfg *Config) error {
	rules := struct {
		DataDir      string `validate:"required"`
		LogDir       string `validate:"required"`
		Backend      string `validate:"oneof=file sqlite memory"`
		Key          string `validate:"required"`
		ErrorDelayMS int    `validate:"gt=0"`
		LogLevel     string `validate:"oneof=debug info warn error"`
		LogFormat    string `validate:"oneof=text json logfmt"`
	}{
		DataDir:      cfg.DataDir,
		LogDir:       cfg.LogDir,
		Backend:      cfg.Storage.Backend,
		Key:          strings.TrimSpace(cfg.Storage.Key),
		ErrorDelayMS: cfg.UI.ErrorDelayMS,
		LogLevel:     cfg.LogLevel,
		LogFormat:    cfg.LogFormat,
	}
	err := validate.Struct(rules)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	name := map[string]string{
		"DataDir":      "data_dir",
		"LogDir":       "log_dir",
		"Backend":      "storage.backend",
		"Key":          "storage.key",
		"ErrorDelayMS": "ui.error_delay_ms",
		"LogLevel":     "log_level",
		"LogFormat":    "log_format",
	}[fe.Field()]
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "oneof":
		return fmt.Sprintf("%s %q is not one of: %s", name, fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", name, fe.Param())
	}
	return fmt.Sprintf("%s failed %s", name, fe.Tag())
}

// fileExists reports whether path names an existing file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
