package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// ProjectConfigNames are the project-level config file names, in lookup order.
var ProjectConfigNames = []string{"tasklist.toml", ".tasklist.toml"}

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	for _, name := range ProjectConfigNames {
		if fileExists(name) {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks ~/.tasklist/tasklist.toml first, then falls back to the OS-specific
// config directory.
func findUserConfigFile() string {
	for _, path := range UserConfigPaths() {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// UserConfigPaths lists the candidate user config files, preferred first.
func UserConfigPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".tasklist", "tasklist.toml"))
	}
	if cfgDir := osUserConfigDir(); cfgDir != "" {
		paths = append(paths, filepath.Join(cfgDir, "tasklist", "tasklist.toml"))
	}
	return paths
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		// Respect XDG_CONFIG_HOME or use ~/.config
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// GetConfigFile returns the config file with the highest precedence that was
// read, or "" if none was.
func (cws *ConfigWithSources) GetConfigFile() string {
	if len(cws.Files) == 0 {
		return ""
	}
	return cws.Files[len(cws.Files)-1]
}
