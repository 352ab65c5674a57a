package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasklist configuration file
# Values can be overridden by TASKLIST_* environment variables or CLI flags

# Directory holding the task store (supports ~ expansion and %VAR% on Windows)
data_dir = "~/.tasklist"

# Log directory
log_dir = "~/.tasklist/logs"

# Logging: debug, info, warn, error / text, json, logfmt
log_level = "info"
log_format = "text"
log_timestamps = true
log_caller = false

[storage]
# Backend: file (one JSON file per key), sqlite, or memory (not persisted)
backend = "file"
# Key the list is saved under
key = "tasks"

[ui]
# How long "Task text is required" stays visible (milliseconds)
error_delay_ms = 2000
# Reload the list when another process changes the store
watch = true
`
}
