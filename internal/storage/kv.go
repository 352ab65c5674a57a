package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// SQLiteFile is the database file name used by the sqlite backend.
const SQLiteFile = "tasklist.db"

// KV is a synchronous key-value store with string values.
type KV interface {
	// Get returns the value stored under key. ok is false if the key is absent.
	Get(key string) (value string, ok bool, err error)
	// Set overwrites the value stored under key.
	Set(key, value string) error
	// Close releases the store.
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend string
	Dir     string
	// FS overrides the filesystem of the file backend. Defaults to the OS.
	FS afero.Fs
}

// Open opens the configured backend.
func Open(opts Options) (KV, error) {
	switch NormalizeBackend(opts.Backend) {
	case BackendFile:
		fs := opts.FS
		if fs == nil {
			fs = afero.NewOsFs()
		}
		return NewFileKV(fs, opts.Dir)
	case BackendSQLite:
		return OpenSQLiteKV(filepath.Join(opts.Dir, SQLiteFile))
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want file, sqlite or memory)", opts.Backend)
	}
}

// NormalizeBackend lowercases a backend name; empty means file.
func NormalizeBackend(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return BackendFile
	}
	return name
}

// ValidBackend reports whether name is a known backend.
func ValidBackend(name string) bool {
	switch NormalizeBackend(name) {
	case BackendFile, BackendSQLite, BackendMemory:
		return true
	}
	return false
}
