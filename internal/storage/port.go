package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nibzard/tasklist/internal/todo"
)

// DefaultKey is the key the task list is stored under.
const DefaultKey = "tasks"

// ErrMalformed is returned by Load when the stored value cannot be decoded.
var ErrMalformed = errors.New("stored tasks are malformed")

// Port loads and saves the whole task list.
type Port interface {
	Load() ([]todo.Task, error)
	Save(tasks []todo.Task) error
}

// KVPort stores the task list as one JSON array under a fixed key.
type KVPort struct {
	kv  KV
	key string
}

// NewKVPort returns a port over kv. An empty key means DefaultKey.
func NewKVPort(kv KV, key string) *KVPort {
	if key == "" {
		key = DefaultKey
	}
	return &KVPort{kv: kv, key: key}
}

// Key returns the storage key.
func (p *KVPort) Key() string {
	return p.key
}

// BackupKey returns the key malformed values are copied to.
func (p *KVPort) BackupKey() string {
	return p.key + ".bak"
}

// Raw returns the stored value without decoding it.
func (p *KVPort) Raw() (string, bool, error) {
	raw, ok, err := p.kv.Get(p.key)
	if err != nil {
		return "", false, fmt.Errorf("read %q: %w", p.key, err)
	}
	return raw, ok, nil
}

// Load reads and decodes the list. A missing or blank value is an empty list.
// A malformed value is backed up and reported with ErrMalformed.
func (p *KVPort) Load() ([]todo.Task, error) {
	raw, ok, err := p.Raw()
	if err != nil {
		return nil, err
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []todo.Task{}, nil
	}

	tasks, err := todo.Decode([]byte(raw))
	if err != nil {
		if berr := p.kv.Set(p.BackupKey(), raw); berr != nil {
			return nil, fmt.Errorf("%w: %w (backup to %q failed: %v)", ErrMalformed, err, p.BackupKey(), berr)
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return tasks, nil
}

// Save encodes the full list and overwrites the stored value.
func (p *KVPort) Save(tasks []todo.Task) error {
	data, err := todo.Encode(tasks)
	if err != nil {
		return err
	}
	if err := p.kv.Set(p.key, string(data)); err != nil {
		return fmt.Errorf("write %q: %w", p.key, err)
	}
	return nil
}
