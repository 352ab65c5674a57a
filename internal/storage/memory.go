package storage

import (
	"fmt"
	"sync"

	"github.com/nibzard/tasklist/internal/todo"
)

// MemoryKV is a map-backed KV.
type MemoryKV struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryKV returns an empty store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

// Get returns the value for key.
func (k *MemoryKV) Get(key string) (string, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.values[key]
	return v, ok, nil
}

// Set stores the value for key.
func (k *MemoryKV) Set(key, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.values[key] = value
	return nil
}

// Close is a no-op.
func (k *MemoryKV) Close() error {
	return nil
}

// MemoryPort is an in-memory Port. Set LoadErr or SaveErr to inject failures.
type MemoryPort struct {
	Tasks   []todo.Task
	Saves   int
	LoadErr error
	SaveErr error
}

// NewMemoryPort returns a port preloaded with a copy of tasks.
func NewMemoryPort(tasks ...todo.Task) *MemoryPort {
	return &MemoryPort{Tasks: append([]todo.Task(nil), tasks...)}
}

// Load returns a copy of the stored tasks.
func (p *MemoryPort) Load() ([]todo.Task, error) {
	if p.LoadErr != nil {
		return nil, p.LoadErr
	}
	return append([]todo.Task{}, p.Tasks...), nil
}

// Save replaces the stored tasks with a copy of tasks.
func (p *MemoryPort) Save(tasks []todo.Task) error {
	if p.SaveErr != nil {
		return fmt.Errorf("save: %w", p.SaveErr)
	}
	p.Tasks = append([]todo.Task{}, tasks...)
	p.Saves++
	return nil
}
