package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
)

// ErrWatchUnsupported is returned by Watch when the store cannot be watched.
var ErrWatchUnsupported = errors.New("watching is only supported on the OS filesystem")

// FileKV stores each key in its own file inside a directory.
type FileKV struct {
	fs  afero.Fs
	dir string
}

// NewFileKV creates the directory if needed and returns a store rooted at it.
func NewFileKV(fsys afero.Fs, dir string) (*FileKV, error) {
	if dir == "" {
		return nil, fmt.Errorf("data dir is empty")
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileKV{fs: fsys, dir: dir}, nil
}

// Path returns the file that holds key.
func (k *FileKV) Path(key string) string {
	return filepath.Join(k.dir, keyFileName(key))
}

// Get reads the file for key.
func (k *FileKV) Get(key string) (string, bool, error) {
	data, err := afero.ReadFile(k.fs, k.Path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s: %w", k.Path(key), err)
	}
	return string(data), true, nil
}

// Set replaces the file for key. The value is written to a temp file in the
// same directory and renamed into place.
func (k *FileKV) Set(key, value string) error {
	tmp, err := afero.TempFile(k.fs, k.dir, "."+keyFileName(key)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		_ = k.fs.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = k.fs.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := k.fs.Rename(tmpName, k.Path(key)); err != nil {
		_ = k.fs.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", k.Path(key), err)
	}
	return nil
}

// Close is a no-op for files.
func (k *FileKV) Close() error {
	return nil
}

// Watch signals on the returned channel whenever the file for key is
// created, written, or removed by anyone, this process included. Signals are
// coalesced. The channel is closed when ctx is done.
func (k *FileKV) Watch(ctx context.Context, key string) (<-chan struct{}, error) {
	if _, ok := k.fs.(*afero.OsFs); !ok {
		return nil, ErrWatchUnsupported
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	// Watch the directory: Set renames over the file, which drops a file watch.
	if err := watcher.Add(k.dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", k.dir, err)
	}

	target := keyFileName(key)
	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Remove) {
					continue
				}
				select {
				case ch <- struct{}{}:
				default:
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return ch, nil
}

// keyFileName maps a key to a safe file name.
func keyFileName(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '.' || c == '_' || c == '-'
		if !valid {
			b.WriteByte('_')
			continue
		}
		b.WriteByte(c)
	}
	name := strings.Trim(b.String(), ".")
	if name == "" {
		name = "_"
	}
	return name + ".json"
}
