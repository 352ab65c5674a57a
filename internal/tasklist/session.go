package tasklist

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist/internal/config"
	"github.com/nibzard/tasklist/internal/logging"
	"github.com/nibzard/tasklist/internal/storage"
)

// Session is an open store with its container and run log.
type Session struct {
	Config    *config.Config
	KV        storage.KV
	Port      *storage.KVPort
	Container *Container
	RunLogger *logging.RunLogger
}

// SessionOptions adjusts Open.
type SessionOptions struct {
	// NoRunLog skips creating a run log file; messages are discarded.
	NoRunLog bool
	// LogWriter, if set, receives log output instead of a run log file.
	LogWriter io.Writer
	// KV overrides the configured backend.
	KV storage.KV
}

// Open opens the configured store, starts the run log and loads the list.
func Open(cfg *config.Config, opts SessionOptions) (*Session, error) {
	s := &Session{Config: cfg}

	logger, err := s.openLogger(opts)
	if err != nil {
		return nil, err
	}

	kv := opts.KV
	if kv == nil {
		kv, err = storage.Open(storage.Options{
			Backend: cfg.Storage.Backend,
			Dir:     cfg.DataDir,
		})
		if err != nil {
			_ = s.RunLogger.Close()
			return nil, fmt.Errorf("open storage: %w", err)
		}
	}
	s.KV = kv
	s.Port = storage.NewKVPort(kv, cfg.Storage.Key)
	s.Container = New(s.Port, Options{
		Logger:     logger,
		AlertDelay: cfg.ErrorDelay(),
	})

	logger.Debug("session opened", "backend", cfg.Storage.Backend, "dir", cfg.DataDir, "key", s.Port.Key())
	if err := s.Container.Load(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Session) openLogger(opts SessionOptions) (*log.Logger, error) {
	logOpts := logging.Options{
		Level:      s.Config.LogLevel,
		Format:     s.Config.LogFormat,
		Timestamps: s.Config.LogTimestamps,
		Caller:     s.Config.LogCaller,
	}
	switch {
	case opts.LogWriter != nil:
		return logging.NewLogger(opts.LogWriter, logOpts)
	case opts.NoRunLog:
		return logging.Discard(), nil
	}
	rl, err := logging.NewRunLogger(s.Config.LogDir, s.Config.DataDir, logOpts)
	if err != nil {
		return nil, fmt.Errorf("init run logger: %w", err)
	}
	s.RunLogger = rl
	return rl.Logger(), nil
}

// Watch returns a channel signalling external changes to the stored list.
// Backends that cannot be watched return storage.ErrWatchUnsupported.
func (s *Session) Watch(ctx context.Context) (<-chan struct{}, error) {
	fkv, ok := s.KV.(*storage.FileKV)
	if !ok {
		return nil, storage.ErrWatchUnsupported
	}
	return fkv.Watch(ctx, s.Port.Key())
}

// Close closes the store and the run log.
func (s *Session) Close() error {
	var errs []error
	if s.KV != nil {
		if err := s.KV.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}
	if err := s.RunLogger.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close run log: %w", err))
	}
	return errors.Join(errs...)
}
