package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultReloadDebounce is the quiet period after a file event before the
// configuration is reloaded.
const DefaultReloadDebounce = 100 * time.Millisecond

// Store holds the current configuration snapshot. Snapshots are immutable:
// a reload builds a new *Config and swaps the pointer, so a request that
// read a snapshot keeps a consistent view for its whole lifetime.
type Store struct {
	path     string
	current  atomic.Pointer[Config]
	logger   *slog.Logger
	debounce time.Duration

	mu          sync.Mutex
	subscribers []func(*Config)
}

// NewStore loads the configuration at path (with environment overrides) and
// returns a Store holding it.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return nil, err
	}
	return NewStoreFrom(path, cfg, logger), nil
}

// NewStoreFrom wraps an already loaded configuration.
func NewStoreFrom(path string, cfg *Config, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		path:     path,
		logger:   logger,
		debounce: DefaultReloadDebounce,
	}
	s.current.Store(cfg)
	return s
}

// Load returns the current snapshot. Callers must not mutate it.
func (s *Store) Load() *Config {
	return s.current.Load()
}

// Subscribe registers fn to be called with every successfully reloaded snapshot.
func (s *Store) Subscribe(fn func(*Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Reload re-reads the configuration file. On failure the previous snapshot
// stays in place and the error is returned.
func (s *Store) Reload() error {
	cfg, err := LoadConfigWithEnvOverrides(s.path)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}
	s.current.Store(cfg)

	s.mu.Lock()
	subs := append([]func(*Config){}, s.subscribers...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(cfg)
	}
	return nil
}

// Watch reloads the configuration whenever the file changes. It blocks until
// ctx is cancelled. The parent directory is watched so that editors which
// replace the file by rename are still observed.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		return fmt.Errorf("no configuration file to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	target, err := filepath.Abs(s.path)
	if err != nil {
		return fmt.Errorf("failed to resolve %q: %w", s.path, err)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %q: %w", filepath.Dir(target), err)
	}

	s.logger.Info("Configuration watcher started",
		"path", target,
		"debounce_ms", s.debounce.Milliseconds(),
	)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Configuration watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&fsnotify.Chmod == fsnotify.Chmod {
				continue
			}
			if name, _ := filepath.Abs(event.Name); name != target {
				continue
			}

			s.logger.Debug("Configuration file event", "path", event.Name, "op", event.Op.String())

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(s.debounce, func() {
				if err := s.Reload(); err != nil {
					s.logger.Error("Configuration reload failed, keeping previous configuration", "error", err)
					return
				}
				s.logger.Info("Configuration reloaded", "path", target)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			s.logger.Error("Configuration watcher error", "error", err)
		}
	}
}
