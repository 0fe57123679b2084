package config

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestStore_ReloadSwapsSnapshot(t *testing.T) {
	path := writeConfig(t, minimalConfig)

	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	first := store.Load()

	var notified *Config
	store.Subscribe(func(c *Config) { notified = c })

	updated := strings.Replace(minimalConfig, "complex-model", "bigger-model", 1)
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}
	if err := store.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	second := store.Load()
	if second == first {
		t.Fatal("expected a new snapshot after reload")
	}
	if first.Models.Complex != "complex-model" {
		t.Errorf("old snapshot was mutated: %q", first.Models.Complex)
	}
	if second.Models.Complex != "bigger-model" {
		t.Errorf("expected bigger-model, got %q", second.Models.Complex)
	}
	if notified != second {
		t.Error("expected subscriber to receive the new snapshot")
	}
}

func TestStore_FailedReloadKeepsPrevious(t *testing.T) {
	path := writeConfig(t, minimalConfig)

	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	before := store.Load()

	if err := os.WriteFile(path, []byte("models: {}\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}
	if err := store.Reload(); err == nil {
		t.Fatal("expected reload of invalid config to fail")
	}
	if store.Load() != before {
		t.Error("expected previous snapshot to remain after failed reload")
	}
}

func TestStore_WatchReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, minimalConfig)

	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	store.debounce = 10 * time.Millisecond

	reloaded := make(chan *Config, 1)
	store.Subscribe(func(c *Config) {
		select {
		case reloaded <- c:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- store.Watch(ctx) }()

	// Give the watcher time to register.
	time.Sleep(50 * time.Millisecond)

	updated := strings.Replace(minimalConfig, "lite-model", "newer-lite", 1)
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Models.Lite != "newer-lite" {
			t.Errorf("expected newer-lite, got %q", cfg.Models.Lite)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch returned error: %v", err)
	}
}

func TestStore_WatchRequiresPath(t *testing.T) {
	store := NewStoreFrom("", &Config{}, nil)
	if err := store.Watch(context.Background()); err == nil {
		t.Fatal("expected error when no path is configured")
	}
}
