package providerfactory

import (
	"fmt"
	"log/slog"
	"sync"

	"mercator-hq/switchboard/pkg/config"
	"mercator-hq/switchboard/pkg/providers/gemini"
	"mercator-hq/switchboard/pkg/routing"
)

// Manager owns the live provider and router and rebuilds them when the
// configuration changes.
//
// Manager is thread-safe and can be used concurrently.
type Manager struct {
	deps     Dependencies
	router   *routing.Reloadable
	provider *gemini.Provider
	mu       sync.Mutex
}

// NewManager builds the initial provider and router from cfg.
func NewManager(cfg *config.Config, deps Dependencies) (*Manager, error) {
	router, provider, err := Build(cfg, deps)
	if err != nil {
		return nil, err
	}
	return &Manager{
		deps:     deps,
		router:   routing.NewReloadable(router),
		provider: provider,
	}, nil
}

// Router returns the reloadable completer that always serves the current
// configuration.
func (m *Manager) Router() *routing.Reloadable {
	return m.router
}

// Catalog returns the current model catalog.
func (m *Manager) Catalog() *routing.Catalog {
	return m.router.Current().Catalog()
}

// Apply rebuilds the provider and router from cfg and installs them. On
// failure the running configuration is kept.
//
// The replaced provider's idle connections are closed; in-flight requests
// finish on the router they started with.
func (m *Manager) Apply(cfg *config.Config) error {
	router, provider, err := Build(cfg, m.deps)
	if err != nil {
		return fmt.Errorf("failed to rebuild router: %w", err)
	}

	m.mu.Lock()
	old := m.provider
	m.provider = provider
	m.router.Swap(router)
	m.mu.Unlock()

	if old != nil {
		old.Close()
	}

	m.deps.logger().Info("router reloaded",
		"models", router.Catalog().Advertised(),
		"keys", provider.Keys().Len(),
	)
	return nil
}

// OnConfigChange is a config.Store subscriber. Errors are logged and the
// previous router stays active.
func (m *Manager) OnConfigChange(cfg *config.Config) {
	if err := m.Apply(cfg); err != nil {
		m.deps.logger().Error("config reload rejected", "error", err)
	}
}

// Close releases the current provider.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.provider == nil {
		return nil
	}
	err := m.provider.Close()
	m.provider = nil
	slog.Debug("provider manager closed")
	return err
}
