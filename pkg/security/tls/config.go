package tls

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"

	"mercator-hq/switchboard/pkg/config"
)

// ParseVersion maps a configured version string to its crypto/tls constant.
// An empty string selects TLS 1.2.
func ParseVersion(version string) (uint16, error) {
	switch version {
	case "", "1.2":
		return tls.VersionTLS12, nil
	case "1.3":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("unsupported TLS version %q (want 1.2 or 1.3)", version)
	}
}

// NewServerConfig loads the listener certificate and returns a tls.Config
// that serves it. When cfg.ReloadInterval is positive the certificate files
// are polled until ctx is cancelled and replaced certificates are picked up
// by new handshakes.
func NewServerConfig(ctx context.Context, cfg *config.TLSConfig, logger *slog.Logger) (*tls.Config, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, fmt.Errorf("tls is not enabled")
	}

	minVersion, err := ParseVersion(cfg.MinVersion)
	if err != nil {
		return nil, err
	}

	reloader := NewCertificateReloader(cfg.CertFile, cfg.KeyFile, cfg.ReloadInterval, logger)
	if err := reloader.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to load certificate: %w", err)
	}

	return &tls.Config{
		MinVersion:     minVersion,
		GetCertificate: reloader.GetCertificateFunc(),
		NextProtos:     []string{"h2", "http/1.1"},
	}, nil
}
