package tls

import (
	"context"
	"crypto/tls"
	"testing"
	"time"

	"mercator-hq/switchboard/pkg/config"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    uint16
		wantErr bool
	}{
		{"", tls.VersionTLS12, false},
		{"1.2", tls.VersionTLS12, false},
		{"1.3", tls.VersionTLS13, false},
		{"1.1", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseVersion(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseVersion(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseVersion(%q) = %x, want %x", tt.in, got, tt.want)
		}
	}
}

func TestNewServerConfig(t *testing.T) {
	now := time.Now()
	certFile, keyFile := writeTestCert(t, t.TempDir(), "proxy", now.Add(-time.Hour), now.Add(90*24*time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := &config.TLSConfig{
		Enabled:        true,
		CertFile:       certFile,
		KeyFile:        keyFile,
		MinVersion:     "1.3",
		ReloadInterval: time.Hour,
	}
	tlsCfg, err := NewServerConfig(ctx, cfg, discard)
	if err != nil {
		t.Fatalf("NewServerConfig failed: %v", err)
	}
	if tlsCfg.MinVersion != tls.VersionTLS13 {
		t.Errorf("MinVersion = %x, want TLS 1.3", tlsCfg.MinVersion)
	}
	cert, err := tlsCfg.GetCertificate(&tls.ClientHelloInfo{ServerName: "localhost"})
	if err != nil || cert == nil {
		t.Fatalf("GetCertificate returned %v, %v", cert, err)
	}
}

func TestNewServerConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.TLSConfig
	}{
		{"nil", nil},
		{"disabled", &config.TLSConfig{CertFile: "c", KeyFile: "k"}},
		{"bad version", &config.TLSConfig{Enabled: true, CertFile: "c", KeyFile: "k", MinVersion: "1.0"}},
		{"missing files", &config.TLSConfig{Enabled: true, CertFile: "missing.pem", KeyFile: "missing.key"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewServerConfig(context.Background(), tt.cfg, discard); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
