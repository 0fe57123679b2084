package tls

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"
)

// loadedPair is one generation of the served key pair together with the
// file modification times it was read at.
type loadedPair struct {
	cert    *tls.Certificate
	certMod time.Time
	keyMod  time.Time
}

// CertificateReloader serves a key pair from disk and swaps it when either
// file's modification time moves forward.
type CertificateReloader struct {
	certFile string
	keyFile  string
	interval time.Duration
	logger   *slog.Logger

	current atomic.Pointer[loadedPair]
}

// NewCertificateReloader creates a reloader. A non-positive interval loads
// the pair once and never polls.
func NewCertificateReloader(certFile, keyFile string, interval time.Duration, logger *slog.Logger) *CertificateReloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &CertificateReloader{
		certFile: certFile,
		keyFile:  keyFile,
		interval: interval,
		logger:   logger.With("component", "tls"),
	}
}

// Start loads the initial certificate and, when polling is enabled, checks
// for updates in the background until ctx is cancelled.
func (r *CertificateReloader) Start(ctx context.Context) error {
	certMod, keyMod, err := r.modTimes()
	if err != nil {
		return err
	}
	if err := r.load(certMod, keyMod); err != nil {
		return err
	}
	r.logLoaded()

	if r.interval <= 0 {
		return nil
	}
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.checkAndReload()
			}
		}
	}()
	return nil
}

// checkAndReload reloads the pair if it changed on disk and reports whether
// a new certificate went into service. A broken replacement is logged and
// the previous certificate keeps serving.
func (r *CertificateReloader) checkAndReload() bool {
	certMod, keyMod, err := r.modTimes()
	if err != nil {
		return false
	}
	if prev := r.current.Load(); prev != nil && !certMod.After(prev.certMod) && !keyMod.After(prev.keyMod) {
		return false
	}

	if err := r.load(certMod, keyMod); err != nil {
		r.logger.Error("failed to reload certificate",
			"error", err,
			"cert_file", r.certFile,
			"key_file", r.keyFile,
		)
		return false
	}
	r.logger.Info("certificate reloaded", "cert_file", r.certFile)
	r.logLoaded()
	return true
}

func (r *CertificateReloader) modTimes() (certMod, keyMod time.Time, err error) {
	ci, err := os.Stat(r.certFile)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("certificate file: %w", err)
	}
	ki, err := os.Stat(r.keyFile)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("key file: %w", err)
	}
	return ci.ModTime(), ki.ModTime(), nil
}

func (r *CertificateReloader) load(certMod, keyMod time.Time) error {
	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return err
	}
	if err := ValidateCertificate(&cert); err != nil {
		return err
	}
	r.current.Store(&loadedPair{cert: &cert, certMod: certMod, keyMod: keyMod})
	return nil
}

// GetCertificate returns the certificate currently in service, or nil
// before Start.
func (r *CertificateReloader) GetCertificate() *tls.Certificate {
	if p := r.current.Load(); p != nil {
		return p.cert
	}
	return nil
}

// GetCertificateFunc adapts the reloader to tls.Config.GetCertificate.
func (r *CertificateReloader) GetCertificateFunc() func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	return func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
		if cert := r.GetCertificate(); cert != nil {
			return cert, nil
		}
		return nil, errNilCertificate
	}
}

func (r *CertificateReloader) logLoaded() {
	l, err := leaf(r.GetCertificate())
	if err != nil {
		return
	}

	days, warning := CheckCertificateExpiration(l, time.Now())
	attrs := []any{
		"subject", l.Subject.CommonName,
		"expires_in_days", days,
		"expires_at", l.NotAfter.Format(time.RFC3339),
	}
	if warning != "" {
		r.logger.Warn("certificate expiring soon", attrs...)
		return
	}
	r.logger.Info("certificate loaded", append(attrs, "issuer", l.Issuer.CommonName)...)
}
