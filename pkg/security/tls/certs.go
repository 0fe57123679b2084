package tls

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"time"
)

// expiryWarningDays is the remaining validity below which a loaded
// certificate is logged as expiring.
const expiryWarningDays = 30

var (
	errNilCertificate = errors.New("certificate is nil")
	errEmptyChain     = errors.New("certificate chain is empty")
)

// leaf parses the first certificate of a key pair's chain.
func leaf(cert *tls.Certificate) (*x509.Certificate, error) {
	switch {
	case cert == nil:
		return nil, errNilCertificate
	case len(cert.Certificate) == 0:
		return nil, errEmptyChain
	case cert.Leaf != nil:
		return cert.Leaf, nil
	}
	parsed, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}
	return parsed, nil
}

// ValidateCertificate rejects a key pair whose leaf cannot be parsed or is
// outside its validity window right now.
func ValidateCertificate(cert *tls.Certificate) error {
	l, err := leaf(cert)
	if err != nil {
		return err
	}
	return ValidateX509Certificate(l, time.Now())
}

// ValidateX509Certificate reports whether now lies inside cert's validity
// window.
func ValidateX509Certificate(cert *x509.Certificate, now time.Time) error {
	if now.Before(cert.NotBefore) {
		return fmt.Errorf("certificate is not yet valid (valid from %s)", cert.NotBefore.Format(time.RFC3339))
	}
	if now.After(cert.NotAfter) {
		return fmt.Errorf("certificate expired on %s", cert.NotAfter.Format(time.RFC3339))
	}
	return nil
}

// CheckCertificateExpiration returns the whole days cert has left at now,
// plus a human-readable warning once fewer than expiryWarningDays remain.
func CheckCertificateExpiration(cert *x509.Certificate, now time.Time) (int, string) {
	days := int(cert.NotAfter.Sub(now) / (24 * time.Hour))
	if days >= expiryWarningDays {
		return days, ""
	}
	return days, fmt.Sprintf("certificate expires in %d days (on %s)", days, cert.NotAfter.Format(time.DateOnly))
}
