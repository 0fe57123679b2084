// Package secrets resolves ${secret:name} references in credential settings.
package secrets

import "context"

// SecretProvider retrieves secrets from a backend.
type SecretProvider interface {
	// GetSecret retrieves a secret by name.
	// Returns an error if the secret is not found or cannot be retrieved.
	GetSecret(ctx context.Context, name string) (string, error)

	// Provider returns the provider name ("env", "file").
	Provider() string

	// Supports indicates if this provider can serve the given secret name.
	Supports(name string) bool
}
