package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// DefaultEnvPrefix namespaces secret environment variables.
const DefaultEnvPrefix = "SWITCHBOARD_SECRET_"

// EnvProvider loads secrets from environment variables.
//
// Secret names are converted to uppercase environment variable names
// with hyphens replaced by underscores, then prefixed:
//   - Secret name: "gemini-key-1"
//   - Env var name: "SWITCHBOARD_SECRET_GEMINI_KEY_1"
type EnvProvider struct {
	Prefix string
	lookup func(string) (string, bool)
}

// NewEnvProvider creates a new environment variable secret provider.
func NewEnvProvider(prefix string) *EnvProvider {
	return &EnvProvider{
		Prefix: prefix,
		lookup: os.LookupEnv,
	}
}

// GetSecret retrieves a secret from an environment variable.
func (p *EnvProvider) GetSecret(ctx context.Context, name string) (string, error) {
	envVar := p.envVar(name)

	value, ok := p.lookup(envVar)
	if !ok || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("secret not found in environment: %s (env var: %s)", name, envVar)
	}

	return strings.TrimSpace(value), nil
}

// Provider returns the provider name.
func (p *EnvProvider) Provider() string {
	return "env"
}

// Supports reports whether the variable for name is set.
func (p *EnvProvider) Supports(name string) bool {
	_, ok := p.lookup(p.envVar(name))
	return ok
}

func (p *EnvProvider) envVar(name string) string {
	return p.Prefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}
