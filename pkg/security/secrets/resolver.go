package secrets

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// secretRefRegex matches ${secret:name} patterns in configuration values.
var secretRefRegex = regexp.MustCompile(`\$\{secret:([^}]+)\}`)

// Resolver substitutes secret references using an ordered list of providers.
// The first provider that supports a name and returns a value wins.
type Resolver struct {
	providers []SecretProvider
	logger    *slog.Logger
}

// NewResolver creates a resolver over providers, tried in order.
func NewResolver(logger *slog.Logger, providers ...SecretProvider) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{providers: providers, logger: logger}
}

// IsReference reports whether value contains a ${secret:name} reference.
func IsReference(value string) bool {
	return secretRefRegex.MatchString(value)
}

// GetSecret retrieves name from the first provider that supports it.
func (r *Resolver) GetSecret(ctx context.Context, name string) (string, error) {
	var lastErr error
	for _, provider := range r.providers {
		if !provider.Supports(name) {
			continue
		}

		value, err := provider.GetSecret(ctx, name)
		if err != nil {
			lastErr = err
			r.logger.Debug("provider failed to get secret",
				"provider", provider.Provider(),
				"name", redactSecretName(name),
				"error", err,
			)
			continue
		}

		r.logger.Debug("secret resolved",
			"provider", provider.Provider(),
			"name", redactSecretName(name),
		)
		return value, nil
	}

	if lastErr != nil {
		return "", fmt.Errorf("failed to get secret %q: %w", name, lastErr)
	}
	return "", fmt.Errorf("secret not found: %q (no provider supports this secret)", name)
}

// Resolve replaces every ${secret:name} in input. Any unresolved reference
// fails the whole value.
func (r *Resolver) Resolve(ctx context.Context, input string) (string, error) {
	var errs []string

	output := secretRefRegex.ReplaceAllStringFunc(input, func(match string) string {
		name := strings.TrimSpace(secretRefRegex.FindStringSubmatch(match)[1])
		value, err := r.GetSecret(ctx, name)
		if err != nil {
			errs = append(errs, err.Error())
			return match
		}
		return value
	})

	if len(errs) > 0 {
		return "", fmt.Errorf("failed to resolve secret references: %s", strings.Join(errs, "; "))
	}
	return output, nil
}

// ResolveAll resolves each value in order. The input slice is not modified.
func (r *Resolver) ResolveAll(ctx context.Context, values []string) ([]string, error) {
	out := make([]string, len(values))
	for i, v := range values {
		if !IsReference(v) {
			out[i] = v
			continue
		}
		resolved, err := r.Resolve(ctx, v)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out[i] = resolved
	}
	return out, nil
}

// redactSecretName shows the first and last two characters of name.
func redactSecretName(name string) string {
	if len(name) <= 4 {
		return "***"
	}
	return name[:2] + "..." + name[len(name)-2:]
}
