package providerfactory

import (
	"context"
	"fmt"
	"log/slog"

	"mercator-hq/switchboard/pkg/config"
	"mercator-hq/switchboard/pkg/processing/complexity"
	"mercator-hq/switchboard/pkg/processing/content"
	"mercator-hq/switchboard/pkg/processing/conversation"
	"mercator-hq/switchboard/pkg/providers"
	"mercator-hq/switchboard/pkg/providers/gemini"
	"mercator-hq/switchboard/pkg/routing"
	"mercator-hq/switchboard/pkg/security/secrets"
	"mercator-hq/switchboard/pkg/telemetry/metrics"
)

// Dependencies are the shared collaborators handed to every component.
type Dependencies struct {
	// Metrics is optional.
	Metrics *metrics.Collector

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

func (d Dependencies) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// NewProvider creates the Gemini provider described by cfg.
//
// The credential pool is shuffled on every call. Streams are long-lived, so
// the transport carries no overall timeout; cancellation comes from the
// request context.
//
// Example:
//
//	provider, err := providerfactory.NewProvider(cfg, deps)
//	if err != nil {
//	    return err
//	}
//	defer provider.Close()
func NewProvider(cfg *config.Config, deps Dependencies) (*gemini.Provider, error) {
	pc := cfg.Provider
	keys, err := ResolveKeys(context.Background(), &pc, deps.logger())
	if err != nil {
		return nil, err
	}

	temperature := config.DefaultTemperature
	if pc.Temperature != nil {
		temperature = *pc.Temperature
	}

	slog.Debug("creating provider",
		"name", gemini.ProviderName,
		"base_url", pc.BaseURL,
		"keys", len(pc.APIKeys),
	)

	provider, err := gemini.NewProvider(gemini.Options{
		Provider: providers.ProviderConfig{
			Name:            gemini.ProviderName,
			BaseURL:         pc.BaseURL,
			MaxRetries:      pc.MaxRetries,
			MaxIdleConns:    pc.MaxIdleConns,
			IdleConnTimeout: pc.IdleConnTimeout,
		},
		Keys: providers.NewKeyPool(keys),
		Generation: providers.GenerationConfig{
			MaxOutputTokens: pc.MaxOutputTokens,
			Temperature:     temperature,
		},
		Metrics: deps.Metrics,
		Logger:  deps.logger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create provider %q: %w", gemini.ProviderName, err)
	}
	return provider, nil
}

// ResolveKeys expands ${secret:name} references in the configured API keys.
// Names are looked up in the environment first, then in SecretsDir.
func ResolveKeys(ctx context.Context, pc *config.ProviderConfig, logger *slog.Logger) ([]string, error) {
	sources := []secrets.SecretProvider{secrets.NewEnvProvider(secrets.DefaultEnvPrefix)}
	if pc.SecretsDir != "" {
		files, err := secrets.NewFileProvider(pc.SecretsDir)
		if err != nil {
			return nil, &providers.ConfigError{Provider: gemini.ProviderName, Field: "provider.secrets_dir", Message: err.Error()}
		}
		sources = append(sources, files)
	}

	keys, err := secrets.NewResolver(logger, sources...).ResolveAll(ctx, pc.APIKeys)
	if err != nil {
		return nil, &providers.ConfigError{Provider: gemini.ProviderName, Field: "provider.api_keys", Message: err.Error()}
	}
	return keys, nil
}

// NewRouter assembles the routing pipeline around provider.
func NewRouter(cfg *config.Config, provider *gemini.Provider, deps Dependencies) *routing.Router {
	logger := deps.logger()
	rc := cfg.Routing
	catalog := routing.NewCatalog(&cfg.Models)

	threshold := config.DefaultComplexityThreshold
	if rc.ComplexityThreshold != nil {
		threshold = *rc.ComplexityThreshold
	}
	defaultScore := config.DefaultComplexity
	if rc.DefaultComplexity != nil {
		defaultScore = *rc.DefaultComplexity
	}

	classifier := complexity.NewClassifier(complexity.Options{
		Model:              catalog.Rate,
		Caller:             provider,
		ShortCircuitLength: rc.ShortCircuitLength,
		DefaultScore:       defaultScore,
		MaxOutputTokens:    rc.ClassifierMaxTokens,
		Metrics:            deps.Metrics,
		Logger:             logger,
	})

	return routing.NewRouter(routing.Options{
		Analyzer: conversation.NewAnalyzerFromConfig(&rc),
		Selector: routing.NewSelector(routing.SelectorOptions{
			Catalog:   catalog,
			Rater:     classifier,
			Threshold: threshold,
			Metrics:   deps.Metrics,
			Logger:    logger,
		}),
		Converter: content.NewConverter(logger),
		Generator: provider,
		Catalog:   catalog,
		Metrics:   deps.Metrics,
		Logger:    logger,
	})
}

// Build creates the provider and the router for cfg.
func Build(cfg *config.Config, deps Dependencies) (*routing.Router, *gemini.Provider, error) {
	provider, err := NewProvider(cfg, deps)
	if err != nil {
		return nil, nil, err
	}
	return NewRouter(cfg, provider, deps), provider, nil
}
