package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "proxy.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateProxy(&cfg.Proxy)...)
	errs = append(errs, validateProvider(&cfg.Provider)...)
	errs = append(errs, validateModels(&cfg.Models)...)
	errs = append(errs, validateRouting(&cfg.Routing)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateProxy(cfg *ProxyConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "proxy.listen_address",
			Message: "listen address is required",
		})
	} else if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "proxy.listen_address",
			Message: fmt.Sprintf("invalid listen address %q: %v", cfg.ListenAddress, err),
		})
	}

	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.max_header_bytes",
			Message: "max header bytes must be non-negative",
		})
	}

	errs = append(errs, validateTLS(&cfg.TLS)...)

	return errs
}

func validateTLS(cfg *TLSConfig) []FieldError {
	if !cfg.Enabled {
		return nil
	}

	var errs []FieldError
	if cfg.CertFile == "" {
		errs = append(errs, FieldError{
			Field:   "proxy.tls.cert_file",
			Message: "certificate file is required when TLS is enabled",
		})
	}
	if cfg.KeyFile == "" {
		errs = append(errs, FieldError{
			Field:   "proxy.tls.key_file",
			Message: "key file is required when TLS is enabled",
		})
	}
	switch cfg.MinVersion {
	case "", "1.2", "1.3":
	default:
		errs = append(errs, FieldError{
			Field:   "proxy.tls.min_version",
			Message: fmt.Sprintf("unsupported TLS version %q (want 1.2 or 1.3)", cfg.MinVersion),
		})
	}
	if cfg.ReloadInterval < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.tls.reload_interval",
			Message: "reload interval must not be negative",
		})
	}
	return errs
}

func validateProvider(cfg *ProviderConfig) []FieldError {
	var errs []FieldError

	if u, err := url.Parse(cfg.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, FieldError{
			Field:   "provider.base_url",
			Message: fmt.Sprintf("invalid base URL %q", cfg.BaseURL),
		})
	}

	if len(cfg.APIKeys) == 0 {
		errs = append(errs, FieldError{
			Field:   "provider.api_keys",
			Message: "at least one API key is required",
		})
	}
	for i, key := range cfg.APIKeys {
		if strings.TrimSpace(key) == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("provider.api_keys[%d]", i),
				Message: "API key must not be empty",
			})
		}
	}

	if cfg.MaxRetries < 0 {
		errs = append(errs, FieldError{
			Field:   "provider.max_retries",
			Message: "max retries must be non-negative",
		})
	}
	if cfg.MaxOutputTokens < 0 {
		errs = append(errs, FieldError{
			Field:   "provider.max_output_tokens",
			Message: "max output tokens must be positive",
		})
	}
	if cfg.Temperature != nil && (*cfg.Temperature < 0 || *cfg.Temperature > 2) {
		errs = append(errs, FieldError{
			Field:   "provider.temperature",
			Message: fmt.Sprintf("temperature %v out of range [0, 2]", *cfg.Temperature),
		})
	}

	return errs
}

func validateModels(cfg *ModelsConfig) []FieldError {
	var errs []FieldError

	roles := []struct {
		field string
		value string
	}{
		{"models.rate", cfg.Rate},
		{"models.lite", cfg.Lite},
		{"models.simple", cfg.Simple},
		{"models.complex", cfg.Complex},
	}
	for _, r := range roles {
		if r.value == "" {
			errs = append(errs, FieldError{
				Field:   r.field,
				Message: "model identifier is required",
			})
		}
	}

	return errs
}

func validateRouting(cfg *RoutingConfig) []FieldError {
	var errs []FieldError

	if t := cfg.ComplexityThreshold; t != nil && (*t < 0 || *t > 1) {
		errs = append(errs, FieldError{
			Field:   "routing.complexity_threshold",
			Message: fmt.Sprintf("threshold %v out of range [0, 1]", *t),
		})
	}
	if d := cfg.DefaultComplexity; d != nil && (*d < 0 || *d > 1) {
		errs = append(errs, FieldError{
			Field:   "routing.default_complexity",
			Message: fmt.Sprintf("default complexity %v out of range [0, 1]", *d),
		})
	}
	if cfg.ShortCircuitLength < 0 {
		errs = append(errs, FieldError{
			Field:   "routing.short_circuit_length",
			Message: "short circuit length must be positive",
		})
	}
	for category, phrases := range cfg.Rules {
		for i, p := range phrases {
			if p == "" {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("routing.rules.%s[%d]", category, i),
					Message: "trigger phrase must not be empty",
				})
			}
		}
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json' or 'text'", cfg.Logging.Format),
		})
	}

	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with '/'",
		})
	}

	if cfg.Report.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Report.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "telemetry.report.schedule",
				Message: fmt.Sprintf("invalid cron schedule %q: %v", cfg.Report.Schedule, err),
			})
		}
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "tracing endpoint is required when tracing is enabled",
		})
	}
	validSamplers := map[string]bool{"always": true, "never": true, "ratio": true}
	if !validSamplers[cfg.Tracing.Sampler] {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q: must be 'always', 'never', or 'ratio'", cfg.Tracing.Sampler),
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	return errs
}
