package config

import "time"

// Default values for configuration fields.
const (
	// Proxy defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB
	DefaultTLSMinVersion   = "1.2"
	DefaultTLSReload       = 5 * time.Minute

	// Provider defaults
	DefaultProviderBaseURL     = "https://generativelanguage.googleapis.com/v1"
	DefaultMaxOutputTokens     = 65000
	DefaultTemperature         = 0.7
	DefaultMaxIdleConns        = 100
	DefaultIdleConnTimeout     = 90 * time.Second
	DefaultProviderMaxRetries  = 0
	DefaultClassifierMaxTokens = 150

	// Routing defaults
	DefaultComplexityThreshold = 0.6
	DefaultShortCircuitLength  = 200
	DefaultComplexity          = 0.5

	// Telemetry defaults
	DefaultLoggingLevel      = "info"
	DefaultLoggingFormat     = "json"
	DefaultPrometheusPath    = "/metrics"
	DefaultMetricsNamespace  = "switchboard"
	DefaultTracingSampler    = "ratio"
	DefaultTracingSampleRate = 0.1
	DefaultServiceName       = "switchboard"
)

// Rule categories understood by the conversation analyzer.
const (
	CategoryMeta   = "meta"
	CategorySearch = "search"
)

// DefaultRules returns the built-in trigger phrases. These match the prompt
// templates chat front-ends use for auxiliary tasks.
func DefaultRules() map[string][]string {
	return map[string][]string{
		CategoryMeta: {
			"follow_ups",
			"Generate a concise",
			"Generate 1-3 broad tags",
			"Suggest 3-5 relevant follow-up questions",
		},
		CategorySearch: {
			"Respond to the user query using the provided context",
			"generating search queries",
			"**prioritize generating 1-3 broad and relevant search queries**",
		},
	}
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Proxy defaults
	if cfg.Proxy.ListenAddress == "" {
		cfg.Proxy.ListenAddress = DefaultListenAddress
	}
	if cfg.Proxy.ReadTimeout == 0 {
		cfg.Proxy.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Proxy.IdleTimeout == 0 {
		cfg.Proxy.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Proxy.ShutdownTimeout == 0 {
		cfg.Proxy.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Proxy.MaxHeaderBytes == 0 {
		cfg.Proxy.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	applyCORSDefaults(&cfg.Proxy.CORS)
	if cfg.Proxy.TLS.MinVersion == "" {
		cfg.Proxy.TLS.MinVersion = DefaultTLSMinVersion
	}
	if cfg.Proxy.TLS.ReloadInterval == 0 {
		cfg.Proxy.TLS.ReloadInterval = DefaultTLSReload
	}

	// Provider defaults
	if cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = DefaultProviderBaseURL
	}
	if cfg.Provider.MaxOutputTokens == 0 {
		cfg.Provider.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if cfg.Provider.Temperature == nil {
		cfg.Provider.Temperature = floatPtr(DefaultTemperature)
	}
	if cfg.Provider.MaxIdleConns == 0 {
		cfg.Provider.MaxIdleConns = DefaultMaxIdleConns
	}
	if cfg.Provider.IdleConnTimeout == 0 {
		cfg.Provider.IdleConnTimeout = DefaultIdleConnTimeout
	}

	// Model catalog defaults to the selectable roles
	if len(cfg.Models.Catalog) == 0 {
		cfg.Models.Catalog = distinct(cfg.Models.Lite, cfg.Models.Simple, cfg.Models.Complex)
	}

	// Routing defaults
	if cfg.Routing.ComplexityThreshold == nil {
		cfg.Routing.ComplexityThreshold = floatPtr(DefaultComplexityThreshold)
	}
	if cfg.Routing.ShortCircuitLength == 0 {
		cfg.Routing.ShortCircuitLength = DefaultShortCircuitLength
	}
	if cfg.Routing.DefaultComplexity == nil {
		cfg.Routing.DefaultComplexity = floatPtr(DefaultComplexity)
	}
	if cfg.Routing.ClassifierMaxTokens == 0 {
		cfg.Routing.ClassifierMaxTokens = DefaultClassifierMaxTokens
	}
	if cfg.Routing.Rules == nil {
		cfg.Routing.Rules = DefaultRules()
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultPrometheusPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRate
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultServiceName
	}
}

func applyCORSDefaults(cors *CORSConfig) {
	if len(cors.AllowedOrigins) == 0 {
		cors.AllowedOrigins = []string{"*"}
	}
	if len(cors.AllowedMethods) == 0 {
		cors.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cors.AllowedHeaders) == 0 {
		cors.AllowedHeaders = []string{"Authorization", "Content-Type", "X-Request-ID"}
	}
}

// distinct returns the non-empty values in order of first appearance.
func distinct(values ...string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func floatPtr(f float64) *float64 {
	return &f
}
