package config

import "time"

// Config is the root configuration structure for Switchboard.
// It contains all configuration sections for the proxy server, the upstream
// generation provider, model roles, routing heuristics, and telemetry.
type Config struct {
	// Proxy contains HTTP proxy server configuration including listen address,
	// timeouts, and connection limits.
	Proxy ProxyConfig `yaml:"proxy"`

	// Provider contains configuration for the upstream generation provider,
	// including its credential pool.
	Provider ProviderConfig `yaml:"provider"`

	// Models maps the routing roles (rate, lite, simple, complex) to concrete
	// provider model identifiers and lists the advertised catalog.
	Models ModelsConfig `yaml:"models"`

	// Routing contains the model selection heuristics.
	Routing RoutingConfig `yaml:"routing"`

	// Telemetry contains configuration for observability including logging,
	// metrics, and distributed tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ProxyConfig contains configuration for the HTTP proxy server.
type ProxyConfig struct {
	// ListenAddress is the address and port for the proxy to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080", "0.0.0.0:8080").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body. A zero or negative value means no timeout.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. Streams are long-lived, so zero (no timeout) is the default.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing the request header's keys and values.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`

	// TLS switches the listener to HTTPS.
	TLS TLSConfig `yaml:"tls"`
}

// TLSConfig contains listener TLS settings.
type TLSConfig struct {
	// Enabled serves HTTPS instead of plain HTTP.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// CertFile is the PEM encoded server certificate (chain).
	CertFile string `yaml:"cert_file"`

	// KeyFile is the PEM encoded private key for CertFile.
	KeyFile string `yaml:"key_file"`

	// MinVersion is the lowest protocol version accepted: "1.2" or "1.3".
	// Default: "1.2"
	MinVersion string `yaml:"min_version"`

	// ReloadInterval is how often the certificate files are checked for
	// changes.
	// Default: 5m
	ReloadInterval time.Duration `yaml:"reload_interval"`
}

// CORSConfig contains CORS (Cross-Origin Resource Sharing) configuration.
type CORSConfig struct {
	// Enabled controls whether CORS headers are written.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins for CORS requests.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods for CORS requests.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed HTTP headers for CORS requests.
	// Default: ["Authorization", "Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// ProviderConfig contains configuration for the upstream generation provider.
type ProviderConfig struct {
	// BaseURL is the versioned base URL of the generation API.
	// Default: "https://generativelanguage.googleapis.com/v1"
	BaseURL string `yaml:"base_url"`

	// APIKeys is the credential pool. Each call walks a shuffled copy.
	// At least one key is required. An entry may be a ${secret:name}
	// reference, resolved from SWITCHBOARD_SECRET_<NAME> or from the file
	// <SecretsDir>/<name>.
	APIKeys []string `yaml:"api_keys"`

	// SecretsDir is the directory holding one file per referenced secret.
	// Optional; without it references resolve from the environment only.
	SecretsDir string `yaml:"secrets_dir"`

	// MaxRetries is the number of extra attempts per credential on
	// transport-level failures. Non-2xx statuses are never retried.
	// Default: 0
	MaxRetries int `yaml:"max_retries"`

	// MaxOutputTokens is sent as generationConfig.maxOutputTokens on
	// generation calls.
	// Default: 65000
	MaxOutputTokens int `yaml:"max_output_tokens"`

	// Temperature is sent as generationConfig.temperature on generation calls.
	// Default: 0.7
	Temperature *float64 `yaml:"temperature"`

	// MaxIdleConns bounds the idle connection pool of the HTTP transport.
	// Default: 100
	MaxIdleConns int `yaml:"max_idle_conns"`

	// IdleConnTimeout is how long idle upstream connections are kept.
	// Default: 90s
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

// ModelsConfig binds routing roles to provider model identifiers.
type ModelsConfig struct {
	// Rate is the auxiliary model used to score complexity.
	Rate string `yaml:"rate"`

	// Lite serves meta requests (titles, tags, follow-ups).
	Lite string `yaml:"lite"`

	// Simple serves search requests and low-complexity text. It is also the
	// fallback model.
	Simple string `yaml:"simple"`

	// Complex serves high-complexity text and multimodal requests.
	Complex string `yaml:"complex"`

	// Catalog lists the externally advertised model identifiers. A request
	// naming one of them is honored verbatim when no meta or search signal fires.
	// Default: the distinct values of Lite, Simple and Complex.
	Catalog []string `yaml:"catalog"`
}

// RoutingConfig contains the model selection heuristics.
type RoutingConfig struct {
	// ComplexityThreshold is the score at or above which plain text is routed
	// to the complex model.
	// Default: 0.6
	ComplexityThreshold *float64 `yaml:"complexity_threshold"`

	// ShortCircuitLength is the character count above which the classifier
	// returns 1.0 without calling the rate model.
	// Default: 200
	ShortCircuitLength int `yaml:"short_circuit_length"`

	// DefaultComplexity is returned when the rate model gives no usable score.
	// Default: 0.5
	DefaultComplexity *float64 `yaml:"default_complexity"`

	// ClassifierMaxTokens is sent as maxOutputTokens on classifier calls.
	// Default: 150
	ClassifierMaxTokens int `yaml:"classifier_max_tokens"`

	// Rules maps a conversation category ("meta", "search") to the literal
	// phrases that trigger it. Matching is case-sensitive substring containment.
	// Default: the built-in phrase sets.
	Rules map[string][]string `yaml:"rules"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`

	// Report contains the periodic routing statistics report.
	Report ReportConfig `yaml:"report"`
}

// ReportConfig schedules a log summary of routing statistics.
type ReportConfig struct {
	// Schedule is a standard five-field cron expression or a descriptor
	// such as "@hourly" or "@every 15m". Empty disables the report.
	Schedule string `yaml:"schedule"`

	// Reset zeroes the counters after each report so every entry covers
	// one interval.
	// Default: false
	Reset bool `yaml:"reset"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactKeys masks provider credentials in log output.
	// Default: true
	RedactKeys *bool `yaml:"redact_keys"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "switchboard"
	Namespace string `yaml:"namespace"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Default: 0.1
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint, e.g. "localhost:4317".
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS towards the collector.
	Insecure bool `yaml:"insecure"`

	// ServiceName is the service name in traces.
	// Default: "switchboard"
	ServiceName string `yaml:"service_name"`
}

// MetricsEnabled reports whether metrics collection is switched on.
func (c *Config) MetricsEnabled() bool {
	return c.Telemetry.Metrics.Enabled == nil || *c.Telemetry.Metrics.Enabled
}

// RedactKeys reports whether credentials are masked in logs.
func (c *Config) RedactKeys() bool {
	return c.Telemetry.Logging.RedactKeys == nil || *c.Telemetry.Logging.RedactKeys
}
