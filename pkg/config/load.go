package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention SWITCHBOARD_SECTION_FIELD (e.g., SWITCHBOARD_PROXY_LISTEN_ADDRESS).
// The legacy deployment variables (HOST, PORT, GEMINI_API_KEYS,
// RATE_MODEL, LITE_MODEL, BASIC_MODEL, COMPLEX_MODEL) are honored as well.
// Environment variables always take precedence over file-based configuration.
//
// An empty path, or a path that does not exist, yields an environment-only
// configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply environment variable overrides
// 3. Apply default values
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		fromFile, err := readFile(path)
		switch {
		case err == nil:
			cfg = fromFile
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}
	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Legacy variables are applied first so the prefixed form wins when both are set.
func applyEnvOverrides(cfg *Config) error {
	if err := applyLegacyEnv(cfg); err != nil {
		return err
	}

	// Proxy overrides
	if val := os.Getenv("SWITCHBOARD_PROXY_LISTEN_ADDRESS"); val != "" {
		cfg.Proxy.ListenAddress = val
	}
	if val := os.Getenv("SWITCHBOARD_PROXY_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Proxy.ReadTimeout = d
		}
	}
	if val := os.Getenv("SWITCHBOARD_PROXY_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Proxy.WriteTimeout = d
		}
	}
	if val := os.Getenv("SWITCHBOARD_PROXY_IDLE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Proxy.IdleTimeout = d
		}
	}
	if val := os.Getenv("SWITCHBOARD_PROXY_CORS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Proxy.CORS.Enabled = b
		}
	}
	if val := os.Getenv("SWITCHBOARD_PROXY_TLS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Proxy.TLS.Enabled = b
		}
	}
	if val := os.Getenv("SWITCHBOARD_PROXY_TLS_CERT_FILE"); val != "" {
		cfg.Proxy.TLS.CertFile = val
	}
	if val := os.Getenv("SWITCHBOARD_PROXY_TLS_KEY_FILE"); val != "" {
		cfg.Proxy.TLS.KeyFile = val
	}

	// Provider overrides
	if val := os.Getenv("SWITCHBOARD_PROVIDER_BASE_URL"); val != "" {
		cfg.Provider.BaseURL = val
	}
	if val := os.Getenv("SWITCHBOARD_PROVIDER_API_KEYS"); val != "" {
		cfg.Provider.APIKeys = splitList(val)
	}
	if val := os.Getenv("SWITCHBOARD_PROVIDER_SECRETS_DIR"); val != "" {
		cfg.Provider.SecretsDir = val
	}
	if val := os.Getenv("SWITCHBOARD_PROVIDER_MAX_RETRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Provider.MaxRetries = i
		}
	}
	if val := os.Getenv("SWITCHBOARD_PROVIDER_MAX_OUTPUT_TOKENS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Provider.MaxOutputTokens = i
		}
	}
	if val := os.Getenv("SWITCHBOARD_PROVIDER_TEMPERATURE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Provider.Temperature = &f
		}
	}

	// Model overrides
	if val := os.Getenv("SWITCHBOARD_MODELS_RATE"); val != "" {
		cfg.Models.Rate = val
	}
	if val := os.Getenv("SWITCHBOARD_MODELS_LITE"); val != "" {
		cfg.Models.Lite = val
	}
	if val := os.Getenv("SWITCHBOARD_MODELS_SIMPLE"); val != "" {
		cfg.Models.Simple = val
	}
	if val := os.Getenv("SWITCHBOARD_MODELS_COMPLEX"); val != "" {
		cfg.Models.Complex = val
	}
	if val := os.Getenv("SWITCHBOARD_MODELS_CATALOG"); val != "" {
		cfg.Models.Catalog = splitList(val)
	}

	// Routing overrides
	if val := os.Getenv("SWITCHBOARD_ROUTING_COMPLEXITY_THRESHOLD"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Routing.ComplexityThreshold = &f
		}
	}
	if val := os.Getenv("SWITCHBOARD_ROUTING_SHORT_CIRCUIT_LENGTH"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Routing.ShortCircuitLength = i
		}
	}

	// Telemetry overrides
	if val := os.Getenv("SWITCHBOARD_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("SWITCHBOARD_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("SWITCHBOARD_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = &b
		}
	}
	if val := os.Getenv("SWITCHBOARD_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
	if val := os.Getenv("SWITCHBOARD_TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("SWITCHBOARD_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := os.Getenv("SWITCHBOARD_TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}

	return nil
}

// applyLegacyEnv maps the unprefixed variables used by existing deployments.
// GEMINI_API_KEYS is a JSON array of strings.
func applyLegacyEnv(cfg *Config) error {
	host, port := os.Getenv("HOST"), os.Getenv("PORT")
	if host != "" || port != "" {
		curHost, curPort, err := net.SplitHostPort(cfg.Proxy.ListenAddress)
		if err != nil {
			curHost, curPort = "127.0.0.1", "8080"
		}
		if host == "" {
			host = curHost
		}
		if port == "" {
			port = curPort
		}
		cfg.Proxy.ListenAddress = net.JoinHostPort(host, port)
	}

	if val := os.Getenv("GEMINI_API_KEYS"); val != "" {
		var keys []string
		if err := json.Unmarshal([]byte(val), &keys); err != nil {
			return fmt.Errorf("failed to parse GEMINI_API_KEYS as a JSON array: %w", err)
		}
		cfg.Provider.APIKeys = keys
	}

	legacyModels := []struct {
		env    string
		target *string
	}{
		{"RATE_MODEL", &cfg.Models.Rate},
		{"LITE_MODEL", &cfg.Models.Lite},
		{"BASIC_MODEL", &cfg.Models.Simple},
		{"COMPLEX_MODEL", &cfg.Models.Complex},
	}
	for _, m := range legacyModels {
		if val := os.Getenv(m.env); val != "" {
			*m.target = val
		}
	}
	return nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
