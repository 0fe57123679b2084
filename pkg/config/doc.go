// Package config provides configuration management for Switchboard.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. It provides a type-safe
// configuration system with validation and sensible defaults.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention SWITCHBOARD_SECTION_FIELD.
// For example:
//
//   - SWITCHBOARD_PROXY_LISTEN_ADDRESS overrides proxy.listen_address
//   - SWITCHBOARD_PROVIDER_API_KEYS overrides provider.api_keys (comma separated)
//   - SWITCHBOARD_MODELS_COMPLEX overrides models.complex
//
// The unprefixed variables HOST, PORT, GEMINI_API_KEYS (a JSON array),
// RATE_MODEL, LITE_MODEL, BASIC_MODEL and COMPLEX_MODEL are also read.
// BASIC_MODEL maps to models.simple.
//
// # Configuration Precedence
//
//  1. Values from YAML file
//  2. Legacy environment variables
//  3. SWITCHBOARD_* environment variables
//  4. Default values for anything still unset
//  5. Validation (fails fast if invalid)
//
// # Snapshots and Reload
//
// Store holds an immutable *Config behind an atomic pointer. Store.Watch
// reloads on file changes; a reload that fails validation is logged and the
// previous snapshot is kept.
//
// # Example Configuration
//
//	proxy:
//	  listen_address: "0.0.0.0:8000"
//
//	provider:
//	  api_keys: ["key-one", "key-two"]
//
//	models:
//	  rate: "gemini-2.0-flash-lite"
//	  lite: "gemini-2.0-flash-lite"
//	  simple: "gemini-2.0-flash"
//	  complex: "gemini-2.5-pro"
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
package config
