package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/switchboard/pkg/cli"
	"mercator-hq/switchboard/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration file, apply environment overrides and defaults,
and check it. A summary of the effective settings is printed on success.

API keys are never printed; only their count is shown.

Examples:
  # Validate the default config.yaml
  switchboard validate

  # Validate a specific file and print JSON
  switchboard validate --config /etc/switchboard/config.yaml --output json`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

type configSummary struct {
	ConfigFile    string   `json:"config_file"`
	ListenAddress string   `json:"listen_address"`
	BaseURL       string   `json:"base_url"`
	APIKeys       int      `json:"api_keys"`
	RateModel     string   `json:"rate_model"`
	LiteModel     string   `json:"lite_model"`
	SimpleModel   string   `json:"simple_model"`
	ComplexModel  string   `json:"complex_model"`
	Catalog       []string `json:"catalog"`
	Threshold     float64  `json:"complexity_threshold"`
	Metrics       bool     `json:"metrics_enabled"`
	Tracing       bool     `json:"tracing_enabled"`
}

func (s configSummary) RenderText(w io.Writer) error {
	_, err := fmt.Fprintf(w, `✓ Configuration valid: %s
  Listen address:  %s
  Provider:        %s (%d keys)
  Models:          rate=%s lite=%s simple=%s complex=%s
  Catalog:         %s
  Threshold:       %.2f
  Metrics:         %t
  Tracing:         %t
`,
		s.ConfigFile, s.ListenAddress, s.BaseURL, s.APIKeys,
		s.RateModel, s.LiteModel, s.SimpleModel, s.ComplexModel,
		strings.Join(s.Catalog, ", "), s.Threshold, s.Metrics, s.Tracing)
	return err
}

func summarize(path string, cfg *config.Config) configSummary {
	return configSummary{
		ConfigFile:    path,
		ListenAddress: cfg.Proxy.ListenAddress,
		BaseURL:       cfg.Provider.BaseURL,
		APIKeys:       len(cfg.Provider.APIKeys),
		RateModel:     cfg.Models.Rate,
		LiteModel:     cfg.Models.Lite,
		SimpleModel:   cfg.Models.Simple,
		ComplexModel:  cfg.Models.Complex,
		Catalog:       cfg.Models.Catalog,
		Threshold:     *cfg.Routing.ComplexityThreshold,
		Metrics:       cfg.MetricsEnabled(),
		Tracing:       cfg.Telemetry.Tracing.Enabled,
	}
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError(cfgFile, err)
	}
	return printResult(cmd, summarize(cfgFile, cfg))
}
