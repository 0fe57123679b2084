package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/switchboard/pkg/cli"
	"mercator-hq/switchboard/pkg/config"
	"mercator-hq/switchboard/pkg/providerfactory"
	"mercator-hq/switchboard/pkg/server"
	"mercator-hq/switchboard/pkg/telemetry/logging"
	"mercator-hq/switchboard/pkg/telemetry/metrics"
	"mercator-hq/switchboard/pkg/telemetry/report"
	"mercator-hq/switchboard/pkg/telemetry/tracing"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	watch         bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Switchboard proxy server",
	Long: `Start the Switchboard proxy server with the specified configuration.

The server listens on the configured address and serves the OpenAI-compatible
endpoints /health, /v1/models and /v1/chat/completions, plus /metrics when
metrics are enabled.

With --watch, edits to the configuration file are applied without a
restart. A file that fails validation is rejected and the running
configuration is kept. The listen address and telemetry settings are only
read at startup.

Examples:
  # Start with default config
  switchboard run

  # Start with custom config
  switchboard run --config /etc/switchboard/config.yaml

  # Override listen address
  switchboard run --listen 0.0.0.0:8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.watch, "watch", false, "reload the config file when it changes")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError(cfgFile, err)
	}

	if runFlags.listenAddress != "" {
		cfg.Proxy.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError(cfgFile, err)
	}

	logger, err := logging.New(logging.Config{
		Level:      cfg.Telemetry.Logging.Level,
		Format:     cfg.Telemetry.Logging.Format,
		AddSource:  cfg.Telemetry.Logging.AddSource,
		RedactKeys: cfg.RedactKeys(),
		Writer:     os.Stdout,
	})
	if err != nil {
		return cli.NewConfigError(cfgFile, err)
	}
	slog.SetDefault(logger)

	ctx, cancel := cli.SetupSignalHandler(cmd.Context(), logger)
	defer cancel()

	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to initialize tracing: %w", err))
	}
	defer func() {
		if err := tracer.Shutdown(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	var collector *metrics.Collector
	if cfg.MetricsEnabled() {
		collector = metrics.NewCollector(cfg.Telemetry.Metrics.Namespace, nil)
	}

	manager, err := providerfactory.NewManager(cfg, providerfactory.Dependencies{
		Metrics: collector,
		Logger:  logger,
	})
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer manager.Close()

	logger.Info("router initialized",
		"config", cfgFile,
		"keys", len(cfg.Provider.APIKeys),
		"models", manager.Catalog().Advertised(),
		"tracing", tracer.Enabled(),
		"metrics", collector != nil,
	)

	reporter := report.New(&cfg.Telemetry.Report, manager.Router(), logger)
	if err := reporter.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	defer reporter.Stop()

	if runFlags.watch {
		store := config.NewStoreFrom(cfgFile, cfg, logger)
		store.Subscribe(manager.OnConfigChange)
		go func() {
			if err := store.Watch(ctx); err != nil && ctx.Err() == nil {
				logger.Error("configuration watcher stopped", "error", err)
			}
		}()
	}

	opts := server.Options{
		Completer:   manager.Router(),
		Catalog:     manager,
		MetricsPath: cfg.Telemetry.Metrics.Path,
		Logger:      logger,
	}
	if collector != nil {
		opts.Metrics = collector.Handler()
	}

	srv := server.NewServer(&cfg.Proxy, opts)
	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	logger.Info("server stopped")
	return nil
}
