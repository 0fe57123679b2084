package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler returns a context that is cancelled on the first
// SIGINT or SIGTERM. A second signal exits the process immediately.
func SetupSignalHandler(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(parent)

	sigChan := WaitForShutdown()
	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("received shutdown signal", "signal", sig.String())
			cancel()
		case <-ctx.Done():
			return
		}

		select {
		case sig := <-sigChan:
			logger.Warn("received second signal, exiting", "signal", sig.String())
			os.Exit(ExitError)
		case <-parent.Done():
		}
	}()

	return ctx, cancel
}

// WaitForShutdown returns a channel that receives SIGINT and SIGTERM.
func WaitForShutdown() chan os.Signal {
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	return sigChan
}
