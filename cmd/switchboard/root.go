package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/switchboard/pkg/cli"
)

var (
	// Global flags
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "switchboard",
	Short: "Switchboard - complexity-routing proxy for Gemini",
	Long: `Switchboard is an OpenAI-compatible HTTP proxy in front of the Gemini API.

Each chat completion is analyzed and routed to a lite, simple or complex
model. Meta requests (titles, tags, follow-ups) go to the lite model, search
requests to the simple model, and plain text is scored by a small rating
model. Requests carrying images or files always use the complex model.

Configuration is read from a YAML file and SWITCHBOARD_* environment
variables; the legacy HOST, PORT, GEMINI_API_KEYS, RATE_MODEL, LITE_MODEL,
BASIC_MODEL and COMPLEX_MODEL variables are honored as well.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with a status derived from the
// returned error.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format: text, json")
}

// printResult renders data on the command's stdout in the --output format.
func printResult(cmd *cobra.Command, data any) error {
	format, err := cli.ParseOutputFormat(outputFormat)
	if err != nil {
		return err
	}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), data)
}
