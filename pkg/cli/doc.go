/*
Package cli provides command-line helpers for the switchboard command.

Output Formatting:

Results are printed as text or JSON depending on the --output flag:

	format, err := cli.ParseOutputFormat(outputFlag)
	if err != nil {
		return err
	}
	return cli.NewFormatter(format).FormatTo(os.Stdout, result)

Results that implement TextRenderer control their own text layout.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, cancel := cli.SetupSignalHandler(context.Background(), logger)
	defer cancel()

Exit Codes:

ExitCode maps command errors to process exit codes; configuration errors
exit with 2.
*/
package cli
