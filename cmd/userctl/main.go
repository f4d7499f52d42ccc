package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"usermanager/internal/shared/config"
	"usermanager/internal/shared/telemetry"
)

// errReported marks failures whose message was already written to stderr.
var errReported = errors.New("reported")

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

type rootOptions struct {
	directoryURL string
	format       string
	verbose      bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}
	var restoreLog func()

	root := &cobra.Command{
		Use:           "userctl",
		Short:         "Manage users in a Remote Directory",
		Long:          "userctl fetches the Remote Directory into a local mirror, applies one action and prints the mirror.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			if opts.verbose {
				restoreLog = telemetry.SetOutput(stderr)
			} else {
				restoreLog = telemetry.SetOutput(io.Discard)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if restoreLog != nil {
				restoreLog()
			}
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&opts.directoryURL, "directory-url", "", "Remote Directory base URL (default: DIRECTORY_URL or "+config.DefaultDirectoryURL+")")
	root.PersistentFlags().StringVar(&opts.format, "format", "text", "output format: json|text")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "write structured logs to stderr")

	root.AddCommand(newListCmd(opts))
	root.AddCommand(newAddCmd(opts))
	root.AddCommand(newUpdateCmd(opts))
	root.AddCommand(newDeleteCmd(opts))
	return root
}

func validateFormat(format string) error {
	switch format {
	case "json", "text":
		return nil
	default:
		return fmt.Errorf("invalid format %q: must be json or text", format)
	}
}
