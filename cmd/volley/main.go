// Package main is the entry point for the volley CLI.
//
// Usage:
//
//	volley -f targets.yaml                 # probe the roster in targets.yaml
//	volley -c 5 http://localhost:9999/ok   # probe a single URL, 5 per batch
//	volley validate -f targets.yaml        # validate a roster file
//	volley version                         # show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// newRootCmd builds the command tree. A fresh tree is built per invocation so
// flag state never leaks between runs.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "volley [flags] [url...]",
		Short: "Continuously probe a roster of HTTP targets in concurrent batches",
		Long: `Volley fires batches of concurrent GET requests at a roster of targets and
prints a running tally after every batch:

  <url>, <request_count>, <failed_count>

Each batch contains every target repeated --count times. All requests of a
batch run at once; the tally is printed when the whole batch has finished,
then the next batch starts. Volley runs until interrupted (Ctrl+C) or it
receives SIGTERM.

A request fails on a transport error (timeout, refused connection, DNS or
TLS failure) or a 5xx response. Every other status counts as success.

Targets come from a YAML file (-f) and/or positional URLs:

  volley -f targets.yaml
  volley -c 5 http://localhost:9999/ok http://localhost:9999/fail

Example targets.yaml:
  count: 20
  timeout: 1s
  targets:
    - http://localhost:9999/ok
    - http://localhost:9999/fail`,
		Args: cobra.ArbitraryArgs,
		RunE: runRoot,
	}

	registerRunFlags(rootCmd)
	rootCmd.AddCommand(newValidateCmd(), newVersionCmd())
	return rootCmd
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// newVersionCmd prints version information.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of this volley binary.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "volley %s\n", version)
			fmt.Fprintf(out, "  commit: %s\n", commit)
			fmt.Fprintf(out, "  built:  %s\n", date)
		},
	}
}
