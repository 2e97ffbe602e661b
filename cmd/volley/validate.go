package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/volley/config"
)

// newValidateCmd validates a targets file without sending any requests.
func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a targets file",
		Long: `Validate a volley targets file without sending any requests.

This command parses the YAML, expands environment variables and grids, and
validates every target. All problems are reported at once.

Exit codes:
  0 - File is valid
  1 - File is invalid (error details printed to stderr)

Example:
  volley validate -f targets.yaml`,
		Args: cobra.NoArgs,
		RunE: runValidate,
	}

	cmd.Flags().StringP("file", "f", "", "path to targets file (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	cfg, err := config.Load(file)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	urls, err := config.BuildTargets(cfg)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	direct := len(cfg.Targets)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Count:      %d\n", cfg.Count)
	fmt.Fprintf(out, "  Timeout:    %s\n", cfg.Timeout.Duration())
	fmt.Fprintf(out, "  Targets:    %d direct + %d from grids = %d total\n",
		direct, len(urls)-direct, len(urls))
	fmt.Fprintf(out, "  Batch size: %d\n", cfg.Count*len(urls))

	return nil
}
