package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/volley"
	"github.com/jpalmerr/volley/config"
)

// newLogger creates a JSON logger for CLI use.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: lvl,
	})), nil
}

func registerRunFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntP("count", "c", volley.DefaultCount, "number of times each target is repeated in one batch")
	flags.StringP("file", "f", "", "path to a YAML targets file")
	flags.DurationP("timeout", "t", volley.DefaultTimeout, "per-request timeout")
	flags.String("status-addr", "", "serve /api/targets and /metrics on this address (disabled if empty)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
}

// loadRunConfig merges the targets file (if any), positional URLs and flags.
// Flags override file values only when set explicitly.
func loadRunConfig(cmd *cobra.Command, args []string) (*config.Config, []string, error) {
	flags := cmd.Flags()

	cfg := &config.Config{
		Count:   volley.DefaultCount,
		Timeout: config.Duration(volley.DefaultTimeout),
	}
	var urls []string

	if file, _ := flags.GetString("file"); file != "" {
		loaded, err := config.Load(file)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded

		urls, err = config.BuildTargets(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build targets: %w", err)
		}
	}
	urls = append(urls, args...)

	if flags.Changed("count") {
		cfg.Count, _ = flags.GetInt("count")
	}
	if flags.Changed("timeout") {
		d, _ := flags.GetDuration("timeout")
		cfg.Timeout = config.Duration(d)
	}
	if flags.Changed("status-addr") {
		cfg.StatusAddr, _ = flags.GetString("status-addr")
	}

	if cfg.Count < 1 {
		return nil, nil, fmt.Errorf("count must be a positive integer, got %d", cfg.Count)
	}
	if cfg.Timeout.Duration() <= 0 {
		return nil, nil, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout.Duration())
	}
	if len(urls) == 0 {
		return nil, nil, errors.New("no targets configured: pass URLs as arguments or use --file")
	}

	return cfg, urls, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	level, _ := cmd.Flags().GetString("log-level")
	logger, err := newLogger(cmd.ErrOrStderr(), strings.TrimSpace(level))
	if err != nil {
		return err
	}

	cfg, urls, err := loadRunConfig(cmd, args)
	if err != nil {
		return err
	}

	opts := []volley.Option{
		volley.WithTargets(urls...),
		volley.WithCount(cfg.Count),
		volley.WithTimeout(cfg.Timeout.Duration()),
		volley.WithOutput(cmd.OutOrStdout()),
		volley.WithLogger(logger),
	}
	if cfg.StatusAddr != "" {
		opts = append(opts, volley.WithStatusAddr(cfg.StatusAddr))
	}

	v, err := volley.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create volley: %w", err)
	}

	// cancel on SIGINT/SIGTERM; the batch in flight drains before Run returns
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := v.Run(ctx); err != nil {
		return fmt.Errorf("volley error: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}
