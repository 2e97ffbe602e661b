package volley

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// volleyConfig holds mutable state during Volley construction.
type volleyConfig struct {
	targets        []string
	count          int
	timeout        time.Duration
	output         io.Writer
	logger         *slog.Logger
	statusAddr     string
	batchCallbacks []func(BatchStats)
}

// Option is a function that configures a [Volley] instance during construction.
//
// Options return an error if validation fails.
type Option func(*volleyConfig) error

// WithTargets appends target URLs to the roster.
//
// Can be called multiple times; targets are probed in the order added.
// Each URL must be an absolute http or https URL. Duplicate URLs are kept and
// probed independently.
func WithTargets(urls ...string) Option {
	return func(cfg *volleyConfig) error {
		for _, u := range urls {
			if err := ValidateURL(u); err != nil {
				return fmt.Errorf("target %q: %w", u, err)
			}
		}
		cfg.targets = append(cfg.targets, urls...)
		return nil
	}
}

// WithCount sets how many times each target appears in one batch.
//
// Defaults to 20. Returns an error if n is less than 1.
func WithCount(n int) Option {
	return func(cfg *volleyConfig) error {
		if n < 1 {
			return fmt.Errorf("count must be at least 1, got %d", n)
		}
		cfg.count = n
		return nil
	}
}

// WithTimeout sets the per-request timeout of the shared HTTP client.
//
// A request that does not complete within the timeout counts as a failure.
// Defaults to 1 second. Returns an error if d is zero or negative.
func WithTimeout(d time.Duration) Option {
	return func(cfg *volleyConfig) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		cfg.timeout = d
		return nil
	}
}

// WithOutput sets where the per-batch tally is written.
//
// Defaults to os.Stdout. Returns an error if w is nil.
func WithOutput(w io.Writer) Option {
	return func(cfg *volleyConfig) error {
		if w == nil {
			return errors.New("output cannot be nil")
		}
		cfg.output = w
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the Volley instance.
//
// If not specified, [slog.Default] is used. Returns an error if the logger
// is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *volleyConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithStatusAddr enables the status server on addr (e.g. ":9100").
//
// The server exposes /api/targets, /metrics and /healthz. It is disabled by
// default.
func WithStatusAddr(addr string) Option {
	return func(cfg *volleyConfig) error {
		cfg.statusAddr = addr
		return nil
	}
}

// WithBatchCallback registers a function called after every drained batch.
//
// Callbacks run synchronously on the batch loop, after the tally has been
// written and before the next batch starts, so they must not block. Panics
// are recovered and logged. Nil callbacks are ignored.
func WithBatchCallback(cb func(BatchStats)) Option {
	return func(cfg *volleyConfig) error {
		if cb == nil {
			return nil
		}
		cfg.batchCallbacks = append(cfg.batchCallbacks, cb)
		return nil
	}
}
