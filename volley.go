package volley

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jpalmerr/volley/internal/metrics"
	"github.com/jpalmerr/volley/internal/prober"
	"github.com/jpalmerr/volley/internal/registry"
	"github.com/jpalmerr/volley/internal/report"
	"github.com/jpalmerr/volley/internal/scheduler"
	"github.com/jpalmerr/volley/internal/server"
)

const (
	// DefaultCount is the default number of times each target appears in a batch.
	DefaultCount = 20

	// DefaultTimeout is the default per-request timeout.
	DefaultTimeout = prober.DefaultTimeout
)

// Volley owns the target roster, the shared HTTP client and the batch loop.
//
// It is created with [New] and driven with [Volley.Run]:
//
//	v, err := volley.New(volley.WithTargets(urls...))
//	if err != nil {
//	    return err
//	}
//	return v.Run(ctx) // blocks until ctx is cancelled
type Volley struct {
	registry   *registry.Registry
	client     *prober.Client
	scheduler  *scheduler.Scheduler
	collector  *metrics.Collector
	count      int
	timeout    time.Duration
	statusAddr string
	logger     *slog.Logger
}

// New creates a [Volley] from the given options.
//
// At least one target must be configured via [WithTargets]. Defaults:
//   - Count: 20
//   - Timeout: 1 second
//   - Output: os.Stdout
//
// Returns an error if no targets are configured, if any option is invalid,
// or if the HTTP client cannot be built.
func New(opts ...Option) (*Volley, error) {
	cfg := &volleyConfig{
		count:   DefaultCount,
		timeout: DefaultTimeout,
		output:  os.Stdout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if len(cfg.targets) == 0 {
		return nil, errors.New("at least one target is required")
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	reg, err := registry.New(cfg.targets)
	if err != nil {
		return nil, err
	}

	client, err := prober.NewClient(cfg.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}

	collector := metrics.NewCollector(reg)

	observers := []func(scheduler.BatchStats){collector.ObserveBatch}
	for _, cb := range cfg.batchCallbacks {
		cb := cb
		observers = append(observers, func(s scheduler.BatchStats) {
			cb(toPublicBatchStats(s))
		})
	}

	sched, err := scheduler.New(reg, prober.New(client), cfg.count, report.NewTally(cfg.output), logger, observers...)
	if err != nil {
		client.Close()
		return nil, err
	}

	return &Volley{
		registry:   reg,
		client:     client,
		scheduler:  sched,
		collector:  collector,
		count:      cfg.count,
		timeout:    cfg.timeout,
		statusAddr: cfg.statusAddr,
		logger:     logger,
	}, nil
}

// Run starts the batch loop and, if configured, the status server.
//
// Run blocks until ctx is cancelled. Cancellation takes effect between
// batches: the batch in flight is allowed to drain and is reported before Run
// returns. Returns nil on shutdown, or an error if the status server cannot
// bind its address.
func (v *Volley) Run(ctx context.Context) error {
	if ctx.Err() != nil {
		return nil
	}

	v.logger.Info("volley starting",
		"targets", v.registry.Len(),
		"count", v.count,
		"batch_size", v.registry.Len()*v.count,
		"timeout", v.timeout.String(),
	)

	if v.statusAddr != "" {
		srv := server.NewServer(v.registry, metrics.NewRegistry(v.collector), v.statusAddr, v.logger)
		if err := srv.Start(ctx); err != nil {
			return fmt.Errorf("failed to start status server: %w", err)
		}
	}

	err := v.scheduler.Run(ctx)
	v.client.Close()
	if err != nil {
		return err
	}

	v.logger.Info("volley stopped")
	return nil
}

// Snapshot returns the current counters of every target in roster order.
func (v *Volley) Snapshot() []TargetStats {
	stats := v.registry.Snapshot()
	out := make([]TargetStats, len(stats))
	for i, s := range stats {
		out[i] = TargetStats{URL: s.URL, Requests: s.Requests, Failures: s.Failures}
	}
	return out
}

// Targets returns the roster URLs in order.
func (v *Volley) Targets() []string {
	targets := v.registry.Targets()
	urls := make([]string, len(targets))
	for i, t := range targets {
		urls[i] = t.URL()
	}
	return urls
}

// Count returns the configured repeat factor.
func (v *Volley) Count() int {
	return v.count
}

// Timeout returns the configured per-request timeout.
func (v *Volley) Timeout() time.Duration {
	return v.timeout
}

func toPublicBatchStats(s scheduler.BatchStats) BatchStats {
	return BatchStats{
		ID:       s.ID.String(),
		Seq:      s.Seq,
		Size:     s.Size,
		Failures: s.Failures,
		Duration: s.Duration,
	}
}
