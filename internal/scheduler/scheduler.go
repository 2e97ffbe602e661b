package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jpalmerr/volley/internal/prober"
	"github.com/jpalmerr/volley/internal/registry"
	"github.com/jpalmerr/volley/internal/report"
)

// BatchStats summarises one drained batch.
type BatchStats struct {
	// ID identifies the batch in logs.
	ID uuid.UUID

	// Seq is the 1-based batch number since the scheduler was created.
	Seq uint64

	// Size is the number of probes in the batch (count * number of targets).
	Size int

	// Failures is the number of probes in this batch counted as failures.
	Failures int

	// Duration is the wall time from dispatch until the batch drained.
	Duration time.Duration
}

// Scheduler runs probe batches against a registry until its context is
// cancelled.
//
// Run must not be called concurrently; a second concurrent call returns an
// error.
type Scheduler struct {
	registry  *registry.Registry
	prober    *prober.Prober
	count     int
	reporter  report.Reporter
	logger    *slog.Logger
	observers []func(BatchStats)

	seq atomic.Uint64

	mu      sync.Mutex
	running bool
}

// New creates a [Scheduler].
//
// Parameters:
//   - reg: Targets to probe
//   - p: Prober shared by every task
//   - count: How many times each target appears in one batch (must be >= 1)
//   - reporter: Called once after every drained batch
//   - logger: Logger for batch events
//   - observers: Optional callbacks invoked after each report
func New(reg *registry.Registry, p *prober.Prober, count int, reporter report.Reporter, logger *slog.Logger, observers ...func(BatchStats)) (*Scheduler, error) {
	if reg == nil {
		return nil, errors.New("registry is required")
	}
	if p == nil {
		return nil, errors.New("prober is required")
	}
	if reporter == nil {
		return nil, errors.New("reporter is required")
	}
	if count < 1 {
		return nil, fmt.Errorf("count must be at least 1, got %d", count)
	}
	if logger == nil {
		logger = slog.Default()
	}

	obs := make([]func(BatchStats), 0, len(observers))
	for _, o := range observers {
		if o != nil {
			obs = append(obs, o)
		}
	}

	return &Scheduler{
		registry:  reg,
		prober:    p,
		count:     count,
		reporter:  reporter,
		logger:    logger,
		observers: obs,
	}, nil
}

// Count returns the configured repeat factor.
func (s *Scheduler) Count() int {
	return s.count
}

// Batch returns the probe tasks of one batch: the registry's targets in
// order, repeated count times.
func (s *Scheduler) Batch() []*registry.Target {
	targets := s.registry.Targets()
	batch := make([]*registry.Target, 0, len(targets)*s.count)
	for i := 0; i < s.count; i++ {
		batch = append(batch, targets...)
	}
	return batch
}

// Run executes batches back to back until ctx is cancelled.
//
// Cancellation is only checked between batches: in-flight probes are never
// cancelled and always run to completion or to the client timeout, after
// which the batch is reported as usual. Returns nil once the loop stops.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("scheduler is already running")
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	for ctx.Err() == nil {
		s.RunBatch(ctx)
	}
	return nil
}

// RunBatch dispatches one batch, waits for it to drain, then reports.
//
// Every probe is started at once. A failing probe does not affect its
// siblings. The reporter is invoked synchronously after the last probe
// returns; reporter errors are logged and do not stop the scheduler.
func (s *Scheduler) RunBatch(ctx context.Context) BatchStats {
	stats := BatchStats{
		ID:  uuid.New(),
		Seq: s.seq.Add(1),
	}

	tasks := s.Batch()
	stats.Size = len(tasks)

	// probes outlive cancellation of the loop context
	probeCtx := context.WithoutCancel(ctx)

	var failures atomic.Int64
	var g errgroup.Group

	start := time.Now()
	for _, target := range tasks {
		target := target
		g.Go(func() error {
			if s.prober.Probe(probeCtx, target).Failed {
				failures.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	stats.Duration = time.Since(start)
	stats.Failures = int(failures.Load())

	if err := s.reporter.Report(s.registry.Snapshot()); err != nil {
		s.logger.Error("report failed",
			"batch_id", stats.ID.String(),
			"error", err,
		)
	}

	s.logger.Debug("batch drained",
		"batch_id", stats.ID.String(),
		"seq", stats.Seq,
		"size", stats.Size,
		"failures", stats.Failures,
		"duration_ms", stats.Duration.Milliseconds(),
	)

	for _, o := range s.observers {
		s.notifySafe(o, stats)
	}

	return stats
}

// notifySafe calls a batch observer with panic recovery.
// The panic is logged with a correlation ID and the stack trace.
func (s *Scheduler) notifySafe(o func(BatchStats), stats BatchStats) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("batch observer panicked",
				"correlation_id", uuid.NewString(),
				"batch_id", stats.ID.String(),
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	o(stats)
}
