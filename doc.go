// Package volley is a continuous HTTP probing engine.
//
// Volley repeatedly fires batches of concurrent GET requests at a fixed roster
// of target URLs, counts requests and failures per target, and prints a
// running tally after every batch. It never stops on its own: the batch loop
// runs until the caller's context is cancelled.
//
// # Quick Start
//
//	v, err := volley.New(
//	    volley.WithTargets("http://localhost:8080/health", "http://localhost:8081/"),
//	    volley.WithCount(20),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	v.Run(ctx) // blocks until ctx is cancelled
//
// # Batches
//
// One batch contains every target repeated count times, in roster order. All
// probes of a batch are started at once and the engine waits for all of them
// to finish before printing the tally and starting the next batch. The batch
// size is the only bound on concurrent requests.
//
// # Classification
//
// A probe fails when the request fails at the transport level (timeout,
// connection refused, DNS or TLS errors) or when the server answers with a
// 5xx status. Every other status, including 4xx, counts as success.
//
// # Output
//
// After each batch, one line per target is written to the configured output
// (stdout by default):
//
//	<url>, <request_count>, <failed_count>
//
// # Architecture
//
//   - internal/registry: Target roster with atomic counters
//   - internal/prober: Shared HTTP client and single-request probes
//   - internal/scheduler: The batch loop
//   - internal/report: Tally output
//   - internal/metrics: Prometheus collector over the registry
//   - internal/server: Optional status server (JSON + /metrics)
package volley
