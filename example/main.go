package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/volley"
)

func main() {
	// start mock server (see mock_server.go)
	go StartMockTargetServer("127.0.0.1:9999")
	time.Sleep(100 * time.Millisecond)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	v, err := volley.New(
		volley.WithTargets(
			"http://127.0.0.1:9999/ok",
			"http://127.0.0.1:9999/fail",
			"http://127.0.0.1:9999/flaky",
			"http://127.0.0.1:9999/slow",
			"http://127.0.0.1:9999/gone",
		),
		volley.WithCount(10),
		volley.WithStatusAddr("127.0.0.1:9100"),
		volley.WithLogger(logger),
		volley.WithBatchCallback(func(b volley.BatchStats) {
			logger.Info("batch done",
				"seq", b.Seq,
				"size", b.Size,
				"failures", b.Failures,
				"duration", b.Duration.Round(time.Millisecond).String(),
			)
		}),
	)
	if err != nil {
		slog.Error("failed to create volley", "error", err)
		os.Exit(1)
	}

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := v.Run(ctx); err != nil {
		slog.Error("volley error", "error", err)
		os.Exit(1)
	}
}
