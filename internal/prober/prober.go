package prober

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jpalmerr/volley/internal/registry"
)

// maxDrainSize caps how much of a response body is read so the connection
// can go back to the pool.
const maxDrainSize = 64 << 10 // 64KB

// Outcome is the result of a single probe.
type Outcome struct {
	// StatusCode is the HTTP status code. Zero if no response was received.
	StatusCode int

	// Latency is the time from sending the request to receiving the headers.
	Latency time.Duration

	// Err is the transport error, if any.
	Err error

	// Failed reports whether the probe was counted as a failure.
	Failed bool
}

// Prober issues probes through a shared [Client].
type Prober struct {
	client *Client
}

// New creates a [Prober] that sends every request through client.
func New(client *Client) *Prober {
	return &Prober{client: client}
}

// Probe sends one GET request to target.URL() and updates its counters.
//
// The request counter is incremented before the request is sent, whatever
// the outcome. The failure counter is incremented when [Classify] reports a
// failure. Errors are never returned: they are recorded in the counters and
// reported in the [Outcome] only.
func (p *Prober) Probe(ctx context.Context, target *registry.Target) Outcome {
	target.Attempt()

	out := p.do(ctx, target.URL())
	if out.Failed {
		target.Fail()
	}
	return out
}

func (p *Prober) do(ctx context.Context, url string) Outcome {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Outcome{
			Err:    fmt.Errorf("failed to create request: %w", err),
			Failed: true,
		}
	}

	start := time.Now()
	resp, err := p.client.httpClient.Do(req)
	latency := time.Since(start)
	if err != nil {
		return Outcome{
			Latency: latency,
			Err:     fmt.Errorf("request failed: %w", err),
			Failed:  true,
		}
	}

	// body content does not affect classification; read errors are ignored
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainSize))
	_ = resp.Body.Close()

	return Outcome{
		StatusCode: resp.StatusCode,
		Latency:    latency,
		Failed:     Classify(resp.StatusCode, nil),
	}
}

// Classify reports whether a probe result counts as a failure.
//
// Any transport error is a failure. Otherwise only 5xx statuses are failures;
// 1xx through 4xx all count as success.
func Classify(statusCode int, err error) bool {
	if err != nil {
		return true
	}
	return statusCode >= 500 && statusCode < 600
}
