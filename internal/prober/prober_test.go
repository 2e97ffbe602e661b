package prober

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jpalmerr/volley/internal/registry"
)

func newTarget(t *testing.T, url string) *registry.Target {
	t.Helper()
	reg, err := registry.New([]string{url})
	if err != nil {
		t.Fatalf("registry.New() error = %v", err)
	}
	return reg.At(0)
}

func newProber(t *testing.T, timeout time.Duration) *Prober {
	t.Helper()
	client, err := NewClient(timeout)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	t.Cleanup(client.Close)
	return New(client)
}

func statusServer(code int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	}))
}

func TestProbe_StatusClassification(t *testing.T) {
	tests := []struct {
		name       string
		code       int
		wantFailed bool
	}{
		{"ok", http.StatusOK, false},
		{"no content", http.StatusNoContent, false},
		{"not found", http.StatusNotFound, false},
		{"forbidden", http.StatusForbidden, false},
		{"too many requests", http.StatusTooManyRequests, false},
		{"internal server error", http.StatusInternalServerError, true},
		{"bad gateway", http.StatusBadGateway, true},
		{"service unavailable", http.StatusServiceUnavailable, true},
	}

	p := newProber(t, time.Second)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := statusServer(tt.code)
			defer server.Close()

			target := newTarget(t, server.URL)
			out := p.Probe(context.Background(), target)

			if out.StatusCode != tt.code {
				t.Errorf("StatusCode = %d, want %d", out.StatusCode, tt.code)
			}
			if out.Failed != tt.wantFailed {
				t.Errorf("Failed = %v, want %v", out.Failed, tt.wantFailed)
			}
			if target.Requests() != 1 {
				t.Errorf("Requests() = %d, want 1", target.Requests())
			}
			wantFailures := uint64(0)
			if tt.wantFailed {
				wantFailures = 1
			}
			if target.Failures() != wantFailures {
				t.Errorf("Failures() = %d, want %d", target.Failures(), wantFailures)
			}
		})
	}
}

func TestProbe_ServerErrorCountsInLockStep(t *testing.T) {
	server := statusServer(http.StatusInternalServerError)
	defer server.Close()

	p := newProber(t, time.Second)
	target := newTarget(t, server.URL)

	for i := 1; i <= 5; i++ {
		p.Probe(context.Background(), target)
		if target.Requests() != uint64(i) || target.Failures() != uint64(i) {
			t.Fatalf("after %d probes: requests=%d failures=%d, want both %d",
				i, target.Requests(), target.Failures(), i)
		}
	}
}

func TestProbe_SuccessNeverCountsFailure(t *testing.T) {
	server := statusServer(http.StatusOK)
	defer server.Close()

	p := newProber(t, time.Second)
	target := newTarget(t, server.URL)

	for i := 0; i < 5; i++ {
		p.Probe(context.Background(), target)
	}

	if target.Requests() != 5 {
		t.Errorf("Requests() = %d, want 5", target.Requests())
	}
	if target.Failures() != 0 {
		t.Errorf("Failures() = %d, want 0", target.Failures())
	}
}

// TestProbe_TimeoutIsFailure verifies that an endpoint that never answers is
// counted as a failure and the probe returns shortly after the timeout.
func TestProbe_TimeoutIsFailure(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	const timeout = 100 * time.Millisecond
	p := newProber(t, timeout)
	target := newTarget(t, server.URL)

	start := time.Now()
	out := p.Probe(context.Background(), target)
	elapsed := time.Since(start)

	if !out.Failed {
		t.Error("expected timeout to be classified as failure")
	}
	if out.Err == nil {
		t.Error("expected transport error for timeout")
	}
	if elapsed > 2*time.Second {
		t.Errorf("Probe() took %v, expected to return shortly after %v", elapsed, timeout)
	}
	if target.Requests() != 1 || target.Failures() != 1 {
		t.Errorf("requests=%d failures=%d, want 1 and 1", target.Requests(), target.Failures())
	}
}

func TestProbe_ConnectionRefusedIsFailure(t *testing.T) {
	server := statusServer(http.StatusOK)
	url := server.URL
	server.Close()

	p := newProber(t, time.Second)
	target := newTarget(t, url)

	out := p.Probe(context.Background(), target)

	if !out.Failed || out.Err == nil {
		t.Errorf("Outcome = %+v, want failed with error", out)
	}
	if out.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", out.StatusCode)
	}
	if target.Failures() != 1 {
		t.Errorf("Failures() = %d, want 1", target.Failures())
	}
}

func TestProbe_InvalidURLIsFailure(t *testing.T) {
	p := newProber(t, time.Second)
	target := newTarget(t, "http://[::1")

	out := p.Probe(context.Background(), target)

	if !out.Failed {
		t.Error("expected invalid URL to be classified as failure")
	}
	if target.Requests() != 1 || target.Failures() != 1 {
		t.Errorf("requests=%d failures=%d, want 1 and 1", target.Requests(), target.Failures())
	}
}

func TestProbe_UsesGET(t *testing.T) {
	methods := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods <- r.Method
	}))
	defer server.Close()

	p := newProber(t, time.Second)
	p.Probe(context.Background(), newTarget(t, server.URL))

	if got := <-methods; got != http.MethodGet {
		t.Errorf("method = %q, want GET", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		code int
		err  error
		want bool
	}{
		{100, nil, false},
		{200, nil, false},
		{301, nil, false},
		{404, nil, false},
		{499, nil, false},
		{500, nil, true},
		{504, nil, true},
		{599, nil, true},
		{200, context.DeadlineExceeded, true},
		{0, context.DeadlineExceeded, true},
	}

	for _, tt := range tests {
		if got := Classify(tt.code, tt.err); got != tt.want {
			t.Errorf("Classify(%d, %v) = %v, want %v", tt.code, tt.err, got, tt.want)
		}
	}
}
