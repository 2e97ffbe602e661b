package registry

import (
	"sync"
	"testing"
)

func TestNew_EmptyRoster(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("New(nil) expected error, got nil")
	}
}

func TestNew_PreservesOrder(t *testing.T) {
	urls := []string{"http://a.test/", "http://b.test/", "http://c.test/"}

	r, err := New(urls)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if r.Len() != len(urls) {
		t.Fatalf("Len() = %d, want %d", r.Len(), len(urls))
	}
	for i, u := range urls {
		if got := r.At(i).URL(); got != u {
			t.Errorf("At(%d).URL() = %q, want %q", i, got, u)
		}
	}
}

func TestNew_DuplicateURLsAreIndependent(t *testing.T) {
	r, err := New([]string{"http://a.test/", "http://a.test/"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	r.At(0).Attempt()

	if got := r.At(1).Requests(); got != 0 {
		t.Errorf("second target Requests() = %d, want 0", got)
	}
}

func TestTargets_ReturnsSharedHandles(t *testing.T) {
	r, err := New([]string{"http://a.test/"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	targets := r.Targets()
	targets[0].Attempt()
	targets[0] = nil

	if r.At(0) == nil {
		t.Fatal("modifying Targets() slice affected registry")
	}
	if got := r.At(0).Requests(); got != 1 {
		t.Errorf("Requests() = %d, want 1", got)
	}
}

func TestTarget_ConcurrentIncrements(t *testing.T) {
	r, err := New([]string{"http://a.test/"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	target := r.At(0)

	const goroutines = 50
	const perGoroutine = 200

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(fail bool) {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				target.Attempt()
				if fail {
					target.Fail()
				}
			}
		}(i%2 == 0)
	}
	wg.Wait()

	if got, want := target.Requests(), uint64(goroutines*perGoroutine); got != want {
		t.Errorf("Requests() = %d, want %d", got, want)
	}
	if got, want := target.Failures(), uint64(goroutines/2*perGoroutine); got != want {
		t.Errorf("Failures() = %d, want %d", got, want)
	}
}

// TestSnapshot_FailuresNeverExceedRequests reads snapshots while writers
// increment counters in attempt-then-fail order.
// Run with: go test -race ./internal/registry/...
func TestSnapshot_FailuresNeverExceedRequests(t *testing.T) {
	r, err := New([]string{"http://a.test/", "http://b.test/"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				for _, target := range r.Targets() {
					target.Attempt()
					target.Fail()
				}
			}
		}()
	}

	for i := 0; i < 1000; i++ {
		for _, s := range r.Snapshot() {
			if s.Failures > s.Requests {
				close(done)
				wg.Wait()
				t.Fatalf("snapshot %s: failures %d > requests %d", s.URL, s.Failures, s.Requests)
			}
		}
	}
	close(done)
	wg.Wait()
}

func TestSnapshot_Order(t *testing.T) {
	urls := []string{"http://z.test/", "http://a.test/", "http://m.test/"}
	r, err := New(urls)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	r.At(2).Attempt()
	r.At(2).Fail()

	snap := r.Snapshot()
	if len(snap) != len(urls) {
		t.Fatalf("len(Snapshot()) = %d, want %d", len(snap), len(urls))
	}
	for i, u := range urls {
		if snap[i].URL != u {
			t.Errorf("Snapshot()[%d].URL = %q, want %q", i, snap[i].URL, u)
		}
	}
	if snap[2].Requests != 1 || snap[2].Failures != 1 {
		t.Errorf("Snapshot()[2] = %+v, want 1 request and 1 failure", snap[2])
	}
}
