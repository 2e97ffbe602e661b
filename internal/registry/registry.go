package registry

import (
	"errors"
	"sync/atomic"
)

// Target is a single probe destination.
//
// The URL never changes after construction. Counters only grow: Attempt is
// called once per probe, Fail once per failed probe. Callers must pair every
// Fail with a preceding Attempt so that failures never exceed requests.
type Target struct {
	url      string
	requests atomic.Uint64
	failures atomic.Uint64
}

// URL returns the target URL.
func (t *Target) URL() string {
	return t.url
}

// Requests returns the number of probe attempts made against the target.
func (t *Target) Requests() uint64 {
	return t.requests.Load()
}

// Failures returns the number of probe attempts classified as failures.
func (t *Target) Failures() uint64 {
	return t.failures.Load()
}

// Attempt records one probe attempt.
func (t *Target) Attempt() {
	t.requests.Add(1)
}

// Fail records one failed probe attempt.
func (t *Target) Fail() {
	t.failures.Add(1)
}

// Stats is a copy of a target's counters at the time it was read.
type Stats struct {
	URL      string `json:"url"`
	Requests uint64 `json:"requests"`
	Failures uint64 `json:"failures"`
}

// Registry is an ordered, fixed-size collection of targets.
//
// Registry is safe for concurrent use: the slice is never modified after
// [New] returns and every counter update goes through atomic operations.
type Registry struct {
	targets []*Target
}

// New creates a [Registry] with one [Target] per URL, in the given order.
//
// Duplicate URLs are allowed and produce independent targets.
// Returns an error if urls is empty.
func New(urls []string) (*Registry, error) {
	if len(urls) == 0 {
		return nil, errors.New("at least one target is required")
	}

	targets := make([]*Target, len(urls))
	for i, u := range urls {
		targets[i] = &Target{url: u}
	}
	return &Registry{targets: targets}, nil
}

// Len returns the number of targets.
func (r *Registry) Len() int {
	return len(r.targets)
}

// At returns the i-th target. It panics if i is out of range.
func (r *Registry) At(i int) *Target {
	return r.targets[i]
}

// Targets returns the target handles in registry order.
//
// The returned slice is a copy, but the handles are shared: incrementing a
// counter through them affects the registry.
func (r *Registry) Targets() []*Target {
	cp := make([]*Target, len(r.targets))
	copy(cp, r.targets)
	return cp
}

// Snapshot returns the current counters of every target in registry order.
//
// Counters are read one at a time, so the result is not a consistent cut
// across targets. Failures are loaded before requests: since every failure is
// recorded after its attempt, a snapshot never shows more failures than
// requests.
func (r *Registry) Snapshot() []Stats {
	stats := make([]Stats, len(r.targets))
	for i, t := range r.targets {
		failures := t.Failures()
		stats[i] = Stats{
			URL:      t.url,
			Requests: t.Requests(),
			Failures: failures,
		}
	}
	return stats
}
