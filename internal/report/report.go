// Package report renders target counters after each batch.
package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/jpalmerr/volley/internal/registry"
)

// Reporter receives the registry's counters once per drained batch.
type Reporter interface {
	Report(stats []registry.Stats) error
}

// Tally writes one line per target in the form "<url>, <requests>, <failures>".
//
// No header or batch separator is written; successive reports are told apart
// only by the counters growing.
type Tally struct {
	w io.Writer
}

// NewTally creates a [Tally] that writes to w.
func NewTally(w io.Writer) *Tally {
	return &Tally{w: w}
}

// Report writes the counters of every target in the given order.
func (t *Tally) Report(stats []registry.Stats) error {
	bw := bufio.NewWriter(t.w)
	for _, s := range stats {
		if _, err := fmt.Fprintf(bw, "%s, %d, %d\n", s.URL, s.Requests, s.Failures); err != nil {
			return fmt.Errorf("failed to write tally: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write tally: %w", err)
	}
	return nil
}

// Func adapts an ordinary function to the [Reporter] interface.
type Func func(stats []registry.Stats) error

// Report calls f(stats).
func (f Func) Report(stats []registry.Stats) error {
	return f(stats)
}
