// Package registry holds the fixed roster of probe targets and their counters.
//
// This package is internal to volley. A [Registry] is built once from the
// configured URLs and never grows or shrinks afterwards. Each [Target] carries
// two monotonically increasing counters (requests sent, requests failed) that
// are updated with atomic increments, so any number of concurrent probes can
// share the same handles without external locking.
//
// The main components are:
//
//   - [Target]: One probe destination with its request and failure counters
//   - [Registry]: Ordered, immutable sequence of targets
//   - [Stats]: Point-in-time copy of a target's counters
package registry
