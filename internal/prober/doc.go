// Package prober performs single HTTP probes against registry targets.
//
// This package is internal to volley. A probe is exactly one GET request:
// the target's request counter is bumped before the request goes out, and the
// failure counter is bumped when the request fails at the transport level or
// the server answers with a 5xx status. There are no retries.
//
// The main components are:
//
//   - [Client]: Shared HTTP client with a fixed per-request timeout
//   - [Prober]: Issues probes and updates target counters
//   - [Outcome]: Result of one probe, for callers that want to inspect it
package prober
