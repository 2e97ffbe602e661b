// Package server provides the optional HTTP status server for volley.
//
// This package is internal to volley and is only started when a status
// address is configured. It exposes:
//
//   - GET /api/targets: Current counters of every target as JSON, in roster order
//   - GET /metrics: Prometheus exposition of the same counters plus batch metrics
//   - GET /healthz: Liveness check
//
// The server shuts down gracefully when its context is cancelled, with a
// 5-second timeout for in-flight requests.
package server
