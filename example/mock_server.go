package main

import (
	"log/slog"
	"math/rand"
	"net/http"
	"time"
)

// NewMockTargetMux returns handlers that exercise every probe outcome:
//
//   - /ok:    200 after a short random delay
//   - /fail:  500
//   - /flaky: 503 roughly one time in three, otherwise 200
//   - /slow:  sleeps 2s, longer than the default 1s request timeout
//   - /gone:  404, which still counts as success
func NewMockTargetMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Duration(5+rand.Intn(45)) * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/fail", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/flaky", func(w http.ResponseWriter, r *http.Request) {
		if rand.Intn(3) == 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	return mux
}

// StartMockTargetServer serves [NewMockTargetMux] on addr.
// Call this in a goroutine before starting volley.
func StartMockTargetServer(addr string) {
	if err := http.ListenAndServe(addr, NewMockTargetMux()); err != nil {
		slog.Error("mock server error", "error", err)
	}
}
