// Package metrics exposes registry counters and batch timings to Prometheus.
//
// Target counters are not duplicated: [Collector] reads the registry's atomic
// counters at scrape time. Batch metrics are fed by [Collector.ObserveBatch],
// which is registered as a scheduler batch observer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jpalmerr/volley/internal/registry"
	"github.com/jpalmerr/volley/internal/scheduler"
)

const namespace = "volley"

// Collector implements prometheus.Collector for a [registry.Registry].
type Collector struct {
	registry *registry.Registry

	requestsDesc *prometheus.Desc
	failuresDesc *prometheus.Desc

	batches       prometheus.Counter
	batchFailures prometheus.Counter
	batchDuration prometheus.Histogram
}

// NewCollector creates a [Collector] for reg.
func NewCollector(reg *registry.Registry) *Collector {
	return &Collector{
		registry: reg,
		requestsDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "requests_total"),
			"Probe attempts sent to a target.",
			[]string{"target"}, nil,
		),
		failuresDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "failures_total"),
			"Probe attempts against a target that failed (transport error or 5xx).",
			[]string{"target"}, nil,
		),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Batches that have fully drained.",
		}),
		batchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_failures_total",
			Help:      "Failed probes summed over drained batches.",
		}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Time from batch dispatch until the last probe returned.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.requestsDesc
	ch <- c.failuresDesc
	c.batches.Describe(ch)
	c.batchFailures.Describe(ch)
	c.batchDuration.Describe(ch)
}

// Collect implements prometheus.Collector.
//
// Duplicate URLs in the roster would produce duplicate label sets, so their
// counters are summed per URL.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	type pair struct{ requests, failures uint64 }
	order := make([]string, 0, c.registry.Len())
	byURL := make(map[string]*pair, c.registry.Len())

	for _, s := range c.registry.Snapshot() {
		p, ok := byURL[s.URL]
		if !ok {
			p = &pair{}
			byURL[s.URL] = p
			order = append(order, s.URL)
		}
		p.requests += s.Requests
		p.failures += s.Failures
	}

	for _, u := range order {
		p := byURL[u]
		ch <- prometheus.MustNewConstMetric(c.requestsDesc, prometheus.CounterValue, float64(p.requests), u)
		ch <- prometheus.MustNewConstMetric(c.failuresDesc, prometheus.CounterValue, float64(p.failures), u)
	}

	c.batches.Collect(ch)
	c.batchFailures.Collect(ch)
	c.batchDuration.Collect(ch)
}

// ObserveBatch records a drained batch. It has the signature of a scheduler
// batch observer.
func (c *Collector) ObserveBatch(stats scheduler.BatchStats) {
	c.batches.Inc()
	c.batchFailures.Add(float64(stats.Failures))
	c.batchDuration.Observe(stats.Duration.Seconds())
}

// NewRegistry returns a Prometheus registry with c and the Go runtime and
// process collectors registered.
func NewRegistry(c *Collector) *prometheus.Registry {
	r := prometheus.NewRegistry()
	r.MustRegister(
		c,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}
