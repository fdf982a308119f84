// Package metrics exposes the benchmark harness's prometheus collectors:
// operation counters by kind and result, a per-operation latency
// histogram, and a gauge tracking the approximate number of live keys.
// Nothing under pkg/treemap imports this package — collectors are
// updated from cmd/treebench's worker loop, outside any spinlock.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry groups the harness's collectors under one prometheus.Registerer
// so a run can use its own registry instead of the global default.
type Registry struct {
	Ops       *prometheus.CounterVec
	Latency   *prometheus.HistogramVec
	LiveKeys  prometheus.Gauge
	registry  *prometheus.Registry
}

// New registers a fresh set of collectors on a private registry, tagged
// with the tree variant under test.
func New(variant string) *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		Ops: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "latchtree",
			Name:      "ops_total",
			Help:      "Completed tree operations by kind and result.",
			ConstLabels: prometheus.Labels{
				"variant": variant,
			},
		}, []string{"kind", "result"}),

		Latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "latchtree",
			Name:      "op_latency_seconds",
			Help:      "Per-operation latency.",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 12),
			ConstLabels: prometheus.Labels{
				"variant": variant,
			},
		}, []string{"kind"}),

		LiveKeys: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "latchtree",
			Name:      "live_keys",
			Help:      "Approximate count of keys currently present.",
			ConstLabels: prometheus.Labels{
				"variant": variant,
			},
		}),

		registry: reg,
	}
}

// ObserveInsert records the outcome and latency of a completed Insert.
func (r *Registry) ObserveInsert(ok bool, seconds float64) {
	r.observe("insert", ok, seconds)
	if ok {
		r.LiveKeys.Inc()
	}
}

// ObserveDelete records the outcome and latency of a completed Delete.
func (r *Registry) ObserveDelete(ok bool, seconds float64) {
	r.observe("delete", ok, seconds)
	if ok {
		r.LiveKeys.Dec()
	}
}

// ObserveLookup records the outcome and latency of a completed Lookup.
func (r *Registry) ObserveLookup(hit bool, seconds float64) {
	r.observe("lookup", hit, seconds)
}

func (r *Registry) observe(kind string, ok bool, seconds float64) {
	result := "miss"
	if ok {
		result = "hit"
	}
	r.Ops.WithLabelValues(kind, result).Inc()
	r.Latency.WithLabelValues(kind).Observe(seconds)
}

// Handler returns the http.Handler that serves this registry's collectors
// at /metrics.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve starts an HTTP server exposing Handler at /metrics on addr. It
// blocks until the server stops or errors; callers typically run it in its
// own goroutine.
func (r *Registry) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	return http.ListenAndServe(addr, mux)
}
