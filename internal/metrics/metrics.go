// Package metrics exposes prometheus collectors for record-store activity
// and HTTP traffic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics groups the collectors registered on one registry.
type Metrics struct {
	Registry *prometheus.Registry

	Mutations    *prometheus.CounterVec
	LoginResults *prometheus.CounterVec
	Requests     *prometheus.CounterVec
	Latency      *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry. Pass withRuntime to also
// register the Go runtime and process collectors.
func New(withRuntime bool) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "care_tracker",
			Name:      "store_mutations_total",
			Help:      "Applied record store mutations by entity kind and operation.",
		}, []string{"kind", "op"}),
		LoginResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "care_tracker",
			Name:      "auth_attempts_total",
			Help:      "Login and signup attempts by action and result.",
		}, []string{"action", "result"}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "care_tracker",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "status"}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "care_tracker",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.Mutations, m.LoginResults, m.Requests, m.Latency)
	if withRuntime {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	return m
}
