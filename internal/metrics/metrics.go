// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/superlists/internal/models"
)

// Metrics holds the application's collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ListsCreated    prometheus.Counter
	ItemsAdded      prometheus.Counter
	ValidationFails *prometheus.CounterVec
	ListsShared     prometheus.Counter
	LoginEmailsSent prometheus.Counter
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "superlists_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "superlists_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ListsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "superlists_lists_created_total",
			Help: "Lists created.",
		}),
		ItemsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "superlists_items_added_total",
			Help: "Items appended to existing lists.",
		}),
		ValidationFails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "superlists_item_validation_failures_total",
			Help: "Item validation failures by reason.",
		}, []string{"reason"}),
		ListsShared: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "superlists_list_shares_total",
			Help: "Successful share operations.",
		}),
		LoginEmailsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "superlists_login_emails_sent_total",
			Help: "Magic-link login emails sent.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestsTotal,
		m.RequestDuration,
		m.ListsCreated,
		m.ItemsAdded,
		m.ValidationFails,
		m.ListsShared,
		m.LoginEmailsSent,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordItemError counts err under ValidationFails when it is an item
// validation failure. Other errors are ignored.
func (m *Metrics) RecordItemError(err error) {
	switch {
	case errors.Is(err, models.ErrEmptyItem):
		m.ValidationFails.WithLabelValues("empty").Inc()
	case errors.Is(err, models.ErrDuplicateItem):
		m.ValidationFails.WithLabelValues("duplicate").Inc()
	}
}
