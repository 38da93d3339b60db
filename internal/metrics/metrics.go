// Package metrics holds the prometheus collectors of the API process.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"servicofacil/internal/domain"
)

// Commit kinds.
const (
	KindNew  = "new"
	KindEdit = "edit"
)

type Metrics struct {
	registry        *prometheus.Registry
	ordersCommitted *prometheus.CounterVec
	commitFailures  *prometheus.CounterVec
	requestSeconds  *prometheus.HistogramVec
	catalogReloads  prometheus.Counter
}

// New registers every collector on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		ordersCommitted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "servico_orders_committed_total",
			Help: "Orders written to the store, by commit kind.",
		}, []string{"kind"}),
		commitFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "servico_order_commit_failures_total",
			Help: "Rejected or failed order commits, by commit kind and reason.",
		}, []string{"kind", "reason"}),
		requestSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "servico_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		catalogReloads: f.NewCounter(prometheus.CounterOpts{
			Name: "servico_catalog_reloads_total",
			Help: "Catalog snapshot reloads.",
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// OrderCommitted records the outcome of one commit. err may be nil.
func (m *Metrics) OrderCommitted(kind string, err error) {
	if err == nil {
		m.ordersCommitted.WithLabelValues(kind).Inc()
		return
	}
	m.commitFailures.WithLabelValues(kind, FailureReason(err)).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.requestSeconds.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func (m *Metrics) CatalogReloaded() { m.catalogReloads.Inc() }

// FailureReason maps an error to a bounded label value.
func FailureReason(err error) string {
	var (
		ve *domain.ValidationError
		pe *domain.PersistenceError
	)
	switch {
	case errors.As(err, &ve):
		return "validation"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.As(err, &pe) && pe.Indeterminate:
		return "indeterminate"
	case errors.As(err, &pe):
		return "persistence"
	default:
		return "other"
	}
}
