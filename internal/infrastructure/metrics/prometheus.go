// Package metrics expone métricas Prometheus del API: HTTP y negocio (traslados, compras).
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/sucursales-api/internal/application/ports"
)

const namespace = "sucursales"

var (
	_ ports.TransferMetrics = (*Metrics)(nil)
	_ ports.PurchaseMetrics = (*Metrics)(nil)
)

// Metrics registro propio (no el global) para poder instanciarlo en tests.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	transferTransitions *prometheus.CounterVec
	purchasesCreated    *prometheus.CounterVec
	purchasesAmount     *prometheus.CounterVec
}

// New registra colectores de Go/proceso y las métricas del servicio.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total de peticiones HTTP",
		},
		[]string{"method", "path", "status"},
	)
	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de peticiones HTTP en segundos",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
	m.httpRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Peticiones HTTP en curso",
		},
	)
	m.transferTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfer_transitions_total",
			Help:      "Cambios de estado de traslados por resultado (applied, rejected, conflict)",
		},
		[]string{"from", "to", "result"},
	)
	m.purchasesCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_created_total",
			Help:      "Compras registradas por sucursal",
		},
		[]string{"branch_id"},
	)
	m.purchasesAmount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_amount_total",
			Help:      "Monto acumulado de compras por sucursal",
		},
		[]string{"branch_id"},
	)

	registry.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.httpRequestsInFlight,
		m.transferTransitions,
		m.purchasesCreated,
		m.purchasesAmount,
	)
	return m
}

// Registry para colectores adicionales (ej. pool de BD).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler sirve /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) IncInFlight() { m.httpRequestsInFlight.Inc() }
func (m *Metrics) DecInFlight() { m.httpRequestsInFlight.Dec() }

func (m *Metrics) TransitionObserved(from, to, result string) {
	m.transferTransitions.WithLabelValues(from, to, result).Inc()
}

func (m *Metrics) PurchaseCreated(branchID string, totalAmount float64) {
	m.purchasesCreated.WithLabelValues(branchID).Inc()
	if totalAmount > 0 {
		m.purchasesAmount.WithLabelValues(branchID).Add(totalAmount)
	}
}
