// Package metrics exposes Prometheus metrics for bdsm sessions
package metrics

import (
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for a session
type Metrics struct {
	registry *prometheus.Registry

	// Shell command metrics
	commandsTotal   *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec

	// Persistence metrics
	persistenceOpsTotal *prometheus.CounterVec
	persistenceBytes    *prometheus.CounterVec

	// Catalog metrics
	booksTotal   prometheus.Gauge
	unitsInStock prometheus.Gauge
	unitsSold    prometheus.Gauge
}

// New creates a registry and registers all metrics on it
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,

		commandsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bdsm_commands_total",
				Help: "Total number of shell commands executed",
			},
			[]string{"command", "status"},
		),

		commandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bdsm_command_duration_seconds",
				Help:    "Shell command duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"command"},
		),

		persistenceOpsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bdsm_persistence_operations_total",
				Help: "Total number of catalog loads and saves",
			},
			[]string{"operation", "status"},
		),

		persistenceBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bdsm_persistence_bytes_total",
				Help: "Bytes read or written by catalog loads and saves",
			},
			[]string{"operation"},
		),

		booksTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bdsm_books_total",
				Help: "Number of books in the catalog",
			},
		),

		unitsInStock: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bdsm_units_in_stock",
				Help: "Total units in stock across the catalog",
			},
		),

		unitsSold: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bdsm_units_sold",
				Help: "Total units sold across the catalog",
			},
		),
	}

	return m
}

func status(success bool) string {
	if success {
		return statusSuccess
	}
	return statusError
}

// RecordCommand records one shell command execution
func (m *Metrics) RecordCommand(command string, success bool, duration time.Duration) {
	m.commandsTotal.WithLabelValues(command, status(success)).Inc()
	m.commandDuration.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordPersistence records a load or save and the bytes it moved
func (m *Metrics) RecordPersistence(operation string, success bool, bytes int) {
	m.persistenceOpsTotal.WithLabelValues(operation, status(success)).Inc()
	if success {
		m.persistenceBytes.WithLabelValues(operation).Add(float64(bytes))
	}
}

// UpdateCatalogStats sets the catalog gauges
func (m *Metrics) UpdateCatalogStats(books int, inStock, sold uint64) {
	m.booksTotal.Set(float64(books))
	m.unitsInStock.Set(float64(inStock))
	m.unitsSold.Set(float64(sold))
}

// Handler returns an HTTP handler serving the registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteText writes every metric in the Prometheus text exposition format
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
