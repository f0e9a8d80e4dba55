// Package metrics holds the prometheus collectors of a single db process.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stbdb"

// Reject reasons used as the "reason" label of rows_rejected_total.
const (
	ReasonStringTooLong = "string_too_long"
	ReasonNegativeValue = "negative_value"
	ReasonTableFull     = "table_full"
	ReasonSyntax        = "syntax"
)

type Metrics struct {
	reg *prometheus.Registry

	rowsInserted prometheus.Counter
	rowsRejected *prometheus.CounterVec
	rowsScanned  prometheus.Counter
	rows         prometheus.Gauge
	pagesLoaded  prometheus.Counter
	pagesFlushed prometheus.Counter
	bytesFlushed prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		rowsInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_inserted_total",
			Help:      "Rows accepted by insert.",
		}),
		rowsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_rejected_total",
			Help:      "Insert statements rejected, by reason.",
		}, []string{"reason"}),
		rowsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_scanned_total",
			Help:      "Rows decoded by select.",
		}),
		rows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rows",
			Help:      "Rows currently stored in the table.",
		}),
		pagesLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_loaded_total",
			Help:      "Pages read into the pager cache.",
		}),
		pagesFlushed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_flushed_total",
			Help:      "Pages written back to the database file.",
		}),
		bytesFlushed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_flushed_total",
			Help:      "Bytes written back to the database file.",
		}),
	}
	m.reg.MustRegister(
		m.rowsInserted,
		m.rowsRejected,
		m.rowsScanned,
		m.rows,
		m.pagesLoaded,
		m.pagesFlushed,
		m.bytesFlushed,
	)
	return m
}

// Registry exposes the underlying registry (tests, extra collectors).
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func (m *Metrics) RowInserted(total uint32) {
	if m == nil {
		return
	}
	m.rowsInserted.Inc()
	m.rows.Set(float64(total))
}

func (m *Metrics) RowRejected(reason string) {
	if m == nil {
		return
	}
	m.rowsRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) RowScanned() {
	if m == nil {
		return
	}
	m.rowsScanned.Inc()
}

func (m *Metrics) SetRows(total uint32) {
	if m == nil {
		return
	}
	m.rows.Set(float64(total))
}

func (m *Metrics) PageLoaded() {
	if m == nil {
		return
	}
	m.pagesLoaded.Inc()
}

func (m *Metrics) PageFlushed(n int) {
	if m == nil {
		return
	}
	m.pagesFlushed.Inc()
	m.bytesFlushed.Add(float64(n))
}
