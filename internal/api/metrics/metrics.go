// Package metrics reports dashboard activity to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/steelvault/project-dashboard/internal/core/ports"
)

const namespace = "dashboard"

var _ ports.Metrics = (*Collector)(nil)

// Collector implements ports.Metrics on a caller-supplied registry.
type Collector struct {
	loginAttempts  *prometheus.CounterVec
	gateDenials    *prometheus.CounterVec
	storeErrors    *prometheus.CounterVec
	unknownStatus  *prometheus.CounterVec
	widgetDuration *prometheus.HistogramVec
}

// NewCollector creates the dashboard metrics and registers them on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		// result: success, rejected, backend, bad_record, bad_role, ambiguous, session_write
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		// reason: unauthenticated, forbidden
		gateDenials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_denials_total",
			Help:      "Requests turned away by the auth gate.",
		}, []string{"reason"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Failed table store calls by table and operation.",
		}, []string{"table", "op"}),
		unknownStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unknown_status_total",
			Help:      "Project statuses outside the canonical and legacy sets.",
		}, []string{"source"}),
		widgetDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "widget_duration_seconds",
			Help:      "Time spent computing a dashboard widget.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"widget"}),
	}

	reg.MustRegister(
		c.loginAttempts,
		c.gateDenials,
		c.storeErrors,
		c.unknownStatus,
		c.widgetDuration,
	)
	return c
}

func (c *Collector) LoginAttempt(result string) {
	c.loginAttempts.WithLabelValues(result).Inc()
}

func (c *Collector) GateDenied(reason string) {
	c.gateDenials.WithLabelValues(reason).Inc()
}

func (c *Collector) StoreError(table, op string) {
	c.storeErrors.WithLabelValues(table, op).Inc()
}

func (c *Collector) UnknownStatus(source string) {
	c.unknownStatus.WithLabelValues(source).Inc()
}

func (c *Collector) ObserveWidget(widget string, d time.Duration) {
	c.widgetDuration.WithLabelValues(widget).Observe(d.Seconds())
}
