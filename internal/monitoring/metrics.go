package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector handles prometheus metrics collection for the
// procurement workflow.
type MetricsCollector struct {
	registry *prometheus.Registry

	ordersSubmitted  *prometheus.CounterVec
	orderValue       prometheus.Histogram
	validationIssues *prometheus.GaugeVec
	missingItems     prometheus.Gauge
	requestsCreated  prometheus.Counter
}

// NewMetricsCollector creates a new metrics collector with its own
// registry.
func NewMetricsCollector() *MetricsCollector {
	registry := prometheus.NewRegistry()

	ordersSubmitted := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "procurement_orders_submitted_total",
			Help: "Purchase orders committed, by supplier",
		},
		[]string{"supplier"},
	)

	orderValue := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "procurement_order_value_dollars",
			Help:    "Value distribution of committed purchase orders",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10),
		},
	)

	validationIssues := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "procurement_validation_issues",
			Help: "Validation issues found on the last reconciliation pass, by kind",
		},
		[]string{"kind"},
	)

	missingItems := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "procurement_missing_items",
			Help: "Requested items not covered by any confirmed quote",
		},
	)

	requestsCreated := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "procurement_chef_requests_total",
			Help: "Chef requests created",
		},
	)

	registry.MustRegister(ordersSubmitted, orderValue, validationIssues, missingItems, requestsCreated)

	return &MetricsCollector{
		registry:         registry,
		ordersSubmitted:  ordersSubmitted,
		orderValue:       orderValue,
		validationIssues: validationIssues,
		missingItems:     missingItems,
		requestsCreated:  requestsCreated,
	}
}

// Registry returns the prometheus registry for the /metrics handler.
func (c *MetricsCollector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordOrderSubmitted records one committed purchase order.
func (c *MetricsCollector) RecordOrderSubmitted(supplierName string, totalValue float64) {
	c.ordersSubmitted.WithLabelValues(supplierName).Inc()
	c.orderValue.Observe(totalValue)
}

// RecordValidationIssues updates the per-kind issue gauges from the latest
// validation pass.
func (c *MetricsCollector) RecordValidationIssues(countsByKind map[string]int) {
	c.validationIssues.Reset()
	for kind, count := range countsByKind {
		c.validationIssues.WithLabelValues(kind).Set(float64(count))
	}
}

// RecordMissingItems updates the missing-items gauge.
func (c *MetricsCollector) RecordMissingItems(count int) {
	c.missingItems.Set(float64(count))
}

// RecordRequestCreated counts one new chef request.
func (c *MetricsCollector) RecordRequestCreated() {
	c.requestsCreated.Inc()
}
