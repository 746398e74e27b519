package monitoring

import (
	"sync"
	"time"
)

// Monitor collects and provides operational stats for the procurement API
type Monitor struct {
	metrics      map[string]interface{}
	metricsMutex sync.RWMutex
	startTime    time.Time
}

// NewMonitor creates a new monitoring instance
func NewMonitor() *Monitor {
	return &Monitor{
		metrics:   make(map[string]interface{}),
		startTime: time.Now(),
	}
}

// RecordMetric records a metric value
func (m *Monitor) RecordMetric(name string, value interface{}) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics[name] = value
}

// IncrementMetric adds delta to a numeric counter metric, starting at zero.
func (m *Monitor) IncrementMetric(name string, delta int) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	current, _ := m.metrics[name].(int)
	m.metrics[name] = current + delta
}

// GetMetric returns a specific metric value
func (m *Monitor) GetMetric(name string) (interface{}, bool) {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()
	value, exists := m.metrics[name]
	return value, exists
}

// GetMetrics returns all current metrics
func (m *Monitor) GetMetrics() map[string]interface{} {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()

	// Create a copy to avoid concurrent map access
	metrics := make(map[string]interface{}, len(m.metrics))
	for k, v := range m.metrics {
		metrics[k] = v
	}

	// Add system metrics
	metrics["uptime_seconds"] = time.Since(m.startTime).Seconds()

	return metrics
}

// Reset clears all metrics
func (m *Monitor) Reset() {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics = make(map[string]interface{})
}

// RecordReconciliation records the outcome of one reconciliation pass so
// the stats endpoint can show the latest missing-item and validation
// counts per purchasing session.
func (m *Monitor) RecordReconciliation(missingItems, supplierGroups, validationIssues int) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()

	m.metrics["missing_items"] = missingItems
	m.metrics["supplier_groups"] = supplierGroups
	m.metrics["validation_issues"] = validationIssues
	m.metrics["last_reconciled"] = time.Now().Format(time.RFC3339)
}
