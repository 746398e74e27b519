package monitoring

import (
	"testing"
)

func TestMonitor_GetMetrics(t *testing.T) {
	m := NewMonitor()
	m.RecordMetric("test_metric", 42)

	metrics := m.GetMetrics()

	// Check if our metric is present
	value, exists := metrics["test_metric"]
	if !exists {
		t.Fatalf("Expected 'test_metric' to be present in metrics, but it was not")
	}

	// Check value
	if value != 42 {
		t.Errorf("Expected 'test_metric' to be 42, but got %v", value)
	}

	// Check uptime presence
	_, exists = metrics["uptime_seconds"]
	if !exists {
		t.Errorf("Expected 'uptime_seconds' to be present in metrics, but it was not")
	}
}

func TestMonitor_IncrementMetric(t *testing.T) {
	m := NewMonitor()

	m.IncrementMetric("orders_submitted", 1)
	m.IncrementMetric("orders_submitted", 2)

	value, exists := m.GetMetric("orders_submitted")
	if !exists {
		t.Fatalf("Expected 'orders_submitted' to be present in metrics, but it was not")
	}
	if value != 3 {
		t.Errorf("Expected 'orders_submitted' to be 3, but got %v", value)
	}
}

func TestMonitor_RecordReconciliation(t *testing.T) {
	m := NewMonitor()

	m.RecordReconciliation(3, 2, 5)

	metrics := m.GetMetrics()

	if metrics["missing_items"] != 3 {
		t.Errorf("Expected 'missing_items' to be 3, but got %v", metrics["missing_items"])
	}
	if metrics["supplier_groups"] != 2 {
		t.Errorf("Expected 'supplier_groups' to be 2, but got %v", metrics["supplier_groups"])
	}
	if metrics["validation_issues"] != 5 {
		t.Errorf("Expected 'validation_issues' to be 5, but got %v", metrics["validation_issues"])
	}

	// Timestamp is recorded
	_, exists := metrics["last_reconciled"]
	if !exists {
		t.Errorf("Expected 'last_reconciled' to be present in metrics, but it was not")
	}
}

func TestMonitor_Reset(t *testing.T) {
	m := NewMonitor()
	m.RecordMetric("test_metric", 42)

	m.Reset()

	metrics := m.GetMetrics()

	// Our test metric should be gone, but uptime should still be there
	_, exists := metrics["test_metric"]
	if exists {
		t.Errorf("Expected 'test_metric' to be removed after Reset(), but it was present")
	}

	// Uptime should still be present (it's added on GetMetrics call)
	_, exists = metrics["uptime_seconds"]
	if !exists {
		t.Errorf("Expected 'uptime_seconds' to be present in metrics, but it was not")
	}
}
