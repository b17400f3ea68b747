package observability

import (
	"testing"
	"time"
)

func TestMetricsCountsRequestsPerRoute(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/api/tickets", "POST", 201, 5*time.Millisecond)
	m.RecordRequest("/api/tickets", "POST", 201, 7*time.Millisecond)
	m.RecordRequest("/api/tickets", "GET", 200, 1*time.Millisecond)

	if got := m.RequestTotal("/api/tickets", "POST", 201); got != 2 {
		t.Errorf("POST 201 total = %d, want 2", got)
	}
	if got := m.RequestTotal("/api/tickets", "GET", 200); got != 1 {
		t.Errorf("GET 200 total = %d, want 1", got)
	}
	if got := m.RequestTotal("/api/tickets", "GET", 404); got != 0 {
		t.Errorf("unrecorded route total = %d, want 0", got)
	}
}

func TestMetricsNilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/x", "GET", 200, time.Millisecond)
	m.RecordError("/x", "GET", "INTERNAL_ERROR")
	if m.RequestTotal("/x", "GET", 200) != 0 {
		t.Error("nil metrics returned a nonzero total")
	}
}
