package observability

import (
	"sync"
	"time"
)

type requestKey struct {
	path   string
	method string
	status int
}

type errorKey struct {
	path   string
	method string
	code   string
}

// Metrics keeps in-memory request and error counters plus a running
// latency total per route, enough for log-based inspection without an
// external metrics backend.
type Metrics struct {
	mu            sync.Mutex
	requestCount  map[requestKey]int64
	errorCount    map[errorKey]int64
	totalDuration map[requestKey]time.Duration
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:  make(map[requestKey]int64),
		errorCount:    make(map[errorKey]int64),
		totalDuration: make(map[requestKey]time.Duration),
	}
}

// RecordRequest counts one served request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := requestKey{path: path, method: method, status: status}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.totalDuration[key] += duration
}

// RecordError counts one error response by domain error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := errorKey{path: path, method: method, code: code}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RequestTotal returns the number of requests recorded for a route and
// status.
func (m *Metrics) RequestTotal(path, method string, status int) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestCount[requestKey{path: path, method: method, status: status}]
}
