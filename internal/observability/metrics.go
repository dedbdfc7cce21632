package observability

import (
	"sort"
	"strconv"
	"sync"
	"time"
)

// Metrics keeps in-process request and error counters for the metrics endpoint.
type Metrics struct {
	mu           sync.Mutex
	startedAt    time.Time
	requestCount map[string]int64
	requestNanos map[string]int64
	errorCount   map[string]int64
}

// RouteMetric is a snapshot row for one method/route/status combination.
type RouteMetric struct {
	Key          string  `json:"key"`
	Count        int64   `json:"count"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}

// ErrorMetric is a snapshot row for one method/route/error code combination.
type ErrorMetric struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	UptimeSeconds int64         `json:"uptime_seconds"`
	Requests      []RouteMetric `json:"requests"`
	Errors        []ErrorMetric `json:"errors"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		startedAt:    time.Now(),
		requestCount: make(map[string]int64),
		requestNanos: make(map[string]int64),
		errorCount:   make(map[string]int64),
	}
}

// RecordRequest counts a served request and its latency.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := method + " " + route + " " + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.requestNanos[key] += duration.Nanoseconds()
}

// RecordError counts a failed request by domain error code.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	key := method + " " + route + " " + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// Snapshot copies the counters, sorted by key.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		UptimeSeconds: int64(time.Since(m.startedAt).Seconds()),
		Requests:      make([]RouteMetric, 0, len(m.requestCount)),
		Errors:        make([]ErrorMetric, 0, len(m.errorCount)),
	}
	for key, count := range m.requestCount {
		avg := float64(m.requestNanos[key]) / float64(count) / float64(time.Millisecond)
		snap.Requests = append(snap.Requests, RouteMetric{Key: key, Count: count, AvgLatencyMs: avg})
	}
	for key, count := range m.errorCount {
		snap.Errors = append(snap.Errors, ErrorMetric{Key: key, Count: count})
	}
	sort.Slice(snap.Requests, func(i, j int) bool { return snap.Requests[i].Key < snap.Requests[j].Key })
	sort.Slice(snap.Errors, func(i, j int) bool { return snap.Errors[i].Key < snap.Errors[j].Key })
	return snap
}
