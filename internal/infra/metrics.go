package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	ballsSimulated atomic.Uint64
	ordersAccepted atomic.Uint64
	ordersRejected atomic.Uint64
	tradesExecuted atomic.Uint64
	marksComputed  atomic.Uint64

	// Latency tracking (order submission round trip)
	latencySumNs atomic.Int64
	latencyCount atomic.Uint64
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordBall records one simulated delivery.
func (m *Metrics) RecordBall() {
	m.ballsSimulated.Add(1)
}

// RecordOrderAccepted records an accepted submission with its latency.
func (m *Metrics) RecordOrderAccepted(latencyNs int64) {
	m.ordersAccepted.Add(1)
	m.latencySumNs.Add(latencyNs)
	m.latencyCount.Add(1)
}

// RecordOrderRejected records a rejected submission.
func (m *Metrics) RecordOrderRejected() {
	m.ordersRejected.Add(1)
}

// RecordTrades records executed trades.
func (m *Metrics) RecordTrades(n int) {
	m.tradesExecuted.Add(uint64(n))
}

// RecordMark records a mark-to-market pass.
func (m *Metrics) RecordMark() {
	m.marksComputed.Add(1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	BallsSimulated uint64
	OrdersAccepted uint64
	OrdersRejected uint64
	TradesExecuted uint64
	MarksComputed  uint64
	AvgLatencyNs   int64
	Timestamp      time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avg int64
	if count := m.latencyCount.Load(); count > 0 {
		avg = m.latencySumNs.Load() / int64(count)
	}
	return MetricsSnapshot{
		BallsSimulated: m.ballsSimulated.Load(),
		OrdersAccepted: m.ordersAccepted.Load(),
		OrdersRejected: m.ordersRejected.Load(),
		TradesExecuted: m.tradesExecuted.Load(),
		MarksComputed:  m.marksComputed.Load(),
		AvgLatencyNs:   avg,
		Timestamp:      time.Now(),
	}
}
