package bench

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Metrics aggregates latency and outcome counts for one bench run.
type Metrics struct {
	mu sync.Mutex

	total  atomic.Int64
	errors atomic.Int64

	// Latency histogram in microseconds, 1us to 60s, 3 significant digits.
	histogram *hdrhistogram.Histogram
	statuses  map[int]int64

	startTime time.Time
	endTime   time.Time
}

// Summary is the immutable result of a bench run.
type Summary struct {
	Total    int64
	Errors   int64
	Statuses map[int]int64
	P50      time.Duration
	P95      time.Duration
	P99      time.Duration
	Max      time.Duration
	RPS      float64
	Elapsed  time.Duration
}

func NewMetrics() *Metrics {
	return &Metrics{
		histogram: hdrhistogram.New(1, 60_000_000, 3),
		statuses:  make(map[int]int64),
	}
}

func (m *Metrics) Start() {
	m.startTime = time.Now()
}

func (m *Metrics) Stop() {
	m.endTime = time.Now()
}

// RecordResponse counts a completed request and its latency.
func (m *Metrics) RecordResponse(statusCode int, latency time.Duration) {
	m.total.Add(1)
	m.mu.Lock()
	_ = m.histogram.RecordValue(latency.Microseconds())
	m.statuses[statusCode]++
	m.mu.Unlock()
}

// RecordError counts a request that failed before producing a response.
func (m *Metrics) RecordError() {
	m.total.Add(1)
	m.errors.Add(1)
}

func (m *Metrics) Summary() *Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	elapsed := m.endTime.Sub(m.startTime)
	statuses := make(map[int]int64, len(m.statuses))
	for k, v := range m.statuses {
		statuses[k] = v
	}
	s := &Summary{
		Total:    m.total.Load(),
		Errors:   m.errors.Load(),
		Statuses: statuses,
		P50:      time.Duration(m.histogram.ValueAtQuantile(50)) * time.Microsecond,
		P95:      time.Duration(m.histogram.ValueAtQuantile(95)) * time.Microsecond,
		P99:      time.Duration(m.histogram.ValueAtQuantile(99)) * time.Microsecond,
		Max:      time.Duration(m.histogram.Max()) * time.Microsecond,
		Elapsed:  elapsed,
	}
	if elapsed > 0 {
		s.RPS = float64(s.Total) / elapsed.Seconds()
	}
	return s
}
