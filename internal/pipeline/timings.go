package pipeline

import (
	"math"
	"slices"
	"sync"
	"time"
)

// TimingSnapshot aggregates the recorded sanitize durations.
type TimingSnapshot struct {
	Count int
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
	P50   time.Duration
	P95   time.Duration
	P99   time.Duration
}

// Timings collects per-record sanitize durations. Safe for concurrent use.
type Timings struct {
	mu      sync.Mutex
	samples []time.Duration
}

func NewTimings() *Timings {
	return &Timings{samples: make([]time.Duration, 0, 256)}
}

func (t *Timings) Record(d time.Duration) {
	if d < 0 {
		d = 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.samples = append(t.samples, d)
}

func (t *Timings) Snapshot() TimingSnapshot {
	t.mu.Lock()
	values := slices.Clone(t.samples)
	t.mu.Unlock()

	if len(values) == 0 {
		return TimingSnapshot{}
	}
	slices.Sort(values)

	var sum time.Duration
	for _, v := range values {
		sum += v
	}
	return TimingSnapshot{
		Count: len(values),
		Min:   values[0],
		Max:   values[len(values)-1],
		Avg:   sum / time.Duration(len(values)),
		P50:   percentile(values, 50),
		P95:   percentile(values, 95),
		P99:   percentile(values, 99),
	}
}

// percentile interpolates linearly between the two closest ranks.
func percentile(sorted []time.Duration, pct float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return sorted[0]
	}
	if pct >= 100 {
		return sorted[len(sorted)-1]
	}

	index := (float64(len(sorted)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[lower]
	}
	weight := index - float64(lower)
	lo := float64(sorted[lower])
	hi := float64(sorted[upper])
	return time.Duration(math.Round(lo + (hi-lo)*weight))
}
