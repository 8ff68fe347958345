package translate

import (
	"sort"
	"sync"
	"time"
)

type latencySample struct {
	at    time.Time
	ms    int64
	chars int
}

// StatsSnapshot is a point-in-time aggregate of recent LLM calls: latency
// percentiles plus source-text volume, which is what translation capacity
// planning actually tracks.
type StatsSnapshot struct {
	Count       int     `json:"count"`
	MinMs       int64   `json:"min_ms"`
	MaxMs       int64   `json:"max_ms"`
	AvgMs       float64 `json:"avg_ms"`
	P50Ms       float64 `json:"p50_ms"`
	P95Ms       float64 `json:"p95_ms"`
	P99Ms       float64 `json:"p99_ms"`
	TotalChars  int64   `json:"total_chars"`
	AvgChars    float64 `json:"avg_chars"`
	CharsPerSec float64 `json:"chars_per_sec"`
}

// LLMStats tracks translation/summarization call latencies and source-text
// sizes within a rolling window. Shared by all clients behind a mutex.
type LLMStats struct {
	mu      sync.Mutex
	samples []latencySample
	maxAge  time.Duration
}

func NewLLMStats(maxAge time.Duration) *LLMStats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &LLMStats{
		samples: make([]latencySample, 0, 256),
		maxAge:  maxAge,
	}
}

// Record logs one completed call: its wall time and how many source-text
// characters it processed.
func (s *LLMStats) Record(durationMs int64, chars int) {
	if durationMs < 0 {
		durationMs = 0
	}
	if chars < 0 {
		chars = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, latencySample{at: now, ms: durationMs, chars: chars})
}

func (s *LLMStats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	if len(s.samples) == 0 {
		return StatsSnapshot{}
	}

	values := make([]int64, 0, len(s.samples))
	var sumMs, sumChars int64
	for _, sm := range s.samples {
		values = append(values, sm.ms)
		sumMs += sm.ms
		sumChars += int64(sm.chars)
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	snap := StatsSnapshot{
		Count:      len(values),
		MinMs:      values[0],
		MaxMs:      values[len(values)-1],
		AvgMs:      float64(sumMs) / float64(len(values)),
		P50Ms:      percentile(values, 50),
		P95Ms:      percentile(values, 95),
		P99Ms:      percentile(values, 99),
		TotalChars: sumChars,
		AvgChars:   float64(sumChars) / float64(len(values)),
	}
	if sumMs > 0 {
		snap.CharsPerSec = float64(sumChars) / (float64(sumMs) / 1000.0)
	}
	return snap
}

func (s *LLMStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	writeIdx := 0
	for _, sm := range s.samples {
		if !sm.at.Before(cutoff) {
			s.samples[writeIdx] = sm
			writeIdx++
		}
	}
	s.samples = s.samples[:writeIdx]
}

func percentile(sortedValues []int64, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sortedValues[0])
	}
	if pct >= 100 {
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}
