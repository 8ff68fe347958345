package translate

import (
	"testing"
	"time"
)

func TestLLMStats_EmptySnapshot(t *testing.T) {
	s := NewLLMStats(time.Hour)
	snap := s.Snapshot()
	if snap.Count != 0 {
		t.Errorf("expected empty snapshot, got count %d", snap.Count)
	}
}

func TestLLMStats_RecordAndAggregate(t *testing.T) {
	s := NewLLMStats(time.Hour)
	for _, ms := range []int64{100, 200, 300, 400, 500} {
		s.Record(ms, 1000)
	}
	snap := s.Snapshot()
	if snap.Count != 5 {
		t.Errorf("expected 5 samples, got %d", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Errorf("expected min 100 max 500, got %d %d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Errorf("expected avg 300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Errorf("expected p50 300, got %f", snap.P50Ms)
	}
}

func TestLLMStats_CharThroughput(t *testing.T) {
	s := NewLLMStats(time.Hour)
	s.Record(1000, 2000) // 2000 chars in 1s
	s.Record(1000, 4000) // 4000 chars in 1s
	snap := s.Snapshot()
	if snap.TotalChars != 6000 {
		t.Errorf("expected 6000 total chars, got %d", snap.TotalChars)
	}
	if snap.AvgChars != 3000 {
		t.Errorf("expected avg 3000 chars per call, got %f", snap.AvgChars)
	}
	if snap.CharsPerSec != 3000 {
		t.Errorf("expected 3000 chars/sec, got %f", snap.CharsPerSec)
	}
}

func TestLLMStats_NegativeInputsClamped(t *testing.T) {
	s := NewLLMStats(time.Hour)
	s.Record(-50, -10)
	snap := s.Snapshot()
	if snap.MinMs != 0 {
		t.Errorf("expected negative duration clamped to 0, got %d", snap.MinMs)
	}
	if snap.TotalChars != 0 {
		t.Errorf("expected negative chars clamped to 0, got %d", snap.TotalChars)
	}
}

func TestLLMStats_OldSamplesPruned(t *testing.T) {
	s := NewLLMStats(10 * time.Millisecond)
	s.Record(100, 500)
	time.Sleep(25 * time.Millisecond)
	snap := s.Snapshot()
	if snap.Count != 0 {
		t.Errorf("expected expired sample pruned, got count %d", snap.Count)
	}
}
