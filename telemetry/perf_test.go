package telemetry

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestFPSWindow_FirstSampleIsBaseline(t *testing.T) {
	w := NewFPSWindow(10)
	start := time.Unix(100, 0)

	if w.Sample(start) {
		t.Error("expected first sample to only set the baseline")
	}
	if w.Len() != 0 {
		t.Errorf("expected no samples, got %d", w.Len())
	}

	if !w.Sample(start.Add(20 * time.Millisecond)) {
		t.Fatal("expected second sample to be recorded")
	}
	s := w.Stats()
	if math.Abs(s.Latest-50) > 1e-9 {
		t.Errorf("expected 50 fps for a 20ms frame, got %v", s.Latest)
	}
}

func TestFPSWindow_IgnoresNonPositiveInterval(t *testing.T) {
	w := NewFPSWindow(10)
	now := time.Unix(100, 0)
	w.Sample(now)

	if w.Sample(now) {
		t.Error("expected zero interval to be ignored")
	}
	if w.Sample(now.Add(-time.Millisecond)) {
		t.Error("expected negative interval to be ignored")
	}
	if w.Len() != 0 {
		t.Errorf("expected no samples, got %d", w.Len())
	}
}

func TestFPSWindow_RollingWindow(t *testing.T) {
	const capacity = 5
	w := NewFPSWindow(capacity)

	// C+1 samples; the first must be evicted.
	values := []float64{10, 20, 30, 40, 50, 60}
	for _, v := range values {
		w.Push(v)
	}

	if w.Len() != capacity {
		t.Fatalf("expected %d samples, got %d", capacity, w.Len())
	}
	got := w.Samples()
	want := values[1:]
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: expected %v, got %v", i, want[i], got[i])
		}
	}

	s := w.Stats()
	if s.Min != 20 || s.Max != 60 || s.Mean != 40 || s.Latest != 60 {
		t.Errorf("unexpected stats %+v", s)
	}
	if s.Count != capacity {
		t.Errorf("expected count %d, got %d", capacity, s.Count)
	}
}

func TestFPSWindow_PartialWindow(t *testing.T) {
	w := NewFPSWindow(10)
	w.Push(30)
	w.Push(60)

	s := w.Stats()
	if s.Min != 30 || s.Max != 60 || s.Mean != 45 {
		t.Errorf("stats should cover only retained samples, got %+v", s)
	}
}

func TestFPSWindow_Reset(t *testing.T) {
	w := NewFPSWindow(3)
	w.Sample(time.Unix(1, 0))
	w.Sample(time.Unix(2, 0))
	w.Reset()

	if w.Len() != 0 || w.Stats() != (FPSStats{}) {
		t.Errorf("expected empty window after reset, got %d samples", w.Len())
	}
	if w.Sample(time.Unix(3, 0)) {
		t.Error("expected baseline to be cleared by reset")
	}
}

func TestFPSWindow_DefaultCapacity(t *testing.T) {
	if got := NewFPSWindow(0).Cap(); got != DefaultWindow {
		t.Errorf("expected default capacity %d, got %d", DefaultWindow, got)
	}
}

func TestStatus(t *testing.T) {
	line := Status(42, FPSStats{Latest: 59.6, Mean: 58.31, Min: 30, Max: 61})
	for _, want := range []string{"42", "60", "58.3", "30", "61"} {
		if !strings.Contains(line, want) {
			t.Errorf("status %q missing %q", line, want)
		}
	}
}
