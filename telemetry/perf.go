// Package telemetry measures frame rate over a rolling window and writes
// run output.
package telemetry

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultWindow is the sample capacity used when none is configured.
const DefaultWindow = 60

// FPSWindow tracks instantaneous frame rate over a fixed-capacity window.
// Inserting beyond capacity evicts the oldest sample.
type FPSWindow struct {
	samples     []float64
	writeIndex  int
	sampleCount int
	last        time.Time
	stats       FPSStats
}

// NewFPSWindow creates a window holding up to capacity samples.
func NewFPSWindow(capacity int) *FPSWindow {
	if capacity < 1 {
		capacity = DefaultWindow
	}
	return &FPSWindow{samples: make([]float64, capacity)}
}

// Sample records the frame at now. The first call only establishes the
// baseline. Intervals that are zero or negative are ignored.
// Returns whether a sample was recorded.
func (w *FPSWindow) Sample(now time.Time) bool {
	if w.last.IsZero() {
		w.last = now
		return false
	}
	d := now.Sub(w.last)
	if d <= 0 {
		return false
	}
	w.last = now
	w.Push(float64(time.Second) / float64(d))
	return true
}

// Push inserts an fps value directly and refreshes the stats.
func (w *FPSWindow) Push(fps float64) {
	w.samples[w.writeIndex] = fps
	w.writeIndex = (w.writeIndex + 1) % len(w.samples)
	if w.sampleCount < len(w.samples) {
		w.sampleCount++
	}

	// Until the ring wraps, the retained samples are exactly the prefix;
	// afterwards every slot is retained. Either way order does not matter.
	retained := w.samples[:w.sampleCount]
	w.stats = FPSStats{
		Latest: fps,
		Mean:   stat.Mean(retained, nil),
		Min:    floats.Min(retained),
		Max:    floats.Max(retained),
		Count:  w.sampleCount,
	}
}

// Stats returns the statistics over the retained samples.
func (w *FPSWindow) Stats() FPSStats {
	return w.stats
}

// Len returns the number of retained samples.
func (w *FPSWindow) Len() int {
	return w.sampleCount
}

// Cap returns the window capacity.
func (w *FPSWindow) Cap() int {
	return len(w.samples)
}

// Samples returns the retained samples oldest first.
func (w *FPSWindow) Samples() []float64 {
	out := make([]float64, 0, w.sampleCount)
	start := 0
	if w.sampleCount == len(w.samples) {
		start = w.writeIndex
	}
	for i := 0; i < w.sampleCount; i++ {
		out = append(out, w.samples[(start+i)%len(w.samples)])
	}
	return out
}

// Reset drops every sample and the baseline timestamp.
func (w *FPSWindow) Reset() {
	w.writeIndex = 0
	w.sampleCount = 0
	w.last = time.Time{}
	w.stats = FPSStats{}
}

// FPSStats holds aggregated frame-rate statistics.
type FPSStats struct {
	Latest float64
	Mean   float64
	Min    float64
	Max    float64
	Count  int
}

// LogStats logs the frame-rate statistics.
func (s FPSStats) LogStats() {
	slog.Info("fps",
		"latest", int(s.Latest),
		"mean", int(s.Mean),
		"min", int(s.Min),
		"max", int(s.Max),
		"samples", s.Count,
	)
}

// LogValue implements slog.LogValuer for structured logging.
func (s FPSStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("latest", s.Latest),
		slog.Float64("mean", s.Mean),
		slog.Float64("min", s.Min),
		slog.Float64("max", s.Max),
		slog.Int("samples", s.Count),
	)
}
