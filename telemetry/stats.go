package telemetry

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Percentile returns the p-th percentile (0-1) of sorted values using linear
// interpolation. Returns 0 for an empty slice.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Summary describes a whole run's frame rates, for end-of-run reports.
type Summary struct {
	Frames  int
	Mean    float64
	StdDev  float64
	P10     float64
	P50     float64
	P90     float64
	Dropped uint64
}

// Summarize computes a Summary over values. values is not modified.
func Summarize(values []float64, dropped uint64) Summary {
	s := Summary{Frames: len(values), Dropped: dropped}
	if len(values) == 0 {
		return s
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	s.Mean, s.StdDev = stat.MeanStdDev(sorted, nil)
	if len(sorted) < 2 {
		s.StdDev = 0
	}
	s.P10 = Percentile(sorted, 0.1)
	s.P50 = Percentile(sorted, 0.5)
	s.P90 = Percentile(sorted, 0.9)
	return s
}

// Status formats the one-line readout shown each frame.
func Status(particles int, s FPSStats) string {
	return fmt.Sprintf("particles: %d | fps: %.0f (mean %.1f, min %.0f, max %.0f)",
		particles, s.Latest, s.Mean, s.Min, s.Max)
}
