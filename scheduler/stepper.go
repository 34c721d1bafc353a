package scheduler

import (
	"fmt"
	"time"
)

// Stepper chooses the simulated time step for a frame.
type Stepper interface {
	Step(now time.Time) float64
}

// FixedStep advances by the same dt every frame, regardless of frame rate.
// Simulation speed then follows the display rate, but runs are reproducible.
type FixedStep struct {
	DT float64
}

// Step returns DT.
func (f FixedStep) Step(time.Time) float64 {
	return f.DT
}

// CoupledStep advances by the wall time since the previous frame times
// TimeScale, capped at MaxDT so a stall does not produce one huge step.
// The first frame steps by zero.
type CoupledStep struct {
	TimeScale float64
	MaxDT     float64

	last time.Time
}

// Step returns the scaled elapsed time.
func (c *CoupledStep) Step(now time.Time) float64 {
	if c.last.IsZero() {
		c.last = now
		return 0
	}
	elapsed := now.Sub(c.last).Seconds()
	c.last = now
	if elapsed < 0 {
		elapsed = 0
	}
	return min(elapsed*c.TimeScale, c.MaxDT)
}

// NewStepper builds a stepper for the named mode ("fixed" or "coupled").
func NewStepper(mode string, dt, timeScale, maxDT float64) (Stepper, error) {
	switch mode {
	case "fixed", "":
		return FixedStep{DT: dt}, nil
	case "coupled":
		return &CoupledStep{TimeScale: timeScale, MaxDT: maxDT}, nil
	}
	return nil, fmt.Errorf("unknown stepping mode %q", mode)
}
