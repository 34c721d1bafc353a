// Package engine defines the call boundary to the gravitational simulation
// and ships an in-process reference implementation.
//
// The harness only ever talks to an Engine. Buffer addresses handed out by an
// Engine point into engine-owned memory and stay valid only until the next
// AddParticle or Advance call.
package engine

import (
	"errors"
	"unsafe"
)

var (
	// ErrNonPositiveMass is returned by AddParticle for mass <= 0 or a
	// non-finite mass.
	ErrNonPositiveMass = errors.New("engine: particle mass must be positive and finite")

	// ErrInvalidStep is returned by Advance for a non-finite time step.
	ErrInvalidStep = errors.New("engine: time step must be finite")

	// ErrInvalidParams is returned by New for unusable parameters.
	ErrInvalidParams = errors.New("engine: invalid parameters")
)

// Engine is the opaque simulation as seen from the visualization core.
type Engine interface {
	// AddParticle inserts one particle. Invalidates previously obtained
	// buffer addresses.
	AddParticle(mass, x, y, vx, vy float64) error

	// Advance integrates the system forward by dt. Invalidates previously
	// obtained buffer addresses. Deterministic for a fixed state and dt.
	Advance(dt float64) error

	// ParticleCount returns the current number of particles.
	ParticleCount() int

	// MassBufferAddress returns the address of the first of ParticleCount
	// float64 masses, or nil when there are none.
	MassBufferAddress() unsafe.Pointer
	// PositionXBufferAddress is the same for x coordinates.
	PositionXBufferAddress() unsafe.Pointer
	// PositionYBufferAddress is the same for y coordinates.
	PositionYBufferAddress() unsafe.Pointer

	// SetIntegrationApproximationThreshold tunes the accuracy/speed trade-off.
	// Larger ratios are more exact.
	SetIntegrationApproximationThreshold(ratio float64)
}

// Factory creates an engine. It is the create() half of the boundary.
type Factory func(Params) (Engine, error)

// Params configures the reference engine.
type Params struct {
	Gravity                float64 // G
	Softening              float64 // Close-range cutoff length
	ApproximationThreshold float64 // Initial value for SetIntegrationApproximationThreshold
	Substeps               int     // Internal steps per Advance (min 1)
	MergeDistance          float64 // Particles closer than this merge; 0 disables
	Workers                int     // Force workers (0 = GOMAXPROCS)
}

// DefaultParams returns parameters suitable for small interactive scenes.
func DefaultParams() Params {
	return Params{
		Gravity:                1,
		Softening:              0.1,
		ApproximationThreshold: 4,
		Substeps:               1,
		MergeDistance:          0.5,
	}
}

// Create is the default Factory; it builds a reference Universe.
func Create(p Params) (Engine, error) {
	u, err := New(p)
	if err != nil {
		return nil, err
	}
	return u, nil
}
