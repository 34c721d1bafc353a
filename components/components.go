// Package components defines ECS components for the reference engine.
package components

// Position represents a particle's world position.
type Position struct {
	X, Y float64
}

// Velocity represents a particle's velocity in world units per time unit.
type Velocity struct {
	X, Y float64
}

// Mass holds a particle's mass. Always positive for live particles.
type Mass struct {
	Value float64
}

// Accel accumulates the acceleration computed for the current sub-step.
type Accel struct {
	X, Y float64
}

// Momentum returns m*v for the particle.
func Momentum(m Mass, v Velocity) (px, py float64) {
	return m.Value * v.X, m.Value * v.Y
}
