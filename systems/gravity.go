package systems

import (
	"errors"
	"fmt"
	"math"
)

// ErrNonFinite is returned when a body carries a NaN or infinite coordinate.
var ErrNonFinite = errors.New("systems: non-finite body state")

// GravitySystem computes softened pairwise gravity with a Barnes-Hut quadtree.
type GravitySystem struct {
	G         float64
	Softening float64

	ratio  float64
	tree   *Quadtree
	bodies []Body
	pool   *WorkerPool
}

// NewGravitySystem creates a gravity system. ratio is the approximation
// threshold; see SetApproximationRatio.
func NewGravitySystem(g, softening, ratio float64, pool *WorkerPool) *GravitySystem {
	s := &GravitySystem{
		G:         g,
		Softening: softening,
		tree:      NewQuadtree(),
		pool:      pool,
	}
	s.SetApproximationRatio(ratio)
	return s
}

// SetApproximationRatio sets how far a cell must be, relative to its size,
// before it is treated as a single mass. Larger is more exact; +Inf is an
// exact sum and ratio <= 0 aggregates everything. NaN is treated as 0.
func (s *GravitySystem) SetApproximationRatio(ratio float64) {
	if math.IsNaN(ratio) {
		ratio = 0
	}
	s.ratio = ratio
}

// ApproximationRatio returns the current threshold.
func (s *GravitySystem) ApproximationRatio() float64 {
	return s.ratio
}

// Compute fills Acc for every body from the gravitational pull of all others.
func (s *GravitySystem) Compute(bodies []Body) error {
	for i := range bodies {
		b := &bodies[i]
		if !finite(b.Pos.X) || !finite(b.Pos.Y) || !finite(b.M.Value) {
			return fmt.Errorf("body %d: %w", i, ErrNonFinite)
		}
	}

	s.tree.Build(bodies)
	s.bodies = bodies
	s.pool.Run(len(bodies), s.computeChunk)
	s.bodies = nil
	return nil
}

func (s *GravitySystem) computeChunk(start, end int) {
	for i := start; i < end; i++ {
		a := s.tree.AccelOn(i, s.ratio, s.G, s.Softening)
		s.bodies[i].Acc.X = a.X
		s.bodies[i].Acc.Y = a.Y
	}
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
