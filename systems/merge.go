package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
)

// MergeSystem combines bodies that come closer than Distance into one,
// conserving mass and momentum. Distance <= 0 disables merging.
type MergeSystem struct {
	Distance float64

	grid      *SpatialGrid
	xs, ys    []float64
	neighbors []int
	removed   []ecs.Entity
}

// NewMergeSystem creates a merge system.
func NewMergeSystem(distance float64) *MergeSystem {
	return &MergeSystem{
		Distance:  distance,
		grid:      NewSpatialGrid(),
		neighbors: make([]int, 0, 16),
	}
}

// Merge marks absorbed bodies and folds them into the survivor with the lower
// index. It returns bodies compacted to the survivors (order preserved) and
// the entities that were absorbed. The returned entity slice is reused by the
// next call. Neighbor search uses positions from before the merge.
func (s *MergeSystem) Merge(bodies []Body) ([]Body, []ecs.Entity) {
	s.removed = s.removed[:0]
	if s.Distance <= 0 || len(bodies) < 2 {
		return bodies, s.removed
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	s.xs = s.xs[:0]
	s.ys = s.ys[:0]
	for i := range bodies {
		p := bodies[i].Pos
		s.xs = append(s.xs, p.X)
		s.ys = append(s.ys, p.Y)
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	s.grid.Reset(minX, minY, maxX, maxY, s.Distance)
	for i := range bodies {
		s.grid.Insert(i, s.xs[i], s.ys[i])
	}

	for i := range bodies {
		if bodies[i].Absorbed {
			continue
		}
		s.neighbors = s.grid.QueryRadiusInto(s.neighbors[:0], s.xs[i], s.ys[i], s.Distance, i, s.xs, s.ys)
		for _, j := range s.neighbors {
			if j < i || bodies[j].Absorbed {
				continue
			}
			absorb(&bodies[i], &bodies[j])
			s.removed = append(s.removed, bodies[j].Entity)
		}
	}
	if len(s.removed) == 0 {
		return bodies, s.removed
	}

	kept := bodies[:0]
	for _, b := range bodies {
		if !b.Absorbed {
			kept = append(kept, b)
		}
	}
	return kept, s.removed
}

// absorb folds b into a. Position and velocity become mass-weighted averages.
func absorb(a, b *Body) {
	ma, mb := a.M.Value, b.M.Value
	m := ma + mb
	a.Pos.X = (a.Pos.X*ma + b.Pos.X*mb) / m
	a.Pos.Y = (a.Pos.Y*ma + b.Pos.Y*mb) / m
	a.Vel.X = (a.Vel.X*ma + b.Vel.X*mb) / m
	a.Vel.Y = (a.Vel.Y*ma + b.Vel.Y*mb) / m
	a.M.Value = m
	b.Absorbed = true
}
