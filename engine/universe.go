package engine

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gravview/components"
	"github.com/pthm-cable/gravview/systems"
)

// Universe is the reference Engine: particles live in an ECS world, forces
// come from a Barnes-Hut quadtree and close pairs merge.
//
// After each mutating call the survivors are packed in query order into three
// contiguous float64 buffers. Those buffers back the address getters.
type Universe struct {
	params Params

	world    *ecs.World
	mapper   *ecs.Map3[components.Mass, components.Position, components.Velocity]
	filter   *ecs.Filter3[components.Mass, components.Position, components.Velocity]
	bodies   []systems.Body
	removed  []ecs.Entity
	pool     *systems.WorkerPool
	gravity  *systems.GravitySystem
	merger   *systems.MergeSystem
	count    int
	dirty    bool
	mass     []float64
	posX     []float64
	posY     []float64
	advances uint64
	merges   uint64
}

// Compile-time check.
var _ Engine = (*Universe)(nil)

// New creates an empty universe.
func New(p Params) (*Universe, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if p.Substeps < 1 {
		p.Substeps = 1
	}

	world := ecs.NewWorld()
	pool := systems.NewWorkerPool(p.Workers)
	u := &Universe{
		params:  p,
		world:   world,
		mapper:  ecs.NewMap3[components.Mass, components.Position, components.Velocity](world),
		filter:  ecs.NewFilter3[components.Mass, components.Position, components.Velocity](world),
		pool:    pool,
		gravity: systems.NewGravitySystem(p.Gravity, p.Softening, p.ApproximationThreshold, pool),
		merger:  systems.NewMergeSystem(p.MergeDistance),
		bodies:  make([]systems.Body, 0, 256),
	}
	return u, nil
}

func (p Params) validate() error {
	switch {
	case math.IsNaN(p.Gravity) || math.IsInf(p.Gravity, 0):
		return fmt.Errorf("%w: gravity %v", ErrInvalidParams, p.Gravity)
	case math.IsNaN(p.Softening) || p.Softening < 0:
		return fmt.Errorf("%w: softening %v", ErrInvalidParams, p.Softening)
	case math.IsNaN(p.MergeDistance) || p.MergeDistance < 0:
		return fmt.Errorf("%w: merge distance %v", ErrInvalidParams, p.MergeDistance)
	case p.Workers < 0:
		return fmt.Errorf("%w: workers %d", ErrInvalidParams, p.Workers)
	}
	return nil
}

// AddParticle inserts one particle.
func (u *Universe) AddParticle(mass, x, y, vx, vy float64) error {
	if !(mass > 0) || math.IsInf(mass, 1) {
		return fmt.Errorf("adding particle with mass %v: %w", mass, ErrNonPositiveMass)
	}
	m := components.Mass{Value: mass}
	pos := components.Position{X: x, Y: y}
	vel := components.Velocity{X: vx, Y: vy}
	u.mapper.NewEntity(&m, &pos, &vel)
	u.count++
	u.dirty = true
	return nil
}

// Advance integrates forward by dt in Params.Substeps equal sub-steps.
func (u *Universe) Advance(dt float64) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("advancing by %v: %w", dt, ErrInvalidStep)
	}
	u.snapshot()
	u.removed = u.removed[:0]

	h := dt / float64(u.params.Substeps)
	for s := 0; s < u.params.Substeps; s++ {
		if err := u.gravity.Compute(u.bodies); err != nil {
			// Leave the ECS state as it was before this call.
			u.dirty = true
			return fmt.Errorf("advance %d: %w", u.advances, err)
		}
		systems.Integrate(u.bodies, h)

		var removed []ecs.Entity
		u.bodies, removed = u.merger.Merge(u.bodies)
		u.removed = append(u.removed, removed...)
	}

	u.apply()
	u.advances++
	return nil
}

// snapshot copies ECS state into the working body slice.
func (u *Universe) snapshot() {
	u.bodies = u.bodies[:0]
	query := u.filter.Query()
	for query.Next() {
		m, pos, vel := query.Get()
		u.bodies = append(u.bodies, systems.Body{
			Entity: query.Entity(),
			M:      *m,
			Pos:    *pos,
			Vel:    *vel,
		})
	}
}

// apply writes survivors back and removes absorbed entities.
func (u *Universe) apply() {
	for i := range u.bodies {
		b := &u.bodies[i]
		m, pos, vel := u.mapper.Get(b.Entity)
		*m = b.M
		*pos = b.Pos
		*vel = b.Vel
	}
	for _, e := range u.removed {
		u.world.RemoveEntity(e)
	}
	u.merges += uint64(len(u.removed))
	u.count = len(u.bodies)
	u.dirty = true
}

// pack refreshes the exported buffers from the ECS world if stale.
func (u *Universe) pack() {
	if !u.dirty {
		return
	}
	u.mass = u.mass[:0]
	u.posX = u.posX[:0]
	u.posY = u.posY[:0]
	query := u.filter.Query()
	for query.Next() {
		m, pos, _ := query.Get()
		u.mass = append(u.mass, m.Value)
		u.posX = append(u.posX, pos.X)
		u.posY = append(u.posY, pos.Y)
	}
	u.count = len(u.mass)
	u.dirty = false
}

// ParticleCount returns the current number of particles.
func (u *Universe) ParticleCount() int {
	return u.count
}

// MassBufferAddress returns the address of the packed mass buffer.
func (u *Universe) MassBufferAddress() unsafe.Pointer {
	u.pack()
	return first(u.mass)
}

// PositionXBufferAddress returns the address of the packed x buffer.
func (u *Universe) PositionXBufferAddress() unsafe.Pointer {
	u.pack()
	return first(u.posX)
}

// PositionYBufferAddress returns the address of the packed y buffer.
func (u *Universe) PositionYBufferAddress() unsafe.Pointer {
	u.pack()
	return first(u.posY)
}

// SetIntegrationApproximationThreshold sets the quadtree aggregation ratio.
// Larger is more exact; +Inf sums every pair.
func (u *Universe) SetIntegrationApproximationThreshold(ratio float64) {
	u.params.ApproximationThreshold = ratio
	u.gravity.SetApproximationRatio(ratio)
}

// ApproximationThreshold returns the ratio in effect.
func (u *Universe) ApproximationThreshold() float64 {
	return u.gravity.ApproximationRatio()
}

// Stats returns lifetime counters.
func (u *Universe) Stats() Stats {
	st := Stats{
		Particles: u.count,
		Advances:  u.advances,
		Merges:    u.merges,
		Workers:   u.pool.Workers(),
	}
	query := u.filter.Query()
	for query.Next() {
		m, _, vel := query.Get()
		px, py := components.Momentum(*m, *vel)
		st.TotalMass += m.Value
		st.MomentumX += px
		st.MomentumY += py
	}
	return st
}

// Close stops the force workers.
func (u *Universe) Close() error {
	u.pool.Stop()
	return nil
}

func first(s []float64) unsafe.Pointer {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Pointer(&s[0])
}
