// Package buffer exposes engine-owned particle memory as read-only,
// frame-scoped views without copying.
package buffer

import "unsafe"

// Source is the part of the engine boundary the view manager reads.
type Source interface {
	ParticleCount() int
	MassBufferAddress() unsafe.Pointer
	PositionXBufferAddress() unsafe.Pointer
	PositionYBufferAddress() unsafe.Pointer
}

// noCopy lets go vet's copylocks check flag a View copied by value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// View is a read-only window over the engine's mass and position buffers.
// It aliases engine memory and is valid only until the engine is mutated
// again; the Manager empties it on Release.
type View struct {
	_    noCopy
	mass []float64
	xs   []float64
	ys   []float64
}

// Len returns the number of particles visible through the view.
func (v *View) Len() int { return len(v.mass) }

// Mass returns the mass of particle i.
func (v *View) Mass(i int) float64 { return v.mass[i] }

// X returns the x coordinate of particle i.
func (v *View) X(i int) float64 { return v.xs[i] }

// Y returns the y coordinate of particle i.
func (v *View) Y(i int) float64 { return v.ys[i] }

// Manager hands out one View per frame. It holds a single View value so
// acquiring never allocates.
type Manager struct {
	view     View
	acquired bool
	frames   uint64
}

// Acquire reads the particle count and buffer addresses from src and points
// the manager's view at them. A count of zero yields an empty view.
// The returned view is invalidated by the next Acquire or Release.
func (m *Manager) Acquire(src Source) *View {
	n := src.ParticleCount()
	if n <= 0 {
		m.clear()
	} else {
		m.view.mass = alias(src.MassBufferAddress(), n)
		m.view.xs = alias(src.PositionXBufferAddress(), n)
		m.view.ys = alias(src.PositionYBufferAddress(), n)
		// A nil address with a positive count leaves nothing readable.
		if m.view.mass == nil || m.view.xs == nil || m.view.ys == nil {
			m.clear()
		}
	}
	m.acquired = true
	m.frames++
	return &m.view
}

// Release empties the view so any reference retained past the frame reads
// zero particles instead of stale engine memory.
func (m *Manager) Release() {
	m.clear()
	m.acquired = false
}

// Borrow acquires a view, passes it to fn, and releases it when fn returns,
// including on panic. fn must not retain the view.
func (m *Manager) Borrow(src Source, fn func(v *View) error) error {
	v := m.Acquire(src)
	defer m.Release()
	return fn(v)
}

// Acquired reports whether a view is currently outstanding.
func (m *Manager) Acquired() bool { return m.acquired }

// Frames returns how many views have been handed out.
func (m *Manager) Frames() uint64 { return m.frames }

func (m *Manager) clear() {
	m.view.mass = nil
	m.view.xs = nil
	m.view.ys = nil
}

func alias(p unsafe.Pointer, n int) []float64 {
	if p == nil {
		return nil
	}
	return unsafe.Slice((*float64)(p), n)
}
