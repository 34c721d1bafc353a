package engine

import (
	"errors"
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUniverse(t *testing.T, p Params) *Universe {
	t.Helper()
	u, err := New(p)
	require.NoError(t, err)
	t.Cleanup(func() { u.Close() })
	return u
}

func buffers(u *Universe) (mass, xs, ys []float64) {
	n := u.ParticleCount()
	if n == 0 {
		return nil, nil, nil
	}
	mass = unsafe.Slice((*float64)(u.MassBufferAddress()), n)
	xs = unsafe.Slice((*float64)(u.PositionXBufferAddress()), n)
	ys = unsafe.Slice((*float64)(u.PositionYBufferAddress()), n)
	return mass, xs, ys
}

func TestAddParticleRejectsBadMass(t *testing.T) {
	u := newTestUniverse(t, DefaultParams())

	for _, m := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		err := u.AddParticle(m, 0, 0, 0, 0)
		assert.True(t, errors.Is(err, ErrNonPositiveMass), "mass %v: got %v", m, err)
	}
	assert.Equal(t, 0, u.ParticleCount())
}

func TestEmptyUniverseBuffers(t *testing.T) {
	u := newTestUniverse(t, DefaultParams())

	assert.Equal(t, 0, u.ParticleCount())
	assert.True(t, u.MassBufferAddress() == nil)
	assert.True(t, u.PositionXBufferAddress() == nil)
	assert.True(t, u.PositionYBufferAddress() == nil)
	assert.NoError(t, u.Advance(0.1))
}

func TestBuffersReflectParticles(t *testing.T) {
	u := newTestUniverse(t, DefaultParams())

	require.NoError(t, u.AddParticle(1, 10, 20, 0, 0))
	require.NoError(t, u.AddParticle(8, -5, 3, 0, 0))
	require.NoError(t, u.AddParticle(27, 100, -40, 0, 0))

	mass, xs, ys := buffers(u)
	assert.Equal(t, []float64{1, 8, 27}, mass)
	assert.Equal(t, []float64{10, -5, 100}, xs)
	assert.Equal(t, []float64{20, 3, -40}, ys)
}

func TestAdvancePullsBodiesTogether(t *testing.T) {
	p := DefaultParams()
	p.MergeDistance = 0
	u := newTestUniverse(t, p)

	require.NoError(t, u.AddParticle(10, -10, 0, 0, 0))
	require.NoError(t, u.AddParticle(10, 10, 0, 0, 0))

	require.NoError(t, u.Advance(0.1))

	_, xs, ys := buffers(u)
	require.Len(t, xs, 2)
	assert.Greater(t, xs[0], -10.0)
	assert.Less(t, xs[1], 10.0)
	assert.InDelta(t, -xs[0], xs[1], 1e-12, "symmetric pair should stay symmetric")
	assert.InDelta(t, 0, ys[0], 1e-12)
}

func TestAdvanceIsDeterministic(t *testing.T) {
	p := DefaultParams()
	p.Workers = 4
	a := newTestUniverse(t, p)
	b := newTestUniverse(t, p)

	// Enough bodies to exercise the worker pool.
	for i := 0; i < 200; i++ {
		x := float64(i%20) * 3
		y := float64(i/20) * 3
		m := 1 + float64(i%7)
		require.NoError(t, a.AddParticle(m, x, y, 0.1, -0.1))
		require.NoError(t, b.AddParticle(m, x, y, 0.1, -0.1))
	}

	for i := 0; i < 5; i++ {
		require.NoError(t, a.Advance(0.05))
		require.NoError(t, b.Advance(0.05))
	}

	ma, xa, ya := buffers(a)
	mb, xb, yb := buffers(b)
	assert.Equal(t, ma, mb)
	assert.Equal(t, xa, xb)
	assert.Equal(t, ya, yb)
}

func TestMergeConservesMassAndMomentum(t *testing.T) {
	p := DefaultParams()
	p.Gravity = 0
	p.MergeDistance = 1
	u := newTestUniverse(t, p)

	require.NoError(t, u.AddParticle(2, 0, 0, 1, 0))
	require.NoError(t, u.AddParticle(6, 0.5, 0, -1, 2))
	require.NoError(t, u.AddParticle(1, 50, 50, 0, 0))

	before := u.Stats()
	require.NoError(t, u.Advance(0.01))
	after := u.Stats()
	assert.InDelta(t, before.MomentumX, after.MomentumX, 1e-12)
	assert.InDelta(t, before.MomentumY, after.MomentumY, 1e-12)

	assert.Equal(t, 2, u.ParticleCount())
	require.Len(t, u.removed, 1)
	assert.False(t, u.world.Alive(u.removed[0]), "absorbed entity still alive")
	mass, xs, _ := buffers(u)
	assert.InDelta(t, 9, mass[0]+mass[1], 1e-12)

	// Find the merged body and check its velocity via one more step.
	var merged int
	for i, m := range mass {
		if m == 8 {
			merged = i
		}
	}
	assert.Equal(t, 8.0, mass[merged])
	x0 := xs[merged]
	require.NoError(t, u.Advance(1))
	_, xs, _ = buffers(u)
	// Momentum (2*1 + 6*-1) / 8 = -0.5 in x.
	assert.InDelta(t, -0.5, xs[merged]-x0, 1e-9)
	assert.Equal(t, uint64(1), u.Stats().Merges)
	assert.InDelta(t, 9, u.Stats().TotalMass, 1e-12)
}

func TestApproximationThreshold(t *testing.T) {
	u := newTestUniverse(t, DefaultParams())

	u.SetIntegrationApproximationThreshold(4)
	assert.Equal(t, 4.0, u.ApproximationThreshold())

	u.SetIntegrationApproximationThreshold(math.NaN())
	assert.Equal(t, 0.0, u.ApproximationThreshold())
}

func TestDefaultThresholdTracksExactForces(t *testing.T) {
	exact := DefaultParams()
	exact.ApproximationThreshold = math.Inf(1)
	exact.MergeDistance = 0
	approx := DefaultParams()
	approx.MergeDistance = 0

	a := newTestUniverse(t, exact)
	b := newTestUniverse(t, approx)
	bodies := [][3]float64{{1000, 0, 0}, {1, 40, 0}, {8, -60, 10}, {27, 5, 90}, {3, -30, -70}}
	for _, p := range bodies {
		require.NoError(t, a.AddParticle(p[0], p[1], p[2], 0, 0))
		require.NoError(t, b.AddParticle(p[0], p[1], p[2], 0, 0))
	}
	require.NoError(t, a.Advance(0.05))
	require.NoError(t, b.Advance(0.05))

	_, xa, ya := buffers(a)
	_, xb, yb := buffers(b)
	for i := range xa {
		assert.InDelta(t, xa[i], xb[i], 1e-9, "x[%d]", i)
		assert.InDelta(t, ya[i], yb[i], 1e-9, "y[%d]", i)
	}
}

func TestAdvanceRejectsNonFiniteStep(t *testing.T) {
	u := newTestUniverse(t, DefaultParams())
	require.NoError(t, u.AddParticle(1, 0, 0, 0, 0))

	err := u.Advance(math.NaN())
	assert.True(t, errors.Is(err, ErrInvalidStep))
}

func TestNewRejectsInvalidParams(t *testing.T) {
	p := DefaultParams()
	p.Softening = -1
	_, err := New(p)
	assert.True(t, errors.Is(err, ErrInvalidParams))
}
