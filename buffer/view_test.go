package buffer

import (
	"errors"
	"testing"
	"unsafe"
)

type sliceSource struct {
	mass, xs, ys []float64
}

func (s *sliceSource) ParticleCount() int { return len(s.mass) }

func (s *sliceSource) MassBufferAddress() unsafe.Pointer { return addr(s.mass) }

func (s *sliceSource) PositionXBufferAddress() unsafe.Pointer { return addr(s.xs) }

func (s *sliceSource) PositionYBufferAddress() unsafe.Pointer { return addr(s.ys) }

func addr(s []float64) unsafe.Pointer {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Pointer(&s[0])
}

func TestAcquireEmpty(t *testing.T) {
	var m Manager
	v := m.Acquire(&sliceSource{})
	if v.Len() != 0 {
		t.Errorf("expected empty view, got %d", v.Len())
	}
}

func TestAcquireAliasesSource(t *testing.T) {
	src := &sliceSource{
		mass: []float64{1, 2, 3},
		xs:   []float64{10, 20, 30},
		ys:   []float64{-1, -2, -3},
	}
	var m Manager
	v := m.Acquire(src)

	if v.Len() != 3 {
		t.Fatalf("expected 3 particles, got %d", v.Len())
	}
	for i := 0; i < 3; i++ {
		if v.Mass(i) != src.mass[i] || v.X(i) != src.xs[i] || v.Y(i) != src.ys[i] {
			t.Errorf("particle %d: got (%v,%v,%v)", i, v.Mass(i), v.X(i), v.Y(i))
		}
	}

	// The view reads engine memory directly; no copy was taken.
	src.xs[1] = 99
	if v.X(1) != 99 {
		t.Errorf("expected view to alias source, got x=%v", v.X(1))
	}
}

func TestReleaseEmptiesView(t *testing.T) {
	src := &sliceSource{mass: []float64{1}, xs: []float64{2}, ys: []float64{3}}
	var m Manager
	v := m.Acquire(src)
	if !m.Acquired() {
		t.Fatal("expected view to be outstanding")
	}
	m.Release()

	if v.Len() != 0 {
		t.Errorf("expected released view to be empty, got %d", v.Len())
	}
	if m.Acquired() {
		t.Error("expected no outstanding view after release")
	}
}

func TestBorrowReleasesOnError(t *testing.T) {
	src := &sliceSource{mass: []float64{1, 1}, xs: []float64{0, 0}, ys: []float64{0, 0}}
	var m Manager
	want := errors.New("render failed")

	var seen int
	err := m.Borrow(src, func(v *View) error {
		seen = v.Len()
		return want
	})
	if !errors.Is(err, want) {
		t.Errorf("expected %v, got %v", want, err)
	}
	if seen != 2 {
		t.Errorf("expected 2 particles inside borrow, got %d", seen)
	}
	if m.Acquired() {
		t.Error("view still outstanding after borrow")
	}
}

func TestBorrowReleasesOnPanic(t *testing.T) {
	src := &sliceSource{mass: []float64{1}, xs: []float64{0}, ys: []float64{0}}
	var m Manager

	func() {
		defer func() { _ = recover() }()
		_ = m.Borrow(src, func(v *View) error { panic("boom") })
	}()

	if m.Acquired() {
		t.Error("view still outstanding after panic")
	}
}

func TestAcquireDoesNotAllocate(t *testing.T) {
	src := &sliceSource{mass: []float64{1, 2}, xs: []float64{0, 0}, ys: []float64{0, 0}}
	var m Manager
	allocs := testing.AllocsPerRun(100, func() {
		v := m.Acquire(src)
		_ = v.Len()
		m.Release()
	})
	if allocs != 0 {
		t.Errorf("expected zero allocations, got %v", allocs)
	}
}
