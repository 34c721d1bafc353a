package camera

import (
	"math"
	"testing"
)

func TestRatioExactPowersOfTwo(t *testing.T) {
	cam := New(0, 0, 0)
	want := map[int]float64{-2: 0.25, -1: 0.5, 0: 1, 1: 2, 2: 4}

	for exp, ratio := range want {
		cam.ZoomExponent = exp
		if got := cam.Ratio(); got != ratio {
			t.Errorf("exponent %d: expected ratio %v, got %v", exp, ratio, got)
		}
		if got := cam.DrawRatio(); got != ratio {
			t.Errorf("exponent %d: expected draw ratio %v, got %v", exp, ratio, got)
		}
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(0, 0, 0)

	// World origin should map to screen center
	sx, sy := cam.WorldToScreen(0, 0, 0, 800, 600)
	if sx != 400 || sy != 300 {
		t.Errorf("expected screen center (400, 300), got (%f, %f)", sx, sy)
	}

	// The square is centered on the point
	sx, sy = cam.WorldToScreen(0, 0, 4, 800, 600)
	if sx != 398 || sy != 298 {
		t.Errorf("expected (398, 298), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	testCases := []struct {
		x, y, radius float64
		offX, offY   float64
		exp          int
	}{
		{0, 0, 0, 0, 0, 0},
		{12.5, -3, 2, 0, 0, 0},
		{-100, 250, 3, 17, -4, 2},
		{1e4, 1e4, 1, -1e3, 5, -3},
		{0.001, -0.002, 0.5, 0, 0, 7},
	}

	for _, tc := range testCases {
		cam := New(tc.offX, tc.offY, tc.exp)
		sx, sy := cam.WorldToScreen(tc.x, tc.y, tc.radius, 800, 600)
		x, y := cam.ScreenToWorld(sx, sy, tc.radius, 800, 600)
		if math.Abs(x-tc.x) > 1e-9 || math.Abs(y-tc.y) > 1e-9 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.x, tc.y, sx, sy, x, y)
		}
	}
}

func TestPanScalesWithZoom(t *testing.T) {
	at0 := New(0, 0, 0)
	at0.Pan(10, -6)

	at1 := New(0, 0, 1)
	at1.Pan(10, -6)

	if at1.OffsetX != at0.OffsetX/2 || at1.OffsetY != at0.OffsetY/2 {
		t.Errorf("expected half step at exponent 1: got (%f,%f) vs (%f,%f)",
			at1.OffsetX, at1.OffsetY, at0.OffsetX, at0.OffsetY)
	}
	if at0.OffsetX != 10 || at0.OffsetY != -6 {
		t.Errorf("expected full step at exponent 0, got (%f,%f)", at0.OffsetX, at0.OffsetY)
	}
}

func TestDrawRatioHardLimit(t *testing.T) {
	cam := New(0, 0, 0)
	cam.MinRatioExp, cam.MaxRatioExp = -2000, 2000

	cam.ZoomExponent = -2000
	if r := cam.DrawRatio(); r != math.Ldexp(1, -RatioExpLimit) {
		t.Errorf("expected ratio 2^-%d, got %v", RatioExpLimit, r)
	}
	cam.Pan(5, 5)
	if math.IsInf(cam.OffsetX, 0) || math.IsNaN(cam.OffsetX) {
		t.Errorf("expected finite offset after pan, got %v", cam.OffsetX)
	}

	cam.ZoomExponent = 2000
	if r := cam.DrawRatio(); r != math.Ldexp(1, RatioExpLimit) {
		t.Errorf("expected ratio 2^%d, got %v", RatioExpLimit, r)
	}
}

func TestZoomUnclamped(t *testing.T) {
	cam := New(0, 0, 0)
	for i := 0; i < 2000; i++ {
		cam.ZoomIn()
	}
	if cam.ZoomExponent != 2000 {
		t.Fatalf("expected exponent 2000, got %d", cam.ZoomExponent)
	}
	if !math.IsInf(cam.Ratio(), 1) {
		t.Errorf("expected raw ratio to overflow, got %v", cam.Ratio())
	}

	sx, sy := cam.WorldToScreen(1, 1, 1, 800, 600)
	if math.IsInf(sx, 0) || math.IsNaN(sx) || math.IsInf(sy, 0) || math.IsNaN(sy) {
		t.Errorf("expected finite screen coordinates, got (%v,%v)", sx, sy)
	}

	for i := 0; i < 4000; i++ {
		cam.ZoomOut()
	}
	if cam.Ratio() != 0 {
		t.Errorf("expected raw ratio to underflow, got %v", cam.Ratio())
	}
	cam.Pan(5, 5)
	if math.IsInf(cam.OffsetX, 0) || math.IsNaN(cam.OffsetX) {
		t.Errorf("expected finite offset after pan, got %v", cam.OffsetX)
	}
}

func TestReset(t *testing.T) {
	cam := New(3, 4, 1)
	cam.Pan(100, 100)
	cam.ZoomIn()
	cam.Reset()

	if cam.OffsetX != 3 || cam.OffsetY != 4 || cam.ZoomExponent != 1 {
		t.Errorf("expected (3,4,1), got (%f,%f,%d)", cam.OffsetX, cam.OffsetY, cam.ZoomExponent)
	}
}

func TestVisibleWorldBounds(t *testing.T) {
	cam := New(0, 0, 1)
	minX, minY, maxX, maxY := cam.VisibleWorldBounds(800, 600)
	if minX != -200 || maxX != 200 || minY != -150 || maxY != 150 {
		t.Errorf("unexpected bounds (%f,%f)-(%f,%f)", minX, minY, maxX, maxY)
	}
}
