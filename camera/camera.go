// Package camera provides the pan/zoom transform between world and screen.
package camera

import "math"

// Default clamp for the drawing ratio, as powers of two.
const (
	DefaultMinRatioExp = -60
	DefaultMaxRatioExp = 60
)

// RatioExpLimit bounds any ratio clamp so 2^e and 2^-e are finite and
// non-zero float64 values.
const RatioExpLimit = 1000

// Camera maps world coordinates onto the viewport.
// Zoom is an integer exponent; the magnification is 2^ZoomExponent.
type Camera struct {
	// Offset is added to world coordinates before scaling.
	OffsetX, OffsetY float64

	// ZoomExponent is unbounded; only the derived drawing ratio is clamped.
	ZoomExponent int

	// Drawing ratio clamp, as powers of two
	MinRatioExp, MaxRatioExp int

	// Values restored by Reset
	homeX, homeY float64
	homeExp      int
}

// New creates a camera with the given initial offset and zoom exponent.
func New(offsetX, offsetY float64, zoomExponent int) *Camera {
	return &Camera{
		OffsetX:      offsetX,
		OffsetY:      offsetY,
		ZoomExponent: zoomExponent,
		MinRatioExp:  DefaultMinRatioExp,
		MaxRatioExp:  DefaultMaxRatioExp,
		homeX:        offsetX,
		homeY:        offsetY,
		homeExp:      zoomExponent,
	}
}

// Ratio returns 2^ZoomExponent exactly. It may be 0 or +Inf at extreme
// exponents; use DrawRatio for transforms.
func (c *Camera) Ratio() float64 {
	return math.Ldexp(1, c.ZoomExponent)
}

// DrawRatio returns Ratio clamped to [2^MinRatioExp, 2^MaxRatioExp], and
// never beyond 2^±RatioExpLimit, so the transform and its inverse stay finite.
func (c *Camera) DrawRatio() float64 {
	e := clamp(c.ZoomExponent, c.MinRatioExp, c.MaxRatioExp)
	return math.Ldexp(1, clamp(e, -RatioExpLimit, RatioExpLimit))
}

// WorldToScreen converts a world position to the top-left corner of a square
// of side radius centered on it.
func (c *Camera) WorldToScreen(x, y, radius, viewportW, viewportH float64) (sx, sy float64) {
	r := c.DrawRatio()
	sx = (x+c.OffsetX)*r - radius/2 + viewportW/2
	sy = (y+c.OffsetY)*r - radius/2 + viewportH/2
	return sx, sy
}

// ScreenToWorld is the inverse of WorldToScreen for the same radius and viewport.
func (c *Camera) ScreenToWorld(sx, sy, radius, viewportW, viewportH float64) (x, y float64) {
	r := c.DrawRatio()
	x = (sx+radius/2-viewportW/2)/r - c.OffsetX
	y = (sy+radius/2-viewportH/2)/r - c.OffsetY
	return x, y
}

// Pan moves the view by a delta in screen units. The world-space step is
// scaled by the inverse zoom, so panning covers the same screen distance at
// every zoom level.
func (c *Camera) Pan(dx, dy float64) {
	inv := 1 / c.DrawRatio()
	c.OffsetX += dx * inv
	c.OffsetY += dy * inv
}

// ZoomIn doubles the magnification.
func (c *Camera) ZoomIn() {
	c.ZoomExponent++
}

// ZoomOut halves the magnification.
func (c *Camera) ZoomOut() {
	c.ZoomExponent--
}

// Reset returns the camera to the offset and zoom it was created with.
func (c *Camera) Reset() {
	c.OffsetX = c.homeX
	c.OffsetY = c.homeY
	c.ZoomExponent = c.homeExp
}

// VisibleWorldBounds returns the world-coordinate rectangle covered by the
// viewport, for point particles.
func (c *Camera) VisibleWorldBounds(viewportW, viewportH float64) (minX, minY, maxX, maxY float64) {
	minX, minY = c.ScreenToWorld(0, 0, 0, viewportW, viewportH)
	maxX, maxY = c.ScreenToWorld(viewportW, viewportH, 0, viewportW, viewportH)
	return
}

// clamp restricts a value to a range.
func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
