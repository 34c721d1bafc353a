// Package renderer draws a buffer view onto a 2D surface.
package renderer

import (
	"math"

	"github.com/pthm-cable/gravview/buffer"
	"github.com/pthm-cable/gravview/camera"
)

// Surface is a fixed-size 2D drawing target. The fill color is a property of
// the surface, so every particle is drawn the same way.
type Surface interface {
	ClearRect(x, y, w, h float64)
	FillRect(x, y, w, h float64)
}

// Pass holds the render settings that stay fixed between frames.
type Pass struct {
	ShapeExponent        float64
	ViewportW, ViewportH float64
}

// NewPass creates a render pass for the given viewport.
func NewPass(shapeExponent, viewportW, viewportH float64) *Pass {
	return &Pass{
		ShapeExponent: shapeExponent,
		ViewportW:     viewportW,
		ViewportH:     viewportH,
	}
}

// Resize updates the viewport dimensions.
func (p *Pass) Resize(viewportW, viewportH float64) {
	p.ViewportW = viewportW
	p.ViewportH = viewportH
}

// Render draws v with the pass settings. Returns the number of fills.
func (p *Pass) Render(v *buffer.View, cam *camera.Camera, s Surface) int {
	return Render(v, cam, p.ShapeExponent, p.ViewportW, p.ViewportH, s)
}

// Render clears the viewport, then fills one square per particle with side
// mass^(1/shapeExponent), placed by the camera transform. Squares with
// non-finite coordinates are skipped. Returns the number of fills.
func Render(v *buffer.View, cam *camera.Camera, shapeExponent, viewportW, viewportH float64, s Surface) int {
	s.ClearRect(0, 0, viewportW, viewportH)

	root := rootFunc(shapeExponent)
	fills := 0
	n := v.Len()
	for i := 0; i < n; i++ {
		r := root(v.Mass(i))
		sx, sy := cam.WorldToScreen(v.X(i), v.Y(i), r, viewportW, viewportH)
		if !finite(sx) || !finite(sy) || !finite(r) {
			continue
		}
		s.FillRect(sx, sy, r, r)
		fills++
	}
	return fills
}

// Radius returns the side length drawn for a particle of the given mass.
func Radius(mass, shapeExponent float64) float64 {
	return rootFunc(shapeExponent)(mass)
}

// rootFunc picks the root once per frame. Square and cube roots are exact
// for perfect powers, unlike math.Pow with a rounded reciprocal exponent.
func rootFunc(exp float64) func(float64) float64 {
	switch exp {
	case 1:
		return identity
	case 2:
		return math.Sqrt
	case 3:
		return math.Cbrt
	}
	inv := 1 / exp
	return func(m float64) float64 { return math.Pow(m, inv) }
}

func identity(x float64) float64 { return x }

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
