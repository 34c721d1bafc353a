package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
)

// ImageSurface is a raster Surface for headless rendering and snapshots.
// One surface unit maps to one pixel.
type ImageSurface struct {
	Img        *image.RGBA
	Fill       color.RGBA
	Background color.RGBA

	fill, bg image.Uniform
}

// NewImageSurface allocates a w×h surface.
func NewImageSurface(w, h int, fill, background color.RGBA) *ImageSurface {
	s := &ImageSurface{
		Img:        image.NewRGBA(image.Rect(0, 0, w, h)),
		Fill:       fill,
		Background: background,
	}
	s.fill.C = fill
	s.bg.C = background
	return s
}

// ClearRect paints the rectangle with the background color.
func (s *ImageSurface) ClearRect(x, y, w, h float64) {
	draw.Draw(s.Img, pixelRect(x, y, w, h), &s.bg, image.Point{}, draw.Src)
}

// FillRect paints the rectangle with the fill color. Rectangles smaller than
// a pixel still cover the pixel they start in.
func (s *ImageSurface) FillRect(x, y, w, h float64) {
	r := pixelRect(x, y, w, h)
	if r.Empty() {
		px, py := int(math.Floor(x)), int(math.Floor(y))
		r = image.Rect(px, py, px+1, py+1)
	}
	draw.Draw(s.Img, r, &s.fill, image.Point{}, draw.Src)
}

// Filled reports whether the pixel at (x, y) has the fill color.
func (s *ImageSurface) Filled(x, y int) bool {
	return s.Img.RGBAAt(x, y) == s.Fill
}

// WritePNG encodes the current surface to path.
func (s *ImageSurface) WritePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	if err := png.Encode(f, s.Img); err != nil {
		f.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return f.Close()
}

// pixelRect converts a float rectangle to the pixels it covers.
// Coordinates beyond the int range are saturated; draw.Draw clips to bounds.
func pixelRect(x, y, w, h float64) image.Rectangle {
	return image.Rect(sat(math.Floor(x)), sat(math.Floor(y)), sat(math.Ceil(x+w)), sat(math.Ceil(y+h)))
}

func sat(v float64) int {
	const lim = 1 << 30
	if v > lim {
		return lim
	}
	if v < -lim {
		return -lim
	}
	return int(v)
}
