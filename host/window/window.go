// Package window runs the viewer in a raylib window.
package window

import (
	"context"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gravview/game"
	"github.com/pthm-cable/gravview/ui"
)

// Surface draws rectangles with raylib. Must be used between BeginDrawing
// and EndDrawing.
type Surface struct {
	fill, bg             rl.Color
	viewportW, viewportH float64
}

// NewSurface creates a surface for a viewport of the given size.
func NewSurface(fill, bg color.RGBA, vw, vh float64) *Surface {
	return &Surface{fill: fill, bg: bg, viewportW: vw, viewportH: vh}
}

// ClearRect paints the rectangle with the background color.
func (s *Surface) ClearRect(x, y, w, h float64) {
	rl.DrawRectangleRec(rect(x, y, w, h), s.bg)
}

// FillRect paints the rectangle with the fill color. Rectangles entirely
// outside the viewport are culled.
func (s *Surface) FillRect(x, y, w, h float64) {
	if x > s.viewportW || y > s.viewportH || x+w < 0 || y+h < 0 {
		return
	}
	rl.DrawRectangleRec(rect(x, y, w, h), s.fill)
}

// Resize updates the culling bounds.
func (s *Surface) Resize(vw, vh float64) {
	s.viewportW = vw
	s.viewportH = vh
}

func rect(x, y, w, h float64) rl.Rectangle {
	return rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(w), Height: float32(h)}
}

// Source drives one frame per raylib refresh until the window is closed.
// Key presses are read as characters at the top of each refresh, so they
// apply between frames.
type Source struct {
	Game    *game.Game
	Surface *Surface
	HUD     *ui.HUD
}

// Drive implements scheduler.RefreshSource.
func (src *Source) Drive(ctx context.Context, tick func()) error {
	for !rl.WindowShouldClose() {
		if err := ctx.Err(); err != nil {
			return err
		}

		for c := rl.GetCharPressed(); c != 0; c = rl.GetCharPressed() {
			src.Game.HandleKey(rune(c))
		}
		src.handleResize()

		rl.BeginDrawing()
		tick()
		src.HUD.Draw(src.Game.Status(), int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()))
		rl.EndDrawing()
	}
	return nil
}

// handleResize propagates window size changes to the render pass.
func (src *Source) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float64(rl.GetScreenWidth())
	h := float64(rl.GetScreenHeight())
	src.Game.Resize(w, h)
	src.Surface.Resize(w, h)
}

// Run opens the window, runs the session until it is closed, and closes it.
// opts.Surface is replaced by the window surface.
func Run(ctx context.Context, opts game.Options) error {
	cfg := opts.Config

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	surf := NewSurface(cfg.Derived.Fill, cfg.Derived.Background, cfg.Derived.ViewportW, cfg.Derived.ViewportH)
	opts.Surface = surf

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Close()

	src := &Source{
		Game:    g,
		Surface: surf,
		HUD:     ui.NewHUD(cfg.Screen.Title, g.Controls(), cfg.Derived.Status),
	}
	return g.Run(ctx, src)
}
