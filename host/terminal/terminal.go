// Package terminal runs the viewer in a terminal using tcell. The viewport
// is scaled onto the character grid; the bottom row shows the status line.
package terminal

import (
	"context"
	"image/color"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/gravview/game"
	"github.com/pthm-cable/gravview/scheduler"
)

// particleRune is drawn for every covered cell.
const particleRune = '█'

// Surface draws viewport rectangles onto terminal cells.
type Surface struct {
	screen     tcell.Screen
	viewportW  float64
	viewportH  float64
	cols, rows int // drawable area; the status row is excluded
	fill, bg   tcell.Style
}

// NewSurface creates a surface over screen for a viewport of vw×vh units.
func NewSurface(screen tcell.Screen, vw, vh float64, fill, bg color.RGBA) *Surface {
	s := &Surface{
		screen:    screen,
		viewportW: vw,
		viewportH: vh,
		fill:      tcell.StyleDefault.Foreground(rgb(fill)).Background(rgb(bg)),
		bg:        tcell.StyleDefault.Background(rgb(bg)),
	}
	s.Resize()
	return s
}

// Resize re-reads the terminal size.
func (s *Surface) Resize() {
	w, h := s.screen.Size()
	s.cols = w
	s.rows = max(h-1, 0)
}

// ClearRect blanks the cells covering the rectangle.
func (s *Surface) ClearRect(x, y, w, h float64) {
	s.paint(x, y, w, h, ' ', s.bg)
}

// FillRect fills the cells covering the rectangle. Rectangles smaller than a
// cell still mark the cell they start in.
func (s *Surface) FillRect(x, y, w, h float64) {
	s.paint(x, y, w, h, particleRune, s.fill)
}

func (s *Surface) paint(x, y, w, h float64, r rune, style tcell.Style) {
	if s.cols == 0 || s.rows == 0 {
		return
	}
	cols, rows := float64(s.cols), float64(s.rows)

	c0 := cell(math.Floor(x * cols / s.viewportW))
	r0 := cell(math.Floor(y * rows / s.viewportH))
	c1 := max(cell(math.Ceil((x+w)*cols/s.viewportW)), c0+1)
	r1 := max(cell(math.Ceil((y+h)*rows/s.viewportH)), r0+1)

	c0, c1 = max(c0, 0), min(c1, s.cols)
	r0, r1 = max(r0, 0), min(r1, s.rows)
	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			s.screen.SetContent(col, row, r, nil, style)
		}
	}
}

// DrawStatus writes text on the bottom row.
func (s *Surface) DrawStatus(text string, style tcell.Style) {
	w, h := s.screen.Size()
	if h == 0 {
		return
	}
	col := 0
	for _, r := range text {
		if col >= w {
			break
		}
		s.screen.SetContent(col, h-1, r, nil, style)
		col++
	}
	for ; col < w; col++ {
		s.screen.SetContent(col, h-1, ' ', nil, style)
	}
}

// cell saturates a cell coordinate so far-off rectangles clip cleanly.
func cell(v float64) int {
	const lim = 1 << 30
	return int(math.Max(-lim, math.Min(lim, v)))
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Source paces frames with a ticker and feeds key events to the game on the
// same goroutine. Esc or Ctrl+C stops it.
type Source struct {
	Screen   tcell.Screen
	Surface  *Surface
	Game     *game.Game
	Interval time.Duration
	Status   tcell.Style
}

// Drive implements scheduler.RefreshSource.
func (src *Source) Drive(ctx context.Context, tick func()) error {
	ticker := time.NewTicker(src.Interval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := src.Screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-events:
			if !src.handleEvent(ev) {
				return nil
			}

		case <-ticker.C:
			tick()
			src.Surface.DrawStatus(src.Game.Status(), src.Status)
			src.Screen.Show()
		}
	}
}

// handleEvent returns false when the user asked to quit.
func (src *Source) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			src.Game.HandleKey(ev.Rune())
		}

	case *tcell.EventResize:
		src.Surface.Resize()
		src.Screen.Sync()
	}
	return true
}

// Run opens the terminal, runs the session until quit, and restores the
// terminal. opts.Surface is replaced by the terminal surface.
func Run(ctx context.Context, opts game.Options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	cfg := opts.Config
	surf := NewSurface(screen, cfg.Derived.ViewportW, cfg.Derived.ViewportH, cfg.Derived.Fill, cfg.Derived.Background)
	opts.Surface = surf

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Close()

	src := &Source{
		Screen:   screen,
		Surface:  surf,
		Game:     g,
		Interval: scheduler.TickerForFPS(cfg.Screen.TargetFPS).Interval,
		Status:   tcell.StyleDefault.Foreground(rgb(cfg.Derived.Status)).Background(rgb(cfg.Derived.Background)),
	}
	return g.Run(ctx, src)
}
