// Package scheduler drives one simulation step and one render per display
// refresh, in a fixed order, on a single goroutine.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/gravview/buffer"
	"github.com/pthm-cable/gravview/camera"
	"github.com/pthm-cable/gravview/renderer"
	"github.com/pthm-cable/gravview/telemetry"
)

var (
	// ErrFramePanic wraps a panic recovered from inside a frame.
	ErrFramePanic = errors.New("scheduler: panic during frame")

	// ErrReentrant is reported when a tick arrives while a frame is running.
	ErrReentrant = errors.New("scheduler: frame already in progress")
)

// Engine is what the scheduler needs from the simulation.
type Engine interface {
	buffer.Source
	Advance(dt float64) error
}

// Renderer draws one view.
type Renderer interface {
	Render(v *buffer.View, cam *camera.Camera, s renderer.Surface) int
}

// Report describes one completed or dropped frame.
type Report struct {
	Frame     uint64
	Particles int
	DT        float64
	Fills     int
	Dropped   bool
	Err       error
	FPS       telemetry.FPSStats
}

// Options configures a Scheduler. Engine, Camera, Renderer, Surface and FPS
// are required.
type Options struct {
	Engine   Engine
	Camera   *camera.Camera
	Renderer Renderer
	Surface  renderer.Surface
	FPS      *telemetry.FPSWindow
	Clock    Clock        // Default SystemClock
	Stepper  Stepper      // Default FixedStep{DT: 1}
	Observer func(Report) // Called after every frame, dropped or not
	Logger   *slog.Logger // Default slog.Default()
}

// Scheduler runs frames. Each frame is, in order: sample the frame rate,
// advance the engine, borrow a buffer view, render it. A failure or panic in
// any step drops that frame only.
type Scheduler struct {
	engine   Engine
	cam      *camera.Camera
	render   Renderer
	surface  renderer.Surface
	fps      *telemetry.FPSWindow
	clock    Clock
	stepper  Stepper
	observer func(Report)
	logger   *slog.Logger

	views    buffer.Manager
	renderFn func(*buffer.View) error
	current  Report
	frame    uint64
	dropped  uint64
	inFrame  bool
}

// New creates a scheduler.
func New(o Options) (*Scheduler, error) {
	switch {
	case o.Engine == nil:
		return nil, errors.New("scheduler: engine is required")
	case o.Camera == nil:
		return nil, errors.New("scheduler: camera is required")
	case o.Renderer == nil:
		return nil, errors.New("scheduler: renderer is required")
	case o.Surface == nil:
		return nil, errors.New("scheduler: surface is required")
	case o.FPS == nil:
		return nil, errors.New("scheduler: fps window is required")
	}
	if o.Clock == nil {
		o.Clock = SystemClock{}
	}
	if o.Stepper == nil {
		o.Stepper = FixedStep{DT: 1}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	s := &Scheduler{
		engine:   o.Engine,
		cam:      o.Camera,
		render:   o.Renderer,
		surface:  o.Surface,
		fps:      o.FPS,
		clock:    o.Clock,
		stepper:  o.Stepper,
		observer: o.Observer,
		logger:   o.Logger,
	}
	s.renderFn = s.renderView
	return s, nil
}

// Run drives frames from src until it stops or ctx is done.
func (s *Scheduler) Run(ctx context.Context, src RefreshSource) error {
	return src.Drive(ctx, s.tick)
}

func (s *Scheduler) tick() {
	s.Frame()
}

// Frame runs one frame and returns its report.
func (s *Scheduler) Frame() Report {
	if s.inFrame {
		s.logger.Warn("tick skipped", "frame", s.frame, "error", ErrReentrant)
		return Report{Frame: s.frame, Dropped: true, Err: ErrReentrant}
	}
	s.inFrame = true
	defer func() { s.inFrame = false }()

	s.frame++
	s.current = Report{Frame: s.frame}

	if err := s.step(); err != nil {
		s.dropped++
		s.current.Dropped = true
		s.current.Err = err
		s.logger.Warn("frame dropped", "frame", s.frame, "error", err)
	}
	s.current.FPS = s.fps.Stats()
	s.notify(s.current)
	return s.current
}

// step runs the ordered frame body, converting panics to errors.
func (s *Scheduler) step() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrFramePanic, r)
		}
	}()

	now := s.clock.Now()
	s.fps.Sample(now)

	dt := s.stepper.Step(now)
	s.current.DT = dt
	if err := s.engine.Advance(dt); err != nil {
		return fmt.Errorf("advancing engine: %w", err)
	}

	return s.views.Borrow(s.engine, s.renderFn)
}

func (s *Scheduler) renderView(v *buffer.View) error {
	s.current.Particles = v.Len()
	s.current.Fills = s.render.Render(v, s.cam, s.surface)
	return nil
}

func (s *Scheduler) notify(r Report) {
	if s.observer == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("frame observer panicked", "frame", r.Frame, "panic", p)
		}
	}()
	s.observer(r)
}

// Frames returns the number of frames run, including dropped ones.
func (s *Scheduler) Frames() uint64 { return s.frame }

// Dropped returns the number of dropped frames.
func (s *Scheduler) Dropped() uint64 { return s.dropped }
