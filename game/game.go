// Package game wires the engine, camera, render pass, telemetry and frame
// scheduler into one runnable viewer. Hosts supply the surface, key events
// and refresh source.
package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/pthm-cable/gravview/camera"
	"github.com/pthm-cable/gravview/config"
	"github.com/pthm-cable/gravview/engine"
	"github.com/pthm-cable/gravview/input"
	"github.com/pthm-cable/gravview/renderer"
	"github.com/pthm-cable/gravview/scenario"
	"github.com/pthm-cable/gravview/scheduler"
	"github.com/pthm-cable/gravview/telemetry"
)

// Options holds configuration for game initialization.
type Options struct {
	Config  *config.Config
	Surface renderer.Surface

	// Factory creates the engine. Default engine.Create.
	Factory engine.Factory
	// Clock timestamps frames. Default scheduler.SystemClock.
	Clock scheduler.Clock
	// Particles replaces the configured scenario when non-nil.
	Particles []scenario.Particle

	LogStats  bool
	OutputDir string

	// OnFrame is called after every frame with its report.
	OnFrame func(scheduler.Report)
	Logger  *slog.Logger
}

// Game is one viewer session.
type Game struct {
	cfg        *config.Config
	engine     engine.Engine
	camera     *camera.Camera
	pass       *renderer.Pass
	fps        *telemetry.FPSWindow
	controller *input.Controller
	sched      *scheduler.Scheduler
	output     *telemetry.OutputManager
	logger     *slog.Logger

	logStats bool
	onFrame  func(scheduler.Report)
	last     scheduler.Report
	status   string
}

// NewGameWithOptions builds and seeds a session. Any seeding failure is
// returned; nothing is validated ahead of the engine.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("game: config is required")
	}
	if opts.Surface == nil {
		return nil, errors.New("game: surface is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	eng, err := newEngine(cfg, opts.Factory)
	if err != nil {
		return nil, err
	}

	particles := opts.Particles
	if particles == nil {
		particles, err = loadParticles(cfg.Scenario)
		if err != nil {
			closeEngine(eng)
			return nil, err
		}
	}
	if err := scenario.Seed(eng, particles); err != nil {
		closeEngine(eng)
		return nil, err
	}

	g := &Game{
		cfg:      cfg,
		engine:   eng,
		fps:      telemetry.NewFPSWindow(cfg.Telemetry.Window),
		pass:     renderer.NewPass(cfg.Render.ShapeExponent, cfg.Derived.ViewportW, cfg.Derived.ViewportH),
		logger:   logger,
		logStats: opts.LogStats,
		onFrame:  opts.OnFrame,
	}

	g.camera = camera.New(cfg.Camera.OffsetX, cfg.Camera.OffsetY, cfg.Camera.ZoomExponent)
	g.camera.MinRatioExp = cfg.Camera.MinRatioExp
	g.camera.MaxRatioExp = cfg.Camera.MaxRatioExp

	keys, err := input.ParseKeyMap(cfg.Input.Keys)
	if err != nil {
		closeEngine(eng)
		return nil, fmt.Errorf("input keys: %w", err)
	}
	g.controller = input.NewController(g.camera, keys, cfg.Camera.PanStep)

	stepper, err := scheduler.NewStepper(cfg.Scheduler.Stepping, cfg.Scheduler.DT, cfg.Scheduler.TimeScale, cfg.Scheduler.MaxDT)
	if err != nil {
		closeEngine(eng)
		return nil, err
	}

	g.output, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		closeEngine(eng)
		return nil, err
	}
	if err := g.output.WriteConfig(cfg); err != nil {
		logger.Error("failed to write config snapshot", "error", err)
	}

	g.sched, err = scheduler.New(scheduler.Options{
		Engine:   eng,
		Camera:   g.camera,
		Renderer: g.pass,
		Surface:  opts.Surface,
		FPS:      g.fps,
		Clock:    opts.Clock,
		Stepper:  stepper,
		Observer: g.afterFrame,
		Logger:   logger,
	})
	if err != nil {
		g.Close()
		return nil, err
	}

	logger.Info("session ready",
		"particles", eng.ParticleCount(),
		"stepping", cfg.Scheduler.Stepping,
		"dt", cfg.Scheduler.DT,
		"shape_exponent", cfg.Render.ShapeExponent,
		"output_dir", g.output.Dir(),
	)
	return g, nil
}

// Frame runs one scheduler frame.
func (g *Game) Frame() scheduler.Report {
	return g.sched.Frame()
}

// Run drives frames from src until it stops or ctx is done.
func (g *Game) Run(ctx context.Context, src scheduler.RefreshSource) error {
	return g.sched.Run(ctx, src)
}

// HandleKey applies a key press to the camera. Must be called on the
// goroutine that drives frames, between frames.
func (g *Game) HandleKey(r rune) bool {
	return g.controller.HandleKey(r)
}

// Resize updates the viewport used by the render pass.
func (g *Game) Resize(w, h float64) {
	g.pass.Resize(w, h)
}

// Status returns the readout for the most recent frame.
func (g *Game) Status() string {
	return g.status
}

// LastReport returns the most recent frame report.
func (g *Game) LastReport() scheduler.Report {
	return g.last
}

// Controls returns the key legend, e.g. "a: pan_left | d: pan_right".
func (g *Game) Controls() string {
	return g.controller.Keys().Legend()
}

// Engine returns the session engine.
func (g *Game) Engine() engine.Engine {
	return g.engine
}

// Dropped returns the number of dropped frames so far.
func (g *Game) Dropped() uint64 {
	return g.sched.Dropped()
}

// Config returns the session configuration.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Close flushes output and releases the engine.
func (g *Game) Close() error {
	var firstErr error
	if err := g.output.Close(); err != nil {
		firstErr = err
	}
	if err := closeEngine(g.engine); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func closeEngine(e engine.Engine) error {
	if c, ok := e.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
