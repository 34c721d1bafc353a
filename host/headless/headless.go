// Package headless runs the viewer against an in-memory raster. It is used for
// batch runs, CI and reproducible snapshots.
package headless

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pthm-cable/gravview/game"
	"github.com/pthm-cable/gravview/renderer"
	"github.com/pthm-cable/gravview/scheduler"
	"github.com/pthm-cable/gravview/telemetry"
)

// Options controls a headless run.
type Options struct {
	// Frames stops the run after N frames. Zero runs until ctx is done.
	Frames int
	// Paced ticks at the configured target fps instead of back to back.
	Paced bool
	// Deterministic drives frames from a manual clock advanced by one target
	// interval per frame, so fps readings and coupled steps are reproducible.
	Deterministic bool
	// Snapshot writes the final frame as PNG when set.
	Snapshot string
	// Report receives the end-of-run summary. Nil writes to stdout.
	Report io.Writer
}

// Result is what a headless run produced.
type Result struct {
	Summary   telemetry.Summary
	History   []float64 // latest fps after every measured frame
	Particles int
	Frames    uint64
}

// Run drives a session to completion and prints its report.
func Run(ctx context.Context, opts game.Options, ho Options) (Result, error) {
	cfg := opts.Config
	if cfg == nil {
		return Result{}, fmt.Errorf("headless: config is required")
	}
	surf := renderer.NewImageSurface(cfg.Screen.Width, cfg.Screen.Height, cfg.Derived.Fill, cfg.Derived.Background)
	opts.Surface = surf

	interval := scheduler.TickerForFPS(cfg.Screen.TargetFPS).Interval
	var clock *scheduler.ManualClock
	if ho.Deterministic {
		clock = scheduler.NewManualClock(time.Unix(0, 0))
		opts.Clock = clock
	}

	var res Result
	next := opts.OnFrame
	opts.OnFrame = func(r scheduler.Report) {
		if r.Err == nil && r.FPS.Count > 0 {
			res.History = append(res.History, r.FPS.Latest)
		}
		if clock != nil {
			clock.Advance(interval)
		}
		if next != nil {
			next(r)
		}
	}

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return Result{}, err
	}
	defer g.Close()

	var src scheduler.RefreshSource
	switch {
	case ho.Paced:
		src = scheduler.Ticker{Interval: interval, Limit: ho.Frames}
	case ho.Frames > 0:
		src = scheduler.Frames{N: ho.Frames}
	default:
		src = scheduler.SourceFunc(untilDone)
	}
	if err := g.Run(ctx, src); err != nil && ctx.Err() == nil {
		return Result{}, err
	}

	res.Particles = g.Engine().ParticleCount()
	res.Frames = g.LastReport().Frame
	res.Summary = telemetry.Summarize(res.History, g.Dropped())

	if ho.Snapshot != "" {
		if err := surf.WritePNG(ho.Snapshot); err != nil {
			return res, fmt.Errorf("writing snapshot: %w", err)
		}
	}

	w := ho.Report
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintln(w, FormatReport(res))
	return res, nil
}

func untilDone(ctx context.Context, tick func()) error {
	for ctx.Err() == nil {
		tick()
	}
	return ctx.Err()
}
