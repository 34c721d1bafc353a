package game

import (
	"github.com/pthm-cable/gravview/engine"
	"github.com/pthm-cable/gravview/scheduler"
	"github.com/pthm-cable/gravview/telemetry"
)

// engineStatsSource is implemented by engines that expose lifetime counters.
type engineStatsSource interface {
	Stats() engine.Stats
}

// afterFrame updates the status readout and handles periodic stats logging
// and CSV output. A dropped frame keeps the last rendered particle count and
// is flagged in the readout.
func (g *Game) afterFrame(r scheduler.Report) {
	g.last = r
	if r.Dropped {
		g.status = telemetry.Status(g.particles, r.FPS) + " | frame dropped"
	} else {
		g.particles = r.Particles
		g.status = telemetry.Status(r.Particles, r.FPS)
	}

	tcfg := g.cfg.Telemetry
	if g.logStats && tcfg.LogInterval > 0 && r.Frame%uint64(tcfg.LogInterval) == 0 {
		r.FPS.LogStats()
		if s, ok := g.engine.(engineStatsSource); ok {
			g.logger.Info("engine", "stats", s.Stats())
		}
	}

	// Write to CSV if output manager is enabled
	if g.output != nil && (tcfg.FlushInterval <= 1 || r.Frame%uint64(tcfg.FlushInterval) == 0) {
		rec := telemetry.FrameRecord{
			Frame:     r.Frame,
			Particles: r.Particles,
			DT:        r.DT,
			Fills:     r.Fills,
			Dropped:   r.Dropped,
			FPS:       r.FPS.Latest,
			MeanFPS:   r.FPS.Mean,
			MinFPS:    r.FPS.Min,
			MaxFPS:    r.FPS.Max,
		}
		if err := g.output.WriteFrame(rec); err != nil {
			g.logger.Error("failed to write frame", "error", err)
		}
	}

	if g.onFrame != nil {
		g.onFrame(r)
	}
}
