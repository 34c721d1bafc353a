package game

import (
	"fmt"

	"github.com/pthm-cable/gravview/config"
	"github.com/pthm-cable/gravview/engine"
	"github.com/pthm-cable/gravview/scenario"
)

// engineParams converts the engine section of the config.
func engineParams(c config.EngineConfig) engine.Params {
	return engine.Params{
		Gravity:                c.Gravity,
		Softening:              c.Softening,
		ApproximationThreshold: c.ApproximationThreshold,
		Substeps:               c.Substeps,
		MergeDistance:          c.MergeDistance,
		Workers:                c.Workers,
	}
}

// newEngine creates the engine and applies the approximation threshold
// through the boundary.
func newEngine(cfg *config.Config, factory engine.Factory) (engine.Engine, error) {
	if factory == nil {
		factory = engine.Create
	}
	eng, err := factory(engineParams(cfg.Engine))
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	eng.SetIntegrationApproximationThreshold(cfg.Engine.ApproximationThreshold)
	return eng, nil
}

// loadParticles returns the scenario file's particles when a path is set,
// otherwise the inline list.
func loadParticles(sc config.ScenarioConfig) ([]scenario.Particle, error) {
	if sc.Path == "" {
		return sc.Particles, nil
	}
	ps, err := scenario.Load(sc.Path)
	if err != nil {
		return nil, fmt.Errorf("loading scenario: %w", err)
	}
	return ps, nil
}
