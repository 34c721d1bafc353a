// Package config provides configuration loading and access for the viewer.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/gravview/camera"
	"github.com/pthm-cable/gravview/scenario"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// Stepping modes for the frame scheduler.
const (
	SteppingFixed   = "fixed"
	SteppingCoupled = "coupled"
)

// Config holds all viewer configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Render    RenderConfig    `yaml:"render"`
	Camera    CameraConfig    `yaml:"camera"`
	Input     InputConfig     `yaml:"input"`
	Engine    EngineConfig    `yaml:"engine"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Scenario  ScenarioConfig  `yaml:"scenario"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// RGBA is a color as four 0-255 channels.
type RGBA struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
	A uint8 `yaml:"a"`
}

// RenderConfig holds particle drawing parameters.
type RenderConfig struct {
	ShapeExponent float64 `yaml:"shape_exponent"` // side = mass^(1/shape_exponent)
	Fill          RGBA    `yaml:"fill"`
	Background    RGBA    `yaml:"background"`
	Status        RGBA    `yaml:"status"` // Status text color
}

// CameraConfig holds the initial view and pan/zoom parameters.
type CameraConfig struct {
	OffsetX      float64 `yaml:"offset_x"`
	OffsetY      float64 `yaml:"offset_y"`
	ZoomExponent int     `yaml:"zoom_exponent"`
	PanStep      float64 `yaml:"pan_step"`      // Screen units per key press
	MinRatioExp  int     `yaml:"min_ratio_exp"` // Drawing ratio clamp, 2^min
	MaxRatioExp  int     `yaml:"max_ratio_exp"` // Drawing ratio clamp, 2^max
}

// InputConfig maps single-character keys to action names.
type InputConfig struct {
	Keys map[string]string `yaml:"keys"`
}

// EngineConfig holds reference engine parameters.
type EngineConfig struct {
	Gravity                float64 `yaml:"gravity"`
	Softening              float64 `yaml:"softening"`
	ApproximationThreshold float64 `yaml:"approximation_threshold"`
	Substeps               int     `yaml:"substeps"`
	MergeDistance          float64 `yaml:"merge_distance"`
	Workers                int     `yaml:"workers"` // 0 = GOMAXPROCS
}

// SchedulerConfig holds frame stepping parameters.
type SchedulerConfig struct {
	Stepping  string  `yaml:"stepping"`   // fixed or coupled
	DT        float64 `yaml:"dt"`         // Fixed step per frame
	TimeScale float64 `yaml:"time_scale"` // Coupled: simulated time per wall second
	MaxDT     float64 `yaml:"max_dt"`     // Coupled: cap on one frame's step
}

// TelemetryConfig holds frame-rate instrumentation parameters.
type TelemetryConfig struct {
	Window        int `yaml:"window"`         // FPS samples retained
	LogInterval   int `yaml:"log_interval"`   // Frames between stats log lines (0 = off)
	FlushInterval int `yaml:"flush_interval"` // Frames between CSV rows (0 = every frame)
}

// ScenarioConfig provides the initial particles.
type ScenarioConfig struct {
	Path      string              `yaml:"path"` // .yaml/.yml/.csv file; overrides Particles
	Particles []scenario.Particle `yaml:"particles"`
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	Fill       color.RGBA
	Background color.RGBA
	Status     color.RGBA
	ViewportW  float64
	ViewportH  float64
}

// global holds the process configuration set by Init.
var global *Config

// Init loads configuration from path (empty = defaults only) and makes it
// available through Cfg.
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the configuration set by Init.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load reads configuration from a YAML file, merging with embedded defaults.
// If path is empty, returns defaults only.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Screen.Width <= 0 || c.Screen.Height <= 0:
		return fmt.Errorf("%w: screen size %dx%d", ErrInvalid, c.Screen.Width, c.Screen.Height)
	case !(c.Render.ShapeExponent > 0) || math.IsInf(c.Render.ShapeExponent, 0):
		return fmt.Errorf("%w: render.shape_exponent %v", ErrInvalid, c.Render.ShapeExponent)
	case c.Camera.MinRatioExp > c.Camera.MaxRatioExp,
		c.Camera.MinRatioExp < -camera.RatioExpLimit,
		c.Camera.MaxRatioExp > camera.RatioExpLimit:
		return fmt.Errorf("%w: camera ratio clamp [%d, %d] (limit ±%d)", ErrInvalid,
			c.Camera.MinRatioExp, c.Camera.MaxRatioExp, camera.RatioExpLimit)
	case c.Telemetry.Window < 1:
		return fmt.Errorf("%w: telemetry.window %d", ErrInvalid, c.Telemetry.Window)
	case c.Engine.Substeps < 1:
		return fmt.Errorf("%w: engine.substeps %d", ErrInvalid, c.Engine.Substeps)
	}

	switch c.Scheduler.Stepping {
	case SteppingFixed:
		if !(c.Scheduler.DT > 0) || math.IsInf(c.Scheduler.DT, 0) {
			return fmt.Errorf("%w: scheduler.dt %v", ErrInvalid, c.Scheduler.DT)
		}
	case SteppingCoupled:
		if !(c.Scheduler.TimeScale > 0) || !(c.Scheduler.MaxDT > 0) {
			return fmt.Errorf("%w: scheduler time_scale %v max_dt %v", ErrInvalid, c.Scheduler.TimeScale, c.Scheduler.MaxDT)
		}
	default:
		return fmt.Errorf("%w: scheduler.stepping %q", ErrInvalid, c.Scheduler.Stepping)
	}

	for key := range c.Input.Keys {
		if len([]rune(key)) != 1 {
			return fmt.Errorf("%w: input key %q must be a single character", ErrInvalid, key)
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Fill = c.Render.Fill.RGBA()
	c.Derived.Background = c.Render.Background.RGBA()
	c.Derived.Status = c.Render.Status.RGBA()
	c.Derived.ViewportW = float64(c.Screen.Width)
	c.Derived.ViewportH = float64(c.Screen.Height)
}

// RGBA converts to the image/color type.
func (c RGBA) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
