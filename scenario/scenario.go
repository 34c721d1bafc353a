// Package scenario loads initial particles and seeds an engine with them.
// Scenarios are data only; nothing here generates initial conditions.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for scenario files that are neither YAML
// nor CSV.
var ErrUnsupportedFormat = errors.New("scenario: unsupported file format")

// Particle is one initial particle.
type Particle struct {
	Mass float64 `yaml:"mass" csv:"mass"`
	X    float64 `yaml:"x" csv:"x"`
	Y    float64 `yaml:"y" csv:"y"`
	VX   float64 `yaml:"vx" csv:"vx"`
	VY   float64 `yaml:"vy" csv:"vy"`
}

// Adder is the part of the engine boundary used for seeding.
type Adder interface {
	AddParticle(mass, x, y, vx, vy float64) error
}

// file is the YAML document layout.
type file struct {
	Particles []Particle `yaml:"particles"`
}

// Load reads particles from a .yaml/.yml file (a top-level particles list)
// or a .csv file with a mass,x,y,vx,vy header.
func Load(path string) ([]Particle, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading scenario: %w", err)
		}
		var doc file
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
		}
		return doc.Particles, nil

	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("reading scenario: %w", err)
		}
		defer f.Close()
		var ps []Particle
		if err := gocsv.UnmarshalFile(f, &ps); err != nil {
			return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
		}
		return ps, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Seed adds every particle to the engine in order and stops at the first
// rejection, reporting its index.
func Seed(e Adder, ps []Particle) error {
	for i, p := range ps {
		if err := e.AddParticle(p.Mass, p.X, p.Y, p.VX, p.VY); err != nil {
			return fmt.Errorf("seeding particle %d: %w", i, err)
		}
	}
	return nil
}

// Write saves particles as CSV, the format Load reads back.
func Write(path string, ps []Particle) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating scenario: %w", err)
	}
	if err := gocsv.MarshalFile(&ps, f); err != nil {
		f.Close()
		return fmt.Errorf("writing scenario: %w", err)
	}
	return f.Close()
}
