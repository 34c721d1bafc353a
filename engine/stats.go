package engine

import "log/slog"

// Stats summarizes a reference universe.
type Stats struct {
	Particles int
	Advances  uint64
	Merges    uint64
	TotalMass float64
	MomentumX float64
	MomentumY float64
	Workers   int
}

// LogValue implements slog.LogValuer for structured logging.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("particles", s.Particles),
		slog.Uint64("advances", s.Advances),
		slog.Uint64("merges", s.Merges),
		slog.Float64("total_mass", s.TotalMass),
		slog.Float64("momentum_x", s.MomentumX),
		slog.Float64("momentum_y", s.MomentumY),
		slog.Int("workers", s.Workers),
	)
}
