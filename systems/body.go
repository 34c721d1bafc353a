package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gravview/components"
)

// Body is a working copy of one particle for the duration of an advance.
type Body struct {
	Entity ecs.Entity
	M      components.Mass
	Pos    components.Position
	Vel    components.Velocity
	Acc    components.Accel

	// Absorbed is set when the body has merged into another one.
	Absorbed bool
}
