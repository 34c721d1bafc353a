package systems

// Integrate advances every body by h with semi-implicit Euler:
// velocity is kicked by the current acceleration, then position drifts with
// the new velocity.
func Integrate(bodies []Body, h float64) {
	for i := range bodies {
		b := &bodies[i]
		b.Vel.X += b.Acc.X * h
		b.Vel.Y += b.Acc.Y * h
		b.Pos.X += b.Vel.X * h
		b.Pos.Y += b.Vel.Y * h
	}
}
