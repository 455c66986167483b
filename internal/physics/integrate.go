package physics

import (
	"github.com/san-kum/starmaker/internal/dynamo"
	"github.com/san-kum/starmaker/internal/integrators"
	"gonum.org/v1/gonum/spatial/r2"
)

// Integrate advances every body by dt using its accumulated Force, then
// samples the new position into its trail.
func Integrate(reg dynamo.Registry, integ integrators.Integrator, dt float64) {
	for i := range reg {
		b := &reg[i]
		m := b.Mass / EarthMass
		acc := r2.Vec{X: b.Force.X / m, Y: b.Force.Y / m}

		integ.Advance(b, acc, dt)
		b.Trail = b.Trail.Record(b.Pos, TrailSampleEvery, MaxTrailLength)
	}
}
