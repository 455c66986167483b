package integrators

import (
	"github.com/san-kum/starmaker/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Leapfrog is the kick-drift-kick scheme: half a velocity kick, a full
// position drift, then the second half kick. Both kicks use the
// acceleration sampled at the start of the step.
type Leapfrog struct{}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Name() string { return "leapfrog" }

func (l *Leapfrog) Advance(b *dynamo.Body, acc r2.Vec, dt float64) {
	b.Vel.X += acc.X * dt * 0.5
	b.Vel.Y += acc.Y * dt * 0.5

	b.Pos.X += b.Vel.X * dt
	b.Pos.Y += b.Vel.Y * dt

	b.Vel.X += acc.X * dt * 0.5
	b.Vel.Y += acc.Y * dt * 0.5
}
