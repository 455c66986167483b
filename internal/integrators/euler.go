package integrators

import (
	"github.com/san-kum/starmaker/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Euler moves with the old velocity, then kicks. It drifts in energy and
// exists for comparison runs.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Advance(b *dynamo.Body, acc r2.Vec, dt float64) {
	b.Pos = r2.Add(b.Pos, r2.Scale(dt, b.Vel))
	b.Vel = r2.Add(b.Vel, r2.Scale(dt, acc))
}

// SymplecticEuler kicks first and then drifts with the new velocity.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (s *SymplecticEuler) Name() string { return "symplectic" }

func (s *SymplecticEuler) Advance(b *dynamo.Body, acc r2.Vec, dt float64) {
	b.Vel = r2.Add(b.Vel, r2.Scale(dt, acc))
	b.Pos = r2.Add(b.Pos, r2.Scale(dt, b.Vel))
}
