package dynamo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Radius pairs the physical radius in meters with the clamped on-screen
// radius in pixels.
type Radius struct {
	Actual float64
	Visual float64
}

// Body is a simulated point/sphere. Force is transient: it holds the net
// force of the most recent force phase and is never persisted.
type Body struct {
	ID      string
	Pos     r2.Vec
	Vel     r2.Vec
	Force   r2.Vec
	Mass    float64 // kg
	Density float64 // g/cm³
	Radius  Radius
	Color   Color
	Trail   Trail
}

// Clone returns a deep copy of the body.
func (b Body) Clone() Body {
	b.Trail = b.Trail.Clone()
	return b
}

// Speed is the velocity magnitude.
func (b Body) Speed() float64 {
	return r2.Norm(b.Vel)
}

// Momentum is mass times velocity.
func (b Body) Momentum() r2.Vec {
	return r2.Scale(b.Mass, b.Vel)
}

// Validate reports the first physical invariant the body violates.
func (b Body) Validate() error {
	if !(b.Mass > 0) {
		return ErrNonPositiveMass
	}
	if !(b.Density > 0) {
		return ErrNonPositiveDensity
	}
	for _, v := range []float64{b.Pos.X, b.Pos.Y, b.Vel.X, b.Vel.Y, b.Mass, b.Density} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidState
		}
	}
	return nil
}

// Registry is the ordered collection of live bodies. Order carries no
// physical meaning but fixes pair iteration and merge precedence.
type Registry []Body

// Clone deep-copies the registry, trails included.
func (r Registry) Clone() Registry {
	if r == nil {
		return nil
	}
	c := make(Registry, len(r))
	for i, b := range r {
		c[i] = b.Clone()
	}
	return c
}

// Validate checks every body and id uniqueness.
func (r Registry) Validate() error {
	seen := make(map[string]int, len(r))
	for i, b := range r {
		if err := b.Validate(); err != nil {
			return &BodyError{Index: i, ID: b.ID, Wrapped: err}
		}
		if _, dup := seen[b.ID]; dup {
			return &BodyError{Index: i, ID: b.ID, Wrapped: ErrDuplicateID}
		}
		seen[b.ID] = i
	}
	return nil
}

// IsValid is true when no position or velocity is NaN or Inf.
func (r Registry) IsValid() bool {
	for _, b := range r {
		for _, v := range []float64{b.Pos.X, b.Pos.Y, b.Vel.X, b.Vel.Y} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// IndexOf returns the position of the body with the given id, or -1.
func (r Registry) IndexOf(id string) int {
	for i := range r {
		if r[i].ID == id {
			return i
		}
	}
	return -1
}

// Remove returns a new registry without the body with the given id.
func (r Registry) Remove(id string) (Registry, bool) {
	i := r.IndexOf(id)
	if i < 0 {
		return r, false
	}
	out := make(Registry, 0, len(r)-1)
	out = append(out, r[:i]...)
	return append(out, r[i+1:]...), true
}

func (r Registry) TotalMass() float64 {
	total := 0.0
	for _, b := range r {
		total += b.Mass
	}
	return total
}

// Momentum is the vector sum of all body momenta.
func (r Registry) Momentum() r2.Vec {
	var p r2.Vec
	for _, b := range r {
		p = r2.Add(p, b.Momentum())
	}
	return p
}

// MostMassive returns the index of the heaviest body. Ties keep the
// earliest index.
func (r Registry) MostMassive() (int, bool) {
	idx, maxMass := -1, 0.0
	for i, b := range r {
		if b.Mass > maxMass {
			maxMass = b.Mass
			idx = i
		}
	}
	return idx, idx >= 0
}

// Interaction is one pairwise entry of the per-tick force table. Force acts
// on I and points toward J; J receives the exact negation.
type Interaction struct {
	I, J      int
	Force     r2.Vec
	Magnitude float64
}

// OrientedForce is an interaction seen from one participant.
type OrientedForce struct {
	Target    int
	Force     r2.Vec
	Magnitude float64
}

// ForcesOn lists the interactions acting on body i, each oriented for i.
func ForcesOn(table []Interaction, i int) []OrientedForce {
	var out []OrientedForce
	for _, in := range table {
		switch i {
		case in.I:
			out = append(out, OrientedForce{Target: in.J, Force: in.Force, Magnitude: in.Magnitude})
		case in.J:
			out = append(out, OrientedForce{Target: in.I, Force: r2.Vec{X: -in.Force.X, Y: -in.Force.Y}, Magnitude: in.Magnitude})
		}
	}
	return out
}

// Energy holds the system energy totals in joules.
type Energy struct {
	Kinetic   float64
	Potential float64
}

func (e Energy) Total() float64 {
	return e.Kinetic + e.Potential
}

// Merge records one collision product. Members index the post-integration
// registry, in absorption order; Members[0] is the absorbing body.
type Merge struct {
	ID      string
	Members []int
}

// StepResult is everything one engine tick produces.
type StepResult struct {
	Bodies       Registry
	Energy       Energy
	Interactions []Interaction
	Merges       []Merge
}
