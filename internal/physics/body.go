package physics

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/san-kum/starmaker/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Defaults applied by NewBody to zero-valued spec fields.
const (
	DefaultDensity = 5.5
	DefaultColor   = "#4a90e2"
)

// BodySpec describes a body to create. Zero Mass, Density and Color take
// the defaults; an empty ID gets a random one.
type BodySpec struct {
	ID      string
	Pos     r2.Vec
	Vel     r2.Vec
	Mass    float64 // kg
	Density float64 // g/cm³
	Color   string
}

// NewBody builds a validated body with its radius derived from mass and
// density.
func NewBody(spec BodySpec) (dynamo.Body, error) {
	if spec.Mass == 0 {
		spec.Mass = EarthMass
	}
	if spec.Density == 0 {
		spec.Density = DefaultDensity
	}
	if spec.Color == "" {
		spec.Color = DefaultColor
	}
	if spec.ID == "" {
		spec.ID = uuid.NewString()
	}

	color, err := dynamo.ParseColor(spec.Color)
	if err != nil {
		return dynamo.Body{}, err
	}

	b := dynamo.Body{
		ID:      spec.ID,
		Pos:     spec.Pos,
		Vel:     spec.Vel,
		Mass:    spec.Mass,
		Density: spec.Density,
		Color:   color,
	}
	if err := b.Validate(); err != nil {
		return dynamo.Body{}, fmt.Errorf("new body %s: %w", spec.ID, err)
	}
	b.Radius = CalculateRadius(b.Mass, b.Density)
	return b, nil
}

// InitialVelocity picks the launch velocity for a body placed at pos with a
// user-entered speed value. A zero value asks for the suggested circular
// orbit. Otherwise the speed is tangential around the most massive body:
// in orbital units value/10 is a multiple of the local circular speed, in
// other units the converted speed is scaled down by 1000. Placements within
// 10 units of the primary get a small horizontal push, and an empty system
// a much smaller one.
func InitialVelocity(reg dynamo.Registry, pos r2.Vec, value float64, unit VelocityUnit) r2.Vec {
	if value <= 0 {
		return SuggestOrbitalVelocity(reg, pos)
	}

	idx, ok := reg.MostMassive()
	if !ok {
		return r2.Vec{X: ConvertVelocity(value, unit) * 0.0001}
	}
	central := reg[idx]

	dx := pos.X - central.Pos.X
	dy := pos.Y - central.Pos.Y
	distance := math.Sqrt(dx*dx + dy*dy)
	if distance <= 10 {
		return r2.Vec{X: value * 0.1}
	}

	var speed float64
	if unit == VelocityOrbital {
		speed = OrbitalVelocity(central, distance) * (value / 10)
	} else {
		speed = ConvertVelocity(value, unit) * 0.001
	}
	return r2.Vec{X: (-dy / distance) * speed, Y: (dx / distance) * speed}
}

// PlaceBody creates a body at pos and appends it to a copy of reg, with its
// velocity chosen by InitialVelocity.
func PlaceBody(reg dynamo.Registry, spec BodySpec, value float64, unit VelocityUnit) (dynamo.Registry, dynamo.Body, error) {
	spec.Vel = InitialVelocity(reg, spec.Pos, value, unit)
	b, err := NewBody(spec)
	if err != nil {
		return reg, dynamo.Body{}, err
	}
	if reg.IndexOf(b.ID) >= 0 {
		return reg, dynamo.Body{}, &dynamo.BodyError{Index: len(reg), ID: b.ID, Wrapped: dynamo.ErrDuplicateID}
	}
	out := append(reg.Clone(), b)
	return out, b, nil
}
