package physics

import (
	"math"

	"github.com/san-kum/starmaker/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// CalculateRadius derives the physical radius from mass (kg) and density
// (g/cm³), and the on-screen radius as a sub-linear compression of it,
// clamped to [MinVisualRadius, MaxVisualRadius].
func CalculateRadius(mass, density float64) dynamo.Radius {
	densityKgM3 := density * 1000
	volume := mass / densityKgM3
	radius := math.Pow((3*volume)/(4*math.Pi), 1.0/3)

	relative := radius / EarthRadius
	visual := math.Max(MinVisualRadius, math.Min(MaxVisualRadius, BaseVisualRadius*math.Pow(relative, VisualRadiusExponent)))

	return dynamo.Radius{Actual: radius, Visual: visual}
}

// EscapeVelocity at a screen distance from body, in m/s.
func EscapeVelocity(body dynamo.Body, distance float64) float64 {
	actual := distance / ScaleFactor
	return math.Sqrt(2 * G * body.Mass / actual)
}

// OrbitalVelocity is the circular-orbit speed at a screen radius around
// central under the engine's own force law.
func OrbitalVelocity(central dynamo.Body, radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	m := central.Mass / EarthMass
	return math.Sqrt(GVisual * m / radius)
}

// SuggestOrbitalVelocity returns a counter-clockwise tangential velocity
// that puts a new body at target on a circular orbit around the most
// massive body. It is zero when there is no primary or target lies within
// MinOrbitDistance of it.
func SuggestOrbitalVelocity(bodies dynamo.Registry, target r2.Vec) r2.Vec {
	idx, ok := bodies.MostMassive()
	if !ok {
		return r2.Vec{}
	}
	central := bodies[idx]

	dx := target.X - central.Pos.X
	dy := target.Y - central.Pos.Y
	distance := math.Sqrt(dx*dx + dy*dy)
	if distance < MinOrbitDistance {
		return r2.Vec{}
	}

	speed := OrbitalVelocity(central, distance)
	return r2.Vec{X: (-dy / distance) * speed, Y: (dx / distance) * speed}
}

// Orbit fates reported by OrbitFate.
const (
	FateFall   = "will fall"
	FateStable = "stable orbit"
	FateEscape = "will escape"
)

// OrbitFate classifies a speed as a multiple of the local circular speed.
func OrbitFate(speed, orbitalSpeed float64) (multiplier float64, fate string) {
	if orbitalSpeed <= 0 {
		return 0, FateEscape
	}
	multiplier = speed / orbitalSpeed
	switch {
	case multiplier < 0.8:
		return multiplier, FateFall
	case multiplier > 1.2:
		return multiplier, FateEscape
	default:
		return multiplier, FateStable
	}
}
