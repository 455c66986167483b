package analysis

import (
	"github.com/google/uuid"
	"github.com/san-kum/starmaker/internal/dynamo"
	"github.com/san-kum/starmaker/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// SweepPoint is the outcome of one launch speed.
type SweepPoint struct {
	Multiplier float64
	Fate       string
	Periapsis  float64
	Apoapsis   float64
	Merged     bool
}

// SpeedSweep launches a test body at distance from the most massive body of
// reg with speeds from lo to hi times the local circular speed, runs each
// for ticks ticks and records the extremes of its distance to the primary.
// The primary is followed through its merges with other bodies; a test
// body that merges ends its run early.
func SpeedSweep(s Stepper, reg dynamo.Registry, cfg physics.Config, distance, lo, hi float64, steps, ticks int) []SweepPoint {
	idx, ok := reg.MostMassive()
	if !ok || steps < 1 {
		return nil
	}
	central := reg[idx]
	circular := physics.OrbitalVelocity(central, distance)

	if steps == 1 {
		hi = lo
	}
	points := make([]SweepPoint, 0, steps)
	tracerID := uuid.NewString()

	for i := 0; i < steps; i++ {
		k := lo
		if steps > 1 {
			k = lo + (hi-lo)*float64(i)/float64(steps-1)
		}

		tracer, err := physics.NewBody(physics.BodySpec{
			ID:      tracerID,
			Pos:     r2.Vec{X: central.Pos.X + distance, Y: central.Pos.Y},
			Vel:     r2.Vec{X: central.Vel.X, Y: central.Vel.Y + circular*k},
			Mass:    physics.EarthMass * 1e-3,
			Density: 3,
			Color:   "#ffffff",
		})
		if err != nil {
			return points
		}

		_, fate := physics.OrbitFate(circular*k, circular)
		pt := SweepPoint{Multiplier: k, Fate: fate, Periapsis: distance, Apoapsis: distance}

		bodies := append(reg.Clone(), tracer)
		primary := central.ID
		for t := 0; t < ticks; t++ {
			res := s.Step(bodies, cfg)
			if _, ok := mergedInto(bodies, res.Merges, tracerID); ok {
				pt.Merged = true
				break
			}
			if id, ok := mergedInto(bodies, res.Merges, primary); ok {
				primary = id
			}
			bodies = res.Bodies
			p, c := bodies.IndexOf(tracerID), bodies.IndexOf(primary)
			if p < 0 || c < 0 {
				break
			}
			r := r2.Norm(r2.Sub(bodies[p].Pos, bodies[c].Pos))
			if r < pt.Periapsis {
				pt.Periapsis = r
			}
			if r > pt.Apoapsis {
				pt.Apoapsis = r
			}
		}
		points = append(points, pt)
	}

	return points
}
