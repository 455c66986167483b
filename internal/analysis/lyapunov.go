package analysis

import (
	"math"

	"github.com/san-kum/starmaker/internal/dynamo"
	"github.com/san-kum/starmaker/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// Stepper advances a registry by one tick.
type Stepper interface {
	Step(reg dynamo.Registry, cfg physics.Config) dynamo.StepResult
}

// LyapunovExponent estimates the largest Lyapunov exponent of a system by
// displacing body index by d0 along x and following both copies for ticks
// ticks. The separation is the position distance summed over bodies
// descended from the same starting body in both copies, and is renormalized back to d0 whenever it
// exceeds 1. A positive value means nearby starts diverge exponentially.
func LyapunovExponent(s Stepper, reg dynamo.Registry, cfg physics.Config, index int, d0 float64, ticks int) float64 {
	if index < 0 || index >= len(reg) || d0 <= 0 || ticks <= 0 {
		return 0
	}

	x := reg.Clone()
	xp := reg.Clone()
	xp[index].Pos.X += d0
	lx, lp := newLineage(reg), newLineage(reg)

	sumLog := 0.0
	count := 0

	for i := 0; i < ticks; i++ {
		rx := s.Step(x, cfg)
		lx.follow(x, rx.Merges)
		x = rx.Bodies

		rp := s.Step(xp, cfg)
		lp.follow(xp, rp.Merges)
		xp = rp.Bodies

		pairs := matchBodies(reg, x, xp, lx, lp)
		sep := separation(x, xp, pairs)
		if sep > 0 {
			sumLog += math.Log(sep / d0)
			count++
		}

		if sep > 1.0 {
			rescale(x, xp, pairs, d0/sep)
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * physics.TimeStep)
}

func separation(a, b dynamo.Registry, pairs []pair) float64 {
	sum := 0.0
	for _, p := range pairs {
		d := r2.Sub(b[p.pert].Pos, a[p.ref].Pos)
		sum += r2.Dot(d, d)
	}
	return math.Sqrt(sum)
}

func rescale(ref, pert dynamo.Registry, pairs []pair, scale float64) {
	for _, p := range pairs {
		d := r2.Sub(pert[p.pert].Pos, ref[p.ref].Pos)
		pert[p.pert].Pos = r2.Add(ref[p.ref].Pos, r2.Scale(scale, d))
	}
}
