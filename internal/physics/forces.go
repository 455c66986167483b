package physics

import (
	"math"

	"github.com/san-kum/starmaker/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// pairForce returns the force on a exerted by b. Overlapping bodies and
// degenerate distances yield zero.
func pairForce(a, b *dynamo.Body) (r2.Vec, float64) {
	dx := b.Pos.X - a.Pos.X
	dy := b.Pos.Y - a.Pos.Y
	distance := math.Sqrt(dx*dx + dy*dy)

	if distance < a.Radius.Visual+b.Radius.Visual || distance < MinForceDistance {
		return r2.Vec{}, 0
	}

	m1 := a.Mass / EarthMass
	m2 := b.Mass / EarthMass
	f := GVisual * m1 * m2 / (distance * distance)

	return r2.Vec{X: f * (dx / distance), Y: f * (dy / distance)}, f
}

// AccumulateForces resets every body's Force and sums the pairwise
// attraction into it, returning one Interaction per unordered pair in
// row-major order. With workers > 1 and at least ParallelThreshold bodies
// the pair forces are evaluated concurrently; the summation order is the
// same either way, so both paths produce identical results.
func AccumulateForces(reg dynamo.Registry, workers int) []dynamo.Interaction {
	n := len(reg)
	for i := range reg {
		reg[i].Force = r2.Vec{}
	}
	if n < 2 {
		return nil
	}

	table := make([]dynamo.Interaction, dynamo.PairCount(n))

	row := func(i int) {
		k := dynamo.PairIndex(i, i+1, n)
		for j := i + 1; j < n; j++ {
			f, mag := pairForce(&reg[i], &reg[j])
			table[k] = dynamo.Interaction{I: i, J: j, Force: f, Magnitude: mag}
			k++
		}
	}

	if workers > 1 && n >= ParallelThreshold {
		dynamo.ParallelFor(n-1, 1, workers, func(start, end int) {
			for i := start; i < end; i++ {
				row(i)
			}
		})
	} else {
		for i := 0; i < n-1; i++ {
			row(i)
		}
	}

	for _, in := range table {
		a, b := &reg[in.I], &reg[in.J]
		a.Force.X += in.Force.X
		a.Force.Y += in.Force.Y
		b.Force.X -= in.Force.X
		b.Force.Y -= in.Force.Y
	}

	return table
}
