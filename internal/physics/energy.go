package physics

import (
	"math"

	"github.com/san-kum/starmaker/internal/dynamo"
)

// SystemEnergy returns total kinetic energy and pairwise potential energy.
// Potential uses the physical G over scaled distance; coincident pairs are
// skipped rather than contributing an infinite term.
func SystemEnergy(reg dynamo.Registry) dynamo.Energy {
	var e dynamo.Energy

	for _, b := range reg {
		v := math.Sqrt(b.Vel.X*b.Vel.X + b.Vel.Y*b.Vel.Y)
		e.Kinetic += 0.5 * b.Mass * v * v
	}

	for i := 0; i < len(reg); i++ {
		for j := i + 1; j < len(reg); j++ {
			dx := reg[j].Pos.X - reg[i].Pos.X
			dy := reg[j].Pos.Y - reg[i].Pos.Y
			distance := math.Sqrt(dx*dx + dy*dy)
			if distance == 0 {
				continue
			}
			e.Potential -= G * reg[i].Mass * reg[j].Mass / (distance / ScaleFactor)
		}
	}

	return e
}
