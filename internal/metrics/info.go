package metrics

import (
	"fmt"

	"github.com/san-kum/starmaker/internal/dynamo"
	"github.com/san-kum/starmaker/internal/physics"
)

// EnergyUnit scales energies for display.
const EnergyUnit = 1e30 // J

// Info is the at-a-glance summary of a system.
type Info struct {
	Bodies    int
	TotalMass float64 // Earth masses
	Kinetic   float64 // 10³⁰ J
	Potential float64 // 10³⁰ J
}

func Summarize(reg dynamo.Registry, e dynamo.Energy) Info {
	return Info{
		Bodies:    len(reg),
		TotalMass: physics.EarthMasses(reg.TotalMass()),
		Kinetic:   e.Kinetic / EnergyUnit,
		Potential: e.Potential / EnergyUnit,
	}
}

// Lines renders the summary one stat per line.
func (i Info) Lines() []string {
	return []string{
		fmt.Sprintf("Planets: %d", i.Bodies),
		fmt.Sprintf("Total Mass: %.2f Earth Masses", i.TotalMass),
		fmt.Sprintf("Kinetic Energy: %.2f×10³⁰ J", i.Kinetic),
		fmt.Sprintf("Potential Energy: %.2f×10³⁰ J", i.Potential),
	}
}
