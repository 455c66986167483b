package scenario

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/starmaker/internal/dynamo"
	"github.com/san-kum/starmaker/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// Solar places Mercury through Mars at circular-orbit speed around a Sun
// at the canvas center. Orbit radii scale with the smaller canvas side.
func Solar(width, height float64, _ *rand.Rand) (dynamo.Registry, error) {
	center := r2.Vec{X: width / 2, Y: height / 2}
	scale := math.Min(width, height) / 800

	sun, err := body{id: "sun", pos: center, earthMasses: 333000, density: 1.41, color: "#FDB813"}.build()
	if err != nil {
		return nil, err
	}

	planets := []struct {
		id       string
		distance float64
		mass     float64
		density  float64
		color    string
	}{
		{"mercury", 60, 0.055, 5.43, "#8C7853"},
		{"venus", 90, 0.815, 5.24, "#FFC649"},
		{"earth", 120, 1.0, 5.51, "#6B93D6"},
		{"mars", 160, 0.107, 3.93, "#CD5C5C"},
	}

	specs := make([]body, 0, len(planets))
	for _, p := range planets {
		d := p.distance * scale
		specs = append(specs, body{
			id:          p.id,
			pos:         r2.Vec{X: center.X + d, Y: center.Y},
			vel:         r2.Vec{Y: physics.OrbitalVelocity(sun, d)},
			earthMasses: p.mass,
			density:     p.density,
			color:       p.color,
		})
	}

	rest, err := assemble(specs)
	if err != nil {
		return nil, err
	}
	return append(dynamo.Registry{sun}, rest...), nil
}

// Binary sets two equal stars 100 units apart moving in opposite
// directions.
func Binary(width, height float64, _ *rand.Rand) (dynamo.Registry, error) {
	const (
		separation = 100.0
		speed      = 15.0
	)
	cx, cy := width/2, height/2

	return assemble([]body{
		{id: "star1", pos: r2.Vec{X: cx - separation/2, Y: cy}, vel: r2.Vec{Y: speed}, earthMasses: 50000, density: 1.0, color: "#FF6B6B"},
		{id: "star2", pos: r2.Vec{X: cx + separation/2, Y: cy}, vel: r2.Vec{Y: -speed}, earthMasses: 50000, density: 1.0, color: "#4ECDC4"},
	})
}

// physicalOrbitSpeed is the circular speed from the real G over scaled
// distance, in km/s. Randomized presets use it as their speed scale.
func physicalOrbitSpeed(mass, radius float64) float64 {
	return math.Sqrt(physics.G*mass/(radius/physics.ScaleFactor)) * 1e-3
}

func Asteroid(width, height float64, rng *rand.Rand) (dynamo.Registry, error) {
	const count = 15
	cx, cy := width/2, height/2

	star := body{id: "central-star", pos: r2.Vec{X: cx, Y: cy}, earthMasses: 100000, density: 2.0, color: "#FFD700"}
	starMass := physics.ConvertMass(star.earthMasses, physics.MassEarth)
	specs := []body{star}

	for i := 0; i < count; i++ {
		angle := float64(i)/count*2*math.Pi + rng.Float64()*0.5
		radius := 80 + rng.Float64()*80

		v := physicalOrbitSpeed(starMass, radius)
		vx := -math.Sin(angle) * v * (0.8 + rng.Float64()*0.4)
		vy := math.Cos(angle) * v * (0.8 + rng.Float64()*0.4)

		mass := 0.001 + rng.Float64()*0.01
		density := 2.5 + rng.Float64()*2
		hue := rng.Float64()*60 + 30
		light := 40 + rng.Float64()*30

		specs = append(specs, body{
			id:          fmt.Sprintf("asteroid-%d", i),
			pos:         r2.Vec{X: cx + math.Cos(angle)*radius, Y: cy + math.Sin(angle)*radius},
			vel:         r2.Vec{X: vx, Y: vy},
			earthMasses: mass,
			density:     density,
			color:       dynamo.HSL(hue, 0.7, light/100).Hex(),
		})
	}

	return assemble(specs)
}

func Galaxy(width, height float64, rng *rand.Rand) (dynamo.Registry, error) {
	const (
		arms        = 3
		starsPerArm = 8
	)
	cx, cy := width/2, height/2

	hole := body{id: "black-hole", pos: r2.Vec{X: cx, Y: cy}, earthMasses: 1e6, density: 10.0, color: "#000000"}
	holeMass := physics.ConvertMass(hole.earthMasses, physics.MassEarth)
	specs := []body{hole}

	for arm := 0; arm < arms; arm++ {
		for i := 0; i < starsPerArm; i++ {
			t := float64(i) / starsPerArm
			angle := float64(arm)*(2*math.Pi/arms) + t*math.Pi*1.5
			radius := 30 + t*100

			v := physicalOrbitSpeed(holeMass, radius) * 0.7
			x := cx + math.Cos(angle)*radius + (rng.Float64()-0.5)*20
			y := cy + math.Sin(angle)*radius + (rng.Float64()-0.5)*20
			vx := -math.Sin(angle)*v + (rng.Float64()-0.5)*2
			vy := math.Cos(angle)*v + (rng.Float64()-0.5)*2

			mass := 100 + rng.Float64()*500
			density := 0.5 + rng.Float64()*2
			hue := 200 + rng.Float64()*100
			light := 60 + rng.Float64()*30

			specs = append(specs, body{
				id:          fmt.Sprintf("star-%d-%d", arm, i),
				pos:         r2.Vec{X: x, Y: y},
				vel:         r2.Vec{X: vx, Y: vy},
				earthMasses: mass,
				density:     density,
				color:       dynamo.HSL(hue, 0.8, light/100).Hex(),
			})
		}
	}

	return assemble(specs)
}
