// Package scenario builds ready-made body registries for a canvas of a
// given size.
package scenario

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/san-kum/starmaker/internal/dynamo"
	"github.com/san-kum/starmaker/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// Builder produces a registry centered on a width x height canvas.
// Randomized presets draw from rng only, so a seeded source reproduces
// the same system.
type Builder func(width, height float64, rng *rand.Rand) (dynamo.Registry, error)

type Preset struct {
	Name        string
	Description string
	Build       Builder
}

var presets = map[string]Preset{
	"solar":    {"solar", "Sun with the four inner planets on circular orbits", Solar},
	"binary":   {"binary", "Two equal stars circling each other", Binary},
	"asteroid": {"asteroid", "Central star ringed by fifteen small rocks", Asteroid},
	"galaxy":   {"galaxy", "Black hole with three spiral arms of stars", Galaxy},
}

func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Get(name string) (Preset, error) {
	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset: %s", name)
	}
	return p, nil
}

// Build runs the named preset. A nil rng is seeded from seed zero.
func Build(name string, width, height float64, rng *rand.Rand) (dynamo.Registry, error) {
	p, err := Get(name)
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(0))
	}
	reg, err := p.Build(width, height, rng)
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", name, err)
	}
	return reg, nil
}

// body is a shorthand for presets, with mass in Earth masses.
type body struct {
	id          string
	pos, vel    r2.Vec
	earthMasses float64
	density     float64
	color       string
}

func (b body) build() (dynamo.Body, error) {
	return physics.NewBody(physics.BodySpec{
		ID:      b.id,
		Pos:     b.pos,
		Vel:     b.vel,
		Mass:    physics.ConvertMass(b.earthMasses, physics.MassEarth),
		Density: b.density,
		Color:   b.color,
	})
}

func assemble(specs []body) (dynamo.Registry, error) {
	reg := make(dynamo.Registry, 0, len(specs))
	for _, s := range specs {
		b, err := s.build()
		if err != nil {
			return nil, err
		}
		reg = append(reg, b)
	}
	return reg, reg.Validate()
}
