// Package integrators advances a single body by one fixed time step given
// its acceleration.
package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/starmaker/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Integrator updates b.Pos and b.Vel in place.
type Integrator interface {
	Name() string
	Advance(b *dynamo.Body, acc r2.Vec, dt float64)
}

var registry = map[string]func() Integrator{
	"leapfrog":   func() Integrator { return NewLeapfrog() },
	"symplectic": func() Integrator { return NewSymplecticEuler() },
	"euler":      func() Integrator { return NewEuler() },
}

// Get returns a fresh integrator by name.
func Get(name string) (Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
