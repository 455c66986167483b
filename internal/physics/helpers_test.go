package physics

import (
	"fmt"
	"testing"

	"github.com/san-kum/starmaker/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// planet builds a test body with mass given in Earth masses.
func planet(t testing.TB, id string, x, y, earthMasses, density float64) dynamo.Body {
	t.Helper()
	b, err := NewBody(BodySpec{
		ID:      id,
		Pos:     r2.Vec{X: x, Y: y},
		Mass:    earthMasses * EarthMass,
		Density: density,
		Color:   "#ffffff",
	})
	if err != nil {
		t.Fatalf("planet %s: %v", id, err)
	}
	return b
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}
