package physics

import (
	"math"
	"testing"

	"github.com/san-kum/starmaker/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestSystemEnergy(t *testing.T) {
	reg := dynamo.Registry{
		{ID: "a", Mass: 2, Vel: r2.Vec{X: 3, Y: 4}},
		{ID: "b", Mass: 5, Pos: r2.Vec{X: 100}},
	}

	e := SystemEnergy(reg)

	if math.Abs(e.Kinetic-25) > 1e-12 {
		t.Errorf("expected kinetic 25, got %g", e.Kinetic)
	}
	wantPE := -G * 2 * 5 / (100 / ScaleFactor)
	if math.Abs(e.Potential-wantPE) > math.Abs(wantPE)*1e-12 {
		t.Errorf("expected potential %g, got %g", wantPE, e.Potential)
	}
	if e.Total() != e.Kinetic+e.Potential {
		t.Error("total should be the sum")
	}
}

func TestSystemEnergy_SkipsCoincidentPairs(t *testing.T) {
	reg := dynamo.Registry{
		{ID: "a", Mass: EarthMass},
		{ID: "b", Mass: EarthMass},
	}
	e := SystemEnergy(reg)
	if e.Potential != 0 || math.IsInf(e.Potential, 0) {
		t.Errorf("expected zero potential, got %g", e.Potential)
	}
}

func TestSystemEnergy_Empty(t *testing.T) {
	if e := SystemEnergy(nil); e != (dynamo.Energy{}) {
		t.Errorf("expected zero energy, got %+v", e)
	}
}
