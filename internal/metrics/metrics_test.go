package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/starmaker/internal/dynamo"
	"github.com/san-kum/starmaker/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

func result(kinetic, potential float64, merges int, bodies ...dynamo.Body) dynamo.StepResult {
	return dynamo.StepResult{
		Bodies: bodies,
		Energy: dynamo.Energy{Kinetic: kinetic, Potential: potential},
		Merges: make([]dynamo.Merge, merges),
	}
}

func TestEnergy(t *testing.T) {
	m := NewEnergy()
	m.Observe(result(10, -30, 0), 0)
	m.Observe(result(20, -30, 0), 0.008)

	if m.Value() != -15 {
		t.Errorf("expected mean total -15, got %f", m.Value())
	}
	if m.Last().Kinetic != 20 {
		t.Errorf("expected last kinetic 20, got %f", m.Last().Kinetic)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()
	m.Observe(result(0, -100, 0), 0)
	m.Observe(result(5, -100, 0), 1)
	m.Observe(result(1, -100, 0), 2)

	if math.Abs(m.Value()-0.05) > 1e-12 {
		t.Errorf("expected max drift 0.05, got %f", m.Value())
	}

	m.Reset()
	m.Observe(result(0, 0, 0), 0)
	m.Observe(result(3, 0, 0), 1)
	if m.Value() != 0 {
		t.Errorf("drift from zero energy should stay 0, got %f", m.Value())
	}
}

func TestMergeCount(t *testing.T) {
	m := NewMergeCount()
	m.Observe(result(0, 0, 2), 0)
	m.Observe(result(0, 0, 1), 1)
	if m.Value() != 3 {
		t.Errorf("expected 3 merges, got %f", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestTotalMassAndMomentum(t *testing.T) {
	a := dynamo.Body{ID: "a", Mass: 2 * physics.EarthMass, Vel: r2.Vec{X: 1}}
	b := dynamo.Body{ID: "b", Mass: 1 * physics.EarthMass, Vel: r2.Vec{X: -2}}

	mass := NewTotalMass()
	mass.Observe(result(0, 0, 0, a, b), 0)
	if math.Abs(mass.Value()-3) > 1e-12 {
		t.Errorf("expected 3 Earth masses, got %f", mass.Value())
	}

	mom := NewMomentumDrift()
	mom.Observe(result(0, 0, 0, a, b), 0)
	a.Vel.X = 2
	mom.Observe(result(0, 0, 0, a, b), 1)

	want := 2 * physics.EarthMass / (3 * physics.EarthMass)
	if math.Abs(mom.Value()-want) > 1e-12 {
		t.Errorf("expected drift %f, got %f", want, mom.Value())
	}
}

func TestSummarize(t *testing.T) {
	reg := dynamo.Registry{{Mass: physics.EarthMass}, {Mass: 0.5 * physics.EarthMass}}
	info := Summarize(reg, dynamo.Energy{Kinetic: 2.5e30, Potential: -1e31})

	if info.Bodies != 2 || math.Abs(info.TotalMass-1.5) > 1e-12 {
		t.Errorf("unexpected summary %+v", info)
	}
	lines := info.Lines()
	if lines[1] != "Total Mass: 1.50 Earth Masses" {
		t.Errorf("unexpected mass line %q", lines[1])
	}
	if lines[3] != "Potential Energy: -10.00×10³⁰ J" {
		t.Errorf("unexpected potential line %q", lines[3])
	}
}

func TestDefault(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Default() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != 5 {
		t.Errorf("expected 5 metrics, got %d", len(seen))
	}
}
