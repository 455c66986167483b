package scenario

import (
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/san-kum/starmaker/internal/physics"
)

func TestNames(t *testing.T) {
	want := []string{"asteroid", "binary", "galaxy", "solar"}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestBuild_Unknown(t *testing.T) {
	if _, err := Build("nebula", 800, 600, nil); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestBuild_Counts(t *testing.T) {
	tests := []struct {
		name  string
		count int
		first string
	}{
		{"solar", 5, "sun"},
		{"binary", 2, "star1"},
		{"asteroid", 16, "central-star"},
		{"galaxy", 25, "black-hole"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := Build(tt.name, 800, 600, rand.New(rand.NewSource(1)))
			if err != nil {
				t.Fatal(err)
			}
			if len(reg) != tt.count {
				t.Errorf("expected %d bodies, got %d", tt.count, len(reg))
			}
			if reg[0].ID != tt.first {
				t.Errorf("expected %s first, got %s", tt.first, reg[0].ID)
			}
			if err := reg.Validate(); err != nil {
				t.Errorf("invalid registry: %v", err)
			}
			if idx, _ := reg.MostMassive(); idx != 0 && tt.name != "binary" {
				t.Errorf("expected the central body to be the most massive, got index %d", idx)
			}
		})
	}
}

func TestSolar_CircularVelocities(t *testing.T) {
	reg, err := Solar(1000, 800, nil)
	if err != nil {
		t.Fatal(err)
	}
	sun := reg[0]
	if sun.Pos.X != 500 || sun.Pos.Y != 400 {
		t.Errorf("sun not centered: %+v", sun.Pos)
	}

	earth := reg[reg.IndexOf("earth")]
	if d := earth.Pos.X - sun.Pos.X; math.Abs(d-120) > 1e-9 {
		t.Errorf("expected earth at 120 with scale 1, got %g", d)
	}
	want := physics.OrbitalVelocity(sun, 120)
	if earth.Vel.X != 0 || math.Abs(earth.Vel.Y-want) > 1e-12 {
		t.Errorf("expected velocity (0, %g), got %+v", want, earth.Vel)
	}
	if earth.Color.Hex() != "#6b93d6" {
		t.Errorf("unexpected color %s", earth.Color.Hex())
	}
}

func TestBinary_ZeroMomentum(t *testing.T) {
	reg, err := Binary(800, 600, nil)
	if err != nil {
		t.Fatal(err)
	}
	p := reg.Momentum()
	if p.X != 0 || p.Y != 0 {
		t.Errorf("expected zero net momentum, got %+v", p)
	}
}

func TestRandomPresets_Reproducible(t *testing.T) {
	for _, name := range []string{"asteroid", "galaxy"} {
		a, err := Build(name, 800, 600, rand.New(rand.NewSource(42)))
		if err != nil {
			t.Fatal(err)
		}
		b, _ := Build(name, 800, 600, rand.New(rand.NewSource(42)))
		c, _ := Build(name, 800, 600, rand.New(rand.NewSource(43)))

		if !reflect.DeepEqual(a, b) {
			t.Errorf("%s: same seed produced different systems", name)
		}
		if reflect.DeepEqual(a, c) {
			t.Errorf("%s: different seeds produced identical systems", name)
		}
	}
}

func TestAsteroid_Ranges(t *testing.T) {
	reg, err := Asteroid(800, 600, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range reg[1:] {
		d := math.Hypot(b.Pos.X-400, b.Pos.Y-300)
		if d < 80 || d > 160 {
			t.Errorf("%s at distance %g, outside the ring", b.ID, d)
		}
		m := physics.EarthMasses(b.Mass)
		if m < 0.001 || m > 0.011 {
			t.Errorf("%s mass %g out of range", b.ID, m)
		}
		if b.Density < 2.5 || b.Density > 4.5 {
			t.Errorf("%s density %g out of range", b.ID, b.Density)
		}
	}
}
