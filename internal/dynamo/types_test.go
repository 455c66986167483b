package dynamo

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func testBody(id string, mass float64) Body {
	return Body{ID: id, Mass: mass, Density: 5.5, Pos: r2.Vec{X: 1, Y: 2}, Vel: r2.Vec{X: 3, Y: 4}}
}

func TestBody_Validate(t *testing.T) {
	tests := []struct {
		name string
		body Body
		want error
	}{
		{"valid", testBody("a", 1), nil},
		{"zero mass", Body{ID: "a", Mass: 0, Density: 1}, ErrNonPositiveMass},
		{"negative mass", Body{ID: "a", Mass: -1, Density: 1}, ErrNonPositiveMass},
		{"NaN mass", Body{ID: "a", Mass: math.NaN(), Density: 1}, ErrNonPositiveMass},
		{"zero density", Body{ID: "a", Mass: 1, Density: 0}, ErrNonPositiveDensity},
		{"Inf position", Body{ID: "a", Mass: 1, Density: 1, Pos: r2.Vec{X: math.Inf(1)}}, ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.body.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRegistry_ValidateDuplicateID(t *testing.T) {
	reg := Registry{testBody("a", 1), testBody("a", 2)}

	err := reg.Validate()
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}

	var bodyErr *BodyError
	if !errors.As(err, &bodyErr) || bodyErr.Index != 1 {
		t.Errorf("expected BodyError at index 1, got %v", err)
	}
}

func TestRegistry_CloneIsDeep(t *testing.T) {
	b := testBody("a", 1)
	b.Trail = Trail{{X: 1, Y: 1}}
	reg := Registry{b}

	c := reg.Clone()
	c[0].Trail[0].X = 99
	c[0].Mass = 7

	if reg[0].Trail[0].X != 1 {
		t.Error("Clone shares trail storage")
	}
	if reg[0].Mass != 1 {
		t.Error("Clone shares body storage")
	}
}

func TestRegistry_MostMassive(t *testing.T) {
	reg := Registry{testBody("a", 1), testBody("b", 5), testBody("c", 5)}

	idx, ok := reg.MostMassive()
	if !ok || idx != 1 {
		t.Errorf("MostMassive() = %d, %v; want 1, true", idx, ok)
	}

	if _, ok := (Registry{}).MostMassive(); ok {
		t.Error("empty registry should have no most massive body")
	}
}

func TestRegistry_Remove(t *testing.T) {
	reg := Registry{testBody("a", 1), testBody("b", 2), testBody("c", 3)}

	out, ok := reg.Remove("b")
	if !ok || len(out) != 2 || out[0].ID != "a" || out[1].ID != "c" {
		t.Errorf("Remove(b) = %v, %v", out, ok)
	}
	if len(reg) != 3 || reg[1].ID != "b" {
		t.Error("Remove mutated the original registry")
	}

	if _, ok := reg.Remove("zzz"); ok {
		t.Error("Remove of unknown id should report false")
	}
}

func TestRegistry_Totals(t *testing.T) {
	reg := Registry{testBody("a", 1), testBody("b", 2)}

	if got := reg.TotalMass(); got != 3 {
		t.Errorf("TotalMass() = %v, want 3", got)
	}
	p := reg.Momentum()
	if p.X != 9 || p.Y != 12 {
		t.Errorf("Momentum() = %v, want {9 12}", p)
	}
}

func TestForcesOn(t *testing.T) {
	table := []Interaction{
		{I: 0, J: 1, Force: r2.Vec{X: 1, Y: 2}, Magnitude: math.Sqrt(5)},
		{I: 0, J: 2, Force: r2.Vec{X: 0, Y: 0}},
		{I: 1, J: 2, Force: r2.Vec{X: -3, Y: 0}, Magnitude: 3},
	}

	on1 := ForcesOn(table, 1)
	if len(on1) != 2 {
		t.Fatalf("expected 2 forces on body 1, got %d", len(on1))
	}
	if on1[0].Target != 0 || on1[0].Force.X != -1 || on1[0].Force.Y != -2 {
		t.Errorf("force from 0 not negated: %+v", on1[0])
	}
	if on1[1].Target != 2 || on1[1].Force.X != -3 {
		t.Errorf("force toward 2 wrong: %+v", on1[1])
	}
}

func TestTrail_Record(t *testing.T) {
	var tr Trail
	tr = tr.Record(r2.Vec{X: 1}, 3, 800)
	if len(tr) != 1 {
		t.Fatalf("empty trail should always record, got len %d", len(tr))
	}

	tr = tr.Record(r2.Vec{X: 2}, 3, 800)
	if len(tr) != 1 {
		t.Errorf("length 1 is not a multiple of 3, got len %d", len(tr))
	}

	tr = Trail{{}, {}, {}}
	tr = tr.Record(r2.Vec{X: 4}, 3, 800)
	if len(tr) != 4 || tr[3].X != 4 {
		t.Errorf("length 3 should record, got %v", tr)
	}
}

func TestTrail_RecordEvictsOldest(t *testing.T) {
	tr := make(Trail, 6)
	for i := range tr {
		tr[i] = r2.Vec{X: float64(i)}
	}

	tr = tr.Record(r2.Vec{X: 6}, 3, 6)
	if len(tr) != 6 {
		t.Fatalf("expected cap of 6, got %d", len(tr))
	}
	if tr[0].X != 1 || tr[5].X != 6 {
		t.Errorf("expected FIFO eviction, got %v", tr)
	}
}

func TestTrail_Concat(t *testing.T) {
	a := Trail{{X: 1}}
	b := Trail{{X: 2}, {X: 3}}

	c := a.Concat(b)
	if len(c) != 3 || c[0].X != 1 || c[2].X != 3 {
		t.Errorf("Concat = %v", c)
	}
	c[0].X = 42
	if a[0].X != 1 {
		t.Error("Concat shares storage with its receiver")
	}
}

func TestEnergy_Total(t *testing.T) {
	e := Energy{Kinetic: 3, Potential: -5}
	if e.Total() != -2 {
		t.Errorf("Total() = %v, want -2", e.Total())
	}
}
