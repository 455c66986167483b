package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/starmaker/internal/dynamo"
	"github.com/san-kum/starmaker/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestPowerSpectrum_PeakAtSignalFrequency(t *testing.T) {
	n := 128
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 8 * float64(i) / float64(n))
	}

	ps := PowerSpectrum(data)
	if len(ps) != n/2 {
		t.Fatalf("expected %d bins, got %d", n/2, len(ps))
	}

	peak := 0
	for k := range ps {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if peak != 8 {
		t.Errorf("expected peak at bin 8, got %d", peak)
	}
}

func TestPowerSpectrum_Short(t *testing.T) {
	if PowerSpectrum([]float64{1}) != nil {
		t.Error("expected nil spectrum for a single sample")
	}
}

func TestDominantPeriod(t *testing.T) {
	dt := 0.1
	data := make([]float64, 300)
	for i := range data {
		data[i] = 100 + 5*math.Cos(2*math.Pi*float64(i)*dt/6)
	}

	period, ok := DominantPeriod(data, dt)
	if !ok {
		t.Fatal("expected a period")
	}
	if math.Abs(period-6) > 0.1 {
		t.Errorf("expected period 6, got %g", period)
	}

	if _, ok := DominantPeriod(make([]float64, 50), dt); ok {
		t.Error("flat series should have no period")
	}
	if _, ok := DominantPeriod([]float64{1, 2}, dt); ok {
		t.Error("short series should have no period")
	}
}

func TestTrackOrbit(t *testing.T) {
	primary := []r2.Vec{{}, {}, {}, {}}
	body := []r2.Vec{{X: 10}, {Y: 12}, {X: -14}, {Y: -12}}

	o := TrackOrbit(body, primary, 1)

	if o.Periapsis != 10 || o.Apoapsis != 14 {
		t.Errorf("expected apsides 10 and 14, got %g and %g", o.Periapsis, o.Apoapsis)
	}
	if math.Abs(o.Eccentricity()-4.0/24) > 1e-12 {
		t.Errorf("unexpected eccentricity %g", o.Eccentricity())
	}
	if o.RadialSpeeds[1] != 2 || o.RadialSpeeds[0] != 2 {
		t.Errorf("unexpected radial speeds %v", o.RadialSpeeds)
	}

	if got := PortraitToASCII(o, 10, 5); strings.Count(got, "\n") != 5 || !strings.Contains(got, "•") {
		t.Errorf("unexpected portrait:\n%s", got)
	}
	if PortraitToASCII(Orbit{}, 10, 5) != "" {
		t.Error("expected empty portrait without samples")
	}
}

func twoBody(t *testing.T) dynamo.Registry {
	t.Helper()
	sun, err := physics.NewBody(physics.BodySpec{ID: "sun", Mass: 1000 * physics.EarthMass, Density: 1.41})
	if err != nil {
		t.Fatal(err)
	}
	planet, err := physics.NewBody(physics.BodySpec{ID: "planet", Pos: r2.Vec{X: 150}, Vel: r2.Vec{Y: physics.OrbitalVelocity(sun, 150)}})
	if err != nil {
		t.Fatal(err)
	}
	return dynamo.Registry{sun, planet}
}

func TestLyapunovExponent_Guards(t *testing.T) {
	eng := physics.NewEngine()
	reg := twoBody(t)

	if got := LyapunovExponent(eng, reg, physics.DefaultConfig(), 5, 1e-6, 10); got != 0 {
		t.Errorf("expected 0 for out-of-range index, got %g", got)
	}
	if got := LyapunovExponent(eng, reg, physics.DefaultConfig(), 1, 0, 10); got != 0 {
		t.Errorf("expected 0 for zero displacement, got %g", got)
	}
}

func TestLyapunovExponent_FreeBodies(t *testing.T) {
	a, _ := physics.NewBody(physics.BodySpec{ID: "a", Vel: r2.Vec{X: 1}})
	b, _ := physics.NewBody(physics.BodySpec{ID: "b", Pos: r2.Vec{Y: 1e6}, Vel: r2.Vec{X: -1}})
	reg := dynamo.Registry{a, b}

	// Gravity at this range is negligible, so the displacement neither
	// grows nor shrinks.
	got := LyapunovExponent(physics.NewEngine(), reg, physics.DefaultConfig(), 0, 1e-6, 200)
	if math.Abs(got) > 1e-3 {
		t.Errorf("expected roughly zero exponent, got %g", got)
	}
}

func TestSpeedSweep(t *testing.T) {
	reg := twoBody(t)[:1]

	points := SpeedSweep(physics.NewEngine(), reg, physics.DefaultConfig(), 100, 0.5, 1.5, 3, 2000)
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}

	fates := []string{points[0].Fate, points[1].Fate, points[2].Fate}
	want := []string{physics.FateFall, physics.FateStable, physics.FateEscape}
	for i := range want {
		if fates[i] != want[i] {
			t.Errorf("point %d: expected %q, got %q", i, want[i], fates[i])
		}
	}

	if points[0].Periapsis >= 100*0.9 {
		t.Errorf("slow launch should fall inward, periapsis %g", points[0].Periapsis)
	}
	if points[1].Apoapsis > 105 || points[1].Periapsis < 95 {
		t.Errorf("circular launch should stay near 100, got [%g, %g]", points[1].Periapsis, points[1].Apoapsis)
	}
	if points[2].Apoapsis <= 110 {
		t.Errorf("fast launch should move outward, apoapsis %g", points[2].Apoapsis)
	}

	if SpeedSweep(physics.NewEngine(), nil, physics.DefaultConfig(), 100, 0.5, 1.5, 3, 10) != nil {
		t.Error("expected nil sweep without a primary")
	}
}

func TestSpeedSweep_IgnoresOtherBodies(t *testing.T) {
	reg := twoBody(t)[:1]
	far, err := physics.NewBody(physics.BodySpec{ID: "comet", Pos: r2.Vec{Y: 5000}})
	if err != nil {
		t.Fatal(err)
	}
	reg = append(reg, far)

	points := SpeedSweep(physics.NewEngine(), reg, physics.DefaultConfig(), 100, 1, 1, 1, 500)
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	if points[0].Merged || points[0].Apoapsis > 105 || points[0].Periapsis < 95 {
		t.Errorf("expected a circular orbit around the sun, got %+v", points[0])
	}
}

func TestSpeedSweep_FollowsMergedPrimary(t *testing.T) {
	reg := twoBody(t)[:1]
	debris, err := physics.NewBody(physics.BodySpec{ID: "debris", Pos: r2.Vec{X: -10}})
	if err != nil {
		t.Fatal(err)
	}
	reg = append(reg, debris)

	points := SpeedSweep(physics.NewEngine(), reg, physics.DefaultConfig(), 100, 1, 1, 1, 500)
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	if points[0].Merged {
		t.Fatal("the launched body survived; only the sun merged")
	}
	if points[0].Apoapsis > 110 || points[0].Periapsis < 90 {
		t.Errorf("expected the orbit tracked around the merged sun, got %+v", points[0])
	}
}

func TestMatchBodies_AcrossMerges(t *testing.T) {
	a, _ := physics.NewBody(physics.BodySpec{ID: "a"})
	b, _ := physics.NewBody(physics.BodySpec{ID: "b", Pos: r2.Vec{X: 5}})
	c, _ := physics.NewBody(physics.BodySpec{ID: "c", Pos: r2.Vec{X: 300}})
	reg := dynamo.Registry{a, b, c}
	eng := physics.NewEngine()

	x, xp := reg.Clone(), reg.Clone()
	xp[2].Pos.X += 1e-3
	lx, lp := newLineage(reg), newLineage(reg)

	rx, rp := eng.Step(x, physics.DefaultConfig()), eng.Step(xp, physics.DefaultConfig())
	lx.follow(x, rx.Merges)
	lp.follow(xp, rp.Merges)
	x, xp = rx.Bodies, rp.Bodies

	if len(x) != 2 || x[0].ID == xp[0].ID {
		t.Fatalf("expected both copies to merge a and b under distinct ids, got %v / %v", x[0].ID, xp[0].ID)
	}
	if lx["a"] != x[0].ID || lx["b"] != x[0].ID || lp["a"] != xp[0].ID {
		t.Errorf("lineage not followed: %v %v", lx, lp)
	}

	pairs := matchBodies(reg, x, xp, lx, lp)
	if len(pairs) != 2 {
		t.Fatalf("expected the merged pair and c, got %v", pairs)
	}
	if sep := separation(x, xp, pairs); math.Abs(sep-1e-3) > 1e-6 {
		t.Errorf("expected separation of the displacement, got %g", sep)
	}
}
