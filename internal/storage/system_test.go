package storage

import (
	"bytes"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/starmaker/internal/config"
	"github.com/san-kum/starmaker/internal/dynamo"
	"github.com/san-kum/starmaker/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

func testRegistry(t *testing.T) dynamo.Registry {
	t.Helper()
	sun, err := physics.NewBody(physics.BodySpec{ID: "sun", Pos: r2.Vec{X: 400, Y: 300}, Mass: 333000 * physics.EarthMass, Density: 1.41, Color: "#FDB813"})
	if err != nil {
		t.Fatal(err)
	}
	earth, err := physics.NewBody(physics.BodySpec{ID: "earth", Pos: r2.Vec{X: 520, Y: 300}, Vel: r2.Vec{Y: 12.3}, Mass: physics.EarthMass, Density: 5.51, Color: "#6B93D6"})
	if err != nil {
		t.Fatal(err)
	}
	earth.Trail = dynamo.Trail{{X: 519.5, Y: 299.9}, {X: 520, Y: 300}}
	earth.Force = r2.Vec{X: -3, Y: 0.1}
	return dynamo.Registry{sun, earth}
}

func TestSystemRoundTrip(t *testing.T) {
	reg := testRegistry(t)
	cam := config.Camera{X: -10, Y: 4, Zoom: 1.5, MinZoom: 0.1, MaxZoom: 5}
	settings := config.SettingsConfig{ShowForces: true, EnableCollisions: false}

	var buf bytes.Buffer
	if err := EncodeSystem(&buf, NewSystem(reg, cam, settings, time.Unix(1700000000, 0))); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "force") {
		t.Error("transient force data should not be written")
	}

	sys, err := DecodeSystem(&buf)
	if err != nil {
		t.Fatal(err)
	}
	got, err := sys.Registry()
	if err != nil {
		t.Fatal(err)
	}

	want := reg.Clone()
	for i := range want {
		want[i].Force = r2.Vec{}
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
	if sys.Camera != cam || sys.Settings != settings {
		t.Errorf("camera or settings lost: %+v %+v", sys.Camera, sys.Settings)
	}
	if sys.Version != SystemVersion {
		t.Errorf("expected version %s, got %s", SystemVersion, sys.Version)
	}
}

func TestDecodeSystem_BrowserFile(t *testing.T) {
	data := `{
  "planets": [
    {"x": 100, "y": 50, "vx": 1, "vy": 0, "mass": 5.972e24, "density": 5.5,
     "color": "hsl(45, 70%, 50%)", "trail": [], "id": 1700000000123.456,
     "fx": 0.5, "fy": 0, "forces": []}
  ],
  "camera": {"zoom": 2},
  "settings": {"enableCollisions": true},
  "timestamp": "2024-01-02T03:04:05.000Z",
  "version": "1.0"
}`

	sys, err := DecodeSystem(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	reg, err := sys.Registry()
	if err != nil {
		t.Fatal(err)
	}

	if reg[0].ID != "1700000000123.456" {
		t.Errorf("expected numeric id kept as text, got %q", reg[0].ID)
	}
	if reg[0].Radius != physics.CalculateRadius(physics.EarthMass, 5.5) {
		t.Errorf("missing radius should be recomputed, got %+v", reg[0].Radius)
	}
	if reg[0].Force != (r2.Vec{}) {
		t.Errorf("force should not be loaded, got %+v", reg[0].Force)
	}
	if sys.Camera.Zoom != 2 || sys.Camera.MaxZoom != config.DefaultMaxZoom {
		t.Errorf("camera not merged over defaults: %+v", sys.Camera)
	}
	if !sys.Settings.ShowForces || !sys.Settings.EnableCollisions || !sys.Settings.ShowTrails {
		t.Errorf("settings not merged over defaults: %+v", sys.Settings)
	}
}

func TestSystemRegistry_Invalid(t *testing.T) {
	tests := []struct {
		name string
		recs []BodyRecord
		want error
	}{
		{"zero mass", []BodyRecord{{ID: "a", Mass: 0, Density: 1, Color: "#fff"}}, dynamo.ErrNonPositiveMass},
		{"bad color", []BodyRecord{{ID: "a", Mass: 1, Density: 1, Color: "nope"}}, dynamo.ErrInvalidColor},
		{"duplicate", []BodyRecord{
			{ID: "a", Mass: 1, Density: 1, Color: "#fff"},
			{ID: "a", Mass: 1, Density: 1, Color: "#fff"},
		}, dynamo.ErrDuplicateID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := System{Planets: tt.recs}.Registry()
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSaveLoadSystem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system.json")
	reg := testRegistry(t)

	if err := SaveSystem(path, NewSystem(reg, config.DefaultCamera(), config.DefaultSettings(), time.Now())); err != nil {
		t.Fatal(err)
	}
	_, loaded, err := LoadSystem(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 || loaded[1].ID != "earth" {
		t.Errorf("unexpected registry %+v", loaded)
	}

	if _, _, err := LoadSystem(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
