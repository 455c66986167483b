package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/san-kum/starmaker/internal/config"
	"github.com/san-kum/starmaker/internal/dynamo"
	"github.com/san-kum/starmaker/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

const SystemVersion = "1.0"

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type RadiusRecord struct {
	Actual float64 `json:"actual"`
	Visual float64 `json:"visual"`
}

// BodyRecord is the persisted form of a body. Mass is in kilograms.
// Transient force data is never written.
type BodyRecord struct {
	ID      RecordID      `json:"id"`
	X       float64       `json:"x"`
	Y       float64       `json:"y"`
	VX      float64       `json:"vx"`
	VY      float64       `json:"vy"`
	Mass    float64       `json:"mass"`
	Density float64       `json:"density"`
	Color   string        `json:"color"`
	Radius  *RadiusRecord `json:"radius,omitempty"`
	Trail   []Point       `json:"trail"`
}

// RecordID is a body id that also accepts the numeric ids of files written
// by the browser version.
type RecordID string

func (id *RecordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = RecordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("body id: %w", err)
	}
	*id = RecordID(n.String())
	return nil
}

func ToRecord(b dynamo.Body) BodyRecord {
	trail := make([]Point, len(b.Trail))
	for i, p := range b.Trail {
		trail[i] = Point{X: p.X, Y: p.Y}
	}
	return BodyRecord{
		ID:      RecordID(b.ID),
		X:       b.Pos.X,
		Y:       b.Pos.Y,
		VX:      b.Vel.X,
		VY:      b.Vel.Y,
		Mass:    b.Mass,
		Density: b.Density,
		Color:   b.Color.Hex(),
		Radius:  &RadiusRecord{Actual: b.Radius.Actual, Visual: b.Radius.Visual},
		Trail:   trail,
	}
}

// Body validates the record and converts it back. A missing radius is
// recomputed from mass and density.
func (r BodyRecord) Body() (dynamo.Body, error) {
	color, err := dynamo.ParseColor(r.Color)
	if err != nil {
		return dynamo.Body{}, err
	}

	b := dynamo.Body{
		ID:      string(r.ID),
		Pos:     r2.Vec{X: r.X, Y: r.Y},
		Vel:     r2.Vec{X: r.VX, Y: r.VY},
		Mass:    r.Mass,
		Density: r.Density,
		Color:   color,
	}
	if err := b.Validate(); err != nil {
		return dynamo.Body{}, err
	}

	if r.Radius != nil && r.Radius.Visual > 0 {
		b.Radius = dynamo.Radius{Actual: r.Radius.Actual, Visual: r.Radius.Visual}
	} else {
		b.Radius = physics.CalculateRadius(b.Mass, b.Density)
	}

	if len(r.Trail) > 0 {
		b.Trail = make(dynamo.Trail, len(r.Trail))
		for i, p := range r.Trail {
			b.Trail[i] = r2.Vec{X: p.X, Y: p.Y}
		}
	}
	return b, nil
}

// System is a saved star system file.
type System struct {
	Planets   []BodyRecord          `json:"planets"`
	Camera    config.Camera         `json:"camera"`
	Settings  config.SettingsConfig `json:"settings"`
	Timestamp time.Time             `json:"timestamp"`
	Version   string                `json:"version"`
}

func NewSystem(reg dynamo.Registry, cam config.Camera, settings config.SettingsConfig, now time.Time) System {
	planets := make([]BodyRecord, len(reg))
	for i, b := range reg {
		planets[i] = ToRecord(b)
	}
	return System{
		Planets:   planets,
		Camera:    cam,
		Settings:  settings,
		Timestamp: now.UTC(),
		Version:   SystemVersion,
	}
}

// Registry converts and validates the planets, ids included.
func (s System) Registry() (dynamo.Registry, error) {
	reg := make(dynamo.Registry, 0, len(s.Planets))
	for i, rec := range s.Planets {
		b, err := rec.Body()
		if err != nil {
			return nil, &dynamo.BodyError{Index: i, ID: string(rec.ID), Wrapped: err}
		}
		reg = append(reg, b)
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return reg, nil
}

func EncodeSystem(w io.Writer, s System) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// DecodeSystem reads a system file. Camera and settings keys absent from
// the file keep their defaults.
func DecodeSystem(r io.Reader) (*System, error) {
	s := System{
		Camera:   config.DefaultCamera(),
		Settings: config.DefaultSettings(),
	}
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode system: %w", err)
	}
	return &s, nil
}

func SaveSystem(path string, s System) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodeSystem(f, s)
}

// LoadSystem reads a system file and returns it with its validated bodies.
func LoadSystem(path string) (*System, dynamo.Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	s, err := DecodeSystem(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	reg, err := s.Registry()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, reg, nil
}
