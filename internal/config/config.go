package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/starmaker/internal/physics"
)

const (
	DefaultScenario   = "solar"
	DefaultIntegrator = "leapfrog"
	DefaultTicks      = 5000
	DefaultWidth      = 800.0
	DefaultHeight     = 600.0
	DefaultMinZoom    = 0.1
	DefaultMaxZoom    = 5.0
)

type Config struct {
	Scenario   string         `yaml:"scenario"`
	Integrator string         `yaml:"integrator"`
	Ticks      int            `yaml:"ticks"`
	Seed       int64          `yaml:"seed"`
	Workers    int            `yaml:"workers"`
	Validate   bool           `yaml:"validate"`
	Canvas     CanvasConfig   `yaml:"canvas"`
	Settings   SettingsConfig `yaml:"settings"`
	Camera     Camera         `yaml:"camera"`
}

type CanvasConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// SettingsConfig holds the display and collision toggles. It is also the
// settings block of saved system files.
type SettingsConfig struct {
	ShowForces       bool `yaml:"show_forces" json:"showForces"`
	ShowTrails       bool `yaml:"show_trails" json:"showTrails"`
	EnableCollisions bool `yaml:"enable_collisions" json:"enableCollisions"`
}

// Camera is the view transform screen = (world + (X, Y)) * Zoom, with Zoom
// kept within [MinZoom, MaxZoom].
type Camera struct {
	X       float64 `yaml:"x" json:"x"`
	Y       float64 `yaml:"y" json:"y"`
	Zoom    float64 `yaml:"zoom" json:"zoom"`
	MinZoom float64 `yaml:"min_zoom" json:"minZoom"`
	MaxZoom float64 `yaml:"max_zoom" json:"maxZoom"`
}

func DefaultCamera() Camera {
	return Camera{Zoom: 1, MinZoom: DefaultMinZoom, MaxZoom: DefaultMaxZoom}
}

func DefaultSettings() SettingsConfig {
	return SettingsConfig{ShowForces: true, ShowTrails: true, EnableCollisions: true}
}

// ZoomBy multiplies the zoom by factor, clamped to the camera limits.
func (c *Camera) ZoomBy(factor float64) {
	z := c.Zoom * factor
	if z < c.MinZoom {
		z = c.MinZoom
	}
	if z > c.MaxZoom {
		z = c.MaxZoom
	}
	c.Zoom = z
}

// Pan shifts the view by a screen-space offset.
func (c *Camera) Pan(dx, dy float64) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
}

func (c Camera) ToScreen(x, y float64) (float64, float64) {
	return (x + c.X) * c.Zoom, (y + c.Y) * c.Zoom
}

func (c Camera) ToWorld(sx, sy float64) (float64, float64) {
	return sx/c.Zoom - c.X, sy/c.Zoom - c.Y
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:   DefaultScenario,
		Integrator: DefaultIntegrator,
		Ticks:      DefaultTicks,
		Workers:    1,
		Validate:   true,
		Canvas:     CanvasConfig{Width: DefaultWidth, Height: DefaultHeight},
		Settings:   DefaultSettings(),
		Camera:     DefaultCamera(),
	}
}

// Load reads a YAML file over the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file over a copy of base.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Check(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Check rejects values no run can use.
func (c *Config) Check() error {
	if c.Ticks < 0 {
		return fmt.Errorf("ticks must not be negative, got %d", c.Ticks)
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas must be positive, got %gx%g", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Camera.MinZoom <= 0 || c.Camera.MaxZoom < c.Camera.MinZoom {
		return fmt.Errorf("invalid zoom range [%g, %g]", c.Camera.MinZoom, c.Camera.MaxZoom)
	}
	return nil
}

// Engine is the per-tick engine configuration.
func (c *Config) Engine() physics.Config {
	return physics.Config{
		EnableCollisions: c.Settings.EnableCollisions,
		Workers:          c.Workers,
	}
}

// Duration is the simulated time covered by Ticks.
func (c *Config) Duration() float64 {
	return float64(c.Ticks) * physics.TimeStep
}
