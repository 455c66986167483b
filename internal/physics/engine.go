package physics

import (
	"github.com/google/uuid"
	"github.com/san-kum/starmaker/internal/dynamo"
	"github.com/san-kum/starmaker/internal/integrators"
)

// Config toggles per-tick behavior.
type Config struct {
	EnableCollisions bool
	// Workers bounds concurrent pair evaluation; <= 1 is sequential.
	Workers int
}

func DefaultConfig() Config {
	return Config{EnableCollisions: true, Workers: 1}
}

// Engine advances a registry by one fixed tick. It holds no simulation
// state; everything a tick produces is in its StepResult.
type Engine struct {
	integrator integrators.Integrator
	dt         float64
	newID      func() string
}

type Option func(*Engine)

// WithIntegrator replaces the leapfrog scheme. Only comparison tooling
// should need this.
func WithIntegrator(i integrators.Integrator) Option {
	return func(e *Engine) { e.integrator = i }
}

// WithIDGenerator sets how merge products are named.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		integrator: integrators.NewLeapfrog(),
		dt:         TimeStep,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Integrator() string {
	return e.integrator.Name()
}

// Step runs forces, integration, collisions (when enabled) and energy, in
// that order, on a copy of reg. Interaction indices refer to reg.
func (e *Engine) Step(reg dynamo.Registry, cfg Config) dynamo.StepResult {
	bodies := reg.Clone()

	table := AccumulateForces(bodies, cfg.Workers)
	Integrate(bodies, e.integrator, e.dt)

	var merges []dynamo.Merge
	if cfg.EnableCollisions {
		bodies, merges = ResolveCollisions(bodies, e.newID)
	}

	return dynamo.StepResult{
		Bodies:       bodies,
		Energy:       SystemEnergy(bodies),
		Interactions: table,
		Merges:       merges,
	}
}
