package experiment

import (
	"context"
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/san-kum/starmaker/internal/config"
	"github.com/san-kum/starmaker/internal/dynamo"
	"github.com/san-kum/starmaker/internal/physics"
	"github.com/san-kum/starmaker/internal/sim"
)

// Experiment is one configured run: a scenario built from a seed, an
// engine and a simulator carrying the standard metrics.
type Experiment struct {
	cfg         *config.Config
	registry    *Registry
	logger      *log.Logger
	recordEvery int
	metricNames []string
	engine      *physics.Engine
	simulator   *sim.Simulator
	initial     dynamo.Registry
}

type Option func(*Experiment)

func WithLogger(l *log.Logger) Option {
	return func(e *Experiment) { e.logger = l }
}

// WithRecordEvery thins the recorded samples to every n ticks.
func WithRecordEvery(n int) Option {
	return func(e *Experiment) { e.recordEvery = n }
}

// WithMetrics replaces the standard metric set with the named metrics.
func WithMetrics(names ...string) Option {
	return func(e *Experiment) { e.metricNames = names }
}

func New(cfg *config.Config, opts ...Option) *Experiment {
	e := &Experiment{
		cfg:         cfg,
		registry:    NewRegistry(),
		logger:      log.New(io.Discard),
		recordEvery: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Setup builds the initial system and the engine. It must be called
// before Run.
func (e *Experiment) Setup() error {
	if err := e.cfg.Check(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	integ, err := e.registry.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}
	ms, err := e.newMetrics()
	if err != nil {
		return err
	}
	reg, err := e.build(e.cfg.Seed)
	if err != nil {
		return err
	}

	e.initial = reg
	e.engine = physics.NewEngine(physics.WithIntegrator(integ))
	e.simulator = sim.New(e.engine, sim.WithLogger(e.logger))
	for _, m := range ms {
		e.simulator.AddMetric(m)
	}
	e.logger.Debug("experiment ready", "scenario", e.cfg.Scenario, "bodies", len(reg), "integrator", integ.Name(), "seed", e.cfg.Seed)
	return nil
}

func (e *Experiment) newMetrics() ([]sim.Metric, error) {
	if len(e.metricNames) == 0 {
		return e.registry.DefaultMetrics(), nil
	}
	out := make([]sim.Metric, 0, len(e.metricNames))
	for _, name := range e.metricNames {
		m, err := e.registry.GetMetric(name)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (e *Experiment) build(seed int64) (dynamo.Registry, error) {
	p, err := e.registry.GetScenario(e.cfg.Scenario)
	if err != nil {
		return nil, err
	}
	reg, err := p.Build(e.cfg.Canvas.Width, e.cfg.Canvas.Height, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", p.Name, err)
	}
	return reg, nil
}

func (e *Experiment) simConfig() sim.Config {
	return sim.Config{
		Ticks:         e.cfg.Ticks,
		Engine:        e.cfg.Engine(),
		ValidateState: e.cfg.Validate,
		RecordEvery:   e.recordEvery,
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.initial, e.simConfig())
}

// RunEnsemble runs the scenario for seeds Seed, Seed+1, ... concurrently.
func (e *Experiment) RunEnsemble(ctx context.Context, runs int) ([]*sim.Result, error) {
	if e.engine == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	// names were checked by Setup
	factory := func() []sim.Metric {
		ms, _ := e.newMetrics()
		return ms
	}
	ens := sim.NewEnsemble(e.engine, factory, runs, e.cfg.Seed)
	return ens.Run(ctx, e.build, e.simConfig())
}

// Initial returns a copy of the system the run starts from.
func (e *Experiment) Initial() dynamo.Registry { return e.initial.Clone() }

func (e *Experiment) Engine() *physics.Engine { return e.engine }

// GetSimulator returns the underlying simulator for adding observers.
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
