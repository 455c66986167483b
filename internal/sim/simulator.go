package sim

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/san-kum/starmaker/internal/dynamo"
	"github.com/san-kum/starmaker/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

type Simulator struct {
	stepper   Stepper
	metrics   []Metric
	observers []Observer
	logger    *log.Logger
}

type Option func(*Simulator)

func WithLogger(l *log.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

func New(stepper Stepper, opts ...Option) *Simulator {
	s := &Simulator{
		stepper:   stepper,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run advances reg for cfg.Ticks ticks. The context is checked between
// ticks; on cancellation the partial result is returned with ctx.Err().
func (s *Simulator) Run(ctx context.Context, reg dynamo.Registry, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("initial state: %w", err)
	}

	every := cfg.RecordEvery
	if every <= 0 {
		every = 1
	}

	result := &Result{
		Samples: make([]Sample, 0, cfg.Ticks/every+1),
		Paths:   make(map[string][]r2.Vec, len(reg)),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	bodies := reg.Clone()
	initial := physics.SystemEnergy(bodies)
	result.record(0, 0, bodies, initial)

	s.logger.Debug("run started", "bodies", len(bodies), "ticks", cfg.Ticks, "collisions", cfg.Engine.EnableCollisions)

	for i := 1; i <= cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			result.Final = bodies
			return result, ctx.Err()
		default:
		}

		t := float64(i) * physics.TimeStep
		res := s.stepper.Step(bodies, cfg.Engine)

		if cfg.ValidateState && !res.Bodies.IsValid() {
			err := SimError{Time: t, Tick: i, Message: "invalid state (NaN/Inf)"}
			s.logger.Warn("stopping run", "err", err)
			result.Errors = append(result.Errors, err)
			break
		}

		for _, m := range res.Merges {
			s.logger.Debug("merge", "tick", i, "id", m.ID, "members", len(m.Members))
		}
		result.Merges = append(result.Merges, res.Merges...)

		for _, m := range s.metrics {
			m.Observe(res, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(i, t, res)
		}

		bodies = res.Bodies
		result.TicksTaken++

		if i%every == 0 || i == cfg.Ticks {
			result.record(i, t, bodies, res.Energy)
		}
	}

	result.Final = bodies

	final := physics.SystemEnergy(bodies)
	if initial.Total() != 0 {
		result.EnergyDrift = math.Abs(final.Total()-initial.Total()) / math.Abs(initial.Total())
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Debug("run finished", "ticks", result.TicksTaken, "bodies", len(bodies), "merges", len(result.Merges))
	return result, nil
}

func (r *Result) record(tick int, t float64, bodies dynamo.Registry, e dynamo.Energy) {
	r.Samples = append(r.Samples, Sample{
		Tick:   tick,
		Time:   t,
		Energy: e,
		Bodies: len(bodies),
		Mass:   bodies.TotalMass(),
	})
	for _, b := range bodies {
		r.Paths[b.ID] = append(r.Paths[b.ID], b.Pos)
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", cfg.Ticks)
	}
	if cfg.RecordEvery < 0 {
		return fmt.Errorf("record interval must not be negative, got %d", cfg.RecordEvery)
	}
	return nil
}

// RunWithCallback steps until the callback returns false, the context is
// cancelled or cfg.Ticks is reached (when positive). The callback sees
// every tick's result.
func (s *Simulator) RunWithCallback(ctx context.Context, reg dynamo.Registry, cfg Config, callback func(tick int, res dynamo.StepResult) bool) error {
	if cfg.RecordEvery < 0 {
		return fmt.Errorf("record interval must not be negative, got %d", cfg.RecordEvery)
	}

	bodies := reg.Clone()
	for i := 1; cfg.Ticks <= 0 || i <= cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		res := s.stepper.Step(bodies, cfg.Engine)
		if cfg.ValidateState && !res.Bodies.IsValid() {
			return SimError{Time: float64(i) * physics.TimeStep, Tick: i, Message: "invalid state (NaN/Inf)"}
		}
		bodies = res.Bodies

		if !callback(i, res) {
			return nil
		}
	}

	return nil
}
