package automation

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/starmaker/internal/config"
	"github.com/san-kum/starmaker/internal/experiment"
	"github.com/san-kum/starmaker/internal/physics"
	"github.com/san-kum/starmaker/internal/sim"
	"github.com/san-kum/starmaker/internal/storage"
)

// Script is a scripted sequence of runs.
type Script struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one run of a script. Zero fields keep the value of the preset, or
// of the defaults when no preset is named.
type Step struct {
	Scenario   string `yaml:"scenario"`
	Preset     string `yaml:"preset"`
	Integrator string `yaml:"integrator"`
	Ticks      int    `yaml:"ticks"`
	Seed       int64  `yaml:"seed"`
	Workers    int    `yaml:"workers"`
	Collisions *bool  `yaml:"collisions"`
	// SaveAs writes the final system to this path.
	SaveAs string `yaml:"save_as"`
}

// LoadScript loads a script from a YAML file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, err
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("script %s has no steps", path)
	}
	return &script, nil
}

// Config resolves the run configuration of a step.
func (s Step) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Scenario != "" {
		cfg.Scenario = s.Scenario
	}
	if s.Preset != "" {
		p := config.GetPreset(cfg.Scenario, s.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
		cfg = p
	}
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Ticks > 0 {
		cfg.Ticks = s.Ticks
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.Workers > 0 {
		cfg.Workers = s.Workers
	}
	if s.Collisions != nil {
		cfg.Settings.EnableCollisions = *s.Collisions
	}
	return cfg, cfg.Check()
}

// StepResult is the outcome of one script step.
type StepResult struct {
	Scenario string
	// RunID is set when the run was saved to a store.
	RunID  string
	Result *sim.Result
}

// Runner executes scripts and sweeps.
type Runner struct {
	store  *storage.Store
	logger *log.Logger
}

type Option func(*Runner)

// WithStore saves every run into st.
func WithStore(st *storage.Store) Option {
	return func(r *Runner) { r.store = st }
}

func WithLogger(l *log.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

func NewRunner(opts ...Option) *Runner {
	r := &Runner{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunScript executes all steps in order and stops at the first failure,
// returning the results of the steps that completed.
func (r *Runner) RunScript(ctx context.Context, script *Script) ([]StepResult, error) {
	results := make([]StepResult, 0, len(script.Steps))

	for i, step := range script.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		r.logger.Info("running step", "step", i+1, "of", len(script.Steps), "scenario", cfg.Scenario)

		exp := experiment.New(cfg, experiment.WithLogger(r.logger))
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Scenario: cfg.Scenario, Result: result}
		if r.store != nil {
			sr.RunID, err = r.store.Save(storage.RunMetadata{
				Scenario:   cfg.Scenario,
				Seed:       cfg.Seed,
				Ticks:      result.TicksTaken,
				TimeStep:   physics.TimeStep,
				Integrator: exp.Engine().Integrator(),
				Collisions: cfg.Settings.EnableCollisions,
			}, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		if step.SaveAs != "" {
			sys := storage.NewSystem(result.Final, cfg.Camera, cfg.Settings, time.Now())
			if err := storage.SaveSystem(step.SaveAs, sys); err != nil {
				return results, fmt.Errorf("step %d save_as: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// SeedSweep runs one configuration over consecutive seeds.
type SeedSweep struct {
	Config *config.Config
	Runs   int
}

// SweepResult summarizes one seed of a sweep.
type SweepResult struct {
	Seed      int64
	Survivors int
	Merges    int
	MinEnergy float64
	MaxEnergy float64
	Drift     float64
}

// RunSweep runs every seed concurrently and summarizes each run in seed
// order.
func (r *Runner) RunSweep(ctx context.Context, sweep SeedSweep) ([]SweepResult, error) {
	if sweep.Runs <= 0 {
		return nil, fmt.Errorf("sweep needs at least one run, got %d", sweep.Runs)
	}
	exp := experiment.New(sweep.Config, experiment.WithLogger(r.logger))
	if err := exp.Setup(); err != nil {
		return nil, err
	}
	runs, err := exp.RunEnsemble(ctx, sweep.Runs)
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(runs))
	for i, res := range runs {
		sr := SweepResult{
			Seed:      sweep.Config.Seed + int64(i),
			Survivors: len(res.Final),
			Merges:    len(res.Merges),
			Drift:     res.EnergyDrift,
		}
		for j, e := range res.Energies() {
			if j == 0 || e < sr.MinEnergy {
				sr.MinEnergy = e
			}
			if j == 0 || e > sr.MaxEnergy {
				sr.MaxEnergy = e
			}
		}
		results[i] = sr
		r.logger.Debug("sweep run", "seed", sr.Seed, "survivors", sr.Survivors, "merges", sr.Merges)
	}
	return results, nil
}
