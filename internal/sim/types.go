package sim

import (
	"fmt"

	"github.com/san-kum/starmaker/internal/dynamo"
	"github.com/san-kum/starmaker/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// Stepper advances a registry by one tick. *physics.Engine implements it.
type Stepper interface {
	Step(reg dynamo.Registry, cfg physics.Config) dynamo.StepResult
}

type Metric interface {
	Name() string
	Observe(res dynamo.StepResult, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(tick int, t float64, res dynamo.StepResult)
}

type Config struct {
	Ticks  int
	Engine physics.Config
	// ValidateState stops the run at the first NaN or Inf.
	ValidateState bool
	// RecordEvery samples energy and positions every N ticks; 0 means 1.
	RecordEvery int
}

func DefaultConfig() Config {
	return Config{
		Ticks:         5000,
		Engine:        physics.DefaultConfig(),
		ValidateState: true,
		RecordEvery:   1,
	}
}

// Sample is one recorded point of the energy series.
type Sample struct {
	Tick   int
	Time   float64
	Energy dynamo.Energy
	Bodies int
	Mass   float64
}

type Result struct {
	Samples []Sample
	// Paths holds the sampled positions of every body that ever existed,
	// keyed by id.
	Paths      map[string][]r2.Vec
	Final      dynamo.Registry
	Merges     []dynamo.Merge
	TicksTaken int
	// EnergyDrift is |E_end - E_start| / |E_start| of the total energy.
	EnergyDrift float64
	Metrics     map[string]float64
	Errors      []error
}

// Energies returns the total energy of each sample.
func (r *Result) Energies() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Energy.Total()
	}
	return out
}

// Times returns the simulated time of each sample.
func (r *Result) Times() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Time
	}
	return out
}

type SimError struct {
	Time    float64
	Tick    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f): %s", e.Tick, e.Time, e.Message)
}
