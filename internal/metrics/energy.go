package metrics

import (
	"math"

	"github.com/san-kum/starmaker/internal/dynamo"
)

// Energy reports the mean total energy over observed ticks.
type Energy struct {
	name    string
	samples int
	total   float64
	last    dynamo.Energy
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(res dynamo.StepResult, t float64) {
	e.last = res.Energy
	e.total += res.Energy.Total()
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

// Last is the energy of the most recent tick.
func (e *Energy) Last() dynamo.Energy { return e.last }

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
	e.last = dynamo.Energy{}
}

// EnergyDrift is the largest relative deviation of total energy from the
// first observed tick.
type EnergyDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(res dynamo.StepResult, t float64) {
	energy := res.Energy.Total()

	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
