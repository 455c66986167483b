package metrics

import (
	"math"

	"github.com/san-kum/starmaker/internal/dynamo"
	"github.com/san-kum/starmaker/internal/physics"
	"github.com/san-kum/starmaker/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
)

// MergeCount counts collision products.
type MergeCount struct {
	count int
}

func NewMergeCount() *MergeCount { return &MergeCount{} }

func (m *MergeCount) Name() string { return "merges" }

func (m *MergeCount) Observe(res dynamo.StepResult, t float64) {
	m.count += len(res.Merges)
}

func (m *MergeCount) Value() float64 { return float64(m.count) }
func (m *MergeCount) Reset()         { m.count = 0 }

// TotalMass reports the current total mass in Earth masses.
type TotalMass struct {
	mass float64
}

func NewTotalMass() *TotalMass { return &TotalMass{} }

func (m *TotalMass) Name() string { return "total_mass" }

func (m *TotalMass) Observe(res dynamo.StepResult, t float64) {
	m.mass = physics.EarthMasses(res.Bodies.TotalMass())
}

func (m *TotalMass) Value() float64 { return m.mass }
func (m *TotalMass) Reset()         { m.mass = 0 }

// MomentumDrift is the largest change of the total momentum magnitude,
// relative to the total mass so it stays meaningful at zero momentum.
type MomentumDrift struct {
	initial  r2.Vec
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift { return &MomentumDrift{} }

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(res dynamo.StepResult, t float64) {
	p := res.Bodies.Momentum()
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++

	mass := res.Bodies.TotalMass()
	if mass > 0 {
		drift := r2.Norm(r2.Sub(p, m.initial)) / mass
		m.maxDrift = math.Max(m.maxDrift, drift)
	}
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = r2.Vec{}
	m.maxDrift = 0
	m.samples = 0
}

// Default is the metric set every run records.
func Default() []sim.Metric {
	return []sim.Metric{NewEnergy(), NewEnergyDrift(), NewMergeCount(), NewTotalMass(), NewMomentumDrift()}
}
