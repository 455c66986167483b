package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/starmaker/internal/integrators"
	"github.com/san-kum/starmaker/internal/metrics"
	"github.com/san-kum/starmaker/internal/scenario"
	"github.com/san-kum/starmaker/internal/sim"
)

// Registry resolves the names a run configuration refers to.
type Registry struct {
	metrics map[string]func() sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{metrics: make(map[string]func() sim.Metric)}

	r.metrics["energy"] = func() sim.Metric { return metrics.NewEnergy() }
	r.metrics["energy_drift"] = func() sim.Metric { return metrics.NewEnergyDrift() }
	r.metrics["merges"] = func() sim.Metric { return metrics.NewMergeCount() }
	r.metrics["total_mass"] = func() sim.Metric { return metrics.NewTotalMass() }
	r.metrics["momentum_drift"] = func() sim.Metric { return metrics.NewMomentumDrift() }

	return r
}

func (r *Registry) GetScenario(name string) (scenario.Preset, error) {
	return scenario.Get(name)
}

func (r *Registry) GetIntegrator(name string) (integrators.Integrator, error) {
	return integrators.Get(name)
}

func (r *Registry) GetMetric(name string) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListScenarios() []string   { return scenario.Names() }
func (r *Registry) ListIntegrators() []string { return integrators.Names() }

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns a fresh copy of the standard metric set.
func (r *Registry) DefaultMetrics() []sim.Metric {
	return metrics.Default()
}
