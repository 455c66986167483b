package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/starmaker/internal/sim"
)

type ExportData struct {
	Scenario   string             `json:"scenario"`
	Integrator string             `json:"integrator"`
	TimeStep   float64            `json:"dt"`
	Ticks      int                `json:"ticks"`
	Times      []float64          `json:"times"`
	Kinetic    []float64          `json:"kinetic"`
	Potential  []float64          `json:"potential"`
	Bodies     []int              `json:"bodies"`
	Final      []BodyRecord       `json:"final"`
	Metrics    map[string]float64 `json:"metrics"`
}

func NewExportData(scenario, integrator string, dt float64, result *sim.Result) ExportData {
	data := ExportData{
		Scenario:   scenario,
		Integrator: integrator,
		TimeStep:   dt,
		Ticks:      result.TicksTaken,
		Times:      result.Times(),
		Kinetic:    make([]float64, len(result.Samples)),
		Potential:  make([]float64, len(result.Samples)),
		Bodies:     make([]int, len(result.Samples)),
		Final:      make([]BodyRecord, len(result.Final)),
		Metrics:    result.Metrics,
	}

	for i, s := range result.Samples {
		data.Kinetic[i] = s.Energy.Kinetic
		data.Potential[i] = s.Energy.Potential
		data.Bodies[i] = s.Bodies
	}
	for i, b := range result.Final {
		data.Final[i] = ToRecord(b)
	}
	return data
}

// ExportJSON writes the run as one indented JSON document.
func ExportJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
