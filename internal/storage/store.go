package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/starmaker/internal/config"
	"github.com/san-kum/starmaker/internal/dynamo"
	"github.com/san-kum/starmaker/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	metadataFile = "metadata.json"
	energyFile   = "energy.csv"
	pathsFile    = "paths.csv"
	finalFile    = "final.json"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Scenario   string             `json:"scenario"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Ticks      int                `json:"ticks"`
	TimeStep   float64            `json:"dt"`
	Integrator string             `json:"integrator"`
	Collisions bool               `json:"collisions"`
	Bodies     int                `json:"bodies"`
	Survivors  int                `json:"survivors"`
	Merges     int                `json:"merges"`
	Drift      float64            `json:"energy_drift"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Sample is one row of a stored energy series.
type Sample struct {
	Tick      int
	Time      float64
	Kinetic   float64
	Potential float64
	Total     float64
	Bodies    int
}

// Save writes a run directory holding metadata, the energy series, the
// sampled body paths and the final system. meta.ID is assigned.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	meta.ID = fmt.Sprintf("%s_%s", meta.Scenario, uuid.NewString()[:8])
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if len(result.Samples) > 0 {
		meta.Bodies = result.Samples[0].Bodies
	}
	meta.Survivors = len(result.Final)
	meta.Merges = len(result.Merges)
	meta.Drift = result.EnergyDrift
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeEnergy(filepath.Join(runDir, energyFile), result.Samples); err != nil {
		return "", err
	}
	if err := writePaths(filepath.Join(runDir, pathsFile), result.Paths); err != nil {
		return "", err
	}

	final := NewSystem(result.Final, config.DefaultCamera(), config.SettingsConfig{ShowTrails: true, EnableCollisions: meta.Collisions}, meta.Timestamp)
	if err := SaveSystem(filepath.Join(runDir, finalFile), final); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeEnergy(path string, samples []sim.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"tick", "time", "kinetic", "potential", "total", "bodies"}); err != nil {
		return err
	}
	for _, smp := range samples {
		row := []string{
			strconv.Itoa(smp.Tick),
			formatFloat(smp.Time),
			formatFloat(smp.Energy.Kinetic),
			formatFloat(smp.Energy.Potential),
			formatFloat(smp.Energy.Total()),
			strconv.Itoa(smp.Bodies),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writePaths(path string, paths map[string][]r2.Vec) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ids := make([]string, 0, len(paths))
	for id := range paths {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "x", "y"}); err != nil {
		return err
	}
	for _, id := range ids {
		for _, p := range paths[id] {
			if err := w.Write([]string{id, formatFloat(p.X), formatFloat(p.Y)}); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the metadata of every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, nil
	}
	return records[1:], nil
}

// LoadSeries reads the energy series of a run. Malformed rows are skipped.
func (s *Store) LoadSeries(runID string) ([]Sample, error) {
	rows, err := readCSV(filepath.Join(s.baseDir, runID, energyFile))
	if err != nil {
		return nil, err
	}

	samples := make([]Sample, 0, len(rows))
	for _, row := range rows {
		if len(row) < 6 {
			continue
		}
		tick, err1 := strconv.Atoi(row[0])
		bodies, err2 := strconv.Atoi(row[5])
		vals := make([]float64, 4)
		var errF error
		for i := range vals {
			if vals[i], errF = strconv.ParseFloat(row[i+1], 64); errF != nil {
				break
			}
		}
		if err1 != nil || err2 != nil || errF != nil {
			continue
		}
		samples = append(samples, Sample{
			Tick:      tick,
			Time:      vals[0],
			Kinetic:   vals[1],
			Potential: vals[2],
			Total:     vals[3],
			Bodies:    bodies,
		})
	}
	return samples, nil
}

// LoadPaths reads the sampled positions of every body of a run.
func (s *Store) LoadPaths(runID string) (map[string][]r2.Vec, error) {
	rows, err := readCSV(filepath.Join(s.baseDir, runID, pathsFile))
	if err != nil {
		return nil, err
	}

	paths := make(map[string][]r2.Vec)
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		x, errX := strconv.ParseFloat(row[1], 64)
		y, errY := strconv.ParseFloat(row[2], 64)
		if errX != nil || errY != nil {
			continue
		}
		paths[row[0]] = append(paths[row[0]], r2.Vec{X: x, Y: y})
	}
	return paths, nil
}

// LoadFinal reads the system a run ended with.
func (s *Store) LoadFinal(runID string) (*System, dynamo.Registry, error) {
	return LoadSystem(filepath.Join(s.baseDir, runID, finalFile))
}
