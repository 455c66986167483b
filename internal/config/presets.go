package config

import "sort"

// Presets are named run configurations per scenario.
var Presets = map[string]map[string]*Config{
	"solar": {
		"year": {
			Scenario: "solar", Integrator: "leapfrog", Ticks: 12000,
			Settings: SettingsConfig{ShowTrails: true, EnableCollisions: true},
		},
		"decade": {
			Scenario: "solar", Integrator: "leapfrog", Ticks: 120000, Workers: 2,
			Settings: SettingsConfig{ShowTrails: true, EnableCollisions: true},
		},
	},
	"binary": {
		"dance": {
			Scenario: "binary", Integrator: "leapfrog", Ticks: 8000,
			Settings: SettingsConfig{ShowTrails: true, ShowForces: true, EnableCollisions: true},
		},
		"ghost": {
			Scenario: "binary", Integrator: "leapfrog", Ticks: 8000,
			Settings: SettingsConfig{ShowTrails: true},
		},
	},
	"asteroid": {
		"belt": {
			Scenario: "asteroid", Integrator: "leapfrog", Ticks: 10000, Seed: 1,
			Settings: SettingsConfig{ShowTrails: true, EnableCollisions: true},
		},
		"compare": {
			Scenario: "asteroid", Integrator: "symplectic", Ticks: 10000, Seed: 1,
			Settings: SettingsConfig{ShowTrails: true, EnableCollisions: true},
		},
	},
	"galaxy": {
		"swirl": {
			Scenario: "galaxy", Integrator: "leapfrog", Ticks: 6000, Seed: 7, Workers: 4,
			Settings: SettingsConfig{ShowTrails: true, EnableCollisions: true},
		},
		"collisionless": {
			Scenario: "galaxy", Integrator: "leapfrog", Ticks: 6000, Seed: 7, Workers: 4,
			Settings: SettingsConfig{ShowTrails: true},
		},
	},
}

// GetPreset returns a copy of the named preset filled in over the
// defaults, or nil.
func GetPreset(scenario, preset string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	p, ok := scenarioPresets[preset]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.Scenario = p.Scenario
	cfg.Integrator = p.Integrator
	cfg.Ticks = p.Ticks
	cfg.Seed = p.Seed
	cfg.Settings = p.Settings
	if p.Workers > 0 {
		cfg.Workers = p.Workers
	}
	return cfg
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
