package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/starmaker/internal/analysis"
	"github.com/san-kum/starmaker/internal/config"
	"github.com/san-kum/starmaker/internal/experiment"
	"github.com/san-kum/starmaker/internal/export"
	"github.com/san-kum/starmaker/internal/physics"
	"github.com/san-kum/starmaker/internal/scenario"
	"github.com/san-kum/starmaker/internal/sim"
	"github.com/san-kum/starmaker/internal/storage"
	"github.com/san-kum/starmaker/internal/viz"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"
)

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	paths, err := st.LoadPaths(runID)
	if err != nil {
		return err
	}
	_, final, err := st.LoadFinal(runID)
	if err != nil {
		return err
	}

	primary := primaryID
	if primary == "" {
		idx, ok := final.MostMassive()
		if !ok || len(paths[final[idx].ID]) != len(series) {
			return fmt.Errorf("no body lasted the whole run, pick one with --primary")
		}
		primary = final[idx].ID
	}
	if _, ok := paths[primary]; !ok {
		return fmt.Errorf("unknown body: %s", primary)
	}

	body := bodyID
	if body == "" {
		ids := make([]string, 0, len(paths))
		for id, p := range paths {
			if id != primary && len(p) >= 2 {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			return fmt.Errorf("no body to analyze")
		}
		sort.Strings(ids)
		body = ids[0]
	}
	if _, ok := paths[body]; !ok {
		return fmt.Errorf("unknown body: %s", body)
	}

	dt := meta.TimeStep
	if len(series) >= 2 {
		dt = series[1].Time - series[0].Time
	}
	orbit := analysis.TrackOrbit(paths[body], paths[primary], dt)
	if len(orbit.Radii) < 2 {
		return fmt.Errorf("not enough samples")
	}

	fmt.Printf("orbit analysis: %s\n", meta.ID)
	fmt.Printf("body: %s around %s (%d samples)\n\n", body, primary, len(orbit.Radii))

	graph := asciigraph.Plot(orbit.Radii,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("distance to primary"),
	)
	fmt.Println(graph)
	fmt.Println()

	fmt.Println(analysis.PortraitToASCII(orbit, 70, 20))
	fmt.Println("radius (x) vs radial speed (y)")
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "periapsis\t%.2f\n", orbit.Periapsis)
	fmt.Fprintf(w, "apoapsis\t%.2f\n", orbit.Apoapsis)
	fmt.Fprintf(w, "eccentricity\t%.4f\n", orbit.Eccentricity())
	if period, ok := analysis.DominantPeriod(orbit.Radii, dt); ok {
		fmt.Fprintf(w, "radial period\t%.3f (%d ticks)\n", period, int(math.Round(period/meta.TimeStep)))
	} else {
		fmt.Fprintf(w, "radial period\tnone found\n")
	}
	return w.Flush()
}

func runLyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	exp, err := newExperiment(cfg)
	if err != nil {
		return err
	}

	reg := exp.Initial()
	index := 0
	if bodyID != "" {
		if index = reg.IndexOf(bodyID); index < 0 {
			return fmt.Errorf("unknown body: %s", bodyID)
		}
	}

	fmt.Printf("lyapunov: %s, displacing %s by %g for %d ticks\n", cfg.Scenario, reg[index].ID, perturb, cfg.Ticks)
	start := time.Now()
	lambda := analysis.LyapunovExponent(exp.Engine(), reg, cfg.Engine(), index, perturb, cfg.Ticks)
	fmt.Printf("exponent: %.6f (%v)\n", lambda, time.Since(start))
	if lambda > 0 {
		fmt.Println("nearby starts diverge: chaotic")
	} else {
		fmt.Println("nearby starts stay close: regular")
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	exp, err := newExperiment(cfg)
	if err != nil {
		return err
	}

	points := analysis.SpeedSweep(exp.Engine(), exp.Initial(), cfg.Engine(), distance, sweepLo, sweepHi, sweepN, cfg.Ticks)
	if len(points) == 0 {
		return fmt.Errorf("nothing to sweep")
	}

	fmt.Printf("speed sweep: %s at distance %.0f for %d ticks\n\n", cfg.Scenario, distance, cfg.Ticks)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPEED\tPREDICTED\tPERIAPSIS\tAPOAPSIS\tMERGED")
	for _, p := range points {
		fmt.Fprintf(w, "%.2fx\t%s\t%.1f\t%.1f\t%t\n", p.Multiplier, p.Fate, p.Periapsis, p.Apoapsis, p.Merged)
	}
	return w.Flush()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[:1])
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators for %s (%d ticks)\n\n", cfg.Scenario, cfg.Ticks)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tDRIFT\tSURVIVORS\tTIME\tENERGY")

	for _, intName := range args[1:] {
		cfg.Integrator = intName
		exp, err := newExperiment(cfg, experiment.WithRecordEvery(max(cfg.Ticks/60, 1)))
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", intName, err)
			continue
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", intName, err)
			continue
		}

		fmt.Fprintf(w, "%s\t%.2e\t%d\t%.1fms\t%s\n", intName, result.EnergyDrift, len(result.Final),
			float64(elapsed.Microseconds())/1000, viz.Sparkline(result.Energies(), 30))
	}
	return w.Flush()
}

func benchScenario(cmd *cobra.Command, args []string) error {
	n, err := cmd.Flags().GetInt("ticks")
	if err != nil {
		return err
	}
	runs, err := cmd.Flags().GetInt("runs")
	if err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	cfg.Scenario = args[0]
	cfg.Ticks = n
	cfg.Validate = false

	fmt.Printf("benchmarking %s\n\n", cfg.Scenario)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tRUNS\tBODIES\tTICKS\tTIME\tTICKS/SEC")

	for _, nw := range []int{1, 2, 4, 8} {
		cfg.Workers = nw
		exp, err := newExperiment(cfg, experiment.WithRecordEvery(n))
		if err != nil {
			return err
		}
		start := time.Now()
		result, err := exp.Run(context.Background())
		if err != nil {
			return err
		}
		elapsed := time.Since(start)
		fmt.Fprintf(w, "%d\t1\t%d\t%d\t%v\t%.0f\n", nw, len(exp.Initial()), result.TicksTaken, elapsed,
			float64(result.TicksTaken)/elapsed.Seconds())
	}

	if runs > 0 {
		cfg.Workers = 1
		exp, err := newExperiment(cfg, experiment.WithRecordEvery(n))
		if err != nil {
			return err
		}
		start := time.Now()
		results, err := exp.RunEnsemble(context.Background(), runs)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)
		total := 0
		for _, r := range results {
			total += r.TicksTaken
		}
		fmt.Fprintf(w, "1\t%d\t%d\t%d\t%v\t%.0f\n", runs, len(exp.Initial()), total, elapsed,
			float64(total)/elapsed.Seconds())
	}
	return w.Flush()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	paths, err := st.LoadPaths(runID)
	if err != nil {
		return err
	}
	_, final, err := st.LoadFinal(runID)
	if err != nil {
		return err
	}

	tracks := export.Tracks(nil, &sim.Result{Paths: paths, Final: final})
	svg := export.TrajectoryToSVG(tracks, int(config.DefaultWidth), int(config.DefaultHeight))
	if svg == "" {
		return fmt.Errorf("no paths recorded")
	}

	if outputPath == "" {
		fmt.Println(svg)
		return nil
	}
	if err := os.WriteFile(outputPath, []byte(svg), 0644); err != nil {
		return err
	}
	logger.Info("svg written", "path", outputPath, "tracks", len(tracks))
	return nil
}

func newSystem(cmd *cobra.Command, args []string) error {
	reg, err := scenario.Build(args[0], config.DefaultWidth, config.DefaultHeight, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}
	sys := storage.NewSystem(reg, config.DefaultCamera(), config.DefaultSettings(), time.Now())
	if err := storage.SaveSystem(args[1], sys); err != nil {
		return err
	}
	fmt.Printf("wrote %s with %d bodies\n", args[1], len(reg))
	return nil
}

func addBody(cmd *cobra.Command, args []string) error {
	sys, reg, err := storage.LoadSystem(args[0])
	if err != nil {
		return err
	}
	mu, err := physics.ParseMassUnit(massUnit)
	if err != nil {
		return err
	}
	vu, err := physics.ParseVelocityUnit(speedUnit)
	if err != nil {
		return err
	}

	pos := r2.Vec{X: posX, Y: posY}
	if f := cmd.Flags(); f.Changed("screen-x") || f.Changed("screen-y") {
		pos.X, pos.Y = sys.Camera.ToWorld(screenX, screenY)
	}
	reg, b, err := physics.PlaceBody(reg, physics.BodySpec{
		ID:      id,
		Pos:     pos,
		Mass:    physics.ConvertMass(mass, mu),
		Density: density,
		Color:   color,
	}, speed, vu)
	if err != nil {
		return err
	}

	out := storage.NewSystem(reg, sys.Camera, sys.Settings, time.Now())
	if err := storage.SaveSystem(args[0], out); err != nil {
		return err
	}

	fmt.Printf("added %s (%.2f Earth masses, radius %.1f px) at (%.0f, %.0f)\n",
		b.ID, physics.EarthMasses(b.Mass), b.Radius.Visual, b.Pos.X, b.Pos.Y)
	fmt.Printf("velocity (%.3f, %.3f)\n", b.Vel.X, b.Vel.Y)
	if idx, ok := reg.MostMassive(); ok && reg[idx].ID != b.ID {
		central := reg[idx]
		d := r2.Norm(r2.Sub(pos, central.Pos))
		k, fate := physics.OrbitFate(r2.Norm(r2.Sub(b.Vel, central.Vel)), physics.OrbitalVelocity(central, d))
		fmt.Printf("%.2fx circular speed around %s: %s\n", k, central.ID, fate)
	}
	return nil
}

func suggestVelocity(cmd *cobra.Command, args []string) error {
	_, reg, err := storage.LoadSystem(args[0])
	if err != nil {
		return err
	}
	idx, ok := reg.MostMassive()
	if !ok {
		return fmt.Errorf("system is empty")
	}
	central := reg[idx]

	pos := r2.Vec{X: posX, Y: posY}
	d := r2.Norm(r2.Sub(pos, central.Pos))
	v := physics.SuggestOrbitalVelocity(reg, pos)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "primary\t%s\n", central.ID)
	fmt.Fprintf(w, "distance\t%.1f\n", d)
	if d < physics.MinOrbitDistance {
		fmt.Fprintf(w, "suggested\ttoo close for an orbit\n")
		return w.Flush()
	}
	fmt.Fprintf(w, "suggested\t(%.3f, %.3f)\n", v.X, v.Y)
	fmt.Fprintf(w, "circular speed\t%.3f\n", r2.Norm(v))
	fmt.Fprintf(w, "escape velocity\t%.1f km/s\n", physics.EscapeVelocity(central, d)/1000)

	if cmd.Flags().Changed("speed") {
		vu, err := physics.ParseVelocityUnit(speedUnit)
		if err != nil {
			return err
		}
		launch := physics.InitialVelocity(reg, pos, speed, vu)
		k, fate := physics.OrbitFate(r2.Norm(launch), r2.Norm(v))
		fmt.Fprintf(w, "launch\t(%.3f, %.3f)\n", launch.X, launch.Y)
		fmt.Fprintf(w, "fate\t%.2fx circular: %s\n", k, fate)
	}
	return w.Flush()
}

func convertUnits(cmd *cobra.Command, args []string) error {
	value, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", args[1], err)
	}

	switch args[0] {
	case "mass":
		u, err := physics.ParseMassUnit(args[2])
		if err != nil {
			return err
		}
		kg := physics.ConvertMass(value, u)
		fmt.Printf("%g %s = %.6g kg = %.6g Earth masses\n", value, u, kg, physics.EarthMasses(kg))
	case "velocity":
		u, err := physics.ParseVelocityUnit(args[2])
		if err != nil {
			return err
		}
		ms := physics.ConvertVelocity(value, u)
		fmt.Printf("%g %s = %.6g m/s = %.6g km/s\n", value, u, ms, ms/1000)
	default:
		return fmt.Errorf("unknown quantity %q, want mass or velocity", args[0])
	}
	return nil
}
