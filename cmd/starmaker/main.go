package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/starmaker/internal/automation"
	"github.com/san-kum/starmaker/internal/config"
	"github.com/san-kum/starmaker/internal/dynamo"
	"github.com/san-kum/starmaker/internal/experiment"
	"github.com/san-kum/starmaker/internal/metrics"
	"github.com/san-kum/starmaker/internal/physics"
	"github.com/san-kum/starmaker/internal/storage"
	"github.com/san-kum/starmaker/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	verbose bool

	ticks         int
	seed          int64
	integrator    string
	workers       int
	noCollisions  bool
	recordEvery   int
	configFile    string
	preset        string
	exportPath    string
	systemPath    string
	outputPath    string
	stepsPerFrame int
	theme         string
	metricNames   []string

	// analysis
	bodyID    string
	primaryID string
	sweepLo   float64
	sweepHi   float64
	sweepN    int
	distance  float64
	perturb   float64
	runs      int

	// placement
	posX, posY float64
	screenX    float64
	screenY    float64
	mass       float64
	massUnit   string
	speed      float64
	speedUnit  string
	density    float64
	color      string
	id         string
)

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "starmaker"})

func main() {
	rootCmd := &cobra.Command{
		Use:   "starmaker",
		Short: "2D gravitational planet simulator",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd, []string{config.DefaultScenario})
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".starmaker", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().IntVar(&recordEvery, "record-every", 1, "sample every n ticks")
	runCmd.Flags().StringVar(&exportPath, "export", "", "also write the run as JSON to this path")
	runCmd.Flags().StringSliceVar(&metricNames, "metrics", nil,
		fmt.Sprintf("metrics to record (%s)", strings.Join(experiment.NewRegistry().ListMetrics(), ", ")))

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and body count of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the energy series of a run to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "orbit and period analysis of one body",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&bodyID, "body", "", "body to analyze (default: first non-primary)")
	analyzeCmd.Flags().StringVar(&primaryID, "primary", "", "body orbited (default: most massive survivor)")

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov [scenario]",
		Short: "estimate the largest Lyapunov exponent of a scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runLyapunov,
	}
	addRunFlags(lyapunovCmd)
	lyapunovCmd.Flags().Float64Var(&perturb, "d0", 1e-3, "initial displacement")
	lyapunovCmd.Flags().StringVar(&bodyID, "body", "", "body to displace (default: first)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "launch a test body at a range of speeds and report its fate",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&distance, "distance", 150, "launch distance from the primary")
	sweepCmd.Flags().Float64Var(&sweepLo, "lo", 0.5, "lowest speed, as a multiple of circular")
	sweepCmd.Flags().Float64Var(&sweepHi, "hi", 1.6, "highest speed, as a multiple of circular")
	sweepCmd.Flags().IntVar(&sweepN, "steps", 12, "number of speeds")

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list scenarios, or the run presets of one scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a scenario with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().StringVar(&systemPath, "system", "", "open a saved system file instead of a scenario")
	liveCmd.Flags().StringVar(&outputPath, "save", "", "save the system to this file on exit")
	liveCmd.Flags().IntVar(&stepsPerFrame, "speed", 1, "ticks per frame")
	liveCmd.Flags().StringVar(&theme, "theme", viz.ThemeDeepSpace.Name,
		fmt.Sprintf("color theme (%s)", strings.Join(viz.ThemeNames(), ", ")))

	compareCmd := &cobra.Command{
		Use:   "compare [scenario] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same scenario",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addRunFlags(compareCmd)

	benchCmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "benchmark tick throughput",
		Args:  cobra.ExactArgs(1),
		RunE:  benchScenario,
	}
	benchCmd.Flags().IntVar(&ticks, "ticks", 2000, "ticks per measurement")
	benchCmd.Flags().IntVar(&runs, "runs", 4, "concurrent seeded runs for the ensemble row")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render the body paths of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default stdout)")

	newCmd := &cobra.Command{
		Use:   "new [scenario] [file]",
		Short: "write a scenario as a system file",
		Args:  cobra.ExactArgs(2),
		RunE:  newSystem,
	}
	newCmd.Flags().Int64Var(&seed, "seed", 0, "random seed")

	addCmd := &cobra.Command{
		Use:   "add [file]",
		Short: "place a body into a system file",
		Args:  cobra.ExactArgs(1),
		RunE:  addBody,
	}
	addPlacementFlags(addCmd)
	addCmd.Flags().StringVar(&id, "id", "", "body id (default: random)")
	addCmd.Flags().Float64Var(&screenX, "screen-x", 0, "x on screen, mapped through the system camera (overrides --x)")
	addCmd.Flags().Float64Var(&screenY, "screen-y", 0, "y on screen, mapped through the system camera (overrides --y)")
	addCmd.Flags().Float64Var(&density, "density", physics.DefaultDensity, "density in g/cm³")
	addCmd.Flags().StringVar(&color, "color", physics.DefaultColor, "body color")

	suggestCmd := &cobra.Command{
		Use:   "suggest [file]",
		Short: "suggest an orbital velocity for a point in a system file",
		Args:  cobra.ExactArgs(1),
		RunE:  suggestVelocity,
	}
	addPlacementFlags(suggestCmd)

	convertCmd := &cobra.Command{
		Use:   "convert [mass|velocity] [value] [unit]",
		Short: "convert a mass or velocity to SI units",
		Args:  cobra.ExactArgs(3),
		RunE:  convertUnits,
	}

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a yaml script of scenarios and store every run",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	seedsCmd := &cobra.Command{
		Use:   "seeds [scenario]",
		Short: "run a scenario over consecutive seeds",
		Args:  cobra.ExactArgs(1),
		RunE:  runSeeds,
	}
	addRunFlags(seedsCmd)
	seedsCmd.Flags().IntVar(&runs, "runs", 8, "number of seeds")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, analyzeCmd, lyapunovCmd, sweepCmd,
		presetsCmd, liveCmd, compareCmd, benchCmd, svgCmd, newCmd, addCmd, suggestCmd, convertCmd, scriptCmd, seedsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "number of ticks")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for randomized scenarios")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	cmd.Flags().IntVar(&workers, "workers", 1, "goroutines for force evaluation")
	cmd.Flags().BoolVar(&noCollisions, "no-collisions", false, "disable merging")
}

func addPlacementFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&posX, "x", 0, "x position")
	cmd.Flags().Float64Var(&posY, "y", 0, "y position")
	cmd.Flags().Float64Var(&mass, "mass", 1, "mass")
	cmd.Flags().StringVar(&massUnit, "mass-unit", string(physics.MassEarth), "mass unit: earth, kg (10²⁴ kg), sun")
	cmd.Flags().Float64Var(&speed, "speed", 0, "launch speed, 0 for a circular orbit (in orbital units 10 is circular)")
	cmd.Flags().StringVar(&speedUnit, "speed-unit", string(physics.VelocityOrbital), "speed unit: kms, ms, orbital")
}

// buildConfig resolves a run configuration: defaults, then preset, then
// config file, then any flags set on the command line.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.Scenario = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Scenario, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Scenario))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if len(args) > 0 {
			loaded.Scenario = args[0]
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("no-collisions") {
		cfg.Settings.EnableCollisions = !noCollisions
	}
	return cfg, cfg.Check()
}

func newExperiment(cfg *config.Config, opts ...experiment.Option) (*experiment.Experiment, error) {
	opts = append([]experiment.Option{experiment.WithLogger(logger)}, opts...)
	exp := experiment.New(cfg, opts...)
	if err := exp.Setup(); err != nil {
		return nil, err
	}
	return exp, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := newExperiment(cfg, experiment.WithRecordEvery(recordEvery), experiment.WithMetrics(metricNames...))
	if err != nil {
		return err
	}
	exp.GetSimulator().AddObserver(newProgress(cfg.Ticks))

	fmt.Printf("running %s for %d ticks...\n", cfg.Scenario, cfg.Ticks)
	start := time.Now()

	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	for _, e := range result.Errors {
		logger.Warn("run stopped early", "err", e)
	}

	runID, err := st.Save(storage.RunMetadata{
		Scenario:   cfg.Scenario,
		Seed:       cfg.Seed,
		Ticks:      result.TicksTaken,
		TimeStep:   physics.TimeStep,
		Integrator: exp.Engine().Integrator(),
		Collisions: cfg.Settings.EnableCollisions,
	}, result)
	if err != nil {
		return err
	}

	if exportPath != "" {
		f, err := os.Create(exportPath)
		if err != nil {
			return err
		}
		defer f.Close()
		data := storage.NewExportData(cfg.Scenario, exp.Engine().Integrator(), physics.TimeStep, result)
		if err := storage.ExportJSON(f, data); err != nil {
			return err
		}
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n\n", runID)
	for _, line := range metrics.Summarize(result.Final, physics.SystemEnergy(result.Final)).Lines() {
		fmt.Println(line)
	}
	fmt.Println("\nmetrics:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for name, val := range result.Metrics {
		fmt.Fprintf(w, "  %s\t%.6g\n", name, val)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tTICKS\tINTEG\tBODIES\tMERGES\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%d→%d\t%d\t%.2e\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.Integrator,
			run.Bodies,
			run.Survivors,
			run.Merges,
			run.Drift,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
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
	if len(series) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(series))

	total := make([]float64, len(series))
	kinetic := make([]float64, len(series))
	bodies := make([]float64, len(series))
	for i, s := range series {
		total[i] = s.Total / metrics.EnergyUnit
		kinetic[i] = s.Kinetic / metrics.EnergyUnit
		bodies[i] = float64(s.Bodies)
	}

	plots := []struct {
		data    []float64
		caption string
	}{
		{total, "total energy (10³⁰ J)"},
		{kinetic, "kinetic energy (10³⁰ J)"},
		{bodies, "bodies"},
	}
	for _, p := range plots {
		graph := asciigraph.Plot(p.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"tick", "time", "kinetic", "potential", "total", "bodies"}); err != nil {
		return err
	}
	for _, s := range series {
		row := []string{
			strconv.Itoa(s.Tick),
			strconv.FormatFloat(s.Time, 'f', 6, 64),
			strconv.FormatFloat(s.Kinetic, 'g', 10, 64),
			strconv.FormatFloat(s.Potential, 'g', 10, 64),
			strconv.FormatFloat(s.Total, 'g', 10, 64),
			strconv.Itoa(s.Bodies),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		reg := experiment.NewRegistry()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SCENARIO\tDESCRIPTION\tPRESETS")
		for _, name := range reg.ListScenarios() {
			p, err := reg.GetScenario(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\t%v\n", name, p.Description, config.ListPresets(name))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("\nintegrators: %s\n", strings.Join(reg.ListIntegrators(), ", "))
		fmt.Printf("metrics: %s\n", strings.Join(reg.ListMetrics(), ", "))
		return nil
	}

	presets := config.ListPresets(args[0])
	if len(presets) == 0 {
		fmt.Printf("no presets for scenario: %s\n", args[0])
		return nil
	}
	fmt.Printf("presets for %s:\n", args[0])
	for _, name := range presets {
		p := config.GetPreset(args[0], name)
		fmt.Printf("  %-14s ticks=%d integrator=%s collisions=%t\n", name, p.Ticks, p.Integrator, p.Settings.EnableCollisions)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if !knownTheme(theme) {
		return fmt.Errorf("unknown theme: %s (available: %s)", theme, strings.Join(viz.ThemeNames(), ", "))
	}

	opts := viz.Options{
		Scenario:      cfg.Scenario,
		World:         cfg.Canvas,
		Camera:        cfg.Camera,
		Settings:      cfg.Settings,
		Workers:       cfg.Workers,
		StepsPerFrame: stepsPerFrame,
		Theme:         theme,
	}

	if systemPath != "" {
		sys, bodies, err := storage.LoadSystem(systemPath)
		if err != nil {
			return err
		}
		integ, err := experiment.NewRegistry().GetIntegrator(cfg.Integrator)
		if err != nil {
			return err
		}
		opts.Scenario = systemPath
		opts.Camera = sys.Camera
		opts.Settings = sys.Settings
		return live(physics.NewEngine(physics.WithIntegrator(integ)), bodies, opts)
	}

	exp, err := newExperiment(cfg)
	if err != nil {
		return err
	}
	return live(exp.Engine(), exp.Initial(), opts)
}

func knownTheme(name string) bool {
	for _, t := range viz.ThemeNames() {
		if t == name {
			return true
		}
	}
	return false
}

func live(engine *physics.Engine, bodies dynamo.Registry, opts viz.Options) error {
	final, err := viz.Run(viz.NewModel(engine, bodies, opts))
	if err != nil {
		return err
	}
	if outputPath == "" {
		return nil
	}
	sys := storage.NewSystem(final.Bodies(), final.Camera(), final.Settings(), time.Now())
	if err := storage.SaveSystem(outputPath, sys); err != nil {
		return err
	}
	logger.Info("system saved", "path", outputPath, "bodies", len(sys.Planets))
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("script: %s (%d steps)\n", script.Name, len(script.Steps))
	results, err := automation.NewRunner(automation.WithStore(st), automation.WithLogger(logger)).RunScript(cmd.Context(), script)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUN\tSURVIVORS\tMERGES\tDRIFT")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%.2e\n", i+1, r.RunID, len(r.Result.Final), len(r.Result.Merges), r.Result.EnergyDrift)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func runSeeds(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	n, err := cmd.Flags().GetInt("runs")
	if err != nil {
		return err
	}
	results, err := automation.NewRunner(automation.WithLogger(logger)).RunSweep(cmd.Context(), automation.SeedSweep{Config: cfg, Runs: n})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSURVIVORS\tMERGES\tMIN E\tMAX E\tDRIFT")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%d\t%.3e\t%.3e\t%.2e\n", r.Seed, r.Survivors, r.Merges, r.MinEnergy, r.MaxEnergy, r.Drift)
	}
	return w.Flush()
}

// progress logs how far a run has got at debug level, every tenth of the run.
type progress struct {
	every int
	total int
}

func newProgress(total int) *progress {
	return &progress{every: max(total/10, 1), total: total}
}

func (p *progress) OnStep(tick int, t float64, res dynamo.StepResult) {
	if tick%p.every != 0 {
		return
	}
	logger.Debug("progress", "tick", tick, "of", p.total, "t", t, "bodies", len(res.Bodies), "merges", len(res.Merges))
}
