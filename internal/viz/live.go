package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/starmaker/internal/config"
	"github.com/san-kum/starmaker/internal/dynamo"
	"github.com/san-kum/starmaker/internal/metrics"
	"github.com/san-kum/starmaker/internal/physics"
	"github.com/san-kum/starmaker/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	panStep         = 40.0 // screen pixels per key press
	zoomStep        = 1.1
	forceArrow      = 6 // dots
	minArrowForce   = 0.1
	frameInterval   = time.Second / 60
)

type TickMsg time.Time

// Options configures a live view.
type Options struct {
	Scenario string
	// World is the size of the scenario canvas in pixels.
	World    config.CanvasConfig
	Camera   config.Camera
	Settings config.SettingsConfig
	Workers  int
	// StepsPerFrame is how many engine ticks run per redraw; 0 means 1.
	StepsPerFrame int
	Theme         string
}

// Model is the bubbletea model of the live planetary view.
type Model struct {
	stepper       sim.Stepper
	opts          Options
	initial       dynamo.Registry
	bodies        dynamo.Registry
	energy        dynamo.Energy
	camera        config.Camera
	settings      config.SettingsConfig
	canvas        *Canvas
	theme         Theme
	tick          int
	merges        int
	running       bool
	showHelp      bool
	energyHistory []float64
	paths         map[string][]r2.Vec
	// forces is the interaction table of the last tick. Its indices refer
	// to forceIDs, the registry the tick started from.
	forces   []dynamo.Interaction
	forceIDs []string
}

// NewModel starts a running live view over a copy of reg.
func NewModel(stepper sim.Stepper, reg dynamo.Registry, opts Options) Model {
	if opts.StepsPerFrame <= 0 {
		opts.StepsPerFrame = 1
	}
	if opts.World.Width <= 0 || opts.World.Height <= 0 {
		opts.World = config.CanvasConfig{Width: config.DefaultWidth, Height: config.DefaultHeight}
	}
	if opts.Camera.Zoom == 0 {
		opts.Camera = config.DefaultCamera()
	}
	m := Model{
		stepper:  stepper,
		opts:     opts,
		initial:  reg.Clone(),
		canvas:   NewCanvas(width, height),
		theme:    GetTheme(opts.Theme),
		running:  true,
		camera:   opts.Camera,
		settings: opts.Settings,
	}
	m.reset()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles key presses and advances the simulation on each frame.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case ".":
			if !m.running {
				m.step()
			}
		case "r":
			m.reset()
		case "+", "=":
			m.camera.ZoomBy(zoomStep)
		case "-", "_":
			m.camera.ZoomBy(1 / zoomStep)
		case "left", "h":
			m.camera.Pan(panStep, 0)
		case "right", "l":
			m.camera.Pan(-panStep, 0)
		case "up", "k":
			m.camera.Pan(0, panStep)
		case "down", "j":
			m.camera.Pan(0, -panStep)
		case "0":
			m.camera = m.opts.Camera
		case "c":
			m.settings.EnableCollisions = !m.settings.EnableCollisions
		case "t":
			m.settings.ShowTrails = !m.settings.ShowTrails
		case "f":
			m.settings.ShowForces = !m.settings.ShowForces
		case "T":
			m.theme = NextTheme(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			for i := 0; i < m.opts.StepsPerFrame; i++ {
				m.step()
			}
		}
		return m, tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// step advances one engine tick and updates the histories.
func (m *Model) step() {
	if len(m.bodies) == 0 {
		return
	}
	res := m.stepper.Step(m.bodies, physics.Config{
		EnableCollisions: m.settings.EnableCollisions,
		Workers:          m.opts.Workers,
	})
	m.forceIDs = make([]string, len(m.bodies))
	for i, b := range m.bodies {
		m.forceIDs[i] = b.ID
	}
	m.forces = res.Interactions
	m.bodies = res.Bodies
	m.energy = res.Energy
	m.merges += len(res.Merges)
	m.tick++

	m.energyHistory = append(m.energyHistory, res.Energy.Total()/metrics.EnergyUnit)
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
	m.recordPaths()
}

func (m *Model) recordPaths() {
	live := make(map[string]bool, len(m.bodies))
	for _, b := range m.bodies {
		live[b.ID] = true
		if m.tick%physics.TrailSampleEvery != 0 && len(m.paths[b.ID]) > 0 {
			continue
		}
		p := append(m.paths[b.ID], b.Pos)
		if len(p) > physics.MaxTrailLength {
			p = p[1:]
		}
		m.paths[b.ID] = p
	}
	for id := range m.paths {
		if !live[id] {
			delete(m.paths, id)
		}
	}
}

// reset restores the initial bodies. Camera and toggles are kept.
func (m *Model) reset() {
	m.bodies = m.initial.Clone()
	m.energy = physics.SystemEnergy(m.bodies)
	m.tick = 0
	m.merges = 0
	m.energyHistory = m.energyHistory[:0]
	m.forces, m.forceIDs = nil, nil
	m.paths = make(map[string][]r2.Vec, len(m.bodies))
	m.recordPaths()
}

// Bodies returns the current registry.
func (m Model) Bodies() dynamo.Registry { return m.bodies }

func (m Model) Time() float64 { return float64(m.tick) * physics.TimeStep }

// project maps world coordinates to canvas dots through the camera.
func (m Model) project(p r2.Vec) (int, int) {
	sx, sy := m.camera.ToScreen(p.X, p.Y)
	cw, ch := m.canvas.Dots()
	kx := float64(cw) / float64(m.opts.World.Width)
	ky := float64(ch) / float64(m.opts.World.Height)
	return int(math.Round(sx * kx)), int(math.Round(sy * ky))
}

// dotRadius converts a body's visual radius to canvas dots.
func (m Model) dotRadius(b dynamo.Body) int {
	cw, _ := m.canvas.Dots()
	return int(b.Radius.Visual * m.camera.Zoom * float64(cw) / float64(m.opts.World.Width))
}

func (m *Model) draw() {
	m.canvas.Clear()
	if m.settings.ShowTrails {
		for _, path := range m.paths {
			for i := 1; i < len(path); i++ {
				x0, y0 := m.project(path[i-1])
				x1, y1 := m.project(path[i])
				m.canvas.DrawLine(x0, y0, x1, y1)
			}
		}
	}
	for _, b := range m.bodies {
		x, y := m.project(b.Pos)
		m.canvas.FillCircle(x, y, m.dotRadius(b))
	}
	if m.settings.ShowForces {
		m.drawForces()
	}
}

// drawForces draws one arrow per pairwise force from the last tick's
// interaction table. Bodies absorbed in that tick have no arrows.
func (m *Model) drawForces() {
	for i, id := range m.forceIDs {
		j := m.bodies.IndexOf(id)
		if j < 0 {
			continue
		}
		x, y := m.project(m.bodies[j].Pos)
		for _, f := range dynamo.ForcesOn(m.forces, i) {
			if f.Magnitude <= minArrowForce {
				continue
			}
			dir := r2.Scale(forceArrow/f.Magnitude, f.Force)
			m.canvas.DrawLine(x, y, x+int(math.Round(dir.X)), y+int(math.Round(dir.Y)))
		}
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// View renders the canvas beside the info panel.
func (m Model) View() string {
	st := newStyles(m.theme)
	m.draw()
	canvasView := st.canvas.Render(m.canvas.String())

	var s strings.Builder
	title := m.opts.Scenario
	if title == "" {
		title = "starmaker"
	}
	s.WriteString(st.header.Render(strings.ToUpper(title)) + "\n")
	if m.running {
		s.WriteString(st.running.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(st.paused.Render("PAUSED") + "\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy (10³⁰ J)"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	for _, line := range metrics.Summarize(m.bodies, m.energy).Lines() {
		s.WriteString(st.value.Render(line) + "\n")
	}
	s.WriteString("\n")
	s.WriteString(st.label.Render("Time") + st.value.Render(fmt.Sprintf("%.2f", m.Time())) + "\n")
	s.WriteString(st.label.Render("Merges") + st.value.Render(fmt.Sprintf("%d", m.merges)) + "\n")
	zoomFrac := (m.camera.Zoom - m.camera.MinZoom) / (m.camera.MaxZoom - m.camera.MinZoom)
	s.WriteString(st.label.Render("Zoom") + st.value.Render(fmt.Sprintf("%s %.2fx", ProgressBar(zoomFrac, 10), m.camera.Zoom)) + "\n")
	s.WriteString(st.label.Render("Collisions") + st.value.Render(onOff(m.settings.EnableCollisions)) + "\n")
	s.WriteString(st.label.Render("Trails") + st.value.Render(onOff(m.settings.ShowTrails)) + "\n")
	s.WriteString(st.label.Render("Forces") + st.value.Render(onOff(m.settings.ShowForces)) + "\n")
	s.WriteString(st.help.Render("─────────────────────\nSP:Pause R:Reset Q:Quit\n+/-:Zoom ←↑↓→:Pan ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  .        - Single tick while paused ║
║  r        - Reset bodies             ║
║  q        - Quit                     ║
║  + / -    - Zoom in / out            ║
║  Arrows   - Pan                      ║
║  0        - Reset camera             ║
║  c        - Toggle collisions        ║
║  t        - Toggle trails            ║
║  f        - Toggle force arrows      ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// Run opens the live view on the terminal until the user quits and
// returns the model as it was at exit.
func Run(m Model) (Model, error) {
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return m, err
	}
	if fm, ok := final.(Model); ok {
		return fm, nil
	}
	return m, nil
}

// Camera returns the current view transform.
func (m Model) Camera() config.Camera { return m.camera }

// Settings returns the current toggles.
func (m Model) Settings() config.SettingsConfig { return m.settings }
