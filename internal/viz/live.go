package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/asciilife/internal/analysis"
	"github.com/san-kum/asciilife/internal/automaton"
	"github.com/san-kum/asciilife/internal/render"
	"github.com/san-kum/asciilife/internal/sim"
	"github.com/san-kum/asciilife/internal/tui"
)

const historyCapacity = 600

// Snapshot is a past frame kept for replay.
type Snapshot struct {
	Frame   automaton.Frame
	Network analysis.Network
}

type TickMsg time.Time

// Model is the Bubble Tea view of one controller. It steps once per tick
// while running and keeps a bounded replay buffer.
type Model struct {
	ctrl          *automaton.Controller
	renderer      *render.Renderer
	reseed        func() error
	observers     []sim.Observer
	interval      time.Duration
	theme         Theme
	running       bool
	minimap       bool
	showHelp      bool
	frame         automaton.Frame
	network       analysis.Network
	population    []float64
	flips         []float64
	perturbations int
	history       []Snapshot
	playHead      int
	err           error
}

type Option func(*Model)

// WithObserver also feeds every stepped frame to o.
func WithObserver(o sim.Observer) Option {
	return func(m *Model) { m.observers = append(m.observers, o) }
}

// WithTheme selects the starting theme by name.
func WithTheme(name string) Option {
	return func(m *Model) { m.theme = GetTheme(name) }
}

// NewModel wraps a seeded controller. reseed is called on "r" and must
// reseed ctrl; fps of 0 means 60.
func NewModel(ctrl *automaton.Controller, r *render.Renderer, reseed func() error, fps int, opts ...Option) Model {
	if fps <= 0 {
		fps = 60
	}
	m := Model{
		ctrl:       ctrl,
		renderer:   r,
		reseed:     reseed,
		interval:   time.Second / time.Duration(fps),
		theme:      ThemeCyberpunk,
		running:    true,
		population: make([]float64, 0, historyCapacity),
		flips:      make([]float64, 0, historyCapacity),
		history:    make([]Snapshot, 0, historyCapacity),
		playHead:   -1,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.sync()
	return m
}

// Err is the step error that ended the program, if any.
func (m Model) Err() error { return m.err }

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the automaton.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if err := m.reseed(); err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.resetBuffers()
			m.sync()
		case "s":
			if err := m.step(); err != nil {
				return m, tea.Quit
			}
		case "g":
			m.renderer.CycleMode()
		case "m":
			m.minimap = !m.minimap
		case "t":
			m.theme = NextTheme(m.theme.Name)
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				if err := m.step(); err != nil {
					return m, tea.Quit
				}
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		return m, m.tick()
	}
	return m, nil
}

// step advances the controller once.
func (m *Model) step() error {
	frame, err := m.ctrl.Step()
	if err != nil {
		m.err = err
		return err
	}
	m.frame = frame
	m.network = analysis.Analyze(m.ctrl.Grid())
	if frame.Perturbed {
		m.perturbations++
	}

	m.population = appendBounded(m.population, float64(frame.LiveCells))
	m.flips = appendBounded(m.flips, float64(frame.PerturbedCells))
	m.history = append(m.history, Snapshot{Frame: frame, Network: m.network})
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}

	for _, o := range m.observers {
		o.OnFrame(frame)
	}
	return nil
}

// sync loads the controller's current grid as generation zero.
func (m *Model) sync() {
	g := m.ctrl.Grid()
	st := m.ctrl.State()
	m.frame = automaton.Frame{
		Generation:  st.Generation,
		Cells:       g.Rows(),
		Width:       g.Width(),
		Height:      g.Height(),
		LiveCells:   st.LiveCells,
		DigitCursor: st.DigitCursor,
	}
	m.network = analysis.Analyze(g)
}

func (m *Model) resetBuffers() {
	m.population = m.population[:0]
	m.flips = m.flips[:0]
	m.history = m.history[:0]
	m.perturbations = 0
	m.playHead = -1
}

// scrub changes the playback position in history.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

func appendBounded(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

// View renders the grid beside a stats panel.
func (m Model) View() string {
	frame, network, status := m.frame, m.network, "RUNNING"
	if m.playHead >= 0 && m.playHead < len(m.history) {
		snap := m.history[m.playHead]
		frame, network = snap.Frame, snap.Network
		status = fmt.Sprintf("REPLAY (%d)", snap.Frame.Generation-m.frame.Generation)
	}
	if !m.running {
		status = "PAUSED"
		if m.playHead != -1 {
			status = fmt.Sprintf("REPLAY PAUSED (%d)", frame.Generation-m.frame.Generation)
		}
	}

	var art string
	if m.minimap {
		art = Braille(frame.Cells)
	} else {
		art = m.renderer.Render(frame)
	}
	cellColor := m.theme.Cell
	if frame.Perturbed {
		cellColor = m.theme.Flash
	}
	canvasView := canvasStyle.Foreground(cellColor).Render(art)

	var s strings.Builder
	s.WriteString(GradientText("ASCIILIFE", m.theme.Primary, m.theme.Secondary) + "\n")
	if m.running {
		s.WriteString(StatusRunning.Render(status) + "\n\n")
	} else {
		s.WriteString(StatusPaused.Render(status) + "\n\n")
	}

	if len(m.population) > 1 {
		chart := asciigraph.Plot(m.population, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Live cells"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Generation", fmt.Sprintf("%d", frame.Generation))
	row("Live", fmt.Sprintf("%d", frame.LiveCells))
	row("Digit", fmt.Sprintf("%d", frame.DigitCursor))
	row("Perturbations", fmt.Sprintf("%d", m.perturbations))
	row("Flips", SparklineChart(m.flips, 24))
	row("Glyphs", string(m.renderer.Mode()))
	row("Theme", m.theme.Name)

	s.WriteString("\nNETWORK\n")
	row("Density", ProgressBar(network.Density, 12)+fmt.Sprintf(" %.3f", network.Density))
	row("Clusters", fmt.Sprintf("%d", network.ClusterCount))
	row("Largest", fmt.Sprintf("%d", network.LargestCluster))
	row("Fragment.", fmt.Sprintf("%.3f", network.Fragmentation))
	row("Entropy", fmt.Sprintf("%.3f bits", network.Entropy))
	s.WriteString(lipgloss.NewStyle().Foreground(m.theme.Muted).Render(network.Interpretation()) + "\n")
	s.WriteString(lipgloss.NewStyle().Foreground(m.theme.Accent).Render(tui.Status(frame)) + "\n")

	s.WriteString(helpStyle.Render("─────────────────────\nSP:Pause R:Reseed Q:Quit\nG:Glyphs T:Theme M:Map\n[ ]:Replay S:Step ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panelStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  S        - Single step              ║
║  R        - Reseed from digits       ║
║  G        - Cycle glyph mode         ║
║  M        - Toggle braille minimap   ║
║  T        - Cycle themes             ║
║  [        - Rewind                   ║
║  ]        - Forward                  ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
