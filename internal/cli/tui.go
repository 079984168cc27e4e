package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/kruskal/pkg/graph"
	"github.com/matzehuels/kruskal/pkg/kruskal"
)

var (
	helpStyle  = lipgloss.NewStyle().Foreground(colorDim)
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
	textStyle  = lipgloss.NewStyle().Width(64)
)

const (
	defaultWindow = 12 // sequence rows shown before the terminal size is known
	minWindow     = 5
)

// =============================================================================
// Autoplay
// =============================================================================

// tickMsg advances autoplay. seq identifies the tick chain so that ticks
// from a paused or restarted chain are dropped.
type tickMsg struct{ seq int }

func tick(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return tickMsg{seq: seq} })
}

// autoplay paces stepping. Pausing simply stops scheduling steps; the
// engine itself has no notion of time.
type autoplay struct {
	interval time.Duration
	playing  bool
	seq      int
}

func (a *autoplay) toggle() tea.Cmd {
	a.playing = !a.playing
	a.seq++
	if a.playing {
		return tick(a.interval, a.seq)
	}
	return nil
}

func (a *autoplay) stop() {
	a.playing = false
	a.seq++
}

func (a *autoplay) faster() { a.interval = max(minInterval, a.interval/2) }
func (a *autoplay) slower() { a.interval = min(maxInterval, a.interval*2) }

func (a autoplay) accepts(msg tickMsg) bool { return a.playing && msg.seq == a.seq }

func (a autoplay) next() tea.Cmd { return tick(a.interval, a.seq) }

func (a autoplay) help() string {
	state := "play"
	if a.playing {
		state = "pause"
	}
	return fmt.Sprintf("n/→ step  space %s  c complete  r reset  +/- speed (%s)  q quit", state, a.interval)
}

func windowFor(height, reserved int) int {
	if height == 0 {
		return defaultWindow
	}
	return max(minWindow, height-reserved)
}

// =============================================================================
// stepModel - Single engine stepper
// =============================================================================

// stepModel is the bubbletea model behind `kruskal step`.
type stepModel struct {
	graph  graph.Graph
	engine *kruskal.Engine[string]
	last   *kruskal.Decision[string]
	play   autoplay
	height int
}

func newStepModel(g graph.Graph, e *kruskal.Engine[string], interval time.Duration) stepModel {
	return stepModel{graph: g, engine: e, play: autoplay{interval: interval}}
}

func (m stepModel) Init() tea.Cmd {
	return nil
}

func (m stepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "n", "right", "l":
			m.step()
		case " ", "space":
			if !m.engine.Complete() {
				return m, m.play.toggle()
			}
		case "c":
			if ds := m.engine.Run(); len(ds) > 0 {
				m.last = &ds[len(ds)-1]
			}
			m.play.stop()
		case "r":
			m.engine.Reset()
			m.last = nil
			m.play.stop()
		case "+", "=":
			m.play.faster()
		case "-", "_":
			m.play.slower()
		}
	case tickMsg:
		if !m.play.accepts(msg) {
			return m, nil
		}
		m.step()
		if m.engine.Complete() {
			m.play.stop()
			return m, nil
		}
		return m, m.play.next()
	case tea.WindowSizeMsg:
		m.height = msg.Height
	}
	return m, nil
}

func (m *stepModel) step() {
	if d, ok := m.engine.Step(); ok {
		m.last = &d
	}
	if m.engine.Complete() {
		m.play.stop()
	}
}

func (m stepModel) View() string {
	var b strings.Builder

	title := m.graph.Name
	if title == "" {
		title = "graph"
	}
	b.WriteString(StyleTitle.Render(title) + "  " + stateLabel(m.engine.State(), m.play.playing))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(narrateProgress(m.engine)))
	b.WriteString("\n")
	b.WriteString(sequenceTable(m.engine, windowFor(m.height, 16)))
	b.WriteString("\n")
	b.WriteString(forestLine(m.engine.Forest()))
	b.WriteString("\n")
	if m.last != nil {
		b.WriteString(textStyle.Render(narrateDecision(*m.last)))
		b.WriteString("\n")
	}
	if m.engine.Complete() {
		b.WriteString("\n")
		for _, line := range narrateResult(m.graph, m.engine.Forest(), m.engine.Stats()) {
			b.WriteString(textStyle.Render(line))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.play.help()))
	return b.String()
}

// =============================================================================
// compareModel - Two engines in lockstep
// =============================================================================

// compareModel is the bubbletea model behind `kruskal compare`.
type compareModel struct {
	category     string
	a, b         graph.Graph
	dual         *kruskal.Dual[string]
	lastA, lastB *kruskal.Decision[string]
	play         autoplay
	height       int
}

func newCompareModel(category string, a, b graph.Graph, d *kruskal.Dual[string], interval time.Duration) compareModel {
	return compareModel{category: category, a: a, b: b, dual: d, play: autoplay{interval: interval}}
}

func (m compareModel) Init() tea.Cmd {
	return nil
}

func (m compareModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "n", "right", "l":
			m.step()
		case " ", "space":
			if !m.dual.BothComplete() {
				return m, m.play.toggle()
			}
		case "c":
			for _, s := range m.dual.RunBoth() {
				m.record(s)
			}
			m.play.stop()
		case "r":
			m.dual.ResetBoth()
			m.lastA, m.lastB = nil, nil
			m.play.stop()
		case "+", "=":
			m.play.faster()
		case "-", "_":
			m.play.slower()
		}
	case tickMsg:
		if !m.play.accepts(msg) {
			return m, nil
		}
		m.step()
		if m.dual.BothComplete() {
			m.play.stop()
			return m, nil
		}
		return m, m.play.next()
	case tea.WindowSizeMsg:
		m.height = msg.Height
	}
	return m, nil
}

func (m *compareModel) step() {
	m.record(m.dual.StepBoth())
	if m.dual.BothComplete() {
		m.play.stop()
	}
}

func (m *compareModel) record(s kruskal.DualStep[string]) {
	if s.OKA {
		m.lastA = &s.A
	}
	if s.OKB {
		m.lastB = &s.B
	}
}

func (m compareModel) View() string {
	window := windowFor(m.height, 20)
	left := comparePanel(m.a.Name, m.dual.A(), m.lastA, window)
	right := comparePanel(m.b.Name, m.dual.B(), m.lastB, window)

	var b strings.Builder
	heading := m.a.Name + " vs " + m.b.Name
	if m.category != "" {
		heading = m.category + ": " + heading
	}
	b.WriteString(StyleTitle.Render(heading) + "  " + stateLabel(compareState(m.dual), m.play.playing))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	b.WriteString("\n")
	if m.dual.BothComplete() {
		b.WriteString("\n")
		lines := narrateComparison(comparison{Category: m.category, A: m.a, B: m.b, Summary: m.dual.Summary()})
		for _, line := range lines {
			b.WriteString(lipgloss.NewStyle().Width(120).Render(line))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.play.help()))
	return b.String()
}

func comparePanel(name string, e *kruskal.Engine[string], last *kruskal.Decision[string], window int) string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(name))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(narrateProgress(e)))
	b.WriteString("\n")
	b.WriteString(sequenceTable(e, window))
	b.WriteString("\n")
	b.WriteString(forestLine(e.Forest()))
	if last != nil {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(56).Render(narrateDecision(*last)))
	}
	return panelStyle.Render(b.String())
}

// compareState reports the combined state of both engines.
func compareState(d *kruskal.Dual[string]) kruskal.State {
	switch {
	case d.BothComplete():
		return kruskal.StateCompleted
	case d.A().State() == kruskal.StateNotStarted && d.B().State() == kruskal.StateNotStarted:
		return kruskal.StateNotStarted
	default:
		return kruskal.StateRunning
	}
}

// =============================================================================
// Helpers
// =============================================================================

func stateLabel(s kruskal.State, playing bool) string {
	switch {
	case s == kruskal.StateCompleted:
		return StyleSuccess.Render(iconComplete)
	case playing:
		return StyleWarning.Render("playing")
	case s == kruskal.StateNotStarted:
		return StyleDim.Render("ready")
	default:
		return StyleDim.Render("paused")
	}
}

func forestLine(f kruskal.Forest[string]) string {
	return fmt.Sprintf("%s %s  %s %s  %s %s",
		StyleDim.Render("tree edges"), StyleNumber.Render(fmt.Sprint(len(f.Edges))),
		StyleDim.Render("weight"), StyleNumber.Render(formatWeight(f.TotalWeight)),
		StyleDim.Render("components"), StyleNumber.Render(fmt.Sprint(f.Components)))
}
