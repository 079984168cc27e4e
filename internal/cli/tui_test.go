package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/kruskal/pkg/kruskal"
)

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m tea.Model, keys ...string) tea.Model {
	t.Helper()
	for _, k := range keys {
		m, _ = m.Update(key(k))
	}
	return m
}

func TestStepModelKeys(t *testing.T) {
	e := mustEngine(t, triangleGraph())
	var m tea.Model = newStepModel(triangleGraph(), e, defaultInterval)

	m = press(t, m, "n")
	if e.Cursor() != 1 {
		t.Fatalf("cursor after n = %d, want 1", e.Cursor())
	}
	m = press(t, m, "right")
	if e.Cursor() != 2 {
		t.Fatalf("cursor after right = %d, want 2", e.Cursor())
	}
	view := m.View()
	if !strings.Contains(view, "Accepted b → c (weight 2)") {
		t.Errorf("view missing last decision:\n%s", view)
	}

	m = press(t, m, "r")
	if e.State() != kruskal.StateNotStarted {
		t.Fatalf("state after r = %s", e.State())
	}
	if strings.Contains(m.View(), "Accepted") {
		t.Error("view still shows a decision after reset")
	}

	m = press(t, m, "c")
	if !e.Complete() {
		t.Fatal("c should complete the run")
	}
	view = m.View()
	if !strings.Contains(view, "Minimum spanning tree") || !strings.Contains(view, iconComplete) {
		t.Errorf("completed view:\n%s", view)
	}

	press(t, m, "n")
	if e.Cursor() != 3 {
		t.Errorf("stepping a complete engine moved the cursor to %d", e.Cursor())
	}
}

func TestStepModelQuit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		m := newStepModel(triangleGraph(), mustEngine(t, triangleGraph()), defaultInterval)
		_, cmd := m.Update(key(k))
		if cmd == nil {
			t.Fatalf("%s returned no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s did not quit", k)
		}
	}
}

func TestStepModelAutoplay(t *testing.T) {
	e := mustEngine(t, triangleGraph())
	var m tea.Model = newStepModel(triangleGraph(), e, defaultInterval)

	m, cmd := m.Update(key(" "))
	if cmd == nil {
		t.Fatal("space should schedule a tick")
	}
	sm := m.(stepModel)
	if !sm.play.playing {
		t.Fatal("space should start autoplay")
	}
	seq := sm.play.seq

	m, cmd = m.Update(tickMsg{seq: seq})
	if e.Cursor() != 1 || cmd == nil {
		t.Fatalf("tick: cursor = %d, next tick scheduled = %v", e.Cursor(), cmd != nil)
	}

	m, _ = m.Update(tickMsg{seq: seq - 1})
	if e.Cursor() != 1 {
		t.Errorf("stale tick advanced the engine to %d", e.Cursor())
	}

	m, _ = m.Update(tickMsg{seq: seq})
	m, cmd = m.Update(tickMsg{seq: seq})
	if !e.Complete() {
		t.Fatalf("cursor = %d after three ticks", e.Cursor())
	}
	if cmd != nil || m.(stepModel).play.playing {
		t.Error("autoplay should stop at completion")
	}

	m, _ = m.Update(tickMsg{seq: seq})
	if e.Cursor() != 3 {
		t.Error("tick after completion moved the cursor")
	}
}

func TestStepModelPause(t *testing.T) {
	e := mustEngine(t, triangleGraph())
	var m tea.Model = newStepModel(triangleGraph(), e, defaultInterval)

	m = press(t, m, " ")
	seq := m.(stepModel).play.seq
	m = press(t, m, " ")
	if m.(stepModel).play.playing {
		t.Fatal("second space should pause")
	}
	m.Update(tickMsg{seq: seq})
	if e.Cursor() != 0 {
		t.Error("tick from the paused chain advanced the engine")
	}
}

func TestStepModelSpeed(t *testing.T) {
	var m tea.Model = newStepModel(triangleGraph(), mustEngine(t, triangleGraph()), 100*time.Millisecond)

	m = press(t, m, "+", "+", "+")
	if got := m.(stepModel).play.interval; got != minInterval {
		t.Errorf("interval after speeding up = %s, want %s", got, minInterval)
	}
	for range 10 {
		m = press(t, m, "-")
	}
	if got := m.(stepModel).play.interval; got != maxInterval {
		t.Errorf("interval after slowing down = %s, want %s", got, maxInterval)
	}
}

func TestCompareModel(t *testing.T) {
	a, b := triangleGraph(), pairGraph()
	d := kruskal.NewDual(mustEngine(t, a), mustEngine(t, b))
	var m tea.Model = newCompareModel("connectivity", a, b, d, defaultInterval)

	view := m.View()
	if !strings.Contains(view, "connectivity: triangle vs pairs") {
		t.Errorf("heading missing:\n%s", view)
	}

	m = press(t, m, "n", "n")
	if d.A().Cursor() != 2 || d.B().Cursor() != 2 {
		t.Fatalf("cursors = %d, %d, want 2, 2", d.A().Cursor(), d.B().Cursor())
	}
	if d.BothComplete() {
		t.Fatal("A should still have an edge left")
	}

	m = press(t, m, "n")
	if !d.BothComplete() {
		t.Fatal("both engines should be complete")
	}
	view = m.View()
	if !strings.Contains(view, "Connected vs disconnected") {
		t.Errorf("completed view missing comparison:\n%s", view)
	}
	cm := m.(compareModel)
	if cm.lastB == nil || cm.lastB.Index != 1 {
		t.Error("B's last decision should survive rounds where B was already complete")
	}

	m = press(t, m, "r")
	if d.A().State() != kruskal.StateNotStarted || d.B().State() != kruskal.StateNotStarted {
		t.Error("r should reset both engines")
	}
	press(t, m, "c")
	if !d.BothComplete() {
		t.Error("c should complete both engines")
	}
}

func TestWindowFor(t *testing.T) {
	if got := windowFor(0, 16); got != defaultWindow {
		t.Errorf("windowFor(0) = %d, want %d", got, defaultWindow)
	}
	if got := windowFor(10, 16); got != minWindow {
		t.Errorf("windowFor(10) = %d, want %d", got, minWindow)
	}
	if got := windowFor(40, 16); got != 24 {
		t.Errorf("windowFor(40) = %d, want 24", got)
	}
}
