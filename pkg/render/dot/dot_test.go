package dot

import (
	"strings"
	"testing"

	"github.com/matzehuels/kruskal/pkg/kruskal"
)

func newEngine(t *testing.T) *kruskal.Engine[string] {
	t.Helper()
	e, err := kruskal.New(kruskal.Graph[string]{
		Vertices: []string{"A", "B", "C", "D"},
		Edges: []kruskal.Edge[string]{
			{From: "A", To: "B", Weight: 1},
			{From: "B", To: "C", Weight: 2},
			{From: "A", To: "C", Weight: 3},
			{From: "C", To: "D", Weight: 4.5},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestFromEngine(t *testing.T) {
	e := newEngine(t)
	s := FromEngine("square", e)
	if s.Current != -1 {
		t.Errorf("Current = %d before any step, want -1", s.Current)
	}
	if len(s.Components) != 4 {
		t.Errorf("Components = %d, want 4", len(s.Components))
	}

	e.Step()
	e.Step()
	e.Step()
	s = FromEngine("square", e)
	if s.Current != 2 {
		t.Errorf("Current = %d, want 2", s.Current)
	}
	want := []kruskal.Status{kruskal.StatusAccepted, kruskal.StatusAccepted, kruskal.StatusRejected, kruskal.StatusPending}
	for i, st := range want {
		if s.Status[i] != st {
			t.Errorf("Status[%d] = %v, want %v", i, s.Status[i], st)
		}
	}
	if s.TotalWeight != 3 {
		t.Errorf("TotalWeight = %g, want 3", s.TotalWeight)
	}
	if len(s.Components) != 2 {
		t.Errorf("Components = %d, want 2", len(s.Components))
	}
}

func TestToDOT(t *testing.T) {
	e := newEngine(t)
	e.Step()
	e.Step()
	e.Step()
	out := ToDOT(FromEngine("square", e), Options{})

	for _, want := range []string{
		"graph G {",
		"layout=neato;",
		`label="square  (weight 3, 2 components)";`,
		`"A" -- "B" [color="#16a34a", penwidth=3, style=solid, class="accepted", label="1"];`,
		`"A" -- "C" [color="#f97316", penwidth=4, style=dashed, class="rejected", label="3"];`,
		`"C" -- "D" [color="#9ca3af", penwidth=1, style=solid, class="pending", label="4.5"];`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "->") {
		t.Error("DOT should be undirected")
	}
}

func TestToDOT_ComponentsShareFill(t *testing.T) {
	e := newEngine(t)
	e.Step() // A-B merged
	out := ToDOT(FromEngine("", e), Options{})

	fill := func(v string) string {
		for _, line := range strings.Split(out, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), `"`+v+`" [fillcolor=`) {
				return line[strings.Index(line, "fillcolor="):]
			}
		}
		t.Fatalf("vertex %s not found", v)
		return ""
	}
	if fill("A") != fill("B") {
		t.Error("A and B are in one component but have different fills")
	}
	if fill("A") == fill("C") {
		t.Error("A and C are in different components but share a fill")
	}
	if strings.Contains(out, "labelloc") {
		t.Error("unnamed snapshot should have no title")
	}
}

func TestToDOT_Options(t *testing.T) {
	e := newEngine(t)
	out := ToDOT(FromEngine("g", e), Options{HideWeights: true, ShowOrder: true, Engine: "circo"})
	if !strings.Contains(out, "layout=circo;") {
		t.Error("layout engine not applied")
	}
	if !strings.Contains(out, `label="#4"`) {
		t.Errorf("order label missing:\n%s", out)
	}
	if strings.Contains(out, `label="4.5"`) {
		t.Error("weight shown despite HideWeights")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox =\n%s\nwant\n%s", out, want)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}
