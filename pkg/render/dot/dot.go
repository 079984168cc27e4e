package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/kruskal/pkg/kruskal"
)

// Options configures diagram generation.
type Options struct {
	// HideWeights drops weight labels from edges.
	HideWeights bool

	// ShowOrder prefixes edge labels with the position in the sorted sequence.
	ShowOrder bool

	// Engine selects the Graphviz layout engine (neato, circo, dot, ...).
	// Empty means neato.
	Engine string
}

// Snapshot is the engine state rendered by [ToDOT].
type Snapshot struct {
	Name        string
	Vertices    []string
	Edges       []kruskal.Edge[string] // Sorted sequence
	Status      []kruskal.Status       // Parallel to Edges
	Current     int                    // Index of the last decided edge, -1 before the first step
	TotalWeight float64
	Components  [][]string
}

// FromEngine captures the current state of e.
func FromEngine(name string, e *kruskal.Engine[string]) Snapshot {
	edges := e.Edges()
	status := make([]kruskal.Status, len(edges))
	for i := range edges {
		status[i] = e.Status(i)
	}
	f := e.Forest()
	return Snapshot{
		Name:        name,
		Vertices:    e.Graph().Vertices,
		Edges:       edges,
		Status:      status,
		Current:     e.Cursor() - 1,
		TotalWeight: f.TotalWeight,
		Components:  e.Components(),
	}
}

// palette fills component groups; it cycles when there are more groups.
var palette = []string{
	"#dbeafe", "#dcfce7", "#fef9c3", "#fce7f3", "#ede9fe", "#ffedd5", "#cffafe", "#f3f4f6",
}

// ToDOT converts a snapshot to an undirected Graphviz graph.
func ToDOT(s Snapshot, opts Options) string {
	engine := opts.Engine
	if engine == "" {
		engine = "neato"
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  layout=%s;\n", engine)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  splines=true;\n")
	if s.Name != "" {
		fmt.Fprintf(&buf, "  label=%q;\n", fmt.Sprintf("%s  (weight %g, %d components)", s.Name, s.TotalWeight, len(s.Components)))
		buf.WriteString("  labelloc=t;\n")
	}
	buf.WriteString("  node [shape=circle, style=filled, fontsize=14, width=0.4, fixedsize=false];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	buf.WriteString("\n")

	group := make(map[string]int, len(s.Vertices))
	for i, comp := range s.Components {
		for _, v := range comp {
			group[v] = i
		}
	}
	for _, v := range s.Vertices {
		fmt.Fprintf(&buf, "  %q [fillcolor=%q];\n", v, palette[group[v]%len(palette)])
	}

	buf.WriteString("\n")
	for i, e := range s.Edges {
		status := kruskal.StatusPending
		if i < len(s.Status) {
			status = s.Status[i]
		}
		attrs := edgeAttrs(status, i == s.Current)
		if label := edgeLabel(e, i, opts); label != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", label))
		}
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func edgeAttrs(status kruskal.Status, current bool) []string {
	color, width, style := "#9ca3af", "1", "solid"
	switch status {
	case kruskal.StatusAccepted:
		color, width = "#16a34a", "3"
	case kruskal.StatusRejected:
		color, width, style = "#dc2626", "1.5", "dashed"
	}
	if current {
		color, width = "#f97316", "4"
	}
	return []string{
		"color=" + strconv.Quote(color),
		"penwidth=" + width,
		"style=" + style,
		"class=" + strconv.Quote(status.String()),
	}
}

func edgeLabel(e kruskal.Edge[string], i int, opts Options) string {
	var parts []string
	if opts.ShowOrder {
		parts = append(parts, fmt.Sprintf("#%d", i+1))
	}
	if !opts.HideWeights {
		parts = append(parts, strconv.FormatFloat(e.Weight, 'g', -1, 64))
	}
	return strings.Join(parts, " ")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
