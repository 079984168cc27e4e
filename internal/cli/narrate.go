package cli

import (
	"fmt"

	"github.com/matzehuels/kruskal/pkg/graph"
	"github.com/matzehuels/kruskal/pkg/kruskal"
)

// Narration turns engine state into explanatory text. Everything here is a
// pure function of its arguments.

// narrateDecision explains one step.
func narrateDecision(d kruskal.Decision[string]) string {
	e := d.Edge
	if d.Accepted {
		return fmt.Sprintf("Accepted %s (weight %s): it joins two separate trees. Total weight is now %s.",
			edgeLabel(e.From, e.To), formatWeight(e.Weight), formatWeight(d.TotalWeight))
	}
	return fmt.Sprintf("Rejected %s (weight %s): both endpoints are already connected, so it would close a cycle.",
		edgeLabel(e.From, e.To), formatWeight(e.Weight))
}

// narrateProgress is the one-line status shown while a run is under way.
func narrateProgress(e *kruskal.Engine[string]) string {
	st := e.Stats()
	switch e.State() {
	case kruskal.StateNotStarted:
		return fmt.Sprintf("%d edges sorted by weight, nothing considered yet.", st.Total)
	case kruskal.StateCompleted:
		return fmt.Sprintf("Done: all %d edges considered.", st.Total)
	default:
		return fmt.Sprintf("%d of %d edges considered (%.0f%%), %d accepted, %d rejected.",
			st.Considered, st.Total, st.Progress()*100, st.Accepted, st.Rejected)
	}
}

// narrateResult summarizes a finished run over g.
func narrateResult(g graph.Graph, f kruskal.Forest[string], st kruskal.Stats) []string {
	n := g.VertexCount()
	var lines []string
	if f.IsTree() {
		lines = append(lines, fmt.Sprintf("Minimum spanning tree: %d edges, total weight %s.", len(f.Edges), formatWeight(f.TotalWeight)))
	} else {
		lines = append(lines, fmt.Sprintf("Minimum spanning forest: %d trees, %d edges, total weight %s.",
			f.Components, len(f.Edges), formatWeight(f.TotalWeight)))
	}
	lines = append(lines,
		fmt.Sprintf("• %d vertices and %d components give exactly %d - %d = %d edges.", n, f.Components, n, f.Components, n-f.Components),
		fmt.Sprintf("• %d of %d edges were rejected (%.1f%%) because they would have closed a cycle.",
			st.Rejected, st.Considered, st.RejectRate()*100),
	)
	kind := "tree"
	if !f.IsTree() {
		kind = "forest"
	}
	if g.HasDuplicateWeights() {
		lines = append(lines, fmt.Sprintf("• Some weights repeat, so other %ss of the same total weight may exist.", kind))
	} else {
		lines = append(lines, fmt.Sprintf("• All weights are distinct, so this is the only minimum spanning %s.", kind))
	}
	return lines
}

// comparison is the input to [narrateComparison].
type comparison struct {
	Category string // Catalog category name, or empty
	A, B     graph.Graph
	Summary  kruskal.Summary
}

// narrateComparison explains the final state of a side-by-side run. The
// category selects the lesson; anything else gets the generic statistics.
func narrateComparison(c comparison) []string {
	a, b := c.Summary.A, c.Summary.B
	lines := []string{fmt.Sprintf("%s vs %s", c.A.Name, c.B.Name), ""}

	switch c.Category {
	case "connectivity":
		conn, disc, dc := c.A.Name, c.B.Name, b.Components
		if a.Components > b.Components {
			conn, disc, dc = c.B.Name, c.A.Name, a.Components
		}
		lines = append(lines,
			"Connected vs disconnected",
			fmt.Sprintf("• %s produced a true spanning tree (1 component).", conn),
			fmt.Sprintf("• %s produced a spanning forest of %d separate trees.", disc, dc),
			"• Kruskal builds an optimal tree inside each component but cannot join them.",
			"• A forest always has exactly n - c edges for n vertices and c components.",
			"• No start vertex is needed: every component is handled at once.",
		)
	case "density":
		dense, sparse := c.A, c.B
		ds, ss := a, b
		if c.B.EdgeCount() > c.A.EdgeCount() {
			dense, sparse, ds, ss = c.B, c.A, b, a
		}
		lines = append(lines,
			"Dense vs sparse",
			fmt.Sprintf("• %s: %d edges, %.1f%% of considered edges rejected.", dense.Name, dense.EdgeCount(), ds.Stats.RejectRate()*100),
			fmt.Sprintf("• %s: %d edges, %.1f%% of considered edges rejected.", sparse.Name, sparse.EdgeCount(), ss.Stats.RejectRate()*100),
			"• Dense graphs need many more cycle checks, so union-find efficiency matters most there.",
			"• Tree size depends only on the vertex count, not on how many edges the graph had.",
		)
	case "uniqueness":
		lines = append(lines,
			"Unique vs multiple minimum spanning trees",
			fmt.Sprintf("• %s: %s.", c.A.Name, weightsNote(c.A)),
			fmt.Sprintf("• %s: %s.", c.B.Name, weightsNote(c.B)),
			"• Distinct weights guarantee a single minimum spanning tree.",
			"• With equal weights the tie-break decides which tree is built; every choice has the same total weight.",
		)
	case "weights":
		lines = append(lines,
			"Edge weight distributions",
			fmt.Sprintf("• %s: mean edge weight %.2f, tree weight %s.", c.A.Name, meanWeight(c.A), formatWeight(a.Weight)),
			fmt.Sprintf("• %s: mean edge weight %.2f, tree weight %s.", c.B.Name, meanWeight(c.B), formatWeight(b.Weight)),
			"• Only the order of weights matters. Negative weights are handled like any other.",
			"• Locally cheapest choices still lead to the global optimum.",
		)
	case "structure":
		lines = append(lines,
			"Different structural properties",
			fmt.Sprintf("• %s: mean degree %.1f, tree with %d edges.", c.A.Name, meanDegree(c.A), a.Edges),
			fmt.Sprintf("• %s: mean degree %.1f, tree with %d edges.", c.B.Name, meanDegree(c.B), b.Edges),
			"• Different shapes produce different cycle patterns, yet the result is always optimal.",
			"• A bridge edge is always accepted: no other path can join its two sides.",
		)
	}

	lines = append(lines,
		"",
		"Statistics",
		fmt.Sprintf("• %s: %d vertices, %d edges; tree %d edges, weight %s; %.1f%% accepted.",
			c.A.Name, c.A.VertexCount(), c.A.EdgeCount(), a.Edges, formatWeight(a.Weight), acceptRate(a.Stats)),
		fmt.Sprintf("• %s: %d vertices, %d edges; tree %d edges, weight %s; %.1f%% accepted.",
			c.B.Name, c.B.VertexCount(), c.B.EdgeCount(), b.Edges, formatWeight(b.Weight), acceptRate(b.Stats)),
	)
	if a.Components > 1 || b.Components > 1 {
		for _, side := range []struct {
			name string
			s    kruskal.Side
		}{{c.A.Name, a}, {c.B.Name, b}} {
			if side.s.Components > 1 {
				lines = append(lines, fmt.Sprintf("• %s produced a forest of %d trees.", side.name, side.s.Components))
			}
		}
	}
	return lines
}

func weightsNote(g graph.Graph) string {
	if g.HasDuplicateWeights() {
		return "repeated weights, several optimal trees may exist"
	}
	return "all weights distinct, exactly one optimal tree"
}

func meanWeight(g graph.Graph) float64 {
	if len(g.Edges) == 0 {
		return 0
	}
	var sum float64
	for _, e := range g.Edges {
		sum += e.Weight
	}
	return sum / float64(len(g.Edges))
}

func meanDegree(g graph.Graph) float64 {
	n := g.VertexCount()
	if n == 0 {
		return 0
	}
	return 2 * float64(g.EdgeCount()) / float64(n)
}

func acceptRate(st kruskal.Stats) float64 {
	if st.Considered == 0 {
		return 0
	}
	return float64(st.Accepted) / float64(st.Considered) * 100
}
