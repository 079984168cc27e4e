// Package dot exports a snapshot of a Kruskal run as a Graphviz diagram.
//
// # Overview
//
// A [Snapshot] freezes what an engine knows at one cursor position: the
// sorted edges, the status of each, the most recent decision and the
// current union-find partition. [ToDOT] turns it into an undirected DOT
// graph; [RenderSVG] lays it out with Graphviz.
//
// Layout is entirely Graphviz's job. Nothing here computes positions.
//
// # Usage
//
//	e.Step(); e.Step()
//	snap := dot.FromEngine("roads", e)
//	src := dot.ToDOT(snap, dot.Options{})
//	svg, err := dot.RenderSVG(src)
//
// # Edge Styles
//
//   - accepted: solid, thick, green
//   - rejected: dashed, red
//   - current: the edge decided by the last step, orange and thickest
//   - pending: thin, grey
//
// Vertices are filled by component so that merges are visible from one
// snapshot to the next.
package dot
