package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	kerrors "github.com/matzehuels/kruskal/pkg/errors"
	"github.com/matzehuels/kruskal/pkg/kruskal"
	"github.com/matzehuels/kruskal/pkg/pipeline"
	"github.com/matzehuels/kruskal/pkg/render/dot"
)

type exportOpts struct {
	source      sourceFlags
	format      string
	steps       int
	output      string
	layout      string
	showOrder   bool
	hideWeights bool
}

// exportState is the JSON form of an engine part way through a run.
type exportState struct {
	Name       string                     `json:"name"`
	State      string                     `json:"state"`
	Cursor     int                        `json:"cursor"`
	Edges      []exportEdge               `json:"edges"`
	Forest     kruskal.Forest[string]     `json:"forest"`
	Stats      kruskal.Stats              `json:"stats"`
	Components [][]string                 `json:"components"`
	Decisions  []kruskal.Decision[string] `json:"decisions"`
}

type exportEdge struct {
	kruskal.Edge[string]
	Status string `json:"status"`
}

// exportCommand creates the export command, which writes the state after a
// number of steps as DOT, SVG or JSON.
func (c *CLI) exportCommand() *cobra.Command {
	opts := exportOpts{steps: -1}

	cmd := &cobra.Command{
		Use:   "export [graph-file]",
		Short: "Export a run as Graphviz DOT, SVG or JSON",
		Example: `  kruskal export --catalog classic --format svg -o classic.svg
  kruskal export roads.json --steps 3 --order`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := opts.source.single(args)
			if err != nil {
				return err
			}
			format := c.Config.OutputFormat
			if cmd.Flags().Changed("format") {
				format = opts.format
			}
			if err := pipeline.ValidateFormat(format); err != nil {
				return err
			}
			if opts.steps < -1 {
				return kerrors.New(kerrors.ErrCodeInvalidInput, "--steps must be -1 or more, got %d", opts.steps)
			}

			g, e, err := loadEngine(cmd, in)
			if err != nil {
				return err
			}
			advance(e, opts.steps)

			data, err := renderExport(cmd, g.Name, e, format, dot.Options{
				Engine:      opts.layout,
				ShowOrder:   opts.showOrder,
				HideWeights: opts.hideWeights,
			})
			if err != nil {
				return err
			}
			return writeOutput(cmd, opts.output, data)
		},
	}

	opts.source.register(cmd, false)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "dot", "output format: dot, svg or json")
	cmd.Flags().IntVar(&opts.steps, "steps", opts.steps, "edges to consider before exporting (-1 for all)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.layout, "layout", "neato", "Graphviz layout engine")
	cmd.Flags().BoolVar(&opts.showOrder, "order", false, "label edges with their position in the sorted sequence")
	cmd.Flags().BoolVar(&opts.hideWeights, "no-weights", false, "omit weight labels")

	return cmd
}

// advance steps e n times, or to completion when n is negative.
func advance(e *kruskal.Engine[string], n int) {
	if n < 0 {
		e.Run()
		return
	}
	for i := 0; i < n && !e.Complete(); i++ {
		e.Step()
	}
}

func renderExport(cmd *cobra.Command, name string, e *kruskal.Engine[string], format string, opts dot.Options) ([]byte, error) {
	switch format {
	case pipeline.FormatJSON:
		data, err := json.MarshalIndent(stateOf(name, e), "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case pipeline.FormatSVG:
		spin := newSpinner(cmd.Context(), cmd.ErrOrStderr(), "Rendering SVG...")
		spin.Start()
		defer spin.Stop()
		svg, err := dot.RenderSVG(cmd.Context(), dot.ToDOT(dot.FromEngine(name, e), opts))
		if err != nil {
			return nil, kerrors.Wrap(kerrors.ErrCodeInternal, err, "render SVG")
		}
		return svg, nil
	default:
		return []byte(dot.ToDOT(dot.FromEngine(name, e), opts)), nil
	}
}

func stateOf(name string, e *kruskal.Engine[string]) exportState {
	edges := e.Edges()
	out := make([]exportEdge, len(edges))
	for i, edge := range edges {
		out[i] = exportEdge{Edge: edge, Status: e.Status(i).String()}
	}
	return exportState{
		Name:       name,
		State:      e.State().String(),
		Cursor:     e.Cursor(),
		Edges:      out,
		Forest:     e.Forest(),
		Stats:      e.Stats(),
		Components: e.Components(),
		Decisions:  e.Decisions(),
	}
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printFile(cmd.ErrOrStderr(), path)
	return nil
}

