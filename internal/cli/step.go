package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kruskal/pkg/graph"
	"github.com/matzehuels/kruskal/pkg/kruskal"
	"github.com/matzehuels/kruskal/pkg/pipeline"
)

type stepOpts struct {
	source   sourceFlags
	interval time.Duration
	noTUI    bool
}

// stepCommand creates the step command, an interactive stepper over one graph.
func (c *CLI) stepCommand() *cobra.Command {
	var opts stepOpts

	cmd := &cobra.Command{
		Use:   "step [graph-file]",
		Short: "Step through Kruskal's algorithm interactively",
		Long: `Step through Kruskal's algorithm one edge at a time.

Keys: n or → considers the next edge, space toggles autoplay, c completes the
run, r resets, + and - change the autoplay speed, q quits.`,
		Example: `  kruskal step --catalog classic
  kruskal step roads.toml --interval 200ms`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := opts.source.single(args)
			if err != nil {
				return err
			}
			interval := c.Config.AutoplayInterval
			if cmd.Flags().Changed("interval") {
				interval = opts.interval
			}
			if err := validateInterval(interval); err != nil {
				return err
			}

			g, e, err := loadEngine(cmd, in)
			if err != nil {
				return err
			}
			if opts.noTUI {
				printSteps(cmd, g, e)
				return nil
			}

			p := tea.NewProgram(newStepModel(g, e, interval),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()))
			_, err = p.Run()
			return err
		},
	}

	opts.source.register(cmd, false)
	cmd.Flags().DurationVar(&opts.interval, "interval", defaultInterval, "autoplay delay between steps")
	cmd.Flags().BoolVar(&opts.noTUI, "no-tui", false, "print every decision instead of starting the interactive view")

	return cmd
}

// loadEngine resolves a graph source and builds its engine.
func loadEngine(cmd *cobra.Command, in pipeline.Options) (graph.Graph, *kruskal.Engine[string], error) {
	g, err := pipeline.Load(cmd.Context(), in)
	if err != nil {
		return graph.Graph{}, nil, err
	}
	e, err := pipeline.Build(g)
	if err != nil {
		return graph.Graph{}, nil, err
	}
	return g, e, nil
}

// printSteps runs e to completion, narrating each decision.
func printSteps(cmd *cobra.Command, g graph.Graph, e *kruskal.Engine[string]) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, StyleTitle.Render(g.Name))
	fmt.Fprintln(out, StyleDim.Render(narrateProgress(e)))
	for i := 1; !e.Complete(); i++ {
		d, _ := e.Step()
		icon := StyleSuccess.Render(iconSuccess)
		if !d.Accepted {
			icon = StyleError.Render(iconError)
		}
		fmt.Fprintf(out, "%s %s %s\n", StyleDim.Render(fmt.Sprintf("%3d", i)), icon, narrateDecision(d))
	}
	fmt.Fprintln(out)
	printLines(out, narrateResult(g, e.Forest(), e.Stats()))
}
