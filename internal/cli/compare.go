package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kruskal/pkg/catalog"
	kerrors "github.com/matzehuels/kruskal/pkg/errors"
	"github.com/matzehuels/kruskal/pkg/graph"
	"github.com/matzehuels/kruskal/pkg/httputil"
	"github.com/matzehuels/kruskal/pkg/kruskal"
	"github.com/matzehuels/kruskal/pkg/pipeline"
)

type compareOpts struct {
	category string
	interval time.Duration
	noTUI    bool
}

// compareCommand creates the compare command. Two graphs run side by side in
// lockstep, either a catalog category or any two graph files or catalog names.
func (c *CLI) compareCommand() *cobra.Command {
	var opts compareOpts

	cmd := &cobra.Command{
		Use:   "compare [A B]",
		Short: "Compare two graphs side by side",
		Long: `Compare two graphs by running Kruskal's algorithm on both in lockstep.

Each argument is a graph file, an http(s) URL or a catalog name. --category picks a prepared
pair from the catalog instead; see "kruskal catalog categories".`,
		Example: `  kruskal compare --category connectivity
  kruskal compare classic triangle --no-tui
  kruskal compare a.json https://example.com/b.toml`,
		Args: cobra.RangeArgs(0, 2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return catalog.Names(), cobra.ShellCompDirectiveDefault
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			interval := c.Config.AutoplayInterval
			if cmd.Flags().Changed("interval") {
				interval = opts.interval
			}
			if err := validateInterval(interval); err != nil {
				return err
			}

			a, b, err := comparePair(cmd, opts.category, args)
			if err != nil {
				return err
			}
			ea, err := pipeline.Build(a)
			if err != nil {
				return err
			}
			eb, err := pipeline.Build(b)
			if err != nil {
				return err
			}
			d := kruskal.NewDual(ea, eb)

			if opts.noTUI {
				printComparison(cmd, opts.category, a, b, d)
				return nil
			}
			p := tea.NewProgram(newCompareModel(opts.category, a, b, d, interval),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&opts.category, "category", "", "catalog comparison category")
	cmd.Flags().DurationVar(&opts.interval, "interval", defaultInterval, "autoplay delay between steps")
	cmd.Flags().BoolVar(&opts.noTUI, "no-tui", false, "run both to completion and print the comparison")
	cmd.RegisterFlagCompletionFunc("category", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var names []string
		for _, cat := range catalog.Categories() {
			names = append(names, cat.Name)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// comparePair loads the two graphs to compare.
func comparePair(cmd *cobra.Command, category string, args []string) (graph.Graph, graph.Graph, error) {
	switch {
	case category != "" && len(args) > 0:
		return graph.Graph{}, graph.Graph{}, kerrors.New(kerrors.ErrCodeInvalidInput, "give either --category or two graphs, not both")
	case category != "":
		cat, err := catalog.GetCategory(category)
		if err != nil {
			return graph.Graph{}, graph.Graph{}, pipeline.Classify(err)
		}
		a, b, err := cat.Pair()
		if err != nil {
			return graph.Graph{}, graph.Graph{}, pipeline.Classify(err)
		}
		return a, b, nil
	case len(args) != 2:
		return graph.Graph{}, graph.Graph{}, kerrors.New(kerrors.ErrCodeInvalidInput, "compare needs two graphs or --category NAME")
	}

	a, err := pipeline.Load(cmd.Context(), graphArg(args[0]))
	if err != nil {
		return graph.Graph{}, graph.Graph{}, err
	}
	b, err := pipeline.Load(cmd.Context(), graphArg(args[1]))
	if err != nil {
		return graph.Graph{}, graph.Graph{}, err
	}
	return a, b, nil
}

// graphArg treats an http(s) argument as a URL, one with a graph file
// extension as a path and anything else as a catalog name.
func graphArg(arg string) pipeline.Options {
	if httputil.IsURL(arg) {
		return pipeline.Options{URL: arg}
	}
	if _, err := graph.FormatOf(arg); err == nil {
		return pipeline.Options{Path: arg}
	}
	return pipeline.Options{Catalog: arg}
}

// printComparison runs both engines to completion and prints the rounds
// followed by the comparative narration.
func printComparison(cmd *cobra.Command, category string, a, b graph.Graph, d *kruskal.Dual[string]) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, StyleTitle.Render(a.Name+" vs "+b.Name))
	if category != "" {
		if cat, err := catalog.GetCategory(category); err == nil {
			printDetail(out, "%s", cat.Description)
		}
	}
	fmt.Fprintln(out)

	rounds := d.RunBoth()
	fmt.Fprintln(out, roundsTable(rounds))
	fmt.Fprintln(out)
	printLines(out, narrateComparison(comparison{Category: category, A: a, B: b, Summary: d.Summary()}))
}

// roundsTable shows one row per lockstep round. A finished side shows blank.
func roundsTable(rounds []kruskal.DualStep[string]) string {
	side := func(d kruskal.Decision[string], ok bool) []string {
		if !ok {
			return []string{"", "", ""}
		}
		return []string{edgeLabel(d.Edge.From, d.Edge.To), formatWeight(d.Edge.Weight), decisionLabel(d)}
	}
	rows := make([][]string, len(rounds))
	for i, r := range rounds {
		row := []string{fmt.Sprint(i + 1)}
		row = append(row, side(r.A, r.OKA)...)
		rows[i] = append(row, side(r.B, r.OKB)...)
	}
	return newTable("#", "A edge", "W", "", "B edge", "W", "").Rows(rows...).Render()
}

func decisionLabel(d kruskal.Decision[string]) string {
	if d.Accepted {
		return statusLabel(kruskal.StatusAccepted)
	}
	return statusLabel(kruskal.StatusRejected)
}
