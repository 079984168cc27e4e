package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	kerrors "github.com/matzehuels/kruskal/pkg/errors"
	"github.com/matzehuels/kruskal/pkg/graph"
	"github.com/matzehuels/kruskal/pkg/pipeline"
)

// runOpts holds the flags of the run command.
type runOpts struct {
	source  sourceFlags
	json    bool // print traces as JSON instead of tables
	save    bool // store traces in history
	noCache bool // bypass the trace cache
	refresh bool // recompute and overwrite cached traces
	limit   int  // concurrent runs in batch mode
}

// runCommand creates the run command. One graph prints its decision table
// and narration; several graphs run concurrently and print a summary table.
func (c *CLI) runCommand() *cobra.Command {
	opts := runOpts{limit: pipeline.DefaultBatchLimit}

	cmd := &cobra.Command{
		Use:   "run [graph-file|url...]",
		Short: "Run Kruskal's algorithm to completion",
		Example: `  kruskal run roads.json
  kruskal run --catalog classic --save
  kruskal run https://example.com/graphs/roads.toml
  kruskal run --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := opts.source.options(args)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			for i := range inputs {
				inputs[i].Refresh = opts.refresh
			}
			if len(inputs) == 1 {
				return c.runSingle(cmd, runner, inputs[0], opts)
			}
			return c.runBatch(cmd, runner, inputs, opts)
		},
	}

	opts.source.register(cmd, true)
	cmd.Flags().BoolVar(&opts.json, "json", false, "print traces as JSON")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save traces to history")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the trace cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute cached traces")
	cmd.Flags().IntVar(&opts.limit, "parallel", opts.limit, "graphs run at once in batch mode")

	return cmd
}

func (c *CLI) runSingle(cmd *cobra.Command, runner *pipeline.Runner, in pipeline.Options, opts runOpts) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	res, err := runner.Run(ctx, in)
	if err != nil {
		return err
	}
	t := res.Trace

	var id string
	if opts.save {
		if id, err = c.saveTrace(ctx, t); err != nil {
			return err
		}
	}

	if opts.json {
		return graph.WriteTrace(out, t)
	}

	printTrace(out, t, res.CacheHit)
	if !t.Forest.IsTree() {
		fmt.Fprintln(out)
		printWarning(out, "Graph is disconnected: the result is a forest of %d trees", t.Forest.Components)
	}
	if id != "" {
		fmt.Fprintln(out)
		printSuccess(out, "Saved trace %s", id)
		printNextStep(out, "Show it again", "kruskal history show "+id)
	}
	return nil
}

// printTrace prints a trace as heading, decision table and narration.
func printTrace(w io.Writer, t *graph.Trace, cached bool) {
	fmt.Fprintln(w, StyleTitle.Render(t.Name))
	printStats(w, t.Graph.VertexCount(), t.Graph.EdgeCount(), cached)
	fmt.Fprintln(w)
	if len(t.Decisions) > 0 {
		fmt.Fprintln(w, decisionTable(t.Decisions))
		fmt.Fprintln(w)
	}
	printLines(w, narrateResult(t.Graph, t.Forest, t.Stats))
}

func (c *CLI) runBatch(cmd *cobra.Command, runner *pipeline.Runner, inputs []pipeline.Options, opts runOpts) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	prog := newProgress(c.Logger)

	spin := newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Running %d graphs...", len(inputs)))
	spin.Start()
	results, err := runner.RunBatch(ctx, inputs, opts.limit)
	spin.Stop()
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		if opts.save {
			id, err := c.saveTrace(ctx, r.Result.Trace)
			if err != nil {
				return err
			}
			c.Logger.Debug("saved", "graph", r.Result.Trace.Name, "id", id)
		}
	}

	if opts.json {
		traces := make([]*graph.Trace, 0, len(results))
		for _, r := range results {
			if r.Err == nil {
				traces = append(traces, r.Result.Trace)
			}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(traces); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, batchTable(results))
		prog.done(fmt.Sprintf("Ran %d graphs", len(results)-failed))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d graphs failed", failed, len(results))
	}
	return nil
}

// batchTable summarizes one row per batch input.
func batchTable(results []pipeline.BatchResult) string {
	rows := make([][]string, len(results))
	for i, r := range results {
		if r.Err != nil {
			rows[i] = []string{r.Options.Source(), "", "", "", "", "", StyleError.Render(iconError + " " + kerrors.UserMessage(r.Err))}
			continue
		}
		t := r.Result.Trace
		status := styleComputed.Render(iconFresh)
		if r.Result.CacheHit {
			status = styleCached.Render(iconCached)
		}
		rows[i] = []string{
			t.Name,
			strconv.Itoa(t.Graph.VertexCount()),
			strconv.Itoa(t.Graph.EdgeCount()),
			strconv.Itoa(len(t.Forest.Edges)),
			formatWeight(t.Forest.TotalWeight),
			strconv.Itoa(t.Forest.Components),
			status,
		}
	}
	return newTable("Graph", "Vertices", "Edges", "Tree", "Weight", "Trees", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if col >= 1 && col <= 5 {
				return lipgloss.NewStyle().Align(lipgloss.Right)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func (c *CLI) saveTrace(ctx context.Context, t *graph.Trace) (string, error) {
	store, err := c.historyStore()
	if err != nil {
		return "", err
	}
	return store.Save(ctx, t)
}
