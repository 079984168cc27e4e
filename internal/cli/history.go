package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	kerrors "github.com/matzehuels/kruskal/pkg/errors"
	"github.com/matzehuels/kruskal/pkg/graph"
	"github.com/matzehuels/kruskal/pkg/pipeline"
)

// historyCommand creates the history command for saved traces.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, show and delete saved runs",
		Long: `Saved runs are complete traces stored by "kruskal run --save".
They live in $XDG_CONFIG_HOME/kruskal/history unless history.dir is set in the config file.`,
	}

	cmd.AddCommand(c.historyListCommand())
	cmd.AddCommand(c.historyShowCommand())
	cmd.AddCommand(c.historyDeleteCommand())

	return cmd
}

func (c *CLI) historyListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.historyStore()
			if err != nil {
				return err
			}
			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				printInfo(out, "No saved runs")
				printNextStep(out, "Save one", "kruskal run --catalog classic --save")
				return nil
			}

			rows := make([][]string, len(entries))
			for i, e := range entries {
				rows[i] = []string{
					e.ID,
					e.Name,
					e.CreatedAt.Local().Format("2006-01-02 15:04"),
					strconv.Itoa(e.Vertices),
					strconv.Itoa(e.Edges),
					formatWeight(e.Weight),
					strconv.Itoa(e.Components),
				}
			}
			t := newTable("ID", "Graph", "Saved", "Vertices", "Edges", "Weight", "Trees").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == table.HeaderRow {
						return styleHeader
					}
					if col == 0 {
						return StyleDim
					}
					if col >= 3 {
						return lipgloss.NewStyle().Align(lipgloss.Right)
					}
					return lipgloss.NewStyle()
				})
			fmt.Fprintln(out, t.Render())
			return nil
		},
	}
}

func (c *CLI) historyShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := kerrors.ValidateID(args[0]); err != nil {
				return err
			}
			store, err := c.historyStore()
			if err != nil {
				return err
			}
			t, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return pipeline.Classify(err)
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return graph.WriteTrace(out, t)
			}
			printTrace(out, t, false)
			fmt.Fprintln(out)
			printDetail(out, "Saved %s", t.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the trace as JSON")

	return cmd
}

func (c *CLI) historyDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID...",
		Aliases: []string{"rm"},
		Short:   "Delete saved runs",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.historyStore()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, id := range args {
				if err := kerrors.ValidateID(id); err != nil {
					return err
				}
				if err := store.Delete(cmd.Context(), id); err != nil {
					return pipeline.Classify(err)
				}
				printSuccess(out, "Deleted %s", id)
			}
			return nil
		},
	}
}
