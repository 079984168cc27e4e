package cli

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kruskal/pkg/catalog"
	"github.com/matzehuels/kruskal/pkg/graph"
	"github.com/matzehuels/kruskal/pkg/pipeline"
)

// catalogCommand creates the catalog command for browsing built-in graphs.
func (c *CLI) catalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the built-in example graphs",
	}

	cmd.AddCommand(c.catalogListCommand())
	cmd.AddCommand(c.catalogShowCommand())
	cmd.AddCommand(c.catalogExportCommand())
	cmd.AddCommand(c.catalogCategoriesCommand())

	return cmd
}

func (c *CLI) catalogListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List catalog graphs",
		RunE: func(cmd *cobra.Command, args []string) error {
			all := catalog.All()
			rows := make([][]string, len(all))
			for i, g := range all {
				rows[i] = []string{
					g.Name,
					strconv.Itoa(g.VertexCount()),
					strconv.Itoa(g.EdgeCount()),
					strconv.FormatFloat(g.Density(), 'f', 2, 64),
					g.Description,
				}
			}
			t := newTable("Name", "Vertices", "Edges", "Density", "Description").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == table.HeaderRow {
						return styleHeader
					}
					if col >= 1 && col <= 3 {
						return lipgloss.NewStyle().Align(lipgloss.Right)
					}
					return lipgloss.NewStyle()
				})
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, t.Render())
			printNextStep(out, "Step through one", "kruskal step --catalog "+all[0].Name)
			return nil
		},
	}
}

func (c *CLI) catalogShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "show NAME",
		Short:             "Show a catalog graph and its sorted edges",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeCatalog,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := pipeline.Options{Catalog: args[0]}
			g, e, err := loadEngine(cmd, in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, StyleTitle.Render(g.Name))
			if g.Description != "" {
				printDetail(out, "%s", g.Description)
			}
			printKeyValue(out, "Vertices", strconv.Itoa(g.VertexCount()))
			printKeyValue(out, "Edges", strconv.Itoa(g.EdgeCount()))
			printKeyValue(out, "Density", strconv.FormatFloat(g.Density(), 'f', 2, 64))
			printKeyValue(out, "Weights", weightsNote(g))
			fmt.Fprintln(out)
			fmt.Fprintln(out, sequenceTable(e, 0))
			return nil
		},
	}
}

func (c *CLI) catalogExportCommand() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:               "export NAME",
		Short:             "Write a catalog graph as a JSON or TOML file",
		Example:           "  kruskal catalog export classic -o classic.toml",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeCatalog,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := pipeline.Load(cmd.Context(), pipeline.Options{Catalog: args[0]})
			if err != nil {
				return err
			}
			f, err := exportFormat(format, output)
			if err != nil {
				return pipeline.Classify(err)
			}
			var buf bytes.Buffer
			if err := graph.WriteGraph(&buf, g, f); err != nil {
				return err
			}
			return writeOutput(cmd, output, buf.Bytes())
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "json or toml (default from the output extension, else json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

// exportFormat picks the graph file format from the flag, then the output
// extension, then JSON.
func exportFormat(format, output string) (graph.Format, error) {
	switch {
	case format != "":
		return graph.ParseFormat(format)
	case output != "":
		return graph.FormatOf(output)
	default:
		return graph.FormatJSON, nil
	}
}

func (c *CLI) catalogCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List comparison categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cats := catalog.Categories()
			rows := make([][]string, len(cats))
			for i, cat := range cats {
				rows[i] = []string{cat.Name, cat.A + " vs " + cat.B, cat.Title}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, newTable("Category", "Graphs", "Lesson").Rows(rows...).Render())
			printNextStep(out, "Compare a pair", "kruskal compare --category "+cats[0].Name)
			return nil
		},
	}
}
