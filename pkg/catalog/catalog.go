// Package catalog embeds the fixed teaching graphs and the comparison
// categories that pair them.
//
// Every graph has deterministic weights so that runs, tests and recorded
// traces are reproducible. Graphs are stored as TOML under graphs/ and
// decoded with [graph.ReadGraph] on first use.
package catalog

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/kruskal/pkg/graph"
)

// ErrNotFound is returned for unknown graph or category names.
var ErrNotFound = errors.New("not in catalog")

//go:embed graphs/*.toml
var graphFiles embed.FS

//go:embed categories.toml
var categoriesFile []byte

// Category pairs two catalog graphs for side-by-side comparison.
type Category struct {
	Name        string `toml:"name" json:"name"`
	Title       string `toml:"title" json:"title"`
	Description string `toml:"description" json:"description"`
	A           string `toml:"a" json:"a"`
	B           string `toml:"b" json:"b"`
}

type index struct {
	graphs     map[string]graph.Graph
	names      []string
	categories []Category
}

var load = sync.OnceValues(func() (*index, error) {
	entries, err := graphFiles.ReadDir("graphs")
	if err != nil {
		return nil, err
	}
	idx := &index{graphs: make(map[string]graph.Graph, len(entries))}
	for _, entry := range entries {
		data, err := graphFiles.ReadFile(path.Join("graphs", entry.Name()))
		if err != nil {
			return nil, err
		}
		g, err := graph.ReadGraph(bytes.NewReader(data), graph.FormatTOML)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", entry.Name(), err)
		}
		if g.Name == "" {
			g.Name = strings.TrimSuffix(entry.Name(), ".toml")
		}
		idx.graphs[g.Name] = g
		idx.names = append(idx.names, g.Name)
	}
	slices.Sort(idx.names)

	var doc struct {
		Categories []Category `toml:"categories"`
	}
	if err := toml.Unmarshal(categoriesFile, &doc); err != nil {
		return nil, fmt.Errorf("catalog categories: %w", err)
	}
	for _, c := range doc.Categories {
		for _, ref := range []string{c.A, c.B} {
			if _, ok := idx.graphs[ref]; !ok {
				return nil, fmt.Errorf("category %s: graph %q: %w", c.Name, ref, ErrNotFound)
			}
		}
	}
	idx.categories = doc.Categories
	return idx, nil
})

func mustLoad() *index {
	idx, err := load()
	if err != nil {
		// Embedded data is checked by tests; a failure here is a build defect.
		panic(err)
	}
	return idx
}

// Names returns the sorted names of all catalog graphs.
func Names() []string { return slices.Clone(mustLoad().names) }

// Get returns the named graph. The result is a copy and may be modified.
func Get(name string) (graph.Graph, error) {
	g, ok := mustLoad().graphs[name]
	if !ok {
		return graph.Graph{}, fmt.Errorf("graph %q: %w", name, ErrNotFound)
	}
	g.Vertices = slices.Clone(g.Vertices)
	g.Edges = slices.Clone(g.Edges)
	return g, nil
}

// All returns every catalog graph in name order.
func All() []graph.Graph {
	names := Names()
	out := make([]graph.Graph, 0, len(names))
	for _, n := range names {
		g, _ := Get(n)
		out = append(out, g)
	}
	return out
}

// Categories returns the comparison categories in file order.
func Categories() []Category { return slices.Clone(mustLoad().categories) }

// GetCategory returns the named comparison category.
func GetCategory(name string) (Category, error) {
	for _, c := range mustLoad().categories {
		if c.Name == name {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("category %q: %w", name, ErrNotFound)
}

// Pair returns the two graphs a category compares.
func (c Category) Pair() (graph.Graph, graph.Graph, error) {
	a, err := Get(c.A)
	if err != nil {
		return graph.Graph{}, graph.Graph{}, err
	}
	b, err := Get(c.B)
	if err != nil {
		return graph.Graph{}, graph.Graph{}, err
	}
	return a, b, nil
}
