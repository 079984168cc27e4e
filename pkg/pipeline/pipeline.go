// Package pipeline provides the load → validate → run → trace pipeline shared
// by the CLI and the session server.
//
// By centralizing this logic, every entry point resolves graphs, reports
// errors and caches traces the same way.
//
// # Architecture
//
// A run has three stages:
//
//  1. Load: Read a graph file, download one, or look up a catalog graph
//  2. Build: Validate the graph by constructing a [kruskal.Engine]
//  3. Run: Step the engine to completion and record a [graph.Trace]
//
// Stage errors are classified into [kerrors.Code]s by [Classify] so that
// callers can print a clean message or pick an HTTP status.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Run(ctx, pipeline.Options{Path: "roads.json"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Trace.Forest.TotalWeight)
//
// Run many graphs concurrently:
//
//	results, err := runner.RunBatch(ctx, opts, 4)
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kruskal/pkg/catalog"
	kerrors "github.com/matzehuels/kruskal/pkg/errors"
	"github.com/matzehuels/kruskal/pkg/graph"
	"github.com/matzehuels/kruskal/pkg/httputil"
	"github.com/matzehuels/kruskal/pkg/kruskal"
	"github.com/matzehuels/kruskal/pkg/observability"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultBatchLimit is the number of graphs RunBatch evaluates at once
	// when the caller passes a non-positive limit.
	DefaultBatchLimit = 4

	// TTLTrace is how long a cached trace stays valid.
	TTLTrace = 7 * 24 * time.Hour
)

// Export format constants.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported export formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatJSON: true,
}

// ValidateFormat checks that an export format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return kerrors.New(kerrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: dot, svg, json)", format)
	}
	return nil
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options selects a graph and controls how it is run.
// Exactly one of Path, URL, Catalog or Graph must be set.
type Options struct {
	Path    string       `json:"path,omitempty"`    // Graph file (.json or .toml)
	URL     string       `json:"url,omitempty"`     // Remote graph file
	Catalog string       `json:"catalog,omitempty"` // Catalog graph name
	Graph   *graph.Graph `json:"graph,omitempty"`   // Inline graph
	Refresh bool         `json:"refresh,omitempty"` // Ignore cached traces

	// Runtime options (not serialized)
	Logger  *log.Logger      `json:"-"`
	Fetcher *httputil.Client `json:"-"` // Nil uses a default client
}

// Source returns a short description of where the graph comes from, for
// logs and batch tables.
func (o Options) Source() string {
	switch {
	case o.Path != "":
		return o.Path
	case o.URL != "":
		return o.URL
	case o.Catalog != "":
		return "catalog:" + o.Catalog
	case o.Graph != nil && o.Graph.Name != "":
		return "inline:" + o.Graph.Name
	default:
		return "inline"
	}
}

// Validate checks that exactly one graph source is set and is well-formed.
func (o Options) Validate() error {
	n := 0
	for _, set := range []bool{o.Path != "", o.URL != "", o.Catalog != "", o.Graph != nil} {
		if set {
			n++
		}
	}
	switch {
	case n == 0:
		return kerrors.New(kerrors.ErrCodeInvalidInput, "a graph file, url, catalog name or inline graph is required")
	case n > 1:
		return kerrors.New(kerrors.ErrCodeInvalidInput, "only one of graph file, url, catalog name or inline graph may be given")
	case o.Path != "":
		return kerrors.ValidateGraphPath(o.Path)
	case o.URL != "":
		return kerrors.ValidateGraphURL(o.URL)
	case o.Catalog != "":
		return kerrors.ValidateGraphName(o.Catalog)
	}
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Trace is the complete run record.
	Trace *graph.Trace

	// GraphHash is the content hash of the canonical graph encoding.
	GraphHash string

	// CacheHit reports whether the trace came from the cache.
	CacheHit bool

	// Duration covers the whole run including loading.
	Duration time.Duration
}

// =============================================================================
// Stages
// =============================================================================

// Load resolves the graph selected by opts.
func Load(ctx context.Context, opts Options) (graph.Graph, error) {
	if err := opts.Validate(); err != nil {
		return graph.Graph{}, err
	}
	g, err := load(ctx, opts)
	observability.Run().OnLoad(ctx, opts.Source(), err)
	if err != nil {
		return graph.Graph{}, Classify(err)
	}
	return g, nil
}

func load(ctx context.Context, opts Options) (graph.Graph, error) {
	switch {
	case opts.Path != "":
		return graph.ReadGraphFile(opts.Path)
	case opts.URL != "":
		fetcher := opts.Fetcher
		if fetcher == nil {
			fetcher = httputil.NewClient()
		}
		return fetcher.Graph(ctx, opts.URL)
	case opts.Catalog != "":
		return catalog.Get(opts.Catalog)
	default:
		return *opts.Graph, nil
	}
}

// Build validates g by constructing an engine over it.
func Build(g graph.Graph) (*kruskal.Engine[string], error) {
	e, err := kruskal.New(g.ToKruskal())
	if err != nil {
		name := g.Name
		if name == "" {
			name = "graph"
		}
		return nil, Classify(fmt.Errorf("%s: %w", name, err))
	}
	return e, nil
}
