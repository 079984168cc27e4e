package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/kruskal/pkg/catalog"
	kerrors "github.com/matzehuels/kruskal/pkg/errors"
	"github.com/matzehuels/kruskal/pkg/httputil"
	"github.com/matzehuels/kruskal/pkg/pipeline"
)

// sourceFlags select graphs by file argument or catalog name.
type sourceFlags struct {
	catalog []string
	all     bool
}

// register adds --catalog (and --all when multi is set) to cmd.
func (f *sourceFlags) register(cmd *cobra.Command, multi bool) {
	if multi {
		cmd.Flags().StringSliceVar(&f.catalog, "catalog", nil, "catalog graph name(s), comma-separated or repeated")
		cmd.Flags().BoolVar(&f.all, "all", false, "every catalog graph")
	} else {
		cmd.Flags().StringSliceVar(&f.catalog, "catalog", nil, "catalog graph name")
	}
	cmd.RegisterFlagCompletionFunc("catalog", completeCatalog)
}

// options returns one pipeline input per argument and catalog name.
// Arguments are file paths or http(s) URLs.
func (f sourceFlags) options(args []string) ([]pipeline.Options, error) {
	var opts []pipeline.Options
	for _, arg := range args {
		if httputil.IsURL(arg) {
			opts = append(opts, pipeline.Options{URL: arg})
			continue
		}
		opts = append(opts, pipeline.Options{Path: arg})
	}
	names := f.catalog
	if f.all {
		names = catalog.Names()
	}
	for _, name := range names {
		opts = append(opts, pipeline.Options{Catalog: name})
	}
	if len(opts) == 0 {
		return nil, kerrors.New(kerrors.ErrCodeInvalidInput, "no graph given: pass a file, a URL or --catalog NAME")
	}
	for _, o := range opts {
		if err := o.Validate(); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

// single returns exactly one pipeline input.
func (f sourceFlags) single(args []string) (pipeline.Options, error) {
	opts, err := f.options(args)
	if err != nil {
		return pipeline.Options{}, err
	}
	if len(opts) != 1 {
		return pipeline.Options{}, kerrors.New(kerrors.ErrCodeInvalidInput, "expected one graph, got %d", len(opts))
	}
	return opts[0], nil
}

func completeCatalog(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return catalog.Names(), cobra.ShellCompDirectiveNoFileComp
}
