package pipeline

import (
	"context"
	"time"

	apperr "github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/hierarchy"
	"github.com/matzehuels/treemap/pkg/observability"
)

// Build aggregates a decoded dataset and sorts its siblings. Strict mode
// (the default) rejects malformed records; with opts.Lenient they are
// logged and treated as zero-valued.
func Build(ctx context.Context, raw hierarchy.RawRecord, opts Options) (*hierarchy.Tree, error) {
	opts.SetDefaults()
	start := time.Now()

	var buildOpts []hierarchy.BuildOption
	if opts.Lenient {
		buildOpts = append(buildOpts, hierarchy.WithLenient())
	}

	tree, err := hierarchy.Build(raw, buildOpts...)
	if err != nil {
		observability.Pipeline().OnBuildComplete(ctx, 0, time.Since(start), err)
		return nil, err
	}
	tree.Sort()

	for _, w := range tree.Warnings {
		opts.Logger.Warn("dataset", "warning", w)
	}
	observability.Pipeline().OnBuildComplete(ctx, tree.Len(), time.Since(start), nil)
	return tree, nil
}

func malformed(err error, location string) error {
	return apperr.Wrap(apperr.ErrCodeMalformedRecord, err, "dataset %s", location)
}
