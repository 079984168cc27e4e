package pipeline

import (
	"context"
	"errors"
	"io/fs"

	"github.com/matzehuels/kruskal/pkg/catalog"
	kerrors "github.com/matzehuels/kruskal/pkg/errors"
	"github.com/matzehuels/kruskal/pkg/graph"
	"github.com/matzehuels/kruskal/pkg/history"
	"github.com/matzehuels/kruskal/pkg/httputil"
	"github.com/matzehuels/kruskal/pkg/kruskal"
)

var classes = []struct {
	target  error
	code    kerrors.Code
	message string
}{
	{kruskal.ErrEmptyGraph, kerrors.ErrCodeEmptyGraph, "empty graph"},
	{kruskal.ErrUnknownVertex, kerrors.ErrCodeUnknownVertex, "unknown vertex"},
	{kruskal.ErrInvalidEdge, kerrors.ErrCodeInvalidEdge, "invalid edge"},
	{kruskal.ErrDuplicateVertex, kerrors.ErrCodeInvalidGraph, "invalid graph"},
	{graph.ErrUnsupportedFormat, kerrors.ErrCodeInvalidFormat, "unsupported format"},
	{graph.ErrMalformed, kerrors.ErrCodeInvalidFormat, "malformed graph"},
	{fs.ErrNotExist, kerrors.ErrCodeFileNotFound, "file not found"},
	{catalog.ErrNotFound, kerrors.ErrCodeNotFound, "not found"},
	{history.ErrNotFound, kerrors.ErrCodeNotFound, "not found"},
	{httputil.ErrNotFound, kerrors.ErrCodeNotFound, "not found"},
	{httputil.ErrStatus, kerrors.ErrCodeFetchFailed, "download failed"},
	{httputil.ErrTooLarge, kerrors.ErrCodeFetchFailed, "download failed"},
}

// Classify attaches a [kerrors.Code] to err based on the sentinel it wraps.
// Errors that already carry a code and context cancellations are returned
// unchanged; nil stays nil. Anything unrecognized becomes INTERNAL_ERROR.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if kerrors.GetCode(err) != "" {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	for _, c := range classes {
		if errors.Is(err, c.target) {
			return kerrors.Wrap(c.code, err, "%s", c.message)
		}
	}
	if errors.As(err, new(*httputil.RetryableError)) {
		return kerrors.Wrap(kerrors.ErrCodeFetchFailed, err, "download failed")
	}
	return kerrors.Wrap(kerrors.ErrCodeInternal, err, "internal error")
}
