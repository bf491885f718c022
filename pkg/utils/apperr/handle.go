package apperr

import (
	"context"
	"log/slog"
	"sort"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Handle logs an error that reached the presentation boundary. Values
// attached with goerr.V are flattened into the record in key order.
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	values := goerr.Values(err)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]any, 0, len(keys)+1)
	attrs = append(attrs, slog.Any("error", err))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, values[k]))
	}

	ctxlog.From(ctx).Error("application error", attrs...)
}
