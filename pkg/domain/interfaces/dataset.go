package interfaces

//go:generate moq -out mocks/dataset_mock.go -pkg mocks . Loader Dataset

import (
	"context"

	"github.com/secmon-lab/insights/pkg/domain/model"
)

// Loader parses a dataset source into a table
type Loader interface {
	Load(ctx context.Context, source string) (*model.Table, error)
}

// Dataset serves loaded tables, parsing a source at most once until it is invalidated
type Dataset interface {
	// Get returns the table of source, loading it on first use
	Get(ctx context.Context, source string) (*model.Table, error)

	// Invalidate drops the cached table of source
	Invalidate(source string)

	// InvalidateAll drops every cached table
	InvalidateAll()
}
