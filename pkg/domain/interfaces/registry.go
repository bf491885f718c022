package interfaces

//go:generate moq -out mocks/registry_mock.go -pkg mocks . RegistryStore

import (
	"context"

	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/secmon-lab/insights/pkg/domain/types"
)

// RegistryStore keeps one custom chart registry per dashboard session
type RegistryStore interface {
	// GetRegistry returns the registry of the session, empty when unknown
	GetRegistry(ctx context.Context, id types.SessionID) (model.ChartRegistry, error)

	// UpdateRegistry replaces the registry of the session with fn's result.
	// fn runs under the store's lock so concurrent updates do not interleave.
	UpdateRegistry(ctx context.Context, id types.SessionID, fn func(model.ChartRegistry) model.ChartRegistry) (model.ChartRegistry, error)

	// DeleteRegistry drops the registry of the session
	DeleteRegistry(ctx context.Context, id types.SessionID) error
}
