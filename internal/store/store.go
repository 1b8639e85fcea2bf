package store

import (
	"context"

	"github.com/vovakirdan/lanchat/internal/core"
)

// ViewStore caches the last published view so it can be shown before the
// first poll of the next run completes.
type ViewStore interface {
	// SaveView replaces the cached view with view.
	SaveView(ctx context.Context, view []core.ChatMessage) error

	// LoadView returns the cached view ordered by position, or an empty view.
	LoadView(ctx context.Context) ([]core.ChatMessage, error)

	// Close releases the underlying storage.
	Close() error
}
