package ports

import (
	"context"
	"errors"

	"nomercy/internal/domain"
)

// ErrNotFound is returned by SnapshotStore.Load when no snapshot exists for
// the requested game id.
var ErrNotFound = errors.New("snapshot not found")

// SnapshotStore persists the authoritative game snapshot. Writes are always
// whole snapshots; the engine never issues partial updates.
type SnapshotStore interface {
	// Load fetches the snapshot for a game id, or ErrNotFound.
	Load(ctx context.Context, gameID string) (*domain.GameState, error)

	// Save writes a fully-constructed next snapshot.
	Save(ctx context.Context, state *domain.GameState) error
}
