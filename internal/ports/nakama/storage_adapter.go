package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"nomercy/internal/domain"
	"nomercy/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	gamesCollection = "nomercy_games"
)

// NakamaSnapshotStore implements ports.SnapshotStore on Nakama's storage
// engine. One object per game, keyed by game id, owned by the system user.
type NakamaSnapshotStore struct {
	nk runtime.NakamaModule
}

// NewNakamaSnapshotStore creates a new snapshot store adapter.
func NewNakamaSnapshotStore(nk runtime.NakamaModule) *NakamaSnapshotStore {
	return &NakamaSnapshotStore{nk: nk}
}

// Load reads and decodes the snapshot for a game.
func (s *NakamaSnapshotStore) Load(ctx context.Context, gameID string) (*domain.GameState, error) {
	objects, err := s.nk.StorageRead(ctx, []*runtime.StorageRead{
		{Collection: gamesCollection, Key: gameID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read game %s: %w", gameID, err)
	}
	if len(objects) == 0 {
		return nil, ports.ErrNotFound
	}

	var g domain.GameState
	if err := json.Unmarshal([]byte(objects[0].Value), &g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game %s: %w", gameID, err)
	}
	return &g, nil
}

// Save encodes and writes the snapshot, replacing any previous version.
func (s *NakamaSnapshotStore) Save(ctx context.Context, g *domain.GameState) error {
	value, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal game %s: %w", g.ID, err)
	}

	_, err = s.nk.StorageWrite(ctx, []*runtime.StorageWrite{
		{
			Collection:      gamesCollection,
			Key:             g.ID,
			Value:           string(value),
			PermissionRead:  runtime.STORAGE_PERMISSION_NO_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to write game %s: %w", g.ID, err)
	}
	return nil
}

var _ ports.SnapshotStore = (*NakamaSnapshotStore)(nil)
