package nakama

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"nomercy/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	movesCollection = "nomercy_moves"
)

// NakamaMoveLog implements ports.MoveLog as append-only storage objects
// keyed by game id plus a per-game sequence number. The sequence counter
// lives with the match handler instance, which is the only writer for its
// game.
type NakamaMoveLog struct {
	nk   runtime.NakamaModule
	seqs map[string]int
}

// NewNakamaMoveLog creates a new move log adapter.
func NewNakamaMoveLog(nk runtime.NakamaModule) *NakamaMoveLog {
	return &NakamaMoveLog{
		nk:   nk,
		seqs: make(map[string]int),
	}
}

type moveRecord struct {
	ports.MoveEntry
	Seq        int    `json:"seq"`
	RecordedAt string `json:"recorded_at"`
}

// Append writes the next entry for the game. Version "*" insists the key is
// fresh so an entry is never overwritten.
func (l *NakamaMoveLog) Append(ctx context.Context, entry ports.MoveEntry) error {
	seq := l.seqs[entry.GameID]
	l.seqs[entry.GameID] = seq + 1

	record := moveRecord{
		MoveEntry:  entry,
		Seq:        seq,
		RecordedAt: time.Now().UTC().Format(time.RFC3339),
	}
	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal move %s/%d: %w", entry.GameID, seq, err)
	}

	_, err = l.nk.StorageWrite(ctx, []*runtime.StorageWrite{
		{
			Collection:      movesCollection,
			Key:             fmt.Sprintf("%s:%06d", entry.GameID, seq),
			Value:           string(value),
			Version:         "*",
			PermissionRead:  runtime.STORAGE_PERMISSION_NO_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to append move %s/%d: %w", entry.GameID, seq, err)
	}
	return nil
}

var _ ports.MoveLog = (*NakamaMoveLog)(nil)
