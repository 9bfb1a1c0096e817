package ports

import "context"

// MoveAction labels a move-log entry.
type MoveAction string

const (
	MovePlay        MoveAction = "PLAY"
	MoveDraw        MoveAction = "DRAW"
	MovePass        MoveAction = "PASS"
	MoveChooseColor MoveAction = "CHOOSE_COLOR"
	MoveEliminated  MoveAction = "ELIMINATED"
)

// MoveEntry is one immutable audit record. CardID and Metadata are optional.
type MoveEntry struct {
	GameID   string                 `json:"game_id"`
	UserID   string                 `json:"user_id"`
	Action   MoveAction             `json:"action"`
	CardID   string                 `json:"card_id,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// MoveLog appends audit entries. The engine only writes this log, it never
// reads it back to reconstruct state.
type MoveLog interface {
	Append(ctx context.Context, entry MoveEntry) error
}
