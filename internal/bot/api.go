package bot

import (
	"nomercy/internal/domain"
)

// MoveKind is the action a bot decided to take on its turn.
type MoveKind string

const (
	MovePlay        MoveKind = "play"
	MoveDraw        MoveKind = "draw"
	MoveChooseColor MoveKind = "choose_color"
	MovePass        MoveKind = "pass"
)

// Move represents the decision made by the AI.
type Move struct {
	Kind   MoveKind
	CardID string
	Color  domain.Color
}

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	CalculateMove(game *domain.GameState, player *domain.PlayerState) (Move, error)
}
