package bot

import (
	"nomercy/internal/domain"
)

// Agent represents an autonomous bot player.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// Play asks the agent to calculate its move based on the current game state.
func (a *Agent) Play(game *domain.GameState) (Move, error) {
	player := game.Player(a.ID)
	if player == nil {
		return Move{Kind: MovePass}, nil
	}

	move, err := a.Strategy.CalculateMove(game, player)
	if err != nil {
		return Move{Kind: MovePass}, err
	}
	return move, nil
}
