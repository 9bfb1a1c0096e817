package domain

// MercyHandLimit is the hand-size ceiling. A hand reaching it eliminates its
// owner regardless of any other standing.
const MercyHandLimit = 25

// ReachedMercyLimit reports whether the player's hand has hit the ceiling.
func ReachedMercyLimit(p *PlayerState) bool {
	return len(p.Hand) >= MercyHandLimit
}

// Eliminate removes the player from play: their remaining hand goes to the
// bottom of the discard pile (cards are never destroyed) and is cleared.
func Eliminate(g *GameState, p *PlayerState) {
	p.IsEliminated = true

	if len(p.Hand) > 0 {
		pile := make([]Card, 0, len(p.Hand)+len(g.DiscardPile))
		pile = append(pile, p.Hand...)
		pile = append(pile, g.DiscardPile...)
		g.DiscardPile = pile
		p.Hand = nil
	}
}

// FinishIfLastStanding ends the game when elimination has reduced the ring
// to a single player, who wins. Returns true when the game ended.
func FinishIfLastStanding(g *GameState) bool {
	active := g.ActivePlayers()
	if len(active) != 1 {
		return false
	}

	g.Status = StatusFinished
	g.WinnerID = active[0].UserID
	g.CurrentTurnUserID = active[0].UserID
	return true
}
