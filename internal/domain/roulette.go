package domain

import "math/rand"

// HandleRouletteChoice resolves a pending color roulette. The chosen color
// becomes current, then the acting player draws single cards until one of:
//
//   - a number card of the chosen color is drawn (it stays in hand),
//   - no cards remain anywhere to draw,
//   - the hand reaches the mercy ceiling, which marks the player eliminated
//     for the command layer to finalize.
//
// Afterwards the turn advances to the next active player with no extra skip.
func HandleRouletteChoice(g *GameState, userID string, chosen Color, rng *rand.Rand) {
	if g.RouletteStatus != RoulettePendingColor {
		return
	}

	g.CurrentColor = chosen
	g.RouletteStatus = ""

	p := g.Player(userID)
	if p == nil {
		return
	}

	for {
		card, ok := DrawOne(g, rng)
		if !ok {
			break
		}
		p.Hand = append(p.Hand, card)

		if card.Color == chosen && card.Kind == KindNumber {
			break
		}
		if ReachedMercyLimit(p) {
			p.IsEliminated = true
			break
		}
	}

	g.CurrentTurnUserID = NextPlayer(g, 0)
}
