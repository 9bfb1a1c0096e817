package bot

import (
	"strconv"

	"nomercy/internal/domain"
)

// playableCards returns the hand cards that are legal against the current
// pile state, in hand order.
func playableCards(game *domain.GameState, player *domain.PlayerState) []domain.Card {
	var out []domain.Card
	for _, c := range player.Hand {
		if domain.CanPlayCard(c, game) {
			out = append(out, c)
		}
	}
	return out
}

// mostCommonColor picks the concrete color the hand holds most of. An empty
// or all-wild hand falls back to red.
func mostCommonColor(hand []domain.Card) domain.Color {
	counts := map[domain.Color]int{}
	for _, c := range hand {
		if c.Color.IsConcrete() {
			counts[c.Color]++
		}
	}

	best := domain.ColorRed
	bestCount := -1
	for _, color := range domain.ConcreteColors {
		if counts[color] > bestCount {
			best = color
			bestCount = counts[color]
		}
	}
	return best
}

// wouldStrandActionCard reports whether playing the card leaves a lone
// action card in hand, a position where the player can never go out.
func wouldStrandActionCard(player *domain.PlayerState, card domain.Card) bool {
	if len(player.Hand) != 2 {
		return false
	}
	for _, c := range player.Hand {
		if c.ID != card.ID {
			return c.Kind != domain.KindNumber
		}
	}
	return false
}

// colorFor resolves the color declaration a play needs. Roulette wilds keep
// their color open until the dedicated choice step.
func colorFor(player *domain.PlayerState, card domain.Card) domain.Color {
	if card.Color != domain.ColorWild || card.Kind == domain.KindWildColorRoulette {
		return ""
	}
	return mostCommonColor(player.Hand)
}

// BasicBot plays the first legal card it finds and draws otherwise.
type BasicBot struct{}

func (b *BasicBot) CalculateMove(game *domain.GameState, player *domain.PlayerState) (Move, error) {
	if game.RouletteStatus == domain.RoulettePendingColor {
		return Move{Kind: MoveChooseColor, Color: mostCommonColor(player.Hand)}, nil
	}

	for _, c := range playableCards(game, player) {
		if len(player.Hand) == 1 && c.Kind != domain.KindNumber {
			continue
		}
		return Move{Kind: MovePlay, CardID: c.ID, Color: colorFor(player, c)}, nil
	}

	if game.MustPlayPlayableCard {
		// Drawing again is rejected here; give the turn up instead of
		// stalling the match.
		return Move{Kind: MovePass}, nil
	}
	return Move{Kind: MoveDraw}, nil
}

// SmartBot sheds aggressively: it answers penalties with its biggest
// stackable card, prefers number batches, and holds wilds back until
// nothing else is legal.
type SmartBot struct{}

func (b *SmartBot) CalculateMove(game *domain.GameState, player *domain.PlayerState) (Move, error) {
	if game.RouletteStatus == domain.RoulettePendingColor {
		return Move{Kind: MoveChooseColor, Color: mostCommonColor(player.Hand)}, nil
	}

	candidates := playableCards(game, player)
	if len(candidates) == 0 {
		if game.MustPlayPlayableCard {
			return Move{Kind: MovePass}, nil
		}
		return Move{Kind: MoveDraw}, nil
	}

	if game.StackedPenalty > 0 {
		best := candidates[0]
		for _, c := range candidates[1:] {
			if c.Kind.DrawValue() > best.Kind.DrawValue() {
				best = c
			}
		}
		return Move{Kind: MovePlay, CardID: best.ID, Color: colorFor(player, best)}, nil
	}

	pick, ok := b.pickCard(player, candidates)
	if !ok {
		return Move{Kind: MoveDraw}, nil
	}
	return Move{Kind: MovePlay, CardID: pick.ID, Color: colorFor(player, pick)}, nil
}

func (b *SmartBot) pickCard(player *domain.PlayerState, candidates []domain.Card) (domain.Card, bool) {
	type scored struct {
		card  domain.Card
		score int
	}

	dupCount := map[string]int{}
	for _, c := range player.Hand {
		if c.Kind == domain.KindNumber {
			dupCount[string(c.Color)+":"+strconv.Itoa(c.Value)]++
		}
	}

	var best *scored
	for _, c := range candidates {
		if len(player.Hand) == 1 && c.Kind != domain.KindNumber {
			continue
		}

		score := 0
		switch {
		case c.Kind == domain.KindNumber:
			// Batches empty the hand fastest.
			score = 10 * dupCount[string(c.Color)+":"+strconv.Itoa(c.Value)]
		case c.Color == domain.ColorWild:
			score = -5
		default:
			score = 3
		}
		if wouldStrandActionCard(player, c) {
			score -= 20
		}

		if best == nil || score > best.score {
			best = &scored{card: c, score: score}
		}
	}

	if best == nil {
		return domain.Card{}, false
	}
	return best.card, true
}
