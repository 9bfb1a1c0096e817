package domain

// CanPlayCard reports whether the card is a legal play against the current
// snapshot.
//
// While a stacked penalty is pending the only legal response is a card whose
// draw value matches or exceeds the draw value of the discard top; number and
// zero-penalty cards can never answer a penalty. Otherwise a card is legal
// when it is wild, matches the current color, matches the top card's
// non-number kind, or matches a number top card's value.
func CanPlayCard(card Card, g *GameState) bool {
	top, ok := g.TopCard()
	if !ok {
		return false
	}

	if g.StackedPenalty > 0 {
		return card.Kind.DrawValue() >= top.Kind.DrawValue()
	}

	if card.Color == ColorWild {
		return true
	}
	if card.Color == g.CurrentColor {
		return true
	}
	if card.Kind != KindNumber && card.Kind == top.Kind {
		return true
	}
	if card.Kind == KindNumber && top.Kind == KindNumber && card.Value == top.Value {
		return true
	}
	return false
}

// HasPlayableCard reports whether any card in the hand is currently legal.
func HasPlayableCard(p *PlayerState, g *GameState) bool {
	for _, c := range p.Hand {
		if CanPlayCard(c, g) {
			return true
		}
	}
	return false
}
