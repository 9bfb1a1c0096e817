package domain

import "math/rand"

// ReshuffleDiscardPile recycles every discard card except the current top
// into the bottom of the draw pile, so cards already in the draw pile keep
// their order and are drawn first. A discard pile of one card or fewer has
// nothing to recycle and is left untouched.
func ReshuffleDiscardPile(g *GameState, rng *rand.Rand) {
	if len(g.DiscardPile) <= 1 {
		return
	}

	top := g.DiscardPile[len(g.DiscardPile)-1]
	recycled := g.DiscardPile[:len(g.DiscardPile)-1]
	ShuffleCards(recycled, rng)

	pile := make([]Card, 0, len(recycled)+len(g.DrawPile))
	pile = append(pile, recycled...)
	pile = append(pile, g.DrawPile...)

	g.DrawPile = pile
	g.DiscardPile = []Card{top}
}

// popTop removes and returns the top card of the draw pile.
func popTop(g *GameState) (Card, bool) {
	if len(g.DrawPile) == 0 {
		return Card{}, false
	}
	card := g.DrawPile[len(g.DrawPile)-1]
	g.DrawPile = g.DrawPile[:len(g.DrawPile)-1]
	return card, true
}

// DrawOne takes the top card of the draw pile, recycling the discard pile
// first if the draw pile is empty. ok is false only when no cards remain
// anywhere to draw.
func DrawOne(g *GameState, rng *rand.Rand) (Card, bool) {
	if len(g.DrawPile) == 0 {
		ReshuffleDiscardPile(g, rng)
	}
	return popTop(g)
}

// DrawCards draws up to n cards into the given player's hand, recycling the
// discard pile as needed. When every recyclable card runs out mid-draw the
// player simply receives fewer cards; the drawn cards are returned.
func DrawCards(g *GameState, p *PlayerState, n int, rng *rand.Rand) []Card {
	drawn := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		card, ok := DrawOne(g, rng)
		if !ok {
			break
		}
		drawn = append(drawn, card)
	}
	p.Hand = append(p.Hand, drawn...)
	return drawn
}
