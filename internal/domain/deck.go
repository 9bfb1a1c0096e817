package domain

import "math/rand"

// Per-color action card counts for a full set.
const (
	countDiscardAll   = 3
	countDraw2        = 3
	countDraw4        = 2
	countReverse      = 3
	countSkip         = 3
	countSkipEveryone = 2
)

// Wild block counts for a full set.
const (
	countWildColorRoulette = 8
	countWildDraw6         = 4
	countWildDraw10        = 4
	countWildReverseDraw4  = 8
)

// BuildDeck returns a shuffled deck sized for the given player count. The
// base composition is one full set; games with more than six players get
// floor((n-6)/2)+1 extra partial sets so the draw pile does not starve.
func BuildDeck(playerCount int, rng *rand.Rand) []Card {
	deck := appendFullSet(nil)

	if playerCount > 6 {
		extra := (playerCount-6)/2 + 1
		for i := 0; i < extra; i++ {
			deck = appendPartialSet(deck)
		}
	}

	ShuffleCards(deck, rng)
	return deck
}

// appendFullSet adds the standard composition: per color two of each number
// 0-9 plus the fixed action counts, and the full wild block.
func appendFullSet(deck []Card) []Card {
	for _, color := range ConcreteColors {
		for n := 0; n <= 9; n++ {
			deck = append(deck, NumberCard(color, n), NumberCard(color, n))
		}
		deck = appendActions(deck, color, KindDiscardAll, countDiscardAll)
		deck = appendActions(deck, color, KindDraw2, countDraw2)
		deck = appendActions(deck, color, KindDraw4, countDraw4)
		deck = appendActions(deck, color, KindReverse, countReverse)
		deck = appendActions(deck, color, KindSkip, countSkip)
		deck = appendActions(deck, color, KindSkipEveryone, countSkipEveryone)
	}

	deck = appendActions(deck, ColorWild, KindWildColorRoulette, countWildColorRoulette)
	deck = appendActions(deck, ColorWild, KindDraw6, countWildDraw6)
	deck = appendActions(deck, ColorWild, KindDraw10, countWildDraw10)
	deck = appendActions(deck, ColorWild, KindWildReverseDraw4, countWildReverseDraw4)
	return deck
}

// appendPartialSet adds the large-game filler: single copies of the colored
// cards and a halved wild block.
func appendPartialSet(deck []Card) []Card {
	for _, color := range ConcreteColors {
		for n := 0; n <= 9; n++ {
			deck = append(deck, NumberCard(color, n))
		}
		for _, kind := range []CardKind{KindDiscardAll, KindDraw2, KindDraw4, KindReverse, KindSkip, KindSkipEveryone} {
			deck = append(deck, ActionCard(color, kind))
		}
	}

	deck = appendActions(deck, ColorWild, KindWildColorRoulette, countWildColorRoulette/4)
	deck = appendActions(deck, ColorWild, KindDraw6, countWildDraw6/4)
	deck = appendActions(deck, ColorWild, KindDraw10, countWildDraw10/4)
	deck = appendActions(deck, ColorWild, KindWildReverseDraw4, countWildReverseDraw4/4)
	return deck
}

func appendActions(deck []Card, color Color, kind CardKind, count int) []Card {
	for i := 0; i < count; i++ {
		deck = append(deck, ActionCard(color, kind))
	}
	return deck
}

// ShuffleCards permutes cards in place with an unbiased Fisher-Yates swap.
func ShuffleCards(cards []Card, rng *rand.Rand) {
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}
