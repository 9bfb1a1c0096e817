package domain

// NextPlayer returns the user id of the player `1+skip` active seats away
// from the current turn holder in the given direction. Eliminated players
// are invisible to the ring. When the current holder is itself no longer in
// the ring (just eliminated), the first active player is returned.
func NextPlayer(g *GameState, skip int) string {
	active := g.ActivePlayers()
	if len(active) == 0 {
		return g.CurrentTurnUserID
	}

	current := -1
	for i, p := range active {
		if p.UserID == g.CurrentTurnUserID {
			current = i
			break
		}
	}
	if current == -1 {
		return active[0].UserID
	}

	next := (current + g.Direction*(1+skip)) % len(active)
	if next < 0 {
		next += len(active)
	}
	return active[next].UserID
}

// ApplyCardEffect resolves a played card's state transition. The caller has
// already removed the card from the hand and pushed it onto the discard
// pile. chosenColor is consulted only for wild cards other than the color
// roulette.
func ApplyCardEffect(g *GameState, card Card, userID string, chosenColor Color) {
	// 1. Color update.
	switch {
	case card.Color != ColorWild:
		g.CurrentColor = card.Color
	case card.Kind == KindWildColorRoulette:
		g.CurrentColor = ColorWild
		g.RouletteStatus = RoulettePendingColor
	case chosenColor.IsConcrete():
		g.CurrentColor = chosenColor
	}

	// 2. Discard-all sheds every hand card matching the new color beneath
	// the played card, keeping it the visible top.
	if card.Kind == KindDiscardAll {
		discardMatchingColor(g, userID)
	}

	// 3. Per-kind side effect.
	skip := 0
	holdTurn := false

	switch card.Kind {
	case KindSkip:
		skip = 1
	case KindReverse:
		skip = reverse(g)
	case KindDraw2, KindDraw4, KindDraw6, KindDraw10:
		g.StackedPenalty += card.Kind.DrawValue()
	case KindWildReverseDraw4:
		g.StackedPenalty += card.Kind.DrawValue()
		skip = reverse(g)
	case KindSkipEveryone:
		holdTurn = true
	case KindWildColorRoulette:
		// Turn advancement is normal; the roulette freezes the next player
		// until they choose a color.
	}

	// 4. Advance the ring unless the kind holds the turn.
	if !holdTurn {
		g.CurrentTurnUserID = NextPlayer(g, skip)
	}
}

// reverse flips the play direction. With two active players a reverse comes
// straight back around, so it behaves as a skip.
func reverse(g *GameState) (skip int) {
	g.Direction = -g.Direction
	if len(g.ActivePlayers()) == 2 {
		return 1
	}
	return 0
}

// discardMatchingColor moves every card in the acting player's hand that
// matches the current color onto the discard pile, directly beneath the
// just-played card. Any discard-all card among the matches is ordered last
// so it is never buried under the rest of the batch.
func discardMatchingColor(g *GameState, userID string) {
	p := g.Player(userID)
	if p == nil {
		return
	}

	var matched, kept []Card
	for _, c := range p.Hand {
		if c.Color == g.CurrentColor {
			matched = append(matched, c)
		} else {
			kept = append(kept, c)
		}
	}
	if len(matched) == 0 {
		return
	}
	p.Hand = kept

	ordered := make([]Card, 0, len(matched))
	var last []Card
	for _, c := range matched {
		if c.Kind == KindDiscardAll {
			last = append(last, c)
		} else {
			ordered = append(ordered, c)
		}
	}
	ordered = append(ordered, last...)

	played := g.DiscardPile[len(g.DiscardPile)-1]
	g.DiscardPile = append(g.DiscardPile[:len(g.DiscardPile)-1], ordered...)
	g.DiscardPile = append(g.DiscardPile, played)
}
