package domain

import "math/rand"

// Status is the lifecycle stage of a game.
type Status string

const (
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// RouletteStatus marks the color-roulette sub-protocol. The zero value means
// no roulette is pending.
type RouletteStatus string

// RoulettePendingColor freezes normal turn advancement until the current-turn
// player chooses a color.
const RoulettePendingColor RouletteStatus = "pending_color"

// PlayerState holds one participant's cards and standing. Players are never
// added or removed after game creation; only Hand, IsEliminated and Score
// mutate.
type PlayerState struct {
	UserID       string `json:"user_id"`
	Hand         []Card `json:"hand"`
	IsEliminated bool   `json:"is_eliminated"`
	Score        int    `json:"score"`
}

// FindCard locates a card in the hand by instance id.
func (p *PlayerState) FindCard(cardID string) (Card, bool) {
	for _, c := range p.Hand {
		if c.ID == cardID {
			return c, true
		}
	}
	return Card{}, false
}

// RemoveCards drops the cards with the given ids from the hand.
func (p *PlayerState) RemoveCards(ids map[string]bool) {
	kept := p.Hand[:0]
	for _, c := range p.Hand {
		if !ids[c.ID] {
			kept = append(kept, c)
		}
	}
	p.Hand = kept
}

// GameState is the authoritative snapshot of one game. Pile order convention:
// the top of a pile is the end of its slice.
type GameState struct {
	ID                string         `json:"id"`
	RoomID            string         `json:"room_id"`
	Status            Status         `json:"status"`
	Players           []*PlayerState `json:"players"` // fixed order = turn ring
	CurrentTurnUserID string         `json:"current_turn_user_id"`
	Direction         int            `json:"direction"` // +1 or -1
	DrawPile          []Card         `json:"draw_pile"`
	DiscardPile       []Card         `json:"discard_pile"`
	CurrentColor      Color          `json:"current_color"`
	StackedPenalty    int            `json:"stacked_penalty"`
	WinnerID          string         `json:"winner_id,omitempty"`
	RouletteStatus    RouletteStatus `json:"roulette_status,omitempty"`

	// MustPlayPlayableCard is set after a draw that produced a legal play;
	// the player must then play, not draw again.
	MustPlayPlayableCard bool `json:"must_play_playable_card"`
}

// NewGame builds the initial snapshot: a deck sized to the roster, seven
// cards dealt to each player in the given order, and one card flipped to
// start the discard pile. A wild flip gets a random concrete starting color
// and is not run through effect resolution.
func NewGame(gameID, roomID string, userIDs []string, rng *rand.Rand) *GameState {
	players := make([]*PlayerState, 0, len(userIDs))
	for _, uid := range userIDs {
		players = append(players, &PlayerState{UserID: uid})
	}

	deck := BuildDeck(len(players), rng)

	g := &GameState{
		ID:                gameID,
		RoomID:            roomID,
		Status:            StatusActive,
		Players:           players,
		CurrentTurnUserID: userIDs[0],
		Direction:         1,
		DrawPile:          deck,
	}

	for _, p := range g.Players {
		for i := 0; i < InitialHandSize; i++ {
			if card, ok := popTop(g); ok {
				p.Hand = append(p.Hand, card)
			}
		}
	}

	first, _ := popTop(g)
	g.DiscardPile = []Card{first}

	g.CurrentColor = first.Color
	if g.CurrentColor == ColorWild {
		g.CurrentColor = ConcreteColors[rng.Intn(len(ConcreteColors))]
	}

	return g
}

// InitialHandSize is the number of cards dealt to each player at game start.
const InitialHandSize = 7

// Player returns the participant with the given user id, or nil.
func (g *GameState) Player(userID string) *PlayerState {
	for _, p := range g.Players {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

// TopCard returns the visible discard card that defines legality.
func (g *GameState) TopCard() (Card, bool) {
	if len(g.DiscardPile) == 0 {
		return Card{}, false
	}
	return g.DiscardPile[len(g.DiscardPile)-1], true
}

// ActivePlayers returns the non-eliminated players in ring order.
func (g *GameState) ActivePlayers() []*PlayerState {
	active := make([]*PlayerState, 0, len(g.Players))
	for _, p := range g.Players {
		if !p.IsEliminated {
			active = append(active, p)
		}
	}
	return active
}

// CardCount is the total number of cards across both piles and all hands.
// It is constant for the lifetime of a game.
func (g *GameState) CardCount() int {
	n := len(g.DrawPile) + len(g.DiscardPile)
	for _, p := range g.Players {
		n += len(p.Hand)
	}
	return n
}
