package domain

import (
	"testing"
)

func ringGame(userIDs ...string) *GameState {
	players := make([]*PlayerState, 0, len(userIDs))
	for _, uid := range userIDs {
		players = append(players, &PlayerState{UserID: uid, Hand: []Card{NumberCard(ColorRed, 1)}})
	}
	return &GameState{
		Status:            StatusActive,
		Players:           players,
		CurrentTurnUserID: userIDs[0],
		Direction:         1,
		CurrentColor:      ColorRed,
		DiscardPile:       []Card{NumberCard(ColorRed, 5)},
	}
}

func TestNextPlayer(t *testing.T) {
	tests := []struct {
		name       string
		direction  int
		skip       int
		eliminated []string
		expected   string
	}{
		{name: "Clockwise neighbor", direction: 1, expected: "p2"},
		{name: "CounterClockwise wraps", direction: -1, expected: "p4"},
		{name: "Skip one", direction: 1, skip: 1, expected: "p3"},
		{name: "Eliminated seat is invisible", direction: 1, eliminated: []string{"p2"}, expected: "p3"},
		{name: "Skip over eliminated", direction: 1, skip: 1, eliminated: []string{"p2"}, expected: "p4"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			g := ringGame("p1", "p2", "p3", "p4")
			g.Direction = tt.direction
			for _, uid := range tt.eliminated {
				g.Player(uid).IsEliminated = true
			}
			if got := NextPlayer(g, tt.skip); got != tt.expected {
				t.Errorf("NextPlayer() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestNextPlayerAfterEliminationOfCurrent(t *testing.T) {
	g := ringGame("p1", "p2", "p3")
	g.Player("p1").IsEliminated = true
	if got := NextPlayer(g, 0); got != "p2" {
		t.Errorf("NextPlayer() = %s, want first active p2", got)
	}
}

func playOnto(g *GameState, card Card, userID string, chosen Color) {
	g.DiscardPile = append(g.DiscardPile, card)
	ApplyCardEffect(g, card, userID, chosen)
}

func TestApplyCardEffectTurnAdvancement(t *testing.T) {
	t.Run("NumberAdvancesOne", func(t *testing.T) {
		g := ringGame("p1", "p2", "p3")
		playOnto(g, NumberCard(ColorRed, 7), "p1", "")
		if g.CurrentTurnUserID != "p2" {
			t.Errorf("turn %s, want p2", g.CurrentTurnUserID)
		}
	})

	t.Run("SkipJumpsNeighbor", func(t *testing.T) {
		g := ringGame("p1", "p2", "p3")
		playOnto(g, ActionCard(ColorRed, KindSkip), "p1", "")
		if g.CurrentTurnUserID != "p3" {
			t.Errorf("turn %s, want p3", g.CurrentTurnUserID)
		}
	})

	t.Run("ReverseFlipsDirection", func(t *testing.T) {
		g := ringGame("p1", "p2", "p3")
		playOnto(g, ActionCard(ColorRed, KindReverse), "p1", "")
		if g.Direction != -1 {
			t.Errorf("direction %d, want -1", g.Direction)
		}
		if g.CurrentTurnUserID != "p3" {
			t.Errorf("turn %s, want p3", g.CurrentTurnUserID)
		}
	})

	t.Run("ReverseActsAsSkipHeadsUp", func(t *testing.T) {
		g := ringGame("p1", "p2")
		playOnto(g, ActionCard(ColorRed, KindReverse), "p1", "")
		if g.CurrentTurnUserID != "p1" {
			t.Errorf("turn %s, want p1 to keep the turn", g.CurrentTurnUserID)
		}
	})

	t.Run("SkipEveryoneHoldsTurn", func(t *testing.T) {
		g := ringGame("p1", "p2", "p3", "p4")
		playOnto(g, ActionCard(ColorRed, KindSkipEveryone), "p1", "")
		if g.CurrentTurnUserID != "p1" {
			t.Errorf("turn %s, want p1 to keep the turn", g.CurrentTurnUserID)
		}
	})
}

func TestApplyCardEffectPenaltiesStack(t *testing.T) {
	g := ringGame("p1", "p2", "p3")

	playOnto(g, ActionCard(ColorRed, KindDraw2), "p1", "")
	if g.StackedPenalty != 2 {
		t.Fatalf("penalty %d, want 2", g.StackedPenalty)
	}
	if g.CurrentTurnUserID != "p2" {
		t.Fatalf("turn %s, want p2", g.CurrentTurnUserID)
	}

	playOnto(g, ActionCard(ColorWild, KindDraw6), "p2", ColorGreen)
	if g.StackedPenalty != 8 {
		t.Errorf("penalty %d, want 8", g.StackedPenalty)
	}
	if g.CurrentColor != ColorGreen {
		t.Errorf("color %s, want green", g.CurrentColor)
	}
}

func TestApplyCardEffectReverseDraw4(t *testing.T) {
	g := ringGame("p1", "p2", "p3")
	playOnto(g, ActionCard(ColorWild, KindWildReverseDraw4), "p1", ColorBlue)

	if g.StackedPenalty != 4 {
		t.Errorf("penalty %d, want 4", g.StackedPenalty)
	}
	if g.Direction != -1 {
		t.Errorf("direction %d, want -1", g.Direction)
	}
	if g.CurrentTurnUserID != "p3" {
		t.Errorf("turn %s, want p3 against the new direction", g.CurrentTurnUserID)
	}
	if g.CurrentColor != ColorBlue {
		t.Errorf("color %s, want blue", g.CurrentColor)
	}
}

func TestApplyCardEffectColorRoulette(t *testing.T) {
	g := ringGame("p1", "p2", "p3")
	playOnto(g, ActionCard(ColorWild, KindWildColorRoulette), "p1", "")

	if g.RouletteStatus != RoulettePendingColor {
		t.Error("roulette not pending")
	}
	if g.CurrentColor != ColorWild {
		t.Errorf("color %s, want wild until resolved", g.CurrentColor)
	}
	if g.CurrentTurnUserID != "p2" {
		t.Errorf("turn %s, want p2", g.CurrentTurnUserID)
	}
}

func TestApplyCardEffectDiscardAll(t *testing.T) {
	g := ringGame("p1", "p2")
	p1 := g.Player("p1")

	red3 := NumberCard(ColorRed, 3)
	red8 := NumberCard(ColorRed, 8)
	blue2 := NumberCard(ColorBlue, 2)
	redDiscardAll := ActionCard(ColorRed, KindDiscardAll)
	p1.Hand = []Card{red3, blue2, red8, redDiscardAll}

	played := ActionCard(ColorRed, KindDiscardAll)
	playOnto(g, played, "p1", "")

	if len(p1.Hand) != 1 || p1.Hand[0].ID != blue2.ID {
		t.Fatalf("hand %+v, want only the blue card left", p1.Hand)
	}

	// The played card stays on top; matched cards go beneath it with any
	// discard-all among them ordered directly under the top.
	pile := g.DiscardPile
	if pile[len(pile)-1].ID != played.ID {
		t.Fatalf("top of pile is %s, want the played card", pile[len(pile)-1].ID)
	}
	if pile[len(pile)-2].ID != redDiscardAll.ID {
		t.Errorf("second from top is %s, want the shed discard-all", pile[len(pile)-2].ID)
	}
	if pile[len(pile)-3].ID != red8.ID || pile[len(pile)-4].ID != red3.ID {
		t.Errorf("shed numbers out of order: %s then %s", pile[len(pile)-4].ID, pile[len(pile)-3].ID)
	}
}
