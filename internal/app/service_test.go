package app

import (
	"context"
	"math/rand"
	"testing"

	"nomercy/internal/domain"
	"nomercy/internal/ports"
)

type memoryStore struct {
	games map[string]*domain.GameState
}

func newMemoryStore() *memoryStore {
	return &memoryStore{games: map[string]*domain.GameState{}}
}

func (m *memoryStore) Load(ctx context.Context, gameID string) (*domain.GameState, error) {
	g, ok := m.games[gameID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return g, nil
}

func (m *memoryStore) Save(ctx context.Context, g *domain.GameState) error {
	m.games[g.ID] = g
	return nil
}

type memoryMoveLog struct {
	entries []ports.MoveEntry
}

func (m *memoryMoveLog) Append(ctx context.Context, e ports.MoveEntry) error {
	m.entries = append(m.entries, e)
	return nil
}

func (m *memoryMoveLog) last() ports.MoveEntry {
	return m.entries[len(m.entries)-1]
}

func newTestService(seed int64) (*Service, *memoryStore, *memoryMoveLog) {
	store := newMemoryStore()
	log := &memoryMoveLog{}
	return NewService(store, log, rand.New(rand.NewSource(seed))), store, log
}

// fixedGame builds and persists a small deterministic snapshot the command
// tests can mutate freely.
func fixedGame(store *memoryStore, userIDs ...string) *domain.GameState {
	players := make([]*domain.PlayerState, 0, len(userIDs))
	for _, uid := range userIDs {
		players = append(players, &domain.PlayerState{UserID: uid})
	}
	g := &domain.GameState{
		ID:                "g1",
		RoomID:            "r1",
		Status:            domain.StatusActive,
		Players:           players,
		CurrentTurnUserID: userIDs[0],
		Direction:         1,
		CurrentColor:      domain.ColorRed,
		DiscardPile:       []domain.Card{domain.NumberCard(domain.ColorRed, 5)},
	}
	for i := 0; i < 40; i++ {
		g.DrawPile = append(g.DrawPile, domain.NumberCard(domain.ColorBlue, i%10))
	}
	store.games[g.ID] = g
	return g
}

func TestStartGame(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects non-host caller", func(t *testing.T) {
		svc, _, _ := newTestService(1)
		_, _, err := svc.StartGame(ctx, "r1", "p2", "p1", []string{"p1", "p2"})
		if err != ErrNotHost {
			t.Fatalf("expected ErrNotHost, got %v", err)
		}
	})

	t.Run("rejects single player roster", func(t *testing.T) {
		svc, _, _ := newTestService(1)
		_, _, err := svc.StartGame(ctx, "r1", "p1", "p1", []string{"p1"})
		if err != ErrTooFewPlayers {
			t.Fatalf("expected ErrTooFewPlayers, got %v", err)
		}
	})

	t.Run("deals hands and persists snapshot", func(t *testing.T) {
		svc, store, _ := newTestService(7)
		g, events, err := svc.StartGame(ctx, "r1", "p1", "p1", []string{"p1", "p2", "p3"})
		if err != nil {
			t.Fatalf("StartGame: %v", err)
		}
		if _, ok := store.games[g.ID]; !ok {
			t.Fatal("snapshot was not persisted")
		}
		for _, p := range g.Players {
			if len(p.Hand) != domain.InitialHandSize {
				t.Errorf("player %s dealt %d cards, want %d", p.UserID, len(p.Hand), domain.InitialHandSize)
			}
		}
		if !g.CurrentColor.IsConcrete() {
			t.Errorf("starting color %q is not concrete", g.CurrentColor)
		}
		if events[0].Kind != EventGameStarted {
			t.Errorf("first event %q, want %q", events[0].Kind, EventGameStarted)
		}
		private := 0
		for _, ev := range events[1:] {
			if ev.Kind != EventHandDealt {
				t.Errorf("unexpected event kind %q", ev.Kind)
			}
			if len(ev.Recipients) != 1 {
				t.Errorf("hand event has %d recipients, want 1", len(ev.Recipients))
			}
			private++
		}
		if private != 3 {
			t.Errorf("got %d hand events, want 3", private)
		}
	})
}

func TestPlayCardValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown game", func(t *testing.T) {
		svc, _, _ := newTestService(1)
		_, err := svc.PlayCard(ctx, "missing", "p1", "c1", "")
		if err != ErrGameNotFound {
			t.Fatalf("expected ErrGameNotFound, got %v", err)
		}
	})

	t.Run("out of turn", func(t *testing.T) {
		svc, store, _ := newTestService(1)
		fixedGame(store, "p1", "p2")
		_, err := svc.PlayCard(ctx, "g1", "p2", "c1", "")
		if err != ErrNotYourTurn {
			t.Fatalf("expected ErrNotYourTurn, got %v", err)
		}
	})

	t.Run("finished game", func(t *testing.T) {
		svc, store, _ := newTestService(1)
		g := fixedGame(store, "p1", "p2")
		g.Status = domain.StatusFinished
		_, err := svc.PlayCard(ctx, "g1", "p1", "c1", "")
		if err != ErrGameFinished {
			t.Fatalf("expected ErrGameFinished, got %v", err)
		}
	})

	t.Run("card not in hand", func(t *testing.T) {
		svc, store, _ := newTestService(1)
		fixedGame(store, "p1", "p2")
		_, err := svc.PlayCard(ctx, "g1", "p1", "nope", "")
		if err != ErrCardNotInHand {
			t.Fatalf("expected ErrCardNotInHand, got %v", err)
		}
	})

	t.Run("illegal card against top", func(t *testing.T) {
		svc, store, _ := newTestService(1)
		g := fixedGame(store, "p1", "p2")
		c := domain.NumberCard(domain.ColorBlue, 9)
		g.Players[0].Hand = []domain.Card{c, domain.NumberCard(domain.ColorRed, 1)}
		_, err := svc.PlayCard(ctx, "g1", "p1", c.ID, "")
		if err != ErrIllegalMove {
			t.Fatalf("expected ErrIllegalMove, got %v", err)
		}
	})

	t.Run("cannot finish on action card", func(t *testing.T) {
		svc, store, _ := newTestService(1)
		g := fixedGame(store, "p1", "p2")
		c := domain.ActionCard(domain.ColorRed, domain.KindSkip)
		g.Players[0].Hand = []domain.Card{c}
		_, err := svc.PlayCard(ctx, "g1", "p1", c.ID, "")
		if err != ErrCannotFinishWith {
			t.Fatalf("expected ErrCannotFinishWith, got %v", err)
		}
	})

	t.Run("wild needs a color", func(t *testing.T) {
		svc, store, _ := newTestService(1)
		g := fixedGame(store, "p1", "p2")
		c := domain.ActionCard(domain.ColorWild, domain.KindDraw6)
		g.Players[0].Hand = []domain.Card{c, domain.NumberCard(domain.ColorRed, 1)}
		_, err := svc.PlayCard(ctx, "g1", "p1", c.ID, "")
		if err != ErrColorRequired {
			t.Fatalf("expected ErrColorRequired, got %v", err)
		}
		_, err = svc.PlayCard(ctx, "g1", "p1", c.ID, "purple")
		if err != ErrBadColor {
			t.Fatalf("expected ErrBadColor, got %v", err)
		}
	})

	t.Run("rejection leaves state untouched", func(t *testing.T) {
		svc, store, log := newTestService(1)
		g := fixedGame(store, "p1", "p2")
		c := domain.NumberCard(domain.ColorBlue, 9)
		g.Players[0].Hand = []domain.Card{c, domain.NumberCard(domain.ColorRed, 1)}
		before := len(g.DiscardPile)
		if _, err := svc.PlayCard(ctx, "g1", "p1", c.ID, ""); err == nil {
			t.Fatal("expected rejection")
		}
		if len(g.Players[0].Hand) != 2 || len(g.DiscardPile) != before {
			t.Error("rejected command mutated state")
		}
		if len(log.entries) != 0 {
			t.Error("rejected command was logged")
		}
	})
}

func TestPlayCardEffects(t *testing.T) {
	ctx := context.Background()

	t.Run("number play advances turn and logs", func(t *testing.T) {
		svc, store, log := newTestService(1)
		g := fixedGame(store, "p1", "p2", "p3")
		c := domain.NumberCard(domain.ColorRed, 7)
		g.Players[0].Hand = []domain.Card{c, domain.NumberCard(domain.ColorGreen, 2)}

		events, err := svc.PlayCard(ctx, "g1", "p1", c.ID, "")
		if err != nil {
			t.Fatalf("PlayCard: %v", err)
		}
		if g.CurrentTurnUserID != "p2" {
			t.Errorf("turn went to %s, want p2", g.CurrentTurnUserID)
		}
		if top, _ := g.TopCard(); top.ID != c.ID {
			t.Errorf("top of discard is %s, want the played card", top.ID)
		}
		if events[0].Kind != EventCardPlayed {
			t.Errorf("event kind %q, want card_played", events[0].Kind)
		}
		entry := log.last()
		if entry.Action != ports.MovePlay || entry.CardID != c.ID {
			t.Errorf("move log entry %+v", entry)
		}
	})

	t.Run("duplicate numbers shed together", func(t *testing.T) {
		svc, store, _ := newTestService(1)
		g := fixedGame(store, "p1", "p2")
		played := domain.NumberCard(domain.ColorRed, 5)
		twin := domain.NumberCard(domain.ColorRed, 5)
		other := domain.NumberCard(domain.ColorRed, 8)
		g.Players[0].Hand = []domain.Card{played, twin, other}

		events, err := svc.PlayCard(ctx, "g1", "p1", played.ID, "")
		if err != nil {
			t.Fatalf("PlayCard: %v", err)
		}
		if len(g.Players[0].Hand) != 1 || g.Players[0].Hand[0].ID != other.ID {
			t.Fatalf("hand after batch play: %+v", g.Players[0].Hand)
		}
		if top, _ := g.TopCard(); top.ID != played.ID {
			t.Errorf("played card must stay on top, got %s", top.ID)
		}
		payload := events[0].Payload.(CardPlayedPayload)
		if len(payload.CoDiscarded) != 1 || payload.CoDiscarded[0].ID != twin.ID {
			t.Errorf("co-discarded %+v, want the twin", payload.CoDiscarded)
		}
	})

	t.Run("draw card stacks penalty", func(t *testing.T) {
		svc, store, _ := newTestService(1)
		g := fixedGame(store, "p1", "p2")
		g.DiscardPile = []domain.Card{domain.ActionCard(domain.ColorRed, domain.KindDraw2)}
		g.StackedPenalty = 2
		c := domain.ActionCard(domain.ColorWild, domain.KindDraw6)
		g.Players[0].Hand = []domain.Card{c, domain.NumberCard(domain.ColorRed, 1)}

		_, err := svc.PlayCard(ctx, "g1", "p1", c.ID, domain.ColorGreen)
		if err != nil {
			t.Fatalf("PlayCard: %v", err)
		}
		if g.StackedPenalty != 8 {
			t.Errorf("stacked penalty %d, want 8", g.StackedPenalty)
		}
		if g.CurrentColor != domain.ColorGreen {
			t.Errorf("current color %q, want green", g.CurrentColor)
		}
	})

	t.Run("roulette play hands the color choice to the next player", func(t *testing.T) {
		svc, store, _ := newTestService(1)
		g := fixedGame(store, "p1", "p2")
		c := domain.ActionCard(domain.ColorWild, domain.KindWildColorRoulette)
		g.Players[0].Hand = []domain.Card{c, domain.NumberCard(domain.ColorRed, 1)}

		events, err := svc.PlayCard(ctx, "g1", "p1", c.ID, "")
		if err != nil {
			t.Fatalf("PlayCard: %v", err)
		}
		if g.RouletteStatus != domain.RoulettePendingColor {
			t.Errorf("roulette status %q, want pending_color", g.RouletteStatus)
		}
		if g.CurrentTurnUserID != "p2" {
			t.Errorf("turn went to %s, want p2 to choose the color", g.CurrentTurnUserID)
		}
		payload := events[0].Payload.(CardPlayedPayload)
		if !payload.RoulettePending {
			t.Error("event should flag a pending roulette")
		}

		// The player who played the card cannot choose; the gate is on p2.
		if _, err := svc.ChooseColor(ctx, "g1", "p1", domain.ColorGreen); err != ErrNotYourTurn {
			t.Errorf("expected ErrNotYourTurn for the roulette player, got %v", err)
		}
	})

	t.Run("winning play finishes the game", func(t *testing.T) {
		svc, store, _ := newTestService(1)
		g := fixedGame(store, "p1", "p2")
		c := domain.NumberCard(domain.ColorRed, 3)
		g.Players[0].Hand = []domain.Card{c}

		events, err := svc.PlayCard(ctx, "g1", "p1", c.ID, "")
		if err != nil {
			t.Fatalf("PlayCard: %v", err)
		}
		if g.Status != domain.StatusFinished || g.WinnerID != "p1" {
			t.Errorf("status %q winner %q", g.Status, g.WinnerID)
		}
		if g.Players[0].Score != 1 {
			t.Errorf("winner score %d, want 1", g.Players[0].Score)
		}
		last := events[len(events)-1]
		if last.Kind != EventGameEnded {
			t.Errorf("final event %q, want game_ended", last.Kind)
		}
	})
}

func TestDrawCard(t *testing.T) {
	ctx := context.Background()

	t.Run("must play guard", func(t *testing.T) {
		svc, store, _ := newTestService(1)
		g := fixedGame(store, "p1", "p2")
		g.MustPlayPlayableCard = true
		_, err := svc.DrawCard(ctx, "g1", "p1")
		if err != ErrMustPlayCard {
			t.Fatalf("expected ErrMustPlayCard, got %v", err)
		}
	})

	t.Run("single draw holds turn when playable", func(t *testing.T) {
		svc, store, _ := newTestService(1)
		g := fixedGame(store, "p1", "p2")
		// Top is red 5; the blue draw pile has a blue 5, value match keeps
		// at least some draws playable. Force determinism instead: put a
		// red card on top of the draw pile.
		g.DrawPile = append(g.DrawPile, domain.NumberCard(domain.ColorRed, 9))
		g.Players[0].Hand = []domain.Card{domain.NumberCard(domain.ColorGreen, 1)}

		events, err := svc.DrawCard(ctx, "g1", "p1")
		if err != nil {
			t.Fatalf("DrawCard: %v", err)
		}
		if !g.MustPlayPlayableCard {
			t.Error("must-play flag not set after drawing a playable card")
		}
		if g.CurrentTurnUserID != "p1" {
			t.Errorf("turn moved to %s, want held", g.CurrentTurnUserID)
		}
		var drawnPayload CardsDrawnPayload
		for _, ev := range events {
			if ev.Kind == EventCardsDrawn {
				drawnPayload = ev.Payload.(CardsDrawnPayload)
			}
		}
		if drawnPayload.Count != 1 || !drawnPayload.MustPlay {
			t.Errorf("cards_drawn payload %+v", drawnPayload)
		}
	})

	t.Run("no playable card passes turn on", func(t *testing.T) {
		svc, store, _ := newTestService(1)
		g := fixedGame(store, "p1", "p2")
		g.CurrentColor = domain.ColorGreen
		g.DiscardPile = []domain.Card{domain.NumberCard(domain.ColorGreen, 7)}
		g.DrawPile = []domain.Card{domain.NumberCard(domain.ColorBlue, 2)}
		g.Players[0].Hand = []domain.Card{domain.NumberCard(domain.ColorRed, 1)}
		// Hold some cards elsewhere so the reshuffle has nothing to add.
		g.Players[1].Hand = []domain.Card{domain.NumberCard(domain.ColorYellow, 3)}

		_, err := svc.DrawCard(ctx, "g1", "p1")
		if err != nil {
			t.Fatalf("DrawCard: %v", err)
		}
		if g.CurrentTurnUserID != "p2" {
			t.Errorf("turn is %s, want p2", g.CurrentTurnUserID)
		}
		if g.MustPlayPlayableCard {
			t.Error("must-play flag set without a playable card")
		}
	})

	t.Run("pending roulette can be drawn through onto the next seat", func(t *testing.T) {
		svc, store, _ := newTestService(1)
		g := fixedGame(store, "p1", "p2")
		g.DiscardPile = []domain.Card{domain.ActionCard(domain.ColorWild, domain.KindWildColorRoulette)}
		g.CurrentColor = domain.ColorWild
		g.RouletteStatus = domain.RoulettePendingColor
		g.DrawPile = []domain.Card{
			domain.NumberCard(domain.ColorGreen, 9),
			domain.NumberCard(domain.ColorBlue, 2),
		}
		g.Players[0].Hand = []domain.Card{domain.NumberCard(domain.ColorBlue, 7)}
		g.Players[1].Hand = []domain.Card{domain.NumberCard(domain.ColorRed, 1)}

		// Drawing instead of choosing is accepted; the unresolved roulette
		// travels with the turn.
		_, err := svc.DrawCard(ctx, "g1", "p1")
		if err != nil {
			t.Fatalf("DrawCard: %v", err)
		}
		if g.RouletteStatus != domain.RoulettePendingColor {
			t.Errorf("roulette status %q, want still pending after a draw", g.RouletteStatus)
		}
		if g.CurrentTurnUserID != "p2" {
			t.Fatalf("turn is %s, want p2", g.CurrentTurnUserID)
		}

		events, err := svc.ChooseColor(ctx, "g1", "p2", domain.ColorGreen)
		if err != nil {
			t.Fatalf("ChooseColor: %v", err)
		}
		if g.RouletteStatus != "" {
			t.Errorf("roulette status %q, want cleared", g.RouletteStatus)
		}
		if g.CurrentColor != domain.ColorGreen {
			t.Errorf("current color %q, want green", g.CurrentColor)
		}
		payload := events[0].Payload.(ColorChosenPayload)
		if payload.UserID != "p2" || payload.DrawnCount != 1 {
			t.Errorf("color_chosen payload %+v, want p2 drawing 1", payload)
		}
	})

	t.Run("stacked penalty drains in one draw", func(t *testing.T) {
		svc, store, log := newTestService(1)
		g := fixedGame(store, "p1", "p2")
		g.StackedPenalty = 6
		g.Players[0].Hand = []domain.Card{domain.NumberCard(domain.ColorYellow, 1)}

		_, err := svc.DrawCard(ctx, "g1", "p1")
		if err != nil {
			t.Fatalf("DrawCard: %v", err)
		}
		if len(g.Players[0].Hand) != 7 {
			t.Errorf("hand size %d, want 7 after drawing 6", len(g.Players[0].Hand))
		}
		if g.StackedPenalty != 0 {
			t.Errorf("penalty %d, want cleared", g.StackedPenalty)
		}
		entry := log.last()
		if entry.Action != ports.MoveDraw || entry.Metadata["count"] != 6 {
			t.Errorf("move log entry %+v", entry)
		}
	})

	t.Run("mercy limit eliminates the drawer", func(t *testing.T) {
		svc, store, log := newTestService(1)
		g := fixedGame(store, "p1", "p2", "p3")
		g.StackedPenalty = 10
		for i := 0; i < 16; i++ {
			g.Players[0].Hand = append(g.Players[0].Hand, domain.NumberCard(domain.ColorYellow, i%10))
		}

		events, err := svc.DrawCard(ctx, "g1", "p1")
		if err != nil {
			t.Fatalf("DrawCard: %v", err)
		}
		p := g.Players[0]
		if !p.IsEliminated {
			t.Fatal("player not eliminated at 26 cards")
		}
		if len(p.Hand) != 0 {
			t.Errorf("eliminated hand still holds %d cards", len(p.Hand))
		}
		if g.Status != domain.StatusActive {
			t.Errorf("game finished with two players remaining")
		}
		if g.CurrentTurnUserID != "p2" {
			t.Errorf("turn is %s, want p2", g.CurrentTurnUserID)
		}
		found := false
		for _, ev := range events {
			if ev.Kind == EventPlayerEliminated {
				found = true
			}
		}
		if !found {
			t.Error("no player_eliminated event emitted")
		}
		hasElim := false
		for _, e := range log.entries {
			if e.Action == ports.MoveEliminated && e.UserID == "p1" {
				hasElim = true
			}
		}
		if !hasElim {
			t.Error("no ELIMINATED move log entry")
		}
	})

	t.Run("elimination of second-to-last ends the game", func(t *testing.T) {
		svc, store, _ := newTestService(1)
		g := fixedGame(store, "p1", "p2")
		g.StackedPenalty = 10
		for i := 0; i < 16; i++ {
			g.Players[0].Hand = append(g.Players[0].Hand, domain.NumberCard(domain.ColorYellow, i%10))
		}

		events, err := svc.DrawCard(ctx, "g1", "p1")
		if err != nil {
			t.Fatalf("DrawCard: %v", err)
		}
		if g.Status != domain.StatusFinished || g.WinnerID != "p2" {
			t.Errorf("status %q winner %q, want finished/p2", g.Status, g.WinnerID)
		}
		if g.Players[1].Score != 1 {
			t.Errorf("winner score %d, want 1", g.Players[1].Score)
		}
		last := events[len(events)-1].Kind
		foundEnd := false
		for _, ev := range events {
			if ev.Kind == EventGameEnded {
				foundEnd = true
			}
		}
		if !foundEnd {
			t.Errorf("no game_ended event, last was %q", last)
		}
	})
}

func TestChooseColor(t *testing.T) {
	ctx := context.Background()

	t.Run("rejected without pending roulette", func(t *testing.T) {
		svc, store, _ := newTestService(1)
		fixedGame(store, "p1", "p2")
		_, err := svc.ChooseColor(ctx, "g1", "p1", domain.ColorRed)
		if err != ErrNoPendingColor {
			t.Fatalf("expected ErrNoPendingColor, got %v", err)
		}
	})

	t.Run("rejects wild as a choice", func(t *testing.T) {
		svc, store, _ := newTestService(1)
		g := fixedGame(store, "p1", "p2")
		g.RouletteStatus = domain.RoulettePendingColor
		_, err := svc.ChooseColor(ctx, "g1", "p1", domain.ColorWild)
		if err != ErrBadColor {
			t.Fatalf("expected ErrBadColor, got %v", err)
		}
	})

	t.Run("draws until chosen color then advances", func(t *testing.T) {
		svc, store, log := newTestService(1)
		g := fixedGame(store, "p1", "p2")
		g.RouletteStatus = domain.RoulettePendingColor
		g.Players[0].Hand = []domain.Card{domain.NumberCard(domain.ColorRed, 1)}
		// Stack the draw pile so two blue cards precede the first green one.
		// Top of the pile is the slice end.
		g.DrawPile = []domain.Card{
			domain.NumberCard(domain.ColorYellow, 4),
			domain.NumberCard(domain.ColorGreen, 9),
			domain.NumberCard(domain.ColorBlue, 2),
			domain.NumberCard(domain.ColorBlue, 7),
		}

		events, err := svc.ChooseColor(ctx, "g1", "p1", domain.ColorGreen)
		if err != nil {
			t.Fatalf("ChooseColor: %v", err)
		}
		if g.RouletteStatus != "" {
			t.Errorf("roulette status %q, want cleared", g.RouletteStatus)
		}
		if g.CurrentColor != domain.ColorGreen {
			t.Errorf("current color %q, want green", g.CurrentColor)
		}
		if len(g.Players[0].Hand) != 4 {
			t.Errorf("hand size %d, want 4 (one kept green, two blue misses)", len(g.Players[0].Hand))
		}
		if g.CurrentTurnUserID != "p2" {
			t.Errorf("turn is %s, want p2", g.CurrentTurnUserID)
		}
		payload := events[0].Payload.(ColorChosenPayload)
		if payload.DrawnCount != 3 {
			t.Errorf("drawn count %d, want 3", payload.DrawnCount)
		}
		entry := log.last()
		if entry.Action != ports.MoveChooseColor || entry.Metadata["color"] != "green" {
			t.Errorf("move log entry %+v", entry)
		}
	})

	t.Run("roulette can push past the mercy limit", func(t *testing.T) {
		svc, store, _ := newTestService(1)
		g := fixedGame(store, "p1", "p2", "p3")
		g.RouletteStatus = domain.RoulettePendingColor
		for i := 0; i < 24; i++ {
			g.Players[0].Hand = append(g.Players[0].Hand, domain.NumberCard(domain.ColorRed, i%10))
		}
		// Only blue cards available, the green seeker never stops early.
		g.DrawPile = nil
		for i := 0; i < 10; i++ {
			g.DrawPile = append(g.DrawPile, domain.NumberCard(domain.ColorBlue, i))
		}
		g.Players[1].Hand = []domain.Card{domain.NumberCard(domain.ColorYellow, 1)}
		g.Players[2].Hand = []domain.Card{domain.NumberCard(domain.ColorYellow, 2)}

		events, err := svc.ChooseColor(ctx, "g1", "p1", domain.ColorGreen)
		if err != nil {
			t.Fatalf("ChooseColor: %v", err)
		}
		if !g.Players[0].IsEliminated {
			t.Fatal("player not eliminated after roulette overshoot")
		}
		if len(g.Players[0].Hand) != 0 {
			t.Errorf("eliminated hand still holds %d cards", len(g.Players[0].Hand))
		}
		found := false
		for _, ev := range events {
			if ev.Kind == EventPlayerEliminated {
				found = true
			}
		}
		if !found {
			t.Error("no player_eliminated event after roulette elimination")
		}
	})
}

func TestPassTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty hand", func(t *testing.T) {
		svc, store, _ := newTestService(1)
		g := fixedGame(store, "p1", "p2")
		g.Players[0].Hand = nil
		_, err := svc.PassTurn(ctx, "g1", "p1")
		if err != ErrEmptyHandPass {
			t.Fatalf("expected ErrEmptyHandPass, got %v", err)
		}
	})

	t.Run("advances along direction", func(t *testing.T) {
		svc, store, log := newTestService(1)
		g := fixedGame(store, "p1", "p2", "p3")
		g.Direction = -1
		g.Players[0].Hand = []domain.Card{domain.NumberCard(domain.ColorRed, 1)}
		g.MustPlayPlayableCard = true

		events, err := svc.PassTurn(ctx, "g1", "p1")
		if err != nil {
			t.Fatalf("PassTurn: %v", err)
		}
		if g.CurrentTurnUserID != "p3" {
			t.Errorf("turn is %s, want p3 against direction", g.CurrentTurnUserID)
		}
		if g.MustPlayPlayableCard {
			t.Error("must-play flag survives a pass")
		}
		if events[0].Kind != EventTurnPassed {
			t.Errorf("event kind %q", events[0].Kind)
		}
		if log.last().Action != ports.MovePass {
			t.Errorf("move log action %q", log.last().Action)
		}
	})
}

func TestRejectionCodes(t *testing.T) {
	cases := []struct {
		err  error
		code RejectCode
	}{
		{ErrNotHost, CodeNotHost},
		{ErrNotYourTurn, CodeNotYourTurn},
		{ErrIllegalMove, CodeIllegalMove},
		{ErrMustPlayCard, CodeMustPlayCard},
		{ErrCannotFinishWith, CodeCannotFinishWith},
	}
	for _, tc := range cases {
		r, ok := AsRejection(tc.err)
		if !ok {
			t.Errorf("%v is not a rejection", tc.err)
			continue
		}
		if r.Code != tc.code {
			t.Errorf("code %q, want %q", r.Code, tc.code)
		}
	}
	if _, ok := AsRejection(context.Canceled); ok {
		t.Error("plain error classified as rejection")
	}
}
