package app

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"nomercy/internal/domain"
	"nomercy/internal/ports"

	"github.com/google/uuid"
)

// Service is the command layer: it validates a request against the loaded
// snapshot, runs the rules engine, persists the next snapshot and appends a
// move-log entry. Every rule violation is detected before any mutation, so a
// rejected command leaves state untouched.
//
// Commands for one game must be serialized by the caller; the Nakama match
// loop provides that, running one MatchLoop at a time per match.
type Service struct {
	store ports.SnapshotStore
	log   ports.MoveLog
	rng   *rand.Rand
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(store ports.SnapshotStore, log ports.MoveLog, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{store: store, log: log, rng: rng}
}

// StartGame creates and persists the initial snapshot for a room roster.
// Only the host may start, the roster needs at least two players, and seat
// order is randomized here so callers pass the roster as-is.
func (s *Service) StartGame(ctx context.Context, roomID, callerID, hostID string, roster []string) (*domain.GameState, []Event, error) {
	if callerID != hostID {
		return nil, nil, ErrNotHost
	}
	if len(roster) < MinPlayersToStartGame {
		return nil, nil, ErrTooFewPlayers
	}

	order := append([]string(nil), roster...)
	s.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	g := domain.NewGame(uuid.NewString(), roomID, order, s.rng)

	if err := s.store.Save(ctx, g); err != nil {
		return nil, nil, fmt.Errorf("save initial snapshot: %w", err)
	}

	top, _ := g.TopCard()
	events := make([]Event, 0, len(g.Players)+1)
	events = append(events, Event{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			GameID:          g.ID,
			RoomID:          g.RoomID,
			PlayerOrder:     order,
			FirstTurnUserID: g.CurrentTurnUserID,
			TopCard:         top,
			CurrentColor:    g.CurrentColor,
		},
	})
	for _, p := range g.Players {
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{UserID: p.UserID, Hand: p.Hand},
			Recipients: []string{p.UserID},
		})
	}

	return g, events, nil
}

// PlayCard sheds one card (plus identical-number duplicates) from the
// caller's hand and resolves its effect.
func (s *Service) PlayCard(ctx context.Context, gameID, userID, cardID string, chosenColor domain.Color) ([]Event, error) {
	g, p, err := s.loadForTurn(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}

	card, ok := p.FindCard(cardID)
	if !ok {
		return nil, ErrCardNotInHand
	}
	if !domain.CanPlayCard(card, g) {
		return nil, ErrIllegalMove
	}
	// Going out on an action card is not allowed; the player must draw.
	if len(p.Hand) == 1 && card.Kind != domain.KindNumber {
		return nil, ErrCannotFinishWith
	}
	if card.Color == domain.ColorWild && card.Kind != domain.KindWildColorRoulette && !chosenColor.IsConcrete() {
		if chosenColor == "" {
			return nil, ErrColorRequired
		}
		return nil, ErrBadColor
	}

	if len(g.DrawPile) <= ReshuffleThreshold {
		domain.ReshuffleDiscardPile(g, s.rng)
	}
	g.MustPlayPlayableCard = false

	// Identical number cards are shed together as one batch, beneath the
	// played card.
	var duplicates []domain.Card
	if card.Kind == domain.KindNumber {
		for _, c := range p.Hand {
			if c.ID != card.ID && domain.SameNumber(c, card) {
				duplicates = append(duplicates, c)
			}
		}
	}

	removed := map[string]bool{card.ID: true}
	for _, c := range duplicates {
		removed[c.ID] = true
	}
	p.RemoveCards(removed)

	g.DiscardPile = append(g.DiscardPile, duplicates...)
	g.DiscardPile = append(g.DiscardPile, card)

	domain.ApplyCardEffect(g, card, userID, chosenColor)

	events := []Event{{
		Kind: EventCardPlayed,
		Payload: CardPlayedPayload{
			UserID:          userID,
			Card:            card,
			CoDiscarded:     duplicates,
			CurrentColor:    g.CurrentColor,
			StackedPenalty:  g.StackedPenalty,
			RoulettePending: g.RouletteStatus == domain.RoulettePendingColor,
			CardsRemaining:  len(p.Hand),
			NextTurnUserID:  g.CurrentTurnUserID,
		},
	}}

	if len(p.Hand) == 0 {
		g.Status = domain.StatusFinished
		g.WinnerID = userID
		p.Score++
		events = append(events, Event{
			Kind:    EventGameEnded,
			Payload: GameEndedPayload{WinnerID: userID},
		})
	}

	if err := s.store.Save(ctx, g); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	metadata := map[string]interface{}{}
	if chosenColor != "" {
		metadata["chosen_color"] = string(chosenColor)
	}
	if len(duplicates) > 0 {
		metadata["co_discarded"] = len(duplicates)
	}
	if err := s.log.Append(ctx, ports.MoveEntry{
		GameID: gameID, UserID: userID, Action: ports.MovePlay,
		CardID: card.ID, Metadata: metadata,
	}); err != nil {
		return nil, fmt.Errorf("append move log: %w", err)
	}

	return events, nil
}

// DrawCard draws one card, or the whole stacked penalty when one is pending.
// The turn is held when the refreshed hand contains a legal play.
func (s *Service) DrawCard(ctx context.Context, gameID, userID string) ([]Event, error) {
	g, p, err := s.loadForTurn(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}
	if g.MustPlayPlayableCard {
		return nil, ErrMustPlayCard
	}

	count := 1
	if g.StackedPenalty > 0 {
		count = g.StackedPenalty
		g.StackedPenalty = 0
	}

	drawn := domain.DrawCards(g, p, count, s.rng)
	g.MustPlayPlayableCard = false

	var events []Event

	if domain.ReachedMercyLimit(p) {
		evs, err := s.eliminate(ctx, g, p)
		if err != nil {
			return nil, err
		}
		events = append(events, evs...)
	}

	mustPlay := false
	if p.IsEliminated || !domain.HasPlayableCard(p, g) {
		if g.Status == domain.StatusActive {
			g.CurrentTurnUserID = domain.NextPlayer(g, 0)
		}
	} else {
		g.MustPlayPlayableCard = true
		mustPlay = true
	}

	events = append(events, Event{
		Kind: EventCardsDrawn,
		Payload: CardsDrawnPayload{
			UserID:         userID,
			Count:          len(drawn),
			MustPlay:       mustPlay,
			NextTurnUserID: g.CurrentTurnUserID,
		},
	})
	if !p.IsEliminated {
		events = append(events, Event{
			Kind:       EventHandUpdated,
			Payload:    HandUpdatedPayload{UserID: userID, Hand: p.Hand},
			Recipients: []string{userID},
		})
	}

	if err := s.store.Save(ctx, g); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	if err := s.log.Append(ctx, ports.MoveEntry{
		GameID: gameID, UserID: userID, Action: ports.MoveDraw,
		Metadata: map[string]interface{}{"count": len(drawn)},
	}); err != nil {
		return nil, fmt.Errorf("append move log: %w", err)
	}

	return events, nil
}

// ChooseColor resolves a pending color roulette for the current-turn player.
func (s *Service) ChooseColor(ctx context.Context, gameID, userID string, color domain.Color) ([]Event, error) {
	g, p, err := s.loadForTurn(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}
	if g.RouletteStatus != domain.RoulettePendingColor {
		return nil, ErrNoPendingColor
	}
	if !color.IsConcrete() {
		return nil, ErrBadColor
	}

	before := len(p.Hand)
	domain.HandleRouletteChoice(g, userID, color, s.rng)
	drawn := len(p.Hand) - before

	events := []Event{{
		Kind: EventColorChosen,
		Payload: ColorChosenPayload{
			UserID:         userID,
			Color:          color,
			DrawnCount:     drawn,
			NextTurnUserID: g.CurrentTurnUserID,
		},
	}}

	if p.IsEliminated {
		evs, err := s.eliminate(ctx, g, p)
		if err != nil {
			return nil, err
		}
		events = append(events, evs...)
	} else {
		events = append(events, Event{
			Kind:       EventHandUpdated,
			Payload:    HandUpdatedPayload{UserID: userID, Hand: p.Hand},
			Recipients: []string{userID},
		})
	}

	if err := s.store.Save(ctx, g); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	if err := s.log.Append(ctx, ports.MoveEntry{
		GameID: gameID, UserID: userID, Action: ports.MoveChooseColor,
		Metadata: map[string]interface{}{"color": string(color), "drawn": drawn},
	}); err != nil {
		return nil, fmt.Errorf("append move log: %w", err)
	}

	return events, nil
}

// PassTurn advances the ring without drawing.
func (s *Service) PassTurn(ctx context.Context, gameID, userID string) ([]Event, error) {
	g, p, err := s.loadForTurn(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}
	if len(p.Hand) == 0 {
		return nil, ErrEmptyHandPass
	}

	g.CurrentTurnUserID = domain.NextPlayer(g, 0)
	g.MustPlayPlayableCard = false

	if err := s.store.Save(ctx, g); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	if err := s.log.Append(ctx, ports.MoveEntry{
		GameID: gameID, UserID: userID, Action: ports.MovePass,
	}); err != nil {
		return nil, fmt.Errorf("append move log: %w", err)
	}

	return []Event{{
		Kind:    EventTurnPassed,
		Payload: TurnPassedPayload{UserID: userID, NextTurnUserID: g.CurrentTurnUserID},
	}}, nil
}

// loadForTurn loads an active snapshot and checks the caller owns the turn.
func (s *Service) loadForTurn(ctx context.Context, gameID, userID string) (*domain.GameState, *domain.PlayerState, error) {
	g, err := s.store.Load(ctx, gameID)
	if err != nil {
		if err == ports.ErrNotFound {
			return nil, nil, ErrGameNotFound
		}
		return nil, nil, fmt.Errorf("load snapshot: %w", err)
	}
	if g.Status != domain.StatusActive {
		return nil, nil, ErrGameFinished
	}
	if g.CurrentTurnUserID != userID {
		return nil, nil, ErrNotYourTurn
	}
	p := g.Player(userID)
	if p == nil {
		return nil, nil, ErrNotYourTurn
	}
	return g, p, nil
}

// eliminate finalizes a mercy-rule elimination: the hand moves to the
// discard bottom, the elimination is logged, and the game ends if one
// player remains.
func (s *Service) eliminate(ctx context.Context, g *domain.GameState, p *domain.PlayerState) ([]Event, error) {
	domain.Eliminate(g, p)

	events := []Event{{
		Kind:    EventPlayerEliminated,
		Payload: PlayerEliminatedPayload{UserID: p.UserID},
	}}

	if err := s.log.Append(ctx, ports.MoveEntry{
		GameID: g.ID, UserID: p.UserID, Action: ports.MoveEliminated,
	}); err != nil {
		return nil, fmt.Errorf("append move log: %w", err)
	}

	if domain.FinishIfLastStanding(g) {
		if w := g.Player(g.WinnerID); w != nil {
			w.Score++
		}
		events = append(events, Event{
			Kind:    EventGameEnded,
			Payload: GameEndedPayload{WinnerID: g.WinnerID},
		})
	}

	return events, nil
}
