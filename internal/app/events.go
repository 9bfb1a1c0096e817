package app

import "nomercy/internal/domain"

// EventKind identifies emitted game events for dispatch to clients.
type EventKind string

const (
	EventGameStarted      EventKind = "game_started"
	EventHandDealt        EventKind = "hand_dealt"
	EventCardPlayed       EventKind = "card_played"
	EventCardsDrawn       EventKind = "cards_drawn"
	EventHandUpdated      EventKind = "hand_updated"
	EventColorChosen      EventKind = "color_chosen"
	EventTurnPassed       EventKind = "turn_passed"
	EventPlayerEliminated EventKind = "player_eliminated"
	EventGameEnded        EventKind = "game_ended"
)

// Event is a game event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type GameStartedPayload struct {
	GameID          string       `json:"game_id"`
	RoomID          string       `json:"room_id"`
	PlayerOrder     []string     `json:"player_order"`
	FirstTurnUserID string       `json:"first_turn_user_id"`
	TopCard         domain.Card  `json:"top_card"`
	CurrentColor    domain.Color `json:"current_color"`
}

type HandDealtPayload struct {
	UserID string        `json:"user_id"`
	Hand   []domain.Card `json:"hand"`
}

type CardPlayedPayload struct {
	UserID          string        `json:"user_id"`
	Card            domain.Card   `json:"card"`
	CoDiscarded     []domain.Card `json:"co_discarded,omitempty"`
	CurrentColor    domain.Color  `json:"current_color"`
	StackedPenalty  int           `json:"stacked_penalty"`
	RoulettePending bool          `json:"roulette_pending"`
	CardsRemaining  int           `json:"cards_remaining"`
	NextTurnUserID  string        `json:"next_turn_user_id"`
}

type CardsDrawnPayload struct {
	UserID         string `json:"user_id"`
	Count          int    `json:"count"`
	MustPlay       bool   `json:"must_play"`
	NextTurnUserID string `json:"next_turn_user_id"`
}

// HandUpdatedPayload is sent privately after draws so only the owner sees
// the actual cards.
type HandUpdatedPayload struct {
	UserID string        `json:"user_id"`
	Hand   []domain.Card `json:"hand"`
}

type ColorChosenPayload struct {
	UserID         string       `json:"user_id"`
	Color          domain.Color `json:"color"`
	DrawnCount     int          `json:"drawn_count"`
	NextTurnUserID string       `json:"next_turn_user_id"`
}

type TurnPassedPayload struct {
	UserID         string `json:"user_id"`
	NextTurnUserID string `json:"next_turn_user_id"`
}

type PlayerEliminatedPayload struct {
	UserID string `json:"user_id"`
}

type GameEndedPayload struct {
	WinnerID string `json:"winner_id"`
}
