package app

import "errors"

// RejectCode is a stable machine-readable reason the transport layer can
// render without seeing internal state.
type RejectCode string

const (
	CodeNotHost          RejectCode = "not_host"
	CodeNotYourTurn      RejectCode = "not_your_turn"
	CodeGameNotFound     RejectCode = "game_not_found"
	CodeGameFinished     RejectCode = "game_finished"
	CodeTooFewPlayers    RejectCode = "too_few_players"
	CodeCardNotInHand    RejectCode = "card_not_in_hand"
	CodeIllegalMove      RejectCode = "illegal_move"
	CodeMustPlayCard     RejectCode = "must_play_card"
	CodeCannotFinishWith RejectCode = "cannot_finish_with_action_card"
	CodeColorRequired    RejectCode = "color_required"
	CodeBadColor         RejectCode = "bad_color"
	CodeNoPendingColor   RejectCode = "no_pending_color"
	CodeEmptyHandPass    RejectCode = "empty_hand_pass"
)

// Rejection is an expected rule violation: ordinary, recoverable, reported to
// the caller with no state mutated. Infrastructure faults are plain wrapped
// errors and never carry a code.
type Rejection struct {
	Code    RejectCode
	Message string
}

func (r *Rejection) Error() string { return r.Message }

func reject(code RejectCode, msg string) *Rejection {
	return &Rejection{Code: code, Message: msg}
}

// AsRejection unwraps a command error into its rejection, when it is one.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

var (
	ErrNotHost          = reject(CodeNotHost, "only the room host can start the game")
	ErrNotYourTurn      = reject(CodeNotYourTurn, "not your turn")
	ErrGameNotFound     = reject(CodeGameNotFound, "game not found")
	ErrGameFinished     = reject(CodeGameFinished, "game already finished")
	ErrTooFewPlayers    = reject(CodeTooFewPlayers, "need at least 2 players")
	ErrCardNotInHand    = reject(CodeCardNotInHand, "card not found in hand")
	ErrIllegalMove      = reject(CodeIllegalMove, "card cannot be played now")
	ErrMustPlayCard     = reject(CodeMustPlayCard, "a playable card is in hand, it must be played")
	ErrCannotFinishWith = reject(CodeCannotFinishWith, "cannot go out on an action card, draw instead")
	ErrColorRequired    = reject(CodeColorRequired, "a color choice is required for this card")
	ErrBadColor         = reject(CodeBadColor, "color must be red, blue, green or yellow")
	ErrNoPendingColor   = reject(CodeNoPendingColor, "no color choice is pending")
	ErrEmptyHandPass    = reject(CodeEmptyHandPass, "cannot pass with an empty hand")
)
