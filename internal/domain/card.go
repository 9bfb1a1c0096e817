package domain

import "github.com/google/uuid"

// Color is a card's suit. Wild marks cards that have no fixed color until
// resolved; it is never a legal current color.
type Color string

const (
	ColorRed    Color = "red"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorWild   Color = "wild"
)

// ConcreteColors are the colors a wild card can resolve to.
var ConcreteColors = []Color{ColorRed, ColorBlue, ColorGreen, ColorYellow}

// IsConcrete reports whether c is one of the four playable colors.
func (c Color) IsConcrete() bool {
	switch c {
	case ColorRed, ColorBlue, ColorGreen, ColorYellow:
		return true
	}
	return false
}

// CardKind identifies the behaviour of a card when played.
type CardKind string

const (
	KindNumber            CardKind = "number"
	KindSkip              CardKind = "skip"
	KindReverse           CardKind = "reverse"
	KindDraw2             CardKind = "draw2"
	KindDraw4             CardKind = "draw4"
	KindDiscardAll        CardKind = "discard_all"
	KindSkipEveryone      CardKind = "skip_everyone"
	KindWildColorRoulette CardKind = "wild_color_roulette"
	KindDraw6             CardKind = "draw6"
	KindDraw10            CardKind = "draw10"
	KindWildReverseDraw4  CardKind = "wild_reverse_draw4"
)

// DrawValue returns the forced-draw magnitude the kind contributes when
// stacked. Kinds without a draw penalty return 0.
func (k CardKind) DrawValue() int {
	switch k {
	case KindDraw2:
		return 2
	case KindDraw4, KindWildReverseDraw4:
		return 4
	case KindDraw6:
		return 6
	case KindDraw10:
		return 10
	}
	return 0
}

// Card is a single physical card instance. ID is unique per instance, even
// among cards with identical color, kind and value; it is how a specific
// card is located in a hand. Value is meaningful only when Kind is
// KindNumber.
type Card struct {
	ID    string   `json:"id"`
	Color Color    `json:"color"`
	Kind  CardKind `json:"kind"`
	Value int      `json:"value,omitempty"`
}

// NumberCard creates a number card instance with a fresh id.
func NumberCard(color Color, value int) Card {
	return Card{ID: uuid.NewString(), Color: color, Kind: KindNumber, Value: value}
}

// ActionCard creates a non-number card instance with a fresh id.
func ActionCard(color Color, kind CardKind) Card {
	return Card{ID: uuid.NewString(), Color: color, Kind: kind}
}

// SameNumber reports whether both cards are number cards of equal color and
// value. Such cards may be shed together as one batch.
func SameNumber(a, b Card) bool {
	return a.Kind == KindNumber && b.Kind == KindNumber &&
		a.Color == b.Color && a.Value == b.Value
}
