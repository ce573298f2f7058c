package bot

import (
	"tichu/internal/domain"
)

// Move represents the decision made by the AI for one turn.
type Move struct {
	Pass  bool
	Cards []domain.Card
	// Wish is set only when Cards contains the Mahjong.
	Wish domain.Rank
}

// Brain is the interface that all bot strategies implement. The same
// interface backs both bot seats and synthetic actions for timed-out
// humans.
type Brain interface {
	// DecideGrand judges the 8-card grand portion.
	DecideGrand(hand []domain.Card) bool
	// DecideTichu judges the full 14-card hand before the first play.
	DecideTichu(hand []domain.Card) bool
	// ChooseExchange picks the three outgoing cards for a seat.
	ChooseExchange(hand []domain.Card) domain.Exchange
	// CalculateMove picks a play or a pass for the seat on turn.
	CalculateMove(round *domain.Round, seat int) (Move, error)
	// ChooseGiftTarget picks the opponent seat for a Dragon give-away.
	ChooseGiftTarget(round *domain.Round, seat int) int
	// OnEvent lets stateful brains observe the public event stream.
	OnEvent(event interface{})
}
