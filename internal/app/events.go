package app

import "tichu/internal/domain"

// EventKind identifies emitted engine events for Nakama dispatch.
type EventKind string

const (
	EventMatchStarted       EventKind = "match_started"
	EventRoundStarted       EventKind = "round_started"
	EventCallWindowOpened   EventKind = "call_window_opened"
	EventHandDealt          EventKind = "hand_dealt"
	EventCallMade           EventKind = "call_made"
	EventExchangeSubmitted  EventKind = "exchange_submitted"
	EventExchangeCompleted  EventKind = "exchange_completed"
	EventTrickStarted       EventKind = "trick_started"
	EventCardsPlayed        EventKind = "cards_played"
	EventTurnPassed         EventKind = "turn_passed"
	EventWishNamed          EventKind = "wish_named"
	EventWishCleared        EventKind = "wish_cleared"
	EventTrickWon           EventKind = "trick_won"
	EventDragonGiftRequired EventKind = "dragon_gift_required"
	EventDragonGiven        EventKind = "dragon_given"
	EventRoundEnded         EventKind = "round_ended"
	EventMatchEnded         EventKind = "match_ended"
	EventSnapshot           EventKind = "snapshot"
)

// Event is an engine event with optional targeted seats. Empty Seats means
// broadcast; the session layer resolves seats to connected presences.
type Event struct {
	Kind    EventKind
	Payload any
	Seats   []int
}

type MatchStartedPayload struct {
	TargetScore int `json:"target_score"`
}

type RoundStartedPayload struct {
	RoundNumber int `json:"round_number"`
}

type CallWindowOpenedPayload struct {
	RoundNumber int `json:"round_number"`
}

// HandDealtPayload is private to its seat: the 8-card grand portion during
// the call window, the full 14 afterwards.
type HandDealtPayload struct {
	Seat  int           `json:"seat"`
	Cards []domain.Card `json:"cards"`
}

type CallMadePayload struct {
	Seat int         `json:"seat"`
	Call domain.Call `json:"call"`
}

type ExchangeSubmittedPayload struct {
	Seat int `json:"seat"`
}

// ExchangeCompletedPayload is private to its seat and carries the three
// cards received, in giver order.
type ExchangeCompletedPayload struct {
	Seat     int           `json:"seat"`
	Received []domain.Card `json:"received"`
}

type TrickStartedPayload struct {
	Leader int `json:"leader"`
}

type CardsPlayedPayload struct {
	Seat      int           `json:"seat"`
	Cards     []domain.Card `json:"cards"`
	ComboType string        `json:"combo_type"`
	HandSize  int           `json:"hand_size"`
	Finished  bool          `json:"finished"`
	NextTurn  int           `json:"next_turn"`
}

type TurnPassedPayload struct {
	Seat     int `json:"seat"`
	NextTurn int `json:"next_turn"`
}

type WishNamedPayload struct {
	Seat int         `json:"seat"`
	Rank domain.Rank `json:"rank"`
}

type WishClearedPayload struct {
	Rank domain.Rank `json:"rank"`
}

type TrickWonPayload struct {
	Seat   int `json:"seat"`
	Points int `json:"points"`
}

type DragonGiftRequiredPayload struct {
	Seat int `json:"seat"`
}

// DragonGivenPayload is public: the pile cards were face up on the table.
type DragonGivenPayload struct {
	From  int           `json:"from"`
	To    int           `json:"to"`
	Cards []domain.Card `json:"cards"`
}

type RoundEndedPayload struct {
	RoundNumber int                 `json:"round_number"`
	Result      *domain.RoundResult `json:"result"`
	Totals      [2]int              `json:"totals"`
}

type MatchEndedPayload struct {
	WinningTeam int    `json:"winning_team"`
	Scores      [2]int `json:"scores"`
}
