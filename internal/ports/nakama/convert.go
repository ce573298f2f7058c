package nakama

import (
	"tichu/internal/domain"
)

// Wire DTOs. Clients speak JSON; conversion to domain values happens here
// and nowhere else.

type cardDTO struct {
	Suit int32 `json:"suit"`
	Rank int32 `json:"rank"`
}

// Client -> Server request payloads. Every mutating request carries the
// action sequence position it targets; the engine rejects consumed ones.

type startMatchRequest struct {
	TargetScore int `json:"target_score"`
}

type grandDecisionRequest struct {
	Seq       uint64 `json:"seq"`
	CallGrand bool   `json:"call_grand"`
}

type tichuCallRequest struct {
	Seq uint64 `json:"seq"`
}

type exchangeRequest struct {
	Seq     uint64  `json:"seq"`
	Left    cardDTO `json:"left"`
	Partner cardDTO `json:"partner"`
	Right   cardDTO `json:"right"`
}

type playCardsRequest struct {
	Seq   uint64    `json:"seq"`
	Cards []cardDTO `json:"cards"`
	Wish  int32     `json:"wish,omitempty"`
}

type passTurnRequest struct {
	Seq uint64 `json:"seq"`
}

type dragonGiftRequest struct {
	Seq        uint64 `json:"seq"`
	TargetSeat int    `json:"target_seat"`
}

// Server -> Client payloads that do not come from app events.

type lobbySeat struct {
	Seat        int    `json:"seat"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	IsBot       bool   `json:"is_bot"`
	IsOwner     bool   `json:"is_owner"`
}

type lobbyStatePayload struct {
	Seats      []lobbySeat `json:"seats"`
	OwnerSeat  int         `json:"owner_seat"`
	Spectators int         `json:"spectators"`
	InProgress bool        `json:"in_progress"`
}

type rejoinTokenPayload struct {
	Seat  int    `json:"seat"`
	Token string `json:"token"`
}

type errorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func cardFromWire(c cardDTO) domain.Card {
	return domain.Card{Suit: domain.Suit(c.Suit), Rank: domain.Rank(c.Rank)}
}

func cardsFromWire(cards []cardDTO) []domain.Card {
	out := make([]domain.Card, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardFromWire(c))
	}
	return out
}
