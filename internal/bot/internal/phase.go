package internal

import "tichu/internal/domain"

// GamePhase describes the current strategic stage of a round.
type GamePhase int

const (
	// PhaseOpening indicates every seat still holds its full 14 cards.
	PhaseOpening GamePhase = iota
	// PhaseMid indicates no one has reached the endgame threshold yet.
	PhaseMid
	// PhaseEnd indicates a seat has finished or any seat holds 5 cards
	// or fewer.
	PhaseEnd
)

// DetectPhase infers the phase from hand sizes and the finish order.
func DetectPhase(round *domain.Round) GamePhase {
	if round == nil {
		return PhaseMid
	}
	if len(round.FinishOrder) > 0 {
		return PhaseEnd
	}

	opening := true
	for seat := 0; seat < 4; seat++ {
		n := len(round.Hands[seat])
		if n <= 5 {
			return PhaseEnd
		}
		if n != domain.HandSize {
			opening = false
		}
	}
	if opening {
		return PhaseOpening
	}
	return PhaseMid
}
