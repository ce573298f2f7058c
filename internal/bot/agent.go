package bot

import (
	"tichu/internal/domain"
)

// Agent represents an autonomous bot occupying one seat.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// DecideGrand answers the seat's Grand Tichu window.
func (a *Agent) DecideGrand(round *domain.Round, seat int) bool {
	return a.Strategy.DecideGrand(round.Hands[seat])
}

// DecideTichu answers the ordinary Tichu window before the first play.
func (a *Agent) DecideTichu(round *domain.Round, seat int) bool {
	return a.Strategy.DecideTichu(round.Hands[seat])
}

// ChooseExchange picks the seat's three outgoing cards.
func (a *Agent) ChooseExchange(round *domain.Round, seat int) domain.Exchange {
	return a.Strategy.ChooseExchange(round.Hands[seat])
}

// Play asks the agent for its move on the current turn.
func (a *Agent) Play(round *domain.Round, seat int) (Move, error) {
	if len(round.Hands[seat]) == 0 {
		return Move{Pass: true}, nil
	}
	move, err := a.Strategy.CalculateMove(round, seat)
	if err != nil {
		return Move{Pass: true}, err
	}
	return move, nil
}

// ChooseGiftTarget picks the opponent to hand a Dragon-won pile to.
func (a *Agent) ChooseGiftTarget(round *domain.Round, seat int) int {
	return a.Strategy.ChooseGiftTarget(round, seat)
}

// OnGameEvent notifies the agent of a game event.
func (a *Agent) OnGameEvent(event interface{}) {
	a.Strategy.OnEvent(event)
}
