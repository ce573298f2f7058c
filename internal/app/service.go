package app

import (
	"errors"
	"math/rand"
	"time"

	"tichu/internal/domain"
)

// Session errors. Rule errors come from the domain package; these cover the
// action envelope around them.
var (
	ErrStaleAction = errors.New("action sequence already consumed")
	ErrInvalidSeat = errors.New("seat must be 0 to 3")
)

// Service contains the Tichu use-cases. It owns no match state; the session
// layer holds the domain.Match and passes it in with every action, so the
// engine stays addressable purely by seat.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with the provided rng or a time-seeded
// default. Tests pass a fixed seed for reproducible deals.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

// StartMatch deals the first round and emits the opening events: the match
// header, the round header, the call window and each seat's private 8-card
// grand portion.
func (s *Service) StartMatch(target int) (*domain.Match, []Event) {
	m := domain.NewMatch(s.rng.Int63(), target)
	events := []Event{
		{Kind: EventMatchStarted, Payload: MatchStartedPayload{TargetScore: m.Target}},
	}
	events = append(events, s.roundOpeningEvents(m)...)
	return m, events
}

func (s *Service) roundOpeningEvents(m *domain.Match) []Event {
	events := []Event{
		{Kind: EventRoundStarted, Payload: RoundStartedPayload{RoundNumber: m.RoundNumber}},
		{Kind: EventCallWindowOpened, Payload: CallWindowOpenedPayload{RoundNumber: m.RoundNumber}},
	}
	return append(events, s.handEvents(m)...)
}

// handEvents emits each seat's current hand privately.
func (s *Service) handEvents(m *domain.Match) []Event {
	events := make([]Event, 0, 4)
	for seat := 0; seat < 4; seat++ {
		events = append(events, Event{
			Kind:    EventHandDealt,
			Payload: HandDealtPayload{Seat: seat, Cards: m.Round.Hands[seat]},
			Seats:   []int{seat},
		})
	}
	return events
}

// check validates the action envelope before the rules see it. A stale
// sequence means the submission raced an already-accepted action; it must
// never be applied twice.
func (s *Service) check(m *domain.Match, seat int, seq uint64) error {
	if seat < 0 || seat > 3 {
		return ErrInvalidSeat
	}
	if seq != m.NextSeq {
		if m.Decided {
			return domain.ErrMatchAlreadyDecided
		}
		return ErrStaleAction
	}
	return nil
}

// SubmitGrandDecision records a Grand Tichu call or decline. The fourth
// decision completes the deal and opens the exchange.
func (s *Service) SubmitGrandDecision(m *domain.Match, seat int, seq uint64, callGrand bool) ([]Event, error) {
	if err := s.check(m, seat, seq); err != nil {
		return nil, err
	}
	out, err := m.SubmitGrandDecision(seat, callGrand)
	if err != nil {
		return nil, err
	}
	events := []Event{
		{Kind: EventCallMade, Payload: CallMadePayload{Seat: out.Seat, Call: out.Call}},
	}
	if out.PhaseAdvanced {
		events = append(events, s.handEvents(m)...)
	}
	return events, nil
}

// SubmitTichu records an ordinary Tichu call.
func (s *Service) SubmitTichu(m *domain.Match, seat int, seq uint64) ([]Event, error) {
	if err := s.check(m, seat, seq); err != nil {
		return nil, err
	}
	out, err := m.SubmitTichu(seat)
	if err != nil {
		return nil, err
	}
	return []Event{
		{Kind: EventCallMade, Payload: CallMadePayload{Seat: out.Seat, Call: out.Call}},
	}, nil
}

// SubmitExchange stores a seat's outgoing cards. The fourth submission
// reveals the exchange: each seat privately learns its received cards and
// the Mahjong holder opens the first trick.
func (s *Service) SubmitExchange(m *domain.Match, seat int, seq uint64, ex domain.Exchange) ([]Event, error) {
	if err := s.check(m, seat, seq); err != nil {
		return nil, err
	}
	out, err := m.SubmitExchange(seat, ex)
	if err != nil {
		return nil, err
	}
	events := []Event{
		{Kind: EventExchangeSubmitted, Payload: ExchangeSubmittedPayload{Seat: out.Seat}},
	}
	if out.Revealed {
		for s := 0; s < 4; s++ {
			events = append(events, Event{
				Kind:    EventExchangeCompleted,
				Payload: ExchangeCompletedPayload{Seat: s, Received: m.Round.ReceivedCards(s)},
				Seats:   []int{s},
			})
		}
		events = append(events, s.handEvents(m)...)
		events = append(events, Event{
			Kind:    EventTrickStarted,
			Payload: TrickStartedPayload{Leader: out.FirstLeader},
		})
	}
	return events, nil
}

// SubmitPlay applies a combination, with an optional Mahjong wish.
func (s *Service) SubmitPlay(m *domain.Match, seat int, seq uint64, cards []domain.Card, wish domain.Rank) ([]Event, error) {
	if err := s.check(m, seat, seq); err != nil {
		return nil, err
	}
	out, err := m.SubmitPlay(seat, cards, wish)
	if err != nil {
		return nil, err
	}

	events := []Event{
		{Kind: EventCardsPlayed, Payload: CardsPlayedPayload{
			Seat:      out.Seat,
			Cards:     out.Combo.Cards,
			ComboType: out.Combo.Type.String(),
			HandSize:  len(m.Round.Hands[out.Seat]),
			Finished:  out.Finished,
			NextTurn:  out.NextTurn,
		}},
	}
	if out.WishCleared {
		events = append(events, Event{Kind: EventWishCleared, Payload: WishClearedPayload{}})
	}
	if out.WishNamed != 0 {
		events = append(events, Event{Kind: EventWishNamed, Payload: WishNamedPayload{Seat: out.Seat, Rank: out.WishNamed}})
	}
	if out.DogLead && !out.RoundOver {
		events = append(events, Event{Kind: EventTrickStarted, Payload: TrickStartedPayload{Leader: out.NextTurn}})
	}
	if out.RoundOver {
		events = append(events, s.roundEndedEvent(m))
	}
	return events, nil
}

// SubmitPass moves the turn on; when the trick closes it emits the win and,
// on a Dragon win, the give-away obligation.
func (s *Service) SubmitPass(m *domain.Match, seat int, seq uint64) ([]Event, error) {
	if err := s.check(m, seat, seq); err != nil {
		return nil, err
	}
	out, err := m.SubmitPass(seat)
	if err != nil {
		return nil, err
	}

	events := []Event{
		{Kind: EventTurnPassed, Payload: TurnPassedPayload{Seat: out.Seat, NextTurn: out.NextTurn}},
	}
	if out.TrickWon {
		events = append(events, Event{Kind: EventTrickWon, Payload: TrickWonPayload{Seat: out.TrickWinner, Points: out.TrickPoints}})
		if out.GiftRequired {
			events = append(events, Event{Kind: EventDragonGiftRequired, Payload: DragonGiftRequiredPayload{Seat: out.TrickWinner}})
		} else {
			events = append(events, Event{Kind: EventTrickStarted, Payload: TrickStartedPayload{Leader: out.NextTurn}})
		}
	}
	return events, nil
}

// SubmitDragonGift resolves a pending give-away and opens the next trick.
func (s *Service) SubmitDragonGift(m *domain.Match, seat int, seq uint64, target int) ([]Event, error) {
	if err := s.check(m, seat, seq); err != nil {
		return nil, err
	}
	out, err := m.SubmitDragonGift(seat, target)
	if err != nil {
		return nil, err
	}
	return []Event{
		{Kind: EventDragonGiven, Payload: DragonGivenPayload{From: out.From, To: out.To, Cards: out.Cards}},
		{Kind: EventTrickStarted, Payload: TrickStartedPayload{Leader: out.NextTurn}},
	}, nil
}

// roundEndedEvent reports a scored round before its deltas are applied. The
// totals shown are the projected team scores so scoreboards can display the
// running standing during the between-rounds pause.
func (s *Service) roundEndedEvent(m *domain.Match) Event {
	res := m.Round.Result
	totals := m.Scores
	totals[0] += res.TeamDelta[0]
	totals[1] += res.TeamDelta[1]
	return Event{Kind: EventRoundEnded, Payload: RoundEndedPayload{
		RoundNumber: m.RoundNumber,
		Result:      res,
		Totals:      totals,
	}}
}

// AdvanceRound applies the scored round to the match. It either ends the
// match or deals the next round and reopens the call window.
func (s *Service) AdvanceRound(m *domain.Match) ([]Event, error) {
	_, err := m.AdvanceRound()
	if err != nil {
		return nil, err
	}
	if m.Decided {
		return []Event{
			{Kind: EventMatchEnded, Payload: MatchEndedPayload{WinningTeam: m.WinnerTeam, Scores: m.Scores}},
		}, nil
	}
	return s.roundOpeningEvents(m), nil
}
