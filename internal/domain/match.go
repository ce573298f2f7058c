package domain

import "math/rand"

// DefaultTargetScore is the total a team must reach, while strictly ahead,
// to win the match.
const DefaultTargetScore = 1000

// Match owns the rounds and the cumulative team scores. Team 0 is seats
// {0,2}, team 1 is seats {1,3}. NextSeq counts accepted mutations; callers
// use it to reject stale resubmissions before they reach the rules.
type Match struct {
	Target      int    `json:"target"`
	Scores      [2]int `json:"scores"`
	RoundNumber int    `json:"roundNumber"`
	Round       *Round `json:"round,omitempty"`
	NextSeq     uint64 `json:"nextSeq"`
	Decided     bool   `json:"decided"`
	WinnerTeam  int    `json:"winnerTeam"`

	rng *rand.Rand
}

// NewMatch seeds the shuffle and deals the first round.
func NewMatch(seed int64, target int) *Match {
	if target <= 0 {
		target = DefaultTargetScore
	}
	m := &Match{
		Target:     target,
		WinnerTeam: -1,
		rng:        rand.New(rand.NewSource(seed)),
	}
	m.beginRound()
	return m
}

func (m *Match) beginRound() {
	m.RoundNumber++
	m.Round = NewRound(m.rng)
}

// TeamOf returns the team of a seat.
func TeamOf(seat int) int {
	return teamOf(seat)
}

// PartnerOf returns the seat across the table.
func PartnerOf(seat int) int {
	return partnerOf(seat)
}

func (m *Match) guard(seat int) error {
	if m.Decided {
		return ErrMatchAlreadyDecided
	}
	if seat < 0 || seat > 3 {
		return ErrOutOfTurn
	}
	return nil
}

// SubmitGrandDecision records a seat's Grand Tichu call or decline.
func (m *Match) SubmitGrandDecision(seat int, callGrand bool) (CallOutcome, error) {
	if err := m.guard(seat); err != nil {
		return CallOutcome{}, err
	}
	out, err := m.Round.SubmitGrandDecision(seat, callGrand)
	if err == nil {
		m.NextSeq++
	}
	return out, err
}

// SubmitTichu records an ordinary Tichu call.
func (m *Match) SubmitTichu(seat int) (CallOutcome, error) {
	if err := m.guard(seat); err != nil {
		return CallOutcome{}, err
	}
	out, err := m.Round.SubmitTichu(seat)
	if err == nil {
		m.NextSeq++
	}
	return out, err
}

// SubmitExchange stores a seat's three outgoing exchange cards.
func (m *Match) SubmitExchange(seat int, ex Exchange) (ExchangeOutcome, error) {
	if err := m.guard(seat); err != nil {
		return ExchangeOutcome{}, err
	}
	out, err := m.Round.SubmitExchange(seat, ex)
	if err == nil {
		m.NextSeq++
	}
	return out, err
}

// SubmitPlay applies a combination from a seat's hand.
func (m *Match) SubmitPlay(seat int, cards []Card, wish Rank) (PlayOutcome, error) {
	if err := m.guard(seat); err != nil {
		return PlayOutcome{}, err
	}
	out, err := m.Round.SubmitPlay(seat, cards, wish)
	if err == nil {
		m.NextSeq++
	}
	return out, err
}

// SubmitPass passes the turn.
func (m *Match) SubmitPass(seat int) (PassOutcome, error) {
	if err := m.guard(seat); err != nil {
		return PassOutcome{}, err
	}
	out, err := m.Round.SubmitPass(seat)
	if err == nil {
		m.NextSeq++
	}
	return out, err
}

// SubmitDragonGift hands a Dragon-won pile to an opponent seat.
func (m *Match) SubmitDragonGift(seat, target int) (GiftOutcome, error) {
	if err := m.guard(seat); err != nil {
		return GiftOutcome{}, err
	}
	out, err := m.Round.SubmitDragonGift(seat, target)
	if err == nil {
		m.NextSeq++
	}
	return out, err
}

// AdvanceRound applies a scored round to the team totals, then either
// decides the match or deals the next round. A team wins by reaching the
// target while strictly ahead; a tie at or above the target plays on.
func (m *Match) AdvanceRound() (*RoundResult, error) {
	if m.Decided {
		return nil, ErrMatchAlreadyDecided
	}
	if m.Round == nil || m.Round.Phase != PhaseScoring {
		return nil, ErrWrongPhase
	}
	res := m.Round.Result
	m.Scores[0] += res.TeamDelta[0]
	m.Scores[1] += res.TeamDelta[1]
	m.Round.Phase = PhaseDone
	m.NextSeq++

	for t := 0; t < 2; t++ {
		if m.Scores[t] >= m.Target && m.Scores[t] > m.Scores[1-t] {
			m.Decided = true
			m.WinnerTeam = t
			return res, nil
		}
	}
	m.beginRound()
	return res, nil
}
