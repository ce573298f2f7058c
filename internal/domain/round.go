package domain

import "math/rand"

// RoundPhase is the lifecycle stage of a single round.
type RoundPhase string

const (
	PhaseCallPending RoundPhase = "call_pending"
	PhaseExchange    RoundPhase = "exchange"
	PhasePlaying     RoundPhase = "playing"
	PhaseScoring     RoundPhase = "scoring"
	PhaseDone        RoundPhase = "done"
)

// Call is a seat's announced wager for the round.
type Call int32

const (
	CallNone Call = iota
	CallTichu
	CallGrandTichu
)

// Exchange is a seat's three outgoing cards, one per other seat. Left is
// the next seat clockwise, partner sits across, right is the previous seat.
type Exchange struct {
	Left    Card `json:"left"`
	Partner Card `json:"partner"`
	Right   Card `json:"right"`
}

// Round holds the state of one round from deal to scoring. All mutation
// goes through the Submit methods; rejected actions leave the round
// untouched.
type Round struct {
	Phase RoundPhase `json:"phase"`

	Hands    [4][]Card `json:"hands"`
	reserves [4][]Card

	GrandDecided [4]bool      `json:"grandDecided"`
	Calls        [4]Call      `json:"calls"`
	exchanges    [4]*Exchange

	Turn        int     `json:"turn"`
	FirstLeader int     `json:"firstLeader"`
	Trick       *Trick  `json:"trick,omitempty"`
	HasPlayed   [4]bool `json:"hasPlayed"`

	WishRank        Rank `json:"wishRank"`
	PendingGiftSeat int  `json:"pendingGiftSeat"`

	// TrickPoints is the per-seat scoring ledger; a Dragon give-away moves
	// pile cards between TrickPiles but never moves points.
	TrickPoints [4]int    `json:"trickPoints"`
	TrickPiles  [4][]Card `json:"trickPiles"`

	FinishOrder []int        `json:"finishOrder"`
	Result      *RoundResult `json:"result,omitempty"`
}

// NewRound shuffles, deals the 8-card grand portion face up to each seat
// and parks the remaining 6 per seat until the Grand Tichu decisions are in.
func NewRound(rng *rand.Rand) *Round {
	r := &Round{
		Phase:           PhaseCallPending,
		Turn:            -1,
		FirstLeader:     -1,
		PendingGiftSeat: -1,
	}
	dealt := Deal(ShuffleDeck(rng, NewDeck()))
	for seat, h := range dealt {
		hand := append([]Card{}, h.First...)
		SortCards(hand)
		r.Hands[seat] = hand
		r.reserves[seat] = append([]Card{}, h.Rest...)
	}
	return r
}

// CallOutcome reports an accepted call action.
type CallOutcome struct {
	Seat          int
	Call          Call
	PhaseAdvanced bool
}

// SubmitGrandDecision records a seat's Grand Tichu call or decline. Once
// all four seats have decided, the remaining six cards are dealt and the
// round moves to the exchange.
func (r *Round) SubmitGrandDecision(seat int, callGrand bool) (CallOutcome, error) {
	if r.Phase != PhaseCallPending {
		return CallOutcome{}, ErrWrongPhase
	}
	if r.GrandDecided[seat] {
		return CallOutcome{}, ErrCallNotAllowed
	}
	r.GrandDecided[seat] = true
	if callGrand {
		r.Calls[seat] = CallGrandTichu
	}
	out := CallOutcome{Seat: seat, Call: r.Calls[seat]}
	if r.allGrandDecided() {
		for s := 0; s < 4; s++ {
			r.Hands[s] = append(r.Hands[s], r.reserves[s]...)
			SortCards(r.Hands[s])
			r.reserves[s] = nil
		}
		r.Phase = PhaseExchange
		out.PhaseAdvanced = true
	}
	return out, nil
}

func (r *Round) allGrandDecided() bool {
	for _, d := range r.GrandDecided {
		if !d {
			return false
		}
	}
	return true
}

// SubmitTichu records an ordinary Tichu call. The window is open from the
// exchange until the seat plays its first card.
func (r *Round) SubmitTichu(seat int) (CallOutcome, error) {
	switch r.Phase {
	case PhaseExchange, PhasePlaying:
	case PhaseCallPending:
		return CallOutcome{}, ErrCallNotAllowed
	default:
		return CallOutcome{}, ErrWrongPhase
	}
	if r.Calls[seat] != CallNone || r.HasPlayed[seat] {
		return CallOutcome{}, ErrCallNotAllowed
	}
	r.Calls[seat] = CallTichu
	return CallOutcome{Seat: seat, Call: CallTichu}, nil
}

// ExchangeOutcome reports an accepted exchange submission. Revealed is set
// on the fourth submission, after all hands have been rebuilt.
type ExchangeOutcome struct {
	Seat        int
	Revealed    bool
	FirstLeader int
}

// SubmitExchange stores a seat's three outgoing cards. The twelve transfers
// apply atomically once every seat has submitted; the Mahjong holder after
// the exchange leads the first trick.
func (r *Round) SubmitExchange(seat int, ex Exchange) (ExchangeOutcome, error) {
	if r.Phase != PhaseExchange {
		return ExchangeOutcome{}, ErrWrongPhase
	}
	if r.exchanges[seat] != nil {
		return ExchangeOutcome{}, ErrWrongPhase
	}
	outgoing := []Card{ex.Left, ex.Partner, ex.Right}
	if ex.Left == ex.Partner || ex.Left == ex.Right || ex.Partner == ex.Right {
		return ExchangeOutcome{}, ErrIncompleteExchange
	}
	if !ContainsAll(r.Hands[seat], outgoing) {
		return ExchangeOutcome{}, ErrIncompleteExchange
	}
	r.exchanges[seat] = &ex

	out := ExchangeOutcome{Seat: seat, FirstLeader: -1}
	for s := 0; s < 4; s++ {
		if r.exchanges[s] == nil {
			return out, nil
		}
	}

	for s := 0; s < 4; s++ {
		e := r.exchanges[s]
		r.Hands[s] = RemoveCards(r.Hands[s], []Card{e.Left, e.Partner, e.Right})
	}
	for s := 0; s < 4; s++ {
		e := r.exchanges[s]
		r.Hands[(s+1)%4] = append(r.Hands[(s+1)%4], e.Left)
		r.Hands[(s+2)%4] = append(r.Hands[(s+2)%4], e.Partner)
		r.Hands[(s+3)%4] = append(r.Hands[(s+3)%4], e.Right)
	}
	for s := 0; s < 4; s++ {
		SortCards(r.Hands[s])
		if containsCard(r.Hands[s], Mahjong) {
			r.FirstLeader = s
		}
	}
	r.Phase = PhasePlaying
	r.Turn = r.FirstLeader
	out.Revealed = true
	out.FirstLeader = r.FirstLeader
	return out, nil
}

// ReceivedCards returns the three cards a seat was handed in the exchange,
// in giver order. Only meaningful once the exchange has been revealed.
func (r *Round) ReceivedCards(seat int) []Card {
	var got []Card
	for s := 0; s < 4; s++ {
		e := r.exchanges[s]
		if e == nil || s == seat {
			continue
		}
		switch (seat - s + 4) % 4 {
		case 1:
			got = append(got, e.Left)
		case 2:
			got = append(got, e.Partner)
		case 3:
			got = append(got, e.Right)
		}
	}
	return got
}

// PlayOutcome reports an accepted play.
type PlayOutcome struct {
	Seat        int
	Combo       Combination
	DogLead     bool
	WishNamed   Rank
	WishCleared bool
	Finished    bool
	RoundOver   bool
	DoubleWin   bool
	NextTurn    int
}

// SubmitPlay validates and applies a combination from a seat's hand. A wish
// may only accompany a play containing the Mahjong.
func (r *Round) SubmitPlay(seat int, cards []Card, wish Rank) (PlayOutcome, error) {
	if r.Phase != PhasePlaying {
		return PlayOutcome{}, ErrWrongPhase
	}
	if r.PendingGiftSeat >= 0 {
		return PlayOutcome{}, ErrGiftPending
	}
	if seat != r.Turn {
		return PlayOutcome{}, ErrOutOfTurn
	}
	if !ContainsAll(r.Hands[seat], cards) {
		return PlayOutcome{}, ErrNotInHand
	}
	combo, err := Classify(cards)
	if err != nil {
		return PlayOutcome{}, err
	}
	if wish != 0 {
		if wish < 2 || wish > RankAce || !containsCard(cards, Mahjong) {
			return PlayOutcome{}, ErrInvalidWish
		}
	}

	if combo.Type == Single && combo.Cards[0] == Dog {
		return r.playDog(seat)
	}

	var toBeat *Combination
	if r.Trick != nil {
		toBeat = r.Trick.Winning
		if err := followErr(*toBeat, combo); err != nil {
			return PlayOutcome{}, err
		}
	}
	if r.WishRank != 0 && !ContainsRank(cards, r.WishRank) &&
		CanSatisfyWish(r.Hands[seat], toBeat, r.WishRank) {
		return PlayOutcome{}, ErrWishUnmet
	}

	r.Hands[seat] = RemoveCards(r.Hands[seat], cards)
	if r.Trick == nil {
		r.Trick = NewTrick(seat)
	}
	r.Trick.Apply(seat, combo)
	r.HasPlayed[seat] = true

	out := PlayOutcome{Seat: seat, Combo: combo, NextTurn: -1}
	if r.WishRank != 0 && ContainsRank(cards, r.WishRank) {
		r.WishRank = 0
		out.WishCleared = true
	}
	if wish != 0 {
		r.WishRank = wish
		out.WishNamed = wish
	}

	if len(r.Hands[seat]) == 0 {
		r.FinishOrder = append(r.FinishOrder, seat)
		out.Finished = true
	}
	if done, double := r.roundOver(); done {
		r.finishRound(double)
		out.RoundOver = true
		out.DoubleWin = double
		return out, nil
	}

	r.Turn = r.nextHolder(seat)
	out.NextTurn = r.Turn
	return out, nil
}

// playDog hands the lead to the partner. The Dog forms no trick and is
// worth nothing; it goes to the leader's own pile.
func (r *Round) playDog(seat int) (PlayOutcome, error) {
	if r.Trick != nil {
		return PlayOutcome{}, ErrDoesNotBeat
	}
	if r.WishRank != 0 && CanSatisfyWish(r.Hands[seat], nil, r.WishRank) {
		return PlayOutcome{}, ErrWishUnmet
	}

	r.Hands[seat] = RemoveCards(r.Hands[seat], []Card{Dog})
	r.TrickPiles[seat] = append(r.TrickPiles[seat], Dog)
	r.HasPlayed[seat] = true

	out := PlayOutcome{Seat: seat, DogLead: true, NextTurn: -1}
	out.Combo, _ = Classify([]Card{Dog})
	if len(r.Hands[seat]) == 0 {
		r.FinishOrder = append(r.FinishOrder, seat)
		out.Finished = true
	}
	if done, double := r.roundOver(); done {
		r.finishRound(double)
		out.RoundOver = true
		out.DoubleWin = double
		return out, nil
	}

	if partner := partnerOf(seat); len(r.Hands[partner]) > 0 {
		r.Turn = partner
	} else {
		r.Turn = r.nextHolder(partner)
	}
	out.NextTurn = r.Turn
	return out, nil
}

// followErr distinguishes a shape mismatch from an insufficient value when
// answering the current winning play.
func followErr(toBeat, next Combination) error {
	if next.Type.IsBomb() {
		if !Beats(toBeat, next) {
			return ErrDoesNotBeat
		}
		return nil
	}
	if toBeat.Type.IsBomb() {
		return ErrDoesNotBeat
	}
	if next.Type != toBeat.Type || next.Count != toBeat.Count {
		return ErrCombinationMismatch
	}
	if !Beats(toBeat, next) {
		return ErrDoesNotBeat
	}
	return nil
}

// PassOutcome reports an accepted pass.
type PassOutcome struct {
	Seat         int
	TrickWon     bool
	TrickWinner  int
	TrickPoints  int
	GiftRequired bool
	NextTurn     int
}

// SubmitPass moves the turn on. When the turn would return to the winning
// seat, the trick completes and the winner collects or, on a Dragon win,
// must give the pile away.
func (r *Round) SubmitPass(seat int) (PassOutcome, error) {
	if r.Phase != PhasePlaying {
		return PassOutcome{}, ErrWrongPhase
	}
	if r.PendingGiftSeat >= 0 {
		return PassOutcome{}, ErrGiftPending
	}
	if seat != r.Turn {
		return PassOutcome{}, ErrOutOfTurn
	}
	if r.Trick == nil {
		return PassOutcome{}, ErrMustLead
	}
	if r.WishRank != 0 && CanSatisfyWish(r.Hands[seat], r.Trick.Winning, r.WishRank) {
		return PassOutcome{}, ErrWishUnmet
	}

	out := PassOutcome{Seat: seat, TrickWinner: -1}
	for step := (seat + 1) % 4; ; step = (step + 1) % 4 {
		if step == r.Trick.WinningSeat {
			winner, points, gift := r.completeTrick()
			out.TrickWon = true
			out.TrickWinner = winner
			out.TrickPoints = points
			out.GiftRequired = gift
			break
		}
		if len(r.Hands[step]) > 0 {
			r.Turn = step
			break
		}
	}
	out.NextTurn = r.Turn
	return out, nil
}

// completeTrick credits the pile to the winning seat. Points always go to
// the winner; on a Dragon win the cards stay parked until the give-away.
func (r *Round) completeTrick() (winner, points int, gift bool) {
	winner = r.Trick.WinningSeat
	points = r.Trick.Value()
	r.TrickPoints[winner] += points
	if r.Trick.WonByDragon() {
		r.PendingGiftSeat = winner
		r.Turn = winner
		return winner, points, true
	}
	r.TrickPiles[winner] = append(r.TrickPiles[winner], r.Trick.Cards()...)
	r.Trick = nil
	r.Turn = r.leaderAfter(winner)
	return winner, points, false
}

// GiftOutcome reports a completed Dragon give-away.
type GiftOutcome struct {
	From     int
	To       int
	Cards    []Card
	NextTurn int
}

// SubmitDragonGift hands a Dragon-won pile's cards to an opponent seat.
// The points were already credited to the winner when the trick closed.
func (r *Round) SubmitDragonGift(seat, target int) (GiftOutcome, error) {
	if r.Phase != PhasePlaying || r.PendingGiftSeat < 0 {
		return GiftOutcome{}, ErrWrongPhase
	}
	if seat != r.PendingGiftSeat {
		return GiftOutcome{}, ErrOutOfTurn
	}
	if target < 0 || target > 3 || teamOf(target) == teamOf(seat) {
		return GiftOutcome{}, ErrInvalidGiftTarget
	}

	cards := r.Trick.Cards()
	r.TrickPiles[target] = append(r.TrickPiles[target], cards...)
	r.Trick = nil
	r.PendingGiftSeat = -1
	r.Turn = r.leaderAfter(seat)
	return GiftOutcome{From: seat, To: target, Cards: cards, NextTurn: r.Turn}, nil
}

// leaderAfter returns the seat to lead the next trick: the winner, or the
// next seat clockwise still holding cards if the winner is out.
func (r *Round) leaderAfter(winner int) int {
	if len(r.Hands[winner]) > 0 {
		return winner
	}
	return r.nextHolder(winner)
}

// nextHolder returns the first seat clockwise after from that still holds
// cards.
func (r *Round) nextHolder(from int) int {
	for i := 1; i <= 4; i++ {
		s := (from + i) % 4
		if len(r.Hands[s]) > 0 {
			return s
		}
	}
	return from
}

// roundOver reports whether the round just ended and whether it ended as a
// double win. A double win is the first two finishers being partners; the
// normal end is the third seat emptying its hand.
func (r *Round) roundOver() (over, double bool) {
	if len(r.FinishOrder) == 2 && teamOf(r.FinishOrder[0]) == teamOf(r.FinishOrder[1]) {
		return true, true
	}
	return len(r.FinishOrder) == 3, false
}

// finishRound settles the in-progress trick, computes the result and moves
// the round to scoring. An open Dragon-won trick is auto-gifted to the
// winner's next opponent; only the cards move.
func (r *Round) finishRound(double bool) {
	if r.Trick != nil {
		winner := r.Trick.WinningSeat
		r.TrickPoints[winner] += r.Trick.Value()
		pileTo := winner
		if r.Trick.WonByDragon() {
			pileTo = (winner + 1) % 4
		}
		r.TrickPiles[pileTo] = append(r.TrickPiles[pileTo], r.Trick.Cards()...)
		r.Trick = nil
	}
	r.PendingGiftSeat = -1
	r.WishRank = 0
	r.Turn = -1
	r.Result = settleRound(r, double)
	r.Phase = PhaseScoring
}

func teamOf(seat int) int {
	return seat % 2
}

func partnerOf(seat int) int {
	return (seat + 2) % 4
}
