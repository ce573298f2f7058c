package bot

import (
	"sort"

	"tichu/internal/app"
	"tichu/internal/bot/brain"
	botinternal "tichu/internal/bot/internal"
	"tichu/internal/domain"
)

// bossSingleBonus nudges the smart brain toward leading singles the memory
// knows nothing unseen can beat.
const bossSingleBonus = 12.0

// SmartBrain scores candidate moves with phase-aware weights and keeps a
// card memory fed by the public event stream.
type SmartBrain struct {
	memory    *brain.CardMemory
	estimator *brain.Estimator
	tuning    botinternal.BotTuning

	// sentCards is the exchange chosen before the seat number is known; it
	// is folded into the memory on the first move.
	sentCards *domain.Exchange
}

func NewSmartBrain() *SmartBrain {
	m := brain.NewMemory()
	return &SmartBrain{
		memory:    m,
		estimator: brain.NewEstimator(m),
		tuning:    smartBrainTuning,
	}
}

func (b *SmartBrain) DecideGrand(hand []domain.Card) bool {
	return botinternal.GrandWorthy(hand)
}

func (b *SmartBrain) DecideTichu(hand []domain.Card) bool {
	if !botinternal.TichuWorthy(hand) {
		return false
	}
	// A structurally strong hand still folds against what is unseen.
	return b.estimator.Dominance(hand) > 0.5
}

// ChooseExchange ships the two lowest cards to the opponents and a solid
// card to the partner: the highest card that is not an anchor of the kept
// hand.
func (b *SmartBrain) ChooseExchange(hand []domain.Card) domain.Exchange {
	sorted := append([]domain.Card{}, hand...)
	domain.SortCards(sorted)

	forPartner := sorted[2]
	for i := len(sorted) - 1; i >= 2; i-- {
		c := sorted[i]
		if c == domain.Dragon || c == domain.Phoenix || c.Rank == domain.RankAce {
			continue
		}
		if c.Rank >= domain.RankJack {
			forPartner = c
		}
		break
	}

	exch := domain.Exchange{
		Left:    sorted[0],
		Right:   sorted[1],
		Partner: forPartner,
	}
	b.sentCards = &exch
	return exch
}

func (b *SmartBrain) CalculateMove(round *domain.Round, seat int) (Move, error) {
	hand := round.Hands[seat]
	if len(hand) == 0 {
		return Move{Pass: true}, nil
	}

	if b.sentCards != nil {
		b.memory.MarkPassed((seat+1)%4, b.sentCards.Left)
		b.memory.MarkPassed(domain.PartnerOf(seat), b.sentCards.Partner)
		b.memory.MarkPassed((seat+3)%4, b.sentCards.Right)
		b.sentCards = nil
	}

	toBeat := currentToBeat(round)
	wishForced := domain.CanSatisfyWish(hand, toBeat, round.WishRank)

	moves := domain.LegalMoves(hand, toBeat, round.WishRank)
	if len(moves) == 0 {
		return Move{Pass: true}, nil
	}

	phase := botinternal.DetectPhase(round)
	weights := b.tuning.ForPhase(phase)
	threat := botinternal.DetectThreat(round, seat, b.tuning.ThreatThreshold)

	trickPoints := 0
	if round.Trick != nil {
		trickPoints = round.Trick.Value()
	}

	scored := botinternal.BuildScoredMoves(hand, moves, weights, threat, trickPoints)
	for i := range scored {
		combo := scored[i].Combo
		if combo.Type == domain.Single {
			scored[i].Score += bossSingleBonus * b.estimator.WinBackProbability(combo.Cards[0])
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		// Save higher cards when scores are equal.
		return scored[i].Combo.Value < scored[j].Combo.Value
	})

	best := scored[0]
	if toBeat != nil && !wishForced {
		// Passing keeps the hand intact; only play when the best move
		// clears the hold-back threshold or the pile is worth taking.
		if round.Trick.WinningSeat == domain.PartnerOf(seat) && !threat {
			return Move{Pass: true}, nil
		}
		currentScore := botinternal.ScoreHand(hand, weights)
		if best.Score < currentScore+b.tuning.PassThreshold {
			return Move{Pass: true}, nil
		}
	}

	move := Move{Cards: best.Combo.Cards}
	if containsMahjong(best.Combo.Cards) {
		move.Wish = highestMissingRank(best.Remaining)
	}
	return move, nil
}

// ChooseGiftTarget avoids feeding a Tichu caller; otherwise it picks the
// opponent farther from going out.
func (b *SmartBrain) ChooseGiftTarget(round *domain.Round, seat int) int {
	left := (seat + 1) % 4
	right := (seat + 3) % 4

	leftCalled := round.Calls[left] != domain.CallNone
	rightCalled := round.Calls[right] != domain.CallNone
	if leftCalled && !rightCalled {
		return right
	}
	if rightCalled && !leftCalled {
		return left
	}

	if len(round.Hands[right]) > len(round.Hands[left]) {
		return right
	}
	return left
}

// OnEvent feeds the card memory from the public event stream plus the
// seat-private deals.
func (b *SmartBrain) OnEvent(event interface{}) {
	switch e := event.(type) {
	case app.RoundStartedPayload:
		b.memory.Reset()
	case app.HandDealtPayload:
		b.memory.MarkMine(e.Cards)
	case app.ExchangeCompletedPayload:
		// Received cards show up in the next HandDealt; nothing extra here.
	case app.CardsPlayedPayload:
		b.memory.MarkPlayed(e.Cards)
	case app.DragonGivenPayload:
		b.memory.MarkPlayed(e.Cards)
	}
}

// highestMissingRank wishes the highest natural rank absent from the
// remaining hand, squeezing high cards out of the other seats.
func highestMissingRank(remaining []domain.Card) domain.Rank {
	for r := domain.RankAce; r >= 2; r-- {
		if !domain.ContainsRank(remaining, r) {
			return r
		}
	}
	return domain.Rank(2)
}
