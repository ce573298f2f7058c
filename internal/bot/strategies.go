package bot

import (
	"sort"

	botinternal "tichu/internal/bot/internal"
	"tichu/internal/domain"
)

// StandardBrain is the conservative baseline. It never calls, ships its
// lowest cards in the exchange and bleeds small cards while covering its
// partner. Timed-out human seats are played with this brain.
type StandardBrain struct{}

func (b *StandardBrain) DecideGrand(hand []domain.Card) bool { return false }

func (b *StandardBrain) DecideTichu(hand []domain.Card) bool { return false }

// ChooseExchange ships the three lowest cards, keeping the best of the
// three for the partner.
func (b *StandardBrain) ChooseExchange(hand []domain.Card) domain.Exchange {
	lowest := lowestCards(hand, 3)
	// lowest is sorted ascending, so the last one goes across the table.
	return domain.Exchange{
		Left:    lowest[0],
		Right:   lowest[1],
		Partner: lowest[2],
	}
}

func (b *StandardBrain) CalculateMove(round *domain.Round, seat int) (Move, error) {
	hand := round.Hands[seat]
	if len(hand) == 0 {
		return Move{Pass: true}, nil
	}

	toBeat := currentToBeat(round)
	wishForced := domain.CanSatisfyWish(hand, toBeat, round.WishRank)

	// Following a winning partner is never worth a card unless the wish
	// forces one out.
	if toBeat != nil && round.Trick.WinningSeat == domain.PartnerOf(seat) && !wishForced {
		return Move{Pass: true}, nil
	}

	moves := domain.LegalMoves(hand, toBeat, round.WishRank)
	if len(moves) == 0 {
		return Move{Pass: true}, nil
	}

	candidates := withoutBombs(moves)
	if len(candidates) == 0 {
		if toBeat != nil && !wishForced && !bombWorthwhile(round) {
			// Only bombs would beat the pile, and it is too thin to buy.
			return Move{Pass: true}, nil
		}
		candidates = moves
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Value != candidates[j].Value {
			return candidates[i].Value < candidates[j].Value
		}
		// Equal strength: dump more cards.
		return candidates[i].Count > candidates[j].Count
	})

	pick := candidates[0]
	move := Move{Cards: pick.Cards}
	if containsMahjong(pick.Cards) {
		move.Wish = lowestMissingRank(domain.RemoveCards(hand, pick.Cards))
	}
	return move, nil
}

// ChooseGiftTarget hands the Dragon trick to the opponent farther from
// going out.
func (b *StandardBrain) ChooseGiftTarget(round *domain.Round, seat int) int {
	left := (seat + 1) % 4
	right := (seat + 3) % 4
	if len(round.Hands[right]) > len(round.Hands[left]) {
		return right
	}
	return left
}

func (b *StandardBrain) OnEvent(event interface{}) {}

// bombWorthwhile weighs a bomb against the points sitting on the trick using
// the default tuning for the current phase.
func bombWorthwhile(round *domain.Round) bool {
	weights := DefaultTuning.ForPhase(botinternal.DetectPhase(round))
	points := 0
	if round.Trick != nil {
		points = round.Trick.Value()
	}
	return weights.PointCaptureWeight*float64(points) > weights.UseBombPenalty
}

// currentToBeat returns the combination a follower must beat, or nil when
// the seat is leading a fresh trick.
func currentToBeat(round *domain.Round) *domain.Combination {
	if round.Trick == nil || round.Trick.Winning == nil {
		return nil
	}
	return round.Trick.Winning
}

func withoutBombs(moves []domain.Combination) []domain.Combination {
	var out []domain.Combination
	for _, m := range moves {
		if !m.Type.IsBomb() {
			out = append(out, m)
		}
	}
	return out
}

func containsMahjong(cards []domain.Card) bool {
	for _, c := range cards {
		if c == domain.Mahjong {
			return true
		}
	}
	return false
}

// lowestCards returns the n lowest cards of the hand, ascending. The Dog is
// pushed out first; it is worth less than anything to the holder.
func lowestCards(hand []domain.Card, n int) []domain.Card {
	sorted := append([]domain.Card{}, hand...)
	domain.SortCards(sorted)
	if len(sorted) < n {
		return sorted
	}
	return sorted[:n]
}

// lowestMissingRank picks the lowest natural rank absent from the remaining
// hand, so the wish never boomerangs onto the wisher.
func lowestMissingRank(remaining []domain.Card) domain.Rank {
	for r := domain.Rank(2); r <= domain.RankAce; r++ {
		if !domain.ContainsRank(remaining, r) {
			return r
		}
	}
	return domain.RankAce
}
