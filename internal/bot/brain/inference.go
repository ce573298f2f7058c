package brain

import (
	"tichu/internal/domain"
)

// Estimator answers strength questions over what the memory has seen.
type Estimator struct {
	Memory *CardMemory
}

// NewEstimator creates a reasoning engine on top of a memory.
func NewEstimator(m *CardMemory) *Estimator {
	return &Estimator{Memory: m}
}

// BossSingles returns the cards in hand that, led as a single, no unseen
// card can beat.
func (e *Estimator) BossSingles(hand []domain.Card) []domain.Card {
	var boss []domain.Card
	for _, c := range hand {
		if c == domain.Dog || c == domain.Mahjong {
			continue
		}
		if e.Memory.IsBossSingle(c) {
			boss = append(boss, c)
		}
	}
	return boss
}

// WinBackProbability estimates the chance that leading this card as a
// single eventually wins the trick back.
func (e *Estimator) WinBackProbability(c domain.Card) float64 {
	if c == domain.Dog {
		return 0.0
	}
	if e.Memory.IsBossSingle(c) {
		return 1.0
	}

	higherUnseen := 0
	if e.Memory.Status(domain.Dragon) == StatusUnknown {
		higherUnseen++
	}
	if c != domain.Phoenix && e.Memory.Status(domain.Phoenix) == StatusUnknown {
		higherUnseen++
	}
	for rank := c.Rank + 1; rank <= domain.RankAce; rank++ {
		for suit := domain.Black; suit <= domain.Green; suit++ {
			if e.Memory.Status(domain.Card{Suit: suit, Rank: rank}) == StatusUnknown {
				higherUnseen++
			}
		}
	}
	if higherUnseen == 0 {
		return 1.0
	}
	return 1.0 / float64(higherUnseen+1)
}

// Dominance scores the hand's rank strength against everything still
// unseen, as 0.0 to 1.0. Used to decide whether holding back bombs or
// pushing for a Tichu finish is plausible.
func (e *Estimator) Dominance(hand []domain.Card) float64 {
	if len(hand) == 0 {
		return 0.0
	}

	handPower := 0.0
	for _, c := range hand {
		handPower += float64(c.Rank)
	}
	avgHand := handPower / float64(len(hand))

	unseenPower := 0.0
	unseen := 0
	for _, c := range domain.NewDeck() {
		if e.Memory.Status(c) == StatusUnknown {
			unseenPower += float64(c.Rank)
			unseen++
		}
	}
	if unseen == 0 {
		return 1.0
	}
	avgUnseen := unseenPower / float64(unseen)
	return avgHand / (avgHand + avgUnseen)
}
