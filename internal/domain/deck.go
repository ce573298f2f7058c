package domain

import "math/rand"

// HandSize is the full per-seat deal; the first GrandDealSize cards are
// visible during the Grand Tichu window, the rest arrive once all four
// seats have decided.
const (
	HandSize      = 14
	GrandDealSize = 8
)

// NewDeck returns the full 56-card deck in sorted order: 52 suited cards
// plus Dog, Mahjong, Phoenix and Dragon.
func NewDeck() []Card {
	deck := make([]Card, 0, 56)
	deck = append(deck, Dog, Mahjong)
	for r := Rank(2); r <= RankAce; r++ {
		for s := Black; s <= Green; s++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	deck = append(deck, Phoenix, Dragon)
	return deck
}

// ShuffleDeck returns a shuffled copy of the given deck using the supplied
// source so deals stay reproducible under a fixed seed.
func ShuffleDeck(rng *rand.Rand, deck []Card) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// DealtHand is one seat's share of a deal, split into the 8 cards shown
// before the Grand Tichu decision and the 6 held back until after it.
type DealtHand struct {
	First []Card `json:"first"`
	Rest  []Card `json:"rest"`
}

// Deal splits a 56-card deck into four hands of 8+6. Seat 0 is served
// first, matching the fixed deal rotation.
func Deal(deck []Card) [4]DealtHand {
	var hands [4]DealtHand
	for seat := 0; seat < 4; seat++ {
		first := deck[seat*GrandDealSize : (seat+1)*GrandDealSize]
		hands[seat].First = append([]Card{}, first...)
	}
	restSize := HandSize - GrandDealSize
	base := 4 * GrandDealSize
	for seat := 0; seat < 4; seat++ {
		rest := deck[base+seat*restSize : base+(seat+1)*restSize]
		hands[seat].Rest = append([]Card{}, rest...)
	}
	return hands
}
