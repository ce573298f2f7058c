package domain

import (
	"fmt"
	"sort"
)

// Suit identifies one of the four Tichu colors. The special cards carry no
// suit and use SuitNone.
type Suit int32

const (
	SuitNone Suit = iota
	Black
	Blue
	Red
	Green
)

// Rank encodes the play-order value of a card. Naturals occupy 2..14
// (2..10, J=11, Q=12, K=13, A=14); the specials sit at the edges so that
// sorting a hand puts the Dog first and the Dragon last.
type Rank int32

const (
	RankDog     Rank = 0
	RankMahjong Rank = 1
	RankJack    Rank = 11
	RankQueen   Rank = 12
	RankKing    Rank = 13
	RankAce     Rank = 14
	RankPhoenix Rank = 15
	RankDragon  Rank = 16
)

// Card is one of the 56 cards of a Tichu deck. Immutable value; compared by
// value everywhere.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// The four specials exist exactly once per deck.
var (
	Dog     = Card{Suit: SuitNone, Rank: RankDog}
	Mahjong = Card{Suit: SuitNone, Rank: RankMahjong}
	Phoenix = Card{Suit: SuitNone, Rank: RankPhoenix}
	Dragon  = Card{Suit: SuitNone, Rank: RankDragon}
)

// IsSpecial reports whether c is one of Dog, Mahjong, Phoenix or Dragon.
func (c Card) IsSpecial() bool {
	return c.Suit == SuitNone
}

// IsNatural reports whether c is a suited card of rank 2..14.
func (c Card) IsNatural() bool {
	return c.Suit != SuitNone && c.Rank >= 2 && c.Rank <= RankAce
}

// Points returns the scoring value of the card inside a trick pile:
// fives are 5, tens and kings are 10, the Dragon is 25 and the Phoenix -25.
func (c Card) Points() int {
	switch c.Rank {
	case 5:
		return 5
	case 10, RankKing:
		return 10
	case RankDragon:
		return 25
	case RankPhoenix:
		return -25
	}
	return 0
}

var suitLetters = [...]string{"-", "B", "U", "R", "G"}

func (c Card) String() string {
	switch c.Rank {
	case RankDog:
		return "Dog"
	case RankMahjong:
		return "Mahjong"
	case RankPhoenix:
		return "Phoenix"
	case RankDragon:
		return "Dragon"
	}
	return fmt.Sprintf("%s%d", suitLetters[c.Suit], c.Rank)
}

// cardOrder is the total sort order over the deck: Dog < Mahjong <
// naturals by rank < Phoenix < Dragon, suit breaking ties.
func cardOrder(c Card) int32 {
	return int32(c.Rank)*5 + int32(c.Suit)
}

// SortCards orders cards ascending by cardOrder, in place.
func SortCards(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		return cardOrder(cards[i]) < cardOrder(cards[j])
	})
}

// PileValue sums the scoring points of a pile of cards.
func PileValue(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.Points()
	}
	return total
}

// RemoveCards removes the played cards from a hand with multiset semantics
// and returns the remainder.
func RemoveCards(hand []Card, played []Card) []Card {
	out := append([]Card{}, hand...)
	for _, pc := range played {
		for i := 0; i < len(out); i++ {
			if out[i] == pc {
				out = append(out[:i], out[i+1:]...)
				break
			}
		}
	}
	return out
}

// ContainsAll reports whether hand holds every card of cards, counting
// duplicates. A payload repeating the same card twice does not pass.
func ContainsAll(hand []Card, cards []Card) bool {
	remaining := append([]Card{}, hand...)
	for _, c := range cards {
		found := false
		for i := range remaining {
			if remaining[i] == c {
				remaining = append(remaining[:i], remaining[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ContainsRank reports whether any natural card of the given rank is present.
func ContainsRank(cards []Card, rank Rank) bool {
	for _, c := range cards {
		if c.IsNatural() && c.Rank == rank {
			return true
		}
	}
	return false
}

func containsCard(cards []Card, card Card) bool {
	for _, c := range cards {
		if c == card {
			return true
		}
	}
	return false
}
