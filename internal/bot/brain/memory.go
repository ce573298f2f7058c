package brain

import (
	"tichu/internal/domain"
)

// CardStatus represents what the bot knows about a specific card.
type CardStatus int

const (
	StatusUnknown CardStatus = iota // somewhere in an opponent's or partner's hand
	StatusMine                      // in the bot's hand
	StatusPlayed                    // already on the table
)

// deckSize covers the 52 suited cards plus Dog, Mahjong, Phoenix, Dragon.
const deckSize = 56

// CardMemory stores the bot's private view of the round: which of the 56
// cards it holds, which have been played, and what it learned from the
// exchange.
type CardMemory struct {
	status [deckSize]CardStatus
	// passed remembers who was given which card in the exchange, by seat.
	passed map[int][]domain.Card
}

// NewMemory initializes a fresh memory state.
func NewMemory() *CardMemory {
	return &CardMemory{passed: make(map[int][]domain.Card)}
}

// Reset clears the memory for a new round.
func (m *CardMemory) Reset() {
	for i := range m.status {
		m.status[i] = StatusUnknown
	}
	m.passed = make(map[int][]domain.Card)
}

// MarkMine records the cards currently in the bot's hand.
func (m *CardMemory) MarkMine(cards []domain.Card) {
	// Revert stale Mine entries first; the hand is the source of truth.
	for i, status := range m.status {
		if status == StatusMine {
			m.status[i] = StatusUnknown
		}
	}
	for _, c := range cards {
		m.status[cardIndex(c)] = StatusMine
	}
}

// MarkPlayed records cards that landed on the table.
func (m *CardMemory) MarkPlayed(cards []domain.Card) {
	for _, c := range cards {
		m.status[cardIndex(c)] = StatusPlayed
	}
}

// MarkPassed remembers a card handed to a specific seat in the exchange.
// The card is known to sit in that hand until it shows up on the table.
func (m *CardMemory) MarkPassed(seat int, card domain.Card) {
	m.passed[seat] = append(m.passed[seat], card)
}

// KnownHeld returns the cards known to be in the given seat's hand.
func (m *CardMemory) KnownHeld(seat int) []domain.Card {
	var held []domain.Card
	for _, c := range m.passed[seat] {
		if m.status[cardIndex(c)] == StatusUnknown {
			held = append(held, c)
		}
	}
	return held
}

// Status reports what the memory knows about one card.
func (m *CardMemory) Status(c domain.Card) CardStatus {
	return m.status[cardIndex(c)]
}

// UnseenCount returns how many cards are neither mine nor played.
func (m *CardMemory) UnseenCount() int {
	n := 0
	for _, status := range m.status {
		if status == StatusUnknown {
			n++
		}
	}
	return n
}

// IsBossSingle reports whether the card, played as a single, cannot be
// beaten by any unseen card. The Dragon always is; anything else loses to
// an unseen Dragon or Phoenix, and a natural loses to any unseen higher
// rank.
func (m *CardMemory) IsBossSingle(c domain.Card) bool {
	if c == domain.Dragon {
		return true
	}
	if m.status[cardIndex(domain.Dragon)] == StatusUnknown {
		return false
	}
	if c == domain.Phoenix {
		return true
	}
	if m.status[cardIndex(domain.Phoenix)] == StatusUnknown {
		return false
	}
	for rank := c.Rank + 1; rank <= domain.RankAce; rank++ {
		for suit := domain.Black; suit <= domain.Green; suit++ {
			if m.status[cardIndex(domain.Card{Suit: suit, Rank: rank})] == StatusUnknown {
				return false
			}
		}
	}
	return true
}

// cardIndex maps every card of the deck to a stable slot: Dog 0, Mahjong 1,
// naturals 2..53, Phoenix 54, Dragon 55.
func cardIndex(c domain.Card) int {
	switch c {
	case domain.Dog:
		return 0
	case domain.Mahjong:
		return 1
	case domain.Phoenix:
		return 54
	case domain.Dragon:
		return 55
	}
	return 2 + int(c.Rank-2)*4 + int(c.Suit-domain.Black)
}
