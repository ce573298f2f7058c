package domain

// TrickPlay is one accepted combination within a trick.
type TrickPlay struct {
	Seat  int         `json:"seat"`
	Combo Combination `json:"combo"`
}

// Trick is the pile currently being fought over. The winning play is the
// last accepted one; passes are not recorded here.
type Trick struct {
	Leader      int          `json:"leader"`
	Plays       []TrickPlay  `json:"plays"`
	WinningSeat int          `json:"winningSeat"`
	Winning     *Combination `json:"winning,omitempty"`
}

func NewTrick(leader int) *Trick {
	return &Trick{Leader: leader, WinningSeat: -1}
}

// Apply records an already-validated play. A Phoenix single lands half a
// rank above the play it beat, so its stored value is lifted before the
// next comparison reads it.
func (t *Trick) Apply(seat int, combo Combination) {
	if combo.Type == Single && containsCard(combo.Cards, Phoenix) && t.Winning != nil {
		combo.Value = t.Winning.Value + 1
	}
	t.Plays = append(t.Plays, TrickPlay{Seat: seat, Combo: combo})
	t.WinningSeat = seat
	t.Winning = &combo
}

// Cards returns every card played into the trick so far.
func (t *Trick) Cards() []Card {
	var cards []Card
	for _, p := range t.Plays {
		cards = append(cards, p.Combo.Cards...)
	}
	return cards
}

// Value is the point value of the trick pile.
func (t *Trick) Value() int {
	return PileValue(t.Cards())
}

// WonByDragon reports whether the current winning play is the Dragon, which
// obliges the winner to hand the pile cards to an opponent.
func (t *Trick) WonByDragon() bool {
	return t.Winning != nil && containsCard(t.Winning.Cards, Dragon)
}
