package domain

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		cards     []Card
		wantType  CombinationType
		wantValue int32
	}{
		{"single natural", []Card{{Black, 8}}, Single, 16},
		{"single mahjong", []Card{Mahjong}, Single, 2},
		{"single dog", []Card{Dog}, Single, 0},
		{"single phoenix", []Card{Phoenix}, Single, 3},
		{"single dragon", []Card{Dragon}, Single, 32},

		{"pair", []Card{{Black, 8}, {Red, 8}}, Pair, 8},
		{"pair with phoenix", []Card{{Black, 8}, Phoenix}, Pair, 8},
		{"mismatched pair", []Card{{Black, 8}, {Red, 9}}, Invalid, 0},

		{"triple", []Card{{Black, 8}, {Red, 8}, {Blue, 8}}, Triple, 8},
		{"triple with phoenix", []Card{{Black, 8}, {Red, 8}, Phoenix}, Triple, 8},

		{"full house", []Card{{Black, 8}, {Red, 8}, {Blue, 8}, {Black, 5}, {Red, 5}}, FullHouse, 8},
		{"full house phoenix completes pair", []Card{{Black, 8}, {Red, 8}, {Blue, 8}, {Black, 5}, Phoenix}, FullHouse, 8},
		{"full house phoenix joins lower triple", []Card{{Black, 5}, {Red, 5}, {Blue, 5}, {Black, 8}, Phoenix}, FullHouse, 5},
		{"full house phoenix picks higher pair", []Card{{Black, 8}, {Red, 8}, {Black, 5}, {Red, 5}, Phoenix}, FullHouse, 8},

		{"straight", []Card{{Black, 3}, {Red, 4}, {Blue, 5}, {Green, 6}, {Black, 7}}, Straight, 7},
		{"straight from mahjong", []Card{Mahjong, {Black, 2}, {Red, 3}, {Blue, 4}, {Green, 5}}, Straight, 5},
		{"straight phoenix fills gap", []Card{{Black, 3}, {Red, 4}, Phoenix, {Green, 6}, {Black, 7}}, Straight, 7},
		{"straight phoenix extends high", []Card{{Black, 3}, {Red, 4}, {Blue, 5}, {Green, 6}, Phoenix}, Straight, 7},
		{"straight phoenix extends low at ace", []Card{{Black, RankJack}, {Red, RankQueen}, {Blue, RankKing}, {Green, RankAce}, Phoenix}, Straight, 14},
		{"straight to the ace", []Card{{Black, 10}, {Red, RankJack}, {Blue, RankQueen}, {Green, RankKing}, {Black, RankAce}}, Straight, 14},
		{"four cards are no straight", []Card{{Black, 3}, {Red, 4}, {Blue, 5}, {Green, 6}}, Invalid, 0},
		{"duplicate rank breaks straight", []Card{{Black, 5}, {Red, 5}, {Blue, 6}, {Green, 7}, {Black, 8}, {Red, 9}}, Invalid, 0},

		{"straight flush", []Card{{Black, 3}, {Black, 4}, {Black, 5}, {Black, 6}, {Black, 7}}, StraightFlush, 7},
		{"phoenix never makes a flush", []Card{{Black, 3}, {Black, 4}, Phoenix, {Black, 6}, {Black, 7}}, Straight, 7},
		{"mahjong never makes a flush", []Card{Mahjong, {Black, 2}, {Black, 3}, {Black, 4}, {Black, 5}}, Straight, 5},

		{"consecutive pairs", []Card{{Black, 5}, {Red, 5}, {Black, 6}, {Red, 6}}, ConsecutivePairs, 6},
		{"three consecutive pairs", []Card{{Black, 5}, {Red, 5}, {Black, 6}, {Red, 6}, {Blue, 7}, {Green, 7}}, ConsecutivePairs, 7},
		{"consecutive pairs with phoenix", []Card{{Black, 5}, {Red, 5}, {Black, 6}, Phoenix}, ConsecutivePairs, 6},
		{"gap breaks consecutive pairs", []Card{{Black, 5}, {Red, 5}, {Black, 7}, {Red, 7}}, Invalid, 0},

		{"four of a kind", []Card{{Black, 8}, {Red, 8}, {Blue, 8}, {Green, 8}}, FourOfAKind, 8},
		{"phoenix never completes a bomb", []Card{{Black, 8}, {Red, 8}, {Blue, 8}, Phoenix}, Invalid, 0},

		{"dog refuses company", []Card{Dog, {Black, 5}}, Invalid, 0},
		{"dragon refuses company", []Card{Dragon, {Black, RankAce}}, Invalid, 0},
		{"empty", nil, Invalid, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			combo, err := Classify(tt.cards)
			if tt.wantType == Invalid {
				if err == nil {
					t.Fatalf("expected an error, got %v", combo)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if combo.Type != tt.wantType {
				t.Errorf("type: got %v, want %v", combo.Type, tt.wantType)
			}
			if combo.Value != tt.wantValue {
				t.Errorf("value: got %d, want %d", combo.Value, tt.wantValue)
			}
			if combo.Count != len(tt.cards) {
				t.Errorf("count: got %d, want %d", combo.Count, len(tt.cards))
			}
		})
	}
}

func mustCombo(t *testing.T, cards ...Card) Combination {
	t.Helper()
	combo, err := Classify(cards)
	if err != nil {
		t.Fatalf("classify %v: %v", cards, err)
	}
	return combo
}

func TestBeats(t *testing.T) {
	tests := []struct {
		name string
		prev []Card
		next []Card
		want bool
	}{
		{"higher single", []Card{{Black, 8}}, []Card{{Red, 9}}, true},
		{"equal single never beats", []Card{{Black, 8}}, []Card{{Red, 8}}, false},
		{"lower single", []Card{{Black, 8}}, []Card{{Red, 5}}, false},
		{"dragon tops the ace", []Card{{Black, RankAce}}, []Card{Dragon}, true},
		{"nothing singles over the dragon", []Card{Dragon}, []Card{{Black, RankAce}}, false},
		{"phoenix cannot take the dragon", []Card{Dragon}, []Card{Phoenix}, false},
		{"phoenix beats the ace", []Card{{Black, RankAce}}, []Card{Phoenix}, true},

		{"higher pair", []Card{{Black, 8}, {Red, 8}}, []Card{{Black, 9}, {Red, 9}}, true},
		{"equal pair never beats", []Card{{Black, 8}, {Red, 8}}, []Card{{Blue, 8}, {Green, 8}}, false},
		{"pair cannot follow a triple", []Card{{Black, 8}, {Red, 8}, {Blue, 8}}, []Card{{Black, 9}, {Red, 9}}, false},
		{"phoenix pair by rank", []Card{{Black, 8}, {Red, 8}}, []Card{{Black, 9}, Phoenix}, true},

		{"higher full house", []Card{{Black, 8}, {Red, 8}, {Blue, 8}, {Black, 5}, {Red, 5}},
			[]Card{{Black, 9}, {Red, 9}, {Blue, 9}, {Black, 2}, {Red, 2}}, true},

		{"longer straight never follows shorter", []Card{{Black, 3}, {Red, 4}, {Blue, 5}, {Green, 6}, {Black, 7}},
			[]Card{{Black, 4}, {Red, 5}, {Blue, 6}, {Green, 7}, {Black, 8}, {Red, 9}}, false},
		{"higher straight same length", []Card{{Black, 3}, {Red, 4}, {Blue, 5}, {Green, 6}, {Black, 7}},
			[]Card{{Black, 4}, {Red, 5}, {Blue, 6}, {Green, 7}, {Black, 8}}, true},

		{"jack bomb chops a straight", []Card{{Black, 3}, {Red, 4}, {Blue, 5}, {Green, 6}, {Black, 7}},
			[]Card{{Black, RankJack}, {Red, RankJack}, {Blue, RankJack}, {Green, RankJack}}, true},
		{"bomb over a pair", []Card{{Black, RankAce}, {Red, RankAce}},
			[]Card{{Black, 2}, {Red, 2}, {Blue, 2}, {Green, 2}}, true},
		{"straight cannot answer a bomb", []Card{{Black, 2}, {Red, 2}, {Blue, 2}, {Green, 2}},
			[]Card{{Black, 3}, {Red, 4}, {Blue, 5}, {Green, 6}, {Black, 7}}, false},
		{"higher quad", []Card{{Black, 5}, {Red, 5}, {Blue, 5}, {Green, 5}},
			[]Card{{Black, 9}, {Red, 9}, {Blue, 9}, {Green, 9}}, true},
		{"straight flush over any quad", []Card{{Black, RankAce}, {Red, RankAce}, {Blue, RankAce}, {Green, RankAce}},
			[]Card{{Black, 3}, {Black, 4}, {Black, 5}, {Black, 6}, {Black, 7}}, true},
		{"quad never answers a straight flush", []Card{{Black, 3}, {Black, 4}, {Black, 5}, {Black, 6}, {Black, 7}},
			[]Card{{Black, RankAce}, {Red, RankAce}, {Blue, RankAce}, {Green, RankAce}}, false},
		{"longer straight flush wins", []Card{{Black, 9}, {Black, 10}, {Black, RankJack}, {Black, RankQueen}, {Black, RankKing}},
			[]Card{{Red, 3}, {Red, 4}, {Red, 5}, {Red, 6}, {Red, 7}, {Red, 8}}, true},
		{"higher straight flush same length", []Card{{Black, 3}, {Black, 4}, {Black, 5}, {Black, 6}, {Black, 7}},
			[]Card{{Red, 4}, {Red, 5}, {Red, 6}, {Red, 7}, {Red, 8}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := mustCombo(t, tt.prev...)
			next := mustCombo(t, tt.next...)
			if got := Beats(prev, next); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBeatsAfterPhoenixSingle(t *testing.T) {
	king := mustCombo(t, Card{Black, RankKing})
	trick := NewTrick(0)
	trick.Apply(0, king)
	trick.Apply(1, mustCombo(t, Phoenix))

	ace := mustCombo(t, Card{Green, RankAce})
	if !Beats(*trick.Winning, ace) {
		t.Error("ace must beat the phoenix sitting on a king")
	}
	queen := mustCombo(t, Card{Green, RankQueen})
	if Beats(*trick.Winning, queen) {
		t.Error("queen must not beat the phoenix sitting on a king")
	}
}
