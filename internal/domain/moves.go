package domain

// Move generation produces one representative per distinct playable
// strength: sets use the lowest suits of a rank, straights use the lowest
// card of each rank. That keeps the search small while still reaching every
// beatable value, which is all wish enforcement and the bots need.

// LegalLeads returns the combinations the hand could open a trick with.
func LegalLeads(hand []Card) []Combination {
	var moves []Combination
	moves = append(moves, allSingles(hand)...)
	moves = append(moves, allPairs(hand)...)
	moves = append(moves, allTriples(hand)...)
	moves = append(moves, allFullHouses(hand)...)
	moves = append(moves, allStraights(hand, 0)...)
	moves = append(moves, allConsecutivePairs(hand, 0)...)
	moves = append(moves, allBombs(hand)...)
	return moves
}

// LegalFollows returns the combinations the hand could answer toBeat with,
// bombs included.
func LegalFollows(hand []Card, toBeat Combination) []Combination {
	var candidates []Combination
	switch toBeat.Type {
	case Single:
		candidates = allSingles(hand)
	case Pair:
		candidates = allPairs(hand)
	case Triple:
		candidates = allTriples(hand)
	case FullHouse:
		candidates = allFullHouses(hand)
	case Straight:
		candidates = allStraights(hand, toBeat.Count)
	case ConsecutivePairs:
		candidates = allConsecutivePairs(hand, toBeat.Count)
	}

	var moves []Combination
	for _, m := range candidates {
		if m.Type != toBeat.Type {
			continue
		}
		if Beats(toBeat, m) {
			moves = append(moves, m)
		}
	}
	for _, b := range allBombs(hand) {
		if Beats(toBeat, b) {
			moves = append(moves, b)
		}
	}
	return moves
}

// LegalMoves returns every playable combination, honoring an active wish:
// when any legal play contains a natural card of the wished rank, only
// those plays remain legal.
func LegalMoves(hand []Card, toBeat *Combination, wish Rank) []Combination {
	var all []Combination
	if toBeat == nil || toBeat.Type == Invalid {
		all = LegalLeads(hand)
	} else {
		all = LegalFollows(hand, *toBeat)
	}
	if wish < 2 || wish > RankAce {
		return all
	}
	var constrained []Combination
	for _, m := range all {
		if ContainsRank(m.Cards, wish) {
			constrained = append(constrained, m)
		}
	}
	if len(constrained) > 0 {
		return constrained
	}
	return all
}

// CanSatisfyWish reports whether the hand has any legal play containing a
// natural card of the wished rank.
func CanSatisfyWish(hand []Card, toBeat *Combination, wish Rank) bool {
	if wish < 2 || wish > RankAce {
		return false
	}
	var all []Combination
	if toBeat == nil || toBeat.Type == Invalid {
		all = LegalLeads(hand)
	} else {
		all = LegalFollows(hand, *toBeat)
	}
	for _, m := range all {
		if ContainsRank(m.Cards, wish) {
			return true
		}
	}
	return false
}

// handShape indexes a hand for generation: naturals grouped by rank
// (lowest suit first) plus the specials held.
type handShape struct {
	byRank  map[Rank][]Card
	phoenix bool
	mahjong bool
	dog     bool
	dragon  bool
}

func shapeOf(hand []Card) handShape {
	s := handShape{byRank: make(map[Rank][]Card)}
	sorted := append([]Card{}, hand...)
	SortCards(sorted)
	for _, c := range sorted {
		switch c {
		case Phoenix:
			s.phoenix = true
		case Mahjong:
			s.mahjong = true
		case Dog:
			s.dog = true
		case Dragon:
			s.dragon = true
		default:
			s.byRank[c.Rank] = append(s.byRank[c.Rank], c)
		}
	}
	return s
}

func mustClassify(cards []Card) (Combination, bool) {
	combo, err := Classify(cards)
	if err != nil {
		return Combination{Type: Invalid}, false
	}
	return combo, true
}

func allSingles(hand []Card) []Combination {
	moves := make([]Combination, 0, len(hand))
	for _, c := range hand {
		if combo, ok := mustClassify([]Card{c}); ok {
			moves = append(moves, combo)
		}
	}
	return moves
}

func allPairs(hand []Card) []Combination {
	s := shapeOf(hand)
	var moves []Combination
	for r := Rank(2); r <= RankAce; r++ {
		cards := s.byRank[r]
		switch {
		case len(cards) >= 2:
			if combo, ok := mustClassify([]Card{cards[0], cards[1]}); ok {
				moves = append(moves, combo)
			}
		case len(cards) == 1 && s.phoenix:
			if combo, ok := mustClassify([]Card{cards[0], Phoenix}); ok {
				moves = append(moves, combo)
			}
		}
	}
	return moves
}

func allTriples(hand []Card) []Combination {
	s := shapeOf(hand)
	var moves []Combination
	for r := Rank(2); r <= RankAce; r++ {
		cards := s.byRank[r]
		switch {
		case len(cards) >= 3:
			if combo, ok := mustClassify(cards[:3]); ok {
				moves = append(moves, combo)
			}
		case len(cards) == 2 && s.phoenix:
			if combo, ok := mustClassify([]Card{cards[0], cards[1], Phoenix}); ok {
				moves = append(moves, combo)
			}
		}
	}
	return moves
}

func allFullHouses(hand []Card) []Combination {
	s := shapeOf(hand)
	var moves []Combination
	for tr := Rank(2); tr <= RankAce; tr++ {
		triple := s.byRank[tr]
		for pr := Rank(2); pr <= RankAce; pr++ {
			if pr == tr {
				continue
			}
			pair := s.byRank[pr]
			if len(triple) >= 3 && len(pair) >= 2 {
				cards := append(append([]Card{}, triple[:3]...), pair[:2]...)
				if combo, ok := mustClassify(cards); ok {
					moves = append(moves, combo)
				}
			}
			if !s.phoenix {
				continue
			}
			if len(triple) >= 3 && len(pair) == 1 {
				cards := append(append([]Card{}, triple[:3]...), pair[0], Phoenix)
				if combo, ok := mustClassify(cards); ok {
					moves = append(moves, combo)
				}
			}
			if len(triple) == 2 && len(pair) >= 2 {
				cards := append(append([]Card{}, triple[:2]...), pair[0], pair[1], Phoenix)
				if combo, ok := mustClassify(cards); ok {
					moves = append(moves, combo)
				}
			}
		}
	}
	return moves
}

// allStraights emits straight card-sets per rank window. length 0 means any
// length from 5 up. Mono-suit windows classify as straight flushes and are
// reported by allBombs instead.
func allStraights(hand []Card, length int) []Combination {
	s := shapeOf(hand)
	lengths := straightLengths(length)

	var moves []Combination
	for _, n := range lengths {
		for lo := RankMahjong; lo+Rank(n)-1 <= RankAce; lo++ {
			cards, ok := straightWindow(s, lo, n)
			if !ok {
				continue
			}
			if combo, classified := mustClassify(cards); classified && combo.Type == Straight {
				moves = append(moves, combo)
			}
		}
	}
	return moves
}

func straightLengths(length int) []int {
	if length > 0 {
		return []int{length}
	}
	lengths := make([]int, 0, HandSize-4)
	for n := 5; n <= HandSize; n++ {
		lengths = append(lengths, n)
	}
	return lengths
}

// straightWindow selects the lowest card of each rank in [lo, lo+n), using
// the Mahjong for rank 1 and the Phoenix for at most one missing natural.
func straightWindow(s handShape, lo Rank, n int) ([]Card, bool) {
	cards := make([]Card, 0, n)
	phoenixUsed := false
	for r := lo; r < lo+Rank(n); r++ {
		if r == RankMahjong {
			if !s.mahjong {
				return nil, false
			}
			cards = append(cards, Mahjong)
			continue
		}
		if held := s.byRank[r]; len(held) > 0 {
			cards = append(cards, held[0])
			continue
		}
		if s.phoenix && !phoenixUsed && r >= 2 {
			cards = append(cards, Phoenix)
			phoenixUsed = true
			continue
		}
		return nil, false
	}
	return cards, true
}

// allConsecutivePairs emits adjacent-pair runs. length 0 means any even
// length from 4 up.
func allConsecutivePairs(hand []Card, length int) []Combination {
	s := shapeOf(hand)
	var lengths []int
	if length > 0 {
		lengths = []int{length}
	} else {
		for n := 4; n <= HandSize; n += 2 {
			lengths = append(lengths, n)
		}
	}

	var moves []Combination
	for _, n := range lengths {
		pairs := Rank(n / 2)
		for lo := Rank(2); lo+pairs-1 <= RankAce; lo++ {
			cards := make([]Card, 0, n)
			phoenixUsed := false
			ok := true
			for r := lo; r < lo+pairs; r++ {
				held := s.byRank[r]
				switch {
				case len(held) >= 2:
					cards = append(cards, held[0], held[1])
				case len(held) == 1 && s.phoenix && !phoenixUsed:
					cards = append(cards, held[0], Phoenix)
					phoenixUsed = true
				default:
					ok = false
				}
				if !ok {
					break
				}
			}
			if !ok {
				continue
			}
			if combo, classified := mustClassify(cards); classified {
				moves = append(moves, combo)
			}
		}
	}
	return moves
}

// allBombs returns every four-of-a-kind and straight flush in the hand.
func allBombs(hand []Card) []Combination {
	s := shapeOf(hand)
	var moves []Combination
	for r := Rank(2); r <= RankAce; r++ {
		if cards := s.byRank[r]; len(cards) == 4 {
			if combo, ok := mustClassify(cards); ok {
				moves = append(moves, combo)
			}
		}
	}

	for suit := Black; suit <= Green; suit++ {
		held := map[Rank]Card{}
		for r := Rank(2); r <= RankAce; r++ {
			for _, c := range s.byRank[r] {
				if c.Suit == suit {
					held[r] = c
					break
				}
			}
		}
		for n := 5; n <= HandSize; n++ {
			for lo := Rank(2); lo+Rank(n)-1 <= RankAce; lo++ {
				cards := make([]Card, 0, n)
				ok := true
				for r := lo; r < lo+Rank(n); r++ {
					c, have := held[r]
					if !have {
						ok = false
						break
					}
					cards = append(cards, c)
				}
				if !ok {
					continue
				}
				if combo, classified := mustClassify(cards); classified && combo.Type == StraightFlush {
					moves = append(moves, combo)
				}
			}
		}
	}
	return moves
}
