package domain

// CombinationType represents the kind of a played set of cards.
type CombinationType int32

const (
	Invalid CombinationType = iota
	Single
	Pair
	Triple
	FullHouse
	Straight
	ConsecutivePairs
	FourOfAKind
	StraightFlush
)

var combinationNames = map[CombinationType]string{
	Invalid:          "invalid",
	Single:           "single",
	Pair:             "pair",
	Triple:           "triple",
	FullHouse:        "full_house",
	Straight:         "straight",
	ConsecutivePairs: "consecutive_pairs",
	FourOfAKind:      "four_of_a_kind",
	StraightFlush:    "straight_flush",
}

func (t CombinationType) String() string {
	if s, ok := combinationNames[t]; ok {
		return s
	}
	return "invalid"
}

// IsBomb reports whether the type beats any non-bomb combination.
func (t CombinationType) IsBomb() bool {
	return t == FourOfAKind || t == StraightFlush
}

// Combination is a classified set of cards. Value is the comparison power:
// half-rank steps for singles (so the Phoenix can slot between naturals),
// the defining natural rank for pairs, triples, quads and full houses, and
// the top rank for straights and consecutive pairs.
type Combination struct {
	Type  CombinationType `json:"type"`
	Cards []Card          `json:"cards"`
	Value int32           `json:"value"`
	Count int             `json:"count"`
}

// singleValue is the baseline power of a card played alone, in half-rank
// steps. The Phoenix led into an empty trick counts as one-and-a-half.
func singleValue(c Card) int32 {
	switch c.Rank {
	case RankDog:
		return 0
	case RankPhoenix:
		return 3
	case RankDragon:
		return 2 * int32(RankDragon)
	}
	return 2 * int32(c.Rank)
}

// Classify determines the unique combination formed by the given cards, or
// fails with ErrInvalidShape. The Phoenix may complete a pair, triple or
// full house, and may substitute for exactly one missing rank in a straight
// or a consecutive-pair run; it never forms part of a bomb.
func Classify(cards []Card) (Combination, error) {
	n := len(cards)
	if n == 0 || n > HandSize {
		return Combination{Type: Invalid}, ErrInvalidShape
	}

	sorted := append([]Card{}, cards...)
	SortCards(sorted)

	if n == 1 {
		return Combination{Type: Single, Cards: sorted, Value: singleValue(sorted[0]), Count: 1}, nil
	}

	// Multi-card shapes are built from naturals, the Mahjong (straights
	// only) and at most one Phoenix. Dog and Dragon play alone.
	var (
		phoenix bool
		mahjong bool
		counts  = map[Rank]int{}
	)
	for _, c := range sorted {
		switch {
		case c == Phoenix:
			phoenix = true
		case c == Mahjong:
			mahjong = true
		case c == Dog, c == Dragon:
			return Combination{Type: Invalid}, ErrInvalidShape
		case c.IsNatural():
			counts[c.Rank]++
		default:
			return Combination{Type: Invalid}, ErrInvalidShape
		}
	}

	if !mahjong {
		if rank, ok := sameRank(counts, phoenix, n); ok {
			switch n {
			case 2:
				return Combination{Type: Pair, Cards: sorted, Value: int32(rank), Count: 2}, nil
			case 3:
				return Combination{Type: Triple, Cards: sorted, Value: int32(rank), Count: 3}, nil
			case 4:
				// Four naturals of one rank are a bomb. A Phoenix-completed
				// quad is no combination at all.
				if !phoenix {
					return Combination{Type: FourOfAKind, Cards: sorted, Value: int32(rank), Count: 4}, nil
				}
				return Combination{Type: Invalid}, ErrInvalidShape
			}
		}
		if n == 5 {
			if rank, ok := fullHouseRank(counts, phoenix); ok {
				return Combination{Type: FullHouse, Cards: sorted, Value: int32(rank), Count: 5}, nil
			}
		}
		if n >= 4 && n%2 == 0 {
			if top, ok := consecutivePairsTop(counts, phoenix, n); ok {
				return Combination{Type: ConsecutivePairs, Cards: sorted, Value: int32(top), Count: n}, nil
			}
		}
	}

	if n >= 5 {
		if top, ok := straightTop(counts, mahjong, phoenix, n); ok {
			t := Straight
			if !mahjong && !phoenix && sameSuit(sorted) {
				t = StraightFlush
			}
			return Combination{Type: t, Cards: sorted, Value: int32(top), Count: n}, nil
		}
	}

	return Combination{Type: Invalid}, ErrInvalidShape
}

// Beats reports whether next takes the trick from prev. Both combinations
// must be classified; prev carries the trick-effective value when the
// Phoenix is on top.
func Beats(prev, next Combination) bool {
	if prev.Type == Invalid || next.Type == Invalid {
		return false
	}
	if next.Type.IsBomb() {
		return bombBeats(prev, next)
	}
	if prev.Type.IsBomb() {
		return false
	}
	if next.Type != prev.Type || next.Count != prev.Count {
		return false
	}
	if next.Type == Single {
		return singleBeats(prev, next)
	}
	return next.Value > prev.Value
}

func bombBeats(prev, next Combination) bool {
	if !prev.Type.IsBomb() {
		return true
	}
	if next.Type == StraightFlush && prev.Type == FourOfAKind {
		return true
	}
	if next.Type == FourOfAKind && prev.Type == StraightFlush {
		return false
	}
	if next.Type == FourOfAKind {
		return next.Value > prev.Value
	}
	// Straight flush against straight flush: longer first, then higher.
	if next.Count != prev.Count {
		return next.Count > prev.Count
	}
	return next.Value > prev.Value
}

func singleBeats(prev, next Combination) bool {
	if prev.Cards[0].Rank == RankDragon {
		return false
	}
	if next.Cards[0].Rank == RankPhoenix {
		// Assumes the current top plus half a rank; only the Dragon
		// (handled above) or a bomb stops it.
		return true
	}
	return next.Value > prev.Value
}

// sameRank reports whether the counted naturals (plus an optional Phoenix)
// form n cards of a single rank.
func sameRank(counts map[Rank]int, phoenix bool, n int) (Rank, bool) {
	if len(counts) != 1 {
		return 0, false
	}
	need := n
	if phoenix {
		need--
	}
	for rank, c := range counts {
		if c == need {
			return rank, true
		}
	}
	return 0, false
}

// fullHouseRank returns the triple's rank of a 5-card full house. With the
// Phoenix and two natural pairs the higher pair becomes the triple.
func fullHouseRank(counts map[Rank]int, phoenix bool) (Rank, bool) {
	if len(counts) != 2 {
		return 0, false
	}
	ranks := make([]Rank, 0, 2)
	for r := range counts {
		ranks = append(ranks, r)
	}
	if ranks[0] > ranks[1] {
		ranks[0], ranks[1] = ranks[1], ranks[0]
	}
	lo, hi := ranks[0], ranks[1]
	if !phoenix {
		switch {
		case counts[lo] == 3 && counts[hi] == 2:
			return lo, true
		case counts[lo] == 2 && counts[hi] == 3:
			return hi, true
		}
		return 0, false
	}
	switch {
	case counts[lo] == 2 && counts[hi] == 2:
		return hi, true
	case counts[lo] == 3 && counts[hi] == 1:
		return lo, true
	case counts[lo] == 1 && counts[hi] == 3:
		return hi, true
	}
	return 0, false
}

// consecutivePairsTop validates a run of two or more adjacent-rank pairs and
// returns the top rank. The Phoenix may stand in for one missing half.
func consecutivePairsTop(counts map[Rank]int, phoenix bool, n int) (Rank, bool) {
	pairs := Rank(n / 2)
	lo := lowestRank(counts)
	if len(counts) != int(pairs) || lo+pairs-1 > RankAce {
		return 0, false
	}
	phoenixLeft := 0
	if phoenix {
		phoenixLeft = 1
	}
	for r := lo; r < lo+pairs; r++ {
		switch counts[r] {
		case 2:
		case 1:
			if phoenixLeft == 0 {
				return 0, false
			}
			phoenixLeft--
		default:
			return 0, false
		}
	}
	if phoenixLeft != 0 {
		return 0, false
	}
	return lo + pairs - 1, true
}

// straightTop validates n consecutive distinct ranks and returns the top.
// The Mahjong counts as rank 1; the Phoenix fills one gap or extends the
// run, preferring the high end but never passing the Ace and never serving
// as rank 1.
func straightTop(counts map[Rank]int, mahjong, phoenix bool, n int) (Rank, bool) {
	ranks := make([]Rank, 0, n)
	if mahjong {
		ranks = append(ranks, RankMahjong)
	}
	for r, c := range counts {
		if c != 1 {
			return 0, false
		}
		ranks = append(ranks, r)
	}
	if len(ranks) == 0 {
		return 0, false
	}
	sortRanks(ranks)

	if !phoenix {
		if len(ranks) != n {
			return 0, false
		}
		for i := 1; i < n; i++ {
			if ranks[i] != ranks[i-1]+1 {
				return 0, false
			}
		}
		return ranks[n-1], true
	}

	if len(ranks) != n-1 {
		return 0, false
	}
	gaps := 0
	for i := 1; i < len(ranks); i++ {
		switch ranks[i] - ranks[i-1] {
		case 1:
		case 2:
			gaps++
		default:
			return 0, false
		}
	}
	switch gaps {
	case 0:
		// Extend high when possible, otherwise low. The low end must stay
		// a natural rank.
		top := ranks[len(ranks)-1]
		if top < RankAce {
			return top + 1, true
		}
		if ranks[0] >= 3 {
			return top, true
		}
		return 0, false
	case 1:
		return ranks[len(ranks)-1], true
	}
	return 0, false
}

func sameSuit(cards []Card) bool {
	s := cards[0].Suit
	for _, c := range cards {
		if c.Suit != s {
			return false
		}
	}
	return true
}

func lowestRank(counts map[Rank]int) Rank {
	lo := Rank(0)
	first := true
	for r := range counts {
		if first || r < lo {
			lo = r
			first = false
		}
	}
	return lo
}

func sortRanks(ranks []Rank) {
	for i := 1; i < len(ranks); i++ {
		for j := i; j > 0 && ranks[j] < ranks[j-1]; j-- {
			ranks[j], ranks[j-1] = ranks[j-1], ranks[j]
		}
	}
}
