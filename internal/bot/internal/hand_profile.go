package internal

import (
	"sort"

	"tichu/internal/domain"
)

// HandProfile summarizes a hand's strategic structure for phase-aware
// scoring. The partition is greedy: bombs are carved out first, then the
// longest straights, then pair runs, sets and pairs; whatever remains is a
// single.
type HandProfile struct {
	TotalCards    int
	Bombs         int
	Straights     int
	StraightCards int
	PairRuns      int
	PairRunCards  int
	Triples       int
	Pairs         int
	Singles       int
	HighSingles   int // Ace and above, Dragon and Phoenix included
	Points        int // trick value carried in hand
	HasDog        bool
	HasMahjong    bool
	HasPhoenix    bool
	HasDragon     bool
}

// ProfileHand analyzes a hand and extracts combo counts with a greedy
// structure pass over the natural cards.
func ProfileHand(hand []domain.Card) HandProfile {
	profile := HandProfile{TotalCards: len(hand), Points: domain.PileValue(hand)}
	if len(hand) == 0 {
		return profile
	}

	var naturals []domain.Card
	for _, c := range hand {
		switch c {
		case domain.Dog:
			profile.HasDog = true
		case domain.Mahjong:
			profile.HasMahjong = true
		case domain.Phoenix:
			profile.HasPhoenix = true
			profile.HighSingles++
		case domain.Dragon:
			profile.HasDragon = true
			profile.HighSingles++
		default:
			naturals = append(naturals, c)
		}
	}
	domain.SortCards(naturals)

	naturals, bombs := extractQuads(naturals)
	profile.Bombs = bombs

	naturals, straightCards, straights := extractStraights(naturals)
	profile.Straights = straights
	profile.StraightCards = straightCards

	naturals, runCards, runs := extractPairRuns(naturals)
	profile.PairRuns = runs
	profile.PairRunCards = runCards

	counts := map[domain.Rank]int{}
	for _, c := range naturals {
		counts[c.Rank]++
	}
	for rank, count := range counts {
		switch count {
		case 3:
			profile.Triples++
		case 2:
			profile.Pairs++
		case 1:
			profile.Singles++
			if rank >= domain.RankAce {
				profile.HighSingles++
			}
		}
	}
	return profile
}

// extractQuads removes every four-of-a-kind. Straight-flush bombs are left
// to the straight pass; a quad is the stronger structure to preserve.
func extractQuads(cards []domain.Card) ([]domain.Card, int) {
	counts := map[domain.Rank]int{}
	for _, c := range cards {
		counts[c.Rank]++
	}
	quads := 0
	remaining := cards[:0:0]
	for _, c := range cards {
		if counts[c.Rank] == 4 {
			continue
		}
		remaining = append(remaining, c)
	}
	for _, n := range counts {
		if n == 4 {
			quads++
		}
	}
	return remaining, quads
}

// extractStraights repeatedly removes the longest run of 5+ distinct
// consecutive ranks, taking one card per rank.
func extractStraights(cards []domain.Card) (rest []domain.Card, totalCards, count int) {
	rest = cards
	for {
		byRank := map[domain.Rank][]domain.Card{}
		var ranks []int
		for _, c := range rest {
			if len(byRank[c.Rank]) == 0 {
				ranks = append(ranks, int(c.Rank))
			}
			byRank[c.Rank] = append(byRank[c.Rank], c)
		}
		sort.Ints(ranks)

		bestStart, bestLen := -1, 0
		for i := 0; i < len(ranks); i++ {
			runLen := 1
			for j := i + 1; j < len(ranks) && ranks[j] == ranks[j-1]+1; j++ {
				runLen++
			}
			if runLen >= 5 && runLen > bestLen {
				bestStart, bestLen = i, runLen
			}
		}
		if bestLen < 5 {
			return rest, totalCards, count
		}

		straight := make([]domain.Card, 0, bestLen)
		for k := 0; k < bestLen; k++ {
			straight = append(straight, byRank[domain.Rank(ranks[bestStart+k])][0])
		}
		rest = domain.RemoveCards(rest, straight)
		totalCards += bestLen
		count++
	}
}

// extractPairRuns removes runs of 2+ adjacent-rank pairs.
func extractPairRuns(cards []domain.Card) (rest []domain.Card, totalCards, count int) {
	rest = cards
	for {
		pairByRank := map[domain.Rank][]domain.Card{}
		var ranks []int
		seen := map[domain.Rank]int{}
		for _, c := range rest {
			seen[c.Rank]++
			pairByRank[c.Rank] = append(pairByRank[c.Rank], c)
		}
		for r, n := range seen {
			if n >= 2 {
				ranks = append(ranks, int(r))
			}
		}
		sort.Ints(ranks)

		bestStart, bestLen := -1, 0
		for i := 0; i < len(ranks); i++ {
			runLen := 1
			for j := i + 1; j < len(ranks) && ranks[j] == ranks[j-1]+1; j++ {
				runLen++
			}
			if runLen >= 2 && runLen > bestLen {
				bestStart, bestLen = i, runLen
			}
		}
		if bestLen < 2 {
			return rest, totalCards, count
		}

		run := make([]domain.Card, 0, bestLen*2)
		for k := 0; k < bestLen; k++ {
			pair := pairByRank[domain.Rank(ranks[bestStart+k])]
			run = append(run, pair[0], pair[1])
		}
		rest = domain.RemoveCards(rest, run)
		totalCards += len(run)
		count++
	}
}
