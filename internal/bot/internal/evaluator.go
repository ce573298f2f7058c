package internal

import (
	"tichu/internal/domain"
)

// Heuristic hand-strength weights. A Grand Tichu call needs roughly two
// "anchors" (Dragon, Phoenix, Aces, a bomb) in the 8-card portion; a full
// Tichu hand wants control plus a short tail of unload moves.
const (
	scoreDragon      = 18.0
	scorePhoenix     = 14.0
	scoreBomb        = 25.0
	scorePerAce      = 8.0
	scorePerKing     = 4.0
	scoreStraightPer = 2.0
	scorePairRunPer  = 2.5
	scoreTriple      = 5.0
	scorePair        = 2.0
	scoreLowSingle   = -2.5
	scoreDogHolding  = -1.0
)

// EvaluateHand returns a heuristic strength score for the given hand.
// Higher is better.
func EvaluateHand(hand []domain.Card) float64 {
	profile := ProfileHand(hand)
	return evaluateProfile(hand, profile)
}

func evaluateProfile(hand []domain.Card, profile HandProfile) float64 {
	score := 0.0
	if profile.HasDragon {
		score += scoreDragon
	}
	if profile.HasPhoenix {
		score += scorePhoenix
	}
	if profile.HasDog {
		// The Dog is a tempo gift to the partner, but it is one more card
		// to get rid of.
		score += scoreDogHolding
	}
	score += scoreBomb * float64(profile.Bombs)
	score += scoreStraightPer * float64(profile.StraightCards)
	score += scorePairRunPer * float64(profile.PairRunCards)
	score += scoreTriple * float64(profile.Triples)
	score += scorePair * float64(profile.Pairs)

	for _, c := range hand {
		if !c.IsNatural() {
			continue
		}
		switch c.Rank {
		case domain.RankAce:
			score += scorePerAce
		case domain.RankKing:
			score += scorePerKing
		}
	}

	// Loose low singles are liabilities: each one is a trick the hand
	// probably cannot win.
	lowSingles := profile.Singles - countHighNaturalSingles(hand, profile)
	if lowSingles > 0 {
		score += scoreLowSingle * float64(lowSingles)
	}
	return score
}

func countHighNaturalSingles(hand []domain.Card, profile HandProfile) int {
	high := profile.HighSingles
	if profile.HasDragon {
		high--
	}
	if profile.HasPhoenix {
		high--
	}
	return high
}

// GrandWorthy judges the 8-card grand portion: the call costs 200 on
// failure, so it wants two anchors at least.
func GrandWorthy(hand []domain.Card) bool {
	anchors := 0
	for _, c := range hand {
		switch {
		case c == domain.Dragon, c == domain.Phoenix:
			anchors += 2
		case c.IsNatural() && c.Rank == domain.RankAce:
			anchors++
		case c.IsNatural() && c.Rank == domain.RankKing:
			// Kings only half-count; they lose to aces.
		}
	}
	return anchors >= 3
}

// TichuWorthy judges a full 14-card hand before the first play.
func TichuWorthy(hand []domain.Card) bool {
	profile := ProfileHand(hand)
	if profile.Bombs > 0 && profile.HighSingles >= 1 {
		return true
	}
	return evaluateProfile(hand, profile) >= 45.0
}
