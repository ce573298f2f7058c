package internal

import "tichu/internal/domain"

// PhaseWeights tune move scoring for a specific phase.
type PhaseWeights struct {
	HandScoreWeight      float64
	StraightCardWeight   float64
	PairRunCardWeight    float64
	PairWeight           float64
	TripleWeight         float64
	BombWeight           float64
	SingleWeight         float64
	TotalCardWeight      float64
	UseBombPenalty       float64
	UseHighCardPenalty   float64
	PointCaptureWeight   float64
	FinishBonus          float64
	BlockerHighCardBonus float64
}

// BotTuning defines phase weights and thresholds for a bot difficulty.
type BotTuning struct {
	Opening         PhaseWeights
	Mid             PhaseWeights
	End             PhaseWeights
	PassThreshold   float64
	ThreatThreshold int
}

// ForPhase returns the weights that match the supplied phase.
func (t BotTuning) ForPhase(phase GamePhase) PhaseWeights {
	switch phase {
	case PhaseOpening:
		return t.Opening
	case PhaseEnd:
		return t.End
	default:
		return t.Mid
	}
}

// ScoredMove holds a candidate combination with its computed score.
type ScoredMove struct {
	Combo            domain.Combination
	Score            float64
	Remaining        []domain.Card
	RemainingProfile HandProfile
}

// ScoreHand evaluates a hand using the configured weights and structure
// profile.
func ScoreHand(hand []domain.Card, weights PhaseWeights) float64 {
	profile := ProfileHand(hand)
	return scoreHandWithProfile(hand, profile, weights)
}

// BuildScoredMoves scores each candidate by the hand it leaves behind, the
// cost of what it spends, and the points sitting on the trick.
func BuildScoredMoves(hand []domain.Card, moves []domain.Combination, weights PhaseWeights, threat bool, trickPoints int) []ScoredMove {
	scored := make([]ScoredMove, 0, len(moves))
	for _, combo := range moves {
		remaining := domain.RemoveCards(hand, combo.Cards)
		profile := ProfileHand(remaining)
		score := scoreHandWithProfile(remaining, profile, weights)

		if len(remaining) == 0 {
			score += weights.FinishBonus
		}

		score -= weights.UseHighCardPenalty * float64(combo.Value)
		if combo.Type.IsBomb() {
			score -= weights.UseBombPenalty
			// A bomb onto a fat pile pays for itself.
			score += weights.PointCaptureWeight * float64(trickPoints)
		} else if trickPoints > 0 {
			score += weights.PointCaptureWeight * float64(trickPoints) * 0.5
		}

		if threat && combo.Type == domain.Single {
			score += weights.BlockerHighCardBonus * float64(combo.Value)
		}

		scored = append(scored, ScoredMove{
			Combo:            combo,
			Score:            score,
			Remaining:        remaining,
			RemainingProfile: profile,
		})
	}
	return scored
}

// DetectThreat reports whether any opponent of the seat is at or below the
// supplied card threshold.
func DetectThreat(round *domain.Round, seat int, threshold int) bool {
	if threshold <= 0 || round == nil {
		return false
	}
	for s := 0; s < 4; s++ {
		if s == seat || s == domain.PartnerOf(seat) {
			continue
		}
		n := len(round.Hands[s])
		if n > 0 && n <= threshold {
			return true
		}
	}
	return false
}

func scoreHandWithProfile(hand []domain.Card, profile HandProfile, weights PhaseWeights) float64 {
	score := 0.0
	score += weights.HandScoreWeight * evaluateProfile(hand, profile)
	score += weights.StraightCardWeight * float64(profile.StraightCards)
	score += weights.PairRunCardWeight * float64(profile.PairRunCards)
	score += weights.PairWeight * float64(profile.Pairs)
	score += weights.TripleWeight * float64(profile.Triples)
	score += weights.BombWeight * float64(profile.Bombs)
	score += weights.SingleWeight * float64(profile.Singles)
	score += weights.TotalCardWeight * float64(profile.TotalCards)
	return score
}
