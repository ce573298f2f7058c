package bot

import botinternal "tichu/internal/bot/internal"

const finishBonus = 1000.0

// DefaultTuning balances structure preservation and hand reduction by phase.
// It backs the standard brain and the synthetic moves played for timed-out
// seats.
var DefaultTuning = botinternal.BotTuning{
	Opening: botinternal.PhaseWeights{
		HandScoreWeight:    1.0,
		StraightCardWeight: 0.6,
		PairRunCardWeight:  0.7,
		PairWeight:         0.5,
		TripleWeight:       0.7,
		BombWeight:         1.0,
		SingleWeight:       -1.0,
		TotalCardWeight:    -0.1,
		UseBombPenalty:     6.0,
		UseHighCardPenalty: 0.5,
		PointCaptureWeight: 0.1,
		FinishBonus:        finishBonus,
	},
	Mid: botinternal.PhaseWeights{
		HandScoreWeight:    1.0,
		StraightCardWeight: 0.5,
		PairRunCardWeight:  0.6,
		PairWeight:         0.6,
		TripleWeight:       0.8,
		BombWeight:         1.0,
		SingleWeight:       -1.2,
		TotalCardWeight:    -0.3,
		UseBombPenalty:     4.0,
		UseHighCardPenalty: 0.4,
		PointCaptureWeight: 0.2,
		FinishBonus:        finishBonus,
	},
	End: botinternal.PhaseWeights{
		HandScoreWeight:      1.2,
		StraightCardWeight:   0.3,
		PairRunCardWeight:    0.4,
		PairWeight:           0.4,
		TripleWeight:         0.5,
		BombWeight:           0.6,
		SingleWeight:         -1.5,
		TotalCardWeight:      -1.5,
		UseBombPenalty:       1.0,
		UseHighCardPenalty:   0.2,
		PointCaptureWeight:   0.3,
		FinishBonus:          finishBonus,
		BlockerHighCardBonus: 0.8,
	},
	PassThreshold:   -10.0,
	ThreatThreshold: 3,
}

// smartBrainTuning chases trick points harder, holds bombs longer in the
// opening and blocks low-card opponents more aggressively late.
var smartBrainTuning = botinternal.BotTuning{
	Opening: botinternal.PhaseWeights{
		HandScoreWeight:    1.0,
		StraightCardWeight: 0.7,
		PairRunCardWeight:  0.8,
		PairWeight:         0.6,
		TripleWeight:       0.8,
		BombWeight:         1.2,
		SingleWeight:       -0.8,
		TotalCardWeight:    -0.1,
		UseBombPenalty:     9.0,
		UseHighCardPenalty: 0.6,
		PointCaptureWeight: 0.15,
		FinishBonus:        finishBonus,
	},
	Mid: botinternal.PhaseWeights{
		HandScoreWeight:    1.0,
		StraightCardWeight: 0.5,
		PairRunCardWeight:  0.7,
		PairWeight:         0.6,
		TripleWeight:       0.8,
		BombWeight:         1.1,
		SingleWeight:       -1.2,
		TotalCardWeight:    -0.4,
		UseBombPenalty:     5.0,
		UseHighCardPenalty: 0.4,
		PointCaptureWeight: 0.3,
		FinishBonus:        finishBonus,
	},
	End: botinternal.PhaseWeights{
		HandScoreWeight:      1.2,
		StraightCardWeight:   0.2,
		PairRunCardWeight:    0.3,
		PairWeight:           0.3,
		TripleWeight:         0.4,
		BombWeight:           0.4,
		SingleWeight:         -1.6,
		TotalCardWeight:      -1.8,
		UseBombPenalty:       0.5,
		UseHighCardPenalty:   0.15,
		PointCaptureWeight:   0.45,
		FinishBonus:          finishBonus,
		BlockerHighCardBonus: 1.1,
	},
	PassThreshold:   -8.0,
	ThreatThreshold: 4,
}
