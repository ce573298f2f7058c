package domain

// DoubleWinScore is the fixed round score for emptying both of one team's
// hands before either opponent.
const DoubleWinScore = 200

// RoundResult is the settled outcome of one round, reported as a signed
// delta per team.
type RoundResult struct {
	TeamDelta     [2]int `json:"teamDelta"`
	CardPoints    [2]int `json:"cardPoints"`
	CallBonus     [2]int `json:"callBonus"`
	DoubleWinTeam int    `json:"doubleWinTeam"`
	FinishOrder   []int  `json:"finishOrder"`
	LastSeat      int    `json:"lastSeat"`
}

// settleRound computes the round's score. On a double win the winning team
// takes a fixed 200 with no card counting. Otherwise the per-seat trick
// ledgers count for their teams, except that the last seat's tricks go to
// the first finisher's team and the last seat's remaining hand goes to the
// team opposing the last seat. Calls settle on top in both cases.
func settleRound(r *Round, double bool) *RoundResult {
	res := &RoundResult{DoubleWinTeam: -1, LastSeat: -1}
	res.FinishOrder = append([]int{}, r.FinishOrder...)
	first := r.FinishOrder[0]

	if double {
		res.DoubleWinTeam = teamOf(first)
	} else {
		last := remainingSeat(r.FinishOrder)
		res.LastSeat = last
		for s := 0; s < 4; s++ {
			if s == last {
				continue
			}
			res.CardPoints[teamOf(s)] += r.TrickPoints[s]
		}
		res.CardPoints[teamOf(first)] += r.TrickPoints[last]
		res.CardPoints[1-teamOf(last)] += PileValue(r.Hands[last])
	}

	for s := 0; s < 4; s++ {
		var stake int
		switch r.Calls[s] {
		case CallTichu:
			stake = 100
		case CallGrandTichu:
			stake = 200
		default:
			continue
		}
		if s == first {
			res.CallBonus[teamOf(s)] += stake
		} else {
			res.CallBonus[teamOf(s)] -= stake
		}
	}

	for t := 0; t < 2; t++ {
		res.TeamDelta[t] = res.CardPoints[t] + res.CallBonus[t]
	}
	if double {
		res.TeamDelta[res.DoubleWinTeam] += DoubleWinScore
	}
	return res
}

// remainingSeat returns the one seat absent from a three-seat finish order.
func remainingSeat(finished []int) int {
	var seen [4]bool
	for _, s := range finished {
		seen[s] = true
	}
	for s := 0; s < 4; s++ {
		if !seen[s] {
			return s
		}
	}
	return -1
}
