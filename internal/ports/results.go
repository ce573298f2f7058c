package ports

import "context"

// RoundRecord is one settled round as persisted for history queries.
type RoundRecord struct {
	MatchID     string `json:"match_id"`
	RoundNumber int    `json:"round_number"`
	TeamDelta   [2]int `json:"team_delta"`
	Totals      [2]int `json:"totals"`
}

// MatchRecord is the final outcome of a match.
type MatchRecord struct {
	MatchID     string   `json:"match_id"`
	WinningTeam int      `json:"winning_team"`
	Scores      [2]int   `json:"scores"`
	Seats       []string `json:"seats"`
	Rounds      int      `json:"rounds"`
}

// ResultStore persists round and match outcomes. Failures are never fatal
// to a running match; callers log and retry once, then play on.
type ResultStore interface {
	RecordRoundResult(ctx context.Context, rec RoundRecord) error
	RecordMatchResult(ctx context.Context, rec MatchRecord) error
}
