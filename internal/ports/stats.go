package ports

import "context"

// PlayerStats is the per-user career record, created zeroed at first login.
// Match outcomes live in the results history and the rating leaderboard;
// clients aggregate from there.
type PlayerStats struct {
	MatchesPlayed int `json:"matches_played"`
	MatchesWon    int `json:"matches_won"`
	TichuCalled   int `json:"tichu_called"`
	TichuMade     int `json:"tichu_made"`
}

// StatsPort bootstraps player statistics.
type StatsPort interface {
	// InitStatsOnce writes the zeroed stats object for a new user.
	// Returns created=false when the object already exists.
	InitStatsOnce(ctx context.Context, userID string) (bool, error)
}
