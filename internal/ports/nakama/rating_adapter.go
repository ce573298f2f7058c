package nakama

import (
	"context"
	"fmt"

	"tichu/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// LeaderboardRating is the leaderboard id that accumulates match wins.
const LeaderboardRating = "tichu_rating"

// LeaderboardRatingAdapter reports match outcomes to a Nakama leaderboard
// created with the incremental operator: winners gain a point, losers keep
// their standing but still register a submission.
type LeaderboardRatingAdapter struct {
	nk runtime.NakamaModule
}

func NewLeaderboardRatingAdapter(nk runtime.NakamaModule) *LeaderboardRatingAdapter {
	return &LeaderboardRatingAdapter{nk: nk}
}

// SubmitResults writes one record per user.
func (a *LeaderboardRatingAdapter) SubmitResults(ctx context.Context, matchID string, updates []ports.RatingUpdate) error {
	metadata := map[string]interface{}{"match_id": matchID}
	for _, u := range updates {
		score := int64(0)
		if u.Won {
			score = 1
		}
		if _, err := a.nk.LeaderboardRecordWrite(ctx, LeaderboardRating, u.UserID, "", score, 0, metadata, nil); err != nil {
			return fmt.Errorf("failed to write rating for %s: %w", u.UserID, err)
		}
	}
	return nil
}

// EnsureRatingLeaderboard creates the leaderboard if it does not exist.
// Creation is idempotent on the Nakama side.
func EnsureRatingLeaderboard(ctx context.Context, nk runtime.NakamaModule) error {
	return nk.LeaderboardCreate(ctx, LeaderboardRating, true, "desc", "incr", "", nil, false)
}

var _ ports.RatingPort = (*LeaderboardRatingAdapter)(nil)
