package ports

import "context"

// RatingUpdate is one user's outcome from a finished match.
type RatingUpdate struct {
	UserID string
	Won    bool
}

// RatingPort reports match outcomes to the ranking system.
type RatingPort interface {
	// SubmitResults applies rating changes for all listed users.
	SubmitResults(ctx context.Context, matchID string, updates []RatingUpdate) error
}
