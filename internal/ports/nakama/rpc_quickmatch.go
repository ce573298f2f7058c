package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchResponse is the payload returned to clients asking for a seat.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// rpcQuickMatch finds an open lobby via label query, or creates one. Seat
// assignment stays server-authoritative in MatchJoin.
func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	query := "+label.open:>=1 +label.game:" + labelGameName + " +label.phase:lobby"

	limit := 10
	authoritative := true
	minSize := 1
	maxSize := 3 // leave room for the caller

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("rpcQuickMatch: MatchList failed: %v", err)
		return "", runtime.NewError("failed to list matches", 13)
	}

	if len(matches) > 0 {
		resp, _ := json.Marshal(QuickMatchResponse{MatchID: matches[0].MatchId, IsNew: false})
		return string(resp), nil
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameTichu, map[string]interface{}{})
	if err != nil {
		logger.Error("rpcQuickMatch: MatchCreate failed: %v", err)
		return "", runtime.NewError("failed to create match", 13)
	}

	resp, _ := json.Marshal(QuickMatchResponse{MatchID: matchID, IsNew: true})
	return string(resp), nil
}
