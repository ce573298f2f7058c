package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"
)

// CreateMatchResponse is returned by the create-match RPC.
type CreateMatchResponse struct {
	MatchID string `json:"match_id"`
}

// RegisterRPCs registers the Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcCreateMatch, rpcCreateMatch); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcMatchHistory, rpcMatchHistory)
}

// rpcCreateMatch creates a fresh authoritative match and returns its id.
// Seat and owner assignment happen in MatchJoin.
func rpcCreateMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	matchID, err := nk.MatchCreate(ctx, MatchNameTichu, map[string]interface{}{})
	if err != nil {
		logger.Error("rpcCreateMatch [user:%s]: MatchCreate failed: %v", userID, err)
		return "", runtime.NewError("failed to create match", 13)
	}

	resp, err := json.Marshal(CreateMatchResponse{MatchID: matchID})
	if err != nil {
		return "", runtime.NewError("failed to encode response", 13)
	}

	logger.Info("rpcCreateMatch [user:%s]: created match %s", userID, matchID)
	return string(resp), nil
}
