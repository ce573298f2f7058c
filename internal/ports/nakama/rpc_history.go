package nakama

import (
	"context"
	"database/sql"

	"github.com/heroiclabs/nakama-common/runtime"
)

// rpcMatchHistory returns the caller's rolling match history, newest first.
// The payload is the persisted JSON array of match records; a user with no
// finished matches gets an empty array.
func rpcMatchHistory(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if !ok || userID == "" {
		return "", runtime.NewError("missing user id", 3)
	}

	objects, err := nk.StorageRead(ctx, []*runtime.StorageRead{
		{Collection: historyCollection, Key: historyKey, UserID: userID},
	})
	if err != nil {
		logger.Error("rpcMatchHistory [user:%s]: StorageRead failed: %v", userID, err)
		return "", runtime.NewError("failed to read history", 13)
	}

	if len(objects) == 0 {
		return "[]", nil
	}
	return objects[0].Value, nil
}
