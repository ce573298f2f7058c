package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tichu/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	statsCollection = "player_stats"
	statsKey        = "career_v1"
)

// StorageStatsAdapter bootstraps the per-user stats object in Nakama
// storage. The conditional write ("*" version) makes the bootstrap
// first-writer-wins, so repeated logins never reset a career.
type StorageStatsAdapter struct {
	nk runtime.NakamaModule
}

func NewStorageStatsAdapter(nk runtime.NakamaModule) *StorageStatsAdapter {
	return &StorageStatsAdapter{nk: nk}
}

// InitStatsOnce writes the zeroed stats object for a new user. Returns
// created=false when the object already exists.
func (a *StorageStatsAdapter) InitStatsOnce(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, fmt.Errorf("userID is required")
	}

	value, err := json.Marshal(ports.PlayerStats{})
	if err != nil {
		return false, fmt.Errorf("failed to marshal stats: %w", err)
	}

	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{
		{
			Collection:      statsCollection,
			Key:             statsKey,
			UserID:          userID,
			Value:           string(value),
			Version:         "*",
			PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	})
	if err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return false, nil
		}
		return false, fmt.Errorf("failed to initialize stats: %w", err)
	}
	return true, nil
}

var _ ports.StatsPort = (*StorageStatsAdapter)(nil)
