package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"tichu/internal/bot"
	"tichu/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	resultsCollection = "tichu_results"
	historyCollection = "tichu_history"
	historyKey        = "recent"
	historyCap        = 20
)

// StorageResultStore persists round and match outcomes in Nakama storage.
// Round and match records are system-owned; each human player additionally
// gets a rolling history object readable by the history RPC.
type StorageResultStore struct {
	nk runtime.NakamaModule
}

func NewStorageResultStore(nk runtime.NakamaModule) *StorageResultStore {
	return &StorageResultStore{nk: nk}
}

// RecordRoundResult writes one settled round.
func (s *StorageResultStore) RecordRoundResult(ctx context.Context, rec ports.RoundRecord) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal round record: %w", err)
	}

	_, err = s.nk.StorageWrite(ctx, []*runtime.StorageWrite{
		{
			Collection:      resultsCollection,
			Key:             fmt.Sprintf("%s_round_%d", rec.MatchID, rec.RoundNumber),
			Value:           string(value),
			PermissionRead:  runtime.STORAGE_PERMISSION_PUBLIC_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to write round record: %w", err)
	}
	return nil
}

// RecordMatchResult writes the final outcome and appends it to every human
// participant's rolling history.
func (s *StorageResultStore) RecordMatchResult(ctx context.Context, rec ports.MatchRecord) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal match record: %w", err)
	}

	writes := []*runtime.StorageWrite{
		{
			Collection:      resultsCollection,
			Key:             rec.MatchID,
			Value:           string(value),
			PermissionRead:  runtime.STORAGE_PERMISSION_PUBLIC_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	}

	for _, uid := range rec.Seats {
		if uid == "" || bot.IsBot(uid) {
			continue
		}
		historyWrite, err := s.appendHistory(ctx, uid, rec)
		if err != nil {
			return err
		}
		writes = append(writes, historyWrite)
	}

	if _, err := s.nk.StorageWrite(ctx, writes); err != nil {
		return fmt.Errorf("failed to write match result: %w", err)
	}
	return nil
}

// appendHistory builds the versioned write that adds rec to a user's rolling
// history, newest first, capped at historyCap entries.
func (s *StorageResultStore) appendHistory(ctx context.Context, userID string, rec ports.MatchRecord) (*runtime.StorageWrite, error) {
	objects, err := s.nk.StorageRead(ctx, []*runtime.StorageRead{
		{Collection: historyCollection, Key: historyKey, UserID: userID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read history for %s: %w", userID, err)
	}

	var history []ports.MatchRecord
	version := "*"
	if len(objects) > 0 {
		version = objects[0].Version
		if err := json.Unmarshal([]byte(objects[0].Value), &history); err != nil {
			// A corrupt object is replaced rather than blocking results.
			history = nil
		}
	}

	history = append([]ports.MatchRecord{rec}, history...)
	if len(history) > historyCap {
		history = history[:historyCap]
	}

	value, err := json.Marshal(history)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history for %s: %w", userID, err)
	}

	return &runtime.StorageWrite{
		Collection:      historyCollection,
		Key:             historyKey,
		UserID:          userID,
		Value:           string(value),
		Version:         version,
		PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
		PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
	}, nil
}

var _ ports.ResultStore = (*StorageResultStore)(nil)
