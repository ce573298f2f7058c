package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/heroiclabs/nakama-common/runtime"
)

// BotIdentity is one entry of the provisioned bot pool. Difficulty selects
// the brain: "standard" or "smart".
type BotIdentity struct {
	DeviceID    string `json:"device_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Difficulty  string `json:"difficulty"`
	AvatarIndex int    `json:"avatar_index"`
}

var (
	botIdentities []BotIdentity
	botConfigMap  map[string]BotIdentity
	loadOnce      sync.Once
	provisionOnce sync.Once
	loadErr       error
)

// LoadIdentities loads the bot profiles from the given path.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}

		if err := json.Unmarshal(data, &botIdentities); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}

		botConfigMap = make(map[string]BotIdentity)
		for _, identity := range botIdentities {
			if identity.UserID != "" {
				botConfigMap[identity.UserID] = identity
			}
		}
	})
	return loadErr
}

// ProvisionBots ensures the bot accounts exist in the Nakama database and
// carry the is_bot metadata. UserIDs assigned by authentication replace
// whatever the identity file shipped.
func ProvisionBots(ctx context.Context, nk runtime.NakamaModule, logger runtime.Logger) error {
	provisionOnce.Do(func() {
		for i := range botIdentities {
			identity := &botIdentities[i]
			if identity.DeviceID == "" {
				continue
			}

			userID, username, _, authErr := nk.AuthenticateDevice(ctx, identity.DeviceID, identity.Username, true)
			if authErr != nil {
				logger.Error("ProvisionBots: failed to authenticate bot %s: %v", identity.Username, authErr)
				continue
			}

			identity.UserID = userID
			identity.Username = username

			metadata := map[string]interface{}{
				"is_bot":       true,
				"difficulty":   identity.Difficulty,
				"avatar_index": identity.AvatarIndex,
			}
			if authErr = nk.AccountUpdateId(ctx, userID, identity.Username, metadata, identity.DisplayName, "", "", "", ""); authErr != nil {
				logger.Warn("ProvisionBots: failed to update bot account %s: %v", userID, authErr)
			}

			botConfigMap[userID] = *identity

			logger.Info("ProvisionBots: bot %s (%s) ready, difficulty %s", identity.DisplayName, userID, identity.Difficulty)
		}
	})
	return nil
}

// GetBotConfig returns the full identity configuration for a given bot ID.
func GetBotConfig(userID string) (BotIdentity, bool) {
	config, ok := botConfigMap[userID]
	return config, ok
}

// GetBotUsername returns the username for a bot ID, or "" if not a bot.
func GetBotUsername(userID string) string {
	return botConfigMap[userID].Username
}

// GetBotDisplayName returns the display name for a bot ID, falling back to
// the username.
func GetBotDisplayName(userID string) string {
	identity := botConfigMap[userID]
	if identity.DisplayName == "" {
		return identity.Username
	}
	return identity.DisplayName
}

// GetBotIdentity returns an identity from the pool by index (mod pool size).
func GetBotIdentity(index int) BotIdentity {
	if len(botIdentities) == 0 {
		return BotIdentity{
			UserID:      fmt.Sprintf("bot-%d", index),
			DisplayName: fmt.Sprintf("AI Player %d", index),
			Difficulty:  "standard",
		}
	}
	return botIdentities[index%len(botIdentities)]
}

// IsBot reports whether the user ID belongs to the bot pool.
func IsBot(userID string) bool {
	_, ok := botConfigMap[userID]
	return ok
}

// GetAllBotIDs returns all provisioned bot user IDs.
func GetAllBotIDs() []string {
	ids := make([]string, 0, len(botConfigMap))
	for id := range botConfigMap {
		ids = append(ids, id)
	}
	return ids
}
