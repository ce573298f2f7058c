package nakama

import (
	"context"
	"database/sql"

	"tichu/internal/bot"
	"tichu/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs, hooks and the match handler into the Nakama
// runtime, and provisions the bot account pool.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if path, ok := env["tichu_config_path"]; ok && path != "" {
		if err := config.LoadGameConfig(path); err != nil {
			logger.Warn("InitModule: could not load game config: %v", err)
		}
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameTichu, NewMatch); err != nil {
		return err
	}

	if err := EnsureRatingLeaderboard(ctx, nk); err != nil {
		logger.Warn("InitModule: could not create rating leaderboard: %v", err)
	}

	if err := bot.LoadIdentities(config.GetBotIdentitiesPath()); err != nil {
		logger.Warn("InitModule: could not load bot identities: %v", err)
	} else if err := bot.ProvisionBots(ctx, nk, logger); err != nil {
		logger.Warn("InitModule: bot provisioning incomplete: %v", err)
	}

	logger.Info("Tichu Go module loaded.")
	return nil
}
