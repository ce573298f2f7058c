package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// GameConfig carries every tunable the match handler reads. All durations
// are seconds; the handler runs at one tick per second.
type GameConfig struct {
	TargetScore int `json:"target_score"`

	GrandSeconds      int `json:"grand_seconds"`
	ExchangeSeconds   int `json:"exchange_seconds"`
	TurnSeconds       int `json:"turn_seconds"`
	GiftSeconds       int `json:"gift_seconds"`
	ScoreboardSeconds int `json:"scoreboard_seconds"`
	LobbyFillSeconds  int `json:"lobby_fill_seconds"`
	EmptyGraceSeconds int `json:"empty_grace_seconds"`

	BotsEnabled    bool   `json:"bots_enabled"`
	BotMinDelaySec int    `json:"bot_min_delay_sec"`
	BotMaxDelaySec int    `json:"bot_max_delay_sec"`
	BotIdentities  string `json:"bot_identities_path"`

	RejoinSecret     string `json:"rejoin_secret"`
	RejoinTTLSeconds int    `json:"rejoin_ttl_seconds"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path once.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the loaded configuration, or nil before LoadGameConfig.
func GetGameConfig() *GameConfig {
	return cfg
}

// Getters never fail: missing or zero values fall back to safe defaults so
// a match can always run.

func GetTargetScore() int        { return intOrDefault(func(c *GameConfig) int { return c.TargetScore }, 1000) }
func GetGrandSeconds() int       { return intOrDefault(func(c *GameConfig) int { return c.GrandSeconds }, 30) }
func GetExchangeSeconds() int    { return intOrDefault(func(c *GameConfig) int { return c.ExchangeSeconds }, 45) }
func GetTurnSeconds() int        { return intOrDefault(func(c *GameConfig) int { return c.TurnSeconds }, 25) }
func GetGiftSeconds() int        { return intOrDefault(func(c *GameConfig) int { return c.GiftSeconds }, 15) }
func GetScoreboardSeconds() int  { return intOrDefault(func(c *GameConfig) int { return c.ScoreboardSeconds }, 10) }
func GetLobbyFillSeconds() int   { return intOrDefault(func(c *GameConfig) int { return c.LobbyFillSeconds }, 20) }
func GetEmptyGraceSeconds() int  { return intOrDefault(func(c *GameConfig) int { return c.EmptyGraceSeconds }, 30) }
func GetBotMinDelaySec() int     { return intOrDefault(func(c *GameConfig) int { return c.BotMinDelaySec }, 1) }
func GetBotMaxDelaySec() int     { return intOrDefault(func(c *GameConfig) int { return c.BotMaxDelaySec }, 3) }
func GetRejoinTTLSeconds() int   { return intOrDefault(func(c *GameConfig) int { return c.RejoinTTLSeconds }, 900) }

// GetBotsEnabled defaults to true: a table short of humans fills with bots.
func GetBotsEnabled() bool {
	if cfg == nil {
		return true
	}
	return cfg.BotsEnabled
}

// GetBotIdentitiesPath returns the bot identity pool location.
func GetBotIdentitiesPath() string {
	if cfg == nil || cfg.BotIdentities == "" {
		return "data/bot_identities.json"
	}
	return cfg.BotIdentities
}

// GetRejoinSecret returns the HS256 secret for rejoin tokens; empty
// disables seat reclaim.
func GetRejoinSecret() string {
	if cfg == nil {
		return ""
	}
	return cfg.RejoinSecret
}

func intOrDefault(get func(*GameConfig) int, def int) int {
	if cfg == nil {
		return def
	}
	if v := get(cfg); v > 0 {
		return v
	}
	return def
}
