package bot

import (
	"fmt"
)

// BotLevel selects a strategy for a bot identity.
type BotLevel int

const (
	BotLevelStandard BotLevel = iota
	BotLevelSmart
)

// LevelFromDifficulty maps an identity's difficulty string to a level.
// Unknown strings get the standard brain.
func LevelFromDifficulty(difficulty string) BotLevel {
	if difficulty == "smart" || difficulty == "hard" {
		return BotLevelSmart
	}
	return BotLevelStandard
}

// NewBrain creates a new AI brain for the specified level.
func NewBrain(level BotLevel) (Brain, error) {
	switch level {
	case BotLevelStandard:
		return &StandardBrain{}, nil
	case BotLevelSmart:
		return NewSmartBrain(), nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}

// NewAgent builds an agent for a provisioned bot identity.
func NewAgent(userID string) (*Agent, error) {
	identity, ok := GetBotConfig(userID)
	if !ok {
		// A stand-in for an unknown id still plays, just conservatively.
		return &Agent{ID: userID, Name: userID, Strategy: &StandardBrain{}}, nil
	}
	brain, err := NewBrain(LevelFromDifficulty(identity.Difficulty))
	if err != nil {
		return nil, err
	}
	return &Agent{ID: userID, Name: identity.DisplayName, Strategy: brain}, nil
}
