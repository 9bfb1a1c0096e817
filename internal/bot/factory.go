package bot

import (
	"fmt"
)

// BotLevel selects a strategy tier.
type BotLevel int

const (
	BotLevelBasic BotLevel = iota
	BotLevelSmart
)

// NewBrain creates a new AI brain based on the specified level.
func NewBrain(level BotLevel) (Brain, error) {
	switch level {
	case BotLevelBasic:
		return &BasicBot{}, nil
	case BotLevelSmart:
		return &SmartBot{}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}

// NewAgent builds an agent for a bot user, picking the strategy tier from
// its identity configuration. Unknown bots get the smart tier.
func NewAgent(botID string) (*Agent, error) {
	level := BotLevelSmart
	name := GetBotDisplayName(botID)

	if identity, ok := GetBotConfig(botID); ok {
		if identity.Difficulty == "easy" {
			level = BotLevelBasic
		}
	}

	brain, err := NewBrain(level)
	if err != nil {
		return nil, err
	}

	return &Agent{
		ID:       botID,
		Name:     name,
		Strategy: brain,
	}, nil
}
