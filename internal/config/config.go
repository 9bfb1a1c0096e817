package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// GameConfig holds the tunables loaded from the data folder. Environment
// variables read in MatchInit override individual fields.
type GameConfig struct {
	// WinnerRewardChips is credited to the winner's wallet on game end.
	WinnerRewardChips int64 `json:"winner_reward_chips"`

	TurnDurationSeconds int `json:"turn_duration_seconds"`

	BotMinDelaySeconds int `json:"bot_min_delay_seconds"`
	BotMaxDelaySeconds int `json:"bot_max_delay_seconds"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before
	// adding bots to a solo human lobby.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`

	VoiceIssuer string `json:"voice_issuer"`
	VoiceDomain string `json:"voice_domain"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
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

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetWinnerReward returns the configured winner payout with a safe default.
func GetWinnerReward() int64 {
	if cfg == nil || cfg.WinnerRewardChips <= 0 {
		return 100
	}
	return cfg.WinnerRewardChips
}

// GetTurnDuration returns the per-turn clock in seconds with a safe default.
func GetTurnDuration() int {
	if cfg == nil || cfg.TurnDurationSeconds <= 0 {
		return 30
	}
	return cfg.TurnDurationSeconds
}
