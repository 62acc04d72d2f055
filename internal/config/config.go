package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"deadline/internal/domain"
)

// RulesConfig is the engine rule block of the config file. When the block
// is omitted entirely, domain.DefaultRules applies; when present it is
// taken literally, zero values included.
type RulesConfig struct {
	HandCapacity        int  `json:"hand_capacity"`
	TableCapacity       int  `json:"table_capacity"`
	DrawCount           int  `json:"draw_count"`
	OpeningHandSize     int  `json:"opening_hand_size"`
	BaseClockHours      int  `json:"base_clock_hours"`
	MaxClockHours       int  `json:"max_clock_hours"`
	WinTarget           int  `json:"win_target"`
	LossFloorEnabled    bool `json:"loss_floor_enabled"`
	LossFloor           int  `json:"loss_floor"`
	DeckExhaustionLoses bool `json:"deck_exhaustion_loses"`
	ReturnUndrawn       bool `json:"return_undrawn"`
	DaysInTerm          int  `json:"days_in_term"`
}

// MatchConfig carries host-level knobs that sit outside the rules engine.
type MatchConfig struct {
	// TurnDurationSeconds configures the host turn timer; 0 disables it.
	TurnDurationSeconds int `json:"turn_duration_seconds"`
	// StakeGold is the wallet stake settled per match; 0 plays for free.
	StakeGold int64 `json:"stake_gold"`
	// TaxRate is the house cut shaved off the winner's payout.
	TaxRate float64 `json:"tax_rate"`
}

// GameConfig is the root of data/game_config.json.
type GameConfig struct {
	Rules *RulesConfig             `json:"rules,omitempty"`
	Match MatchConfig              `json:"match"`
	Cards []*domain.CardDefinition `json:"cards"`
}

// DomainRules converts the rule block to engine parameters.
func (c *GameConfig) DomainRules() domain.Rules {
	if c.Rules == nil {
		return domain.DefaultRules()
	}
	r := c.Rules
	return domain.Rules{
		HandCapacity:        r.HandCapacity,
		TableCapacity:       r.TableCapacity,
		DrawCount:           r.DrawCount,
		OpeningHandSize:     r.OpeningHandSize,
		BaseClockHours:      r.BaseClockHours,
		MaxClockHours:       r.MaxClockHours,
		WinTarget:           r.WinTarget,
		LossFloorEnabled:    r.LossFloorEnabled,
		LossFloor:           r.LossFloor,
		DeckExhaustionLoses: r.DeckExhaustionLoses,
		ReturnUndrawn:       r.ReturnUndrawn,
		DaysInTerm:          r.DaysInTerm,
	}
}

// Catalog validates the card list and builds the catalog.
func (c *GameConfig) Catalog() (*domain.Catalog, error) {
	return domain.NewCatalog(c.Cards)
}

// Parse decodes and validates a config document. It is the file-free
// entry point used by tests and embedding hosts.
func Parse(data []byte) (*GameConfig, error) {
	var c GameConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if _, err := c.Catalog(); err != nil {
		return nil, fmt.Errorf("invalid card catalog: %w", err)
	}
	rules := c.DomainRules()
	if rules.BaseClockHours <= 0 {
		return nil, fmt.Errorf("base_clock_hours must be positive, got %d", rules.BaseClockHours)
	}
	if rules.DrawCount < 0 || rules.OpeningHandSize < 0 {
		return nil, fmt.Errorf("draw counts must be non-negative")
	}
	if rules.WinTarget <= 0 {
		return nil, fmt.Errorf("win_target must be positive, got %d", rules.WinTarget)
	}
	if c.Match.TaxRate < 0 || c.Match.TaxRate >= 1 {
		return nil, fmt.Errorf("tax_rate must be in [0,1), got %v", c.Match.TaxRate)
	}
	return &c, nil
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the global game configuration from the given path.
// The first call wins; subsequent calls return the first result.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}
		c, err := Parse(data)
		if err != nil {
			loadErr = err
			return
		}
		cfg = c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or nil before a
// successful LoadGameConfig.
func GetGameConfig() *GameConfig {
	return cfg
}
