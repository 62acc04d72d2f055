package config

import (
	"testing"

	"deadline/internal/domain"
)

const sampleConfig = `{
  "rules": {
    "hand_capacity": 6,
    "table_capacity": 4,
    "draw_count": 1,
    "opening_hand_size": 5,
    "base_clock_hours": 8,
    "max_clock_hours": 24,
    "win_target": 100,
    "loss_floor_enabled": true,
    "loss_floor": -100,
    "days_in_term": 30
  },
  "match": {
    "turn_duration_seconds": 90,
    "stake_gold": 100,
    "tax_rate": 0.05
  },
  "cards": [
    {
      "id": "essay",
      "name": "Essay",
      "kind": "task",
      "copies": 6,
      "task": {"deadline_turns": 3, "required_hours": 10, "reward_points": 5, "penalty_points": 3}
    },
    {
      "id": "coffee",
      "name": "Coffee",
      "kind": "effect",
      "copies": 4,
      "effect": {"target": "self", "duration": "instant", "clock_delta": 4}
    }
  ]
}`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	rules := cfg.DomainRules()
	if rules.HandCapacity != 6 || rules.WinTarget != 100 || !rules.LossFloorEnabled {
		t.Fatalf("rules = %+v", rules)
	}
	if rules.ReturnUndrawn {
		t.Fatal("omitted flags must stay false")
	}
	if cfg.Match.TurnDurationSeconds != 90 || cfg.Match.StakeGold != 100 {
		t.Fatalf("match block = %+v", cfg.Match)
	}

	cat, err := cfg.Catalog()
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	if def, ok := cat.Def("coffee"); !ok || def.Effect.ClockDelta != 4 {
		t.Fatalf("catalog coffee = %+v, %v", def, ok)
	}
}

func TestParseDefaultsWithoutRulesBlock(t *testing.T) {
	cfg, err := Parse([]byte(`{
		"cards": [
			{"id": "essay", "kind": "task", "copies": 1,
			 "task": {"deadline_turns": 1, "required_hours": 1}}
		]
	}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := cfg.DomainRules(); got != domain.DefaultRules() {
		t.Fatalf("rules = %+v, want defaults", got)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed json", `{"rules":`},
		{"empty catalog", `{"cards": []}`},
		{"invalid card", `{"cards": [{"id": "x", "kind": "task", "copies": 1}]}`},
		{"zero base clock", `{
			"rules": {"base_clock_hours": 0, "win_target": 100},
			"cards": [{"id": "a", "kind": "task", "copies": 1, "task": {"deadline_turns": 1, "required_hours": 1}}]
		}`},
		{"zero win target", `{
			"rules": {"base_clock_hours": 8},
			"cards": [{"id": "a", "kind": "task", "copies": 1, "task": {"deadline_turns": 1, "required_hours": 1}}]
		}`},
		{"tax rate out of range", `{
			"match": {"tax_rate": 1.5},
			"cards": [{"id": "a", "kind": "task", "copies": 1, "task": {"deadline_turns": 1, "required_hours": 1}}]
		}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); err == nil {
				t.Fatal("Parse() error = nil, want error")
			}
		})
	}
}
