package domain

import "testing"

func fx(spec EffectSpec, dur Duration) *ActiveEffect {
	def := mkEffect("fx", 1, spec)
	return &ActiveEffect{
		Card:     &CardInstance{InstanceID: "fx#1", Def: def},
		Duration: dur,
	}
}

func TestComputeClockCapacity(t *testing.T) {
	add := func(n int) *ActiveEffect {
		return fx(EffectSpec{Target: TargetSelf, Duration: DurationDay, ClockDelta: n}, DurationDay)
	}
	scale := func(pct int) *ActiveEffect {
		return fx(EffectSpec{Target: TargetSelf, Duration: DurationDay, ClockScalePct: pct}, DurationDay)
	}

	tests := []struct {
		name    string
		base    int
		effects []*ActiveEffect
		max     int
		want    int
	}{
		{"base only", 8, nil, 24, 8},
		{"additive stack", 8, []*ActiveEffect{add(4), add(-2)}, 24, 10},
		{"additive before multiplicative", 8, []*ActiveEffect{scale(150), add(2)}, 24, 15},
		{"scales compose in cast order", 10, []*ActiveEffect{scale(150), scale(50)}, 24, 7},
		{"negative clamps to zero", 4, []*ActiveEffect{add(-10)}, 24, 0},
		{"capped at max", 20, []*ActiveEffect{add(10)}, 24, 24},
		{"uncapped when max is zero", 20, []*ActiveEffect{add(10)}, 0, 30},
		{"integer truncation", 5, []*ActiveEffect{scale(150)}, 24, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeClockCapacity(tt.base, tt.effects, tt.max); got != tt.want {
				t.Fatalf("ComputeClockCapacity() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDropTurnEffects(t *testing.T) {
	turn := fx(EffectSpec{Target: TargetSelf, Duration: DurationTurn, ClockDelta: 2}, DurationTurn)
	day := fx(EffectSpec{Target: TargetSelf, Duration: DurationDay, ClockDelta: 3}, DurationDay)

	kept, dropped := DropTurnEffects([]*ActiveEffect{turn, day})
	if len(kept) != 1 || kept[0] != day {
		t.Fatalf("kept = %v, want only the day effect", kept)
	}
	if len(dropped) != 1 || dropped[0] != turn.Card {
		t.Fatalf("dropped = %v, want the turn effect's card", dropped)
	}

	kept, dropped = DropTurnEffects(nil)
	if kept != nil || dropped != nil {
		t.Fatalf("DropTurnEffects(nil) = %v, %v, want nil, nil", kept, dropped)
	}
}
