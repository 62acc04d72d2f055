package domain

// ActiveEffect is a stored clock modifier attached to a player. Instant
// effects are applied and discarded, never stored; only turn and day
// durations appear in a player's effect list. Slice order is cast order.
type ActiveEffect struct {
	Card     *CardInstance
	Duration Duration
	CastTurn int // global turn counter value when the effect was cast
}

// Spec returns the effect parameters of the underlying card.
func (e *ActiveEffect) Spec() *EffectSpec { return e.Card.Def.Effect }

// ComputeClockCapacity computes a player's hour budget for a turn: the base
// value, plus every stored additive delta, then each percentage scale
// applied in cast order, clamped to [0, maxHours]. maxHours <= 0 means
// uncapped.
func ComputeClockCapacity(base int, effects []*ActiveEffect, maxHours int) int {
	hours := base
	for _, e := range effects {
		hours += e.Spec().ClockDelta
	}
	for _, e := range effects {
		if pct := e.Spec().ClockScalePct; pct > 0 {
			hours = hours * pct / 100
		}
	}
	if hours < 0 {
		hours = 0
	}
	if maxHours > 0 && hours > maxHours {
		hours = maxHours
	}
	return hours
}

// DropTurnEffects removes every turn-duration effect from the list,
// returning the kept effects and the dropped cards.
func DropTurnEffects(effects []*ActiveEffect) (kept []*ActiveEffect, dropped []*CardInstance) {
	for _, e := range effects {
		if e.Duration == DurationTurn {
			dropped = append(dropped, e.Card)
			continue
		}
		kept = append(kept, e)
	}
	return kept, dropped
}
