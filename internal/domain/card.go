package domain

// CardKind distinguishes the two families of cards in the catalog.
type CardKind string

const (
	// KindTask marks cards that become active tasks on a table.
	KindTask CardKind = "task"
	// KindEffect marks cards that modify clocks or active tasks.
	KindEffect CardKind = "effect"
)

// Target selects whose state an effect card acts on, relative to the caster.
type Target string

const (
	TargetSelf     Target = "self"
	TargetOpponent Target = "opponent"
)

// Duration describes how long an effect card's modifier persists.
type Duration string

const (
	// DurationInstant effects mutate state once and are never stored.
	DurationInstant Duration = "instant"
	// DurationTurn effects last until the end of the turn they were cast in.
	DurationTurn Duration = "turn"
	// DurationDay effects last until the end of the current day.
	DurationDay Duration = "day"
)

// TaskSpec holds the immutable parameters of a task card.
type TaskSpec struct {
	DeadlineTurns int `json:"deadline_turns"` // day-ends the task survives before burning
	RequiredHours int `json:"required_hours"` // cumulative hours needed to complete
	RewardPoints  int `json:"reward_points"`
	PenaltyPoints int `json:"penalty_points"`
}

// EffectSpec holds the immutable parameters of an effect card.
//
// ClockScalePct is an integer percentage (150 = x1.5); zero means no scaling.
// DeadlineDelta adjusts a targeted active task's remaining deadline and is
// only legal on instant effects. CostHours is deducted from the caster's
// remaining clock when the card is played.
type EffectSpec struct {
	Target        Target   `json:"target"`
	Duration      Duration `json:"duration"`
	CostHours     int      `json:"cost_hours,omitempty"`
	ClockDelta    int      `json:"clock_delta,omitempty"`
	ClockScalePct int      `json:"clock_scale_pct,omitempty"`
	DeadlineDelta int      `json:"deadline_delta,omitempty"`
}

// CardDefinition is one catalog entry. Exactly one of Task or Effect is set,
// matching Kind. Copies is how many instances of the card each player's deck
// is populated with.
type CardDefinition struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Kind   CardKind    `json:"kind"`
	Copies int         `json:"copies"`
	Task   *TaskSpec   `json:"task,omitempty"`
	Effect *EffectSpec `json:"effect,omitempty"`
}

// CardInstance is one concrete copy of a definition. Instances are the unit
// moved between deck, hand and table; no two instances in a match share an
// InstanceID even when their definitions match.
type CardInstance struct {
	InstanceID string
	Def        *CardDefinition
}

// IsTask reports whether the instance is a task card.
func (c *CardInstance) IsTask() bool { return c.Def.Kind == KindTask }

// IsEffect reports whether the instance is an effect card.
func (c *CardInstance) IsEffect() bool { return c.Def.Kind == KindEffect }
