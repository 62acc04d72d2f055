package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyCatalog is returned when a catalog holds no card copies at all.
var ErrEmptyCatalog = errors.New("catalog holds no card copies")

// Catalog is the validated, immutable set of card definitions a match draws
// its decks from. It is safe for concurrent reads.
type Catalog struct {
	defs []*CardDefinition
	byID map[string]*CardDefinition
}

// NewCatalog validates the definitions and builds the lookup index. The
// slice is retained; callers must not mutate definitions afterwards.
func NewCatalog(defs []*CardDefinition) (*Catalog, error) {
	byID := make(map[string]*CardDefinition, len(defs))
	totalCopies := 0
	for i, def := range defs {
		if err := validateDefinition(def); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		if _, dup := byID[def.ID]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate card id %q", i, def.ID)
		}
		byID[def.ID] = def
		totalCopies += def.Copies
	}
	if totalCopies == 0 {
		return nil, ErrEmptyCatalog
	}
	return &Catalog{defs: defs, byID: byID}, nil
}

// Def looks up a definition by id.
func (c *Catalog) Def(id string) (*CardDefinition, bool) {
	def, ok := c.byID[id]
	return def, ok
}

// Defs returns the definitions in catalog order.
func (c *Catalog) Defs() []*CardDefinition { return c.defs }

func validateDefinition(def *CardDefinition) error {
	if def == nil {
		return errors.New("nil definition")
	}
	if def.ID == "" {
		return errors.New("missing card id")
	}
	if def.Copies < 0 {
		return fmt.Errorf("card %q: negative copies", def.ID)
	}
	switch def.Kind {
	case KindTask:
		if def.Task == nil || def.Effect != nil {
			return fmt.Errorf("card %q: task cards need exactly a task spec", def.ID)
		}
		return validateTaskSpec(def.ID, def.Task)
	case KindEffect:
		if def.Effect == nil || def.Task != nil {
			return fmt.Errorf("card %q: effect cards need exactly an effect spec", def.ID)
		}
		return validateEffectSpec(def.ID, def.Effect)
	default:
		return fmt.Errorf("card %q: unknown kind %q", def.ID, def.Kind)
	}
}

func validateTaskSpec(id string, t *TaskSpec) error {
	if t.DeadlineTurns <= 0 {
		return fmt.Errorf("card %q: deadline must be positive", id)
	}
	if t.RequiredHours <= 0 {
		return fmt.Errorf("card %q: required hours must be positive", id)
	}
	if t.RewardPoints < 0 || t.PenaltyPoints < 0 {
		return fmt.Errorf("card %q: reward and penalty must be non-negative", id)
	}
	return nil
}

func validateEffectSpec(id string, e *EffectSpec) error {
	switch e.Target {
	case TargetSelf, TargetOpponent:
	default:
		return fmt.Errorf("card %q: unknown target %q", id, e.Target)
	}
	switch e.Duration {
	case DurationInstant, DurationTurn, DurationDay:
	default:
		return fmt.Errorf("card %q: unknown duration %q", id, e.Duration)
	}
	if e.CostHours < 0 {
		return fmt.Errorf("card %q: negative cost", id)
	}
	if e.ClockScalePct < 0 {
		return fmt.Errorf("card %q: negative clock scale", id)
	}
	if e.DeadlineDelta != 0 && e.Duration != DurationInstant {
		return fmt.Errorf("card %q: deadline modifiers must be instant", id)
	}
	if e.ClockDelta == 0 && e.ClockScalePct == 0 && e.DeadlineDelta == 0 {
		return fmt.Errorf("card %q: effect modifies nothing", id)
	}
	return nil
}
