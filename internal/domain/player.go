package domain

// PlayerState holds everything owned by one seat of a match.
//
// The clock is tracked as a capacity plus hours spent this turn; the
// observable remaining budget is the difference, clamped at zero. Capacity
// is recomputed from base value and stored effects at the owner's turn
// start, and again whenever a duration effect lands on the player mid-turn.
type PlayerState struct {
	UserID string
	Seat   int

	Deck    *Deck
	Hand    []*CardInstance
	Table   []*ActiveTask
	Effects []*ActiveEffect

	ClockCapacity int
	ClockSpent    int
	Score         int
}

// ClockRemaining returns the hours still available this turn.
func (p *PlayerState) ClockRemaining() int {
	rem := p.ClockCapacity - p.ClockSpent
	if rem < 0 {
		return 0
	}
	return rem
}

// RecomputeClock refreshes the capacity from the base value and the
// player's stored effects. Spent hours are never refunded.
func (p *PlayerState) RecomputeClock(base, maxHours int) {
	p.ClockCapacity = ComputeClockCapacity(base, p.Effects, maxHours)
}

// AddToHand appends a card, enforcing the hand capacity.
func (p *PlayerState) AddToHand(card *CardInstance, capacity int) error {
	if capacity > 0 && len(p.Hand) >= capacity {
		return ErrHandFull
	}
	p.Hand = append(p.Hand, card)
	return nil
}

// RemoveFromHand takes a card out of the hand by instance id.
func (p *PlayerState) RemoveFromHand(instanceID string) (*CardInstance, error) {
	for i, c := range p.Hand {
		if c.InstanceID == instanceID {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return c, nil
		}
	}
	return nil, ErrCardNotInHand
}

// FindInHand looks a card up without removing it.
func (p *PlayerState) FindInHand(instanceID string) (*CardInstance, bool) {
	for _, c := range p.Hand {
		if c.InstanceID == instanceID {
			return c, true
		}
	}
	return nil, false
}

// AddTask places an active task on the player's table, enforcing the
// per-player table capacity.
func (p *PlayerState) AddTask(task *ActiveTask, capacity int) error {
	if capacity > 0 && len(p.Table) >= capacity {
		return ErrTableFull
	}
	p.Table = append(p.Table, task)
	return nil
}

// TaskByID finds an active task on the player's table.
func (p *PlayerState) TaskByID(instanceID string) (*ActiveTask, bool) {
	for _, t := range p.Table {
		if t.Card.InstanceID == instanceID {
			return t, true
		}
	}
	return nil, false
}

// RemoveTask drops a task from the table by card instance id.
func (p *PlayerState) RemoveTask(instanceID string) {
	for i, t := range p.Table {
		if t.Card.InstanceID == instanceID {
			p.Table = append(p.Table[:i], p.Table[i+1:]...)
			return
		}
	}
}

// CardsTotal counts every card the player still controls across deck, hand
// and table. A player at zero has no possible further action.
func (p *PlayerState) CardsTotal() int {
	return p.Deck.Size() + len(p.Hand) + len(p.Table)
}
