package domain

// ActiveTask is a task card in play on its owner's table. The owner is the
// player whose Table slice holds the entry.
//
// RemainingDeadline counts day-ends: it is decremented once per day end and
// the task burns when it reaches 0 before completion. RemainingHours is
// decremented by time allocations and the task completes the moment it
// reaches 0. Both stay non-negative at every observation point, and a task
// leaves the table in the same step that either terminal condition fires.
type ActiveTask struct {
	Card              *CardInstance
	RemainingDeadline int
	RemainingHours    int
}

// NewActiveTask activates a task card with its full deadline and required
// hours.
func NewActiveTask(card *CardInstance) *ActiveTask {
	return &ActiveTask{
		Card:              card,
		RemainingDeadline: card.Def.Task.DeadlineTurns,
		RemainingHours:    card.Def.Task.RequiredHours,
	}
}

// ApplyHours decrements the remaining requirement by the allocated hours,
// clamped at zero, and reports whether the task is now complete.
func (t *ActiveTask) ApplyHours(hours int) bool {
	t.RemainingHours -= hours
	if t.RemainingHours < 0 {
		t.RemainingHours = 0
	}
	return t.RemainingHours == 0
}

// AdjustDeadline shifts the remaining deadline by delta, clamped at zero,
// and reports whether the task must burn now (deadline exhausted).
func (t *ActiveTask) AdjustDeadline(delta int) bool {
	t.RemainingDeadline += delta
	if t.RemainingDeadline < 0 {
		t.RemainingDeadline = 0
	}
	return t.RemainingDeadline == 0
}
