package app

import "deadline/internal/domain"

// CardView is the wire shape of a card instance, definition included so
// clients never need a separate catalog fetch.
type CardView struct {
	InstanceID string             `json:"instance_id"`
	DefID      string             `json:"def_id"`
	Name       string             `json:"name"`
	Kind       string             `json:"kind"`
	Task       *domain.TaskSpec   `json:"task,omitempty"`
	Effect     *domain.EffectSpec `json:"effect,omitempty"`
}

// TaskView is the wire shape of an active task.
type TaskView struct {
	Card              CardView `json:"card"`
	RemainingDeadline int      `json:"remaining_deadline"`
	RemainingHours    int      `json:"remaining_hours"`
}

// EffectView is the wire shape of a stored effect.
type EffectView struct {
	Card     CardView `json:"card"`
	Duration string   `json:"duration"`
}

// ClockView is the wire shape of a player's turn clock.
type ClockView struct {
	Capacity  int `json:"capacity"`
	Spent     int `json:"spent"`
	Remaining int `json:"remaining"`
}

// PlayerView is one seat as seen by a viewer. Hand contents are only
// present for the viewer's own seat; opponents see the count.
type PlayerView struct {
	UserID   string       `json:"user_id"`
	Seat     int          `json:"seat"`
	Score    int          `json:"score"`
	DeckSize int          `json:"deck_size"`
	HandSize int          `json:"hand_size"`
	Hand     []CardView   `json:"hand,omitempty"`
	Table    []TaskView   `json:"table"`
	Effects  []EffectView `json:"effects"`
	Clock    ClockView    `json:"clock"`
}

// RulesView exposes the match parameters a client needs for its UI.
type RulesView struct {
	HandCapacity   int `json:"hand_capacity"`
	TableCapacity  int `json:"table_capacity"`
	BaseClockHours int `json:"base_clock_hours"`
	WinTarget      int `json:"win_target"`
	LossFloor      int `json:"loss_floor"`
	DaysInTerm     int `json:"days_in_term"`
}

// Snapshot is a read-only, per-viewer view of the full game state.
type Snapshot struct {
	ViewerSeat  int             `json:"viewer_seat"`
	Day         int             `json:"day"`
	Turn        int             `json:"turn"`
	Phase       string          `json:"phase"`
	CurrentSeat int             `json:"current_seat"`
	Players     [2]PlayerView   `json:"players"`
	Verdict     *domain.Verdict `json:"verdict,omitempty"`
	Rules       RulesView       `json:"rules"`
}

// Snapshot renders the game for one viewer, redacting the opponent's hand
// to its size. A negative viewerSeat yields a spectator view with both
// hands redacted.
func (s *Service) Snapshot(g *domain.Game, viewerSeat int) Snapshot {
	snap := Snapshot{
		ViewerSeat:  viewerSeat,
		Day:         g.Day,
		Turn:        g.Turn,
		Phase:       string(g.Phase),
		CurrentSeat: g.Current,
		Verdict:     g.Verdict,
		Rules: RulesView{
			HandCapacity:   g.Rules.HandCapacity,
			TableCapacity:  g.Rules.TableCapacity,
			BaseClockHours: g.Rules.BaseClockHours,
			WinTarget:      g.Rules.WinTarget,
			LossFloor:      g.Rules.LossFloor,
			DaysInTerm:     g.Rules.DaysInTerm,
		},
	}
	for seat, p := range g.Players {
		view := PlayerView{
			UserID:   p.UserID,
			Seat:     seat,
			Score:    p.Score,
			DeckSize: p.Deck.Size(),
			HandSize: len(p.Hand),
			Table:    taskViews(p.Table),
			Effects:  effectViews(p.Effects),
			Clock:    clockView(p),
		}
		if seat == viewerSeat {
			view.Hand = cardViews(p.Hand)
		}
		snap.Players[seat] = view
	}
	return snap
}

func cardView(c *domain.CardInstance) CardView {
	return CardView{
		InstanceID: c.InstanceID,
		DefID:      c.Def.ID,
		Name:       c.Def.Name,
		Kind:       string(c.Def.Kind),
		Task:       c.Def.Task,
		Effect:     c.Def.Effect,
	}
}

func cardViews(cards []*domain.CardInstance) []CardView {
	out := make([]CardView, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardView(c))
	}
	return out
}

func taskView(t *domain.ActiveTask) TaskView {
	return TaskView{
		Card:              cardView(t.Card),
		RemainingDeadline: t.RemainingDeadline,
		RemainingHours:    t.RemainingHours,
	}
}

func taskViews(tasks []*domain.ActiveTask) []TaskView {
	out := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskView(t))
	}
	return out
}

func effectViews(effects []*domain.ActiveEffect) []EffectView {
	out := make([]EffectView, 0, len(effects))
	for _, e := range effects {
		out = append(out, EffectView{Card: cardView(e.Card), Duration: string(e.Duration)})
	}
	return out
}

func clockView(p *domain.PlayerState) ClockView {
	return ClockView{
		Capacity:  p.ClockCapacity,
		Spent:     p.ClockSpent,
		Remaining: p.ClockRemaining(),
	}
}
