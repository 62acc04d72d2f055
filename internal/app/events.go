package app

// EventKind identifies emitted engine events for Nakama dispatch.
type EventKind string

const (
	EventPlayerJoined  EventKind = "player_joined"
	EventPlayerLeft    EventKind = "player_left"
	EventMatchStarted  EventKind = "match_started"
	EventHandDealt     EventKind = "hand_dealt"
	EventTurnStarted   EventKind = "turn_started"
	EventCardsDrawn    EventKind = "cards_drawn"
	EventPhaseAdvanced EventKind = "phase_advanced"
	EventCardPlayed    EventKind = "card_played"
	EventTaskAdded     EventKind = "task_added"
	EventEffectApplied EventKind = "effect_applied"
	EventTimeAllocated EventKind = "time_allocated"
	EventTaskCompleted EventKind = "task_completed"
	EventTaskBurned    EventKind = "task_burned"
	EventTurnPassed    EventKind = "turn_passed"
	EventDayEnded      EventKind = "day_ended"
	EventMatchEnded    EventKind = "match_ended"
	EventStateSnapshot EventKind = "state_snapshot"
)

// Event is an engine event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type PlayerJoinedPayload struct {
	UserID string `json:"user_id"`
	Seat   int    `json:"seat"`
	Owner  bool   `json:"owner"`
}

type PlayerLeftPayload struct {
	UserID string `json:"user_id"`
}

type MatchStartedPayload struct {
	Seats     [2]string `json:"seats"`
	Day       int       `json:"day"`
	FirstSeat int       `json:"first_seat"`
}

type HandDealtPayload struct {
	Seat int        `json:"seat"`
	Hand []CardView `json:"hand"`
}

type TurnStartedPayload struct {
	Seat  int    `json:"seat"`
	Day   int    `json:"day"`
	Turn  int    `json:"turn"`
	Phase string `json:"phase"`
}

type CardsDrawnPayload struct {
	Seat      int        `json:"seat"`
	Cards     []CardView `json:"cards"`
	Discarded int        `json:"discarded"`
	Returned  int        `json:"returned"`
	DeckSize  int        `json:"deck_size"`
	Clock     ClockView  `json:"clock"`
	Phase     string     `json:"phase"`
}

type PhaseAdvancedPayload struct {
	Seat  int    `json:"seat"`
	Phase string `json:"phase"`
}

type CardPlayedPayload struct {
	Seat int      `json:"seat"`
	Card CardView `json:"card"`
}

type TaskAddedPayload struct {
	OwnerSeat int      `json:"owner_seat"`
	Task      TaskView `json:"task"`
}

type EffectAppliedPayload struct {
	CasterSeat int       `json:"caster_seat"`
	TargetSeat int       `json:"target_seat"`
	CardID     string    `json:"card_id"`
	Duration   string    `json:"duration"`
	TaskID     string    `json:"task_id,omitempty"`
	Clock      ClockView `json:"clock"`
}

type TimeAllocatedPayload struct {
	Seat           int       `json:"seat"`
	TaskID         string    `json:"task_id"`
	Hours          int       `json:"hours"`
	RemainingHours int       `json:"remaining_hours"`
	Clock          ClockView `json:"clock"`
}

type TaskCompletedPayload struct {
	OwnerSeat int    `json:"owner_seat"`
	TaskID    string `json:"task_id"`
	Reward    int    `json:"reward"`
	Score     int    `json:"score"`
}

type TaskBurnedPayload struct {
	OwnerSeat int    `json:"owner_seat"`
	TaskID    string `json:"task_id"`
	Penalty   int    `json:"penalty"`
	Score     int    `json:"score"`
}

type TurnPassedPayload struct {
	Seat     int `json:"seat"`
	NextSeat int `json:"next_seat"`
}

type DayEndedPayload struct {
	Seat   int    `json:"seat"` // seat that ended the day
	Day    int    `json:"day"`  // new day number
	Scores [2]int `json:"scores"`
}

type MatchEndedPayload struct {
	Draw           bool             `json:"draw"`
	WinnerSeat     int              `json:"winner_seat"` // -1 on a draw
	Reason         string           `json:"reason"`
	Scores         [2]int           `json:"scores"`
	BalanceChanges map[string]int64 `json:"balance_changes,omitempty"`
}
