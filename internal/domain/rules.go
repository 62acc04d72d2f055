package domain

// Rules are the engine knobs for one match. Values come from configuration;
// the engine treats them as read-only for the lifetime of a game.
type Rules struct {
	HandCapacity    int // max cards in hand; 0 = unlimited
	TableCapacity   int // max active tasks per player; 0 = unlimited
	DrawCount       int // cards drawn at turn start
	OpeningHandSize int // cards dealt to each player at match start

	BaseClockHours int // clock capacity before effect modifiers
	MaxClockHours  int // hard cap on a turn's clock; 0 = uncapped

	WinTarget        int  // score that wins at the day-end check
	LossFloorEnabled bool // whether LossFloor applies
	LossFloor        int  // score at or below which a player loses

	DeckExhaustionLoses bool // empty deck at day end is a loss condition
	ReturnUndrawn       bool // overdrawn cards go back on the deck instead of burning
	DaysInTerm          int  // match ends after this many days; 0 = endless
}

// DefaultRules returns the baseline parameter set used when configuration
// leaves the rules block out. The numbers mirror the shipped game config.
func DefaultRules() Rules {
	return Rules{
		HandCapacity:        6,
		TableCapacity:       4,
		DrawCount:           1,
		OpeningHandSize:     5,
		BaseClockHours:      8,
		MaxClockHours:       24,
		WinTarget:           100,
		LossFloorEnabled:    true,
		LossFloor:           -100,
		DeckExhaustionLoses: false,
		ReturnUndrawn:       false,
		DaysInTerm:          30,
	}
}
