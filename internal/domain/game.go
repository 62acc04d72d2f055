package domain

// Phase represents the stage of the turn state machine a game is in.
type Phase string

const (
	// PhaseTurnStart is the top of a turn, before the draw has happened.
	PhaseTurnStart Phase = "turn_start"
	// PhaseCardPlay accepts zero or more card plays from the active player.
	PhaseCardPlay Phase = "card_play"
	// PhaseTimeAllocation accepts hour allocations against active tasks.
	PhaseTimeAllocation Phase = "time_allocation"
	// PhaseTurnEnd is where the active player chooses pass or end-day.
	PhaseTurnEnd Phase = "turn_end"
	// PhaseGameOver is terminal; every further action is rejected.
	PhaseGameOver Phase = "game_over"
)

// Game is the complete authoritative state of one match. It is the single
// root of mutation: only engine operations touch it, and the host
// serializes those per match.
type Game struct {
	Players [2]*PlayerState

	Current int // seat index of the active player
	Day     int // 1-based day counter
	Turn    int // global turn counter, increments on every pass

	Phase   Phase
	Verdict *Verdict // set exactly when Phase becomes PhaseGameOver

	Rules Rules
}

// CurrentPlayer returns the active seat's state.
func (g *Game) CurrentPlayer() *PlayerState { return g.Players[g.Current] }

// Opponent returns the seat index facing the given seat.
func Opponent(seat int) int { return 1 - seat }

// SeatOf resolves a user id to a seat index, or -1 when the user is not
// seated in this game.
func (g *Game) SeatOf(userID string) int {
	for seat, p := range g.Players {
		if p != nil && p.UserID == userID {
			return seat
		}
	}
	return -1
}

// Over reports whether the game has reached its terminal state.
func (g *Game) Over() bool { return g.Phase == PhaseGameOver }
