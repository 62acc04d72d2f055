package domain

// Verdict reasons reported when a game reaches its terminal state.
const (
	ReasonScoreTarget   = "score_target"
	ReasonLossFloor     = "loss_floor"
	ReasonOutOfCards    = "out_of_cards"
	ReasonDeckExhausted = "deck_exhausted"
	ReasonTermOver      = "term_over"
	ReasonForfeit       = "forfeit"
	ReasonBothWon       = "both_won"
	ReasonBothLost      = "both_lost"
)

// Verdict is the outcome of a finished game.
type Verdict struct {
	Draw   bool   `json:"draw"`
	Winner int    `json:"winner"` // seat index, -1 on a draw
	Reason string `json:"reason"`
}

// Credit adds points to the player's score.
func (p *PlayerState) Credit(points int) { p.Score += points }

// Debit removes points from the player's score. Scores may go negative;
// the loss floor is a termination condition, not a clamp.
func (p *PlayerState) Debit(points int) { p.Score -= points }

// CheckTermination evaluates the end-of-day win and loss conditions and
// returns the verdict, or nil when play continues.
//
// Winners are players at or above the win target; losers are players at or
// below the loss floor, with no cards left anywhere, or with an exhausted
// deck when configured as a loss. Two winners or two losers make a draw; a
// single loser hands the win to the opponent. When the term is over the
// higher score wins outright.
func CheckTermination(g *Game) *Verdict {
	r := g.Rules
	var won, lost [2]bool
	var lossReason [2]string
	for seat, p := range g.Players {
		if p.Score >= r.WinTarget {
			won[seat] = true
		}
		switch {
		case r.LossFloorEnabled && p.Score <= r.LossFloor:
			lost[seat], lossReason[seat] = true, ReasonLossFloor
		case p.CardsTotal() == 0:
			lost[seat], lossReason[seat] = true, ReasonOutOfCards
		case r.DeckExhaustionLoses && p.Deck.Size() == 0:
			lost[seat], lossReason[seat] = true, ReasonDeckExhausted
		}
	}

	switch {
	case won[0] && won[1]:
		return &Verdict{Draw: true, Winner: -1, Reason: ReasonBothWon}
	case won[0]:
		return &Verdict{Winner: 0, Reason: ReasonScoreTarget}
	case won[1]:
		return &Verdict{Winner: 1, Reason: ReasonScoreTarget}
	case lost[0] && lost[1]:
		return &Verdict{Draw: true, Winner: -1, Reason: ReasonBothLost}
	case lost[0]:
		return &Verdict{Winner: 1, Reason: lossReason[0]}
	case lost[1]:
		return &Verdict{Winner: 0, Reason: lossReason[1]}
	}

	if r.DaysInTerm > 0 && g.Day > r.DaysInTerm {
		s0, s1 := g.Players[0].Score, g.Players[1].Score
		switch {
		case s0 > s1:
			return &Verdict{Winner: 0, Reason: ReasonTermOver}
		case s1 > s0:
			return &Verdict{Winner: 1, Reason: ReasonTermOver}
		default:
			return &Verdict{Draw: true, Winner: -1, Reason: ReasonTermOver}
		}
	}
	return nil
}
