package domain

// CalculateSettlement returns wallet deltas for a finished game: the loser
// pays the stake and the winner collects it minus the house tax. Draws,
// unfinished games and unstaked games settle to nothing.
func CalculateSettlement(g *Game, stake int64, taxRate float64) map[string]int64 {
	if g.Verdict == nil || g.Verdict.Draw || stake <= 0 {
		return nil
	}
	winner := g.Players[g.Verdict.Winner]
	loser := g.Players[Opponent(g.Verdict.Winner)]

	payout := stake
	if taxRate > 0 {
		payout -= int64(float64(stake) * taxRate)
	}
	return map[string]int64{
		winner.UserID: payout,
		loser.UserID:  -stake,
	}
}
