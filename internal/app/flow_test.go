package app

import (
	"testing"

	"deadline/internal/domain"
)

func findEvent(events []Event, kind EventKind) (Event, bool) {
	for _, ev := range events {
		if ev.Kind == kind {
			return ev, true
		}
	}
	return Event{}, false
}

// A task worked to completion across three turns lands its reward before
// the deadline expires.
func TestTaskCompletionAcrossDays(t *testing.T) {
	s := newTestService(t, testRules())
	g := startedGame(t, s)

	advanceTo(t, s, g, domain.PhaseCardPlay)
	card := giveCard(t, s, g, 0, "essay") // deadline 3, required 10, reward 5, penalty 3
	mustOK(t)(s.PlayCard(g, 0, PlayCardInput{CardID: card.InstanceID, TargetSeat: 0}))

	for _, hours := range []int{4, 4} {
		advanceTo(t, s, g, domain.PhaseTimeAllocation)
		mustOK(t)(s.AllocateTime(g, 0, card.InstanceID, hours))
		pass(t, s, g)   // seat 0 done for the day
		endDay(t, s, g) // seat 1 closes the day, seat 0 opens the next
		if g.Current != 0 {
			t.Fatalf("seat %d opens day %d, want 0", g.Current, g.Day)
		}
	}
	if got := g.Players[0].Table[0].RemainingDeadline; got != 1 {
		t.Fatalf("deadline after two day-ends = %d, want 1", got)
	}

	advanceTo(t, s, g, domain.PhaseTimeAllocation)
	events := mustOK(t)(s.AllocateTime(g, 0, card.InstanceID, 2))

	if _, ok := findEvent(events, EventTaskCompleted); !ok {
		t.Fatalf("missing task_completed: %+v", events)
	}
	if len(g.Players[0].Table) != 0 {
		t.Fatal("completed task must leave the table")
	}
	if g.Players[0].Score != 5 {
		t.Fatalf("score = %d, want +5 reward exactly once", g.Players[0].Score)
	}
}

// A task never worked on burns at its third day-end for the penalty.
func TestTaskBurnsAfterThreeIdleDays(t *testing.T) {
	s := newTestService(t, testRules())
	g := startedGame(t, s)

	advanceTo(t, s, g, domain.PhaseCardPlay)
	card := giveCard(t, s, g, 0, "essay")
	mustOK(t)(s.PlayCard(g, 0, PlayCardInput{CardID: card.InstanceID, TargetSeat: 0}))

	var events []Event
	for i := 0; i < 3; i++ {
		if len(g.Players[0].Table) != 1 {
			t.Fatalf("task left the table early, before day-end %d", i+1)
		}
		events = endDay(t, s, g)
	}

	if _, ok := findEvent(events, EventTaskBurned); !ok {
		t.Fatalf("missing task_burned on the third day-end: %+v", events)
	}
	if len(g.Players[0].Table) != 0 {
		t.Fatal("burned task must leave the table")
	}
	if g.Players[0].Score != -3 {
		t.Fatalf("score = %d, want -3 penalty", g.Players[0].Score)
	}
}

// Both players reaching the win target in the same day-end check is a draw.
func TestSimultaneousWinIsDraw(t *testing.T) {
	s := newTestService(t, testRules())
	g := startedGame(t, s)

	g.Players[0].Score = 100
	g.Players[1].Score = 104
	events := endDay(t, s, g)

	if !g.Over() {
		t.Fatal("game must end at the day-end check")
	}
	if !g.Verdict.Draw || g.Verdict.Reason != domain.ReasonBothWon {
		t.Fatalf("verdict = %+v, want a both-won draw", g.Verdict)
	}
	ev, ok := findEvent(events, EventMatchEnded)
	if !ok {
		t.Fatalf("missing match_ended: %+v", events)
	}
	payload := ev.Payload.(MatchEndedPayload)
	if !payload.Draw || payload.WinnerSeat != -1 {
		t.Fatalf("match_ended payload = %+v", payload)
	}
}

func TestLossFloorEndsMatch(t *testing.T) {
	s := newTestService(t, testRules())
	g := startedGame(t, s)

	g.Players[1].Score = -100
	endDay(t, s, g)

	if !g.Over() || g.Verdict.Winner != 0 || g.Verdict.Reason != domain.ReasonLossFloor {
		t.Fatalf("verdict = %+v, want seat 0 win by loss_floor", g.Verdict)
	}
}

func TestOutOfCardsEndsMatch(t *testing.T) {
	s := newTestService(t, testRules())
	g := startedGame(t, s)

	g.Players[1].Deck.Cards = nil
	g.Players[1].Hand = nil
	endDay(t, s, g)

	if !g.Over() || g.Verdict.Winner != 0 || g.Verdict.Reason != domain.ReasonOutOfCards {
		t.Fatalf("verdict = %+v, want seat 0 win by out_of_cards", g.Verdict)
	}
}

func TestTermLimitEndsMatch(t *testing.T) {
	rules := testRules()
	rules.DaysInTerm = 2
	s := newTestService(t, rules)
	g := startedGame(t, s)

	g.Players[0].Score = 10
	g.Players[1].Score = 5

	endDay(t, s, g) // day 2 begins, inside the term
	if g.Over() {
		t.Fatalf("game ended early: %+v", g.Verdict)
	}
	endDay(t, s, g) // day 3 would exceed the two-day term

	if !g.Over() || g.Verdict.Winner != 0 || g.Verdict.Reason != domain.ReasonTermOver {
		t.Fatalf("verdict = %+v, want seat 0 win by term_over", g.Verdict)
	}
}

// A short, complete match: the essay is worked to completion across three
// days and the reward crosses a miniature win target.
func TestFullMatchFlow(t *testing.T) {
	rules := testRules()
	rules.WinTarget = 5
	s := newTestService(t, rules)
	g := startedGame(t, s)

	advanceTo(t, s, g, domain.PhaseCardPlay)
	card := giveCard(t, s, g, 0, "essay")
	mustOK(t)(s.PlayCard(g, 0, PlayCardInput{CardID: card.InstanceID, TargetSeat: 0}))

	for _, hours := range []int{4, 4} {
		advanceTo(t, s, g, domain.PhaseTimeAllocation)
		mustOK(t)(s.AllocateTime(g, 0, card.InstanceID, hours))
		pass(t, s, g)
		endDay(t, s, g)
	}
	advanceTo(t, s, g, domain.PhaseTimeAllocation)
	mustOK(t)(s.AllocateTime(g, 0, card.InstanceID, 2))

	events := endDay(t, s, g)
	ev, ok := findEvent(events, EventMatchEnded)
	if !ok {
		t.Fatalf("missing match_ended: %+v", events)
	}
	payload := ev.Payload.(MatchEndedPayload)
	if payload.WinnerSeat != 0 || payload.Reason != domain.ReasonScoreTarget {
		t.Fatalf("match_ended payload = %+v, want seat 0 by score_target", payload)
	}
	if payload.Scores[0] != 5 {
		t.Fatalf("final scores = %v", payload.Scores)
	}

	// The finished game is inert.
	if _, err := s.EndDay(g, g.Current); err == nil {
		t.Fatal("actions after game over must fail")
	}

	settled := domain.CalculateSettlement(g, 100, 0.05)
	if settled["alice"] != 95 || settled["bob"] != -100 {
		t.Fatalf("settlement = %v", settled)
	}
}
