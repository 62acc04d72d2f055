package app

import (
	"errors"
	"math/rand"
	"time"

	"deadline/internal/domain"
)

// Service contains the Deadline turn-engine use-cases operating on domain
// state. Every action validates its preconditions before touching the game,
// so a returned error always means the state is unchanged.
type Service struct {
	rng     *rand.Rand
	catalog *domain.Catalog
	rules   domain.Rules
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(rng *rand.Rand, catalog *domain.Catalog, rules domain.Rules) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng, catalog: catalog, rules: rules}
}

var (
	ErrTooFewPlayers = errors.New("two seated players are required")
	ErrBadSeat       = errors.New("seat index out of range")
)

// Rules returns the rule set matches started by this service run under.
func (s *Service) Rules() domain.Rules { return s.rules }

// StartMatch builds a fresh game for the two seated users, shuffles each
// player's deck, deals the opening hands and opens the first turn.
func (s *Service) StartMatch(userIDs [2]string, firstSeat int) (*domain.Game, []Event, error) {
	if userIDs[0] == "" || userIDs[1] == "" {
		return nil, nil, ErrTooFewPlayers
	}
	if firstSeat < 0 || firstSeat > 1 {
		firstSeat = 0
	}

	g := &domain.Game{
		Current: firstSeat,
		Day:     1,
		Turn:    1,
		Phase:   domain.PhaseTurnStart,
		Rules:   s.rules,
	}
	for seat, uid := range userIDs {
		deck := domain.NewDeck(s.catalog, seat)
		deck.Shuffle(s.rng)
		p := &domain.PlayerState{UserID: uid, Seat: seat, Deck: deck}
		p.RecomputeClock(s.rules.BaseClockHours, s.rules.MaxClockHours)
		g.Players[seat] = p
	}

	events := []Event{{
		Kind: EventMatchStarted,
		Payload: MatchStartedPayload{
			Seats:     userIDs,
			Day:       g.Day,
			FirstSeat: firstSeat,
		},
	}}
	for seat, p := range g.Players {
		s.drawToHand(p, s.rules.OpeningHandSize)
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{Seat: seat, Hand: cardViews(p.Hand)},
			Recipients: []string{p.UserID},
		})
	}
	events = append(events, turnStartedEvent(g))
	return g, events, nil
}

// DrawPhaseAdvance performs the active player's turn-start processing:
// clock reset and recompute, then the configured draw, then the transition
// to the card-play phase.
func (s *Service) DrawPhaseAdvance(g *domain.Game, seat int) ([]Event, error) {
	if err := validateAction(g, seat, domain.PhaseTurnStart); err != nil {
		return nil, err
	}
	p := g.CurrentPlayer()
	p.ClockSpent = 0
	p.RecomputeClock(s.rules.BaseClockHours, s.rules.MaxClockHours)

	kept, discarded, returned := s.drawToHand(p, s.rules.DrawCount)
	g.Phase = domain.PhaseCardPlay

	return []Event{
		{
			Kind: EventCardsDrawn,
			Payload: CardsDrawnPayload{
				Seat:      seat,
				Cards:     cardViews(kept),
				Discarded: discarded,
				Returned:  returned,
				DeckSize:  p.Deck.Size(),
				Clock:     clockView(p),
				Phase:     string(g.Phase),
			},
			Recipients: []string{p.UserID},
		},
		phaseAdvancedEvent(seat, g.Phase),
	}, nil
}

// PlayCardInput identifies the card to play and its target. TargetSeat
// picks the table a task card lands on; effect targets come from the card
// definition. TargetTaskID names the active task an instant deadline
// modifier applies to.
type PlayCardInput struct {
	CardID       string
	TargetSeat   int
	TargetTaskID string
}

// PlayCard plays a card from the active player's hand during the card-play
// phase, activating a task or resolving an effect.
func (s *Service) PlayCard(g *domain.Game, seat int, in PlayCardInput) ([]Event, error) {
	if err := validateAction(g, seat, domain.PhaseCardPlay); err != nil {
		return nil, err
	}
	card, ok := g.CurrentPlayer().FindInHand(in.CardID)
	if !ok {
		return nil, domain.ErrCardNotInHand
	}
	if card.IsTask() {
		return s.playTask(g, seat, card, in)
	}
	return s.playEffect(g, seat, card, in)
}

func (s *Service) playTask(g *domain.Game, seat int, card *domain.CardInstance, in PlayCardInput) ([]Event, error) {
	if in.TargetSeat < 0 || in.TargetSeat > 1 {
		return nil, domain.ErrInvalidTarget
	}
	owner := g.Players[in.TargetSeat]

	task := domain.NewActiveTask(card)
	if err := owner.AddTask(task, s.rules.TableCapacity); err != nil {
		return nil, err
	}
	// The card was found in hand above, so removal cannot fail now.
	g.CurrentPlayer().RemoveFromHand(card.InstanceID)

	return []Event{
		{Kind: EventCardPlayed, Payload: CardPlayedPayload{Seat: seat, Card: cardView(card)}},
		{Kind: EventTaskAdded, Payload: TaskAddedPayload{OwnerSeat: in.TargetSeat, Task: taskView(task)}},
	}, nil
}

func (s *Service) playEffect(g *domain.Game, seat int, card *domain.CardInstance, in PlayCardInput) ([]Event, error) {
	spec := card.Def.Effect
	caster := g.CurrentPlayer()
	targetSeat := seat
	if spec.Target == domain.TargetOpponent {
		targetSeat = domain.Opponent(seat)
	}
	target := g.Players[targetSeat]

	if spec.CostHours > caster.ClockRemaining() {
		return nil, domain.ErrInsufficientClock
	}
	var task *domain.ActiveTask
	if spec.DeadlineDelta != 0 {
		var ok bool
		if task, ok = target.TaskByID(in.TargetTaskID); !ok {
			return nil, domain.ErrInvalidTask
		}
	}

	// Validations passed; from here the whole effect applies.
	caster.RemoveFromHand(card.InstanceID)
	caster.ClockSpent += spec.CostHours

	events := []Event{
		{Kind: EventCardPlayed, Payload: CardPlayedPayload{Seat: seat, Card: cardView(card)}},
	}

	var burned *domain.ActiveTask
	switch spec.Duration {
	case domain.DurationInstant:
		if spec.ClockDelta != 0 || spec.ClockScalePct > 0 {
			hours := target.ClockCapacity + spec.ClockDelta
			if pct := spec.ClockScalePct; pct > 0 {
				hours = hours * pct / 100
			}
			if hours < 0 {
				hours = 0
			}
			if limit := s.rules.MaxClockHours; limit > 0 && hours > limit {
				hours = limit
			}
			target.ClockCapacity = hours
		}
		if task != nil && task.AdjustDeadline(spec.DeadlineDelta) {
			burned = task
		}
	default:
		target.Effects = append(target.Effects, &domain.ActiveEffect{
			Card:     card,
			Duration: spec.Duration,
			CastTurn: g.Turn,
		})
		if targetSeat == g.Current {
			// Self-targeted boosts take hold this turn, not next.
			target.RecomputeClock(s.rules.BaseClockHours, s.rules.MaxClockHours)
		}
	}

	events = append(events, Event{
		Kind: EventEffectApplied,
		Payload: EffectAppliedPayload{
			CasterSeat: seat,
			TargetSeat: targetSeat,
			CardID:     card.Def.ID,
			Duration:   string(spec.Duration),
			TaskID:     in.TargetTaskID,
			Clock:      clockView(target),
		},
	})
	if burned != nil {
		events = append(events, s.burnTask(target, burned))
	}
	return events, nil
}

// AllocateTime spends hours from the active player's clock against one of
// their own active tasks. Completion resolves in the same step.
func (s *Service) AllocateTime(g *domain.Game, seat int, taskID string, hours int) ([]Event, error) {
	if err := validateAction(g, seat, domain.PhaseTimeAllocation); err != nil {
		return nil, err
	}
	if hours <= 0 {
		return nil, domain.ErrInvalidHours
	}
	p := g.CurrentPlayer()
	task, ok := p.TaskByID(taskID)
	if !ok {
		return nil, domain.ErrInvalidTask
	}
	if hours > p.ClockRemaining() {
		return nil, domain.ErrInsufficientClock
	}

	p.ClockSpent += hours
	done := task.ApplyHours(hours)

	events := []Event{{
		Kind: EventTimeAllocated,
		Payload: TimeAllocatedPayload{
			Seat:           seat,
			TaskID:         taskID,
			Hours:          hours,
			RemainingHours: task.RemainingHours,
			Clock:          clockView(p),
		},
	}}
	if done {
		p.RemoveTask(taskID)
		reward := task.Card.Def.Task.RewardPoints
		p.Credit(reward)
		events = append(events, Event{
			Kind: EventTaskCompleted,
			Payload: TaskCompletedPayload{
				OwnerSeat: p.Seat,
				TaskID:    taskID,
				Reward:    reward,
				Score:     p.Score,
			},
		})
	}
	return events, nil
}

// EndTurnPhase is the active player's explicit completion signal. It
// advances card-play to time-allocation, time-allocation to turn-end, and
// from turn-end it passes the turn to the opponent.
func (s *Service) EndTurnPhase(g *domain.Game, seat int) ([]Event, error) {
	if err := validateAction(g, seat, domain.PhaseCardPlay, domain.PhaseTimeAllocation, domain.PhaseTurnEnd); err != nil {
		return nil, err
	}
	switch g.Phase {
	case domain.PhaseCardPlay:
		g.Phase = domain.PhaseTimeAllocation
		return []Event{phaseAdvancedEvent(seat, g.Phase)}, nil
	case domain.PhaseTimeAllocation:
		g.Phase = domain.PhaseTurnEnd
		return []Event{phaseAdvancedEvent(seat, g.Phase)}, nil
	default:
		return s.passTurn(g, seat), nil
	}
}

// EndDay closes the current day instead of passing: deadlines advance on
// both tables, overdue tasks burn, stored effects expire, and the
// termination check runs. Unless the game is over, the opponent opens the
// next day.
func (s *Service) EndDay(g *domain.Game, seat int) ([]Event, error) {
	if err := validateAction(g, seat, domain.PhaseTurnEnd); err != nil {
		return nil, err
	}

	var events []Event
	for _, p := range g.Players {
		for _, task := range append([]*domain.ActiveTask(nil), p.Table...) {
			if task.AdjustDeadline(-1) {
				events = append(events, s.burnTask(p, task))
			}
		}
		// Every stored effect expires at or before the day boundary.
		p.Effects = nil
	}

	g.Day++
	events = append(events, Event{
		Kind: EventDayEnded,
		Payload: DayEndedPayload{
			Seat:   seat,
			Day:    g.Day,
			Scores: scores(g),
		},
	})

	if v := domain.CheckTermination(g); v != nil {
		return append(events, s.finish(g, v)), nil
	}

	g.Current = domain.Opponent(seat)
	g.Turn++
	g.Phase = domain.PhaseTurnStart
	return append(events, turnStartedEvent(g)), nil
}

// ForceEndTurn completes the active player's turn as a pass from any
// in-turn phase. The host's turn timer drives it; a pending turn-start
// draw still happens so the timed-out player keeps their card flow.
func (s *Service) ForceEndTurn(g *domain.Game, seat int) ([]Event, error) {
	if g.Over() {
		return nil, domain.ErrGameAlreadyOver
	}
	if seat != g.Current {
		return nil, domain.ErrNotYourTurn
	}
	var events []Event
	if g.Phase == domain.PhaseTurnStart {
		drawn, err := s.DrawPhaseAdvance(g, seat)
		if err != nil {
			return nil, err
		}
		events = drawn
	}
	return append(events, s.passTurn(g, seat)...), nil
}

// Forfeit resigns a seat and hands the win to the opponent. The host calls
// it when a player abandons an active match; the engine never detects
// abandonment itself.
func (s *Service) Forfeit(g *domain.Game, seat int) ([]Event, error) {
	if g.Over() {
		return nil, domain.ErrGameAlreadyOver
	}
	if seat < 0 || seat > 1 {
		return nil, ErrBadSeat
	}
	v := &domain.Verdict{Winner: domain.Opponent(seat), Reason: domain.ReasonForfeit}
	return []Event{s.finish(g, v)}, nil
}

func (s *Service) passTurn(g *domain.Game, seat int) []Event {
	// Turn-scoped effects expire with the turn they were cast in.
	for _, p := range g.Players {
		p.Effects, _ = domain.DropTurnEffects(p.Effects)
	}
	g.Current = domain.Opponent(seat)
	g.Turn++
	g.Phase = domain.PhaseTurnStart
	return []Event{
		{Kind: EventTurnPassed, Payload: TurnPassedPayload{Seat: seat, NextSeat: g.Current}},
		turnStartedEvent(g),
	}
}

func (s *Service) burnTask(p *domain.PlayerState, task *domain.ActiveTask) Event {
	p.RemoveTask(task.Card.InstanceID)
	penalty := task.Card.Def.Task.PenaltyPoints
	p.Debit(penalty)
	return Event{
		Kind: EventTaskBurned,
		Payload: TaskBurnedPayload{
			OwnerSeat: p.Seat,
			TaskID:    task.Card.InstanceID,
			Penalty:   penalty,
			Score:     p.Score,
		},
	}
}

func (s *Service) finish(g *domain.Game, v *domain.Verdict) Event {
	g.Verdict = v
	g.Phase = domain.PhaseGameOver
	return Event{
		Kind: EventMatchEnded,
		Payload: MatchEndedPayload{
			Draw:       v.Draw,
			WinnerSeat: v.Winner,
			Reason:     v.Reason,
			Scores:     scores(g),
		},
	}
}

// drawToHand draws up to n cards into the player's hand. Cards past the
// hand capacity are discarded, or returned to the top of the deck when the
// rules say so.
func (s *Service) drawToHand(p *domain.PlayerState, n int) (kept []*domain.CardInstance, discarded, returned int) {
	var excess []*domain.CardInstance
	for _, c := range p.Deck.Draw(n) {
		if err := p.AddToHand(c, s.rules.HandCapacity); err != nil {
			excess = append(excess, c)
			continue
		}
		kept = append(kept, c)
	}
	if len(excess) == 0 {
		return kept, 0, 0
	}
	if s.rules.ReturnUndrawn {
		p.Deck.PutBack(excess)
		return kept, 0, len(excess)
	}
	return kept, len(excess), 0
}

func validateAction(g *domain.Game, seat int, phases ...domain.Phase) error {
	if seat < 0 || seat > 1 {
		return ErrBadSeat
	}
	if g.Over() {
		return domain.ErrGameAlreadyOver
	}
	if seat != g.Current {
		return domain.ErrNotYourTurn
	}
	for _, ph := range phases {
		if g.Phase == ph {
			return nil
		}
	}
	return domain.ErrWrongPhase
}

func turnStartedEvent(g *domain.Game) Event {
	return Event{
		Kind: EventTurnStarted,
		Payload: TurnStartedPayload{
			Seat:  g.Current,
			Day:   g.Day,
			Turn:  g.Turn,
			Phase: string(g.Phase),
		},
	}
}

func phaseAdvancedEvent(seat int, phase domain.Phase) Event {
	return Event{
		Kind:    EventPhaseAdvanced,
		Payload: PhaseAdvancedPayload{Seat: seat, Phase: string(phase)},
	}
}

func scores(g *domain.Game) [2]int {
	return [2]int{g.Players[0].Score, g.Players[1].Score}
}
