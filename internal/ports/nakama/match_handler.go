package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"deadline/internal/app"
	"deadline/internal/config"
	"deadline/internal/domain"
	"deadline/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// matchStartTurnBonusSeconds pads the very first turn so clients have time
// to render the opening deal before the countdown bites.
const matchStartTurnBonusSeconds = 5

// MatchLabel is the queryable JSON label attached to every match.
type MatchLabel struct {
	Open  bool   `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
}

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats                [2]string                   `json:"seats"`                  // User IDs, empty string means the seat is free
	LastLoserSeat        int                         `json:"last_loser_seat"`        // Seat that lost the previous game, -1 if none
	Tick                 int64                       `json:"tick"`                   // Current tick of the match for turn-based logic
	TurnSecondsRemaining int64                       `json:"turn_seconds_remaining"` // Countdown for the active turn
	TurnDurationSeconds  int                         `json:"turn_duration_seconds"`  // Per-turn budget, 0 disables the timer
	StakeGold            int64                       `json:"stake_gold"`             // Wallet stake settled per game
	TaxRate              float64                     `json:"tax_rate"`               // House cut on the winner's payout
	Presences            map[string]runtime.Presence `json:"-"`                      // Map UserId -> Presence for targeted messaging
	App                  *app.Service                `json:"-"`                      // Deadline rules engine
	Game                 *domain.Game                `json:"-"`                      // Current active game state (nil while in lobby)
	Economy              ports.EconomyPort           `json:"-"`                      // Interface to Nakama wallet
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" {
			count++
		}
	}
	return count
}

// SeatOf returns the seat index held by the user or -1.
func (ms *MatchState) SeatOf(userID string) int {
	for i, seat := range ms.Seats {
		if seat != "" && seat == userID {
			return i
		}
	}
	return -1
}

// buildLabel renders the match label; open means quick match may route
// another player here.
func buildLabel(state *MatchState) string {
	phase := LabelPhaseLobby
	if state.Game != nil {
		phase = LabelPhasePlaying
	}
	b, _ := json.Marshal(MatchLabel{
		Open:  state.Game == nil && state.GetOpenSeatsCount() > 0,
		Game:  GameName,
		Phase: phase,
	})
	return string(b)
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	cfg := config.GetGameConfig()
	if cfg == nil {
		logger.Error("MatchInit: Game config has not been loaded.")
		return nil, 0, ""
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		logger.Error("MatchInit: Invalid card catalog: %v", err)
		return nil, 0, ""
	}

	state := &MatchState{
		LastLoserSeat:       -1,
		Tick:                time.Now().Unix(),
		TurnDurationSeconds: cfg.Match.TurnDurationSeconds,
		StakeGold:           cfg.Match.StakeGold,
		TaxRate:             cfg.Match.TaxRate,
		Presences:           make(map[string]runtime.Presence),
		App:                 app.NewService(nil, catalog, cfg.DomainRules()),
		Economy:             NewNakamaEconomyAdapter(nk),
	}

	tickRate := 1 // the turn timer counts in whole seconds
	return state, tickRate, buildLabel(state)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Reconnects keep their seat at any point in the match.
	if matchState.SeatOf(presence.GetUserId()) >= 0 {
		return state, true, ""
	}
	if matchState.Game != nil {
		return state, false, "match in progress"
	}
	if matchState.GetOpenSeatsCount() <= 0 {
		return state, false, "match full"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		if seat := matchState.SeatOf(p.GetUserId()); seat >= 0 {
			// Reconnect: replay the authoritative view privately.
			logger.Info("MatchJoin: User %s reconnected to seat %d.", p.GetUserId(), seat)
			if matchState.Game != nil {
				mh.sendSnapshot(ctx, matchState, dispatcher, logger, p.GetUserId())
			}
			continue
		}

		assigned := -1
		for i, seatUserId := range matchState.Seats {
			if seatUserId == "" {
				matchState.Seats[i] = p.GetUserId()
				assigned = i
				break
			}
		}
		if assigned < 0 {
			logger.Warn("MatchJoin: User %s joined but no seat was available.", p.GetUserId())
			continue
		}

		mh.broadcastEvent(ctx, matchState, dispatcher, logger, app.Event{
			Kind: app.EventPlayerJoined,
			Payload: app.PlayerJoinedPayload{
				UserID: p.GetUserId(),
				Seat:   assigned,
				Owner:  assigned == 0,
			},
		})
	}

	mh.updateLabel(matchState, dispatcher, logger)

	return matchState
}

// MatchLeave is called when one or more players leave the match. Walking
// out of an active game forfeits it.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())

		seat := matchState.SeatOf(p.GetUserId())
		if seat < 0 {
			continue
		}

		if matchState.Game != nil && !matchState.Game.Over() {
			events, err := matchState.App.Forfeit(matchState.Game, seat)
			if err != nil {
				logger.Error("MatchLeave: Forfeit for seat %d failed: %v", seat, err)
			}
			for _, ev := range events {
				mh.broadcastEvent(ctx, matchState, dispatcher, logger, ev)
			}
		}

		matchState.Seats[seat] = ""
		logger.Debug("MatchLeave: User %s left, seat %d freed.", p.GetUserId(), seat)

		mh.broadcastEvent(ctx, matchState, dispatcher, logger, app.Event{
			Kind:    app.EventPlayerLeft,
			Payload: app.PlayerLeftPayload{UserID: p.GetUserId()},
		})
	}

	if matchState.GetOccupiedSeatCount() == 0 {
		logger.Info("MatchLeave: Terminating empty match.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartMatch:
			mh.handleStartMatch(ctx, matchState, dispatcher, logger, msg)
		case OpDrawPhaseAdvance:
			mh.handleDrawPhaseAdvance(ctx, matchState, dispatcher, logger, msg)
		case OpPlayCard:
			mh.handlePlayCard(ctx, matchState, dispatcher, logger, msg)
		case OpAllocateTime:
			mh.handleAllocateTime(ctx, matchState, dispatcher, logger, msg)
		case OpEndTurnPhase:
			mh.handleEndTurnPhase(ctx, matchState, dispatcher, logger, msg)
		case OpEndDay:
			mh.handleEndDay(ctx, matchState, dispatcher, logger, msg)
		case OpRequestState:
			mh.handleRequestState(ctx, matchState, dispatcher, logger, msg)
		case OpRequestRematch:
			mh.handleRequestRematch(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.tickTurnTimer(ctx, matchState, dispatcher, logger)

	return matchState
}

// tickTurnTimer counts the active turn down and forces a pass at zero.
func (mh *matchHandler) tickTurnTimer(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game == nil || state.Game.Over() || state.TurnDurationSeconds <= 0 {
		return
	}

	state.TurnSecondsRemaining--
	if state.TurnSecondsRemaining > 0 {
		return
	}

	seat := state.Game.Current
	logger.Info("tickTurnTimer: Turn timer expired for seat %d, forcing end of turn.", seat)
	events, err := state.App.ForceEndTurn(state.Game, seat)
	if err != nil {
		logger.Error("tickTurnTimer: Failed to force end of turn: %v", err)
		mh.resetTurnTimer(state, 0)
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

// resetTurnTimer restarts the countdown for the turn that just opened.
func (mh *matchHandler) resetTurnTimer(state *MatchState, bonusSeconds int) {
	state.TurnSecondsRemaining = int64(state.TurnDurationSeconds + bonusSeconds)
}

func (mh *matchHandler) handleStartMatch(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := state.SeatOf(senderID)

	logger.Info("StartMatch: Request received from %s (seat=%d, occupied=%d)", senderID, senderSeat, state.GetOccupiedSeatCount())

	if senderSeat < 0 {
		logger.Warn("StartMatch: User %s has no seat.", senderID)
		return
	}
	mh.startGame(ctx, state, dispatcher, logger, senderID, senderSeat)
}

// handleRequestRematch restarts a finished match. Only the match owner
// (seat 0) may trigger it; the loser-goes-first seeding comes from the
// shared start path.
func (mh *matchHandler) handleRequestRematch(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := state.SeatOf(senderID)

	if senderSeat < 0 {
		logger.Warn("RequestRematch: User %s has no seat.", senderID)
		return
	}
	if senderSeat != 0 {
		mh.sendError(state, dispatcher, logger, senderID, 403, "only the match owner can start a rematch")
		return
	}
	mh.startGame(ctx, state, dispatcher, logger, senderID, senderSeat)
}

func (mh *matchHandler) startGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, senderID string, senderSeat int) {
	if state.Game != nil {
		mh.sendError(state, dispatcher, logger, senderID, 409, "match already started")
		return
	}
	if state.GetOccupiedSeatCount() < app.MinPlayersToStartMatch {
		mh.sendError(state, dispatcher, logger, senderID, 400, "both seats must be filled")
		return
	}

	// The loser of the previous game opens the rematch; otherwise the
	// player who pressed start goes first.
	firstSeat := state.LastLoserSeat
	if firstSeat < 0 || firstSeat > 1 {
		firstSeat = senderSeat
	}

	game, events, err := state.App.StartMatch(state.Seats, firstSeat)
	if err != nil {
		logger.Error("StartMatch: Failed to start match: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, 500, err.Error())
		return
	}

	state.Game = game
	mh.updateLabel(state, dispatcher, logger)

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
	mh.resetTurnTimer(state, matchStartTurnBonusSeconds)

	logger.Info("StartMatch: Match started, seat %d opens day 1.", firstSeat)
}

// playCardRequest mirrors app.PlayCardInput on the wire. TargetSeat is a
// pointer so an omitted field defaults to the sender's own table.
type playCardRequest struct {
	CardID       string `json:"card_id"`
	TargetSeat   *int   `json:"target_seat"`
	TargetTaskID string `json:"target_task_id"`
}

type allocateTimeRequest struct {
	TaskID string `json:"task_id"`
	Hours  int    `json:"hours"`
}

func (mh *matchHandler) handleDrawPhaseAdvance(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	mh.runAction(ctx, state, dispatcher, logger, msg, "handleDrawPhaseAdvance", func(seat int) ([]app.Event, error) {
		return state.App.DrawPhaseAdvance(state.Game, seat)
	})
}

func (mh *matchHandler) handlePlayCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	var req playCardRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handlePlayCard: Invalid payload from %s: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, "invalid payload")
		return
	}

	mh.runAction(ctx, state, dispatcher, logger, msg, "handlePlayCard", func(seat int) ([]app.Event, error) {
		in := app.PlayCardInput{CardID: req.CardID, TargetSeat: seat, TargetTaskID: req.TargetTaskID}
		if req.TargetSeat != nil {
			in.TargetSeat = *req.TargetSeat
		}
		return state.App.PlayCard(state.Game, seat, in)
	})
}

func (mh *matchHandler) handleAllocateTime(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	var req allocateTimeRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handleAllocateTime: Invalid payload from %s: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, "invalid payload")
		return
	}

	mh.runAction(ctx, state, dispatcher, logger, msg, "handleAllocateTime", func(seat int) ([]app.Event, error) {
		return state.App.AllocateTime(state.Game, seat, req.TaskID, req.Hours)
	})
}

func (mh *matchHandler) handleEndTurnPhase(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	mh.runAction(ctx, state, dispatcher, logger, msg, "handleEndTurnPhase", func(seat int) ([]app.Event, error) {
		return state.App.EndTurnPhase(state.Game, seat)
	})
}

func (mh *matchHandler) handleEndDay(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	mh.runAction(ctx, state, dispatcher, logger, msg, "handleEndDay", func(seat int) ([]app.Event, error) {
		return state.App.EndDay(state.Game, seat)
	})
}

func (mh *matchHandler) handleRequestState(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if state.Game == nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 404, "no active game")
		return
	}
	mh.sendSnapshot(ctx, state, dispatcher, logger, msg.GetUserId())
}

// runAction routes a client action into the rules engine and broadcasts
// the resulting events. Rule rejections go back to the sender only.
func (mh *matchHandler) runAction(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData, name string, action func(seat int) ([]app.Event, error)) {
	senderID := msg.GetUserId()
	senderSeat := state.SeatOf(senderID)

	if state.Game == nil {
		logger.Warn("%s: Match not started.", name)
		mh.sendError(state, dispatcher, logger, senderID, 400, "match not started")
		return
	}

	events, err := action(senderSeat)
	if err != nil {
		logger.Warn("%s: User %s (seat %d) rejected: %v", name, senderID, senderSeat, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

// sendSnapshot sends the requesting user their private view of the game.
// Spectators and stale viewers get both hands redacted.
func (mh *matchHandler) sendSnapshot(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string) {
	snap := state.App.Snapshot(state.Game, state.SeatOf(userID))
	mh.broadcastEvent(ctx, state, dispatcher, logger, app.Event{
		Kind:       app.EventStateSnapshot,
		Payload:    snap,
		Recipients: []string{userID},
	})
}

// broadcastEvent serializes an app event and dispatches it to its
// audience. A turn opening restarts the timer; a verdict settles wallets
// and returns the match to the lobby.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, ok := eventOpCode(ev.Kind)
	if !ok {
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	payload := ev.Payload
	switch ev.Kind {
	case app.EventTurnStarted:
		mh.resetTurnTimer(state, 0)
	case app.EventMatchEnded:
		if p, ok := ev.Payload.(app.MatchEndedPayload); ok {
			p.BalanceChanges = mh.settleMatch(ctx, state, logger)
			payload = p
			if p.Draw {
				state.LastLoserSeat = -1
			} else {
				state.LastLoserSeat = domain.Opponent(p.WinnerSeat)
			}
		}
		state.Game = nil
		mh.updateLabel(state, dispatcher, logger)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast).
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}

		// If we had intended recipients but none are connected, we MUST
		// NOT broadcast a private payload to everyone else.
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, data, recipients, nil, true)
}

// settleMatch moves the stake between wallets once the game has a verdict.
// Returns the per-user changes so the match-ended event can carry them.
func (mh *matchHandler) settleMatch(ctx context.Context, state *MatchState, logger runtime.Logger) map[string]int64 {
	if state.Game == nil || state.StakeGold <= 0 {
		return nil
	}
	changes := domain.CalculateSettlement(state.Game, state.StakeGold, state.TaxRate)
	if len(changes) == 0 {
		return nil
	}

	if state.Economy != nil {
		updates := make([]ports.WalletUpdate, 0, len(changes))
		for userID, amount := range changes {
			updates = append(updates, ports.WalletUpdate{
				UserID: userID,
				Amount: amount,
				Metadata: map[string]interface{}{
					"match_id": ctx.Value(runtime.RUNTIME_CTX_MATCH_ID),
					"reason":   "match_settlement",
				},
			})
		}
		if err := state.Economy.UpdateBalances(ctx, updates); err != nil {
			logger.Error("Failed to update balances: %v", err)
		}
	}
	return changes
}

// eventOpCode maps an engine event kind to its wire opcode.
func eventOpCode(kind app.EventKind) (int64, bool) {
	switch kind {
	case app.EventPlayerJoined:
		return OpPlayerJoined, true
	case app.EventPlayerLeft:
		return OpPlayerLeft, true
	case app.EventMatchStarted:
		return OpMatchStarted, true
	case app.EventHandDealt:
		return OpHandDealt, true
	case app.EventTurnStarted:
		return OpTurnStarted, true
	case app.EventCardsDrawn:
		return OpCardsDrawn, true
	case app.EventPhaseAdvanced:
		return OpPhaseAdvanced, true
	case app.EventCardPlayed:
		return OpCardPlayed, true
	case app.EventTaskAdded:
		return OpTaskAdded, true
	case app.EventEffectApplied:
		return OpEffectApplied, true
	case app.EventTimeAllocated:
		return OpTimeAllocated, true
	case app.EventTaskCompleted:
		return OpTaskCompleted, true
	case app.EventTaskBurned:
		return OpTaskBurned, true
	case app.EventTurnPassed:
		return OpTurnPassed, true
	case app.EventDayEnded:
		return OpDayEnded, true
	case app.EventMatchEnded:
		return OpMatchEnded, true
	case app.EventStateSnapshot:
		return OpStateSnapshot, true
	default:
		return 0, false
	}
}

// gameErrorPayload is sent privately when a player's action is rejected.
type gameErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// sendError sends a game error to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	data, err := json.Marshal(gameErrorPayload{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal error payload: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	dispatcher.BroadcastMessage(OpGameError, data, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if err := dispatcher.MatchLabelUpdate(buildLabel(state)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
