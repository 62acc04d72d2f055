package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// RpcVoiceToken is the Nakama RPC id clients call for signed voice chat tokens.
	RpcVoiceToken = "voice_token"

	// MatchNameDeadline is the authoritative match handler name registered with Nakama.
	MatchNameDeadline = "deadline_match"

	// GameName tags match labels so list queries can filter on this game.
	GameName = "deadline"
)

// Match label phases.
const (
	LabelPhaseLobby   = "lobby"
	LabelPhasePlaying = "playing"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartMatch       int64 = 1
	OpDrawPhaseAdvance int64 = 2
	OpPlayCard         int64 = 3
	OpAllocateTime     int64 = 4
	OpEndTurnPhase     int64 = 5
	OpEndDay           int64 = 6
	OpRequestState     int64 = 7
	OpRequestRematch   int64 = 8

	// Server -> Client events
	OpPlayerJoined  int64 = 101
	OpPlayerLeft    int64 = 102
	OpMatchStarted  int64 = 103
	OpHandDealt     int64 = 104 // send privately
	OpTurnStarted   int64 = 105
	OpCardsDrawn    int64 = 106 // send privately
	OpPhaseAdvanced int64 = 107
	OpCardPlayed    int64 = 108
	OpTaskAdded     int64 = 109
	OpEffectApplied int64 = 110
	OpTimeAllocated int64 = 111
	OpTaskCompleted int64 = 112
	OpTaskBurned    int64 = 113
	OpTurnPassed    int64 = 114
	OpDayEnded      int64 = 115
	OpMatchEnded    int64 = 116
	OpStateSnapshot int64 = 117 // send privately
	OpGameError     int64 = 118 // send privately
)
