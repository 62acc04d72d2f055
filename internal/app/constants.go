package app

// MinPlayersToStartMatch is the seat count a match needs before it can
// leave the lobby. Deadline is strictly head-to-head.
const MinPlayersToStartMatch = 2
