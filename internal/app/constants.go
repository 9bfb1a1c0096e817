package app

// MinPlayersToStartGame is the minimum roster size required to start.
const MinPlayersToStartGame = 2

// ReshuffleThreshold is the draw-pile size at which a play defensively
// recycles the discard pile before resolving.
const ReshuffleThreshold = 3
