package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// RpcVoiceToken is the Nakama RPC id clients call for a room voice token.
	RpcVoiceToken = "voice_token"

	// MatchNameNoMercy is the authoritative match handler name registered with Nakama.
	MatchNameNoMercy = "nomercy_match"
)

// Op codes for client messages and server events. All payloads are JSON.
const (
	// Client -> Server
	OpStartGame   int64 = 1
	OpPlayCard    int64 = 2
	OpDrawCard    int64 = 3
	OpChooseColor int64 = 4
	OpPassTurn    int64 = 5

	// Server -> Client events
	OpPlayerJoined     int64 = 101
	OpPlayerLeft       int64 = 102
	OpGameStarted      int64 = 103
	OpHandDealt        int64 = 104 // send privately
	OpCardPlayed       int64 = 105
	OpCardsDrawn       int64 = 106
	OpHandUpdated      int64 = 107 // send privately
	OpColorChosen      int64 = 108
	OpTurnPassed       int64 = 109
	OpPlayerEliminated int64 = 110
	OpGameEnded        int64 = 111
	OpGameError        int64 = 112
	OpStateSnapshot    int64 = 113
)
