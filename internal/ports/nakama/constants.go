package nakama

const (
	// MatchNameTichu is the authoritative match handler name registered
	// with Nakama.
	MatchNameTichu = "tichu_match"

	// RpcCreateMatch creates a fresh match and returns its id.
	RpcCreateMatch = "tichu_create_match"
	// RpcQuickMatch finds an open lobby via label query or creates one.
	RpcQuickMatch = "tichu_quick_match"
	// RpcMatchHistory returns the caller's persisted match results.
	RpcMatchHistory = "tichu_match_history"
)

// Op codes for client messages and server events. Payloads are JSON.
const (
	// Client -> Server
	OpStartMatch     int64 = 1
	OpGrandDecision  int64 = 2
	OpCallTichu      int64 = 3
	OpSubmitExchange int64 = 4
	OpPlayCards      int64 = 5
	OpPassTurn       int64 = 6
	OpDragonGift     int64 = 7

	// Server -> Client events
	OpLobbyState         int64 = 100
	OpMatchStarted       int64 = 101
	OpRoundStarted       int64 = 102
	OpCallWindowOpened   int64 = 103
	OpHandDealt          int64 = 104 // private
	OpCallMade           int64 = 105
	OpExchangeSubmitted  int64 = 106
	OpExchangeCompleted  int64 = 107 // private
	OpTrickStarted       int64 = 108
	OpCardsPlayed        int64 = 109
	OpTurnPassed         int64 = 110
	OpWishNamed          int64 = 111
	OpWishCleared        int64 = 112
	OpTrickWon           int64 = 113
	OpDragonGiftRequired int64 = 114
	OpDragonGiven        int64 = 115
	OpRoundEnded         int64 = 116
	OpMatchEnded         int64 = 117
	OpSnapshot           int64 = 118 // private
	OpRejoinToken        int64 = 119 // private
	OpError              int64 = 120 // private
)
