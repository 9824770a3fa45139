package protocol

// Error codes
const (
	ErrCodeUnknown           = 1000
	ErrCodeInvalidMsg        = 1001
	ErrCodeRateLimit         = 1002
	ErrCodeRoomNotFound      = 2001
	ErrCodeRoomFull          = 2002
	ErrCodeNotInRoom         = 2003
	ErrCodeGameStarted       = 2004
	ErrCodeNotHost           = 2005
	ErrCodeNotEnoughPlayers  = 2006
	ErrCodeGameNotStart      = 3001
	ErrCodeNotYourTurn       = 3002
	ErrCodeWordRejected      = 3003
	ErrCodeWrongMode         = 3004
	ErrCodeVoteRejected      = 3005
	ErrCodeInsufficientScore = 3006
	ErrCodeServerMaintenance = 5003
)

// ErrorMessages maps codes to default texts.
var ErrorMessages = map[int]string{
	ErrCodeUnknown:           "Unknown error",
	ErrCodeInvalidMsg:        "Invalid message",
	ErrCodeRateLimit:         "Too many requests",
	ErrCodeRoomNotFound:      "Room not found",
	ErrCodeRoomFull:          "Room is full",
	ErrCodeNotInRoom:         "You are not in a room",
	ErrCodeGameStarted:       "Game already started",
	ErrCodeNotHost:           "Only the host can do that",
	ErrCodeNotEnoughPlayers:  "Need at least 2 players",
	ErrCodeGameNotStart:      "Game has not started",
	ErrCodeNotYourTurn:       "Not your turn",
	ErrCodeWordRejected:      "Word rejected",
	ErrCodeWrongMode:         "Not available in this board mode",
	ErrCodeVoteRejected:      "Vote rejected",
	ErrCodeInsufficientScore: "Not enough points",
	ErrCodeServerMaintenance: "Server under maintenance",
}

// Reject reasons carried by word_rejected.
const (
	ReasonInvalidRoom   = "invalid_room"
	ReasonTurnExpired   = "turn_expired"
	ReasonInvalidLength = "invalid_length"
	ReasonInvalidWord   = "invalid_word"
	ReasonInvalidPath   = "invalid_path"
	ReasonBoardMismatch = "board_mismatch"
	ReasonDuplicateWord = "duplicate_word"
	ReasonNotYourTurn   = "not_your_turn"
	ReasonWrongMode     = "wrong_mode"
)
