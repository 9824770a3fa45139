package apperrors

import (
	"errors"
	"fmt"

	"github.com/palemoky/spellcast/internal/protocol"
)

// GameError is a non-fatal failure reported to the triggering player only.
// Reason is set for submission failures and travels in word_rejected.
type GameError struct {
	Code    int
	Reason  string
	Message string
	cause   error
}

func (e *GameError) Error() string {
	return e.Message
}

// Unwrap exposes the sentinel a per-failure error was derived from.
func (e *GameError) Unwrap() error {
	return e.cause
}

// Room and lifecycle errors
var (
	ErrRoomNotFound        = &GameError{Code: protocol.ErrCodeRoomNotFound, Reason: protocol.ReasonInvalidRoom, Message: "Room not found"}
	ErrRoomFull            = &GameError{Code: protocol.ErrCodeRoomFull, Message: "Room is full"}
	ErrGameAlreadyStarted  = &GameError{Code: protocol.ErrCodeGameStarted, Message: "Game already started"}
	ErrNotHost             = &GameError{Code: protocol.ErrCodeNotHost, Message: "Only the host can do that"}
	ErrInsufficientPlayers = &GameError{Code: protocol.ErrCodeNotEnoughPlayers, Message: "Need at least 2 players to start"}
	ErrNotInRoom           = &GameError{Code: protocol.ErrCodeNotInRoom, Reason: protocol.ReasonInvalidRoom, Message: "You are not in a room"}
	ErrGameNotStarted      = &GameError{Code: protocol.ErrCodeGameNotStart, Reason: protocol.ReasonInvalidRoom, Message: "Game has not started"}
	ErrWrongMode           = &GameError{Code: protocol.ErrCodeWrongMode, Reason: protocol.ReasonWrongMode, Message: "Not available in this board mode"}
	ErrInsufficientScore   = &GameError{Code: protocol.ErrCodeInsufficientScore, Message: "Not enough points to swap"}
	ErrInvalidPosition     = &GameError{Code: protocol.ErrCodeInvalidMsg, Message: "Position out of bounds"}
)

// Submission errors
var (
	ErrInvalidWordLength = &GameError{Code: protocol.ErrCodeWordRejected, Reason: protocol.ReasonInvalidLength, Message: "Word must be 2-25 letters"}
	ErrNotInDictionary   = &GameError{Code: protocol.ErrCodeWordRejected, Reason: protocol.ReasonInvalidWord, Message: "Not a valid word"}
	ErrInvalidPath       = &GameError{Code: protocol.ErrCodeWordRejected, Reason: protocol.ReasonInvalidPath, Message: "Tiles must be adjacent (no diagonals)"}
	ErrBoardMismatch     = &GameError{Code: protocol.ErrCodeWordRejected, Reason: protocol.ReasonBoardMismatch, Message: "Word does not match board"}
	ErrDuplicateWord     = &GameError{Code: protocol.ErrCodeWordRejected, Reason: protocol.ReasonDuplicateWord, Message: "You already found that word"}
	ErrTurnExpired       = &GameError{Code: protocol.ErrCodeWordRejected, Reason: protocol.ReasonTurnExpired, Message: "Time is up"}
	ErrNotYourTurn       = &GameError{Code: protocol.ErrCodeNotYourTurn, Reason: protocol.ReasonNotYourTurn, Message: "Not your turn"}
)

// Timer errors
var (
	ErrVoteDuringGrace = &GameError{Code: protocol.ErrCodeVoteRejected, Message: "Wait for grace period to end"}
)

// Transport errors
var (
	ErrInvalidMessage = &GameError{Code: protocol.ErrCodeInvalidMsg, Message: "Invalid message"}
	ErrRateLimited    = &GameError{Code: protocol.ErrCodeRateLimit, Message: "Too many messages, slow down"}
	ErrMaintenance    = &GameError{Code: protocol.ErrCodeServerMaintenance, Message: "Server under maintenance"}
)

// NewBoardMismatch returns a board mismatch carrying a positional message.
// errors.Is(err, ErrBoardMismatch) holds for the result.
func NewBoardMismatch(format string, args ...any) *GameError {
	return &GameError{
		Code:    ErrBoardMismatch.Code,
		Reason:  ErrBoardMismatch.Reason,
		Message: fmt.Sprintf(format, args...),
		cause:   ErrBoardMismatch,
	}
}

// Reason extracts the word_rejected reason code from err.
func Reason(err error) string {
	var ge *GameError
	if errors.As(err, &ge) && ge.Reason != "" {
		return ge.Reason
	}
	return protocol.ReasonInvalidWord
}

// Code extracts the wire error code from err. Errors that are not a
// GameError map to ErrCodeUnknown.
func Code(err error) int {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return protocol.ErrCodeUnknown
}
