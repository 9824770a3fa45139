// Package handler dispatches inbound events to the room layer.
package handler

import (
	"errors"

	"github.com/palemoky/spellcast/internal/apperrors"
	"github.com/palemoky/spellcast/internal/game/room"
	"github.com/palemoky/spellcast/internal/logger"
	"github.com/palemoky/spellcast/internal/protocol"
	"github.com/palemoky/spellcast/internal/protocol/codec"
	"github.com/palemoky/spellcast/internal/server/session"
	"github.com/palemoky/spellcast/internal/server/storage"
	"github.com/palemoky/spellcast/internal/types"
)

// Deps are the handler's collaborators. Stats may be nil.
type Deps struct {
	Server   types.ServerInterface
	Rooms    *room.Manager
	Sessions *session.Manager
	Stats    storage.StatsStore
}

// Handler routes messages by type.
type Handler struct {
	server   types.ServerInterface
	rooms    *room.Manager
	sessions *session.Manager
	stats    storage.StatsStore
	handlers map[protocol.MessageType]handlerFunc
}

type handlerFunc func(client types.ClientInterface, msg *protocol.Message)

// New creates a handler.
func New(deps Deps) *Handler {
	h := &Handler{
		server:   deps.Server,
		rooms:    deps.Rooms,
		sessions: deps.Sessions,
		stats:    deps.Stats,
	}
	h.initHandlers()
	return h
}

func (h *Handler) initHandlers() {
	h.handlers = map[protocol.MessageType]handlerFunc{
		protocol.MsgPing: h.handlePing,

		// room
		protocol.MsgCreateRoom:          h.handleCreateRoom,
		protocol.MsgJoinRoom:            h.handleJoinRoom,
		protocol.MsgLeaveRoom:           func(c types.ClientInterface, _ *protocol.Message) { h.rooms.LeaveRoom(c) },
		protocol.MsgGetRoomInfo:         func(c types.ClientInterface, _ *protocol.Message) { h.handleGetRoomInfo(c) },
		protocol.MsgUpdateTimerSettings: h.handleUpdateTimerSettings,
		protocol.MsgStartGame:           h.handleStartGame,

		// shared board
		protocol.MsgSubmitWord:    h.handleSubmitWord,
		protocol.MsgSwapTile:      h.handleSwapTile,
		protocol.MsgPlayerDone:    func(c types.ClientInterface, _ *protocol.Message) { h.handlePlayerDone(c) },
		protocol.MsgTileSelection: h.handleTileSelection,

		// turn based
		protocol.MsgSubmitWordTurn: h.handleSubmitTurnWord,
		protocol.MsgEndTurn:        func(c types.ClientInterface, _ *protocol.Message) { h.handleEndTurn(c) },

		protocol.MsgVoteTimer: func(c types.ClientInterface, _ *protocol.Message) { h.handleVote(c) },

		// queries
		protocol.MsgGetStats:       func(c types.ClientInterface, _ *protocol.Message) { h.handleGetStats(c) },
		protocol.MsgGetLeaderboard: h.handleGetLeaderboard,
		protocol.MsgGetRoomList:    func(c types.ClientInterface, _ *protocol.Message) { h.handleGetRoomList(c) },
	}
}

// Handle dispatches msg. Unknown types get an invalid-message error.
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	if fn, ok := h.handlers[msg.Type]; ok {
		fn(client, msg)
		return
	}
	logger.L().Warnw("⚠️ unknown message type", "type", msg.Type, "player", client.GetID(), "payload_bytes", len(msg.Payload))
	client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
}

// room resolves the caller's room, or nil.
func (h *Handler) room(client types.ClientInterface) *room.Room {
	return h.rooms.GetRoomByPlayerID(client.GetID())
}

// sendError reports err to client as an error event.
func sendError(client types.ClientInterface, err error) {
	var ge *apperrors.GameError
	if errors.As(err, &ge) {
		client.SendMessage(codec.NewErrorMessageWithText(ge.Code, ge.Message))
		return
	}
	logger.L().Errorw("unexpected error", "player", client.GetID(), "error", err)
	client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeUnknown))
}

// reject reports a failed submission as word_rejected.
func reject(client types.ClientInterface, word string, err error) {
	client.SendMessage(codec.MustNewMessage(protocol.MsgWordRejected, protocol.WordRejectedPayload{
		Reason:  apperrors.Reason(err),
		Message: err.Error(),
		Word:    word,
	}))
}
