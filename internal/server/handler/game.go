package handler

import (
	"errors"

	"github.com/palemoky/spellcast/internal/apperrors"
	"github.com/palemoky/spellcast/internal/game/board"
	"github.com/palemoky/spellcast/internal/game/room"
	"github.com/palemoky/spellcast/internal/logger"
	"github.com/palemoky/spellcast/internal/protocol"
	"github.com/palemoky/spellcast/internal/protocol/codec"
	"github.com/palemoky/spellcast/internal/types"
)

// submitFunc is SubmitWord or SubmitTurnWord.
type submitFunc func(r *room.Room, client types.ClientInterface, word string, path []board.Position) (int, error)

func (h *Handler) handleSubmitWord(client types.ClientInterface, msg *protocol.Message) {
	h.submit(client, msg, (*room.Room).SubmitWord)
}

func (h *Handler) handleSubmitTurnWord(client types.ClientInterface, msg *protocol.Message) {
	h.submit(client, msg, (*room.Room).SubmitTurnWord)
}

// submit runs a submission. Every failure is answered with word_rejected;
// the acceptance events are emitted by the room.
func (h *Handler) submit(client types.ClientInterface, msg *protocol.Message, fn submitFunc) {
	payload, err := codec.ParsePayload[protocol.SubmitWordPayload](msg)
	if err != nil {
		reject(client, "", apperrors.ErrInvalidMessage)
		return
	}
	r := h.room(client)
	if r == nil {
		reject(client, payload.Word, apperrors.ErrNotInRoom)
		return
	}
	if _, err := fn(r, client, payload.Word, room.FromWire(payload.Positions)); err != nil {
		logger.L().Debugw("word rejected",
			"room", r.Code, "player", client.GetID(), "word", payload.Word, "reason", apperrors.Reason(err))
		reject(client, payload.Word, err)
	}
}

func (h *Handler) handleSwapTile(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.SwapTilePayload](msg)
	if err != nil {
		sendError(client, apperrors.ErrInvalidMessage)
		return
	}
	r := h.room(client)
	if r == nil {
		sendError(client, apperrors.ErrNotInRoom)
		return
	}
	pos := board.Position{Row: payload.Position[0], Col: payload.Position[1]}
	if _, err := r.SwapTile(client, pos); err != nil {
		sendError(client, err)
	}
}

func (h *Handler) handlePlayerDone(client types.ClientInterface) {
	r := h.room(client)
	if r == nil {
		sendError(client, apperrors.ErrNotInRoom)
		return
	}
	if err := r.MarkDone(client); err != nil {
		sendError(client, err)
	}
}

// handleTileSelection relays highlights. Failures are dropped silently.
func (h *Handler) handleTileSelection(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.TileSelectionPayload](msg)
	if err != nil {
		return
	}
	if r := h.room(client); r != nil {
		_ = r.RelaySelection(client, payload.Positions, payload.Action)
	}
}

func (h *Handler) handleEndTurn(client types.ClientInterface) {
	r := h.room(client)
	if r == nil {
		sendError(client, apperrors.ErrNotInRoom)
		return
	}
	if err := r.EndTurn(client); err != nil {
		sendError(client, err)
	}
}

func (h *Handler) handleVote(client types.ClientInterface) {
	r := h.room(client)
	if r == nil {
		sendError(client, apperrors.ErrNotInRoom)
		return
	}
	if _, err := r.Vote(client); err != nil {
		if !errors.Is(err, apperrors.ErrVoteDuringGrace) {
			logger.L().Debugw("vote failed", "room", r.Code, "player", client.GetID(), "error", err)
		}
		sendError(client, err)
	}
}
