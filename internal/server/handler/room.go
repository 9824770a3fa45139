package handler

import (
	"strings"

	"github.com/palemoky/spellcast/internal/apperrors"
	"github.com/palemoky/spellcast/internal/protocol"
	"github.com/palemoky/spellcast/internal/protocol/codec"
	"github.com/palemoky/spellcast/internal/types"
)

func (h *Handler) handleCreateRoom(client types.ClientInterface, msg *protocol.Message) {
	if h.server.IsMaintenanceMode() {
		sendError(client, apperrors.ErrMaintenance)
		return
	}
	payload, err := codec.ParsePayload[protocol.CreateRoomPayload](msg)
	if err != nil {
		sendError(client, apperrors.ErrInvalidMessage)
		return
	}

	h.rename(client, payload.PlayerName)
	if client.GetRoom() != "" {
		h.rooms.LeaveRoom(client)
	}

	r := h.rooms.CreateRoom(client, payload.MaxPlayers)
	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomCreated, protocol.RoomCreatedPayload{
		RoomCode: r.Code,
		PlayerID: client.GetID(),
		IsHost:   true,
		Room:     r.Info(),
	}))
}

func (h *Handler) handleJoinRoom(client types.ClientInterface, msg *protocol.Message) {
	if h.server.IsMaintenanceMode() {
		sendError(client, apperrors.ErrMaintenance)
		return
	}
	payload, err := codec.ParsePayload[protocol.JoinRoomPayload](msg)
	if err != nil {
		sendError(client, apperrors.ErrInvalidMessage)
		return
	}

	// switching rooms leaves the old one first; rejoining the same room is a no-op
	if cur := client.GetRoom(); cur != "" && !strings.EqualFold(cur, strings.TrimSpace(payload.RoomCode)) {
		h.rooms.LeaveRoom(client)
	}
	if client.GetRoom() == "" {
		h.rename(client, payload.PlayerName)
	}

	r, rejoined, err := h.rooms.JoinRoom(client, payload.RoomCode)
	if err != nil {
		sendError(client, err)
		return
	}

	info := r.Info()
	joined := protocol.RoomJoinedPayload{
		RoomCode: r.Code,
		IsHost:   info.HostID == client.GetID(),
		Room:     info,
	}
	if rejoined {
		joined.Status = "already_joined"
	}
	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomJoined, joined))
}

func (h *Handler) handleGetRoomInfo(client types.ClientInterface) {
	r := h.room(client)
	if r == nil {
		sendError(client, apperrors.ErrNotInRoom)
		return
	}
	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomInfo, protocol.RoomInfoPayload{Room: r.Info()}))
}

func (h *Handler) handleUpdateTimerSettings(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.UpdateTimerSettingsPayload](msg)
	if err != nil {
		sendError(client, apperrors.ErrInvalidMessage)
		return
	}
	r := h.room(client)
	if r == nil {
		sendError(client, apperrors.ErrNotInRoom)
		return
	}
	if err := r.UpdateSettings(client, payload.TimerType, payload.FixedMinutes); err != nil {
		sendError(client, err)
	}
}

func (h *Handler) handleStartGame(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.StartGamePayload](msg)
	if err != nil {
		sendError(client, apperrors.ErrInvalidMessage)
		return
	}
	r := h.room(client)
	if r == nil {
		sendError(client, apperrors.ErrNotInRoom)
		return
	}
	if err := r.StartGame(client, payload.TimerType, payload.BoardMode, payload.TimerDuration); err != nil {
		sendError(client, err)
	}
}

// rename applies a requested display name. Blank keeps the generated one.
func (h *Handler) rename(client types.ClientInterface, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	client.SetName(name)
	h.sessions.Rename(client.GetID(), name)
}
