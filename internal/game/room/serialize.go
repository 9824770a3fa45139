package room

import (
	"github.com/palemoky/spellcast/internal/protocol"
	"github.com/palemoky/spellcast/internal/server/storage"
)

// Info returns the client-facing snapshot. Round scores are not included.
func (r *Room) Info() protocol.RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.infoLocked()
}

func (r *Room) infoLocked() protocol.RoomInfo {
	info := protocol.RoomInfo{
		Code:    r.Code,
		HostID:  r.HostID,
		Status:  r.Status.String(),
		Players: make([]protocol.PlayerInfo, 0, len(r.Players)),
		Settings: protocol.SettingsInfo{
			MaxPlayers:   r.Settings.MaxPlayers,
			TimerType:    string(r.Settings.TimerType),
			FixedMinutes: r.Settings.FixedMinutes,
			BoardMode:    string(r.Settings.BoardMode),
			TotalRounds:  r.Settings.Rounds,
		},
	}
	for _, p := range r.Players {
		info.Players = append(info.Players, r.playerInfoLocked(p))
	}

	if r.Status == StatusPlaying {
		switch mode := r.Mode.(type) {
		case *SharedMode:
			info.RoundNumber = mode.Round.Number
		case *TurnMode:
			info.RoundNumber = mode.Turn.RoundNumber
			info.TurnNumber = mode.Turn.TurnNumber
			info.ActivePlayerID = mode.Turn.ActiveID
		}
	}
	if r.Mode != nil {
		info.Board = r.Mode.grid().Rows()
	}
	return info
}

func (r *Room) playerInfoLocked(p *Player) protocol.PlayerInfo {
	info := protocol.PlayerInfo{
		ID:     p.ID(),
		Name:   p.Name(),
		Score:  p.Score,
		IsHost: p.ID() == r.HostID,
	}
	if mode, ok := r.Mode.(*SharedMode); ok && r.Status == StatusPlaying {
		if sub := mode.Round.Submissions[p.ID()]; sub != nil {
			info.Done = sub.Done
		}
	}
	return info
}

// ToRoomData builds the snapshot written to the room store.
func (r *Room) ToRoomData() *storage.RoomData {
	r.mu.Lock()
	defer r.mu.Unlock()

	info := r.infoLocked()
	data := &storage.RoomData{
		Code:           r.Code,
		HostID:         r.HostID,
		Status:         info.Status,
		BoardMode:      info.Settings.BoardMode,
		TimerType:      info.Settings.TimerType,
		Players:        make([]storage.PlayerData, len(info.Players)),
		RoundNumber:    info.RoundNumber,
		TurnNumber:     info.TurnNumber,
		ActivePlayerID: info.ActivePlayerID,
		CreatedAt:      r.CreatedAt.Unix(),
		UpdatedAt:      r.now().Unix(),
	}
	for i, p := range info.Players {
		data.Players[i] = storage.PlayerData{ID: p.ID, Name: p.Name, Score: p.Score, Done: p.Done}
	}
	if r.Mode != nil {
		b := r.Mode.grid()
		for row := range b {
			data.Board = append(data.Board, string(b[row][:]))
		}
	}
	return data
}
