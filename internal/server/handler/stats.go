package handler

import (
	"context"
	"time"

	"github.com/palemoky/spellcast/internal/logger"
	"github.com/palemoky/spellcast/internal/protocol"
	"github.com/palemoky/spellcast/internal/protocol/codec"
	"github.com/palemoky/spellcast/internal/server/storage"
	"github.com/palemoky/spellcast/internal/types"
)

const queryTimeout = 3 * time.Second

func (h *Handler) handleGetStats(client types.ClientInterface) {
	out := protocol.StatsResultPayload{PlayerName: client.GetName()}
	if h.stats != nil {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		st, err := h.stats.GetStats(ctx, client.GetName())
		if err != nil {
			logger.L().Warnw("stats lookup failed", "player", client.GetName(), "error", err)
		} else if st != nil {
			out.GamesPlayed = st.GamesPlayed
			out.GamesWon = st.GamesWon
			out.TotalScore = st.TotalScore
			out.BestScore = st.BestScore
			out.WinRate = st.WinRate()
		}
	}
	client.SendMessage(codec.MustNewMessage(protocol.MsgStatsResult, out))
}

func (h *Handler) handleGetLeaderboard(client types.ClientInterface, msg *protocol.Message) {
	limit := 10
	if payload, err := codec.ParsePayload[protocol.GetLeaderboardPayload](msg); err == nil && payload.Limit > 0 {
		limit = payload.Limit
	}

	var entries []storage.LeaderboardEntry
	if h.stats != nil {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		var err error
		if entries, err = h.stats.Leaderboard(ctx, limit); err != nil {
			logger.L().Warnw("leaderboard lookup failed", "error", err)
		}
	}
	client.SendMessage(codec.MustNewMessage(protocol.MsgLeaderboardResult, Leaderboard(entries)))
}

func (h *Handler) handleGetRoomList(client types.ClientInterface) {
	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomListResult, protocol.RoomListResultPayload{
		Rooms: h.rooms.GetRoomList(),
	}))
}

// Leaderboard converts stored rows to the wire payload. Entries is never nil.
func Leaderboard(entries []storage.LeaderboardEntry) protocol.LeaderboardResultPayload {
	out := protocol.LeaderboardResultPayload{Entries: make([]protocol.LeaderboardEntry, len(entries))}
	for i, e := range entries {
		out.Entries[i] = protocol.LeaderboardEntry{
			Rank:        e.Rank,
			PlayerName:  e.PlayerName,
			TotalScore:  e.TotalScore,
			GamesWon:    e.GamesWon,
			GamesPlayed: e.GamesPlayed,
		}
	}
	return out
}
