package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/spellcast/internal/game/board"
	"github.com/palemoky/spellcast/internal/protocol"
	"github.com/palemoky/spellcast/internal/protocol/codec"
)

var rows = board.MustParse("CATXX", "QQDQQ", "QQOQQ", "QQGQQ", "QQQQE")

func apply(t *testing.T, gs *GameState, typ protocol.MessageType, payload any) {
	t.Helper()
	require.NoError(t, gs.Apply(codec.MustNewMessage(typ, payload)))
}

func roomWith(t *testing.T) *GameState {
	t.Helper()
	gs := NewGameState()
	apply(t, gs, protocol.MsgConnected, protocol.ConnectedPayload{PlayerID: "a", PlayerName: "Alice"})
	apply(t, gs, protocol.MsgRoomCreated, protocol.RoomCreatedPayload{
		RoomCode: "ABC123",
		PlayerID: "a",
		IsHost:   true,
		Room: protocol.RoomInfo{
			Code: "ABC123", HostID: "a", Status: "waiting",
			Players:  []protocol.PlayerInfo{{ID: "a", Name: "Alice", IsHost: true}},
			Settings: protocol.SettingsInfo{MaxPlayers: 4, TimerType: "voting", BoardMode: "shared"},
		},
	})
	apply(t, gs, protocol.MsgPlayerJoined, protocol.PlayerJoinedPayload{
		Player: protocol.PlayerInfo{ID: "b", Name: "Bob"}, PlayerCount: 2,
	})
	return gs
}

func TestGameState_Room(t *testing.T) {
	gs := roomWith(t)

	assert.True(t, gs.InRoom())
	assert.True(t, gs.IsHost())
	assert.Len(t, gs.Players, 2)
	assert.Equal(t, "Bob", gs.Name("b"))
	assert.Equal(t, "zed", gs.Name("zed"))

	apply(t, gs, protocol.MsgPlayerLeft, protocol.PlayerLeftPayload{
		PlayerID: "a", PlayerName: "Alice", PlayerCount: 1, NewHostID: "b",
	})
	require.Len(t, gs.Players, 1)
	assert.True(t, gs.Players[0].IsHost)
	assert.False(t, gs.IsHost())
}

func TestGameState_SharedRound(t *testing.T) {
	gs := roomWith(t)
	apply(t, gs, protocol.MsgGameStarted, protocol.GameStartedPayload{
		TimerType: "voting", BoardMode: "shared", BoardState: rows.Rows(), RoundNumber: 1, TotalRounds: 5,
	})
	require.True(t, gs.HasBoard)
	assert.Equal(t, byte('C'), gs.Board.At(board.Position{}))
	assert.False(t, gs.TurnBased())

	apply(t, gs, protocol.MsgWordAccepted, protocol.WordAcceptedPayload{Word: "cat", Score: 8})
	assert.Equal(t, []string{"CAT"}, gs.MyWords)
	assert.Equal(t, 8, gs.MyHidden)
	assert.Zero(t, gs.Players[0].Score, "shared scores stay hidden")

	apply(t, gs, protocol.MsgOpponentHighlight, protocol.OpponentHighlightPayload{
		PlayerID: "b", Positions: []protocol.Pos{{1, 2}}, Action: "select",
	})
	assert.Len(t, gs.Highlights["b"], 1)

	apply(t, gs, protocol.MsgRoundEnded, protocol.RoundEndedPayload{
		RoundNumber: 1, BoardState: rows.Rows(), PlayerScores: map[string]int{"a": 8, "b": 7},
	})
	assert.Equal(t, 8, gs.Players[0].Score)
	assert.Equal(t, 7, gs.Players[1].Score)
	assert.Equal(t, 2, gs.Round)
	assert.Empty(t, gs.MyWords)
	assert.Empty(t, gs.Highlights)
	require.NotNil(t, gs.LastRound)
}

func TestGameState_Turns(t *testing.T) {
	gs := roomWith(t)
	apply(t, gs, protocol.MsgGameStarted, protocol.GameStartedPayload{
		TimerType: "fixed", BoardMode: "randomized", BoardState: rows.Rows(), ActivePlayerID: "a", RoundNumber: 1,
	})
	assert.True(t, gs.MyTurn())

	apply(t, gs, protocol.MsgWordAcceptedTurnBased, protocol.WordAcceptedTurnPayload{
		PlayerID: "a", Word: "dog", Score: 5, BoardState: rows.Rows(), NextPlayerID: "b", TurnNumber: 2,
	})
	assert.Equal(t, 5, gs.Players[0].Score)
	assert.False(t, gs.MyTurn())

	apply(t, gs, protocol.MsgTurnTimeout, protocol.TurnTimeoutPayload{SkippedPlayerID: "b", NextPlayerID: "a"})
	assert.True(t, gs.MyTurn())
	assert.Equal(t, 3, gs.TurnNumber)

	apply(t, gs, protocol.MsgGameOver, protocol.GameOverPayload{
		Standings: []protocol.PlayerInfo{{ID: "a", Name: "Alice", Score: 5}}, WinnerID: "a",
	})
	assert.Equal(t, "finished", gs.Status)
	assert.Contains(t, gs.Log[len(gs.Log)-1], "Alice wins")
}

func TestGameState_Timer(t *testing.T) {
	gs := roomWith(t)

	apply(t, gs, protocol.MsgGraceStarted, protocol.GraceStartedPayload{Duration: 30, Mode: "voting"})
	assert.Equal(t, TimerView{Phase: "grace", Seconds: 30}, gs.Timer)

	apply(t, gs, protocol.MsgGraceTick, protocol.TickPayload{Seconds: 29})
	assert.Equal(t, 29, gs.Timer.Seconds)

	apply(t, gs, protocol.MsgVotingEnabled, protocol.VotingEnabledPayload{Required: 1})
	apply(t, gs, protocol.MsgVoteUpdate, protocol.VoteUpdatePayload{Votes: []string{"a"}, Required: 1})
	assert.Equal(t, "voting", gs.Timer.Phase)
	assert.Equal(t, []string{"a"}, gs.Timer.Votes)

	apply(t, gs, protocol.MsgCountdownStarted, protocol.CountdownStartedPayload{Duration: 30})
	assert.Equal(t, "countdown", gs.Timer.Phase)
	assert.Empty(t, gs.Timer.Votes)

	apply(t, gs, protocol.MsgTimerExpired, protocol.TimerExpiredPayload{})
	assert.Empty(t, gs.Timer.Phase)
}

func TestGameState_QueriesAndErrors(t *testing.T) {
	gs := NewGameState()

	apply(t, gs, protocol.MsgLeaderboardResult, protocol.LeaderboardResultPayload{
		Entries: []protocol.LeaderboardEntry{{Rank: 1, PlayerName: "Bob"}},
	})
	assert.Len(t, gs.Leaderboard, 1)

	apply(t, gs, protocol.MsgError, protocol.ErrorPayload{Code: 2001, Message: "Room not found"})
	assert.Contains(t, gs.Log[len(gs.Log)-1], "Room not found")

	for range 20 {
		apply(t, gs, protocol.MsgError, protocol.ErrorPayload{Message: "x"})
	}
	assert.Len(t, gs.Log, maxLogLines)

	assert.NoError(t, gs.Apply(&protocol.Message{Type: "mystery"}))
	assert.Error(t, gs.Apply(&protocol.Message{Type: protocol.MsgRoomCreated, Payload: []byte("{")}))
}
