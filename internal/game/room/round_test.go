package room

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/spellcast/internal/apperrors"
	"github.com/palemoky/spellcast/internal/game/board"
	"github.com/palemoky/spellcast/internal/protocol"
	"github.com/palemoky/spellcast/internal/server/storage"
	"github.com/palemoky/spellcast/internal/testutil"
)

func TestSharedRound_EndToEnd(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{})
	ps := players(2)
	a, b := ps[0], ps[1]
	r := f.started(t, "voting", "shared", ps...)
	old := r.RoundForTest()

	score, err := r.SubmitWord(a, "CAT", catPath)
	require.NoError(t, err)
	assert.Equal(t, 8, score)

	accepted, ok := testutil.Last[protocol.WordAcceptedPayload](a, protocol.MsgWordAccepted)
	require.True(t, ok)
	assert.Equal(t, "cat", accepted.Word)
	assert.Equal(t, hiddenScoreMessage, accepted.Message)
	assert.Zero(t, b.Count(protocol.MsgWordAccepted), "other players learn nothing")
	assert.Zero(t, b.Count(protocol.MsgRoundEnded))

	_, err = r.SubmitWord(b, "dog", dogPath)
	require.NoError(t, err)

	for _, c := range ps {
		ended, ok := testutil.Last[protocol.RoundEndedPayload](c, protocol.MsgRoundEnded)
		require.True(t, ok)
		assert.Equal(t, 1, ended.RoundNumber)
		assert.Equal(t, map[string]int{"a": 8, "b": 7}, ended.PlayerScores)
		require.Len(t, ended.Results, 2)
		assert.Equal(t, []string{"cat"}, ended.Results[0].Words)
		assert.Equal(t, 7, ended.Results[1].Score)
		assert.ElementsMatch(t, toWire(append(append([]board.Position{}, catPath...), dogPath...)), ended.ConsumedPositions)
	}

	after := r.BoardForTest()
	for row := range board.Size {
		for col := range board.Size {
			p := board.Position{Row: row, Col: col}
			if !containsPos(catPath, p) && !containsPos(dogPath, p) {
				assert.Equal(t, testBoard.At(p), after.At(p), "tile %v", p)
			}
		}
	}

	next := r.RoundForTest()
	assert.NotSame(t, old, next)
	assert.Equal(t, 2, next.Number)
	assert.Equal(t, after, next.Board)
	for _, id := range []string{"a", "b"} {
		require.Contains(t, next.Submissions, id)
		assert.Empty(t, next.Submissions[id].Words)
	}
	assert.Equal(t, 8, r.ScoreForTest("a"))
	assert.Equal(t, 7, r.ScoreForTest("b"))
}

func TestSubmitWord_Duplicate(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{})
	ps := players(3)
	r := f.started(t, "voting", "shared", ps...)

	_, err := r.SubmitWord(ps[0], "cat", catPath)
	require.NoError(t, err)
	_, err = r.SubmitWord(ps[0], "cat", catPath)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateWord)

	// other players may find the same word
	_, err = r.SubmitWord(ps[1], "cat", catPath)
	require.NoError(t, err)
	_, err = r.SubmitWord(ps[2], "dog", dogPath)
	require.NoError(t, err)
	require.Equal(t, 2, r.RoundForTest().Number)

	// the set resets every round
	r.SetBoardForTest(testBoard)
	_, err = r.SubmitWord(ps[0], "cat", catPath)
	assert.NoError(t, err)
}

func TestSubmitWord_Validation(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{})
	ps := players(2)
	r := f.started(t, "voting", "shared", ps...)

	diagonal := []board.Position{{Row: 0, Col: 0}, {Row: 1, Col: 1}, {Row: 0, Col: 2}}
	revisit := []board.Position{{Row: 0, Col: 2}, {Row: 1, Col: 2}, {Row: 0, Col: 2}}
	long := "abcdefghijklmnopqrstuvwxyz"

	tests := []struct {
		name string
		word string
		path []board.Position
		want error
	}{
		{"too short", "c", catPath[:1], apperrors.ErrInvalidWordLength},
		{"too long", long, catPath, apperrors.ErrInvalidWordLength},
		{"unknown word", "xq", catPath[:2], apperrors.ErrNotInDictionary},
		{"diagonal", "cat", diagonal, apperrors.ErrInvalidPath},
		{"revisit", "tot", revisit, apperrors.ErrInvalidPath},
		{"wrong letters", "dog", catPath, apperrors.ErrBoardMismatch},
		{"short path", "cats", catPath, apperrors.ErrBoardMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.SubmitWord(ps[0], tt.word, tt.path)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := r.SubmitWord(ps[0], "dog", catPath)
	assert.Contains(t, err.Error(), "(0,0)")
	assert.Equal(t, protocol.ReasonBoardMismatch, apperrors.Reason(err))

	assert.Empty(t, r.RoundForTest().Submissions["a"].Words, "rejections do not count")
	assert.Zero(t, ps[1].Count(protocol.MsgWordAccepted))
}

func TestSubmitWord_State(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{})
	ps := players(3)

	waiting := f.room(t, ps[0], ps[1])
	_, err := waiting.SubmitWord(ps[0], "cat", catPath)
	assert.ErrorIs(t, err, apperrors.ErrGameNotStarted)
	_, err = waiting.SubmitWord(ps[2], "cat", catPath)
	assert.ErrorIs(t, err, apperrors.ErrNotInRoom)

	x, y := testutil.NewSimpleClient("x", "X"), testutil.NewSimpleClient("y", "Y")
	turn := f.started(t, "voting", "randomized", x, y)
	_, err = turn.SubmitWord(x, "cat", catPath)
	assert.ErrorIs(t, err, apperrors.ErrWrongMode)
}

func TestSubmitWord_AfterFixedDeadline(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{})
	now := time.Now()
	f.m.SetClock(func() time.Time { return now })
	ps := players(2)
	r := f.room(t, ps...)
	require.NoError(t, r.StartGame(ps[0], "fixed", "shared", 1))
	r.SetBoardForTest(testBoard)

	now = now.Add(61 * time.Second)
	_, err := r.SubmitWord(ps[0], "cat", catPath)
	assert.ErrorIs(t, err, apperrors.ErrTurnExpired)
}

func TestSwapTile(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{})
	ps := players(2)
	r := f.started(t, "voting", "shared", ps...)
	rs := r.RoundForTest()

	_, err := r.SubmitWord(ps[0], "cat", catPath)
	require.NoError(t, err)

	corner := board.Position{Row: 4, Col: 4}
	kept, err := r.SwapTile(ps[1], corner)
	require.NoError(t, err)
	assert.Equal(t, byte('E'), kept.Old)

	swapped, ok := testutil.Last[protocol.TileSwappedPayload](ps[0], protocol.MsgTileSwapped)
	require.True(t, ok)
	assert.Equal(t, protocol.Pos{4, 4}, swapped.Position)
	assert.Equal(t, "E", swapped.OldLetter)
	assert.Equal(t, string(kept.New), swapped.NewLetter)

	// (0,0) is part of an accepted word, so this swap is lost at round end
	_, err = r.SwapTile(ps[1], catPath[0])
	require.NoError(t, err)

	_, err = r.SwapTile(ps[1], board.Position{Row: 5, Col: 0})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPosition)

	_, err = r.SubmitWord(ps[1], "dog", dogPath)
	require.NoError(t, err)

	require.Len(t, rs.Swaps, 2)
	assert.False(t, rs.Swaps[0].Used)
	assert.True(t, rs.Swaps[1].Used)
	got := r.BoardForTest()
	assert.Equal(t, kept.New, got.At(corner), "unused swap survives into the next round")
	assert.Empty(t, r.RoundForTest().Swaps)
}

func TestSwapTile_Cost(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{SwapCost: 5})
	ps := players(2)
	r := f.started(t, "voting", "shared", ps...)

	_, err := r.SwapTile(ps[0], board.Position{})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientScore)

	require.True(t, r.EndRound(1))
	r.SetBoardForTest(testBoard)
	_, err = r.SubmitWord(ps[0], "cat", catPath)
	require.NoError(t, err)
	require.True(t, r.EndRound(2))

	_, err = r.SwapTile(ps[0], board.Position{Row: 4, Col: 4})
	require.NoError(t, err)
	assert.Equal(t, 3, r.ScoreForTest("a"))
}

func TestMarkDone(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{})
	ps := players(2)
	r := f.started(t, "voting", "shared", ps...)

	require.NoError(t, r.MarkDone(ps[0]))
	done, ok := testutil.Last[protocol.PlayerMarkedDonePayload](ps[1], protocol.MsgPlayerMarkedDone)
	require.True(t, ok)
	assert.Equal(t, 1, done.PlayersDone)
	assert.Equal(t, 2, done.TotalPlayers)
	assert.False(t, r.AllDone())
	assert.True(t, r.Info().Players[0].Done)

	require.NoError(t, r.MarkDone(ps[1]))
	assert.Equal(t, 1, ps[0].Count(protocol.MsgRoundEnded))
	assert.Equal(t, 2, r.RoundForTest().Number)
	assert.False(t, r.AllDone(), "done flags reset with the round")
}

func TestEndRound_Stale(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{})
	ps := players(2)
	r := f.started(t, "voting", "shared", ps...)

	assert.True(t, r.EndRound(1))
	assert.False(t, r.EndRound(1))
	assert.Equal(t, 1, ps[0].Count(protocol.MsgRoundEnded))
}

func TestGameOver_AfterLastRound(t *testing.T) {
	t.Parallel()
	stats := &testutil.MockStatsStore{}
	recorded := make(chan []storage.GameResult, 1)
	stats.On("RecordGame", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { recorded <- args.Get(1).([]storage.GameResult) }).
		Return(nil)

	f := newFixtureWith(t, Options{Rounds: 2}, Deps{Stats: stats})
	ps := players(2)
	r := f.started(t, "voting", "shared", ps...)

	_, err := r.SubmitWord(ps[1], "dog", dogPath)
	require.NoError(t, err)
	require.True(t, r.EndRound(1))
	require.True(t, r.EndRound(2))

	assert.Equal(t, StatusFinished, r.StatusForTest())
	over, ok := testutil.Last[protocol.GameOverPayload](ps[0], protocol.MsgGameOver)
	require.True(t, ok)
	assert.Equal(t, "b", over.WinnerID)
	require.Len(t, over.Standings, 2)
	assert.Equal(t, 7, over.Standings[0].Score)

	select {
	case results := <-recorded:
		assert.Equal(t, []storage.GameResult{
			{PlayerName: "Bob", Score: 7, Won: true},
			{PlayerName: "Alice", Score: 0},
		}, results)
	case <-time.After(time.Second):
		t.Fatal("results were not recorded")
	}

	// a finished room can start again with fresh scores
	require.NoError(t, r.StartGame(ps[0], "", "", 0))
	assert.Zero(t, r.ScoreForTest("b"))
	assert.Equal(t, 1, r.RoundForTest().Number)
}

func TestStartGame_Rules(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{})
	ps := players(2)
	r := f.m.CreateRoom(ps[0], 4)

	assert.ErrorIs(t, r.StartGame(ps[0], "", "", 0), apperrors.ErrInsufficientPlayers)
	_, _, err := f.m.JoinRoom(ps[1], r.Code)
	require.NoError(t, err)
	assert.ErrorIs(t, r.StartGame(ps[1], "", "", 0), apperrors.ErrNotHost)

	require.NoError(t, r.StartGame(ps[0], "fixed", "shared", 20))
	started, ok := testutil.Last[protocol.GameStartedPayload](ps[1], protocol.MsgGameStarted)
	require.True(t, ok)
	assert.Equal(t, "fixed", started.TimerType)
	assert.Equal(t, 600, started.Duration, "clamped to ten minutes")
	assert.Len(t, started.BoardState, board.Size)
	assert.Equal(t, 1, ps[1].Count(protocol.MsgFixedStarted))

	assert.ErrorIs(t, r.StartGame(ps[0], "", "", 0), apperrors.ErrGameAlreadyStarted)
	assert.ErrorIs(t, r.UpdateSettings(ps[0], "voting", 3), apperrors.ErrGameAlreadyStarted)
}

func TestUpdateSettings(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{})
	ps := players(2)
	r := f.room(t, ps...)

	assert.ErrorIs(t, r.UpdateSettings(ps[1], "fixed", 3), apperrors.ErrNotHost)
	require.NoError(t, r.UpdateSettings(ps[0], "fixed", 42))

	got, ok := testutil.Last[protocol.TimerSettingsPayload](ps[1], protocol.MsgTimerSettingsUpdated)
	require.True(t, ok)
	assert.Equal(t, "fixed", got.TimerType)
	assert.Equal(t, 10, got.FixedMinutes)
	assert.Equal(t, "fixed", r.Info().Settings.TimerType)
}

func TestSnapshots(t *testing.T) {
	t.Parallel()
	store := &testutil.MockSnapshotStore{}
	saved := make(chan *storage.RoomData, 16)
	deleted := make(chan string, 1)
	store.On("SaveRoom", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved <- args.Get(2).(*storage.RoomData) }).
		Return(nil)
	store.On("DeleteRoom", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { deleted <- args.String(1) }).
		Return(nil)

	f := newFixtureWith(t, Options{}, Deps{Store: store})
	host := testutil.NewSimpleClient("h", "Host")
	r := f.m.CreateRoom(host, 2)

	select {
	case data := <-saved:
		assert.Equal(t, r.Code, data.Code)
		assert.Equal(t, "waiting", data.Status)
		require.Len(t, data.Players, 1)
	case <-time.After(time.Second):
		t.Fatal("room was not saved")
	}

	f.m.LeaveRoom(host)
	select {
	case code := <-deleted:
		assert.Equal(t, r.Code, code)
	case <-time.After(time.Second):
		t.Fatal("room was not deleted")
	}
}

func containsPos(ps []board.Position, p board.Position) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}
