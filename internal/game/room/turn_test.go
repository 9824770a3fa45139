package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/spellcast/internal/apperrors"
	"github.com/palemoky/spellcast/internal/game/board"
	"github.com/palemoky/spellcast/internal/protocol"
	"github.com/palemoky/spellcast/internal/testutil"
)

func TestTurnMode_SubmitAndAdvance(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{})
	ps := players(2)
	r := f.started(t, "voting", "randomized", ps...)

	ts := r.TurnForTest()
	require.NotNil(t, ts)
	assert.Equal(t, "a", ts.ActiveID)
	assert.Equal(t, 1, ts.TurnNumber)

	_, err := r.SubmitTurnWord(ps[1], "dog", dogPath)
	assert.ErrorIs(t, err, apperrors.ErrNotYourTurn)
	_, err = r.SubmitTurnWord(ps[0], "dog", catPath)
	assert.ErrorIs(t, err, apperrors.ErrBoardMismatch)
	assert.Equal(t, "a", r.TurnForTest().ActiveID, "a rejected word keeps the turn")

	score, err := r.SubmitTurnWord(ps[0], "cat", catPath)
	require.NoError(t, err)
	assert.Equal(t, 8, score)
	assert.Equal(t, 8, r.ScoreForTest("a"))

	for _, c := range ps {
		got, ok := testutil.Last[protocol.WordAcceptedTurnPayload](c, protocol.MsgWordAcceptedTurnBased)
		require.True(t, ok, "move is public")
		assert.Equal(t, "a", got.PlayerID)
		assert.Equal(t, 8, got.Score)
		assert.Equal(t, "b", got.NextPlayerID)
		assert.Equal(t, 2, got.TurnNumber)
		assert.Equal(t, toWire(catPath), got.ConsumedPositions)
	}

	after := r.BoardForTest()
	for _, p := range dogPath {
		assert.Equal(t, testBoard.At(p), after.At(p))
	}

	ts = r.TurnForTest()
	assert.Equal(t, "b", ts.ActiveID)
	assert.Equal(t, 1, ts.RoundNumber)
	require.Len(t, ts.Played, 1)
	assert.Equal(t, PlayedWord{PlayerID: "a", Word: "cat", Score: 8, Turn: 1}, ts.Played[0])

	_, err = r.SwapTile(ps[1], board.Position{})
	assert.ErrorIs(t, err, apperrors.ErrWrongMode)
	assert.ErrorIs(t, r.MarkDone(ps[1]), apperrors.ErrWrongMode)
}

func TestTurnMode_DuplicatesAllowed(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{})
	ps := players(2)
	r := f.started(t, "voting", "randomized", ps...)

	_, err := r.SubmitTurnWord(ps[0], "dog", dogPath)
	require.NoError(t, err)
	r.SetBoardForTest(testBoard)
	_, err = r.SubmitTurnWord(ps[1], "dog", dogPath)
	assert.NoError(t, err)
}

func TestEndTurn_WrapsRound(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{})
	ps := players(2)
	r := f.started(t, "voting", "randomized", ps...)

	assert.ErrorIs(t, r.EndTurn(ps[1]), apperrors.ErrNotYourTurn)
	require.NoError(t, r.EndTurn(ps[0]))
	require.NoError(t, r.EndTurn(ps[1]))

	ended := ps[0].MessagesOfType(protocol.MsgTurnEnded)
	require.Len(t, ended, 2)
	last, _ := testutil.Last[protocol.TurnEndedPayload](ps[0], protocol.MsgTurnEnded)
	assert.Equal(t, "b", last.PlayerID)
	assert.Equal(t, "a", last.NextPlayerID)

	ts := r.TurnForTest()
	assert.Equal(t, 2, ts.RoundNumber)
	assert.Equal(t, 3, ts.TurnNumber)
}

func TestTurnMode_GameOver(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{Rounds: 1})
	ps := players(2)
	r := f.started(t, "voting", "randomized", ps...)

	require.NoError(t, r.EndTurn(ps[0]))
	_, err := r.SubmitTurnWord(ps[1], "dog", dogPath)
	require.NoError(t, err)

	assert.Equal(t, StatusFinished, r.StatusForTest())
	over, ok := testutil.Last[protocol.GameOverPayload](ps[0], protocol.MsgGameOver)
	require.True(t, ok)
	assert.Equal(t, "b", over.WinnerID)

	_, err = r.SubmitTurnWord(ps[0], "cat", catPath)
	assert.ErrorIs(t, err, apperrors.ErrGameNotStarted)
}

func TestLeave_ActivePlayerPassesTurn(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{})
	ps := players(3)
	r := f.started(t, "voting", "randomized", ps...)

	f.m.LeaveRoom(ps[0])

	got, ok := testutil.Last[protocol.TurnEndedPayload](ps[1], protocol.MsgTurnEnded)
	require.True(t, ok)
	assert.Equal(t, "a", got.PlayerID)
	assert.Equal(t, "b", got.NextPlayerID)
	assert.Equal(t, "b", r.TurnForTest().ActiveID)
	assert.Equal(t, "b", r.Info().HostID)

	// the last seat wraps to the front
	require.NoError(t, r.EndTurn(ps[1]))
	require.Equal(t, "c", r.TurnForTest().ActiveID)
	f.m.LeaveRoom(ps[2])
	assert.Equal(t, StatusFinished, r.StatusForTest(), "one player left ends the game")
	assert.Equal(t, 1, ps[1].Count(protocol.MsgGameOver))
}

func TestLeave_InactivePlayerKeepsTurn(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{})
	ps := players(3)
	r := f.started(t, "voting", "randomized", ps...)

	f.m.LeaveRoom(ps[2])
	assert.Equal(t, "a", r.TurnForTest().ActiveID)
	assert.Zero(t, ps[0].Count(protocol.MsgTurnEnded))
	assert.Equal(t, StatusPlaying, r.StatusForTest())
}

func TestLeave_SharedRoundEndsWhenRestSubmitted(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{})
	ps := players(3)
	r := f.started(t, "voting", "shared", ps...)

	_, err := r.SubmitWord(ps[0], "cat", catPath)
	require.NoError(t, err)
	_, err = r.SubmitWord(ps[1], "dog", dogPath)
	require.NoError(t, err)
	assert.Zero(t, ps[0].Count(protocol.MsgRoundEnded))

	f.m.LeaveRoom(ps[2])
	ended, ok := testutil.Last[protocol.RoundEndedPayload](ps[0], protocol.MsgRoundEnded)
	require.True(t, ok)
	assert.Len(t, ended.Results, 2)
	assert.NotContains(t, ended.PlayerScores, "c")
}
