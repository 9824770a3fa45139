package room

import (
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/spellcast/internal/apperrors"
	"github.com/palemoky/spellcast/internal/game/timer"
	"github.com/palemoky/spellcast/internal/protocol"
	"github.com/palemoky/spellcast/internal/testutil"
)

const (
	waitFor = 2 * time.Second
	poll    = time.Millisecond
)

func TestVote_RejectedDuringGrace(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{GraceSeconds: 30})
	ps := players(2)
	r := f.started(t, "voting", "randomized", ps...)

	require.True(t, r.Timer().GraceActive())
	_, err := r.Vote(ps[1])
	assert.ErrorIs(t, err, apperrors.ErrVoteDuringGrace)

	outsider := testutil.NewSimpleClient("z", "Zed")
	_, err = r.Vote(outsider)
	assert.ErrorIs(t, err, apperrors.ErrNotInRoom)
}

func TestTurnMode_VoteSkipsActivePlayer(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{Tick: time.Millisecond, GraceSeconds: 2, CountdownSeconds: 3})
	ps := players(2)
	r := f.started(t, "voting", "randomized", ps...)

	require.Eventually(t, func() bool { return r.Timer().VotingActive() }, waitFor, poll)
	enabled, ok := testutil.Last[protocol.VotingEnabledPayload](ps[0], protocol.MsgVotingEnabled)
	require.True(t, ok)
	assert.Equal(t, 1, enabled.Required)

	res, err := r.Vote(ps[0])
	require.NoError(t, err)
	assert.Equal(t, timer.VoteIgnored, res, "the timed player cannot vote")

	res, err = r.Vote(ps[1])
	require.NoError(t, err)
	assert.Equal(t, timer.VoteTriggered, res)

	require.Eventually(t, func() bool { return ps[0].Count(protocol.MsgTurnTimeout) > 0 }, waitFor, poll)
	timeout, _ := testutil.Last[protocol.TurnTimeoutPayload](ps[1], protocol.MsgTurnTimeout)
	assert.Equal(t, "a", timeout.SkippedPlayerID)
	assert.Equal(t, "b", timeout.NextPlayerID)
}

func TestTurnMode_FixedTimeout(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{Tick: time.Millisecond})
	ps := players(2)
	r := f.room(t, ps...)
	require.NoError(t, r.StartGame(ps[0], "fixed", "randomized", 0.5))

	require.Eventually(t, func() bool { return ps[1].Count(protocol.MsgTurnTimeout) > 0 }, waitFor, poll)
	first := ps[1].MessagesOfType(protocol.MsgTurnTimeout)[0]
	assert.Contains(t, string(first.Payload), `"skipped_player_id":"a"`)

	// every turn times out until the game is over
	require.Eventually(t, func() bool { return r.StatusForTest() == StatusFinished }, 5*time.Second, poll)
	assert.Equal(t, 10, ps[0].Count(protocol.MsgTurnTimeout))
	assert.Equal(t, 1, ps[0].Count(protocol.MsgGameOver))
}

func TestSharedRound_FixedExpiry(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{Tick: time.Millisecond, Rounds: 1})
	ps := players(2)
	r := f.room(t, ps...)
	require.NoError(t, r.StartGame(ps[0], "fixed", "shared", 0.5))

	require.Eventually(t, func() bool { return ps[0].Count(protocol.MsgRoundEnded) == 1 }, waitFor, poll)
	require.Eventually(t, func() bool { return r.StatusForTest() == StatusFinished }, waitFor, poll)
	assert.Positive(t, ps[0].Count(protocol.MsgFixedTick))
}

func TestSharedRound_VotingWaitsForOneLaggard(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{Tick: time.Millisecond, GraceSeconds: 2, CountdownSeconds: 10_000})
	ps := players(3)
	r := f.started(t, "voting", "shared", ps...)

	require.Eventually(t, func() bool { return r.Timer().GraceElapsed }, waitFor, poll)
	assert.Zero(t, ps[0].Count(protocol.MsgVotingEnabled), "nobody has a word yet")

	_, err := r.SubmitWord(ps[0], "cat", catPath)
	require.NoError(t, err)
	assert.False(t, r.Timer().VotingActive(), "two players still have nothing")

	_, err = r.SubmitWord(ps[1], "dog", dogPath)
	require.NoError(t, err)
	require.True(t, r.Timer().VotingActive())
	assert.Equal(t, "c", r.Timer().Timed)
	enabled, _ := testutil.Last[protocol.VotingEnabledPayload](ps[2], protocol.MsgVotingEnabled)
	assert.Equal(t, 2, enabled.Required)

	res, err := r.Vote(ps[0])
	require.NoError(t, err)
	assert.Equal(t, timer.VoteCounted, res)
	res, err = r.Vote(ps[1])
	require.NoError(t, err)
	assert.Equal(t, timer.VoteTriggered, res)
	assert.True(t, r.Timer().CountdownActive())

	// the laggard gives up; everyone left has a word
	f.m.LeaveRoom(ps[2])
	assert.Equal(t, 1, ps[0].Count(protocol.MsgRoundEnded))
	require.Eventually(t, func() bool { return ps[0].Count(protocol.MsgGraceStarted) > 0 }, waitFor, poll)
	assert.Equal(t, 2, r.RoundForTest().Number)
}

func TestSharedRound_CountdownExpiryEndsRound(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{Tick: time.Millisecond, GraceSeconds: 2, CountdownSeconds: 3})
	ps := players(2)
	r := f.started(t, "voting", "shared", ps...)

	_, err := r.SubmitWord(ps[0], "cat", catPath)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return r.Timer().VotingActive() }, waitFor, poll)

	_, err = r.Vote(ps[0])
	require.NoError(t, err)
	require.Eventually(t, func() bool { return ps[1].Count(protocol.MsgRoundEnded) == 1 }, waitFor, poll)

	ended, _ := testutil.Last[protocol.RoundEndedPayload](ps[1], protocol.MsgRoundEnded)
	assert.Equal(t, map[string]int{"a": 8, "b": 0}, ended.PlayerScores)
	assert.Equal(t, 1, ps[1].Count(protocol.MsgTimerExpired))
}

func TestTurnMode_VoterLeavesThresholdMet(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{Tick: time.Millisecond, GraceSeconds: 2, CountdownSeconds: 10_000})
	ps := players(3)
	r := f.started(t, "voting", "randomized", ps...)

	require.Eventually(t, func() bool { return r.Timer().VotingActive() }, waitFor, poll)
	res, err := r.Vote(ps[1])
	require.NoError(t, err)
	require.Equal(t, timer.VoteCounted, res)

	// with c gone, b's vote is the only one needed
	f.m.LeaveRoom(ps[2])

	assert.True(t, r.Timer().CountdownActive())
	assert.Equal(t, 1, ps[0].Count(protocol.MsgCountdownStarted))
	update, ok := testutil.Last[protocol.VoteUpdatePayload](ps[1], protocol.MsgVoteUpdate)
	require.True(t, ok)
	assert.Equal(t, []string{"b"}, update.Votes)
	assert.Equal(t, 1, update.Required)
}

func TestTurnMode_DepartedVoteNoLongerCounts(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{Tick: time.Millisecond, GraceSeconds: 2, CountdownSeconds: 10_000})
	ps := players(4)
	r := f.started(t, "voting", "randomized", ps...)

	require.Eventually(t, func() bool { return r.Timer().VotingActive() }, waitFor, poll)
	_, err := r.Vote(ps[3])
	require.NoError(t, err)

	f.m.LeaveRoom(ps[3])
	assert.True(t, r.Timer().VotingActive())
	assert.Empty(t, r.Timer().Votes)

	res, err := r.Vote(ps[1])
	require.NoError(t, err)
	assert.Equal(t, timer.VoteCounted, res, "two of b, c are needed")
	res, err = r.Vote(ps[2])
	require.NoError(t, err)
	assert.Equal(t, timer.VoteTriggered, res)
}

func TestSharedRound_VoterLeavesThresholdMet(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{Tick: time.Millisecond, GraceSeconds: 2, CountdownSeconds: 10_000})
	ps := players(3)
	r := f.started(t, "voting", "shared", ps...)

	_, err := r.SubmitWord(ps[0], "cat", catPath)
	require.NoError(t, err)
	_, err = r.SubmitWord(ps[1], "dog", dogPath)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return r.Timer().VotingActive() }, waitFor, poll)

	res, err := r.Vote(ps[0])
	require.NoError(t, err)
	require.Equal(t, timer.VoteCounted, res)

	f.m.LeaveRoom(ps[1])

	assert.Zero(t, ps[0].Count(protocol.MsgRoundEnded), "c still has no word")
	assert.True(t, r.Timer().CountdownActive())
	assert.Equal(t, "c", r.Timer().Timed)
}

// lockCheckClient records whether the room lock was free when a timer start
// event reached it.
type lockCheckClient struct {
	*testutil.SimpleClient
	room       *Room
	sawStart   atomic.Bool
	heldAtEmit atomic.Bool
}

func (c *lockCheckClient) SendMessage(msg *protocol.Message) {
	if msg.Type == protocol.MsgGraceStarted && c.room != nil {
		c.sawStart.Store(true)
		if c.room.mu.TryLock() {
			c.room.mu.Unlock()
		} else {
			c.heldAtEmit.Store(true)
		}
	}
	c.SimpleClient.SendMessage(msg)
}

func TestTimerStart_EmittedOutsideRoomLock(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{GraceSeconds: 30})
	host := &lockCheckClient{SimpleClient: testutil.NewSimpleClient("a", "Alice")}
	guest := testutil.NewSimpleClient("b", "Bob")

	r := f.m.CreateRoom(host, 4)
	_, _, err := f.m.JoinRoom(guest, r.Code)
	require.NoError(t, err)
	host.room = r

	require.NoError(t, r.StartGame(host, "voting", "shared", 0))

	require.True(t, host.sawStart.Load())
	assert.False(t, host.heldAtEmit.Load())

	require.Eventually(t, func() bool { return guest.Count(protocol.MsgGraceTick) > 0 }, waitFor, poll)
	seen := guest.Types()
	start := slices.Index(seen, protocol.MsgGraceStarted)
	tick := slices.Index(seen, protocol.MsgGraceTick)
	require.NotEqual(t, -1, start)
	assert.Less(t, start, tick, "start event precedes the first tick")
}
