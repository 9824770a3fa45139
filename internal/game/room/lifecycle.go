package room

import (
	"cmp"
	"math"
	"slices"

	"github.com/palemoky/spellcast/internal/apperrors"
	"github.com/palemoky/spellcast/internal/game/board"
	"github.com/palemoky/spellcast/internal/logger"
	"github.com/palemoky/spellcast/internal/protocol"
	"github.com/palemoky/spellcast/internal/protocol/codec"
	"github.com/palemoky/spellcast/internal/server/storage"
	"github.com/palemoky/spellcast/internal/types"
)

// UpdateSettings changes the timer settings. Host only, not during a game.
func (r *Room) UpdateSettings(client types.ClientInterface, timerType string, fixedMinutes int) error {
	r.mu.Lock()
	if client.GetID() != r.HostID {
		r.mu.Unlock()
		return apperrors.ErrNotHost
	}
	if r.Status == StatusPlaying {
		r.mu.Unlock()
		return apperrors.ErrGameAlreadyStarted
	}

	if tt, ok := ParseTimerType(timerType); ok {
		r.Settings.TimerType = tt
	}
	if fixedMinutes != 0 {
		r.Settings.FixedMinutes = clamp(fixedMinutes, minFixedMinutes, maxFixedMinutes)
		r.Settings.Duration = r.Settings.FixedMinutes * 60
	}

	o := &outbox{persist: true}
	o.broadcast(codec.MustNewMessage(protocol.MsgTimerSettingsUpdated, protocol.TimerSettingsPayload{
		TimerType:    string(r.Settings.TimerType),
		FixedMinutes: r.Settings.FixedMinutes,
	}))
	r.mu.Unlock()

	r.deliver(o)
	return nil
}

// StartGame builds round or turn one and starts its timer. minutes is the
// fixed-timer length; zero keeps the room setting.
func (r *Room) StartGame(client types.ClientInterface, timerType, boardMode string, minutes float64) error {
	r.mu.Lock()
	switch {
	case client.GetID() != r.HostID:
		r.mu.Unlock()
		return apperrors.ErrNotHost
	case r.Status == StatusPlaying:
		r.mu.Unlock()
		return apperrors.ErrGameAlreadyStarted
	case len(r.Players) < minPlayers:
		r.mu.Unlock()
		return apperrors.ErrInsufficientPlayers
	}

	if tt, ok := ParseTimerType(timerType); ok {
		r.Settings.TimerType = tt
	}
	if bm, ok := ParseBoardMode(boardMode); ok {
		r.Settings.BoardMode = bm
	}
	if minutes > 0 {
		r.Settings.Duration = clamp(int(math.Round(minutes*60)), minDuration, maxDuration)
	}

	r.timer.Stop()
	r.epoch++
	r.gen = board.NewGenerator(board.SeedFor(r.Code, r.epoch))
	for _, p := range r.Players {
		p.Score = 0
	}

	b := r.gen.Generate()
	now := r.now()
	started := protocol.GameStartedPayload{
		TimerType:    string(r.Settings.TimerType),
		BoardMode:    string(r.Settings.BoardMode),
		BoardState:   b.Rows(),
		FixedMinutes: r.Settings.FixedMinutes,
		RoundNumber:  1,
		TotalRounds:  r.Settings.Rounds,
	}
	if r.Settings.TimerType == TimerFixed {
		started.Duration = r.Settings.Duration
	}

	switch r.Settings.BoardMode {
	case BoardRandomized:
		ts := &TurnState{
			Board:       b,
			ActiveID:    r.Players[0].ID(),
			TurnNumber:  1,
			RoundNumber: 1,
		}
		if d := r.duration(); d > 0 {
			ts.ExpiresAt = now.Add(d)
		}
		r.Mode = &TurnMode{Turn: ts}
		started.ActivePlayerID = ts.ActiveID
	default:
		r.Mode = &SharedMode{Round: newRoundState(1, b, r.roster(), now, r.duration())}
	}
	r.Status = StatusPlaying

	o := &outbox{persist: true, arm: r.nextPhaseLocked()}
	o.broadcast(codec.MustNewMessage(protocol.MsgGameStarted, started))
	r.mu.Unlock()

	logger.L().Infow("🎮 game started", "room", r.Code, "mode", started.BoardMode, "timer", started.TimerType)
	r.deliver(o)
	return nil
}

// finishLocked ends the game and announces the standings.
func (r *Room) finishLocked(o *outbox) {
	r.timer.Stop()
	r.Status = StatusFinished
	r.nextPhaseLocked()

	ranked := slices.Clone(r.Players)
	slices.SortStableFunc(ranked, func(a, b *Player) int {
		return cmp.Compare(b.Score, a.Score)
	})

	over := protocol.GameOverPayload{Standings: make([]protocol.PlayerInfo, len(ranked))}
	for i, p := range ranked {
		over.Standings[i] = r.playerInfoLocked(p)
	}
	if len(ranked) > 0 {
		over.WinnerID = ranked[0].ID()
	}
	o.broadcast(codec.MustNewMessage(protocol.MsgGameOver, over))

	o.results = make([]storage.GameResult, len(ranked))
	for i, p := range ranked {
		o.results[i] = storage.GameResult{
			PlayerName: p.Name(),
			Score:      p.Score,
			Won:        p.ID() == over.WinnerID,
		}
	}
	o.persist = true
	logger.L().Infow("🏆 game over", "room", r.Code, "winner", over.WinnerID)
}

// removeLocked takes client out of the room. It returns nil when client was
// not a member. The caller holds m.mu and r.mu.
func (r *Room) removeLocked(client types.ClientInterface) *outbox {
	id := client.GetID()
	r.m.sessions.Unbind(id)
	r.m.hub.Leave(r.Code, id)
	client.SetRoom("")

	p, idx := r.player(id)
	if p == nil {
		return nil
	}
	r.Players = slices.Delete(r.Players, idx, idx+1)

	o := &outbox{persist: true}
	if len(r.Players) == 0 {
		r.closed = true
		r.timer.Close()
		r.m.hub.Drop(r.Code)
		o.dropped = true
		logger.L().Infow("🏠 room deleted", "room", r.Code)
		return o
	}

	left := protocol.PlayerLeftPayload{
		PlayerID:    id,
		PlayerName:  p.Name(),
		PlayerCount: len(r.Players),
	}
	if r.HostID == id {
		r.HostID = r.Players[0].ID()
		left.NewHostID = r.HostID
	}
	o.broadcast(codec.MustNewMessage(protocol.MsgPlayerLeft, left))
	logger.L().Infow("👋 left", "room", r.Code, "player", p.Name())

	if r.Status == StatusPlaying {
		r.resumeAfterLeaveLocked(o, id, idx)
	}
	return o
}

// resumeAfterLeaveLocked keeps a running game consistent after the player at
// index idx left.
func (r *Room) resumeAfterLeaveLocked(o *outbox, id string, idx int) {
	if len(r.Players) < minPlayers {
		r.finishLocked(o)
		return
	}

	switch mode := r.Mode.(type) {
	case *TurnMode:
		if mode.Turn.ActiveID != id {
			if r.Settings.TimerType == TimerVoting {
				o.reconcile = r.roster()
			}
			return
		}
		next, finished := r.moveTurnLocked(o, idx)
		o.broadcast(codec.MustNewMessage(protocol.MsgTurnEnded, protocol.TurnEndedPayload{
			PlayerID:     id,
			NextPlayerID: next,
		}))
		if finished {
			r.finishLocked(o)
		}
	case *SharedMode:
		rs := mode.Round
		delete(rs.Submissions, id)
		if r.allSubmittedLocked(rs) || r.allDoneLocked(rs) {
			r.endRoundLocked(o)
			return
		}
		if r.Settings.TimerType != TimerVoting {
			return
		}
		st := r.timer.Snapshot()
		switch {
		case st.Timed == id && (st.VotingActive() || st.CountdownActive()):
			// the laggard everyone was waiting on is gone
			r.timer.Stop()
			o.arm = r.nextPhaseLocked()
		case st.VotingActive():
			o.reconcile = r.roster()
		case st.GraceElapsed:
			if g := r.votingGateLocked(rs); g.Open {
				o.gate = &g
			}
		}
	}
}
