package room

import (
	"github.com/palemoky/spellcast/internal/apperrors"
	"github.com/palemoky/spellcast/internal/game/board"
	"github.com/palemoky/spellcast/internal/game/timer"
	"github.com/palemoky/spellcast/internal/logger"
	"github.com/palemoky/spellcast/internal/protocol"
	"github.com/palemoky/spellcast/internal/protocol/codec"
	"github.com/palemoky/spellcast/internal/types"
)

// EndRound ends shared-board round number round. It reports false when that
// round is no longer current.
func (r *Room) EndRound(round int) bool {
	r.mu.Lock()
	mode, ok := r.Mode.(*SharedMode)
	if r.closed || r.Status != StatusPlaying || !ok || mode.Round.Number != round {
		r.mu.Unlock()
		return false
	}
	o := &outbox{}
	r.endRoundLocked(o)
	r.mu.Unlock()

	r.deliver(o)
	return true
}

// endRoundLocked reveals the round, refreshes consumed tiles, settles swaps
// and moves to the next round or ends the game.
func (r *Room) endRoundLocked(o *outbox) {
	rs := r.Mode.(*SharedMode).Round
	r.timer.Stop()

	results := make([]protocol.RoundResult, 0, len(r.Players))
	for _, p := range r.Players {
		sub := rs.Submissions[p.ID()]
		if sub == nil {
			sub = &Submission{}
		}
		results = append(results, protocol.RoundResult{
			PlayerID:  p.ID(),
			Name:      p.Name(),
			Score:     sub.Score,
			WordCount: len(sub.Words),
			Words:     append([]string{}, sub.Words...),
		})
	}

	consumed := rs.Consumed()
	r.gen.Refresh(&rs.Board, consumed)

	used := make(map[board.Position]bool, len(consumed))
	for _, p := range consumed {
		used[p] = true
	}
	for i := range rs.Swaps {
		if used[rs.Swaps[i].Position] {
			rs.Swaps[i].Used = true
		}
	}
	for _, s := range rs.Swaps {
		if !s.Used {
			rs.Board.Set(s.Position, s.New)
		}
	}

	scores := make(map[string]int, len(r.Players))
	for _, p := range r.Players {
		if sub := rs.Submissions[p.ID()]; sub != nil {
			p.Score += sub.Score
		}
		scores[p.ID()] = p.Score
	}

	o.broadcast(codec.MustNewMessage(protocol.MsgRoundEnded, protocol.RoundEndedPayload{
		Results:           results,
		RoundNumber:       rs.Number,
		BoardState:        rs.Board.Rows(),
		ConsumedPositions: toWire(consumed),
		PlayerScores:      scores,
	}))
	o.persist = true
	logger.L().Infow("🏁 round ended", "room", r.Code, "round", rs.Number, "consumed", len(consumed))

	if rs.Number >= r.Settings.Rounds {
		r.finishLocked(o)
		return
	}

	// fresh submissions, no swap history
	next := newRoundState(rs.Number+1, rs.Board, r.roster(), r.now(), r.duration())
	r.Mode = &SharedMode{Round: next}
	o.arm = r.nextPhaseLocked()
}

// MarkDone flags the player as done for this round. The round ends once everyone is done.
func (r *Room) MarkDone(client types.ClientInterface) error {
	r.mu.Lock()
	rs, err := r.sharedRoundLocked(client.GetID())
	if err != nil {
		r.mu.Unlock()
		return err
	}
	rs.Submissions[client.GetID()].Done = true

	o := &outbox{}
	if r.allDoneLocked(rs) {
		rs.AllDone = true
		r.endRoundLocked(o)
	} else {
		done := 0
		for _, sub := range rs.Submissions {
			if sub.Done {
				done++
			}
		}
		o.broadcast(codec.MustNewMessage(protocol.MsgPlayerMarkedDone, protocol.PlayerMarkedDonePayload{
			PlayerName:   client.GetName(),
			PlayersDone:  done,
			TotalPlayers: len(r.Players),
		}))
	}
	r.mu.Unlock()

	r.deliver(o)
	return nil
}

// AllDone reports whether every player marked the current round done.
func (r *Room) AllDone() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	mode, ok := r.Mode.(*SharedMode)
	return ok && r.allDoneLocked(mode.Round)
}

func (r *Room) allDoneLocked(rs *RoundState) bool {
	for _, p := range r.Players {
		if sub := rs.Submissions[p.ID()]; sub == nil || !sub.Done {
			return false
		}
	}
	return true
}

// allSubmittedLocked reports whether every player has at least one word this round.
func (r *Room) allSubmittedLocked(rs *RoundState) bool {
	for _, p := range r.Players {
		if sub := rs.Submissions[p.ID()]; sub == nil || len(sub.Words) == 0 {
			return false
		}
	}
	return true
}

// votingGateLocked opens voting only when exactly one player has no word
// yet; that player is the one being timed.
func (r *Room) votingGateLocked(rs *RoundState) timer.Gate {
	var laggards []string
	for _, p := range r.Players {
		if sub := rs.Submissions[p.ID()]; sub == nil || len(sub.Words) == 0 {
			laggards = append(laggards, p.ID())
		}
	}
	if len(laggards) != 1 {
		return timer.Gate{}
	}
	roster := r.roster()
	return timer.Gate{Open: true, Timed: laggards[0], Required: timer.Required(roster, laggards[0])}
}

// afterGrace decides what happens when a grace period ends.
func (r *Room) afterGrace() timer.Gate {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.Status != StatusPlaying {
		return timer.Gate{}
	}
	switch mode := r.Mode.(type) {
	case *TurnMode:
		id := mode.Turn.ActiveID
		return timer.Gate{Open: true, Timed: id, Required: timer.Required(r.roster(), id)}
	case *SharedMode:
		return r.votingGateLocked(mode.Round)
	}
	return timer.Gate{}
}

// onExpired handles a countdown that ran out: the round ends, or the turn is skipped.
func (r *Room) onExpired(e timer.Expiry) {
	r.mu.Lock()
	if r.closed || r.Status != StatusPlaying || !r.timer.Current(e.Gen) {
		r.mu.Unlock()
		return
	}

	o := &outbox{}
	switch mode := r.Mode.(type) {
	case *SharedMode:
		r.endRoundLocked(o)
	case *TurnMode:
		if mode.Turn.ActiveID != e.Timed {
			break
		}
		_, idx := r.player(e.Timed)
		next, finished := r.moveTurnLocked(o, idx+1)
		o.broadcast(codec.MustNewMessage(protocol.MsgTurnTimeout, protocol.TurnTimeoutPayload{
			SkippedPlayerID: e.Timed,
			NextPlayerID:    next,
		}))
		if finished {
			r.finishLocked(o)
		}
		logger.L().Infow("⏱️ turn timed out", "room", r.Code, "player", e.Timed)
	}
	r.mu.Unlock()

	r.deliver(o)
}

// Vote casts client's vote to shorten the current round or turn.
func (r *Room) Vote(client types.ClientInterface) (timer.VoteResult, error) {
	r.mu.Lock()
	if p, _ := r.player(client.GetID()); p == nil {
		r.mu.Unlock()
		return timer.VoteIgnored, apperrors.ErrNotInRoom
	}
	if r.Status != StatusPlaying {
		r.mu.Unlock()
		return timer.VoteIgnored, apperrors.ErrGameNotStarted
	}
	roster := r.roster()
	r.mu.Unlock()

	return r.timer.Vote(client.GetID(), roster)
}

func toWire(ps []board.Position) []protocol.Pos {
	out := make([]protocol.Pos, len(ps))
	for i, p := range ps {
		out[i] = protocol.Pos{p.Row, p.Col}
	}
	return out
}

// FromWire converts wire coordinates to board positions.
func FromWire(ps []protocol.Pos) []board.Position {
	out := make([]board.Position, len(ps))
	for i, p := range ps {
		out[i] = board.Position{Row: p[0], Col: p[1]}
	}
	return out
}
