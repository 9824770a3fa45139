package room

import (
	"context"
	"time"

	"github.com/palemoky/spellcast/internal/game/timer"
	"github.com/palemoky/spellcast/internal/logger"
	"github.com/palemoky/spellcast/internal/protocol"
	"github.com/palemoky/spellcast/internal/server/storage"
	"github.com/palemoky/spellcast/internal/types"
)

const storeTimeout = 5 * time.Second

type envelope struct {
	to     types.ClientInterface // unicast when set
	except string
	msg    *protocol.Message
}

// outbox collects the effects of one locked mutation. deliver runs them in
// order once the room lock is released.
type outbox struct {
	out []envelope

	// arm starts the timer for this phase value, unless the room moved on first.
	arm uint64
	// gate opens voting after a submission completed the condition.
	gate *timer.Gate
	// reconcile re-counts an open vote against the roster left after a departure.
	reconcile []string

	results []storage.GameResult
	persist bool
	dropped bool
}

func (o *outbox) send(c types.ClientInterface, msg *protocol.Message) {
	o.out = append(o.out, envelope{to: c, msg: msg})
}

func (o *outbox) broadcast(msg *protocol.Message) {
	o.out = append(o.out, envelope{msg: msg})
}

func (o *outbox) broadcastExcept(id string, msg *protocol.Message) {
	o.out = append(o.out, envelope{except: id, msg: msg})
}

// deliver must be called without r.mu held.
func (r *Room) deliver(o *outbox) {
	hub := r.m.hub
	for _, e := range o.out {
		switch {
		case e.to != nil:
			e.to.SendMessage(e.msg)
		case e.except != "":
			hub.BroadcastExcept(r.Code, e.except, e.msg)
		default:
			hub.Broadcast(r.Code, e.msg)
		}
	}

	if o.gate != nil {
		r.timer.OpenVoting(o.gate.Timed, o.gate.Required)
	}

	if o.reconcile != nil {
		r.timer.Reconcile(o.reconcile)
	}

	if o.arm != 0 {
		var announce func()
		r.mu.Lock()
		// a stale arm must not replace the timer of a newer round or turn
		if !r.closed && r.Status == StatusPlaying && r.phase == o.arm {
			announce = r.armTimerLocked()
		}
		r.mu.Unlock()
		if announce != nil {
			announce()
		}
	}

	if len(o.results) > 0 && r.m.stats != nil {
		results := o.results
		go func() {
			defer func() {
				if rec := recover(); rec != nil {
					logger.LogPanic(rec)
				}
			}()
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			defer cancel()
			if err := r.m.stats.RecordGame(ctx, results); err != nil {
				logger.L().Warnw("record game failed", "room", r.Code, "error", err)
			}
		}()
	}

	switch {
	case o.dropped:
		r.m.forget(r.Code)
	case o.persist:
		r.m.persist(r)
	}
}

// armTimerLocked starts the phase timer for the current round or turn and
// returns the announcement to emit once r.mu is released.
func (r *Room) armTimerLocked() func() {
	switch mode := r.Mode.(type) {
	case *SharedMode:
		if r.Settings.TimerType == TimerFixed {
			return r.timer.ArmFixed(remaining(mode.Round.ExpiresAt, r.now()), "")
		}
		return r.timer.ArmGrace(string(BoardShared), "")
	case *TurnMode:
		if r.Settings.TimerType == TimerFixed {
			return r.timer.ArmFixed(remaining(mode.Turn.ExpiresAt, r.now()), mode.Turn.ActiveID)
		}
		return r.timer.ArmGrace(string(BoardRandomized), mode.Turn.ActiveID)
	}
	return nil
}

// nextPhaseLocked marks a new round or turn and returns the value to arm.
func (r *Room) nextPhaseLocked() uint64 {
	r.phase++
	return r.phase
}

// remaining rounds the time left up to whole seconds.
func remaining(deadline, now time.Time) int {
	d := deadline.Sub(now)
	secs := int((d + time.Second - 1) / time.Second)
	return max(secs, 1)
}
