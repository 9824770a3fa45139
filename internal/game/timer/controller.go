// Package timer drives per-room grace, voting and countdown phases.
package timer

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/palemoky/spellcast/internal/apperrors"
	"github.com/palemoky/spellcast/internal/logger"
	"github.com/palemoky/spellcast/internal/protocol"
	"github.com/palemoky/spellcast/internal/protocol/codec"
)

// Emitter delivers a timer event to the room. It must not call back into the controller.
type Emitter func(msg *protocol.Message)

// Gate is the decision taken when grace ends.
type Gate struct {
	Open     bool
	Timed    string // player excluded from voting
	Required int    // votes needed
}

// Hooks connect the controller to room rules. Both run without controller locks held.
type Hooks struct {
	// AfterGrace decides whether voting opens. Nil opens voting for the current timed player.
	AfterGrace func() Gate
	// OnExpired runs after a countdown or fixed countdown ends on its own.
	OnExpired func(e Expiry)
}

// Expiry describes a countdown that ran out. Gen identifies the task; see Current.
type Expiry struct {
	Phase Phase
	Timed string
	Gen   uint64
}

// Options tune durations. Zero values take defaults.
type Options struct {
	Name      string        // room code, for logs
	Tick      time.Duration // one "second"; tests shrink it
	Grace     int           // ticks
	Countdown int           // ticks
}

// VoteResult describes what a vote did.
type VoteResult int

const (
	VoteIgnored VoteResult = iota
	VoteCounted
	VoteTriggered
)

// Controller is the per-room timer state machine. At most one task runs at a time;
// every task carries a generation number and exits when it no longer matches.
type Controller struct {
	opts  Options
	emit  Emitter
	hooks Hooks

	// emitMu orders emissions against Stop so no tick escapes after cancellation.
	emitMu sync.Mutex
	mu     sync.Mutex
	state  State
	gen    uint64
	cancel context.CancelFunc
	closed bool
}

// New creates an idle controller.
func New(emit Emitter, hooks Hooks, opts Options) *Controller {
	if opts.Tick <= 0 {
		opts.Tick = time.Second
	}
	if opts.Grace <= 0 {
		opts.Grace = 30
	}
	if opts.Countdown <= 0 {
		opts.Countdown = 30
	}
	return &Controller{
		opts:  opts,
		emit:  emit,
		hooks: hooks,
		state: State{Votes: VoterSet{}},
	}
}

// StartGrace begins a grace period for timed (empty in shared mode).
func (c *Controller) StartGrace(mode, timed string) {
	c.ArmGrace(mode, timed)()
}

// StartFixed begins a fixed countdown of seconds ticks.
func (c *Controller) StartFixed(seconds int, timed string) {
	c.ArmFixed(seconds, timed)()
}

// ArmGrace starts a grace period and returns announce, which emits
// timer_grace_started. No tick is emitted before announce runs, so callers
// can arm under their own lock and announce after releasing it.
// announce must be called exactly once.
func (c *Controller) ArmGrace(mode, timed string) (announce func()) {
	return c.arm(PhaseGrace, c.opts.Grace, timed,
		codec.MustNewMessage(protocol.MsgGraceStarted, protocol.GraceStartedPayload{
			Duration: c.opts.Grace,
			Mode:     mode,
		}))
}

// ArmFixed is ArmGrace for a fixed countdown of seconds ticks.
func (c *Controller) ArmFixed(seconds int, timed string) (announce func()) {
	if seconds <= 0 {
		seconds = 1
	}
	return c.arm(PhaseFixed, seconds, timed,
		codec.MustNewMessage(protocol.MsgFixedStarted, protocol.CountdownStartedPayload{Duration: seconds}))
}

// arm holds emitMu until announce so the new task's ticks queue behind the start event.
func (c *Controller) arm(phase Phase, seconds int, timed string, start *protocol.Message) func() {
	c.emitMu.Lock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.emitMu.Unlock()
		return func() {}
	}
	c.startLocked(phase, seconds, timed)
	c.mu.Unlock()

	logger.L().Debugw("⏱️ timer armed", "room", c.opts.Name, "phase", phase.String(), "seconds", seconds, "timed", timed)
	var once sync.Once
	return func() {
		once.Do(func() {
			defer c.emitMu.Unlock()
			c.emit(start)
		})
	}
}

// OpenVoting opens voting if grace already elapsed without opening it
// and nothing else is running. It reports whether voting opened.
func (c *Controller) OpenVoting(timed string, required int) bool {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	if c.closed || c.state.Phase != PhaseIdle || !c.state.GraceElapsed {
		c.mu.Unlock()
		return false
	}
	msg := c.openVotingLocked(timed, required)
	c.mu.Unlock()

	c.emit(msg)
	return true
}

// Vote records voter's vote. roster is the room's current player list.
// A vote during grace returns ErrVoteDuringGrace; other no-op votes return VoteIgnored.
func (c *Controller) Vote(voter string, roster []string) (VoteResult, error) {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return VoteIgnored, nil
	case c.state.Phase == PhaseGrace:
		c.mu.Unlock()
		return VoteIgnored, apperrors.ErrVoteDuringGrace
	case c.state.Phase != PhaseVoting,
		voter == c.state.Timed,
		!slices.Contains(roster, voter):
		c.mu.Unlock()
		return VoteIgnored, nil
	}

	if !c.state.Votes.Add(voter) {
		c.mu.Unlock()
		return VoteIgnored, nil
	}
	c.state.Votes.Retain(roster)

	msgs, triggered := c.tallyLocked(roster)
	c.mu.Unlock()

	result := VoteCounted
	if triggered {
		result = VoteTriggered
	}

	for _, m := range msgs {
		c.emit(m)
	}
	return result, nil
}

// Reconcile re-counts an open vote against roster after the roster shrank.
// Votes from players no longer in roster are dropped; if the remaining votes
// meet the new threshold the countdown starts. It reports whether it did.
func (c *Controller) Reconcile(roster []string) bool {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	if c.closed || c.state.Phase != PhaseVoting {
		c.mu.Unlock()
		return false
	}
	c.state.Votes.Retain(roster)
	msgs, triggered := c.tallyLocked(roster)
	c.mu.Unlock()

	for _, m := range msgs {
		c.emit(m)
	}
	return triggered
}

// tallyLocked reports the vote count and starts the countdown once the
// votes reach the threshold for roster.
func (c *Controller) tallyLocked(roster []string) ([]*protocol.Message, bool) {
	required := Required(roster, c.state.Timed)
	msgs := []*protocol.Message{
		codec.MustNewMessage(protocol.MsgVoteUpdate, protocol.VoteUpdatePayload{
			Votes:    c.state.Votes.Sorted(),
			Required: required,
		}),
	}
	if len(c.state.Votes) < required {
		return msgs, false
	}
	c.startLocked(PhaseCountdown, c.opts.Countdown, c.state.Timed)
	logger.L().Debugw("⏱️ vote passed, countdown started", "room", c.opts.Name, "required", required)
	return append(msgs, codec.MustNewMessage(protocol.MsgCountdownStarted, protocol.CountdownStartedPayload{
		Duration: c.opts.Countdown,
	})), true
}

// Stop cancels whatever is running and clears all state. Idempotent.
func (c *Controller) Stop() {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	c.stopLocked()
	c.mu.Unlock()
}

// Close stops the controller for good; later starts are ignored.
func (c *Controller) Close() {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	c.stopLocked()
	c.closed = true
	c.mu.Unlock()
}

// Current reports whether nothing was started or stopped since the task of
// generation gen. Hooks use it to drop an expiry that lost a race with Stop.
func (c *Controller) Current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen == gen && !c.closed
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Votes = maps.Clone(c.state.Votes)
	return s
}

func (c *Controller) stopLocked() {
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state = State{Votes: VoterSet{}}
}

// startLocked cancels the running task and spawns a new one. Caller holds both locks.
func (c *Controller) startLocked(phase Phase, seconds int, timed string) {
	c.stopLocked()
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.state.Phase = phase
	c.state.Remaining = seconds
	c.state.Timed = timed
	go c.run(ctx, c.gen, phase, seconds)
}

func (c *Controller) openVotingLocked(timed string, required int) *protocol.Message {
	c.state.Phase = PhaseVoting
	c.state.Timed = timed
	c.state.GraceElapsed = false
	c.state.Votes = VoterSet{}
	return codec.MustNewMessage(protocol.MsgVotingEnabled, protocol.VotingEnabledPayload{Required: required})
}

func (c *Controller) run(ctx context.Context, gen uint64, phase Phase, seconds int) {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
	}()

	ticker := time.NewTicker(c.opts.Tick)
	defer ticker.Stop()

	for remaining := seconds; remaining > 0; remaining-- {
		if !c.tick(gen, phase, remaining) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
	c.expire(gen, phase)
}

// live reports whether the task of generation gen still owns the controller.
func (c *Controller) live(gen uint64, phase Phase) bool {
	return c.gen == gen && !c.closed && c.state.Phase == phase
}

func (c *Controller) tick(gen uint64, phase Phase, remaining int) bool {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	ok := c.live(gen, phase)
	if ok {
		c.state.Remaining = remaining
	}
	c.mu.Unlock()

	if ok {
		c.emit(codec.MustNewMessage(tickType(phase), protocol.TickPayload{Seconds: remaining}))
	}
	return ok
}

func (c *Controller) expire(gen uint64, phase Phase) {
	c.emitMu.Lock()
	c.mu.Lock()
	if !c.live(gen, phase) {
		c.mu.Unlock()
		c.emitMu.Unlock()
		return
	}
	timed := c.state.Timed
	c.state.Phase = PhaseIdle
	c.state.Remaining = 0
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if phase == PhaseGrace {
		c.mu.Unlock()
		c.emitMu.Unlock()
		c.afterGrace(gen, timed)
		return
	}

	c.mu.Unlock()
	logger.L().Debugw("⏱️ timer expired", "room", c.opts.Name, "phase", phase.String(), "timed", timed)
	c.emit(codec.MustNewMessage(protocol.MsgTimerExpired, protocol.TimerExpiredPayload{PlayerID: timed}))
	c.emitMu.Unlock()

	if c.hooks.OnExpired != nil {
		c.hooks.OnExpired(Expiry{Phase: phase, Timed: timed, Gen: gen})
	}
}

func (c *Controller) afterGrace(gen uint64, timed string) {
	gate := Gate{Open: true, Timed: timed}
	if c.hooks.AfterGrace != nil {
		gate = c.hooks.AfterGrace()
	}

	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	// something else may have started while the hook ran
	if c.gen != gen || c.closed || c.state.Phase != PhaseIdle {
		c.mu.Unlock()
		return
	}
	if !gate.Open {
		c.state.GraceElapsed = true
		c.mu.Unlock()
		logger.L().Debugw("⏱️ grace over, voting stays closed", "room", c.opts.Name)
		return
	}
	msg := c.openVotingLocked(gate.Timed, gate.Required)
	c.mu.Unlock()

	logger.L().Debugw("⏱️ voting enabled", "room", c.opts.Name, "required", gate.Required)
	c.emit(msg)
}

func tickType(phase Phase) protocol.MessageType {
	switch phase {
	case PhaseGrace:
		return protocol.MsgGraceTick
	case PhaseCountdown:
		return protocol.MsgCountdownTick
	default:
		return protocol.MsgFixedTick
	}
}
