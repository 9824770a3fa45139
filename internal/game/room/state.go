package room

// Status is the room lifecycle stage.
type Status int

const (
	StatusWaiting Status = iota
	StatusPlaying
	StatusFinished
)

func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusFinished:
		return "finished"
	default:
		return "waiting"
	}
}

// TimerType selects how rounds and turns are timed.
type TimerType string

const (
	TimerVoting TimerType = "voting"
	TimerFixed  TimerType = "fixed"
)

// ParseTimerType accepts the wire names; ok is false for anything else.
func ParseTimerType(s string) (TimerType, bool) {
	switch t := TimerType(s); t {
	case TimerVoting, TimerFixed:
		return t, true
	}
	return "", false
}

// BoardMode selects shared-board rounds or rotating turns.
type BoardMode string

const (
	BoardShared     BoardMode = "shared"
	BoardRandomized BoardMode = "randomized"
)

// ParseBoardMode accepts the wire names; ok is false for anything else.
func ParseBoardMode(s string) (BoardMode, bool) {
	switch m := BoardMode(s); m {
	case BoardShared, BoardRandomized:
		return m, true
	}
	return "", false
}
