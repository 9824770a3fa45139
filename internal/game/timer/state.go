package timer

import "slices"

// Phase is the controller's current state. Phases are exclusive by construction.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseGrace
	PhaseVoting
	PhaseCountdown
	PhaseFixed
)

var phaseNames = map[Phase]string{
	PhaseIdle:      "idle",
	PhaseGrace:     "grace",
	PhaseVoting:    "voting",
	PhaseCountdown: "countdown",
	PhaseFixed:     "fixed",
}

func (p Phase) String() string {
	return phaseNames[p]
}

// VoterSet holds distinct voter ids. Order is not meaningful.
type VoterSet map[string]struct{}

// Add inserts id and reports whether it was new.
func (s VoterSet) Add(id string) bool {
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Has reports membership.
func (s VoterSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Retain drops every voter not in ids.
func (s VoterSet) Retain(ids []string) {
	for id := range s {
		if !slices.Contains(ids, id) {
			delete(s, id)
		}
	}
}

// Sorted lists the voters for the wire.
func (s VoterSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// State is a point-in-time copy of the controller.
type State struct {
	Phase     Phase
	Votes     VoterSet
	Remaining int    // seconds left in the running phase
	Timed     string // player whose turn is being timed, may be empty
	// GraceElapsed is set when grace ended without opening voting.
	GraceElapsed bool
}

// GraceActive, VotingActive and CountdownActive expose the phase as flags.
func (s State) GraceActive() bool     { return s.Phase == PhaseGrace }
func (s State) VotingActive() bool    { return s.Phase == PhaseVoting }
func (s State) CountdownActive() bool { return s.Phase == PhaseCountdown || s.Phase == PhaseFixed }

// Required returns how many distinct votes end voting: everyone on the
// roster except the timed player.
func Required(roster []string, timed string) int {
	if timed != "" && slices.Contains(roster, timed) {
		return len(roster) - 1
	}
	return len(roster)
}
