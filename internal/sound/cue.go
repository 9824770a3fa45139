package sound

import "github.com/palemoky/spellcast/internal/protocol"

// Cue names a sound file in the cue directory, without extension.
type Cue string

const (
	CueAccepted Cue = "accepted"
	CueRejected Cue = "rejected"
	CueSwap     Cue = "swap"
	CueYourTurn Cue = "your_turn"
	CueRoundEnd Cue = "round_end"
	CueGameOver Cue = "game_over"
	CueTick     Cue = "tick"
)

var cues = map[protocol.MessageType]Cue{
	protocol.MsgWordAccepted:          CueAccepted,
	protocol.MsgWordAcceptedTurnBased: CueAccepted,
	protocol.MsgWordRejected:          CueRejected,
	protocol.MsgTileSwapped:           CueSwap,
	protocol.MsgRoundEnded:            CueRoundEnd,
	protocol.MsgGameOver:              CueGameOver,
	protocol.MsgCountdownStarted:      CueTick,
}

// For returns the cue for a server event, if any.
func For(t protocol.MessageType) (Cue, bool) {
	c, ok := cues[t]
	return c, ok
}
