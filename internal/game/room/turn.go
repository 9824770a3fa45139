package room

import (
	"strings"

	"github.com/palemoky/spellcast/internal/apperrors"
	"github.com/palemoky/spellcast/internal/game/board"
	"github.com/palemoky/spellcast/internal/game/rule"
	"github.com/palemoky/spellcast/internal/logger"
	"github.com/palemoky/spellcast/internal/protocol"
	"github.com/palemoky/spellcast/internal/protocol/codec"
	"github.com/palemoky/spellcast/internal/types"
)

// SubmitTurnWord plays a word on the active player's turn. The move and its
// score are public; used tiles are rerolled and the turn passes on.
func (r *Room) SubmitTurnWord(client types.ClientInterface, word string, path []board.Position) (int, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	id := client.GetID()

	r.mu.Lock()
	ts, err := r.activeTurnLocked(id)
	if err != nil {
		r.mu.Unlock()
		return 0, err
	}
	if ts.Expired(r.now()) {
		r.mu.Unlock()
		return 0, apperrors.ErrTurnExpired
	}
	if err := r.validateWord(word, path, &ts.Board); err != nil {
		r.mu.Unlock()
		return 0, err
	}

	score := rule.Score(word)
	p, idx := r.player(id)
	p.Score += score
	r.gen.Refresh(&ts.Board, path)
	ts.Played = append(ts.Played, PlayedWord{PlayerID: id, Word: word, Score: score, Turn: ts.TurnNumber})

	o := &outbox{persist: true}
	next, finished := r.moveTurnLocked(o, idx+1)
	o.broadcast(codec.MustNewMessage(protocol.MsgWordAcceptedTurnBased, protocol.WordAcceptedTurnPayload{
		PlayerID:          id,
		Word:              word,
		Score:             score,
		BoardState:        ts.Board.Rows(),
		ConsumedPositions: toWire(path),
		NextPlayerID:      next,
		TurnNumber:        ts.TurnNumber,
	}))
	if finished {
		r.finishLocked(o)
	}
	r.mu.Unlock()

	logger.L().Debugw("turn word accepted", "room", r.Code, "player", id, "word", word, "score", score)
	r.deliver(o)
	return score, nil
}

// EndTurn passes the turn without playing.
func (r *Room) EndTurn(client types.ClientInterface) error {
	id := client.GetID()

	r.mu.Lock()
	if _, err := r.activeTurnLocked(id); err != nil {
		r.mu.Unlock()
		return err
	}
	_, idx := r.player(id)

	o := &outbox{persist: true}
	next, finished := r.moveTurnLocked(o, idx+1)
	o.broadcast(codec.MustNewMessage(protocol.MsgTurnEnded, protocol.TurnEndedPayload{
		PlayerID:     id,
		NextPlayerID: next,
	}))
	if finished {
		r.finishLocked(o)
	}
	r.mu.Unlock()

	r.deliver(o)
	return nil
}

func (r *Room) activeTurnLocked(id string) (*TurnState, error) {
	if p, _ := r.player(id); p == nil {
		return nil, apperrors.ErrNotInRoom
	}
	if r.Status != StatusPlaying {
		return nil, apperrors.ErrGameNotStarted
	}
	mode, ok := r.Mode.(*TurnMode)
	if !ok {
		return nil, apperrors.ErrWrongMode
	}
	if mode.Turn.ActiveID != id {
		return nil, apperrors.ErrNotYourTurn
	}
	return mode.Turn, nil
}

// moveTurnLocked hands the turn to the player at roster index pos. Passing the
// end of the roster wraps to the first player and completes a round.
// finished is true when that was the last round.
func (r *Room) moveTurnLocked(o *outbox, pos int) (next string, finished bool) {
	ts := r.Mode.(*TurnMode).Turn
	r.timer.Stop()

	if pos >= len(r.Players) {
		pos = 0
		ts.RoundNumber++
	}
	ts.TurnNumber++
	if ts.RoundNumber > r.Settings.Rounds {
		ts.ActiveID = ""
		return "", true
	}

	ts.ActiveID = r.Players[pos].ID()
	if d := r.duration(); d > 0 {
		ts.ExpiresAt = r.now().Add(d)
	}
	o.arm = r.nextPhaseLocked()
	return ts.ActiveID, false
}
