package room

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/palemoky/spellcast/internal/apperrors"
	"github.com/palemoky/spellcast/internal/game/board"
	"github.com/palemoky/spellcast/internal/game/rule"
	"github.com/palemoky/spellcast/internal/logger"
	"github.com/palemoky/spellcast/internal/protocol"
	"github.com/palemoky/spellcast/internal/protocol/codec"
	"github.com/palemoky/spellcast/internal/types"
)

const hiddenScoreMessage = "Score hidden until round ends"

// validateWord runs the checks both modes share, in order: length,
// dictionary, adjacency, board letters. word is lower case.
func (r *Room) validateWord(word string, path []board.Position, b *board.Board) error {
	if n := utf8.RuneCountInString(word); n < minWordLength || n > maxWordLength {
		return apperrors.ErrInvalidWordLength
	}
	if !r.m.dict.Contains(word) {
		return apperrors.ErrNotInDictionary
	}
	if !rule.ModeMultiplayer.ValidPath(path) {
		return apperrors.ErrInvalidPath
	}
	if ok, reason := rule.MatchesBoard(word, path, b); !ok {
		return apperrors.NewBoardMismatch("%s", reason)
	}
	return nil
}

// SubmitWord runs a shared-board submission. The score goes to the submitter
// only; once every player has a word the round ends.
func (r *Room) SubmitWord(client types.ClientInterface, word string, path []board.Position) (int, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	id := client.GetID()

	r.mu.Lock()
	rs, err := r.sharedRoundLocked(id)
	if err != nil {
		r.mu.Unlock()
		return 0, err
	}
	if rs.Expired(r.now()) {
		r.mu.Unlock()
		return 0, apperrors.ErrTurnExpired
	}
	if err := r.validateWord(word, path, &rs.Board); err != nil {
		r.mu.Unlock()
		return 0, err
	}
	sub := rs.Submissions[id]
	if sub.Has(word) {
		r.mu.Unlock()
		return 0, apperrors.ErrDuplicateWord
	}

	score := rule.Score(word)
	sub.Add(word, path, score)

	o := &outbox{}
	o.send(client, codec.MustNewMessage(protocol.MsgWordAccepted, protocol.WordAcceptedPayload{
		Word:    word,
		Score:   score,
		Message: hiddenScoreMessage,
	}))

	switch {
	case r.allSubmittedLocked(rs):
		r.endRoundLocked(o)
	case r.Settings.TimerType == TimerVoting:
		if st := r.timer.Snapshot(); st.GraceElapsed {
			if g := r.votingGateLocked(rs); g.Open {
				o.gate = &g
			}
		}
	}
	r.mu.Unlock()

	logger.L().Debugw("word accepted", "room", r.Code, "player", id, "word", word)
	r.deliver(o)
	return score, nil
}

// sharedRoundLocked resolves the current round for a shared-board action by id.
func (r *Room) sharedRoundLocked(id string) (*RoundState, error) {
	if p, _ := r.player(id); p == nil {
		return nil, apperrors.ErrNotInRoom
	}
	if r.Status != StatusPlaying {
		return nil, apperrors.ErrGameNotStarted
	}
	mode, ok := r.Mode.(*SharedMode)
	if !ok {
		return nil, apperrors.ErrWrongMode
	}
	return mode.Round, nil
}

// RelaySelection forwards a player's in-progress tile selection to the others.
func (r *Room) RelaySelection(client types.ClientInterface, positions []protocol.Pos, action string) error {
	r.mu.Lock()
	if p, _ := r.player(client.GetID()); p == nil {
		r.mu.Unlock()
		return apperrors.ErrNotInRoom
	}
	if r.Status != StatusPlaying {
		r.mu.Unlock()
		return apperrors.ErrGameNotStarted
	}
	r.mu.Unlock()

	for _, p := range positions {
		if !(board.Position{Row: p[0], Col: p[1]}).InBounds() {
			return fmt.Errorf("%w: %v", apperrors.ErrInvalidPosition, p)
		}
	}
	r.m.hub.BroadcastExcept(r.Code, client.GetID(), codec.MustNewMessage(protocol.MsgOpponentHighlight, protocol.OpponentHighlightPayload{
		PlayerID:  client.GetID(),
		Positions: positions,
		Action:    action,
	}))
	return nil
}
