package room

import (
	"github.com/palemoky/spellcast/internal/apperrors"
	"github.com/palemoky/spellcast/internal/game/board"
	"github.com/palemoky/spellcast/internal/protocol"
	"github.com/palemoky/spellcast/internal/protocol/codec"
	"github.com/palemoky/spellcast/internal/types"
)

// SwapTile rerolls the tile at pos for the swap cost. The new letter stays
// into the next round unless a word uses the tile first.
func (r *Room) SwapTile(client types.ClientInterface, pos board.Position) (SwapRecord, error) {
	id := client.GetID()

	r.mu.Lock()
	rs, err := r.sharedRoundLocked(id)
	if err != nil {
		r.mu.Unlock()
		return SwapRecord{}, err
	}
	if !pos.InBounds() {
		r.mu.Unlock()
		return SwapRecord{}, apperrors.ErrInvalidPosition
	}
	p, _ := r.player(id)
	cost := r.m.opts.SwapCost
	if p.Score < cost {
		r.mu.Unlock()
		return SwapRecord{}, apperrors.ErrInsufficientScore
	}

	old, fresh := r.gen.Reroll(&rs.Board, pos)
	rec := SwapRecord{Position: pos, Old: old, New: fresh}
	rs.Swaps = append(rs.Swaps, rec)
	p.Score -= cost

	o := &outbox{persist: true}
	o.broadcast(codec.MustNewMessage(protocol.MsgTileSwapped, protocol.TileSwappedPayload{
		PlayerID:   id,
		Position:   protocol.Pos{pos.Row, pos.Col},
		OldLetter:  string(old),
		NewLetter:  string(fresh),
		BoardState: rs.Board.Rows(),
	}))
	r.mu.Unlock()

	r.deliver(o)
	return rec, nil
}
