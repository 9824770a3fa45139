package client

import (
	"strings"
	"time"

	"github.com/palemoky/spellcast/internal/game/board"
	"github.com/palemoky/spellcast/internal/protocol"
	"github.com/palemoky/spellcast/internal/protocol/codec"
)

func (c *Client) emit(t protocol.MessageType, payload any) error {
	return c.SendMessage(codec.MustNewMessage(t, payload))
}

// rename records a requested name locally; the server applies the same rule.
func (c *Client) rename(name string) {
	if name = strings.TrimSpace(name); name != "" {
		c.mu.Lock()
		c.playerName = name
		c.mu.Unlock()
	}
}

func (c *Client) CreateRoom(name string, maxPlayers int) error {
	c.rename(name)
	return c.emit(protocol.MsgCreateRoom, protocol.CreateRoomPayload{PlayerName: name, MaxPlayers: maxPlayers})
}

func (c *Client) JoinRoom(code, name string) error {
	c.rename(name)
	return c.emit(protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomCode: code, PlayerName: name})
}

func (c *Client) LeaveRoom() error {
	return c.emit(protocol.MsgLeaveRoom, nil)
}

func (c *Client) UpdateTimerSettings(timerType string, fixedMinutes int) error {
	return c.emit(protocol.MsgUpdateTimerSettings, protocol.UpdateTimerSettingsPayload{
		TimerType:    timerType,
		FixedMinutes: fixedMinutes,
	})
}

// StartGame starts the game. minutes is only used by the fixed timer.
func (c *Client) StartGame(timerType, boardMode string, minutes float64) error {
	return c.emit(protocol.MsgStartGame, protocol.StartGamePayload{
		TimerType:     timerType,
		BoardMode:     boardMode,
		TimerDuration: minutes,
	})
}

// SubmitWord submits on the shared board, or on the player's turn when turn is set.
func (c *Client) SubmitWord(word string, path []board.Position, turn bool) error {
	t := protocol.MsgSubmitWord
	if turn {
		t = protocol.MsgSubmitWordTurn
	}
	return c.emit(t, protocol.SubmitWordPayload{Word: word, Positions: toWire(path)})
}

func (c *Client) SwapTile(p board.Position) error {
	return c.emit(protocol.MsgSwapTile, protocol.SwapTilePayload{Position: protocol.Pos{p.Row, p.Col}})
}

func (c *Client) Done() error {
	return c.emit(protocol.MsgPlayerDone, protocol.PlayerDonePayload{})
}

func (c *Client) EndTurn() error {
	return c.emit(protocol.MsgEndTurn, nil)
}

func (c *Client) Vote() error {
	return c.emit(protocol.MsgVoteTimer, nil)
}

// Highlight shares an in-progress selection with the other players.
func (c *Client) Highlight(path []board.Position, action string) error {
	return c.emit(protocol.MsgTileSelection, protocol.TileSelectionPayload{Positions: toWire(path), Action: action})
}

func (c *Client) GetStats() error {
	return c.emit(protocol.MsgGetStats, nil)
}

func (c *Client) GetLeaderboard(limit int) error {
	return c.emit(protocol.MsgGetLeaderboard, protocol.GetLeaderboardPayload{Limit: limit})
}

func (c *Client) GetRoomList() error {
	return c.emit(protocol.MsgGetRoomList, nil)
}

func (c *Client) Ping() error {
	return c.emit(protocol.MsgPing, protocol.PingPayload{Timestamp: time.Now().UnixMilli()})
}

func toWire(path []board.Position) []protocol.Pos {
	out := make([]protocol.Pos, len(path))
	for i, p := range path {
		out[i] = protocol.Pos{p.Row, p.Col}
	}
	return out
}
