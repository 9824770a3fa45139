package client

import (
	"fmt"
	"slices"
	"strings"

	"github.com/palemoky/spellcast/internal/game/board"
	"github.com/palemoky/spellcast/internal/protocol"
	"github.com/palemoky/spellcast/internal/protocol/codec"
)

const maxLogLines = 8

// TimerView is what the client knows about the running timer.
type TimerView struct {
	Phase    string // grace, voting, countdown, fixed or empty
	Seconds  int
	Votes    []string
	Required int
}

// GameState is the client's mirror of the room, built from server events.
type GameState struct {
	PlayerID string

	RoomCode string
	HostID   string
	Status   string
	Players  []protocol.PlayerInfo
	Settings protocol.SettingsInfo

	Board          board.Board
	HasBoard       bool
	Round          int
	TotalRounds    int
	ActivePlayerID string
	TurnNumber     int

	// shared-board words accepted this round; scores stay hidden until round end
	MyWords     []string
	MyHidden    int
	Highlights  map[string][]board.Position
	LastRound   *protocol.RoundEndedPayload
	Standings   []protocol.PlayerInfo
	WinnerID    string
	Timer       TimerView
	Log         []string
	Stats       *protocol.StatsResultPayload
	Leaderboard []protocol.LeaderboardEntry
	RoomList    []protocol.RoomListItem
}

// NewGameState returns an empty state.
func NewGameState() *GameState {
	return &GameState{Highlights: make(map[string][]board.Position)}
}

// InRoom reports whether the player is in a room.
func (gs *GameState) InRoom() bool { return gs.RoomCode != "" }

// IsHost reports whether the player hosts the room.
func (gs *GameState) IsHost() bool { return gs.HostID != "" && gs.HostID == gs.PlayerID }

// TurnBased reports whether the running game uses rotating turns.
func (gs *GameState) TurnBased() bool { return gs.Settings.BoardMode == "randomized" }

// MyTurn reports whether the player is active in a turn-based game.
func (gs *GameState) MyTurn() bool { return gs.TurnBased() && gs.ActivePlayerID == gs.PlayerID }

// Name resolves a player id to a display name.
func (gs *GameState) Name(id string) string {
	for _, p := range gs.Players {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}

// Reset forgets the room.
func (gs *GameState) Reset() {
	id := gs.PlayerID
	*gs = *NewGameState()
	gs.PlayerID = id
}

func (gs *GameState) logf(format string, args ...any) {
	gs.Log = append(gs.Log, fmt.Sprintf(format, args...))
	if len(gs.Log) > maxLogLines {
		gs.Log = gs.Log[len(gs.Log)-maxLogLines:]
	}
}

func (gs *GameState) setRoom(info protocol.RoomInfo) {
	gs.RoomCode = info.Code
	gs.HostID = info.HostID
	gs.Status = info.Status
	gs.Players = info.Players
	gs.Settings = info.Settings
	if len(info.Board) > 0 {
		gs.setBoard(info.Board)
	}
}

func (gs *GameState) setBoard(rows [][]string) {
	if b, err := board.FromRows(rows); err == nil {
		gs.Board = b
		gs.HasBoard = true
	}
}

func (gs *GameState) score(id string, delta int) {
	for i := range gs.Players {
		if gs.Players[i].ID == id {
			gs.Players[i].Score += delta
		}
	}
}

// Apply folds a server event into the state. Unknown events are ignored.
func (gs *GameState) Apply(msg *protocol.Message) error {
	switch msg.Type {
	case protocol.MsgConnected:
		p, err := codec.ParsePayload[protocol.ConnectedPayload](msg)
		if err != nil {
			return err
		}
		gs.PlayerID = p.PlayerID
		gs.logf("connected as %s", p.PlayerName)

	case protocol.MsgRoomCreated:
		p, err := codec.ParsePayload[protocol.RoomCreatedPayload](msg)
		if err != nil {
			return err
		}
		gs.Reset()
		gs.setRoom(p.Room)
		gs.logf("room %s created", p.RoomCode)

	case protocol.MsgRoomJoined:
		p, err := codec.ParsePayload[protocol.RoomJoinedPayload](msg)
		if err != nil {
			return err
		}
		if p.Status == "" {
			gs.Reset()
		}
		gs.setRoom(p.Room)
		gs.logf("joined room %s", p.RoomCode)

	case protocol.MsgRoomInfo:
		p, err := codec.ParsePayload[protocol.RoomInfoPayload](msg)
		if err != nil {
			return err
		}
		gs.setRoom(p.Room)

	case protocol.MsgPlayerJoined:
		p, err := codec.ParsePayload[protocol.PlayerJoinedPayload](msg)
		if err != nil {
			return err
		}
		gs.Players = append(gs.Players, p.Player)
		gs.logf("%s joined", p.Player.Name)

	case protocol.MsgPlayerLeft:
		p, err := codec.ParsePayload[protocol.PlayerLeftPayload](msg)
		if err != nil {
			return err
		}
		gs.Players = slices.DeleteFunc(gs.Players, func(pi protocol.PlayerInfo) bool { return pi.ID == p.PlayerID })
		delete(gs.Highlights, p.PlayerID)
		if p.NewHostID != "" {
			gs.HostID = p.NewHostID
			for i := range gs.Players {
				gs.Players[i].IsHost = gs.Players[i].ID == p.NewHostID
			}
		}
		gs.logf("%s left", p.PlayerName)

	case protocol.MsgTimerSettingsUpdated:
		p, err := codec.ParsePayload[protocol.TimerSettingsPayload](msg)
		if err != nil {
			return err
		}
		gs.Settings.TimerType = p.TimerType
		gs.Settings.FixedMinutes = p.FixedMinutes

	case protocol.MsgGameStarted:
		p, err := codec.ParsePayload[protocol.GameStartedPayload](msg)
		if err != nil {
			return err
		}
		gs.Status = "playing"
		gs.Settings.TimerType = p.TimerType
		gs.Settings.BoardMode = p.BoardMode
		gs.Settings.FixedMinutes = p.FixedMinutes
		gs.Round, gs.TotalRounds = p.RoundNumber, p.TotalRounds
		gs.ActivePlayerID = p.ActivePlayerID
		gs.TurnNumber = 1
		gs.setBoard(p.BoardState)
		gs.MyWords, gs.MyHidden = nil, 0
		gs.LastRound, gs.Standings, gs.WinnerID = nil, nil, ""
		for i := range gs.Players {
			gs.Players[i].Score = 0
		}
		gs.logf("game started: %s board, %s timer", p.BoardMode, p.TimerType)

	case protocol.MsgWordAccepted:
		p, err := codec.ParsePayload[protocol.WordAcceptedPayload](msg)
		if err != nil {
			return err
		}
		gs.MyWords = append(gs.MyWords, strings.ToUpper(p.Word))
		gs.MyHidden += p.Score
		gs.logf("✔ %s accepted", strings.ToUpper(p.Word))

	case protocol.MsgWordAcceptedTurnBased:
		p, err := codec.ParsePayload[protocol.WordAcceptedTurnPayload](msg)
		if err != nil {
			return err
		}
		gs.score(p.PlayerID, p.Score)
		gs.setBoard(p.BoardState)
		gs.ActivePlayerID, gs.TurnNumber = p.NextPlayerID, p.TurnNumber
		gs.logf("%s played %s for %d", gs.Name(p.PlayerID), strings.ToUpper(p.Word), p.Score)

	case protocol.MsgWordRejected:
		p, err := codec.ParsePayload[protocol.WordRejectedPayload](msg)
		if err != nil {
			return err
		}
		gs.logf("✘ %s: %s", strings.ToUpper(p.Word), p.Message)

	case protocol.MsgTileSwapped:
		p, err := codec.ParsePayload[protocol.TileSwappedPayload](msg)
		if err != nil {
			return err
		}
		gs.setBoard(p.BoardState)
		gs.logf("%s swapped %s for %s", gs.Name(p.PlayerID), p.OldLetter, p.NewLetter)

	case protocol.MsgOpponentHighlight:
		p, err := codec.ParsePayload[protocol.OpponentHighlightPayload](msg)
		if err != nil {
			return err
		}
		if p.Action == "clear" || len(p.Positions) == 0 {
			delete(gs.Highlights, p.PlayerID)
			break
		}
		path := make([]board.Position, len(p.Positions))
		for i, pos := range p.Positions {
			path[i] = board.Position{Row: pos[0], Col: pos[1]}
		}
		gs.Highlights[p.PlayerID] = path

	case protocol.MsgPlayerMarkedDone:
		p, err := codec.ParsePayload[protocol.PlayerMarkedDonePayload](msg)
		if err != nil {
			return err
		}
		gs.logf("%s is done (%d/%d)", p.PlayerName, p.PlayersDone, p.TotalPlayers)

	case protocol.MsgRoundEnded:
		p, err := codec.ParsePayload[protocol.RoundEndedPayload](msg)
		if err != nil {
			return err
		}
		gs.LastRound = p
		for i := range gs.Players {
			if s, ok := p.PlayerScores[gs.Players[i].ID]; ok {
				gs.Players[i].Score = s
			}
		}
		gs.setBoard(p.BoardState)
		gs.Round = p.RoundNumber + 1
		gs.MyWords, gs.MyHidden = nil, 0
		clear(gs.Highlights)
		gs.logf("round %d over", p.RoundNumber)

	case protocol.MsgTurnEnded:
		p, err := codec.ParsePayload[protocol.TurnEndedPayload](msg)
		if err != nil {
			return err
		}
		gs.ActivePlayerID = p.NextPlayerID
		gs.TurnNumber++
		gs.logf("%s passed", gs.Name(p.PlayerID))

	case protocol.MsgTurnTimeout:
		p, err := codec.ParsePayload[protocol.TurnTimeoutPayload](msg)
		if err != nil {
			return err
		}
		gs.ActivePlayerID = p.NextPlayerID
		gs.TurnNumber++
		gs.logf("%s ran out of time", gs.Name(p.SkippedPlayerID))

	case protocol.MsgGameOver:
		p, err := codec.ParsePayload[protocol.GameOverPayload](msg)
		if err != nil {
			return err
		}
		gs.Status = "finished"
		gs.Standings, gs.WinnerID = p.Standings, p.WinnerID
		gs.Timer = TimerView{}
		gs.logf("game over, %s wins", gs.Name(p.WinnerID))

	default:
		return gs.applyTimer(msg)
	}
	return nil
}

func (gs *GameState) applyTimer(msg *protocol.Message) error {
	switch msg.Type {
	case protocol.MsgGraceStarted:
		p, err := codec.ParsePayload[protocol.GraceStartedPayload](msg)
		if err != nil {
			return err
		}
		gs.Timer = TimerView{Phase: "grace", Seconds: p.Duration}
	case protocol.MsgVotingEnabled:
		p, err := codec.ParsePayload[protocol.VotingEnabledPayload](msg)
		if err != nil {
			return err
		}
		gs.Timer = TimerView{Phase: "voting", Required: p.Required}
	case protocol.MsgVoteUpdate:
		p, err := codec.ParsePayload[protocol.VoteUpdatePayload](msg)
		if err != nil {
			return err
		}
		gs.Timer.Votes, gs.Timer.Required = p.Votes, p.Required
	case protocol.MsgCountdownStarted:
		p, err := codec.ParsePayload[protocol.CountdownStartedPayload](msg)
		if err != nil {
			return err
		}
		gs.Timer = TimerView{Phase: "countdown", Seconds: p.Duration}
	case protocol.MsgFixedStarted:
		p, err := codec.ParsePayload[protocol.CountdownStartedPayload](msg)
		if err != nil {
			return err
		}
		gs.Timer = TimerView{Phase: "fixed", Seconds: p.Duration}
	case protocol.MsgGraceTick, protocol.MsgCountdownTick, protocol.MsgFixedTick:
		p, err := codec.ParsePayload[protocol.TickPayload](msg)
		if err != nil {
			return err
		}
		gs.Timer.Seconds = p.Seconds
	case protocol.MsgTimerExpired:
		gs.Timer = TimerView{}
	default:
		return gs.applyQuery(msg)
	}
	return nil
}

func (gs *GameState) applyQuery(msg *protocol.Message) error {
	switch msg.Type {
	case protocol.MsgStatsResult:
		p, err := codec.ParsePayload[protocol.StatsResultPayload](msg)
		if err != nil {
			return err
		}
		gs.Stats = p
	case protocol.MsgLeaderboardResult:
		p, err := codec.ParsePayload[protocol.LeaderboardResultPayload](msg)
		if err != nil {
			return err
		}
		gs.Leaderboard = p.Entries
	case protocol.MsgRoomListResult:
		p, err := codec.ParsePayload[protocol.RoomListResultPayload](msg)
		if err != nil {
			return err
		}
		gs.RoomList = p.Rooms
	case protocol.MsgError:
		p, err := codec.ParsePayload[protocol.ErrorPayload](msg)
		if err != nil {
			return err
		}
		gs.logf("⚠ %s", p.Message)
	}
	return nil
}
