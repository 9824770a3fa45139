package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/palemoky/spellcast/internal/game/board"
)

// CommandKind enumerates what an input line asks for.
type CommandKind int

const (
	CmdWord CommandKind = iota
	CmdCreate
	CmdJoin
	CmdLeave
	CmdTimer
	CmdStart
	CmdSwap
	CmdDone
	CmdEndTurn
	CmdVote
	CmdStats
	CmdTop
	CmdRooms
	CmdHelp
	CmdQuit
)

// Command is one parsed input line.
type Command struct {
	Kind CommandKind

	Word string
	Path []board.Position // explicit path; empty means search the board

	Name       string
	Code       string
	MaxPlayers int
	TimerType  string
	BoardMode  string
	Minutes    float64
	Pos        board.Position
	Limit      int
}

var errUsage = errors.New("unknown command, type /help")

const helpText = `/create [name] [max]   /join CODE [name]   /leave   /rooms
/timer voting|fixed [minutes]   /start [voting|fixed] [shared|randomized] [minutes]
WORD [r,c ...]   /swap r c   /done   /end   /vote
/stats   /top [n]   /quit`

// ParseCommand parses a line of input. Lines not starting with "/" are words.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, errors.New("empty input")
	}
	if !strings.HasPrefix(fields[0], "/") {
		return parseWord(fields)
	}

	name, args := strings.ToLower(fields[0][1:]), fields[1:]
	switch name {
	case "create", "c":
		cmd := Command{Kind: CmdCreate}
		if len(args) > 0 {
			cmd.Name = args[0]
		}
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return Command{}, fmt.Errorf("max players: %w", err)
			}
			cmd.MaxPlayers = n
		}
		return cmd, nil
	case "join", "j":
		if len(args) == 0 {
			return Command{}, errors.New("usage: /join CODE [name]")
		}
		cmd := Command{Kind: CmdJoin, Code: strings.ToUpper(args[0])}
		if len(args) > 1 {
			cmd.Name = args[1]
		}
		return cmd, nil
	case "timer":
		if len(args) == 0 {
			return Command{}, errors.New("usage: /timer voting|fixed [minutes]")
		}
		cmd := Command{Kind: CmdTimer, TimerType: strings.ToLower(args[0])}
		if len(args) > 1 {
			m, err := strconv.Atoi(args[1])
			if err != nil {
				return Command{}, fmt.Errorf("minutes: %w", err)
			}
			cmd.Minutes = float64(m)
		}
		return cmd, nil
	case "start", "s":
		return parseStart(args)
	case "swap":
		if len(args) != 2 {
			return Command{}, errors.New("usage: /swap row col")
		}
		p, err := parsePos(args[0] + "," + args[1])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdSwap, Pos: p}, nil
	case "top":
		cmd := Command{Kind: CmdTop, Limit: 10}
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return Command{}, fmt.Errorf("limit: %w", err)
			}
			cmd.Limit = n
		}
		return cmd, nil
	}

	simple := map[string]CommandKind{
		"leave": CmdLeave, "done": CmdDone, "end": CmdEndTurn, "pass": CmdEndTurn,
		"vote": CmdVote, "stats": CmdStats, "rooms": CmdRooms, "help": CmdHelp,
		"quit": CmdQuit, "q": CmdQuit,
	}
	if k, ok := simple[name]; ok {
		return Command{Kind: k}, nil
	}
	return Command{}, errUsage
}

func parseStart(args []string) (Command, error) {
	cmd := Command{Kind: CmdStart, TimerType: "voting", BoardMode: "shared"}
	for _, a := range args {
		switch a = strings.ToLower(a); a {
		case "voting", "fixed":
			cmd.TimerType = a
		case "shared", "randomized", "turns":
			cmd.BoardMode = a
			if a == "turns" {
				cmd.BoardMode = "randomized"
			}
		default:
			m, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return Command{}, fmt.Errorf("unknown start option %q", a)
			}
			cmd.Minutes = m
		}
	}
	return cmd, nil
}

func parseWord(fields []string) (Command, error) {
	cmd := Command{Kind: CmdWord, Word: strings.ToLower(fields[0])}
	for _, f := range fields[1:] {
		p, err := parsePos(f)
		if err != nil {
			return Command{}, err
		}
		cmd.Path = append(cmd.Path, p)
	}
	if len(cmd.Path) > 0 && len(cmd.Path) != len(cmd.Word) {
		return Command{}, fmt.Errorf("%d letters but %d tiles", len(cmd.Word), len(cmd.Path))
	}
	return cmd, nil
}

// parsePos reads "r,c".
func parsePos(s string) (board.Position, error) {
	r, c, ok := strings.Cut(s, ",")
	if !ok {
		return board.Position{}, fmt.Errorf("bad position %q, want row,col", s)
	}
	row, err1 := strconv.Atoi(r)
	col, err2 := strconv.Atoi(c)
	if err := errors.Join(err1, err2); err != nil {
		return board.Position{}, fmt.Errorf("bad position %q: %w", s, err)
	}
	p := board.Position{Row: row, Col: col}
	if !p.InBounds() {
		return board.Position{}, fmt.Errorf("position %q is off the board", s)
	}
	return p, nil
}
