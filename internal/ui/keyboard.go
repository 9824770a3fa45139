package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/spellcast/internal/game/board"
	"github.com/palemoky/spellcast/internal/game/rule"
)

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.conn.Close()
		return m, tea.Quit
	case tea.KeyEsc:
		m.input.SetValue("")
		m.showHelp = false
		m.shareSelection("")
		return m, nil
	case tea.KeyEnter:
		line := strings.TrimSpace(m.input.Value())
		m.input.SetValue("")
		if line == "" {
			return m, nil
		}
		return m, m.execute(line)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.shareSelection(m.input.Value())
	return m, cmd
}

// shareSelection highlights the path of the word being typed for the others.
func (m *Model) shareSelection(text string) {
	if m.state.Status != "playing" || strings.HasPrefix(text, "/") {
		text = ""
	}
	word := strings.ToLower(strings.TrimSpace(text))
	if word == m.highlighted {
		return
	}
	m.highlighted = word

	if len(word) < 2 {
		_ = m.conn.Highlight(nil, "clear")
		return
	}
	if path, ok := rule.ModeMultiplayer.FindPath(&m.state.Board, word); ok {
		_ = m.conn.Highlight(path, "select")
	}
}

// execute runs one input line.
func (m *Model) execute(line string) tea.Cmd {
	cmd, err := ParseCommand(line)
	if err != nil {
		m.err = err.Error()
		return nil
	}
	m.err = ""

	switch cmd.Kind {
	case CmdQuit:
		m.conn.Close()
		return tea.Quit
	case CmdHelp:
		m.showHelp = !m.showHelp
		return nil
	case CmdWord:
		err = m.submit(cmd)
	case CmdCreate:
		err = m.conn.CreateRoom(cmd.Name, cmd.MaxPlayers)
	case CmdJoin:
		err = m.conn.JoinRoom(cmd.Code, cmd.Name)
	case CmdLeave:
		err = m.conn.LeaveRoom()
		m.state.Reset()
	case CmdTimer:
		err = m.conn.UpdateTimerSettings(cmd.TimerType, int(cmd.Minutes))
	case CmdStart:
		err = m.conn.StartGame(cmd.TimerType, cmd.BoardMode, cmd.Minutes)
	case CmdSwap:
		err = m.conn.SwapTile(cmd.Pos)
	case CmdDone:
		err = m.conn.Done()
	case CmdEndTurn:
		err = m.conn.EndTurn()
	case CmdVote:
		err = m.conn.Vote()
	case CmdStats:
		err = m.conn.GetStats()
	case CmdTop:
		err = m.conn.GetLeaderboard(cmd.Limit)
	case CmdRooms:
		err = m.conn.GetRoomList()
	}
	if err != nil {
		m.err = err.Error()
	}
	return nil
}

// submit finds a path for the word unless one was typed, then sends it.
// The server has the final say on every check.
func (m *Model) submit(cmd Command) error {
	if m.state.Status != "playing" {
		return fmt.Errorf("no game running")
	}
	path := cmd.Path
	if len(path) == 0 {
		var ok bool
		if path, ok = rule.ModeMultiplayer.FindPath(&m.state.Board, cmd.Word); !ok {
			return fmt.Errorf("%s is not on the board", strings.ToUpper(cmd.Word))
		}
	}
	m.highlighted = ""
	_ = m.conn.Highlight(nil, "clear")
	return m.conn.SubmitWord(cmd.Word, path, m.state.TurnBased())
}

// pathSet indexes a path for rendering.
func pathSet(paths ...[]board.Position) map[board.Position]bool {
	set := make(map[board.Position]bool)
	for _, p := range paths {
		for _, pos := range p {
			set[pos] = true
		}
	}
	return set
}
