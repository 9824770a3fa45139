package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/spellcast/internal/client"
	"github.com/palemoky/spellcast/internal/game/board"
	"github.com/palemoky/spellcast/internal/game/rule"
)

func (m *Model) View() string {
	var sb strings.Builder
	gs := m.state

	switch {
	case !m.connected && m.err == "":
		sb.WriteString(titleStyle.Render("🔌 connecting..."))
	case !gs.InRoom():
		sb.WriteString(lobbyView(gs))
	case gs.Status == "playing":
		sb.WriteString(gameView(gs, m.ownSelection()))
	case gs.Status == "finished":
		sb.WriteString(resultsView(gs))
	default:
		sb.WriteString(waitingView(gs))
	}

	if len(gs.Log) > 0 {
		sb.WriteString("\n\n" + dimStyle.Render(strings.Join(gs.Log, "\n")))
	}
	if m.showHelp {
		sb.WriteString("\n\n" + boxStyle.Render(helpText))
	}
	if m.err != "" {
		sb.WriteString("\n" + errorStyle.Render("⚠ "+m.err))
	}
	sb.WriteString(promptStyle.Render("\n" + m.input.View()))
	if m.connected {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("   %dms", m.conn.Latency())))
	}
	return docStyle.Render(sb.String())
}

// ownSelection is the path of the word being typed, if it is on the board.
func (m *Model) ownSelection() []board.Position {
	word := strings.ToLower(strings.TrimSpace(m.input.Value()))
	if len(word) < 2 || strings.HasPrefix(word, "/") {
		return nil
	}
	path, _ := rule.ModeMultiplayer.FindPath(&m.state.Board, word)
	return path
}

func lobbyView(gs *client.GameState) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("🔤 SPELLCAST"))
	sb.WriteString("\n\n/create [name] to host, /join CODE [name] to join, /rooms to browse")

	if len(gs.RoomList) > 0 {
		var rooms strings.Builder
		for _, r := range gs.RoomList {
			fmt.Fprintf(&rooms, "%s  %-12s %d/%d\n", r.RoomCode, r.HostName, r.PlayerCount, r.MaxPlayers)
		}
		sb.WriteString("\n\n" + boxStyle.Render(strings.TrimRight(rooms.String(), "\n")))
	}
	if gs.Stats != nil {
		s := gs.Stats
		sb.WriteString("\n\n" + boxStyle.Render(fmt.Sprintf("%s  played %d  won %d  total %d  best %d  (%.0f%%)",
			s.PlayerName, s.GamesPlayed, s.GamesWon, s.TotalScore, s.BestScore, s.WinRate)))
	}
	if len(gs.Leaderboard) > 0 {
		var lb strings.Builder
		for _, e := range gs.Leaderboard {
			fmt.Fprintf(&lb, "%2d. %-14s %5d pts  %d/%d won\n", e.Rank, e.PlayerName, e.TotalScore, e.GamesWon, e.GamesPlayed)
		}
		sb.WriteString("\n\n" + boxStyle.Render(strings.TrimRight(lb.String(), "\n")))
	}
	return sb.String()
}

func waitingView(gs *client.GameState) string {
	var players strings.Builder
	for _, p := range gs.Players {
		mark := "  "
		if p.IsHost {
			mark = "👑"
		}
		fmt.Fprintf(&players, "%s %s\n", mark, p.Name)
	}
	fmt.Fprintf(&players, "\n%d/%d players · %s timer", len(gs.Players), gs.Settings.MaxPlayers, gs.Settings.TimerType)
	if gs.Settings.TimerType == "fixed" {
		fmt.Fprintf(&players, " (%d min)", gs.Settings.FixedMinutes)
	}

	hint := "waiting for the host to start"
	if gs.IsHost() {
		hint = "/start [voting|fixed] [shared|randomized] [minutes]"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("🏠 Room "+gs.RoomCode),
		boxStyle.Render(players.String()),
		dimStyle.Render(hint),
	)
}

func gameView(gs *client.GameState, selection []board.Position) string {
	peers := make([][]board.Position, 0, len(gs.Highlights))
	for _, p := range gs.Highlights {
		peers = append(peers, p)
	}
	grid := RenderBoard(&gs.Board, pathSet(selection), pathSet(peers...))

	header := fmt.Sprintf("Round %d/%d", gs.Round, gs.TotalRounds)
	if gs.TurnBased() {
		header = fmt.Sprintf("%s · turn %d · %s to play", header, gs.TurnNumber, gs.Name(gs.ActivePlayerID))
	}

	side := lipgloss.JoinVertical(lipgloss.Left, scoresView(gs), timerView(gs.Timer))
	if !gs.TurnBased() {
		words := "no words yet"
		if len(gs.MyWords) > 0 {
			words = strings.Join(gs.MyWords, " ") + fmt.Sprintf("\n(%d pts, hidden)", gs.MyHidden)
		}
		side = lipgloss.JoinVertical(lipgloss.Left, side, boxStyle.Render(words))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(header),
		lipgloss.JoinHorizontal(lipgloss.Top, boxStyle.Render(grid), "  ", side),
	)
}

func scoresView(gs *client.GameState) string {
	var sb strings.Builder
	for _, p := range gs.Players {
		marker := " "
		if p.ID == gs.ActivePlayerID && gs.TurnBased() {
			marker = "▶"
		}
		fmt.Fprintf(&sb, "%s %-12s %4d\n", marker, p.Name, p.Score)
	}
	return boxStyle.Render(strings.TrimRight(sb.String(), "\n"))
}

func timerView(t client.TimerView) string {
	switch t.Phase {
	case "grace":
		return dimStyle.Render(fmt.Sprintf("⏳ grace %ds", t.Seconds))
	case "voting":
		return fmt.Sprintf("🗳  /vote to hurry (%d/%d)", len(t.Votes), t.Required)
	case "countdown", "fixed":
		return titleStyle.Render(fmt.Sprintf("⏱  %d:%02d", t.Seconds/60, t.Seconds%60))
	}
	return ""
}

func resultsView(gs *client.GameState) string {
	var sb strings.Builder
	for i, p := range gs.Standings {
		fmt.Fprintf(&sb, "%d. %-12s %4d\n", i+1, p.Name, p.Score)
	}
	hint := "waiting for the host"
	if gs.IsHost() {
		hint = "/start to play again"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("🏆 "+gs.Name(gs.WinnerID)+" wins"),
		boxStyle.Render(strings.TrimRight(sb.String(), "\n")),
		dimStyle.Render(hint),
	)
}

// RenderBoard draws the grid with row and column indices. Tiles in own are
// the player's selection; tiles in peers are other players' highlights.
func RenderBoard(b *board.Board, own, peers map[board.Position]bool) string {
	var sb strings.Builder
	sb.WriteString("  ")
	for c := range board.Size {
		fmt.Fprintf(&sb, " %d ", c)
	}
	for r := range board.Size {
		fmt.Fprintf(&sb, "\n%d ", r)
		for c := range board.Size {
			p := board.Position{Row: r, Col: c}
			style := tileStyle
			switch {
			case own[p]:
				style = ownTileStyle
			case peers[p]:
				style = peerTileStyle
			}
			sb.WriteString(style.Render(string(b.At(p))))
		}
	}
	return sb.String()
}
