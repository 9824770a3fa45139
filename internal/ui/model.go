// Package ui is the bubbletea terminal client.
package ui

import (
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/spellcast/internal/client"
	"github.com/palemoky/spellcast/internal/game/board"
	"github.com/palemoky/spellcast/internal/protocol"
	"github.com/palemoky/spellcast/internal/sound"
)

// Conn is the part of client.Client the UI drives.
type Conn interface {
	Connect() error
	Receive() (*protocol.Message, error)
	StartHeartbeat()
	Close()
	Latency() int64

	CreateRoom(name string, maxPlayers int) error
	JoinRoom(code, name string) error
	LeaveRoom() error
	UpdateTimerSettings(timerType string, fixedMinutes int) error
	StartGame(timerType, boardMode string, minutes float64) error
	SubmitWord(word string, path []board.Position, turn bool) error
	SwapTile(p board.Position) error
	Done() error
	EndTurn() error
	Vote() error
	Highlight(path []board.Position, action string) error
	GetStats() error
	GetLeaderboard(limit int) error
	GetRoomList() error
}

var _ Conn = (*client.Client)(nil)

// Model is the root bubbletea model.
type Model struct {
	conn  Conn
	state *client.GameState
	sound *sound.Player
	input textinput.Model

	connected   bool
	err         string
	showHelp    bool
	highlighted string // word whose path was last shared

	width, height int
}

// NewModel creates a model for conn. player may be nil.
func NewModel(conn Conn, player *sound.Player) *Model {
	ti := textinput.New()
	ti.Placeholder = "/create, /join CODE or /help"
	ti.CharLimit = 64
	ti.Width = 40
	ti.Focus()

	return &Model{
		conn:  conn,
		state: client.NewGameState(),
		sound: player,
		input: ti,
	}
}

// State exposes the mirrored game state.
func (m *Model) State() *client.GameState { return m.state }

func (m *Model) Init() tea.Cmd {
	if m.sound != nil {
		go func() { _ = m.sound.Init() }()
	}
	return tea.Batch(m.connect(), textinput.Blink)
}

func (m *Model) connect() tea.Cmd {
	return func() tea.Msg {
		if err := m.conn.Connect(); err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		return ConnectedMsg{}
	}
}

func (m *Model) listen() tea.Cmd {
	return func() tea.Msg {
		msg, err := m.conn.Receive()
		if err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		return ServerMessage{Msg: msg}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case ConnectedMsg:
		m.connected = true
		m.conn.StartHeartbeat()
		return m, m.listen()

	case ConnectionErrorMsg:
		m.connected = false
		m.err = msg.Err.Error()
		if errors.Is(msg.Err, client.ErrClosed) {
			m.err = "disconnected from server"
		}
		return m, nil

	case ServerMessage:
		m.handleServer(msg.Msg)
		return m, m.listen()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleServer(msg *protocol.Message) {
	wasMyTurn := m.state.MyTurn()
	if err := m.state.Apply(msg); err != nil {
		m.err = err.Error()
		return
	}
	if m.sound == nil {
		return
	}
	if cue, ok := sound.For(msg.Type); ok {
		m.sound.Play(cue)
	}
	if !wasMyTurn && m.state.MyTurn() {
		m.sound.Play(sound.CueYourTurn)
	}
}
