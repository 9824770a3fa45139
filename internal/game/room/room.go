package room

import (
	"slices"
	"sync"
	"time"

	"github.com/palemoky/spellcast/internal/game/board"
	"github.com/palemoky/spellcast/internal/game/timer"
	"github.com/palemoky/spellcast/internal/types"
)

const (
	roomCodeLength = 6
	roomCodeChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	minPlayers    = 2
	maxWordLength = board.Size * board.Size
	minWordLength = 2

	minFixedMinutes = 1
	maxFixedMinutes = 10
	// start_game duration bounds, seconds
	minDuration = 30
	maxDuration = 600
)

// Player is one member. Round scores live in the round's Submission until the round ends.
type Player struct {
	Client types.ClientInterface
	Score  int
}

// ID returns the connection id.
func (p *Player) ID() string { return p.Client.GetID() }

// Name returns the display name.
func (p *Player) Name() string { return p.Client.GetName() }

// Settings are chosen by the host before the game starts.
type Settings struct {
	MaxPlayers   int
	TimerType    TimerType
	FixedMinutes int
	Duration     int // seconds per round or turn in fixed mode
	BoardMode    BoardMode
	Rounds       int
}

// Submission is one player's accepted words in one round.
// Words and Paths always have the same length.
type Submission struct {
	Words []string
	Paths [][]board.Position
	Score int
	Done  bool
}

// Add records an accepted word.
func (s *Submission) Add(word string, path []board.Position, score int) {
	s.Words = append(s.Words, word)
	s.Paths = append(s.Paths, slices.Clone(path))
	s.Score += score
}

// Has reports whether word was already accepted.
func (s *Submission) Has(word string) bool {
	return slices.Contains(s.Words, word)
}

// SwapRecord is a manual reroll. Unused swaps carry their letter into the next round.
type SwapRecord struct {
	Position board.Position
	Old      byte
	New      byte
	Used     bool
}

// RoundState is the shared-board round.
type RoundState struct {
	Number      int
	Board       board.Board
	Submissions map[string]*Submission
	StartedAt   time.Time
	ExpiresAt   time.Time // zero when the round has no deadline
	Swaps       []SwapRecord
	AllDone     bool
}

func newRoundState(number int, b board.Board, roster []string, start time.Time, d time.Duration) *RoundState {
	rs := &RoundState{
		Number:      number,
		Board:       b,
		Submissions: make(map[string]*Submission, len(roster)),
		StartedAt:   start,
	}
	if d > 0 {
		rs.ExpiresAt = start.Add(d)
	}
	for _, id := range roster {
		rs.Submissions[id] = &Submission{}
	}
	return rs
}

// Expired reports whether the deadline has passed at now.
func (rs *RoundState) Expired(now time.Time) bool {
	return !rs.ExpiresAt.IsZero() && now.After(rs.ExpiresAt)
}

// Consumed returns every position used by any accepted word this round, in row-major order.
func (rs *RoundState) Consumed() []board.Position {
	var seen [board.Size][board.Size]bool
	for _, sub := range rs.Submissions {
		for _, path := range sub.Paths {
			for _, p := range path {
				seen[p.Row][p.Col] = true
			}
		}
	}
	var out []board.Position
	for r := range board.Size {
		for c := range board.Size {
			if seen[r][c] {
				out = append(out, board.Position{Row: r, Col: c})
			}
		}
	}
	return out
}

// PlayedWord is one entry in the turn log.
type PlayedWord struct {
	PlayerID string
	Word     string
	Score    int
	Turn     int
}

// TurnState is the rotating-turn game.
type TurnState struct {
	Board       board.Board
	ActiveID    string
	TurnNumber  int
	RoundNumber int
	Played      []PlayedWord
	ExpiresAt   time.Time // zero when turns have no deadline
}

// Expired reports whether the turn deadline has passed at now.
func (ts *TurnState) Expired(now time.Time) bool {
	return !ts.ExpiresAt.IsZero() && now.After(ts.ExpiresAt)
}

// GameMode is either *SharedMode or *TurnMode.
type GameMode interface {
	grid() *board.Board
}

// SharedMode holds the current shared-board round.
type SharedMode struct {
	Round *RoundState
}

func (m *SharedMode) grid() *board.Board { return &m.Round.Board }

// TurnMode holds the rotating-turn state.
type TurnMode struct {
	Turn *TurnState
}

func (m *TurnMode) grid() *board.Board { return &m.Turn.Board }

// Room is one game. All fields are guarded by mu.
type Room struct {
	Code      string
	HostID    string
	Players   []*Player
	Settings  Settings
	Status    Status
	Mode      GameMode // nil until the first game starts
	CreatedAt time.Time

	m      *Manager
	timer  *timer.Controller
	gen    *board.Generator
	epoch  uint64 // bumped per game; seeds the board
	phase  uint64 // bumped per round or turn; see outbox.arm
	closed bool

	mu sync.Mutex
}

func (r *Room) player(id string) (*Player, int) {
	for i, p := range r.Players {
		if p.ID() == id {
			return p, i
		}
	}
	return nil, -1
}

func (r *Room) roster() []string {
	ids := make([]string, len(r.Players))
	for i, p := range r.Players {
		ids[i] = p.ID()
	}
	return ids
}

func (r *Room) now() time.Time {
	return r.m.now()
}

func (r *Room) duration() time.Duration {
	if r.Settings.TimerType != TimerFixed {
		return 0
	}
	return time.Duration(r.Settings.Duration) * time.Second
}

// Timer exposes the room's timer state.
func (r *Room) Timer() timer.State {
	return r.timer.Snapshot()
}
