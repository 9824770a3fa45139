package room

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/palemoky/spellcast/internal/game/board"
	"github.com/palemoky/spellcast/internal/game/dictionary"
	"github.com/palemoky/spellcast/internal/server/hub"
	"github.com/palemoky/spellcast/internal/server/session"
	"github.com/palemoky/spellcast/internal/testutil"
)

// testBoard spells CAT across the top row and DOG down the middle column.
var testBoard = board.MustParse(
	"CATXX",
	"QQDQQ",
	"QQOQQ",
	"QQGQQ",
	"QQQQE",
)

var (
	catPath = []board.Position{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}}
	dogPath = []board.Position{{Row: 1, Col: 2}, {Row: 2, Col: 2}, {Row: 3, Col: 2}}
)

type fixture struct {
	m        *Manager
	hub      *hub.Hub
	sessions *session.Manager
}

// newFixture builds a manager whose timers never fire during a test unless
// opts asks for a short tick.
func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	return newFixtureWith(t, opts, Deps{})
}

// newFixtureWith fills in the hub, sessions and dictionary of deps.
func newFixtureWith(t *testing.T, opts Options, deps Deps) *fixture {
	t.Helper()
	if opts.Tick == 0 {
		opts.Tick = time.Hour
	}
	f := &fixture{hub: hub.New(), sessions: session.NewManager()}
	deps.Hub = f.hub
	deps.Sessions = f.sessions
	deps.Dict = dictionary.New("cat", "dog", "tot", "cats", "go")
	f.m = NewManager(deps, opts)
	t.Cleanup(f.m.Shutdown)
	return f
}

// room creates a room hosted by the first client and joins the rest.
func (f *fixture) room(t *testing.T, clients ...*testutil.SimpleClient) *Room {
	t.Helper()
	r := f.m.CreateRoom(clients[0], 5)
	for _, c := range clients[1:] {
		_, _, err := f.m.JoinRoom(c, r.Code)
		require.NoError(t, err)
	}
	return r
}

// started returns a running game on testBoard with messages cleared.
func (f *fixture) started(t *testing.T, timerType, boardMode string, clients ...*testutil.SimpleClient) *Room {
	t.Helper()
	r := f.room(t, clients...)
	require.NoError(t, r.StartGame(clients[0], timerType, boardMode, 0))
	r.SetBoardForTest(testBoard)
	for _, c := range clients {
		c.Reset()
	}
	return r
}

func players(n int) []*testutil.SimpleClient {
	names := []string{"Alice", "Bob", "Cara", "Dan", "Eve", "Fay"}
	out := make([]*testutil.SimpleClient, n)
	for i := range out {
		out[i] = testutil.NewSimpleClient(string(rune('a'+i)), names[i])
	}
	return out
}
