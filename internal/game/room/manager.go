package room

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/valyala/fastrand"

	"github.com/palemoky/spellcast/internal/apperrors"
	"github.com/palemoky/spellcast/internal/config"
	"github.com/palemoky/spellcast/internal/game/board"
	"github.com/palemoky/spellcast/internal/game/dictionary"
	"github.com/palemoky/spellcast/internal/game/timer"
	"github.com/palemoky/spellcast/internal/logger"
	"github.com/palemoky/spellcast/internal/protocol"
	"github.com/palemoky/spellcast/internal/protocol/codec"
	"github.com/palemoky/spellcast/internal/server/storage"
	"github.com/palemoky/spellcast/internal/types"
)

// SnapshotStore receives room snapshots. Rooms are never restored from it.
type SnapshotStore interface {
	SaveRoom(ctx context.Context, code string, data *storage.RoomData) error
	DeleteRoom(ctx context.Context, code string) error
}

// ResultRecorder receives finished games.
type ResultRecorder interface {
	RecordGame(ctx context.Context, results []storage.GameResult) error
}

// Deps are the manager's collaborators. Store and Stats may be nil.
type Deps struct {
	Hub      types.Broadcaster
	Sessions types.SessionIndex
	Dict     dictionary.Lookup
	Store    SnapshotStore
	Stats    ResultRecorder
}

// Options are game rules and housekeeping intervals.
type Options struct {
	GraceSeconds        int
	CountdownSeconds    int
	Tick                time.Duration // length of one timer second
	DefaultFixedMinutes int
	MaxPlayers          int
	DefaultMaxPlayers   int
	Rounds              int
	SwapCost            int
	RoomTimeout         time.Duration
	CleanupInterval     time.Duration
}

// OptionsFromConfig maps the game section of the config.
func OptionsFromConfig(c *config.GameConfig) Options {
	return Options{
		GraceSeconds:        c.GraceSeconds,
		CountdownSeconds:    c.CountdownSeconds,
		DefaultFixedMinutes: c.DefaultFixedMinutes,
		MaxPlayers:          c.MaxPlayers,
		DefaultMaxPlayers:   c.DefaultMaxPlayers,
		Rounds:              c.Rounds,
		SwapCost:            c.SwapCost,
		RoomTimeout:         c.RoomTimeoutDuration(),
	}
}

func (o *Options) normalize() {
	if o.Tick <= 0 {
		o.Tick = time.Second
	}
	if o.MaxPlayers < minPlayers || o.MaxPlayers > 5 {
		o.MaxPlayers = 5
	}
	if o.DefaultMaxPlayers == 0 {
		o.DefaultMaxPlayers = 4
	}
	o.DefaultMaxPlayers = clamp(o.DefaultMaxPlayers, minPlayers, o.MaxPlayers)
	o.DefaultFixedMinutes = clamp(o.DefaultFixedMinutes, minFixedMinutes, maxFixedMinutes)
	if o.Rounds <= 0 {
		o.Rounds = 5
	}
	o.SwapCost = max(o.SwapCost, 0)
	if o.RoomTimeout <= 0 {
		o.RoomTimeout = 10 * time.Minute
	}
	if o.CleanupInterval <= 0 {
		o.CleanupInterval = time.Minute
	}
}

// Manager is the room registry. Lock order is m.mu before room.mu.
type Manager struct {
	opts     Options
	hub      types.Broadcaster
	sessions types.SessionIndex
	dict     dictionary.Lookup
	store    SnapshotStore
	stats    ResultRecorder
	now      func() time.Time

	rooms map[string]*Room
	mu    sync.RWMutex
}

// NewManager creates an empty registry.
func NewManager(deps Deps, opts Options) *Manager {
	opts.normalize()
	return &Manager{
		opts:     opts,
		hub:      deps.Hub,
		sessions: deps.Sessions,
		dict:     deps.Dict,
		store:    deps.Store,
		stats:    deps.Stats,
		now:      time.Now,
		rooms:    make(map[string]*Room),
	}
}

// CreateRoom makes client the host of a new room.
func (m *Manager) CreateRoom(client types.ClientInterface, maxPlayers int) *Room {
	if maxPlayers == 0 {
		maxPlayers = m.opts.DefaultMaxPlayers
	}

	m.mu.Lock()
	code := m.generateRoomCode()
	r := m.newRoom(code, client, clamp(maxPlayers, minPlayers, m.opts.MaxPlayers))
	m.rooms[code] = r
	m.mu.Unlock()

	m.hub.Join(code, client)
	m.sessions.Bind(client.GetID(), code)
	client.SetRoom(code)

	logger.L().Infow("🏠 room created", "room", code, "player", client.GetName())
	m.persist(r)
	return r
}

func (m *Manager) newRoom(code string, host types.ClientInterface, maxPlayers int) *Room {
	r := &Room{
		Code:   code,
		HostID: host.GetID(),
		Players: []*Player{
			{Client: host},
		},
		Settings: Settings{
			MaxPlayers:   maxPlayers,
			TimerType:    TimerVoting,
			FixedMinutes: m.opts.DefaultFixedMinutes,
			Duration:     m.opts.DefaultFixedMinutes * 60,
			BoardMode:    BoardShared,
			Rounds:       m.opts.Rounds,
		},
		Status:    StatusWaiting,
		CreatedAt: m.now(),
		m:         m,
		gen:       board.NewGenerator(board.SeedFor(code, 0)),
	}
	r.timer = timer.New(
		func(msg *protocol.Message) { m.hub.Broadcast(code, msg) },
		timer.Hooks{AfterGrace: r.afterGrace, OnExpired: r.onExpired},
		timer.Options{
			Name:      code,
			Tick:      m.opts.Tick,
			Grace:     m.opts.GraceSeconds,
			Countdown: m.opts.CountdownSeconds,
		},
	)
	return r
}

// JoinRoom adds client to the room with code. rejoined is true when client
// was already a member; nothing changes in that case.
func (m *Manager) JoinRoom(client types.ClientInterface, code string) (r *Room, rejoined bool, err error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, false, apperrors.ErrRoomNotFound
	}

	m.mu.Lock()
	r, ok := m.rooms[code]
	if !ok {
		m.mu.Unlock()
		return nil, false, apperrors.ErrRoomNotFound
	}

	r.mu.Lock()
	if p, _ := r.player(client.GetID()); p != nil {
		r.mu.Unlock()
		m.mu.Unlock()
		return r, true, nil
	}
	// a finished room takes newcomers for the next game
	if r.Status == StatusPlaying {
		r.mu.Unlock()
		m.mu.Unlock()
		return nil, false, apperrors.ErrGameAlreadyStarted
	}
	if len(r.Players) >= r.Settings.MaxPlayers {
		r.mu.Unlock()
		m.mu.Unlock()
		return nil, false, apperrors.ErrRoomFull
	}

	p := &Player{Client: client}
	r.Players = append(r.Players, p)
	m.hub.Join(code, client)
	m.sessions.Bind(client.GetID(), code)
	client.SetRoom(code)

	o := &outbox{persist: true}
	o.broadcastExcept(client.GetID(), codec.MustNewMessage(protocol.MsgPlayerJoined, protocol.PlayerJoinedPayload{
		Player:      r.playerInfoLocked(p),
		PlayerCount: len(r.Players),
	}))
	r.mu.Unlock()
	m.mu.Unlock()

	logger.L().Infow("👤 joined", "room", code, "player", client.GetName())
	r.deliver(o)
	return r, false, nil
}

// LeaveRoom removes client from its room. Leaving during a game hands the
// turn on or re-checks the round. The last player out deletes the room.
func (m *Manager) LeaveRoom(client types.ClientInterface) {
	code, ok := m.sessions.RoomOf(client.GetID())
	if !ok {
		code = client.GetRoom()
	}
	if code == "" {
		return
	}

	m.mu.Lock()
	r, ok := m.rooms[code]
	if !ok {
		m.mu.Unlock()
		m.sessions.Unbind(client.GetID())
		client.SetRoom("")
		return
	}

	r.mu.Lock()
	o := r.removeLocked(client)
	if o != nil && o.dropped {
		delete(m.rooms, code)
	}
	r.mu.Unlock()
	m.mu.Unlock()

	if o != nil {
		r.deliver(o)
	}
}

// GetRoom returns the live room with code, or nil.
func (m *Manager) GetRoom(code string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[NormalizeCode(code)]
}

// GetRoomByPlayerID returns the room playerID is in, or nil.
func (m *Manager) GetRoomByPlayerID(playerID string) *Room {
	code, ok := m.sessions.RoomOf(playerID)
	if !ok {
		return nil
	}
	return m.GetRoom(code)
}

// GetRoomList lists joinable rooms.
func (m *Manager) GetRoomList() []protocol.RoomListItem {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rooms := make([]protocol.RoomListItem, 0, len(m.rooms))
	for code, r := range m.rooms {
		r.mu.Lock()
		if r.Status != StatusPlaying && len(r.Players) < r.Settings.MaxPlayers {
			host, _ := r.player(r.HostID)
			item := protocol.RoomListItem{
				RoomCode:    code,
				PlayerCount: len(r.Players),
				MaxPlayers:  r.Settings.MaxPlayers,
			}
			if host != nil {
				item.HostName = host.Name()
			}
			rooms = append(rooms, item)
		}
		r.mu.Unlock()
	}
	return rooms
}

// Count returns the number of live rooms.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// GetActiveGamesCount counts rooms with a game in progress.
func (m *Manager) GetActiveGamesCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, r := range m.rooms {
		r.mu.Lock()
		if r.Status == StatusPlaying {
			count++
		}
		r.mu.Unlock()
	}
	return count
}

// Run closes idle waiting rooms until ctx is done.
func (m *Manager) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.opts.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.cleanup()
		}
	}
}

// cleanup closes waiting rooms older than the room timeout.
func (m *Manager) cleanup() {
	now := m.now()
	type idle struct {
		code    string
		members []types.ClientInterface
	}
	var closed []idle

	m.mu.Lock()
	for code, r := range m.rooms {
		r.mu.Lock()
		if r.Status == StatusWaiting && now.Sub(r.CreatedAt) > m.opts.RoomTimeout {
			r.closed = true
			r.timer.Close()
			delete(m.rooms, code)
			members := make([]types.ClientInterface, len(r.Players))
			for i, p := range r.Players {
				members[i] = p.Client
			}
			closed = append(closed, idle{code: code, members: members})
		}
		r.mu.Unlock()
	}
	m.mu.Unlock()

	for _, c := range closed {
		m.hub.Broadcast(c.code, codec.NewErrorMessageWithText(protocol.ErrCodeRoomNotFound, "Room closed after being idle"))
		for _, client := range c.members {
			m.sessions.Unbind(client.GetID())
			client.SetRoom("")
		}
		m.hub.Drop(c.code)
		m.forget(c.code)
		logger.L().Infow("🏠 idle room closed", "room", c.code)
	}
}

// Shutdown stops every room timer.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for code, r := range m.rooms {
		r.mu.Lock()
		r.closed = true
		r.timer.Close()
		r.mu.Unlock()
		delete(m.rooms, code)
	}
}

func (m *Manager) persist(r *Room) {
	if m.store == nil {
		return
	}
	data := r.ToRoomData()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		_ = m.store.SaveRoom(ctx, data.Code, data)
	}()
}

func (m *Manager) forget(code string) {
	if m.store == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		_ = m.store.DeleteRoom(ctx, code)
	}()
}

// generateRoomCode samples codes until one is free. The caller holds m.mu.
func (m *Manager) generateRoomCode() string {
	for {
		code := make([]byte, roomCodeLength)
		for i := range code {
			code[i] = roomCodeChars[fastrand.Uint32n(uint32(len(roomCodeChars)))]
		}
		if _, exists := m.rooms[string(code)]; !exists {
			return string(code)
		}
	}
}

// NormalizeCode trims and upper-cases a room code from the wire.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
