package protocol

// Pos is a board coordinate encoded as [row, col].
type Pos [2]int

// --- client requests ---

// PingPayload heartbeat
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // client clock, ms
}

// CreateRoomPayload create_room
type CreateRoomPayload struct {
	PlayerName string `json:"player_name"`
	MaxPlayers int    `json:"max_players"`
}

// JoinRoomPayload join_room
type JoinRoomPayload struct {
	RoomCode   string `json:"room_code"`
	PlayerName string `json:"player_name"`
}

// UpdateTimerSettingsPayload update_timer_settings
type UpdateTimerSettingsPayload struct {
	TimerType    string `json:"timer_type"`
	FixedMinutes int    `json:"fixed_minutes"`
}

// StartGamePayload start_game. Keys are camelCase on the wire.
type StartGamePayload struct {
	TimerType     string  `json:"timerType"`
	BoardMode     string  `json:"boardMode"`
	TimerDuration float64 `json:"timerDuration"` // minutes
}

// SubmitWordPayload is used by both submission events.
type SubmitWordPayload struct {
	RoomCode  string `json:"room_code"`
	Word      string `json:"word"`
	Positions []Pos  `json:"positions"`
}

// SwapTilePayload swap_tile
type SwapTilePayload struct {
	RoomCode string `json:"room_code"`
	Position Pos    `json:"position"`
}

// PlayerDonePayload player_done
type PlayerDonePayload struct {
	RoomCode string `json:"room_code"`
}

// TileSelectionPayload player_tile_selection
type TileSelectionPayload struct {
	Positions []Pos  `json:"positions"`
	Action    string `json:"action"`
}

// GetLeaderboardPayload get_leaderboard
type GetLeaderboardPayload struct {
	Limit int `json:"limit"`
}

// --- server responses ---

// ConnectedPayload connected
type ConnectedPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// PongPayload pong
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"`
	ServerTimestamp int64 `json:"server_timestamp"`
}

// PlayerInfo describes a room member.
type PlayerInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
	IsHost bool   `json:"is_host"`
	Done   bool   `json:"done,omitempty"`
}

// SettingsInfo describes room settings.
type SettingsInfo struct {
	MaxPlayers   int    `json:"max_players"`
	TimerType    string `json:"timer_type"`
	FixedMinutes int    `json:"fixed_minutes"`
	BoardMode    string `json:"board_mode"`
	TotalRounds  int    `json:"total_rounds"`
}

// RoomInfo is the room snapshot sent to clients.
type RoomInfo struct {
	Code           string       `json:"room_code"`
	HostID         string       `json:"host_id"`
	Status         string       `json:"status"`
	Players        []PlayerInfo `json:"players"`
	Settings       SettingsInfo `json:"settings"`
	RoundNumber    int          `json:"round_number,omitempty"`
	TurnNumber     int          `json:"turn_number,omitempty"`
	ActivePlayerID string       `json:"active_player_id,omitempty"`
	Board          [][]string   `json:"board_state,omitempty"`
}

// RoomCreatedPayload room_created
type RoomCreatedPayload struct {
	RoomCode string   `json:"room_code"`
	PlayerID string   `json:"player_id"`
	IsHost   bool     `json:"is_host"`
	Room     RoomInfo `json:"room"`
}

// RoomJoinedPayload room_joined
type RoomJoinedPayload struct {
	RoomCode string   `json:"room_code"`
	IsHost   bool     `json:"is_host"`
	Status   string   `json:"status,omitempty"` // "already_joined" on rejoin
	Room     RoomInfo `json:"room"`
}

// PlayerJoinedPayload player_joined
type PlayerJoinedPayload struct {
	Player      PlayerInfo `json:"player"`
	PlayerCount int        `json:"player_count"`
}

// PlayerLeftPayload player_left
type PlayerLeftPayload struct {
	PlayerID    string `json:"player_id"`
	PlayerName  string `json:"player_name"`
	PlayerCount int    `json:"player_count"`
	NewHostID   string `json:"new_host_id,omitempty"`
}

// RoomInfoPayload room_info
type RoomInfoPayload struct {
	Room RoomInfo `json:"room"`
}

// TimerSettingsPayload timer_settings_updated
type TimerSettingsPayload struct {
	TimerType    string `json:"timer_type"`
	FixedMinutes int    `json:"fixed_minutes"`
}

// GameStartedPayload game_started
type GameStartedPayload struct {
	TimerType      string     `json:"timer_type"`
	BoardMode      string     `json:"board_mode"`
	Duration       int        `json:"duration"` // seconds
	BoardState     [][]string `json:"board_state"`
	ActivePlayerID string     `json:"active_player_id,omitempty"`
	FixedMinutes   int        `json:"fixed_minutes"`
	RoundNumber    int        `json:"round_number"`
	TotalRounds    int        `json:"total_rounds"`
}

// WordAcceptedPayload word_accepted (submitter only)
type WordAcceptedPayload struct {
	Word    string `json:"word"`
	Score   int    `json:"score"`
	Message string `json:"message"`
}

// WordAcceptedTurnPayload word_accepted_turnbased
type WordAcceptedTurnPayload struct {
	PlayerID          string     `json:"player_id"`
	Word              string     `json:"word"`
	Score             int        `json:"score"`
	BoardState        [][]string `json:"board_state"`
	ConsumedPositions []Pos      `json:"consumed_positions"`
	NextPlayerID      string     `json:"next_player_id"`
	TurnNumber        int        `json:"turn_number"`
}

// WordRejectedPayload word_rejected
type WordRejectedPayload struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
	Word    string `json:"word"`
}

// TileSwappedPayload tile_swapped
type TileSwappedPayload struct {
	PlayerID   string     `json:"player_id"`
	Position   Pos        `json:"position"`
	OldLetter  string     `json:"old_letter"`
	NewLetter  string     `json:"new_letter"`
	BoardState [][]string `json:"board_state"`
}

// OpponentHighlightPayload opponent_tile_highlight
type OpponentHighlightPayload struct {
	PlayerID  string `json:"player_id"`
	Positions []Pos  `json:"positions"`
	Action    string `json:"action"`
}

// PlayerMarkedDonePayload player_marked_done
type PlayerMarkedDonePayload struct {
	PlayerName   string `json:"player_name"`
	PlayersDone  int    `json:"players_done"`
	TotalPlayers int    `json:"total_players"`
}

// RoundResult is one player's line in round_ended.
type RoundResult struct {
	PlayerID  string   `json:"player_id"`
	Name      string   `json:"name"`
	Score     int      `json:"score"`
	WordCount int      `json:"word_count"`
	Words     []string `json:"words"`
}

// RoundEndedPayload round_ended
type RoundEndedPayload struct {
	Results           []RoundResult  `json:"results"`
	RoundNumber       int            `json:"round_number"`
	BoardState        [][]string     `json:"board_state"`
	ConsumedPositions []Pos          `json:"consumed_positions"`
	PlayerScores      map[string]int `json:"player_scores"`
}

// TurnEndedPayload turn_ended
type TurnEndedPayload struct {
	PlayerID     string `json:"player_id"`
	NextPlayerID string `json:"next_player_id"`
}

// TurnTimeoutPayload turn_timeout
type TurnTimeoutPayload struct {
	SkippedPlayerID string `json:"skipped_player_id"`
	NextPlayerID    string `json:"next_player_id"`
}

// GameOverPayload game_over
type GameOverPayload struct {
	Standings []PlayerInfo `json:"standings"`
	WinnerID  string       `json:"winner_id"`
}

// GraceStartedPayload timer_grace_started
type GraceStartedPayload struct {
	Duration int    `json:"duration"`
	Mode     string `json:"mode"`
}

// TickPayload carries remaining seconds for every *_tick event.
type TickPayload struct {
	Seconds int `json:"seconds"`
}

// VotingEnabledPayload timer_voting_enabled
type VotingEnabledPayload struct {
	Required int `json:"required"`
}

// VoteUpdatePayload timer_vote_update
type VoteUpdatePayload struct {
	Votes    []string `json:"votes"`
	Required int      `json:"required"`
}

// CountdownStartedPayload timer_countdown_started and timer_fixed_started
type CountdownStartedPayload struct {
	Duration int `json:"duration"`
}

// TimerExpiredPayload timer_expired
type TimerExpiredPayload struct {
	PlayerID string `json:"player_id"`
}

// StatsResultPayload stats_result
type StatsResultPayload struct {
	PlayerName  string  `json:"player_name"`
	GamesPlayed int     `json:"games_played"`
	GamesWon    int     `json:"games_won"`
	TotalScore  int     `json:"total_score"`
	BestScore   int     `json:"best_score"`
	WinRate     float64 `json:"win_rate"`
}

// LeaderboardEntry one leaderboard row
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	PlayerName  string `json:"player_name"`
	TotalScore  int    `json:"total_score"`
	GamesWon    int    `json:"games_won"`
	GamesPlayed int    `json:"games_played"`
}

// LeaderboardResultPayload leaderboard_result
type LeaderboardResultPayload struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// RoomListItem one waiting room
type RoomListItem struct {
	RoomCode    string `json:"room_code"`
	HostName    string `json:"host_name"`
	PlayerCount int    `json:"player_count"`
	MaxPlayers  int    `json:"max_players"`
}

// RoomListResultPayload room_list_result
type RoomListResultPayload struct {
	Rooms []RoomListItem `json:"rooms"`
}

// ErrorPayload error
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
