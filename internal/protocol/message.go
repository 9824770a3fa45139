package protocol

import "encoding/json"

// Message is the envelope for every event on the wire.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType names an event.
type MessageType string

// Client → server
const (
	// connection
	MsgPing MessageType = "ping"

	// room
	MsgCreateRoom          MessageType = "create_room"
	MsgJoinRoom            MessageType = "join_room"
	MsgLeaveRoom           MessageType = "leave_room"
	MsgGetRoomInfo         MessageType = "get_room_info"
	MsgUpdateTimerSettings MessageType = "update_timer_settings"
	MsgStartGame           MessageType = "start_game"

	// shared board
	MsgSubmitWord    MessageType = "player_submitted_word"
	MsgSwapTile      MessageType = "swap_tile"
	MsgPlayerDone    MessageType = "player_done"
	MsgTileSelection MessageType = "player_tile_selection"

	// turn based
	MsgSubmitWordTurn MessageType = "player_word_submitted_turnbased"
	MsgEndTurn        MessageType = "end_turn"

	// timer
	MsgVoteTimer MessageType = "vote_timer"

	// stats
	MsgGetStats       MessageType = "get_stats"
	MsgGetLeaderboard MessageType = "get_leaderboard"
	MsgGetRoomList    MessageType = "get_room_list"
)

// Server → client
const (
	// connection
	MsgConnected MessageType = "connected"
	MsgPong      MessageType = "pong"

	// room
	MsgRoomCreated          MessageType = "room_created"
	MsgRoomJoined           MessageType = "room_joined"
	MsgPlayerJoined         MessageType = "player_joined"
	MsgPlayerLeft           MessageType = "player_left"
	MsgRoomInfo             MessageType = "room_info"
	MsgTimerSettingsUpdated MessageType = "timer_settings_updated"

	// game flow
	MsgGameStarted           MessageType = "game_started"
	MsgWordAccepted          MessageType = "word_accepted"
	MsgWordAcceptedTurnBased MessageType = "word_accepted_turnbased"
	MsgWordRejected          MessageType = "word_rejected"
	MsgTileSwapped           MessageType = "tile_swapped"
	MsgOpponentHighlight     MessageType = "opponent_tile_highlight"
	MsgPlayerMarkedDone      MessageType = "player_marked_done"
	MsgRoundEnded            MessageType = "round_ended"
	MsgTurnEnded             MessageType = "turn_ended"
	MsgTurnTimeout           MessageType = "turn_timeout"
	MsgGameOver              MessageType = "game_over"

	// timer
	MsgGraceStarted     MessageType = "timer_grace_started"
	MsgGraceTick        MessageType = "timer_grace_tick"
	MsgVotingEnabled    MessageType = "timer_voting_enabled"
	MsgVoteUpdate       MessageType = "timer_vote_update"
	MsgCountdownStarted MessageType = "timer_countdown_started"
	MsgCountdownTick    MessageType = "timer_countdown_tick"
	MsgFixedStarted     MessageType = "timer_fixed_started"
	MsgFixedTick        MessageType = "timer_fixed_tick"
	MsgTimerExpired     MessageType = "timer_expired"

	// stats
	MsgStatsResult       MessageType = "stats_result"
	MsgLeaderboardResult MessageType = "leaderboard_result"
	MsgRoomListResult    MessageType = "room_list_result"

	MsgError MessageType = "error"
)
