package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/palemoky/spellcast/internal/logger"
	"github.com/palemoky/spellcast/internal/protocol"
	"github.com/palemoky/spellcast/internal/server/handler"
)

// HealthStatus is the /health body.
type HealthStatus struct {
	Status      string `json:"status"`
	Online      int    `json:"online"`
	Rooms       int    `json:"rooms"`
	ActiveGames int    `json:"active_games"`
	Maintenance bool   `json:"maintenance"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthStatus{
		Status:      "ok",
		Online:      s.GetOnlineCount(),
		Rooms:       s.rooms.Count(),
		ActiveGames: s.rooms.GetActiveGamesCount(),
		Maintenance: s.IsMaintenanceMode(),
	})
}

func (s *Server) handleRooms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, protocol.RoomListResultPayload{Rooms: s.rooms.GetRoomList()})
}

func (s *Server) handleRoom(w http.ResponseWriter, r *http.Request) {
	rm := s.rooms.GetRoom(mux.Vars(r)["code"])
	if rm == nil {
		writeJSON(w, http.StatusNotFound, protocol.ErrorPayload{
			Code:    protocol.ErrCodeRoomNotFound,
			Message: protocol.ErrorMessages[protocol.ErrCodeRoomNotFound],
		})
		return
	}
	writeJSON(w, http.StatusOK, rm.Info())
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		writeJSON(w, http.StatusOK, handler.Leaderboard(nil))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.stats.Leaderboard(r.Context(), limit)
	if err != nil {
		logger.L().Errorw("leaderboard failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, protocol.ErrorPayload{
			Code:    protocol.ErrCodeUnknown,
			Message: "Leaderboard unavailable",
		})
		return
	}

	writeJSON(w, http.StatusOK, handler.Leaderboard(entries))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
