package http

import (
	"encoding/json"
	"net/http"
	"path/filepath"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"wordmatch/internal/app"
)

// qrSize is the edge length of invite QR codes in pixels
const qrSize = 320

// Response is a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RoomExistsResponse is the response for checking if room exists
type RoomExistsResponse struct {
	RoomCode string `json:"roomCode"`
	Exists   bool   `json:"exists"`
}

// HealthResponse is the response for health check
type HealthResponse struct {
	Status string `json:"status"`
}

// StatsResponse is the response for stats endpoint
type StatsResponse struct {
	ActiveGames  int `json:"activeGames"`
	TotalPlayers int `json:"totalPlayers"`
	Connections  int `json:"connections"`
}

// handleRoomExists handles GET /api/rooms/:roomCode/exists
func (s *Server) handleRoomExists(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomCode := app.NormalizeRoomCode(ps.ByName("roomCode"))
	if roomCode == "" {
		s.sendError(w, http.StatusBadRequest, "MISSING_ROOM_CODE", "Room code is required")
		return
	}

	exists, err := s.engine.RoomExists(r.Context(), roomCode)
	if err != nil {
		s.sendError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Server is shutting down")
		return
	}

	s.sendSuccess(w, &RoomExistsResponse{
		RoomCode: roomCode,
		Exists:   exists,
	})
}

// handleRoomQR handles GET /api/rooms/:roomCode/qr with a PNG invite link
func (s *Server) handleRoomQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomCode := app.NormalizeRoomCode(ps.ByName("roomCode"))

	exists, err := s.engine.RoomExists(r.Context(), roomCode)
	if err != nil {
		s.sendError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Server is shutting down")
		return
	}
	if !exists {
		s.sendError(w, http.StatusNotFound, "ROOM_NOT_FOUND", "Room not found")
		return
	}

	png, err := qrcode.Encode(inviteLink(r, roomCode), qrcode.Medium, qrSize)
	if err != nil {
		s.logger.Error("qr generation failed", "roomCode", roomCode, "error", err)
		s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "QR generation failed")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.sendSuccess(w, &HealthResponse{
		Status: "ok",
	})
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stats, err := s.engine.Stats(r.Context())
	if err != nil {
		s.sendError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Server is shutting down")
		return
	}

	s.sendSuccess(w, &StatsResponse{
		ActiveGames:  stats.Rooms,
		TotalPlayers: stats.Players,
		Connections:  stats.Connections,
	})
}

// handleSPA serves index.html so client-side routes like /join/ABC123 work
func (s *Server) handleSPA(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	http.ServeFile(w, r, filepath.Join(s.config.Server.StaticDir, "index.html"))
}

// inviteLink builds the absolute join URL for a room
func inviteLink(r *http.Request, roomCode string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + "/join/" + roomCode
}

// sendSuccess sends a successful JSON response
func (s *Server) sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&Response{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}
