package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"wordmatch/internal/app"
)

// Handler handles WebSocket connections
type Handler struct {
	engine   *app.Engine
	opts     Options
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(engine *app.Engine, opts Options, logger *slog.Logger) *Handler {
	return &Handler{
		engine: engine,
		opts:   opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Allow all origins for development
				// In production, you should validate the origin
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP upgrades the request and binds a fresh connection ID to it.
// Rooms are chosen later by createGame or tryJoinGame messages.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	connectionID := uuid.NewString()
	client := NewClient(conn, h.engine, connectionID, h.opts, h.logger)

	if err := h.engine.Register(r.Context(), client); err != nil {
		h.logger.Warn("websocket rejected", "connectionID", connectionID, "error", err)
		client.Close()
		return
	}

	h.logger.Info("websocket connected", "connectionID", connectionID, "remoteAddr", r.RemoteAddr)

	client.Run()

	h.logger.Info("websocket disconnected", "connectionID", connectionID)
}
