package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"wordmatch/internal/app"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Default maximum message size allowed from peer
	defaultMaxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Options tunes per-connection limits
type Options struct {
	MaxMessageSize int64
	CommandRate    float64 // commands per second
	CommandBurst   int
}

// Client represents a WebSocket client connection
type Client struct {
	conn         *websocket.Conn
	engine       *app.Engine
	connectionID string
	send         chan []byte
	done         chan struct{}
	ctx          context.Context
	cancel       context.CancelFunc
	limiter      *rate.Limiter
	maxSize      int64
	logger       *slog.Logger
	mu           sync.Mutex
	closed       bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, engine *app.Engine, connectionID string, opts Options, logger *slog.Logger) *Client {
	if opts.MaxMessageSize <= 0 {
		opts.MaxMessageSize = defaultMaxMessageSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		conn:         conn,
		engine:       engine,
		connectionID: connectionID,
		send:         make(chan []byte, sendBufferSize),
		done:         make(chan struct{}),
		ctx:          ctx,
		cancel:       cancel,
		limiter:      newLimiter(opts),
		maxSize:      opts.MaxMessageSize,
		logger:       logger.With("connectionID", connectionID),
	}
}

func newLimiter(opts Options) *rate.Limiter {
	if opts.CommandRate <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := opts.CommandBurst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(opts.CommandRate), burst)
}

// GetConnectionID returns the connection ID for this client
func (c *Client) GetConnectionID() string {
	return c.connectionID
}

// Send implements app.ClientConnection interface
func (c *Client) Send(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		// Buffer full, message dropped
		c.logger.Warn("send buffer full, message dropped")
		return nil
	}
}

// Close implements app.ClientConnection interface
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	c.cancel()
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		c.engine.Unregister(c.connectionID)
		c.Close()
	}()

	c.conn.SetReadLimit(c.maxSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		if !c.handleMessage(message) {
			break
		}
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes one inbound frame. It returns false once the
// engine is gone and the connection should end.
func (c *Client) handleMessage(data []byte) bool {
	if !c.limiter.Allow() {
		c.sendError(ErrCodeRateLimited, "Too many messages")
		return true
	}

	msgType, cmd, err := DecodeCommand(data)
	switch {
	case errors.Is(err, ErrUnknownMessage):
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
		return true
	case err != nil:
		c.logger.Debug("invalid message", "type", msgType, "error", err)
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return true
	case cmd == nil:
		c.sendPong()
		return true
	}

	if err := c.engine.Submit(c.ctx, c.connectionID, cmd); err != nil {
		c.logger.Debug("command not queued", "type", msgType, "error", err)
		c.sendError(ErrCodeInternalError, "Server is shutting down")
		return false
	}
	return true
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	payload := &ErrorPayload{
		Code:    code,
		Message: message,
	}

	c.Send(NewServerMessage(MsgError, payload))
}

// sendPong sends a pong message in response to ping
func (c *Client) sendPong() {
	c.Send(NewServerMessage(MsgPong, nil))
}
