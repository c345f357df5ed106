package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"wordmatch/internal/domain"
)

// DefaultQueueSize is the default capacity of the command queue
const DefaultQueueSize = 256

// ErrEngineClosed is returned once the engine has stopped
var ErrEngineClosed = errors.New("engine closed")

// ClientConnection represents a connected client
type ClientConnection interface {
	Send(message interface{}) error
	GetConnectionID() string
	Close() error
}

type envelope struct {
	connectionID string
	cmd          Command
}

// Engine is the single writer for the registry. Every command from every
// connection is applied in arrival order on the Run goroutine.
type Engine struct {
	registry *Registry
	clients  map[string]ClientConnection // connectionID -> client

	register chan ClientConnection
	commands chan envelope
	queries  chan func(*Registry)

	metrics *Metrics
	logger  *slog.Logger

	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewEngine creates an engine around a registry. Call Run to start it.
func NewEngine(registry *Registry, queueSize int, metrics *Metrics, logger *slog.Logger) *Engine {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	return &Engine{
		registry: registry,
		clients:  make(map[string]ClientConnection),
		register: make(chan ClientConnection),
		commands: make(chan envelope, queueSize),
		queries:  make(chan func(*Registry)),
		metrics:  metrics,
		logger:   logger,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Run processes registrations, commands and queries until ctx is cancelled
// or Close is called. Open clients are closed on the way out.
func (e *Engine) Run(ctx context.Context) {
	defer close(e.stopped)
	defer e.shutdown()

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.done:
			return
		case client := <-e.register:
			e.clients[client.GetConnectionID()] = client
			e.metrics.setConnectedClients(len(e.clients))
			e.logger.Debug("client registered", "connectionID", client.GetConnectionID())
		case env := <-e.commands:
			e.dispatch(env)
		case query := <-e.queries:
			query(e.registry)
		}
	}
}

// Register makes a client reachable for event delivery. It must be called
// before the client submits any command.
func (e *Engine) Register(ctx context.Context, client ClientConnection) error {
	select {
	case e.register <- client:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return ErrEngineClosed
	case <-e.stopped:
		return ErrEngineClosed
	}
}

// Unregister queues a disconnect behind the connection's earlier commands
func (e *Engine) Unregister(connectionID string) {
	if err := e.Submit(context.Background(), connectionID, Disconnect{}); err != nil {
		e.logger.Debug("unregister after engine stopped", "connectionID", connectionID)
	}
}

// Submit queues a command for a connection
func (e *Engine) Submit(ctx context.Context, connectionID string, cmd Command) error {
	select {
	case <-e.done:
		return ErrEngineClosed
	default:
	}

	select {
	case e.commands <- envelope{connectionID: connectionID, cmd: cmd}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return ErrEngineClosed
	case <-e.stopped:
		return ErrEngineClosed
	}
}

// Query runs fn on the engine goroutine and waits for it to finish
func (e *Engine) Query(ctx context.Context, fn func(*Registry)) error {
	finished := make(chan struct{})
	query := func(r *Registry) {
		fn(r)
		close(finished)
	}

	select {
	case e.queries <- query:
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return ErrEngineClosed
	case <-e.stopped:
		return ErrEngineClosed
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns a registry summary
func (e *Engine) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := e.Query(ctx, func(r *Registry) {
		stats = r.Stats()
	})
	return stats, err
}

// RoomExists reports whether a room code is active
func (e *Engine) RoomExists(ctx context.Context, roomCode string) (bool, error) {
	var exists bool
	err := e.Query(ctx, func(r *Registry) {
		exists = r.RoomExists(roomCode)
	})
	return exists, err
}

// Close stops the engine. It is safe to call more than once.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		close(e.done)
	})
}

// Stopped is closed after Run has returned
func (e *Engine) Stopped() <-chan struct{} {
	return e.stopped
}

func (e *Engine) dispatch(env envelope) {
	start := time.Now()

	if _, ok := env.cmd.(Disconnect); ok {
		delete(e.clients, env.connectionID)
		e.metrics.setConnectedClients(len(e.clients))
	}

	events := e.registry.Handle(env.connectionID, env.cmd)
	e.metrics.observeCommand(env.cmd, time.Since(start))

	e.deliver(events)
}

// deliver sends each event to the one connection it is addressed to
func (e *Engine) deliver(events []*domain.GameEvent) {
	for _, event := range events {
		client, ok := e.clients[event.ConnectionID]
		if !ok {
			continue
		}
		if err := client.Send(event); err != nil {
			e.logger.Debug("failed to send to client", "connectionID", event.ConnectionID, "error", err)
		}
	}
}

func (e *Engine) shutdown() {
	for id, client := range e.clients {
		if err := client.Close(); err != nil {
			e.logger.Debug("failed to close client", "connectionID", id, "error", err)
		}
	}
	e.clients = make(map[string]ClientConnection)
	e.metrics.setConnectedClients(0)
	e.logger.Info("engine stopped")
}
