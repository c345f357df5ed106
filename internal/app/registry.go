package app

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"wordmatch/internal/domain"
)

const (
	// DefaultRoomCodeLength is the default length for room codes
	DefaultRoomCodeLength = 6

	maxRoomCodeAttempts = 10
)

// RoomCodeChars are characters used for room codes (no ambiguous chars)
const RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// ErrRoomCodeExhausted is returned when no free room code could be generated
var ErrRoomCodeExhausted = errors.New("failed to generate unique room code")

// RegistryConfig configures a Registry
type RegistryConfig struct {
	RoomCodeLength int
	Words          *WordLists
	Random         domain.Random
	Metrics        *Metrics
}

// Registry owns every active game and the connection bindings.
// It is not safe for concurrent use; the Engine serializes all access.
type Registry struct {
	sessions       map[string]*domain.Game
	connectionRoom map[string]string // connectionID -> roomCode

	words          *WordLists
	rng            domain.Random
	roomCodeLength int
	entropy        io.Reader

	metrics *Metrics
	logger  *slog.Logger
}

// Stats is a point-in-time summary of the registry
type Stats struct {
	Rooms       int `json:"rooms"`
	Players     int `json:"players"`
	Connections int `json:"connections"`
}

// NewRegistry creates an empty registry
func NewRegistry(cfg RegistryConfig, logger *slog.Logger) *Registry {
	if cfg.RoomCodeLength <= 0 {
		cfg.RoomCodeLength = DefaultRoomCodeLength
	}
	if cfg.Words == nil {
		cfg.Words = &WordLists{}
	}

	return &Registry{
		sessions:       make(map[string]*domain.Game),
		connectionRoom: make(map[string]string),
		words:          cfg.Words,
		rng:            cfg.Random,
		roomCodeLength: cfg.RoomCodeLength,
		entropy:        rand.Reader,
		metrics:        cfg.Metrics,
		logger:         logger,
	}
}

// NormalizeRoomCode returns the canonical form of a room code
func NormalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Handle applies one command on behalf of a connection and returns the
// events to deliver, each addressed to a single connection.
func (r *Registry) Handle(connectionID string, cmd Command) []*domain.GameEvent {
	switch c := cmd.(type) {
	case CreateGame:
		return r.createGame(connectionID, c)
	case JoinGame:
		return r.joinGame(connectionID, c)
	case ToggleReady:
		return r.mutate(connectionID, cmd, c.RoomCode, func(g *domain.Game) error {
			return g.ToggleReady(c.PlayerName)
		})
	case SubmitWord:
		return r.mutate(connectionID, cmd, c.RoomCode, func(g *domain.Game) error {
			return g.SubmitWord(c.PlayerName, c.Word)
		})
	case SkipPlayer:
		return r.mutate(connectionID, cmd, c.RoomCode, func(g *domain.Game) error {
			return g.SkipPlayer(connectionID, c.TargetName)
		})
	case KickPlayer:
		return r.kickPlayer(connectionID, c)
	case Disconnect:
		return r.leave(connectionID, "")
	default:
		r.logger.Warn("unhandled command", "connectionID", connectionID, "command", CommandName(cmd))
		return nil
	}
}

// RoomExists reports whether a room code names an active game
func (r *Registry) RoomExists(roomCode string) bool {
	_, ok := r.sessions[NormalizeRoomCode(roomCode)]
	return ok
}

// Game returns the game for a room code
func (r *Registry) Game(roomCode string) (*domain.Game, bool) {
	game, ok := r.sessions[NormalizeRoomCode(roomCode)]
	return game, ok
}

// RoomOf returns the room a connection is bound to
func (r *Registry) RoomOf(connectionID string) (string, bool) {
	code, ok := r.connectionRoom[connectionID]
	return code, ok
}

// Stats returns room, player and bound connection counts
func (r *Registry) Stats() Stats {
	players := 0
	for _, game := range r.sessions {
		players += game.Roster.Len()
	}
	return Stats{
		Rooms:       len(r.sessions),
		Players:     players,
		Connections: len(r.connectionRoom),
	}
}

func (r *Registry) createGame(connectionID string, cmd CreateGame) []*domain.GameEvent {
	if err := domain.ValidateName(cmd.PlayerName); err != nil {
		return r.reject(connectionID, "", domain.EventInvalidPlayerName, nil, ReasonInvalidName)
	}

	roomCode, err := r.newRoomCode()
	if err != nil {
		r.logger.Error("failed to create game", "connectionID", connectionID, "error", err)
		r.metrics.reject(ReasonCodeExhausted)
		return nil
	}

	events := r.leave(connectionID, "")

	game := domain.NewGame(roomCode, domain.NewPromptGenerator(r.words.Prefixes, r.words.Suffixes, r.rng))
	player, err := game.AddPlayer(cmd.PlayerName, connectionID)
	if err != nil {
		r.logger.Error("failed to add creator", "roomCode", roomCode, "error", err)
		return events
	}

	r.sessions[roomCode] = game
	r.connectionRoom[connectionID] = roomCode
	r.metrics.setActiveRooms(len(r.sessions))

	r.logger.Info("game created", "roomCode", roomCode, "player", player.Name)

	events = append(events, domain.NewEvent(domain.EventGameCreated, roomCode, connectionID, &domain.GameCreatedPayload{
		RoomCode:   roomCode,
		PlayerName: player.Name,
		Players:    game.PlayerSnapshots(),
	}))
	return append(events, r.broadcast(game, "")...)
}

func (r *Registry) joinGame(connectionID string, cmd JoinGame) []*domain.GameEvent {
	roomCode := NormalizeRoomCode(cmd.RoomCode)

	game, ok := r.sessions[roomCode]
	if !ok {
		return r.reject(connectionID, roomCode, domain.EventRoomDoesNotExist,
			&domain.RoomDoesNotExistPayload{RoomCode: roomCode}, ReasonRoomNotFound)
	}

	if err := domain.ValidateName(cmd.PlayerName); err != nil {
		return r.reject(connectionID, roomCode, domain.EventInvalidPlayerName, nil, ReasonInvalidName)
	}

	if existing, ok := game.Roster.Get(cmd.PlayerName); ok {
		if existing.ConnectionID != connectionID {
			return r.reject(connectionID, roomCode, domain.EventPlayerAlreadyExists,
				&domain.PlayerAlreadyExistsPayload{Name: existing.Name}, ReasonPlayerExists)
		}
		// replayed join from the connection that already owns the name
		return append([]*domain.GameEvent{r.joinedEvent(game, existing)}, r.broadcast(game, "")...)
	}

	events := r.leave(connectionID, roomCode)

	player, err := game.AddPlayer(cmd.PlayerName, connectionID)
	if err != nil {
		r.logger.Error("failed to add player", "roomCode", roomCode, "error", err)
		return events
	}
	r.connectionRoom[connectionID] = roomCode

	r.logger.Info("player joined", "roomCode", roomCode, "player", player.Name)

	events = append(events, r.joinedEvent(game, player))
	return append(events, r.broadcast(game, "")...)
}

func (r *Registry) joinedEvent(game *domain.Game, player *domain.Player) *domain.GameEvent {
	return domain.NewEvent(domain.EventJoinGame, game.RoomCode, player.ConnectionID, &domain.JoinGamePayload{
		RoomCode:   game.RoomCode,
		PlayerName: player.Name,
		Players:    game.PlayerSnapshots(),
	})
}

// mutate runs fn against a room and broadcasts the result. Unknown rooms
// and domain errors are silent no-ops for the caller.
func (r *Registry) mutate(connectionID string, cmd Command, roomCode string, fn func(*domain.Game) error) []*domain.GameEvent {
	game, ok := r.Game(roomCode)
	if !ok {
		r.ignore(connectionID, cmd, domain.ErrRoomNotFound)
		return nil
	}

	round := game.Round
	if err := fn(game); err != nil {
		r.ignore(connectionID, cmd, err)
		return nil
	}
	r.noteRound(game, round)

	return r.broadcast(game, "")
}

func (r *Registry) kickPlayer(connectionID string, cmd KickPlayer) []*domain.GameEvent {
	game, ok := r.Game(cmd.RoomCode)
	if !ok {
		r.ignore(connectionID, cmd, domain.ErrRoomNotFound)
		return nil
	}

	round := game.Round
	kicked, err := game.KickPlayer(connectionID, cmd.TargetName)
	if err != nil {
		r.ignore(connectionID, cmd, err)
		return nil
	}
	r.noteRound(game, round)

	if code, ok := r.connectionRoom[kicked.ConnectionID]; ok && code == game.RoomCode {
		delete(r.connectionRoom, kicked.ConnectionID)
	}

	r.logger.Info("player kicked", "roomCode", game.RoomCode, "player", kicked.Name)

	events := r.broadcast(game, kicked.Name)
	if kicked.ConnectionID != "" {
		// the kicked connection is no longer bound but still learns why
		events = append(events, domain.NewEvent(domain.EventUpdateGameData, game.RoomCode, kicked.ConnectionID, r.update(game, kicked.Name)))
	}

	if game.IsEmpty() {
		r.deleteSession(game.RoomCode)
	}

	return events
}

// leave unbinds a connection and removes its player. The room is discarded
// once empty unless it is keepRoom.
func (r *Registry) leave(connectionID, keepRoom string) []*domain.GameEvent {
	roomCode, ok := r.connectionRoom[connectionID]
	if !ok {
		return nil
	}
	delete(r.connectionRoom, connectionID)

	game, ok := r.sessions[roomCode]
	if !ok {
		return nil
	}

	round := game.Round
	player, err := game.RemoveConnection(connectionID)
	if err != nil {
		return nil
	}
	r.noteRound(game, round)

	r.logger.Info("player left", "roomCode", roomCode, "player", player.Name)

	if game.IsEmpty() {
		if roomCode != keepRoom {
			r.deleteSession(roomCode)
		}
		return nil
	}

	return r.broadcast(game, "")
}

func (r *Registry) deleteSession(roomCode string) {
	if _, ok := r.sessions[roomCode]; !ok {
		return
	}
	delete(r.sessions, roomCode)
	r.metrics.setActiveRooms(len(r.sessions))
	r.logger.Info("game deleted", "roomCode", roomCode)
}

// broadcast addresses an update to every connection in the room
func (r *Registry) broadcast(game *domain.Game, kickedName string) []*domain.GameEvent {
	payload := r.update(game, kickedName)

	events := make([]*domain.GameEvent, 0, game.Roster.Len())
	for _, p := range game.Roster.Players() {
		if p.ConnectionID == "" {
			continue
		}
		events = append(events, domain.NewEvent(domain.EventUpdateGameData, game.RoomCode, p.ConnectionID, payload))
	}
	return events
}

func (r *Registry) update(game *domain.Game, kickedName string) *domain.UpdateGameDataPayload {
	return &domain.UpdateGameDataPayload{
		Players:    game.PlayerSnapshots(),
		Game:       game.Snapshot(),
		KickedName: kickedName,
	}
}

func (r *Registry) reject(connectionID, roomCode string, eventType domain.EventType, payload interface{}, reason string) []*domain.GameEvent {
	r.metrics.reject(reason)
	r.logger.Debug("request rejected", "connectionID", connectionID, "roomCode", roomCode, "reason", reason)
	return []*domain.GameEvent{domain.NewEvent(eventType, roomCode, connectionID, payload)}
}

func (r *Registry) ignore(connectionID string, cmd Command, err error) {
	reason := ReasonIgnored
	if errors.Is(err, domain.ErrNotAdmin) {
		reason = ReasonNotAdmin
	}
	r.metrics.reject(reason)
	r.logger.Debug("command ignored", "connectionID", connectionID, "command", CommandName(cmd), "error", err)
}

func (r *Registry) noteRound(game *domain.Game, before int) {
	if game.Round == before {
		return
	}
	r.metrics.roundCompleted()
	r.logger.Info("round completed", "roomCode", game.RoomCode, "round", before)
}

func (r *Registry) newRoomCode() (string, error) {
	for attempts := 0; attempts < maxRoomCodeAttempts; attempts++ {
		code, err := r.generateRoomCode()
		if err != nil {
			return "", err
		}
		if _, exists := r.sessions[code]; !exists {
			return code, nil
		}
	}
	return "", ErrRoomCodeExhausted
}

// generateRoomCode draws a random room code
func (r *Registry) generateRoomCode() (string, error) {
	b := make([]byte, r.roomCodeLength)
	if _, err := io.ReadFull(r.entropy, b); err != nil {
		return "", fmt.Errorf("read room code entropy: %w", err)
	}

	for i := range b {
		b[i] = RoomCodeChars[int(b[i])%len(RoomCodeChars)]
	}
	return string(b), nil
}
