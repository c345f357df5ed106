package domain

import "time"

// EventType represents the type of game event
type EventType string

const (
	EventRoomDoesNotExist    EventType = "roomDoesNotExist"
	EventPlayerAlreadyExists EventType = "playerAlreadyExists"
	EventInvalidPlayerName   EventType = "invalidPlayerName"
	EventJoinGame            EventType = "joinGame"
	EventGameCreated         EventType = "gameCreated"
	EventUpdateGameData      EventType = "updateGameData"
)

// GameEvent is a notification addressed to a single connection
type GameEvent struct {
	Type         EventType   `json:"type"`
	RoomCode     string      `json:"roomCode,omitempty"`
	ConnectionID string      `json:"-"`
	Payload      interface{} `json:"payload,omitempty"`
	Timestamp    time.Time   `json:"timestamp"`
}

// NewEvent creates a new event for one connection
func NewEvent(eventType EventType, roomCode, connectionID string, payload interface{}) *GameEvent {
	return &GameEvent{
		Type:         eventType,
		RoomCode:     roomCode,
		ConnectionID: connectionID,
		Payload:      payload,
		Timestamp:    time.Now(),
	}
}

// Payload types for different events

// RoomDoesNotExistPayload is sent when a join names an unknown room
type RoomDoesNotExistPayload struct {
	RoomCode string `json:"roomCode"`
}

// PlayerAlreadyExistsPayload is sent when a join reuses a taken name
type PlayerAlreadyExistsPayload struct {
	Name string `json:"name"`
}

// JoinGamePayload is sent to the joining connection only
type JoinGamePayload struct {
	RoomCode   string           `json:"roomCode"`
	PlayerName string           `json:"playerName"`
	Players    []PlayerSnapshot `json:"players"`
}

// GameCreatedPayload is sent to the creator only
type GameCreatedPayload struct {
	RoomCode   string           `json:"roomCode"`
	PlayerName string           `json:"playerName"`
	Players    []PlayerSnapshot `json:"players"`
}

// UpdateGameDataPayload is broadcast to every connection in the room
type UpdateGameDataPayload struct {
	Players    []PlayerSnapshot `json:"players"`
	Game       GameSnapshot     `json:"game"`
	KickedName string           `json:"kickedName,omitempty"`
}
