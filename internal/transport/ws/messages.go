package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wordmatch/internal/app"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgCreateGame  MessageType = "createGame"
	MsgTryJoinGame MessageType = "tryJoinGame"
	MsgToggleReady MessageType = "toggleReady"
	MsgSubmitWord  MessageType = "submitWord"
	MsgKickPlayer  MessageType = "kickPlayer"
	MsgSkipPlayer  MessageType = "skipPlayer"
	MsgPing        MessageType = "ping"
)

// Server → Client message types not carried by game events
const (
	MsgError MessageType = "error"
	MsgPong  MessageType = "pong"
)

var (
	ErrUnknownMessage = errors.New("unknown message type")
	ErrInvalidPayload = errors.New("invalid payload")
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Client message payloads

// CreateGamePayload is the payload for createGame
type CreateGamePayload struct {
	PlayerName string `json:"playerName"`
}

// PlayerPayload is the payload for tryJoinGame and toggleReady
type PlayerPayload struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

// SubmitWordPayload is the payload for submitWord
type SubmitWordPayload struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
	Word       string `json:"word"`
}

// TargetPayload is the payload for kickPlayer and skipPlayer
type TargetPayload struct {
	RoomCode   string `json:"roomCode"`
	TargetName string `json:"targetName"`
}

// ErrorPayload is the payload for error message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage = "INVALID_MESSAGE"
	ErrCodeRateLimited    = "RATE_LIMITED"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)

// DecodeCommand parses one inbound frame. Ping frames decode to a nil command.
func DecodeCommand(data []byte) (MessageType, app.Command, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	switch msg.Type {
	case MsgPing:
		return msg.Type, nil, nil
	case MsgCreateGame:
		var p CreateGamePayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return msg.Type, nil, err
		}
		return msg.Type, app.CreateGame{PlayerName: p.PlayerName}, nil
	case MsgTryJoinGame, MsgToggleReady:
		var p PlayerPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return msg.Type, nil, err
		}
		if msg.Type == MsgTryJoinGame {
			return msg.Type, app.JoinGame{RoomCode: p.RoomCode, PlayerName: p.PlayerName}, nil
		}
		return msg.Type, app.ToggleReady{RoomCode: p.RoomCode, PlayerName: p.PlayerName}, nil
	case MsgSubmitWord:
		var p SubmitWordPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return msg.Type, nil, err
		}
		return msg.Type, app.SubmitWord{RoomCode: p.RoomCode, PlayerName: p.PlayerName, Word: p.Word}, nil
	case MsgKickPlayer, MsgSkipPlayer:
		var p TargetPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return msg.Type, nil, err
		}
		if msg.Type == MsgKickPlayer {
			return msg.Type, app.KickPlayer{RoomCode: p.RoomCode, TargetName: p.TargetName}, nil
		}
		return msg.Type, app.SkipPlayer{RoomCode: p.RoomCode, TargetName: p.TargetName}, nil
	default:
		return msg.Type, nil, ErrUnknownMessage
	}
}

func decodePayload(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing payload", ErrInvalidPayload)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}
