package domain

import "errors"

// Domain errors
var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrPlayerAlreadyExists = errors.New("player already exists")
	ErrInvalidName         = errors.New("invalid player name")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrNotAdmin            = errors.New("only the admin can perform this action")
	ErrInvalidPhase        = errors.New("invalid action for current state")
	ErrEmptyWord           = errors.New("word cannot be empty")
	ErrReservedWord        = errors.New("word is reserved")
	ErrAlreadySubmitted    = errors.New("player already submitted a word")
	ErrInvalidTransition   = errors.New("invalid state transition")
)
