package app

// Command is an inbound request from one connection. The set is closed:
// only the types in this file implement it.
type Command interface {
	commandName() string
}

// CreateGame opens a new room with the caller as admin
type CreateGame struct {
	PlayerName string
}

// JoinGame adds the caller to an existing room
type JoinGame struct {
	RoomCode   string
	PlayerName string
}

// ToggleReady flips a player's ready flag
type ToggleReady struct {
	RoomCode   string
	PlayerName string
}

// SubmitWord records a player's completion of the current stem
type SubmitWord struct {
	RoomCode   string
	PlayerName string
	Word       string
}

// KickPlayer removes a player from the room. Admin only.
type KickPlayer struct {
	RoomCode   string
	TargetName string
}

// SkipPlayer readies or skips a player who is holding up the round. Admin only.
type SkipPlayer struct {
	RoomCode   string
	TargetName string
}

// Disconnect is issued by the transport when a connection goes away
type Disconnect struct{}

func (CreateGame) commandName() string  { return "createGame" }
func (JoinGame) commandName() string    { return "tryJoinGame" }
func (ToggleReady) commandName() string { return "toggleReady" }
func (SubmitWord) commandName() string  { return "submitWord" }
func (KickPlayer) commandName() string  { return "kickPlayer" }
func (SkipPlayer) commandName() string  { return "skipPlayer" }
func (Disconnect) commandName() string  { return "disconnect" }

// CommandName returns the wire name of a command, used for logs and metrics
func CommandName(cmd Command) string {
	if cmd == nil {
		return "unknown"
	}
	return cmd.commandName()
}
