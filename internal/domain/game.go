package domain

import (
	"time"
)

// Game represents one room's session
type Game struct {
	RoomCode      string    `json:"roomCode"`
	Round         int       `json:"round"`
	State         State     `json:"state"`
	CurrentStem   string    `json:"currentStem"`
	BlankIsSuffix bool      `json:"blankIsSuffix"`
	Roster        *Roster   `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`

	prompts *PromptGenerator
}

// NewGame creates a new game in the idle state
func NewGame(roomCode string, prompts *PromptGenerator) *Game {
	if prompts == nil {
		prompts = NewPromptGenerator(nil, nil, nil)
	}
	return &Game{
		RoomCode:  roomCode,
		Round:     1,
		State:     StateIdle,
		Roster:    NewRoster(),
		CreatedAt: time.Now(),
		prompts:   prompts,
	}
}

// AddPlayer adds a player to the game. The first player becomes the admin.
func (g *Game) AddPlayer(name, connectionID string) (*Player, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	if g.Roster.Exists(name) {
		return nil, ErrPlayerAlreadyExists
	}

	player := NewPlayer(name, connectionID, g.Roster.IsEmpty())
	g.Roster.Add(player)

	return player, nil
}

// GetPlayer returns a player by name
func (g *Game) GetPlayer(name string) (*Player, error) {
	player, ok := g.Roster.Get(name)
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return player, nil
}

// PlayerExists checks if a player with the given name is in the game
func (g *Game) PlayerExists(name string) bool {
	return g.Roster.Exists(name)
}

// RemovePlayer removes a player by name
func (g *Game) RemovePlayer(name string) (*Player, error) {
	removed, ok := g.Roster.RemoveByName(name)
	if !ok {
		return nil, ErrPlayerNotFound
	}
	g.recheck()
	return removed, nil
}

// RemoveConnection removes the player bound to a connection
func (g *Game) RemoveConnection(connectionID string) (*Player, error) {
	removed, ok := g.Roster.RemoveByConnection(connectionID)
	if !ok {
		return nil, ErrPlayerNotFound
	}
	g.recheck()
	return removed, nil
}

// IsEmpty returns true once the last player has left
func (g *Game) IsEmpty() bool {
	return g.Roster.IsEmpty()
}

// IsAdmin checks if the given connection belongs to the admin
func (g *Game) IsAdmin(connectionID string) bool {
	admin, ok := g.Roster.Admin()
	return ok && connectionID != "" && admin.ConnectionID == connectionID
}

// ToggleReady flips a player's ready flag and starts writing once everyone is ready
func (g *Game) ToggleReady(name string) error {
	if g.State != StateIdle {
		return ErrInvalidPhase
	}

	if !g.Roster.ToggleReady(name, false) {
		return ErrPlayerNotFound
	}

	g.checkAllReady()
	return nil
}

// SubmitWord records a player's completion and finishes the round once
// everyone has submitted. A player may replace their own word until then.
func (g *Game) SubmitWord(name, word string) error {
	if g.State != StateWriting {
		return ErrInvalidPhase
	}

	if err := ValidateWord(word); err != nil {
		return err
	}

	player, err := g.GetPlayer(name)
	if err != nil {
		return err
	}

	player.Submission = word
	g.checkAllSubmitted()

	return nil
}

// SkipPlayer lets the admin move the round along without the target.
// While idle the target is readied; while writing the target gets the
// skip marker unless they already submitted a word.
func (g *Game) SkipPlayer(callerConnectionID, targetName string) error {
	if !g.IsAdmin(callerConnectionID) {
		return ErrNotAdmin
	}

	target, err := g.GetPlayer(targetName)
	if err != nil {
		return err
	}

	switch g.State {
	case StateIdle:
		g.Roster.ToggleReady(target.Name, true)
		g.checkAllReady()
	case StateWriting:
		if target.HasRealSubmission() {
			return ErrAlreadySubmitted
		}
		target.Submission = SkipMarker
		g.checkAllSubmitted()
	default:
		return ErrInvalidPhase
	}

	return nil
}

// KickPlayer lets the admin remove a player in any state
func (g *Game) KickPlayer(callerConnectionID, targetName string) (*Player, error) {
	if !g.IsAdmin(callerConnectionID) {
		return nil, ErrNotAdmin
	}
	return g.RemovePlayer(targetName)
}

// GameSnapshot is the public view of the game broadcast to the room
type GameSnapshot struct {
	Round       int    `json:"round"`
	State       State  `json:"state"`
	CurrentStem string `json:"currentStem"`
}

// Snapshot returns the current public game state
func (g *Game) Snapshot() GameSnapshot {
	return GameSnapshot{
		Round:       g.Round,
		State:       g.State,
		CurrentStem: g.CurrentStem,
	}
}

// PlayerSnapshots returns the public view of all players in join order
func (g *Game) PlayerSnapshots() []PlayerSnapshot {
	return g.Roster.Snapshots()
}

// recheck re-evaluates the current state's exit condition after a departure
func (g *Game) recheck() {
	switch g.State {
	case StateIdle:
		g.checkAllReady()
	case StateWriting:
		g.checkAllSubmitted()
	}
}
