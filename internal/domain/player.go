package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Name length bounds, counted in runes after normalization
const (
	MinNameLength = 3
	MaxNameLength = 18
)

// Player represents a player in a room
type Player struct {
	Name           string          `json:"name"`
	ConnectionID   string          `json:"-"`
	Submission     string          `json:"-"`
	LastSubmission *LastSubmission `json:"lastSubmission"`
	Score          int             `json:"score"`
	Ready          bool            `json:"ready"`
	IsAdmin        bool            `json:"isAdmin"`
	JoinedAt       time.Time       `json:"joinedAt"`
}

// NewPlayer creates a new player. The name is stored in its normalized form.
func NewPlayer(name, connectionID string, isAdmin bool) *Player {
	return &Player{
		Name:         NormalizeName(name),
		ConnectionID: connectionID,
		IsAdmin:      isAdmin,
		JoinedAt:     time.Now(),
	}
}

// NormalizeName returns the canonical lookup key for a player name
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidateName checks the normalized length of a player name
func ValidateName(name string) error {
	n := utf8.RuneCountInString(NormalizeName(name))
	if n < MinNameLength || n > MaxNameLength {
		return ErrInvalidName
	}
	return nil
}

// HasSubmitted returns true if the player has any submission this round,
// including a forced skip.
func (p *Player) HasSubmitted() bool {
	return p.Submission != ""
}

// HasRealSubmission returns true if the player submitted a word themselves
func (p *Player) HasRealSubmission() bool {
	return p.HasSubmitted() && p.Submission != SkipMarker
}

// ResetForNewRound clears the per-round state
func (p *Player) ResetForNewRound() {
	p.Submission = ""
	p.Ready = false
}

// PlayerSnapshot is the public view of a player broadcast to the room
type PlayerSnapshot struct {
	Name           string          `json:"name"`
	Score          int             `json:"score"`
	Ready          bool            `json:"ready"`
	IsAdmin        bool            `json:"isAdmin"`
	LastSubmission *LastSubmission `json:"lastSubmission"`
}

// ToSnapshot converts a Player to PlayerSnapshot (without the pending submission)
func (p *Player) ToSnapshot() PlayerSnapshot {
	var last *LastSubmission
	if p.LastSubmission != nil {
		copied := *p.LastSubmission
		last = &copied
	}
	return PlayerSnapshot{
		Name:           p.Name,
		Score:          p.Score,
		Ready:          p.Ready,
		IsAdmin:        p.IsAdmin,
		LastSubmission: last,
	}
}
