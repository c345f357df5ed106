package domain

// Roster is the ordered list of players in one room. Order is join order
// and decides admin succession.
type Roster struct {
	players []*Player
}

// NewRoster creates an empty roster
func NewRoster() *Roster {
	return &Roster{players: make([]*Player, 0)}
}

// Len returns the number of players
func (r *Roster) Len() int {
	return len(r.players)
}

// IsEmpty returns true if no players remain
func (r *Roster) IsEmpty() bool {
	return len(r.players) == 0
}

// Players returns the players in join order. The slice must not be modified.
func (r *Roster) Players() []*Player {
	return r.players
}

// Add appends a player to the end of the roster
func (r *Roster) Add(p *Player) {
	r.players = append(r.players, p)
}

// Get returns a player by name (case-insensitive, trimmed)
func (r *Roster) Get(name string) (*Player, bool) {
	i := r.indexByName(name)
	if i < 0 {
		return nil, false
	}
	return r.players[i], true
}

// GetByConnection returns the player bound to a connection
func (r *Roster) GetByConnection(connectionID string) (*Player, bool) {
	i := r.indexByConnection(connectionID)
	if i < 0 {
		return nil, false
	}
	return r.players[i], true
}

// Exists checks if a player with the given name is in the roster
func (r *Roster) Exists(name string) bool {
	return r.indexByName(name) >= 0
}

// Admin returns the current admin, if any
func (r *Roster) Admin() (*Player, bool) {
	for _, p := range r.players {
		if p.IsAdmin {
			return p, true
		}
	}
	return nil, false
}

// RemoveByName removes a player by name. Missing names are ignored.
func (r *Roster) RemoveByName(name string) (*Player, bool) {
	return r.removeAt(r.indexByName(name))
}

// RemoveByConnection removes the player bound to a connection. Missing
// connections are ignored.
func (r *Roster) RemoveByConnection(connectionID string) (*Player, bool) {
	return r.removeAt(r.indexByConnection(connectionID))
}

// ToggleReady flips a player's ready flag. With forceReady the flag is only
// ever set, never cleared. Returns false if the player is unknown.
func (r *Roster) ToggleReady(name string, forceReady bool) bool {
	p, ok := r.Get(name)
	if !ok {
		return false
	}
	if forceReady {
		p.Ready = true
	} else {
		p.Ready = !p.Ready
	}
	return true
}

// AllReady is true iff every player is ready (vacuously true when empty)
func (r *Roster) AllReady() bool {
	for _, p := range r.players {
		if !p.Ready {
			return false
		}
	}
	return true
}

// AllSubmitted is true iff every player has a non-empty submission
func (r *Roster) AllSubmitted() bool {
	for _, p := range r.players {
		if !p.HasSubmitted() {
			return false
		}
	}
	return true
}

// ClearReady resets every ready flag
func (r *Roster) ClearReady() {
	for _, p := range r.players {
		p.Ready = false
	}
}

// Snapshots returns the public view of every player in join order
func (r *Roster) Snapshots() []PlayerSnapshot {
	out := make([]PlayerSnapshot, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p.ToSnapshot())
	}
	return out
}

func (r *Roster) removeAt(i int) (*Player, bool) {
	if i < 0 {
		return nil, false
	}

	removed := r.players[i]
	r.players = append(r.players[:i], r.players[i+1:]...)

	// Admin passes to the earliest-joined remaining player
	if removed.IsAdmin && len(r.players) > 0 {
		removed.IsAdmin = false
		r.players[0].IsAdmin = true
	}

	return removed, true
}

func (r *Roster) indexByName(name string) int {
	key := NormalizeName(name)
	for i, p := range r.players {
		if p.Name == key {
			return i
		}
	}
	return -1
}

func (r *Roster) indexByConnection(connectionID string) int {
	if connectionID == "" {
		return -1
	}
	for i, p := range r.players {
		if p.ConnectionID == connectionID {
			return i
		}
	}
	return -1
}
