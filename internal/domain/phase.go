package domain

// State represents the current state of a game
type State string

const (
	StateIdle    State = "IDLE"    // Waiting for every player to ready up
	StateWriting State = "WRITING" // Stem issued, waiting for submissions
)

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// CanTransitionTo checks if a transition from current state to target state is valid
func (s State) CanTransitionTo(target State) bool {
	validTransitions := map[State][]State{
		StateIdle:    {StateWriting},
		StateWriting: {StateIdle},
	}

	allowed, ok := validTransitions[s]
	if !ok {
		return false
	}

	for _, state := range allowed {
		if state == target {
			return true
		}
	}
	return false
}
