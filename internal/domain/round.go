package domain

// checkAllReady starts the writing phase if every player is ready.
// It is a no-op otherwise, so it is safe to call after any change.
func (g *Game) checkAllReady() bool {
	if g.State != StateIdle || g.Roster.IsEmpty() || !g.Roster.AllReady() {
		return false
	}
	return g.startWriting() == nil
}

// checkAllSubmitted completes the round if every player has submitted
func (g *Game) checkAllSubmitted() bool {
	if g.State != StateWriting || g.Roster.IsEmpty() || !g.Roster.AllSubmitted() {
		return false
	}
	return g.completeRound() == nil
}

// startWriting issues a new stem
func (g *Game) startWriting() error {
	if !g.State.CanTransitionTo(StateWriting) {
		return ErrInvalidTransition
	}

	g.Roster.ClearReady()
	g.CurrentStem, g.BlankIsSuffix = g.prompts.Next()
	g.State = StateWriting

	return nil
}

// completeRound scores the submissions, archives them and returns to idle
func (g *Game) completeRound() error {
	if !g.State.CanTransitionTo(StateIdle) {
		return ErrInvalidTransition
	}

	players := g.Roster.Players()
	deltas := ScoreRound(players)

	for i, p := range players {
		p.Score += deltas[i]

		// Skipped players keep an empty record so the room can show the stem
		submission := p.Submission
		if submission == SkipMarker {
			submission = ""
		}
		p.LastSubmission = NewLastSubmission(g.CurrentStem, submission, g.BlankIsSuffix)

		p.ResetForNewRound()
	}

	g.Round++
	g.State = StateIdle

	return nil
}
