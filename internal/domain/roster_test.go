package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoster(names ...string) *Roster {
	r := NewRoster()
	for i, name := range names {
		r.Add(NewPlayer(name, "conn-"+NormalizeName(name), i == 0))
	}
	return r
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "alice", NormalizeName("Alice "))
	assert.Equal(t, "alice", NormalizeName("  ALICE"))
	assert.Equal(t, NormalizeName("alice"), NormalizeName("Alice "))
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"too short", "ab", false},
		{"short after trim", "  ab  ", false},
		{"minimum", "abc", true},
		{"maximum", "abcdefghijklmnopqr", true},
		{"too long", "abcdefghijklmnopqrs", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidName)
			}
		})
	}
}

func TestRoster_LookupIsCaseInsensitive(t *testing.T) {
	r := newTestRoster("alice", "bob")

	assert.True(t, r.Exists("Alice "))
	assert.True(t, r.Exists("BOB"))
	assert.False(t, r.Exists("carol"))

	p, ok := r.Get(" ALICE")
	require.True(t, ok)
	assert.Equal(t, "alice", p.Name)
}

func TestRoster_AdminSuccessionFollowsJoinOrder(t *testing.T) {
	r := newTestRoster("ann", "bob", "cara")

	admin, ok := r.Admin()
	require.True(t, ok)
	assert.Equal(t, "ann", admin.Name)

	removed, ok := r.RemoveByName("ann")
	require.True(t, ok)
	assert.False(t, removed.IsAdmin)

	admin, ok = r.Admin()
	require.True(t, ok)
	assert.Equal(t, "bob", admin.Name)

	_, ok = r.RemoveByConnection("conn-bob")
	require.True(t, ok)

	admin, ok = r.Admin()
	require.True(t, ok)
	assert.Equal(t, "cara", admin.Name)
	assert.Equal(t, 1, r.Len())
}

func TestRoster_RemoveNonAdminKeepsAdmin(t *testing.T) {
	r := newTestRoster("ann", "bob", "cara")

	_, ok := r.RemoveByName("bob")
	require.True(t, ok)

	admin, ok := r.Admin()
	require.True(t, ok)
	assert.Equal(t, "ann", admin.Name)

	count := 0
	for _, p := range r.Players() {
		if p.IsAdmin {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestRoster_RemoveMissingIsNoop(t *testing.T) {
	r := newTestRoster("ann", "bob")

	_, ok := r.RemoveByName("zed")
	assert.False(t, ok)

	_, ok = r.RemoveByConnection("nope")
	assert.False(t, ok)

	_, ok = r.RemoveByConnection("")
	assert.False(t, ok)

	assert.Equal(t, 2, r.Len())
}

func TestRoster_RemoveLastPlayer(t *testing.T) {
	r := newTestRoster("ann")

	_, ok := r.RemoveByName("ANN")
	require.True(t, ok)

	assert.True(t, r.IsEmpty())
	_, ok = r.Admin()
	assert.False(t, ok)
}

func TestRoster_ToggleReady(t *testing.T) {
	r := newTestRoster("ann", "bob")

	assert.True(t, r.ToggleReady("ann", false))
	p, _ := r.Get("ann")
	assert.True(t, p.Ready)

	assert.True(t, r.ToggleReady("ann", false))
	assert.False(t, p.Ready)

	// forced readiness never clears the flag
	assert.True(t, r.ToggleReady("ann", true))
	assert.True(t, p.Ready)
	assert.True(t, r.ToggleReady("ann", true))
	assert.True(t, p.Ready)

	assert.False(t, r.ToggleReady("zed", false))
}

func TestRoster_AllReady(t *testing.T) {
	assert.True(t, NewRoster().AllReady(), "empty roster is vacuously ready")

	r := newTestRoster("ann", "bob")
	assert.False(t, r.AllReady())

	r.ToggleReady("ann", false)
	assert.False(t, r.AllReady())

	r.ToggleReady("bob", false)
	assert.True(t, r.AllReady())

	r.ClearReady()
	assert.False(t, r.AllReady())
}

func TestRoster_AllSubmitted(t *testing.T) {
	r := newTestRoster("ann", "bob")
	assert.False(t, r.AllSubmitted())

	ann, _ := r.Get("ann")
	bob, _ := r.Get("bob")

	ann.Submission = "cat"
	assert.False(t, r.AllSubmitted())

	bob.Submission = SkipMarker
	assert.True(t, r.AllSubmitted())
}

func TestRoster_SnapshotsHideSubmission(t *testing.T) {
	r := newTestRoster("ann")
	ann, _ := r.Get("ann")
	ann.Submission = "secret"
	ann.Score = 4

	snaps := r.Snapshots()
	require.Len(t, snaps, 1)
	assert.Equal(t, PlayerSnapshot{Name: "ann", Score: 4, IsAdmin: true}, snaps[0])
}
