package app

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordmatch/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRegistry(t *testing.T, metrics *Metrics) *Registry {
	t.Helper()
	return NewRegistry(RegistryConfig{
		Words:   &WordLists{Prefixes: []string{"over"}, Suffixes: []string{"ness"}},
		Metrics: metrics,
	}, discardLogger())
}

// eventFor returns the single event of a type addressed to a connection
func eventFor(t *testing.T, events []*domain.GameEvent, connectionID string, eventType domain.EventType) *domain.GameEvent {
	t.Helper()
	var found *domain.GameEvent
	for _, e := range events {
		if e.ConnectionID == connectionID && e.Type == eventType {
			require.Nil(t, found, "more than one %s for %s", eventType, connectionID)
			found = e
		}
	}
	require.NotNil(t, found, "no %s for %s", eventType, connectionID)
	return found
}

func recipients(events []*domain.GameEvent, eventType domain.EventType) []string {
	var out []string
	for _, e := range events {
		if e.Type == eventType {
			out = append(out, e.ConnectionID)
		}
	}
	return out
}

func createRoom(t *testing.T, r *Registry, connectionID, name string) string {
	t.Helper()
	events := r.Handle(connectionID, CreateGame{PlayerName: name})
	created := eventFor(t, events, connectionID, domain.EventGameCreated)
	return created.Payload.(*domain.GameCreatedPayload).RoomCode
}

func lastUpdate(t *testing.T, events []*domain.GameEvent, connectionID string) *domain.UpdateGameDataPayload {
	t.Helper()
	return eventFor(t, events, connectionID, domain.EventUpdateGameData).Payload.(*domain.UpdateGameDataPayload)
}

func TestRegistry_CreateGame(t *testing.T) {
	r := newTestRegistry(t, nil)

	events := r.Handle("conn-ann", CreateGame{PlayerName: " Ann "})

	created := eventFor(t, events, "conn-ann", domain.EventGameCreated)
	payload := created.Payload.(*domain.GameCreatedPayload)
	assert.Equal(t, "ann", payload.PlayerName)
	assert.Len(t, payload.RoomCode, DefaultRoomCodeLength)
	for _, ch := range payload.RoomCode {
		assert.True(t, strings.ContainsRune(RoomCodeChars, ch))
	}
	require.Len(t, payload.Players, 1)
	assert.True(t, payload.Players[0].IsAdmin)

	assert.True(t, r.RoomExists(strings.ToLower(payload.RoomCode)))
	code, ok := r.RoomOf("conn-ann")
	require.True(t, ok)
	assert.Equal(t, payload.RoomCode, code)
	assert.Equal(t, Stats{Rooms: 1, Players: 1, Connections: 1}, r.Stats())
}

func TestRegistry_CreateGameInvalidName(t *testing.T) {
	r := newTestRegistry(t, nil)

	events := r.Handle("conn-x", CreateGame{PlayerName: "xy"})

	require.Len(t, events, 1)
	assert.Equal(t, domain.EventInvalidPlayerName, events[0].Type)
	assert.Equal(t, Stats{}, r.Stats())
}

func TestRegistry_JoinGame(t *testing.T) {
	r := newTestRegistry(t, nil)
	code := createRoom(t, r, "conn-ann", "ann")

	events := r.Handle("conn-bob", JoinGame{RoomCode: strings.ToLower(code), PlayerName: "Bob"})

	joined := eventFor(t, events, "conn-bob", domain.EventJoinGame)
	payload := joined.Payload.(*domain.JoinGamePayload)
	assert.Equal(t, code, payload.RoomCode)
	assert.Equal(t, "bob", payload.PlayerName)
	assert.Len(t, payload.Players, 2)

	assert.Equal(t, []string{"conn-bob"}, recipients(events, domain.EventJoinGame))
	assert.ElementsMatch(t, []string{"conn-ann", "conn-bob"}, recipients(events, domain.EventUpdateGameData))
}

func TestRegistry_JoinGameRejections(t *testing.T) {
	r := newTestRegistry(t, nil)
	code := createRoom(t, r, "conn-ann", "ann")

	tests := []struct {
		name     string
		cmd      JoinGame
		expected domain.EventType
	}{
		{"unknown room", JoinGame{RoomCode: "ZZZZZZ", PlayerName: "bob"}, domain.EventRoomDoesNotExist},
		{"duplicate name", JoinGame{RoomCode: code, PlayerName: "ANN "}, domain.EventPlayerAlreadyExists},
		{"short name", JoinGame{RoomCode: code, PlayerName: "bo"}, domain.EventInvalidPlayerName},
		{"long name", JoinGame{RoomCode: code, PlayerName: strings.Repeat("b", 19)}, domain.EventInvalidPlayerName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := r.Handle("conn-bob", tt.cmd)

			require.Len(t, events, 1)
			assert.Equal(t, tt.expected, events[0].Type)
			assert.Equal(t, "conn-bob", events[0].ConnectionID)

			_, bound := r.RoomOf("conn-bob")
			assert.False(t, bound)
			game, _ := r.Game(code)
			assert.Equal(t, 1, game.Roster.Len())
		})
	}
}

func TestRegistry_FullRound(t *testing.T) {
	r := newTestRegistry(t, nil)
	code := createRoom(t, r, "conn-ann", "ann")
	r.Handle("conn-bob", JoinGame{RoomCode: code, PlayerName: "bob"})
	r.Handle("conn-cara", JoinGame{RoomCode: code, PlayerName: "cara"})

	r.Handle("conn-ann", ToggleReady{RoomCode: code, PlayerName: "ann"})
	r.Handle("conn-bob", ToggleReady{RoomCode: code, PlayerName: "bob"})
	events := r.Handle("conn-cara", ToggleReady{RoomCode: code, PlayerName: "cara"})

	update := lastUpdate(t, events, "conn-ann")
	assert.Equal(t, domain.StateWriting, update.Game.State)
	assert.Equal(t, 1, update.Game.Round)
	assert.Contains(t, update.Game.CurrentStem, domain.BlankMarker)

	r.Handle("conn-ann", SubmitWord{RoomCode: code, PlayerName: "ann", Word: "CAT"})
	r.Handle("conn-bob", SubmitWord{RoomCode: code, PlayerName: "bob", Word: "CAT"})
	events = r.Handle("conn-cara", SubmitWord{RoomCode: code, PlayerName: "cara", Word: "DOG"})

	assert.ElementsMatch(t, []string{"conn-ann", "conn-bob", "conn-cara"}, recipients(events, domain.EventUpdateGameData))

	update = lastUpdate(t, events, "conn-cara")
	assert.Equal(t, domain.StateIdle, update.Game.State)
	assert.Equal(t, 2, update.Game.Round)

	scores := map[string]int{}
	for _, p := range update.Players {
		scores[p.Name] = p.Score
		assert.False(t, p.Ready)
		require.NotNil(t, p.LastSubmission)
	}
	assert.Equal(t, map[string]int{"ann": 3, "bob": 3, "cara": 0}, scores)
}

func TestRegistry_StaleCommandsAreIgnored(t *testing.T) {
	r := newTestRegistry(t, nil)
	code := createRoom(t, r, "conn-ann", "ann")

	assert.Empty(t, r.Handle("conn-ann", ToggleReady{RoomCode: "NOPE00", PlayerName: "ann"}))
	assert.Empty(t, r.Handle("conn-ann", ToggleReady{RoomCode: code, PlayerName: "zed"}))
	assert.Empty(t, r.Handle("conn-ann", SubmitWord{RoomCode: code, PlayerName: "ann", Word: "cat"}))
	assert.Empty(t, r.Handle("conn-ann", KickPlayer{RoomCode: "NOPE00", TargetName: "ann"}))
}

func TestRegistry_KickPlayer(t *testing.T) {
	r := newTestRegistry(t, nil)
	code := createRoom(t, r, "conn-ann", "ann")
	r.Handle("conn-bob", JoinGame{RoomCode: code, PlayerName: "bob"})
	r.Handle("conn-cara", JoinGame{RoomCode: code, PlayerName: "cara"})

	// non-admin callers are silently ignored
	assert.Empty(t, r.Handle("conn-bob", KickPlayer{RoomCode: code, TargetName: "cara"}))

	events := r.Handle("conn-ann", KickPlayer{RoomCode: code, TargetName: "Bob"})

	assert.ElementsMatch(t, []string{"conn-ann", "conn-cara", "conn-bob"}, recipients(events, domain.EventUpdateGameData))
	assert.Equal(t, "bob", lastUpdate(t, events, "conn-bob").KickedName)
	assert.Equal(t, "bob", lastUpdate(t, events, "conn-cara").KickedName)
	assert.Len(t, lastUpdate(t, events, "conn-ann").Players, 2)

	_, bound := r.RoomOf("conn-bob")
	assert.False(t, bound)

	// a stale command from the kicked player changes nothing
	assert.Empty(t, r.Handle("conn-bob", ToggleReady{RoomCode: code, PlayerName: "bob"}))
	assert.Empty(t, r.Handle("conn-bob", Disconnect{}))
}

func TestRegistry_KickLastPlayerDeletesRoom(t *testing.T) {
	r := newTestRegistry(t, nil)
	code := createRoom(t, r, "conn-ann", "ann")

	events := r.Handle("conn-ann", KickPlayer{RoomCode: code, TargetName: "ann"})

	assert.Equal(t, []string{"conn-ann"}, recipients(events, domain.EventUpdateGameData))
	assert.False(t, r.RoomExists(code))
}

func TestRegistry_SkipPlayer(t *testing.T) {
	r := newTestRegistry(t, nil)
	code := createRoom(t, r, "conn-ann", "ann")
	r.Handle("conn-bob", JoinGame{RoomCode: code, PlayerName: "bob"})

	assert.Empty(t, r.Handle("conn-bob", SkipPlayer{RoomCode: code, TargetName: "ann"}))

	r.Handle("conn-ann", ToggleReady{RoomCode: code, PlayerName: "ann"})
	events := r.Handle("conn-ann", SkipPlayer{RoomCode: code, TargetName: "bob"})
	assert.Equal(t, domain.StateWriting, lastUpdate(t, events, "conn-bob").Game.State)

	r.Handle("conn-ann", SubmitWord{RoomCode: code, PlayerName: "ann", Word: "cat"})
	events = r.Handle("conn-ann", SkipPlayer{RoomCode: code, TargetName: "bob"})

	update := lastUpdate(t, events, "conn-ann")
	assert.Equal(t, domain.StateIdle, update.Game.State)
	assert.Equal(t, 2, update.Game.Round)
	for _, p := range update.Players {
		assert.Zero(t, p.Score)
	}
}

func TestRegistry_DisconnectPassesAdmin(t *testing.T) {
	r := newTestRegistry(t, nil)
	code := createRoom(t, r, "conn-ann", "ann")
	r.Handle("conn-bob", JoinGame{RoomCode: code, PlayerName: "bob"})
	r.Handle("conn-cara", JoinGame{RoomCode: code, PlayerName: "cara"})

	events := r.Handle("conn-ann", Disconnect{})

	assert.ElementsMatch(t, []string{"conn-bob", "conn-cara"}, recipients(events, domain.EventUpdateGameData))
	for _, p := range lastUpdate(t, events, "conn-bob").Players {
		assert.Equal(t, p.Name == "bob", p.IsAdmin)
	}

	r.Handle("conn-bob", Disconnect{})
	assert.True(t, r.RoomExists(code))

	assert.Empty(t, r.Handle("conn-cara", Disconnect{}))
	assert.False(t, r.RoomExists(code))
	assert.Equal(t, Stats{}, r.Stats())
}

func TestRegistry_DisconnectUnboundIsNoop(t *testing.T) {
	r := newTestRegistry(t, nil)
	assert.Empty(t, r.Handle("conn-nobody", Disconnect{}))
}

func TestRegistry_CreateWhileBoundLeavesOldRoom(t *testing.T) {
	r := newTestRegistry(t, nil)
	first := createRoom(t, r, "conn-ann", "ann")
	r.Handle("conn-bob", JoinGame{RoomCode: first, PlayerName: "bob"})

	events := r.Handle("conn-ann", CreateGame{PlayerName: "ann"})

	update := lastUpdate(t, events, "conn-bob")
	require.Len(t, update.Players, 1)
	assert.True(t, update.Players[0].IsAdmin)

	second, ok := r.RoomOf("conn-ann")
	require.True(t, ok)
	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, r.Stats().Rooms)
}

func TestRegistry_JoinWhileBoundSwitchesRooms(t *testing.T) {
	r := newTestRegistry(t, nil)
	first := createRoom(t, r, "conn-ann", "ann")
	second := createRoom(t, r, "conn-bob", "bob")

	r.Handle("conn-ann", JoinGame{RoomCode: second, PlayerName: "ann"})

	assert.False(t, r.RoomExists(first))
	code, _ := r.RoomOf("conn-ann")
	assert.Equal(t, second, code)
}

func TestRegistry_RejoinSameRoomKeepsPlayer(t *testing.T) {
	r := newTestRegistry(t, nil)
	code := createRoom(t, r, "conn-ann", "ann")

	events := r.Handle("conn-ann", JoinGame{RoomCode: code, PlayerName: "ann"})

	eventFor(t, events, "conn-ann", domain.EventJoinGame)
	game, _ := r.Game(code)
	assert.Equal(t, 1, game.Roster.Len())
	assert.True(t, game.IsAdmin("conn-ann"))
}

func TestRegistry_RoomCodeCollisionIsRegenerated(t *testing.T) {
	r := newTestRegistry(t, nil)
	entropy := append(bytes.Repeat([]byte{0}, 12), bytes.Repeat([]byte{1}, 6)...)
	r.entropy = bytes.NewReader(entropy)

	first := createRoom(t, r, "conn-ann", "ann")
	second := createRoom(t, r, "conn-bob", "bob")

	assert.Equal(t, "AAAAAA", first)
	assert.Equal(t, "BBBBBB", second)
}

func TestRegistry_RoomCodeExhausted(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics("test", reg)
	r := newTestRegistry(t, metrics)
	r.entropy = bytes.NewReader(make([]byte, 6*(maxRoomCodeAttempts+1)))

	createRoom(t, r, "conn-ann", "ann")
	events := r.Handle("conn-bob", CreateGame{PlayerName: "bob"})

	assert.Empty(t, events)
	assert.Equal(t, 1, r.Stats().Rooms)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Rejections.WithLabelValues(ReasonCodeExhausted)))
}

func TestRegistry_EntropyFailure(t *testing.T) {
	r := newTestRegistry(t, nil)
	r.entropy = bytes.NewReader(nil)

	assert.Empty(t, r.Handle("conn-ann", CreateGame{PlayerName: "ann"}))
	assert.Zero(t, r.Stats().Rooms)
}
