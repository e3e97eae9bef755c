package socket

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DedS3t/monopoly-server/app/engine"
	"github.com/DedS3t/monopoly-server/app/models"
	"github.com/DedS3t/monopoly-server/pkg"
	"github.com/DedS3t/monopoly-server/platform/board"
	"github.com/DedS3t/monopoly-server/platform/rooms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emitted struct {
	event   string
	payload string
}

type fakeConn struct {
	id    string
	ctx   interface{}
	rooms map[string]bool
	emits []emitted
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id, rooms: map[string]bool{}}
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Emit(event string, v ...interface{}) {
	payload := ""
	if len(v) > 0 {
		payload, _ = v[0].(string)
	}
	c.emits = append(c.emits, emitted{event: event, payload: payload})
}

func (c *fakeConn) Join(room string)         { c.rooms[room] = true }
func (c *fakeConn) Leave(room string)        { delete(c.rooms, room) }
func (c *fakeConn) Context() interface{}     { return c.ctx }
func (c *fakeConn) SetContext(v interface{}) { c.ctx = v }

func (c *fakeConn) last(event string) (string, bool) {
	for i := len(c.emits) - 1; i >= 0; i-- {
		if c.emits[i].event == event {
			return c.emits[i].payload, true
		}
	}
	return "", false
}

type fakeBroadcaster struct {
	mu   sync.Mutex
	sent map[string][]emitted
}

func (b *fakeBroadcaster) BroadcastToRoom(_ string, room, event string, args ...interface{}) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	payload, _ := args[0].(string)
	b.sent[room] = append(b.sent[room], emitted{event: event, payload: payload})
	return true
}

func (b *fakeBroadcaster) events(room string) []string {
	var out []string
	for _, e := range b.sent[room] {
		out = append(out, e.event)
	}
	return out
}

func (b *fakeBroadcaster) lastState(t *testing.T, room string) models.Snapshot {
	t.Helper()
	for i := len(b.sent[room]) - 1; i >= 0; i-- {
		if b.sent[room][i].event == "state" {
			var snap models.Snapshot
			require.NoError(t, json.Unmarshal([]byte(b.sent[room][i].payload), &snap))
			return snap
		}
	}
	t.Fatalf("no state broadcast for %s", room)
	return models.Snapshot{}
}

type loadedDice struct{ face int }

func (d loadedDice) Intn(int) int                { return d.face - 1 }
func (d loadedDice) Shuffle(int, func(i, j int)) {}

func newTestHandler(t *testing.T, cfg HandlerConfig) (*Handler, *fakeBroadcaster) {
	t.Helper()
	catalog, err := board.LoadCatalog()
	require.NoError(t, err)
	n := 0
	manager := rooms.NewManager(catalog,
		rooms.WithRoomIds(func() string { n++; return fmt.Sprintf("ROOM%d", n) }),
		rooms.WithGameOptions(engine.WithRand(loadedDice{face: 1})),
	)
	out := &fakeBroadcaster{sent: map[string][]emitted{}}
	if cfg.Secret == "" {
		cfg.Secret = "secret"
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = time.Hour
	}
	if cfg.ActionsPerSecond == 0 {
		cfg.ActionsPerSecond = 1000
		cfg.ActionBurst = 1000
	}
	return NewHandler(manager, out, cfg), out
}

func connect(t *testing.T, h *Handler, id string) *fakeConn {
	t.Helper()
	c := newFakeConn(id)
	require.NoError(t, h.Connect(c))
	return c
}

func joined(t *testing.T, c *fakeConn) joinedDto {
	t.Helper()
	payload, ok := c.last("joined")
	require.True(t, ok, "expected a joined event")
	var dto joinedDto
	require.NoError(t, json.Unmarshal([]byte(payload), &dto))
	return dto
}

func TestCreateAndJoinRoom(t *testing.T) {
	h, out := newTestHandler(t, HandlerConfig{})

	alice := connect(t, h, "c1")
	h.CreateRoom(alice, `{"name":"Alice","settings":{"startingCash":1000}}`)
	seat := joined(t, alice)
	assert.Equal(t, "ROOM1", seat.RoomId)
	assert.NotEmpty(t, seat.PlayerId)
	assert.True(t, alice.rooms["ROOM1"])

	claims, err := pkg.ParsePlayerToken("secret", seat.Token)
	require.NoError(t, err)
	assert.Equal(t, seat.PlayerId, claims.PlayerId)

	bob := connect(t, h, "c2")
	h.JoinRoom(bob, `{"room_id":"ROOM1","name":"Bob"}`)
	joined(t, bob)

	snap := out.lastState(t, "ROOM1")
	require.Len(t, snap.Players, 2)
	assert.Equal(t, 1000, snap.Players[1].Money)
	assert.Contains(t, out.events("ROOM1"), "log")
}

func TestJoinUnknownRoom(t *testing.T) {
	h, _ := newTestHandler(t, HandlerConfig{})
	c := connect(t, h, "c1")

	h.JoinRoom(c, `{"room_id":"NOPE","name":"Bob"}`)
	msg, ok := c.last("error-message")
	require.True(t, ok)
	assert.Contains(t, msg, "room not found")

	h.JoinRoom(c, `not json`)
	msg, _ = c.last("error-message")
	assert.Equal(t, errBadPayload.Error(), msg)
}

func TestActionsRequireASeat(t *testing.T) {
	h, _ := newTestHandler(t, HandlerConfig{})
	c := connect(t, h, "c1")

	h.RollDice(c)
	msg, ok := c.last("error-message")
	require.True(t, ok)
	assert.Equal(t, errNotSeated.Error(), msg)
}

func TestPlayingATurn(t *testing.T) {
	h, out := newTestHandler(t, HandlerConfig{})
	alice := connect(t, h, "c1")
	h.CreateRoom(alice, `{"name":"Alice"}`)
	bob := connect(t, h, "c2")
	h.JoinRoom(bob, `{"room_id":"ROOM1","name":"Bob"}`)

	h.StartGame(bob)
	msg, _ := bob.last("error-message")
	assert.Contains(t, msg, engine.ErrUnauthorized.Error())

	h.StartGame(alice)
	require.Equal(t, models.StatusActive, out.lastState(t, "ROOM1").Status)

	// 1+1 on the classic board lands on the first property.
	h.RollDice(alice)
	events := out.events("ROOM1")
	assert.Contains(t, events, "dice-rolled")
	snap := out.lastState(t, "ROOM1")
	tileId, ok := snap.Turn.Pending.Purchase()
	require.True(t, ok)

	h.EndTurn(alice)
	msg, _ = alice.last("error-message")
	assert.Contains(t, msg, engine.ErrPendingDecision.Error())

	h.BuyProperty(alice, fmt.Sprintf(`{"property_id":%q}`, tileId))
	snap = out.lastState(t, "ROOM1")
	assert.Equal(t, snap.Players[0].Id, snap.Tiles[2].OwnerId)

	h.EndTurn(alice)
	snap = out.lastState(t, "ROOM1")
	assert.Equal(t, snap.Players[1].Id, snap.Turn.CurrentPlayerId)

	h.PayBail(bob)
	msg, _ = bob.last("error-message")
	assert.Contains(t, msg, engine.ErrNotInJail.Error())

	h.FinishGame(alice)
	assert.Equal(t, models.StatusFinished, out.lastState(t, "ROOM1").Status)
}

func TestDisconnectAndReconnect(t *testing.T) {
	h, out := newTestHandler(t, HandlerConfig{})
	alice := connect(t, h, "c1")
	h.CreateRoom(alice, `{"name":"Alice"}`)
	seat := joined(t, alice)

	h.Disconnect(alice, "transport close")
	snap := out.lastState(t, "ROOM1")
	assert.True(t, snap.Players[0].Disconnected)

	again := connect(t, h, "c3")
	h.Reconnect(again, fmt.Sprintf(`{"room_id":"ROOM1","player_id":%q,"token":"forged"}`, seat.PlayerId))
	msg, _ := again.last("error-message")
	assert.Equal(t, errSeatInvalid.Error(), msg)

	h.Reconnect(again, fmt.Sprintf(`{"room_id":"ROOM1","player_id":%q,"token":%q}`, seat.PlayerId, seat.Token))
	assert.Equal(t, seat.PlayerId, joined(t, again).PlayerId)
	assert.False(t, out.lastState(t, "ROOM1").Players[0].Disconnected)
}

func TestSwitchingRoomsLeavesTheOldSeat(t *testing.T) {
	h, out := newTestHandler(t, HandlerConfig{})
	alice := connect(t, h, "c1")
	h.CreateRoom(alice, `{"name":"Alice"}`)
	h.CreateRoom(alice, `{"name":"Alice"}`)

	assert.False(t, alice.rooms["ROOM1"])
	assert.True(t, alice.rooms["ROOM2"])
	assert.True(t, out.lastState(t, "ROOM1").Players[0].Disconnected)
}

func TestActionsAreRateLimited(t *testing.T) {
	h, _ := newTestHandler(t, HandlerConfig{ActionsPerSecond: 0.001, ActionBurst: 1})
	c := connect(t, h, "c1")

	h.CreateRoom(c, `{"name":"Alice"}`)
	joined(t, c)

	h.EndTurn(c)
	msg, _ := c.last("error-message")
	assert.Equal(t, errSlowDown.Error(), msg)
}

func TestMalformedPropertyRequestsAreRateLimited(t *testing.T) {
	h, _ := newTestHandler(t, HandlerConfig{ActionsPerSecond: 0.001, ActionBurst: 2})
	c := connect(t, h, "c1")

	h.BuyProperty(c, `not json`)
	msg, _ := c.last("error-message")
	assert.Equal(t, errBadPayload.Error(), msg)

	h.UpgradeProperty(c, `not json`)
	msg, _ = c.last("error-message")
	assert.Equal(t, errBadPayload.Error(), msg)

	h.BuyProperty(c, `not json`)
	msg, _ = c.last("error-message")
	assert.Equal(t, errSlowDown.Error(), msg)

	h.UpgradeProperty(c, ``)
	msg, _ = c.last("error-message")
	assert.Equal(t, errSlowDown.Error(), msg)
}

func TestReconnectRejectsTokensFromAnotherKey(t *testing.T) {
	h, out := newTestHandler(t, HandlerConfig{Secret: "server-key"})
	host := connect(t, h, "c1")
	h.CreateRoom(host, `{"name":"Alice"}`)
	hostId := joined(t, host).PlayerId

	intruder := connect(t, h, "c2")
	forged, err := pkg.IssuePlayerToken("secret", time.Hour, "ROOM1", hostId)
	require.NoError(t, err)
	h.Reconnect(intruder, fmt.Sprintf(`{"room_id":"ROOM1","player_id":%q,"token":%q}`, hostId, forged))
	msg, _ := intruder.last("error-message")
	assert.Equal(t, errSeatInvalid.Error(), msg)

	h.StartGame(intruder)
	msg, _ = intruder.last("error-message")
	assert.Equal(t, errNotSeated.Error(), msg)
	assert.Equal(t, models.StatusLobby, out.lastState(t, "ROOM1").Status)
}
