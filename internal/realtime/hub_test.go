package realtime

import (
	"context"
	"encoding/json"
	"testing"

	"foodgo/internal/common"
	"foodgo/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeFrame(t *testing.T, raw []byte) Frame {
	t.Helper()
	var f Frame
	require.NoError(t, json.Unmarshal(raw, &f))
	return f
}

func TestHub_ToRoomReachesOnlyMembers(t *testing.T) {
	hub := NewHub()
	inRoom, outside := NewClient("a", 4), NewClient("b", 4)
	hub.Register(inRoom)
	hub.Register(outside)
	room := common.OrderRoom(uuid.New())
	hub.Join(inRoom, room)

	orderID := uuid.New()
	require.NoError(t, hub.ToRoom(context.Background(), room, EventOrderStatus, OrderStatusPayload{ID: orderID, Status: models.OrderStatusAccepted}))

	require.Len(t, inRoom.send, 1)
	assert.Empty(t, outside.send)

	frame := decodeFrame(t, <-inRoom.Send())
	assert.Equal(t, EventOrderStatus, frame.Event)
	var payload OrderStatusPayload
	require.NoError(t, json.Unmarshal(frame.Data, &payload))
	assert.Equal(t, OrderStatusPayload{ID: orderID, Status: models.OrderStatusAccepted}, payload)
}

func TestHub_BroadcastReachesEveryone(t *testing.T) {
	hub := NewHub()
	a, b := NewClient("a", 4), NewClient("b", 4)
	hub.Register(a)
	hub.Register(b)

	require.NoError(t, hub.Broadcast(context.Background(), EventOrderCreated, OrderCreatedPayload{ID: uuid.New()}))
	assert.Len(t, a.send, 1)
	assert.Len(t, b.send, 1)
}

func TestHub_FullBufferDropsFrames(t *testing.T) {
	hub := NewHub()
	slow := NewClient("slow", 2)
	hub.Register(slow)

	delivered := 0
	for i := 0; i < 5; i++ {
		delivered += hub.Deliver(Envelope{Event: EventNotify, Data: json.RawMessage(`{}`)})
	}
	assert.Equal(t, 2, delivered)
	assert.Len(t, slow.send, 2)
}

func TestHub_UnregisterLeavesRoomsAndClosesChannel(t *testing.T) {
	hub := NewHub()
	c := NewClient("a", 4)
	hub.Register(c)
	hub.Join(c, "order:x")
	hub.Join(c, "user:y")
	assert.Equal(t, 1, hub.RoomSize("order:x"))

	hub.Unregister(c)
	hub.Unregister(c)

	assert.Zero(t, hub.RoomSize("order:x"))
	assert.Zero(t, hub.RoomSize("user:y"))
	assert.Zero(t, hub.ClientCount())
	_, open := <-c.Send()
	assert.False(t, open)
	assert.Zero(t, hub.Deliver(Envelope{Room: "order:x", Event: EventNotify, Data: json.RawMessage(`{}`)}))
}

func TestHub_Leave(t *testing.T) {
	hub := NewHub()
	c := NewClient("a", 4)
	hub.Register(c)
	hub.Join(c, "order:x")
	hub.Leave(c, "order:x")

	assert.Zero(t, hub.RoomSize("order:x"))
	assert.Zero(t, hub.Deliver(Envelope{Room: "order:x", Event: EventNotify, Data: json.RawMessage(`{}`)}))
}

func TestRedisBridge_HandleDeliversToLocalHub(t *testing.T) {
	hub := NewHub()
	c := NewClient("a", 4)
	hub.Register(c)
	hub.Join(c, "user:1")
	bridge := NewRedisBridge(nil, "foodgo:events", hub)

	bridge.handle(`{"room":"user:1","event":"notify","data":{"title":"Hi"}}`)
	bridge.handle(`not json`)

	require.Len(t, c.send, 1)
	frame := decodeFrame(t, <-c.Send())
	assert.Equal(t, EventNotify, frame.Event)
	assert.JSONEq(t, `{"title":"Hi"}`, string(frame.Data))
}

func TestAuthorizeJoin(t *testing.T) {
	userID := uuid.New()
	me := &common.Identity{ID: userID, Role: models.RoleCustomer}
	admin := &common.Identity{ID: uuid.New(), Role: models.RoleAdmin}

	tests := []struct {
		name     string
		identity *common.Identity
		room     string
		status   int
	}{
		{"anonymous order room", nil, common.OrderRoom(uuid.New()), 0},
		{"own user room", me, common.UserRoom(userID), 0},
		{"admin user room", admin, common.UserRoom(userID), 0},
		{"anonymous user room", nil, common.UserRoom(userID), 401},
		{"foreign user room", me, common.UserRoom(uuid.New()), 403},
		{"unknown kind", me, "restaurant:" + uuid.NewString(), 400},
		{"malformed id", me, "order:abc", 400},
		{"no separator", me, "lobby", 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizeJoin(tt.identity, tt.room)
			if tt.status == 0 {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.status, common.StatusCode(err))
		})
	}
}
