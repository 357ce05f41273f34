package realtime

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// Publisher routes events to observers. Delivery is at-most-once.
type Publisher interface {
	// ToRoom delivers to every client joined to room.
	ToRoom(ctx context.Context, room, event string, data any) error
	// Broadcast delivers to every connected client.
	Broadcast(ctx context.Context, event string, data any) error
}

// Envelope is the unit carried between instances and written to sockets.
// An empty Room means broadcast.
type Envelope struct {
	Room  string          `json:"room,omitempty"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Frame is the wire shape of a websocket message.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func newEnvelope(room, event string, data any) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, errors.Wrapf(err, "encode %s payload", event)
	}
	return Envelope{Room: room, Event: event, Data: raw}, nil
}

// frameBytes renders the envelope as the bytes sent to a socket.
func (e Envelope) frameBytes() ([]byte, error) {
	return json.Marshal(Frame{Event: e.Event, Data: e.Data})
}
