package realtime

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

const defaultClientBuffer = 64

// Client is one connected observer. Frames are queued on a bounded buffer;
// a full buffer drops the frame.
type Client struct {
	id     string
	send   chan []byte
	mu     sync.Mutex
	rooms  map[string]struct{}
	closed bool
}

func NewClient(id string, buffer int) *Client {
	if buffer <= 0 {
		buffer = defaultClientBuffer
	}
	return &Client{
		id:    id,
		send:  make(chan []byte, buffer),
		rooms: make(map[string]struct{}),
	}
}

// Send returns the channel of outbound frames. It is closed on unregister.
func (c *Client) Send() <-chan []byte { return c.send }

func (c *Client) enqueue(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Hub holds the connected clients of this instance and their room memberships.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		rooms:   make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

// Unregister removes c from every room and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.mu.Lock()
	rooms := make([]string, 0, len(c.rooms))
	for room := range c.rooms {
		rooms = append(rooms, room)
	}
	c.mu.Unlock()
	for _, room := range rooms {
		h.removeFromRoom(c, room)
	}
	c.close()
}

func (h *Hub) Join(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	c.mu.Lock()
	c.rooms[room] = struct{}{}
	c.mu.Unlock()
}

func (h *Hub) Leave(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromRoom(c, room)
}

// removeFromRoom expects h.mu to be held.
func (h *Hub) removeFromRoom(c *Client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	c.mu.Lock()
	delete(c.rooms, room)
	c.mu.Unlock()
}

// RoomSize reports how many local clients are joined to room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// ClientCount reports how many clients are connected to this instance.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Deliver writes env to the matching local clients and returns how many accepted it.
func (h *Hub) Deliver(env Envelope) int {
	frame, err := env.frameBytes()
	if err != nil {
		log.Error().Err(err).Str("event", env.Event).Msg("failed to encode frame")
		return 0
	}

	h.mu.RLock()
	targets := make([]*Client, 0)
	if env.Room == "" {
		for c := range h.clients {
			targets = append(targets, c)
		}
	} else {
		for c := range h.rooms[env.Room] {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	delivered := 0
	for _, c := range targets {
		if c.enqueue(frame) {
			delivered++
		} else {
			log.Debug().Str("client", c.id).Str("event", env.Event).Msg("dropped frame for slow client")
		}
	}
	return delivered
}

// ToRoom implements Publisher for a single instance.
func (h *Hub) ToRoom(_ context.Context, room, event string, data any) error {
	env, err := newEnvelope(room, event, data)
	if err != nil {
		return err
	}
	h.Deliver(env)
	return nil
}

// Broadcast implements Publisher for a single instance.
func (h *Hub) Broadcast(_ context.Context, event string, data any) error {
	env, err := newEnvelope("", event, data)
	if err != nil {
		return err
	}
	h.Deliver(env)
	return nil
}
