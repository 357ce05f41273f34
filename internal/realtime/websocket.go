package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"foodgo/internal/common"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/websocket"
)

// TokenVerifier resolves a bearer token into a caller identity.
type TokenVerifier interface {
	ParseToken(token string) (common.Identity, error)
}

// SocketServer serves the /ws endpoint.
type SocketServer struct {
	hub           *Hub
	verifier      TokenVerifier
	buffer        int
	allowedOrigin string
}

func NewSocketServer(hub *Hub, verifier TokenVerifier, buffer int, allowedOrigin string) *SocketServer {
	return &SocketServer{hub: hub, verifier: verifier, buffer: buffer, allowedOrigin: allowedOrigin}
}

// Handle upgrades the request. An optional ?token= authenticates the socket;
// an invalid token is rejected before the upgrade.
func (s *SocketServer) Handle(c echo.Context) error {
	var identity *common.Identity
	if token := c.QueryParam("token"); token != "" {
		id, err := s.verifier.ParseToken(token)
		if err != nil {
			return common.NewAuthenticationError("invalid token")
		}
		identity = &id
	}

	server := websocket.Server{
		Handshake: s.checkOrigin,
		Handler: func(ws *websocket.Conn) {
			s.serve(c.Request().Context(), ws, identity)
		},
	}
	server.ServeHTTP(c.Response(), c.Request())
	return nil
}

func (s *SocketServer) checkOrigin(config *websocket.Config, req *http.Request) error {
	if s.allowedOrigin == "" || s.allowedOrigin == "*" {
		return nil
	}
	origin, err := websocket.Origin(config, req)
	if err != nil {
		return err
	}
	if origin == nil || origin.Scheme+"://"+origin.Host != strings.TrimSuffix(s.allowedOrigin, "/") {
		return errors.New("origin not allowed")
	}
	return nil
}

func (s *SocketServer) serve(ctx context.Context, ws *websocket.Conn, identity *common.Identity) {
	defer ws.Close()

	client := NewClient(uuid.NewString(), s.buffer)
	s.hub.Register(client)
	defer s.hub.Unregister(client)

	logger := log.With().Str("client", client.id).Logger()
	if identity != nil {
		logger = logger.With().Str("user_id", identity.ID.String()).Logger()
	}
	logger.Debug().Msg("socket connected")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for frame := range client.Send() {
			if err := websocket.Message.Send(ws, string(frame)); err != nil {
				logger.Debug().Err(err).Msg("socket write failed")
				return
			}
		}
	}()

	for {
		var frame Frame
		if err := websocket.JSON.Receive(ws, &frame); err != nil {
			break
		}
		s.handleFrame(client, identity, frame)
		if ctx.Err() != nil {
			break
		}
	}

	s.hub.Unregister(client)
	<-done
	logger.Debug().Msg("socket disconnected")
}

func (s *SocketServer) handleFrame(client *Client, identity *common.Identity, frame Frame) {
	var room string
	if err := json.Unmarshal(frame.Data, &room); err != nil {
		s.reply(client, EventError, "room must be a string")
		return
	}

	switch frame.Event {
	case EventJoin:
		if err := AuthorizeJoin(identity, room); err != nil {
			s.reply(client, EventError, err.Error())
			return
		}
		s.hub.Join(client, room)
	case EventLeave:
		s.hub.Leave(client, room)
	default:
		s.reply(client, EventError, "unknown event "+frame.Event)
	}
}

func (s *SocketServer) reply(client *Client, event, message string) {
	env, err := newEnvelope("", event, map[string]string{"message": message})
	if err != nil {
		return
	}
	frame, err := env.frameBytes()
	if err != nil {
		return
	}
	client.enqueue(frame)
}

// AuthorizeJoin decides whether identity may join room. Order rooms are open
// and carry metadata only; user rooms require the matching identity or ADMIN.
func AuthorizeJoin(identity *common.Identity, room string) error {
	kind, rawID, ok := strings.Cut(room, ":")
	if !ok {
		return common.NewValidationError("unknown room %q", room)
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return common.NewValidationError("unknown room %q", room)
	}

	switch kind {
	case "order":
		return nil
	case "user":
		if identity == nil {
			return common.NewAuthenticationError("authentication required for user rooms")
		}
		if identity.ID != id && !identity.IsAdmin() {
			return common.NewForbiddenError("cannot join another user's room")
		}
		return nil
	}
	return common.NewValidationError("unknown room %q", room)
}
