package realtime

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisBridge publishes every event on a redis channel so that all
// instances deliver it to their local hub.
type RedisBridge struct {
	client  redis.UniversalClient
	channel string
	hub     *Hub
}

func NewRedisBridge(client redis.UniversalClient, channel string, hub *Hub) *RedisBridge {
	return &RedisBridge{client: client, channel: channel, hub: hub}
}

func (b *RedisBridge) ToRoom(ctx context.Context, room, event string, data any) error {
	env, err := newEnvelope(room, event, data)
	if err != nil {
		return err
	}
	return b.publish(ctx, env)
}

func (b *RedisBridge) Broadcast(ctx context.Context, event string, data any) error {
	env, err := newEnvelope("", event, data)
	if err != nil {
		return err
	}
	return b.publish(ctx, env)
}

func (b *RedisBridge) publish(ctx context.Context, env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return errors.Wrap(err, "encode envelope")
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return errors.Wrapf(err, "publish %s", env.Event)
	}
	return nil
}

// Run subscribes to the channel and feeds the local hub until ctx ends.
func (b *RedisBridge) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return errors.Wrapf(err, "subscribe %s", b.channel)
	}
	log.Info().Str("channel", b.channel).Msg("realtime redis bridge subscribed")

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			b.handle(msg.Payload)
		}
	}
}

func (b *RedisBridge) handle(payload string) {
	var env Envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		log.Warn().Err(err).Msg("discarding malformed realtime envelope")
		return
	}
	b.hub.Deliver(env)
}
