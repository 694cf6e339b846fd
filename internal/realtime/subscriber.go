package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/investmatch/admin-backend/internal/moderation"
	"github.com/redis/go-redis/v9"
)

// Subscriber wraps a Redis pub/sub subscription and forwards parsed
// moderation events onto a Go channel. It holds exactly one logical
// subscription; go-redis reconnects the underlying connection itself,
// so a dropped socket does not end the stream.
type Subscriber struct {
	client  *redis.Client
	channel string
	events  chan moderation.Event
}

func NewSubscriber(client *redis.Client, channel string) *Subscriber {
	return &Subscriber{
		client:  client,
		channel: channel,
		events:  make(chan moderation.Event, 64),
	}
}

// Events is the stream consumed by the moderation reconciler. It closes
// when Run returns.
func (s *Subscriber) Events() <-chan moderation.Event {
	return s.events
}

// Run subscribes and forwards messages until the context ends. Messages
// that fail to parse are logged and dropped; they never stall the stream.
func (s *Subscriber) Run(ctx context.Context) error {
	defer close(s.events)

	pubsub := s.client.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	// Confirm the subscription before consuming.
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", s.channel, err)
	}
	slog.Info("realtime subscription established", "channel", s.channel)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("subscription to %s closed", s.channel)
			}
			ev, err := ParseEvent([]byte(msg.Payload))
			if err != nil {
				slog.Warn("dropping malformed moderation event", "error", err)
				continue
			}
			select {
			case s.events <- ev:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// ParseEvent decodes one wire message {type, payload}.
func ParseEvent(data []byte) (moderation.Event, error) {
	var ev moderation.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return moderation.Event{}, fmt.Errorf("failed to parse event: %w", err)
	}
	if ev.Type != moderation.EventReportUpdate && ev.Type != moderation.EventNewReport {
		return moderation.Event{}, fmt.Errorf("unknown event type %q", ev.Type)
	}
	return ev, nil
}

// Publish emits one event on the channel; used when console actions
// themselves produce reports (for example flagging a message).
func Publish(ctx context.Context, client *redis.Client, channel string, ev moderation.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return client.Publish(ctx, channel, data).Err()
}
