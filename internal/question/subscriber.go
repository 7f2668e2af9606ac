package question

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// EventHandler consumes one decoded question event.
type EventHandler func(Event)

// Subscriber listens on the question event channel and hands each event to a handler.
type Subscriber struct {
	redis   *redis.Client
	channel string
	handle  EventHandler
	logger  zerolog.Logger
}

func NewSubscriber(client *redis.Client, channel string, handle EventHandler, logger zerolog.Logger) *Subscriber {
	if channel == "" {
		channel = defaultEventChannel
	}
	return &Subscriber{
		redis:   client,
		channel: channel,
		handle:  handle,
		logger:  logger.With().Str("component", "question_subscriber").Logger(),
	}
}

// Run subscribes to the channel and blocks until the context is cancelled.
func (s *Subscriber) Run(ctx context.Context) error {
	if s.redis == nil || s.handle == nil {
		return nil
	}

	sub := s.redis.Subscribe(ctx, s.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			s.dispatch(msg.Payload)
		}
	}
}

func (s *Subscriber) dispatch(payload string) {
	var evt Event
	if err := json.Unmarshal([]byte(payload), &evt); err != nil {
		s.logger.Warn().Err(err).Msg("failed to decode question event payload")
		return
	}
	if evt.Type != EventCreated && evt.Type != EventDeleted {
		s.logger.Warn().Str("type", evt.Type).Msg("unknown question event type")
		return
	}
	s.handle(evt)
}
