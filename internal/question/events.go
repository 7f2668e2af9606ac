package question

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultEventChannel = "trivia:questions"

// Event types published after a successful write.
const (
	EventCreated = "created"
	EventDeleted = "deleted"
)

// Event describes a question write for downstream subscribers.
type Event struct {
	Type       string `json:"type"`
	QuestionID int64  `json:"question_id"`
	Category   int64  `json:"category,omitempty"`
	At         int64  `json:"at"`
}

// Notifier publishes question write events.
type Notifier interface {
	Publish(ctx context.Context, evt Event) error
}

// RedisNotifier publishes events as JSON on a Redis pub/sub channel.
type RedisNotifier struct {
	client  *redis.Client
	channel string
}

var _ Notifier = (*RedisNotifier)(nil)

func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	if channel == "" {
		channel = defaultEventChannel
	}
	return &RedisNotifier{client: client, channel: channel}
}

func (n *RedisNotifier) Publish(ctx context.Context, evt Event) error {
	if evt.At == 0 {
		evt.At = time.Now().Unix()
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return n.client.Publish(ctx, n.channel, data).Err()
}

type nopNotifier struct{}

func (nopNotifier) Publish(context.Context, Event) error { return nil }
