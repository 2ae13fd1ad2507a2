package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Notification is a rendered message for a single user.
type Notification struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	RecipientID int64     `json:"recipient_id"`
	Email       string    `json:"email,omitempty"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	TaskIDs     []int64   `json:"task_ids"`
	Channel     string    `json:"channel"`
	Timestamp   time.Time `json:"timestamp"`
}

// Sender delivers notifications over one channel.
type Sender interface {
	Channel() string
	Send(ctx context.Context, n Notification) error
}

// LogSender writes notifications to the process log.
type LogSender struct{}

// Channel returns "log".
func (LogSender) Channel() string { return "log" }

// Send logs n.
func (LogSender) Send(_ context.Context, n Notification) error {
	to := fmt.Sprintf("user %d", n.RecipientID)
	if n.Email != "" {
		to = n.Email
	}
	log.Printf("[notification] -> %s: %s (%s)", to, n.Subject, n.Message)
	return nil
}

// RedisSender pushes notifications as JSON onto a Redis list, where an
// external mailer can pop them.
type RedisSender struct {
	client *redis.Client
	queue  string
}

// NewRedisSender creates a RedisSender writing to queue.
func NewRedisSender(client *redis.Client, queue string) *RedisSender {
	return &RedisSender{client: client, queue: queue}
}

// Channel returns "redis".
func (s *RedisSender) Channel() string { return "redis" }

// Send LPUSHes n onto the queue.
func (s *RedisSender) Send(ctx context.Context, n Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	if err := s.client.LPush(ctx, s.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to push notification to %s: %w", s.queue, err)
	}
	return nil
}

// Pending returns the number of notifications waiting on the queue.
func (s *RedisSender) Pending(ctx context.Context) (int64, error) {
	return s.client.LLen(ctx, s.queue).Result()
}
