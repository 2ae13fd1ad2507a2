package notification

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/example/task-tracker/events"
	"github.com/example/task-tracker/modules/auth"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Options configures the notification module.
type Options struct {
	// RedisAddr enables the Redis list sender when set.
	RedisAddr string
	Queue     string
	// History is the number of notifications kept in memory.
	History int
}

// UserDirectory resolves recipient addresses.
type UserDirectory interface {
	GetUser(ctx context.Context, userID int64) (*auth.UserReply, error)
}

// NotificationModule turns tracker events into user notifications.
type NotificationModule struct {
	opts      Options
	client    *redis.Client
	queue     *RedisSender
	senders   []Sender
	directory UserDirectory
	lookups   singleflight.Group

	mu      sync.RWMutex
	history []Notification
	now     func() time.Time
}

var _ mono.Module = (*NotificationModule)(nil)
var _ mono.EventConsumerModule = (*NotificationModule)(nil)
var _ mono.DependentModule = (*NotificationModule)(nil)
var _ mono.HealthCheckableModule = (*NotificationModule)(nil)

// NewModule creates a NotificationModule that always logs and, when
// opts.RedisAddr is set, also queues to Redis.
func NewModule(opts Options) *NotificationModule {
	if opts.History <= 0 {
		opts.History = 500
	}
	return &NotificationModule{
		opts:    opts,
		senders: []Sender{LogSender{}},
		history: make([]Notification, 0),
		now:     time.Now,
	}
}

func (m *NotificationModule) Name() string {
	return "notification"
}

// Dependencies returns the list of module dependencies.
func (m *NotificationModule) Dependencies() []string {
	return []string{"auth"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *NotificationModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.directory = auth.NewAuthAdapter(container)
	}
}

func (m *NotificationModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskAssignedV1, m.handleTaskAssigned, m); err != nil {
		return fmt.Errorf("failed to register TaskAssigned consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCompletedV1, m.handleTaskCompleted, m); err != nil {
		return fmt.Errorf("failed to register TaskCompleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TasksOverdueV1, m.handleTasksOverdue, m); err != nil {
		return fmt.Errorf("failed to register TasksOverdue consumer: %w", err)
	}

	log.Printf("[notification] Registered event consumers: TaskAssigned, TaskCompleted, TasksOverdue")
	return nil
}

func (m *NotificationModule) handleTaskAssigned(ctx context.Context, event events.TaskAssignedEvent, _ *mono.Msg) error {
	log.Printf("[notification] Task %d assigned to user %d", event.TaskID, event.AssigneeID)
	m.deliver(ctx, assignedMessage(event))
	return nil
}

func (m *NotificationModule) handleTaskCompleted(ctx context.Context, event events.TaskCompletedEvent, _ *mono.Msg) error {
	log.Printf("[notification] Task %d completed, notifying owner %d", event.TaskID, event.OwnerID)
	m.deliver(ctx, completedMessage(event))
	return nil
}

func (m *NotificationModule) handleTasksOverdue(ctx context.Context, event events.TasksOverdueEvent, _ *mono.Msg) error {
	if len(event.Tasks) == 0 {
		return nil
	}
	log.Printf("[notification] %d overdue task(s) for user %d", len(event.Tasks), event.UserID)
	m.deliver(ctx, overdueMessage(event))
	return nil
}

// deliver sends n through every sender. Failures are logged and never
// propagated back to the bus.
func (m *NotificationModule) deliver(ctx context.Context, n Notification) {
	n.ID = uuid.NewString()
	n.Timestamp = m.now()

	if email, err := m.recipientEmail(ctx, n.RecipientID); err != nil {
		log.Printf("[notification] Warning: could not resolve user %d: %v", n.RecipientID, err)
	} else {
		n.Email = email
	}

	for _, s := range m.senders {
		n.Channel = s.Channel()
		if err := s.Send(ctx, n); err != nil {
			log.Printf("[notification] Warning: %s delivery of %s failed: %v", s.Channel(), n.ID, err)
			continue
		}
		m.record(n)
	}
}

// recipientEmail looks up the address of userID. Concurrent lookups of the
// same user share one request to the auth module.
func (m *NotificationModule) recipientEmail(ctx context.Context, userID int64) (string, error) {
	if m.directory == nil {
		return "", nil
	}
	v, err, _ := m.lookups.Do(strconv.FormatInt(userID, 10), func() (any, error) {
		u, err := m.directory.GetUser(ctx, userID)
		if err != nil {
			return "", err
		}
		return u.Email, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (m *NotificationModule) record(n Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.history = append(m.history, n)
	if over := len(m.history) - m.opts.History; over > 0 {
		m.history = append(m.history[:0:0], m.history[over:]...)
	}
}

// GetNotifications returns the delivered notifications, oldest first.
func (m *NotificationModule) GetNotifications() []Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Notification, len(m.history))
	copy(result, m.history)
	return result
}

// Start connects to Redis when configured.
func (m *NotificationModule) Start(ctx context.Context) error {
	if m.opts.RedisAddr != "" && m.client == nil {
		m.client = redis.NewClient(&redis.Options{
			Addr:         m.opts.RedisAddr,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		if err := m.client.Ping(ctx).Err(); err != nil {
			m.client.Close()
			m.client = nil
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		m.queue = NewRedisSender(m.client, m.opts.Queue)
		m.senders = append(m.senders, m.queue)
		log.Printf("[notification] Queueing notifications to Redis at %s (queue: %s)", m.opts.RedisAddr, m.opts.Queue)
	}

	log.Println("[notification] Module started - listening for tracker events")
	return nil
}

// Stop closes the Redis connection.
func (m *NotificationModule) Stop(_ context.Context) error {
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			return fmt.Errorf("failed to close Redis connection: %w", err)
		}
		m.client = nil
		m.queue = nil
	}
	log.Println("[notification] Module stopped")
	return nil
}

// Health reports Redis reachability and queue depth when the Redis sender
// is enabled.
func (m *NotificationModule) Health(ctx context.Context) mono.HealthStatus {
	details := map[string]any{
		"delivered": len(m.GetNotifications()),
	}
	if m.queue == nil {
		return mono.HealthStatus{Healthy: true, Message: "operational", Details: details}
	}
	pending, err := m.queue.Pending(ctx)
	if err != nil {
		return mono.HealthStatus{Healthy: false, Message: err.Error(), Details: details}
	}
	details["queued"] = pending
	return mono.HealthStatus{Healthy: true, Message: "operational", Details: details}
}
