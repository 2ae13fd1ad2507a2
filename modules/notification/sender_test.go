package notification

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/example/task-tracker/events"
	"github.com/redis/go-redis/v9"
)

// Requires Redis running on localhost:6379; skipped otherwise.
const testRedisAddr = "localhost:6379"

func setupTestRedis(t *testing.T, queue string) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}

	client.Del(ctx, queue)
	t.Cleanup(func() {
		client.Del(context.Background(), queue)
		client.Close()
	})
	return client
}

func TestLogSender(t *testing.T) {
	s := LogSender{}
	if s.Channel() != "log" {
		t.Errorf("Channel() = %q, want log", s.Channel())
	}
	if err := s.Send(context.Background(), Notification{RecipientID: 1, Subject: "hi"}); err != nil {
		t.Errorf("Send() error = %v", err)
	}
}

func TestRedisSender_Send(t *testing.T) {
	const queue = "test:notifications"
	client := setupTestRedis(t, queue)
	ctx := context.Background()

	s := NewRedisSender(client, queue)
	want := Notification{ID: "n-1", Type: typeTaskAssigned, RecipientID: 7, Subject: "New task"}
	if err := s.Send(ctx, want); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	pending, err := s.Pending(ctx)
	if err != nil {
		t.Fatalf("Pending() error = %v", err)
	}
	if pending != 1 {
		t.Errorf("Pending() = %d, want 1", pending)
	}

	raw, err := client.RPop(ctx, queue).Bytes()
	if err != nil {
		t.Fatalf("RPop() error = %v", err)
	}
	var got Notification
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID != want.ID || got.RecipientID != want.RecipientID || got.Subject != want.Subject {
		t.Errorf("queued notification = %+v, want %+v", got, want)
	}
}

func TestModule_HealthReportsQueueDepth(t *testing.T) {
	const queue = "test:notifications:health"
	setupTestRedis(t, queue)
	ctx := context.Background()

	m := NewModule(Options{RedisAddr: testRedisAddr, Queue: queue})
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer m.Stop(ctx)

	if err := m.handleTaskAssigned(ctx, events.TaskAssignedEvent{TaskID: 1, TaskTitle: "Docs", AssigneeID: 2}, nil); err != nil {
		t.Fatalf("handleTaskAssigned() error = %v", err)
	}

	status := m.Health(ctx)
	if !status.Healthy {
		t.Fatalf("Health() unhealthy: %s", status.Message)
	}
	if got := status.Details["queued"]; got != int64(1) {
		t.Errorf("Details[queued] = %v, want 1", got)
	}
}
