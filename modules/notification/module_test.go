package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/task-tracker/events"
	"github.com/example/task-tracker/modules/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSender struct {
	sent []Notification
	fail bool
}

func (s *stubSender) Channel() string { return "stub" }

func (s *stubSender) Send(_ context.Context, n Notification) error {
	if s.fail {
		return errors.New("smtp down")
	}
	s.sent = append(s.sent, n)
	return nil
}

type stubDirectory map[int64]string

func (d stubDirectory) GetUser(_ context.Context, id int64) (*auth.UserReply, error) {
	email, ok := d[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return &auth.UserReply{ID: id, Email: email}, nil
}

func newTestModule(history int, senders ...Sender) *NotificationModule {
	m := NewModule(Options{History: history})
	m.senders = senders
	m.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	return m
}

func TestHandleTaskAssigned(t *testing.T) {
	s := &stubSender{}
	m := newTestModule(10, s)
	m.directory = stubDirectory{7: "bob@example.com"}

	err := m.handleTaskAssigned(context.Background(), events.TaskAssignedEvent{
		TaskID: 3, TaskTitle: "Write docs", TaskListID: 1, AssigneeID: 7,
	}, nil)
	require.NoError(t, err)

	require.Len(t, s.sent, 1)
	n := s.sent[0]
	assert.Equal(t, typeTaskAssigned, n.Type)
	assert.Equal(t, int64(7), n.RecipientID)
	assert.Equal(t, "bob@example.com", n.Email)
	assert.Equal(t, []int64{3}, n.TaskIDs)
	assert.Contains(t, n.Subject, "Write docs")
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "stub", n.Channel)
}

func TestHandleTaskCompleted_NotifiesOwner(t *testing.T) {
	s := &stubSender{}
	m := newTestModule(10, s)

	assignee := int64(9)
	err := m.handleTaskCompleted(context.Background(), events.TaskCompletedEvent{
		TaskID: 4, TaskTitle: "Ship", TaskListID: 1, OwnerID: 2, AssigneeID: &assignee,
	}, nil)
	require.NoError(t, err)

	require.Len(t, s.sent, 1)
	assert.Equal(t, int64(2), s.sent[0].RecipientID)
	assert.Contains(t, s.sent[0].Message, "user 9")
}

func TestHandleTasksOverdue(t *testing.T) {
	s := &stubSender{}
	m := newTestModule(10, s)
	due := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, m.handleTasksOverdue(context.Background(), events.TasksOverdueEvent{UserID: 5}, nil))
	assert.Empty(t, s.sent)

	require.NoError(t, m.handleTasksOverdue(context.Background(), events.TasksOverdueEvent{
		UserID: 5,
		Tasks: []events.OverdueTask{
			{TaskID: 1, Title: "A", DueDate: &due, Status: "pending"},
			{TaskID: 2, Title: "B", DueDate: &due, Status: "cancelled"},
		},
	}, nil))

	require.Len(t, s.sent, 1)
	assert.Equal(t, "You have 2 overdue task(s)", s.sent[0].Subject)
	assert.Equal(t, []int64{1, 2}, s.sent[0].TaskIDs)
	assert.Contains(t, s.sent[0].Message, "due 2025-01-01 12:00")
}

func TestDeliver_FailuresAreSwallowed(t *testing.T) {
	failing := &stubSender{fail: true}
	ok := &stubSender{}
	m := newTestModule(10, failing, ok)
	m.directory = stubDirectory{}

	err := m.handleTaskAssigned(context.Background(), events.TaskAssignedEvent{TaskID: 1, AssigneeID: 42}, nil)
	require.NoError(t, err)

	assert.Len(t, ok.sent, 1)
	assert.Empty(t, ok.sent[0].Email)
	assert.Len(t, m.GetNotifications(), 1)
}

func TestHistoryIsBounded(t *testing.T) {
	m := newTestModule(3, &stubSender{})

	for i := int64(1); i <= 5; i++ {
		require.NoError(t, m.handleTaskAssigned(context.Background(), events.TaskAssignedEvent{TaskID: i, AssigneeID: 1}, nil))
	}

	got := m.GetNotifications()
	require.Len(t, got, 3)
	assert.Equal(t, []int64{3}, got[0].TaskIDs)
	assert.Equal(t, []int64{5}, got[2].TaskIDs)
}

func TestModule_StartWithoutRedis(t *testing.T) {
	m := NewModule(Options{})
	require.NoError(t, m.Start(context.Background()))
	status := m.Health(context.Background())
	assert.True(t, status.Healthy)
	assert.NotContains(t, status.Details, "queued")
	assert.Len(t, m.senders, 1)
	require.NoError(t, m.Stop(context.Background()))
}

func TestModule_StartWithUnreachableRedis(t *testing.T) {
	m := NewModule(Options{RedisAddr: "127.0.0.1:1", Queue: "q"})
	assert.Error(t, m.Start(context.Background()))
	assert.Nil(t, m.client)
}
