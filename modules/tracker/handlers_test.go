package tracker

import (
	"context"
	"errors"
	"testing"

	"github.com/example/task-tracker/domain/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessError(t *testing.T) {
	d, err := businessError(nil)
	assert.Nil(t, d)
	assert.NoError(t, err)

	d, err = businessError(&task.NotFoundError{Entity: task.EntityTask, ID: 3})
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, task.KindNotFound, d.Kind)

	infra := errors.New("disk I/O error")
	d, err = businessError(infra)
	assert.Nil(t, d)
	assert.Equal(t, infra, err)
}

func TestHandlers_ReturnBusinessErrorsInReply(t *testing.T) {
	f := newServiceFixture(t)
	m := &TrackerModule{service: f.svc}
	ctx := context.Background()

	listReply, err := m.createTaskList(ctx, CreateTaskListRequest{ActorID: f.owner, Name: "L1"}, nil)
	require.NoError(t, err)
	require.Nil(t, listReply.Error)
	listID := listReply.TaskList.ID

	reply, err := m.createTask(ctx, CreateTaskRequest{ActorID: f.owner, Title: "T", TaskListID: listID}, nil)
	require.NoError(t, err)
	require.Nil(t, reply.Error)
	assert.Equal(t, task.PriorityMedium, reply.Task.Priority)

	reply, err = m.createTask(ctx, CreateTaskRequest{ActorID: f.owner, Title: "T", Priority: "urgent", TaskListID: listID}, nil)
	require.NoError(t, err)
	require.NotNil(t, reply.Error)
	assert.Equal(t, task.KindValidation, reply.Error.Kind)
	assert.Equal(t, "priority", reply.Error.Field)

	reply, err = m.transitionStatus(ctx, TransitionStatusRequest{ActorID: f.owner, TaskID: 999, Status: "in_progress"}, nil)
	require.NoError(t, err)
	require.NotNil(t, reply.Error)
	assert.Equal(t, task.KindNotFound, reply.Error.Kind)
	assert.Equal(t, task.EntityTask, reply.Error.Entity)

	tasks, err := m.listTasks(ctx, ListTasksRequest{ActorID: f.owner}, nil)
	require.NoError(t, err)
	require.Nil(t, tasks.Error)
	assert.Equal(t, 1, tasks.Total)

	del, err := m.deleteTaskList(ctx, TaskListRequest{ActorID: f.stranger, TaskListID: listID}, nil)
	require.NoError(t, err)
	assert.False(t, del.Deleted)
	require.NotNil(t, del.Error)
	assert.Equal(t, task.KindUnauthorized, del.Error.Kind)
}

func TestToFilter(t *testing.T) {
	status := "completed"
	priority := "high"
	f, err := toFilter(ListTasksRequest{Status: &status, Priority: &priority, OverdueOnly: true, Limit: 5})
	require.NoError(t, err)
	require.NotNil(t, f.Status)
	assert.Equal(t, task.StatusCompleted, *f.Status)
	require.NotNil(t, f.Priority)
	assert.Equal(t, task.PriorityHigh, *f.Priority)
	assert.True(t, f.OverdueOnly)
	assert.Equal(t, 5, f.Limit)

	bad := "done"
	_, err = toFilter(ListTasksRequest{Status: &bad})
	assert.Equal(t, task.KindValidation, task.KindOf(err))
}
