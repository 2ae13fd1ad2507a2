package tracker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/task-tracker/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// trackerAdapter wraps ServiceContainer for type-safe cross-module
// communication and turns reply errors back into typed task errors.
type trackerAdapter struct {
	container mono.ServiceContainer
}

// NewTrackerAdapter creates a new adapter for tracker services.
func NewTrackerAdapter(container mono.ServiceContainer) TrackerPort {
	if container == nil {
		panic("tracker adapter requires non-nil ServiceContainer")
	}
	return &trackerAdapter{container: container}
}

func call[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s service call failed: %w", service, err)
	}
	return nil
}

func (a *trackerAdapter) CreateTaskList(ctx context.Context, req *CreateTaskListRequest) (*task.TaskListView, error) {
	var resp TaskListReply
	if err := call(ctx, a.container, "create-task-list", req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error.Err()
	}
	return resp.TaskList, nil
}

func (a *trackerAdapter) ListTaskLists(ctx context.Context, actorID int64) ([]task.TaskListView, error) {
	req := ListTaskListsRequest{ActorID: actorID}
	var resp TaskListsReply
	if err := call(ctx, a.container, "list-task-lists", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error.Err()
	}
	return resp.TaskLists, nil
}

func (a *trackerAdapter) GetTaskList(ctx context.Context, actorID, taskListID int64) (*task.TaskListView, error) {
	req := TaskListRequest{ActorID: actorID, TaskListID: taskListID}
	var resp TaskListReply
	if err := call(ctx, a.container, "get-task-list", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error.Err()
	}
	return resp.TaskList, nil
}

func (a *trackerAdapter) UpdateTaskList(ctx context.Context, req *UpdateTaskListRequest) (*task.TaskListView, error) {
	var resp TaskListReply
	if err := call(ctx, a.container, "update-task-list", req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error.Err()
	}
	return resp.TaskList, nil
}

func (a *trackerAdapter) DeleteTaskList(ctx context.Context, actorID, taskListID int64) error {
	req := TaskListRequest{ActorID: actorID, TaskListID: taskListID}
	var resp DeleteReply
	if err := call(ctx, a.container, "delete-task-list", &req, &resp); err != nil {
		return err
	}
	return resp.Error.Err()
}

func (a *trackerAdapter) TaskListStats(ctx context.Context, actorID, taskListID int64) (*task.CompletionStats, error) {
	req := TaskListRequest{ActorID: actorID, TaskListID: taskListID}
	var resp StatsReply
	if err := call(ctx, a.container, "task-list-stats", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error.Err()
	}
	return resp.Stats, nil
}

func (a *trackerAdapter) CreateTask(ctx context.Context, req *CreateTaskRequest) (*task.TaskView, error) {
	return a.taskCall(ctx, "create-task", req)
}

func (a *trackerAdapter) GetTask(ctx context.Context, actorID, taskID int64) (*task.TaskView, error) {
	return a.taskCall(ctx, "get-task", &TaskRequest{ActorID: actorID, TaskID: taskID})
}

func (a *trackerAdapter) UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*task.TaskView, error) {
	return a.taskCall(ctx, "update-task", req)
}

func (a *trackerAdapter) DeleteTask(ctx context.Context, actorID, taskID int64) error {
	req := TaskRequest{ActorID: actorID, TaskID: taskID}
	var resp DeleteReply
	if err := call(ctx, a.container, "delete-task", &req, &resp); err != nil {
		return err
	}
	return resp.Error.Err()
}

func (a *trackerAdapter) AssignTask(ctx context.Context, actorID, taskID, assigneeID int64) (*task.TaskView, error) {
	return a.taskCall(ctx, "assign-task", &AssignTaskRequest{ActorID: actorID, TaskID: taskID, AssigneeID: assigneeID})
}

func (a *trackerAdapter) TransitionStatus(ctx context.Context, actorID, taskID int64, status string) (*task.TaskView, error) {
	return a.taskCall(ctx, "transition-status", &TransitionStatusRequest{ActorID: actorID, TaskID: taskID, Status: status})
}

func (a *trackerAdapter) ListTasks(ctx context.Context, req *ListTasksRequest) ([]task.TaskView, error) {
	return a.tasksCall(ctx, "list-tasks", req)
}

func (a *trackerAdapter) OverdueTasks(ctx context.Context, actorID int64) ([]task.TaskView, error) {
	return a.tasksCall(ctx, "overdue-tasks", &ActorRequest{ActorID: actorID})
}

func (a *trackerAdapter) RemindOverdue(ctx context.Context, actorID int64) (int, error) {
	req := ActorRequest{ActorID: actorID}
	var resp RemindReply
	if err := call(ctx, a.container, "remind-overdue", &req, &resp); err != nil {
		return 0, err
	}
	if resp.Error != nil {
		return 0, resp.Error.Err()
	}
	return resp.Notified, nil
}

func (a *trackerAdapter) taskCall(ctx context.Context, service string, req any) (*task.TaskView, error) {
	var resp TaskReply
	if err := call(ctx, a.container, service, &req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error.Err()
	}
	return resp.Task, nil
}

func (a *trackerAdapter) tasksCall(ctx context.Context, service string, req any) ([]task.TaskView, error) {
	var resp TasksReply
	if err := call(ctx, a.container, service, &req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error.Err()
	}
	return resp.Tasks, nil
}
