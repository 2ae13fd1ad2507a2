package tracker

import (
	"context"
	"time"

	"github.com/example/task-tracker/domain/task"
)

// Business failures travel inside the reply as Error; the second return value
// of a handler is reserved for infrastructure errors.

// CreateTaskListRequest is the request for creating a task list.
type CreateTaskListRequest struct {
	ActorID     int64  `json:"actor_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TaskListRequest addresses a single task list.
type TaskListRequest struct {
	ActorID    int64 `json:"actor_id"`
	TaskListID int64 `json:"task_list_id"`
}

// ListTaskListsRequest is the request for listing owned task lists.
type ListTaskListsRequest struct {
	ActorID int64 `json:"actor_id"`
}

// UpdateTaskListRequest is the request for updating a task list.
type UpdateTaskListRequest struct {
	ActorID     int64   `json:"actor_id"`
	TaskListID  int64   `json:"task_list_id"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// TaskListReply carries a single task list.
type TaskListReply struct {
	TaskList *task.TaskListView `json:"task_list,omitempty"`
	Error    *task.ErrorDetail  `json:"error,omitempty"`
}

// TaskListsReply carries several task lists.
type TaskListsReply struct {
	TaskLists []task.TaskListView `json:"task_lists"`
	Error     *task.ErrorDetail   `json:"error,omitempty"`
}

// StatsReply carries the completion figures of a list.
type StatsReply struct {
	Stats *task.CompletionStats `json:"stats,omitempty"`
	Error *task.ErrorDetail     `json:"error,omitempty"`
}

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	ActorID     int64      `json:"actor_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	TaskListID  int64      `json:"task_list_id"`
	AssignedTo  *int64     `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// TaskRequest addresses a single task.
type TaskRequest struct {
	ActorID int64 `json:"actor_id"`
	TaskID  int64 `json:"task_id"`
}

// UpdateTaskRequest is the request for updating a task.
type UpdateTaskRequest struct {
	ActorID     int64      `json:"actor_id"`
	TaskID      int64      `json:"task_id"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	AssignedTo  *int64     `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// AssignTaskRequest is the request for assigning a task.
type AssignTaskRequest struct {
	ActorID    int64 `json:"actor_id"`
	TaskID     int64 `json:"task_id"`
	AssigneeID int64 `json:"assignee_id"`
}

// TransitionStatusRequest is the request for changing a task status.
type TransitionStatusRequest struct {
	ActorID int64  `json:"actor_id"`
	TaskID  int64  `json:"task_id"`
	Status  string `json:"status"`
}

// TaskReply carries a single task.
type TaskReply struct {
	Task  *task.TaskView    `json:"task,omitempty"`
	Error *task.ErrorDetail `json:"error,omitempty"`
}

// ListTasksRequest is the request for listing visible tasks.
type ListTasksRequest struct {
	ActorID     int64   `json:"actor_id"`
	TaskListID  *int64  `json:"task_list_id,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	AssignedTo  *int64  `json:"assigned_to,omitempty"`
	OverdueOnly bool    `json:"overdue_only"`
	Offset      int     `json:"offset"`
	Limit       int     `json:"limit"`
}

// ActorRequest carries only the acting user.
type ActorRequest struct {
	ActorID int64 `json:"actor_id"`
}

// TasksReply carries several tasks.
type TasksReply struct {
	Tasks []task.TaskView   `json:"tasks"`
	Total int               `json:"total"`
	Error *task.ErrorDetail `json:"error,omitempty"`
}

// DeleteReply reports a deletion.
type DeleteReply struct {
	Deleted bool              `json:"deleted"`
	Error   *task.ErrorDetail `json:"error,omitempty"`
}

// RemindReply reports how many overdue tasks were included in a reminder.
type RemindReply struct {
	Notified int               `json:"notified"`
	Error    *task.ErrorDetail `json:"error,omitempty"`
}

// TrackerPort is the contract driving adapters use to reach the tracker.
// Business failures are returned as the typed errors of the task package.
type TrackerPort interface {
	CreateTaskList(ctx context.Context, req *CreateTaskListRequest) (*task.TaskListView, error)
	ListTaskLists(ctx context.Context, actorID int64) ([]task.TaskListView, error)
	GetTaskList(ctx context.Context, actorID, taskListID int64) (*task.TaskListView, error)
	UpdateTaskList(ctx context.Context, req *UpdateTaskListRequest) (*task.TaskListView, error)
	DeleteTaskList(ctx context.Context, actorID, taskListID int64) error
	TaskListStats(ctx context.Context, actorID, taskListID int64) (*task.CompletionStats, error)

	CreateTask(ctx context.Context, req *CreateTaskRequest) (*task.TaskView, error)
	GetTask(ctx context.Context, actorID, taskID int64) (*task.TaskView, error)
	UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*task.TaskView, error)
	DeleteTask(ctx context.Context, actorID, taskID int64) error
	AssignTask(ctx context.Context, actorID, taskID, assigneeID int64) (*task.TaskView, error)
	TransitionStatus(ctx context.Context, actorID, taskID int64, status string) (*task.TaskView, error)
	ListTasks(ctx context.Context, req *ListTasksRequest) ([]task.TaskView, error)
	OverdueTasks(ctx context.Context, actorID int64) ([]task.TaskView, error)
	RemindOverdue(ctx context.Context, actorID int64) (int, error)
}
