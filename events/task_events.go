package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// TaskAssignedEvent is emitted when a task gets a new assignee, either at
// creation or through an explicit assignment.
type TaskAssignedEvent struct {
	TaskID     int64     `json:"task_id"`
	TaskTitle  string    `json:"task_title"`
	TaskListID int64     `json:"task_list_id"`
	AssigneeID int64     `json:"assignee_id"`
	AssignedAt time.Time `json:"assigned_at"`
}

// TaskAssignedV1 is the typed event definition for task assignment.
// Subject: events.tracker.v1.task-assigned
var TaskAssignedV1 = helper.EventDefinition[TaskAssignedEvent](
	"tracker", "TaskAssigned", "v1",
)

// TaskCompletedEvent is emitted the first time a task enters completed.
// OwnerID is the owner of the task's list and the notification recipient.
type TaskCompletedEvent struct {
	TaskID      int64     `json:"task_id"`
	TaskTitle   string    `json:"task_title"`
	TaskListID  int64     `json:"task_list_id"`
	OwnerID     int64     `json:"owner_id"`
	AssigneeID  *int64    `json:"assignee_id,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}

// TaskCompletedV1 is the typed event definition for task completion.
// Subject: events.tracker.v1.task-completed
var TaskCompletedV1 = helper.EventDefinition[TaskCompletedEvent](
	"tracker", "TaskCompleted", "v1",
)

// OverdueTask is one entry of an overdue digest.
type OverdueTask struct {
	TaskID  int64      `json:"task_id"`
	Title   string     `json:"title"`
	DueDate *time.Time `json:"due_date,omitempty"`
	Status  string     `json:"status"`
}

// TasksOverdueEvent asks for an overdue reminder digest to be sent to a user.
type TasksOverdueEvent struct {
	UserID      int64         `json:"user_id"`
	Tasks       []OverdueTask `json:"tasks"`
	RequestedAt time.Time     `json:"requested_at"`
}

// TasksOverdueV1 is the typed event definition for overdue digests.
// Subject: events.tracker.v1.tasks-overdue
var TasksOverdueV1 = helper.EventDefinition[TasksOverdueEvent](
	"tracker", "TasksOverdue", "v1",
)
