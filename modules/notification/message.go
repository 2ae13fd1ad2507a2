package notification

import (
	"fmt"
	"strings"

	"github.com/example/task-tracker/events"
)

const (
	typeTaskAssigned  = "task_assigned"
	typeTaskCompleted = "task_completed"
	typeTasksOverdue  = "tasks_overdue"
)

func assignedMessage(e events.TaskAssignedEvent) Notification {
	return Notification{
		Type:        typeTaskAssigned,
		RecipientID: e.AssigneeID,
		Subject:     fmt.Sprintf("New task assigned: %s", e.TaskTitle),
		Message:     fmt.Sprintf("You have been assigned task #%d '%s' in list #%d.", e.TaskID, e.TaskTitle, e.TaskListID),
		TaskIDs:     []int64{e.TaskID},
	}
}

func completedMessage(e events.TaskCompletedEvent) Notification {
	by := "unassigned"
	if e.AssigneeID != nil {
		by = fmt.Sprintf("user %d", *e.AssigneeID)
	}
	return Notification{
		Type:        typeTaskCompleted,
		RecipientID: e.OwnerID,
		Subject:     fmt.Sprintf("Task completed: %s", e.TaskTitle),
		Message:     fmt.Sprintf("Task #%d '%s' was completed (assignee: %s).", e.TaskID, e.TaskTitle, by),
		TaskIDs:     []int64{e.TaskID},
	}
}

func overdueMessage(e events.TasksOverdueEvent) Notification {
	ids := make([]int64, 0, len(e.Tasks))
	lines := make([]string, 0, len(e.Tasks))
	for _, t := range e.Tasks {
		ids = append(ids, t.TaskID)
		due := "no due date"
		if t.DueDate != nil {
			due = "due " + t.DueDate.Format("2006-01-02 15:04")
		}
		lines = append(lines, fmt.Sprintf("#%d %s (%s, %s)", t.TaskID, t.Title, t.Status, due))
	}
	return Notification{
		Type:        typeTasksOverdue,
		RecipientID: e.UserID,
		Subject:     fmt.Sprintf("You have %d overdue task(s)", len(e.Tasks)),
		Message:     strings.Join(lines, "; "),
		TaskIDs:     ids,
	}
}
