package task

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxTitleLen           = 200
	maxTaskDescriptionLen = 1000
	maxListNameLen        = 100
	maxListDescriptionLen = 500
)

// CreateTaskListInput carries the fields of a new task list.
type CreateTaskListInput struct {
	Name        string
	Description string
}

// UpdateTaskListInput carries a partial task list update. Nil fields are left
// unchanged.
type UpdateTaskListInput struct {
	Name        *string
	Description *string
}

// CreateTaskInput carries the fields of a new task. The initial status is
// always pending.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    Priority
	TaskListID  int64
	AssignedTo  *int64
	DueDate     *time.Time
}

// UpdateTaskInput carries a partial task update. Nil fields are left
// unchanged. Status is changed only through TransitionStatus.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *Priority
	AssignedTo  *int64
	DueDate     *time.Time
}

// Engine applies the task lifecycle and authorization rules. It holds no
// state besides its clock; every call receives the gateway of the current
// transaction and the acting user.
type Engine struct {
	now func() time.Time
}

// NewEngine creates an Engine. A nil clock defaults to time.Now.
func NewEngine(clock func() time.Time) *Engine {
	if clock == nil {
		clock = time.Now
	}
	return &Engine{now: clock}
}

// Now returns the engine's current time.
func (e *Engine) Now() time.Time {
	return e.now()
}

// CreateTaskList creates a list owned by actor.
func (e *Engine) CreateTaskList(ctx context.Context, gw Gateway, in CreateTaskListInput, actor int64) (*TaskListView, error) {
	name := strings.TrimSpace(in.Name)
	if err := validateListFields(name, in.Description); err != nil {
		return nil, err
	}
	if _, err := gw.GetUser(ctx, actor); err != nil {
		return nil, err
	}

	now := e.now()
	list := &TaskList{
		Name:        name,
		Description: in.Description,
		OwnerID:     actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := gw.CreateTaskList(ctx, list); err != nil {
		return nil, err
	}
	return &TaskListView{TaskList: *list}, nil
}

// GetTaskListWithStats returns an owned list together with its completion
// figures.
func (e *Engine) GetTaskListWithStats(ctx context.Context, gw Gateway, taskListID, actor int64) (*TaskListView, error) {
	list, err := e.authorizeOwner(ctx, gw, taskListID, actor, "only the list owner can view it")
	if err != nil {
		return nil, err
	}
	return e.listView(ctx, gw, list)
}

// ListTaskLists returns every list owned by actor with completion figures.
func (e *Engine) ListTaskLists(ctx context.Context, gw Gateway, actor int64) ([]TaskListView, error) {
	lists, err := gw.TaskListsByOwner(ctx, actor)
	if err != nil {
		return nil, err
	}
	views := make([]TaskListView, 0, len(lists))
	for i := range lists {
		v, err := e.listView(ctx, gw, &lists[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

// UpdateTaskList renames or redescribes an owned list.
func (e *Engine) UpdateTaskList(ctx context.Context, gw Gateway, taskListID int64, in UpdateTaskListInput, actor int64) (*TaskListView, error) {
	list, err := e.authorizeOwner(ctx, gw, taskListID, actor, "only the list owner can modify it")
	if err != nil {
		return nil, err
	}

	name, desc := list.Name, list.Description
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		desc = *in.Description
	}
	if err := validateListFields(name, desc); err != nil {
		return nil, err
	}

	list.Name = name
	list.Description = desc
	list.UpdatedAt = e.now()
	if err := gw.UpdateTaskList(ctx, list); err != nil {
		return nil, err
	}
	return e.listView(ctx, gw, list)
}

// DeleteTaskList removes an owned list and all of its tasks.
func (e *Engine) DeleteTaskList(ctx context.Context, gw Gateway, taskListID, actor int64) error {
	if _, err := e.authorizeOwner(ctx, gw, taskListID, actor, "only the list owner can delete it"); err != nil {
		return err
	}
	return gw.DeleteTaskList(ctx, taskListID)
}

// CompletionStats recomputes the figures of a list from its live tasks.
func (e *Engine) CompletionStats(ctx context.Context, gw Gateway, taskListID int64) (CompletionStats, error) {
	if _, err := gw.GetTaskList(ctx, taskListID); err != nil {
		return CompletionStats{}, err
	}
	tasks, err := gw.TasksByTaskList(ctx, taskListID)
	if err != nil {
		return CompletionStats{}, err
	}
	return ComputeStats(tasks), nil
}

// OwnedListStats returns the completion figures of a list owned by actor.
func (e *Engine) OwnedListStats(ctx context.Context, gw Gateway, taskListID, actor int64) (CompletionStats, error) {
	if _, err := e.authorizeOwner(ctx, gw, taskListID, actor, "only the list owner can view its statistics"); err != nil {
		return CompletionStats{}, err
	}
	tasks, err := gw.TasksByTaskList(ctx, taskListID)
	if err != nil {
		return CompletionStats{}, err
	}
	return ComputeStats(tasks), nil
}

// CreateTask adds a pending task to an owned list, optionally assigning it.
func (e *Engine) CreateTask(ctx context.Context, gw Gateway, in CreateTaskInput, actor int64) (*TaskView, []Event, error) {
	title := strings.TrimSpace(in.Title)
	if err := validateTaskFields(title, in.Description); err != nil {
		return nil, nil, err
	}
	priority := in.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.Valid() {
		return nil, nil, &ValidationError{Field: "priority", Message: "unknown priority " + string(priority)}
	}

	if _, err := e.authorizeOwner(ctx, gw, in.TaskListID, actor, "only the list owner can add tasks"); err != nil {
		return nil, nil, err
	}
	if in.AssignedTo != nil {
		if err := checkAssignee(ctx, gw, *in.AssignedTo); err != nil {
			return nil, nil, err
		}
	}

	now := e.now()
	t := &Task{
		Title:       title,
		Description: in.Description,
		Status:      StatusPending,
		Priority:    priority,
		TaskListID:  in.TaskListID,
		AssignedTo:  in.AssignedTo,
		DueDate:     in.DueDate,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := gw.CreateTask(ctx, t); err != nil {
		return nil, nil, err
	}

	var events []Event
	if t.AssignedTo != nil {
		events = append(events, Event{Type: EventAssigned, Task: *t, Recipient: *t.AssignedTo})
	}
	return e.view(t), events, nil
}

// GetTask returns a task visible to actor as owner or assignee.
func (e *Engine) GetTask(ctx context.Context, gw Gateway, taskID, actor int64) (*TaskView, error) {
	t, list, err := loadTask(ctx, gw, taskID)
	if err != nil {
		return nil, err
	}
	if !HasOwnerPrivilege(list, actor) && !HasAssigneePrivilege(t, actor) {
		return nil, &UnauthorizedError{Reason: "task is neither in an owned list nor assigned to you"}
	}
	return e.view(t), nil
}

// UpdateTask changes the editable fields of a task. Only the list owner may
// call it; a changed assignee is checked exactly like AssignTask.
func (e *Engine) UpdateTask(ctx context.Context, gw Gateway, taskID int64, in UpdateTaskInput, actor int64) (*TaskView, []Event, error) {
	if in.Title != nil {
		trimmed := strings.TrimSpace(*in.Title)
		in.Title = &trimmed
	}
	if err := validateTaskUpdate(in); err != nil {
		return nil, nil, err
	}

	t, list, err := loadTask(ctx, gw, taskID)
	if err != nil {
		return nil, nil, err
	}
	if !HasOwnerPrivilege(list, actor) {
		return nil, nil, &UnauthorizedError{Reason: "only the list owner can modify tasks"}
	}

	var events []Event
	if in.AssignedTo != nil && (t.AssignedTo == nil || *t.AssignedTo != *in.AssignedTo) {
		if err := checkAssignment(ctx, gw, t, *in.AssignedTo); err != nil {
			return nil, nil, err
		}
		assignee := *in.AssignedTo
		t.AssignedTo = &assignee
		events = append(events, Event{Type: EventAssigned, Recipient: assignee})
	}
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.DueDate != nil {
		due := *in.DueDate
		t.DueDate = &due
	}
	t.UpdatedAt = e.now()

	if err := gw.UpdateTask(ctx, t); err != nil {
		return nil, nil, err
	}
	for i := range events {
		events[i].Task = *t
	}
	return e.view(t), events, nil
}

// TransitionStatus moves a task along the lifecycle table. The list owner
// and the assignee may call it. Entering completed emits EventCompleted for
// the list owner.
func (e *Engine) TransitionStatus(ctx context.Context, gw Gateway, taskID int64, next Status, actor int64) (*TaskView, []Event, error) {
	if !next.Valid() {
		return nil, nil, &ValidationError{Field: "status", Message: "unknown status " + string(next)}
	}

	t, list, err := loadTask(ctx, gw, taskID)
	if err != nil {
		return nil, nil, err
	}
	if !HasOwnerPrivilege(list, actor) && !HasAssigneePrivilege(t, actor) {
		return nil, nil, &UnauthorizedError{Reason: "only the list owner or the assignee can change task status"}
	}

	prev := t.Status
	if !prev.CanTransition(next) {
		return nil, nil, &InvalidTransitionError{From: prev, To: next}
	}

	t.Status = next
	t.UpdatedAt = e.now()
	if err := gw.UpdateTask(ctx, t); err != nil {
		return nil, nil, err
	}

	var events []Event
	if next == StatusCompleted && prev != StatusCompleted {
		events = append(events, Event{Type: EventCompleted, Task: *t, Recipient: list.OwnerID})
	}
	return e.view(t), events, nil
}

// AssignTask sets the assignee of a task in an owned list.
func (e *Engine) AssignTask(ctx context.Context, gw Gateway, taskID, assigneeID, actor int64) (*TaskView, []Event, error) {
	t, list, err := loadTask(ctx, gw, taskID)
	if err != nil {
		return nil, nil, err
	}
	if !HasOwnerPrivilege(list, actor) {
		return nil, nil, &UnauthorizedError{Reason: "only the list owner can assign tasks"}
	}
	if err := checkAssignment(ctx, gw, t, assigneeID); err != nil {
		return nil, nil, err
	}

	t.AssignedTo = &assigneeID
	t.UpdatedAt = e.now()
	if err := gw.UpdateTask(ctx, t); err != nil {
		return nil, nil, err
	}
	return e.view(t), []Event{{Type: EventAssigned, Task: *t, Recipient: assigneeID}}, nil
}

// DeleteTask removes a task from an owned list.
func (e *Engine) DeleteTask(ctx context.Context, gw Gateway, taskID, actor int64) error {
	_, list, err := loadTask(ctx, gw, taskID)
	if err != nil {
		return err
	}
	if !HasOwnerPrivilege(list, actor) {
		return &UnauthorizedError{Reason: "only the list owner can delete tasks"}
	}
	return gw.DeleteTask(ctx, taskID)
}

// ListTasks returns the tasks visible to actor (tasks in owned lists plus
// tasks assigned to actor) that match f, ordered by id.
func (e *Engine) ListTasks(ctx context.Context, gw Gateway, f Filter, actor int64) ([]TaskView, error) {
	if err := validateFilter(f); err != nil {
		return nil, err
	}
	tasks, err := visibleTasks(ctx, gw, actor)
	if err != nil {
		return nil, err
	}

	now := e.now()
	views := make([]TaskView, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		if !f.matches(t, now) {
			continue
		}
		views = append(views, TaskView{Task: *t, IsOverdue: t.IsOverdue(now)})
	}

	if f.Offset >= len(views) {
		return []TaskView{}, nil
	}
	views = views[f.Offset:]
	if f.Limit > 0 && f.Limit < len(views) {
		views = views[:f.Limit]
	}
	return views, nil
}

// OverdueTasks returns the visible tasks that are overdue now.
func (e *Engine) OverdueTasks(ctx context.Context, gw Gateway, actor int64) ([]TaskView, error) {
	return e.ListTasks(ctx, gw, Filter{OverdueOnly: true}, actor)
}

func (e *Engine) view(t *Task) *TaskView {
	return &TaskView{Task: *t, IsOverdue: t.IsOverdue(e.now())}
}

func (e *Engine) listView(ctx context.Context, gw Gateway, list *TaskList) (*TaskListView, error) {
	tasks, err := gw.TasksByTaskList(ctx, list.ID)
	if err != nil {
		return nil, err
	}
	st := ComputeStats(tasks)
	return &TaskListView{
		TaskList:             *list,
		TaskCount:            st.Total,
		CompletionPercentage: st.CompletionPercentage,
	}, nil
}

// authorizeOwner loads a list and checks ownership. A missing list is
// reported before any privilege check.
func (e *Engine) authorizeOwner(ctx context.Context, gw Gateway, taskListID, actor int64, reason string) (*TaskList, error) {
	list, err := gw.GetTaskList(ctx, taskListID)
	if err != nil {
		return nil, err
	}
	if !HasOwnerPrivilege(list, actor) {
		return nil, &UnauthorizedError{Reason: reason}
	}
	return list, nil
}

func loadTask(ctx context.Context, gw Gateway, taskID int64) (*Task, *TaskList, error) {
	t, err := gw.GetTask(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	list, err := gw.GetTaskList(ctx, t.TaskListID)
	if err != nil {
		return nil, nil, err
	}
	return t, list, nil
}

// checkAssignee verifies that userID exists and is active.
func checkAssignee(ctx context.Context, gw Gateway, userID int64) error {
	u, err := gw.GetUser(ctx, userID)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return &AssignmentError{Reason: ReasonAssigneeNotFound, UserID: userID}
		}
		return err
	}
	if !u.IsActive {
		return &AssignmentError{Reason: ReasonAssigneeInactive, UserID: userID}
	}
	return nil
}

func checkAssignment(ctx context.Context, gw Gateway, t *Task, userID int64) error {
	if err := checkAssignee(ctx, gw, userID); err != nil {
		return err
	}
	if t.Status.Closed() {
		return &AssignmentError{Reason: ReasonTaskClosed, UserID: userID, Status: t.Status}
	}
	return nil
}

func visibleTasks(ctx context.Context, gw Gateway, actor int64) ([]Task, error) {
	lists, err := gw.TaskListsByOwner(ctx, actor)
	if err != nil {
		return nil, err
	}
	var owned []Task
	if len(lists) > 0 {
		ids := make([]int64, len(lists))
		for i := range lists {
			ids[i] = lists[i].ID
		}
		owned, err = gw.TasksByTaskLists(ctx, ids)
		if err != nil {
			return nil, err
		}
	}
	assigned, err := gw.TasksByAssignee(ctx, actor)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(owned)+len(assigned))
	merged := make([]Task, 0, len(owned)+len(assigned))
	for _, set := range [][]Task{owned, assigned} {
		for _, t := range set {
			if _, ok := seen[t.ID]; ok {
				continue
			}
			seen[t.ID] = struct{}{}
			merged = append(merged, t)
		}
	}
	slices.SortFunc(merged, func(a, b Task) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return merged, nil
}

func (f Filter) matches(t *Task, now time.Time) bool {
	if f.TaskListID != nil && t.TaskListID != *f.TaskListID {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.AssignedTo != nil && (t.AssignedTo == nil || *t.AssignedTo != *f.AssignedTo) {
		return false
	}
	if f.OverdueOnly && !t.IsOverdue(now) {
		return false
	}
	return true
}

func validateFilter(f Filter) error {
	if f.Status != nil && !f.Status.Valid() {
		return &ValidationError{Field: "status", Message: "unknown status " + string(*f.Status)}
	}
	if f.Priority != nil && !f.Priority.Valid() {
		return &ValidationError{Field: "priority", Message: "unknown priority " + string(*f.Priority)}
	}
	if f.Offset < 0 {
		return &ValidationError{Field: "offset", Message: "must not be negative"}
	}
	if f.Limit < 0 {
		return &ValidationError{Field: "limit", Message: "must not be negative"}
	}
	return nil
}

func validateListFields(name, description string) error {
	if name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if utf8.RuneCountInString(name) > maxListNameLen {
		return &ValidationError{Field: "name", Message: "must be at most 100 characters"}
	}
	if utf8.RuneCountInString(description) > maxListDescriptionLen {
		return &ValidationError{Field: "description", Message: "must be at most 500 characters"}
	}
	return nil
}

func validateTaskFields(title, description string) error {
	if title == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return &ValidationError{Field: "title", Message: "must be at most 200 characters"}
	}
	if utf8.RuneCountInString(description) > maxTaskDescriptionLen {
		return &ValidationError{Field: "description", Message: "must be at most 1000 characters"}
	}
	return nil
}

func validateTaskUpdate(in UpdateTaskInput) error {
	if in.Title != nil {
		if err := validateTaskFields(*in.Title, ""); err != nil {
			return err
		}
	}
	if in.Description != nil && utf8.RuneCountInString(*in.Description) > maxTaskDescriptionLen {
		return &ValidationError{Field: "description", Message: "must be at most 1000 characters"}
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return &ValidationError{Field: "priority", Message: "unknown priority " + string(*in.Priority)}
	}
	return nil
}
