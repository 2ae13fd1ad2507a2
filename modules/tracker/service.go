package tracker

import (
	"context"
	"log"

	"github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/events"
	"github.com/go-monolith/mono"
)

// EventPublisher delivers tracker events to interested modules.
type EventPublisher interface {
	PublishAssigned(event events.TaskAssignedEvent) error
	PublishCompleted(event events.TaskCompletedEvent) error
	PublishOverdue(event events.TasksOverdueEvent) error
}

// busPublisher publishes through the mono event bus.
type busPublisher struct {
	bus mono.EventBus
}

func (p busPublisher) PublishAssigned(event events.TaskAssignedEvent) error {
	return events.TaskAssignedV1.Publish(p.bus, event, nil)
}

func (p busPublisher) PublishCompleted(event events.TaskCompletedEvent) error {
	return events.TaskCompletedV1.Publish(p.bus, event, nil)
}

func (p busPublisher) PublishOverdue(event events.TasksOverdueEvent) error {
	return events.TasksOverdueV1.Publish(p.bus, event, nil)
}

// Service runs engine operations inside a transaction and publishes the
// resulting events once the transaction has committed.
type Service struct {
	tx        task.Transactor
	engine    *task.Engine
	publisher EventPublisher
}

// NewService creates a new Service. A nil publisher drops events.
func NewService(tx task.Transactor, engine *task.Engine, publisher EventPublisher) *Service {
	return &Service{
		tx:        tx,
		engine:    engine,
		publisher: publisher,
	}
}

// CreateTaskList creates a list owned by actor.
func (s *Service) CreateTaskList(ctx context.Context, in task.CreateTaskListInput, actor int64) (*task.TaskListView, error) {
	var view *task.TaskListView
	err := s.tx.InTx(ctx, func(gw task.Gateway) error {
		var err error
		view, err = s.engine.CreateTaskList(ctx, gw, in, actor)
		return err
	})
	return view, err
}

// GetTaskList returns an owned list with its completion figures.
func (s *Service) GetTaskList(ctx context.Context, taskListID, actor int64) (*task.TaskListView, error) {
	var view *task.TaskListView
	err := s.tx.InTx(ctx, func(gw task.Gateway) error {
		var err error
		view, err = s.engine.GetTaskListWithStats(ctx, gw, taskListID, actor)
		return err
	})
	return view, err
}

// ListTaskLists returns the lists owned by actor.
func (s *Service) ListTaskLists(ctx context.Context, actor int64) ([]task.TaskListView, error) {
	var views []task.TaskListView
	err := s.tx.InTx(ctx, func(gw task.Gateway) error {
		var err error
		views, err = s.engine.ListTaskLists(ctx, gw, actor)
		return err
	})
	return views, err
}

// UpdateTaskList changes the name or description of an owned list.
func (s *Service) UpdateTaskList(ctx context.Context, taskListID int64, in task.UpdateTaskListInput, actor int64) (*task.TaskListView, error) {
	var view *task.TaskListView
	err := s.tx.InTx(ctx, func(gw task.Gateway) error {
		var err error
		view, err = s.engine.UpdateTaskList(ctx, gw, taskListID, in, actor)
		return err
	})
	return view, err
}

// DeleteTaskList deletes an owned list and its tasks.
func (s *Service) DeleteTaskList(ctx context.Context, taskListID, actor int64) error {
	return s.tx.InTx(ctx, func(gw task.Gateway) error {
		return s.engine.DeleteTaskList(ctx, gw, taskListID, actor)
	})
}

// TaskListStats returns the completion figures of an owned list.
func (s *Service) TaskListStats(ctx context.Context, taskListID, actor int64) (task.CompletionStats, error) {
	var stats task.CompletionStats
	err := s.tx.InTx(ctx, func(gw task.Gateway) error {
		var err error
		stats, err = s.engine.OwnedListStats(ctx, gw, taskListID, actor)
		return err
	})
	return stats, err
}

// CreateTask creates a task in an owned list.
func (s *Service) CreateTask(ctx context.Context, in task.CreateTaskInput, actor int64) (*task.TaskView, error) {
	return s.mutate(ctx, func(gw task.Gateway) (*task.TaskView, []task.Event, error) {
		return s.engine.CreateTask(ctx, gw, in, actor)
	})
}

// GetTask returns a task visible to actor.
func (s *Service) GetTask(ctx context.Context, taskID, actor int64) (*task.TaskView, error) {
	var view *task.TaskView
	err := s.tx.InTx(ctx, func(gw task.Gateway) error {
		var err error
		view, err = s.engine.GetTask(ctx, gw, taskID, actor)
		return err
	})
	return view, err
}

// UpdateTask edits a task in an owned list.
func (s *Service) UpdateTask(ctx context.Context, taskID int64, in task.UpdateTaskInput, actor int64) (*task.TaskView, error) {
	return s.mutate(ctx, func(gw task.Gateway) (*task.TaskView, []task.Event, error) {
		return s.engine.UpdateTask(ctx, gw, taskID, in, actor)
	})
}

// DeleteTask deletes a task in an owned list.
func (s *Service) DeleteTask(ctx context.Context, taskID, actor int64) error {
	return s.tx.InTx(ctx, func(gw task.Gateway) error {
		return s.engine.DeleteTask(ctx, gw, taskID, actor)
	})
}

// AssignTask assigns a task in an owned list.
func (s *Service) AssignTask(ctx context.Context, taskID, assigneeID, actor int64) (*task.TaskView, error) {
	return s.mutate(ctx, func(gw task.Gateway) (*task.TaskView, []task.Event, error) {
		return s.engine.AssignTask(ctx, gw, taskID, assigneeID, actor)
	})
}

// TransitionStatus changes the status of a task.
func (s *Service) TransitionStatus(ctx context.Context, taskID int64, next task.Status, actor int64) (*task.TaskView, error) {
	return s.mutate(ctx, func(gw task.Gateway) (*task.TaskView, []task.Event, error) {
		return s.engine.TransitionStatus(ctx, gw, taskID, next, actor)
	})
}

// ListTasks returns the visible tasks matching f.
func (s *Service) ListTasks(ctx context.Context, f task.Filter, actor int64) ([]task.TaskView, error) {
	var views []task.TaskView
	err := s.tx.InTx(ctx, func(gw task.Gateway) error {
		var err error
		views, err = s.engine.ListTasks(ctx, gw, f, actor)
		return err
	})
	return views, err
}

// OverdueTasks returns the visible overdue tasks.
func (s *Service) OverdueTasks(ctx context.Context, actor int64) ([]task.TaskView, error) {
	var views []task.TaskView
	err := s.tx.InTx(ctx, func(gw task.Gateway) error {
		var err error
		views, err = s.engine.OverdueTasks(ctx, gw, actor)
		return err
	})
	return views, err
}

// RemindOverdue sends actor a digest of their overdue tasks and returns how
// many tasks it listed. Nothing is sent when there are none.
func (s *Service) RemindOverdue(ctx context.Context, actor int64) (int, error) {
	overdue, err := s.OverdueTasks(ctx, actor)
	if err != nil {
		return 0, err
	}
	if len(overdue) == 0 || s.publisher == nil {
		return len(overdue), nil
	}

	digest := events.TasksOverdueEvent{
		UserID:      actor,
		Tasks:       make([]events.OverdueTask, 0, len(overdue)),
		RequestedAt: s.engine.Now(),
	}
	for _, v := range overdue {
		digest.Tasks = append(digest.Tasks, events.OverdueTask{
			TaskID:  v.ID,
			Title:   v.Title,
			DueDate: v.DueDate,
			Status:  string(v.Status),
		})
	}
	if err := s.publisher.PublishOverdue(digest); err != nil {
		log.Printf("[tracker] Warning: failed to publish TasksOverdue event for user %d: %v", actor, err)
	}
	return len(overdue), nil
}

func (s *Service) mutate(ctx context.Context, op func(gw task.Gateway) (*task.TaskView, []task.Event, error)) (*task.TaskView, error) {
	var (
		view *task.TaskView
		evs  []task.Event
	)
	err := s.tx.InTx(ctx, func(gw task.Gateway) error {
		var err error
		view, evs, err = op(gw)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.dispatch(evs)
	return view, nil
}

// dispatch publishes committed events. Failures are logged and never reach
// the caller.
func (s *Service) dispatch(evs []task.Event) {
	if s.publisher == nil {
		return
	}
	for _, ev := range evs {
		var err error
		switch ev.Type {
		case task.EventAssigned:
			err = s.publisher.PublishAssigned(events.TaskAssignedEvent{
				TaskID:     ev.Task.ID,
				TaskTitle:  ev.Task.Title,
				TaskListID: ev.Task.TaskListID,
				AssigneeID: ev.Recipient,
				AssignedAt: ev.Task.UpdatedAt,
			})
		case task.EventCompleted:
			err = s.publisher.PublishCompleted(events.TaskCompletedEvent{
				TaskID:      ev.Task.ID,
				TaskTitle:   ev.Task.Title,
				TaskListID:  ev.Task.TaskListID,
				OwnerID:     ev.Recipient,
				AssigneeID:  ev.Task.AssignedTo,
				CompletedAt: ev.Task.UpdatedAt,
			})
		}
		if err != nil {
			log.Printf("[tracker] Warning: failed to publish %s event for task %d: %v", ev.Type, ev.Task.ID, err)
		}
	}
}
