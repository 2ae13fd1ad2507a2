package tracker

import (
	"context"

	"github.com/example/task-tracker/domain/task"
	"github.com/go-monolith/mono"
)

// businessError splits err into a reply detail (business failure) or a
// handler error (infrastructure failure).
func businessError(err error) (*task.ErrorDetail, error) {
	if err == nil {
		return nil, nil
	}
	if d := task.DetailOf(err); d != nil {
		return d, nil
	}
	return nil, err
}

func (m *TrackerModule) createTaskList(ctx context.Context, req CreateTaskListRequest, _ *mono.Msg) (TaskListReply, error) {
	view, err := m.service.CreateTaskList(ctx, task.CreateTaskListInput{
		Name:        req.Name,
		Description: req.Description,
	}, req.ActorID)
	if err != nil {
		d, err := businessError(err)
		return TaskListReply{Error: d}, err
	}
	return TaskListReply{TaskList: view}, nil
}

func (m *TrackerModule) listTaskLists(ctx context.Context, req ListTaskListsRequest, _ *mono.Msg) (TaskListsReply, error) {
	views, err := m.service.ListTaskLists(ctx, req.ActorID)
	if err != nil {
		d, err := businessError(err)
		return TaskListsReply{Error: d}, err
	}
	if views == nil {
		views = []task.TaskListView{}
	}
	return TaskListsReply{TaskLists: views}, nil
}

func (m *TrackerModule) getTaskList(ctx context.Context, req TaskListRequest, _ *mono.Msg) (TaskListReply, error) {
	view, err := m.service.GetTaskList(ctx, req.TaskListID, req.ActorID)
	if err != nil {
		d, err := businessError(err)
		return TaskListReply{Error: d}, err
	}
	return TaskListReply{TaskList: view}, nil
}

func (m *TrackerModule) updateTaskList(ctx context.Context, req UpdateTaskListRequest, _ *mono.Msg) (TaskListReply, error) {
	view, err := m.service.UpdateTaskList(ctx, req.TaskListID, task.UpdateTaskListInput{
		Name:        req.Name,
		Description: req.Description,
	}, req.ActorID)
	if err != nil {
		d, err := businessError(err)
		return TaskListReply{Error: d}, err
	}
	return TaskListReply{TaskList: view}, nil
}

func (m *TrackerModule) deleteTaskList(ctx context.Context, req TaskListRequest, _ *mono.Msg) (DeleteReply, error) {
	if err := m.service.DeleteTaskList(ctx, req.TaskListID, req.ActorID); err != nil {
		d, err := businessError(err)
		return DeleteReply{Error: d}, err
	}
	return DeleteReply{Deleted: true}, nil
}

func (m *TrackerModule) taskListStats(ctx context.Context, req TaskListRequest, _ *mono.Msg) (StatsReply, error) {
	stats, err := m.service.TaskListStats(ctx, req.TaskListID, req.ActorID)
	if err != nil {
		d, err := businessError(err)
		return StatsReply{Error: d}, err
	}
	return StatsReply{Stats: &stats}, nil
}

func (m *TrackerModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskReply, error) {
	priority, err := task.ParsePriority(req.Priority)
	if err != nil {
		d, err := businessError(err)
		return TaskReply{Error: d}, err
	}
	view, err := m.service.CreateTask(ctx, task.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		TaskListID:  req.TaskListID,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
	}, req.ActorID)
	if err != nil {
		d, err := businessError(err)
		return TaskReply{Error: d}, err
	}
	return TaskReply{Task: view}, nil
}

func (m *TrackerModule) getTask(ctx context.Context, req TaskRequest, _ *mono.Msg) (TaskReply, error) {
	view, err := m.service.GetTask(ctx, req.TaskID, req.ActorID)
	if err != nil {
		d, err := businessError(err)
		return TaskReply{Error: d}, err
	}
	return TaskReply{Task: view}, nil
}

func (m *TrackerModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskReply, error) {
	in := task.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
	}
	if req.Priority != nil {
		p := task.Priority(*req.Priority)
		in.Priority = &p
	}
	view, err := m.service.UpdateTask(ctx, req.TaskID, in, req.ActorID)
	if err != nil {
		d, err := businessError(err)
		return TaskReply{Error: d}, err
	}
	return TaskReply{Task: view}, nil
}

func (m *TrackerModule) deleteTask(ctx context.Context, req TaskRequest, _ *mono.Msg) (DeleteReply, error) {
	if err := m.service.DeleteTask(ctx, req.TaskID, req.ActorID); err != nil {
		d, err := businessError(err)
		return DeleteReply{Error: d}, err
	}
	return DeleteReply{Deleted: true}, nil
}

func (m *TrackerModule) assignTask(ctx context.Context, req AssignTaskRequest, _ *mono.Msg) (TaskReply, error) {
	view, err := m.service.AssignTask(ctx, req.TaskID, req.AssigneeID, req.ActorID)
	if err != nil {
		d, err := businessError(err)
		return TaskReply{Error: d}, err
	}
	return TaskReply{Task: view}, nil
}

func (m *TrackerModule) transitionStatus(ctx context.Context, req TransitionStatusRequest, _ *mono.Msg) (TaskReply, error) {
	view, err := m.service.TransitionStatus(ctx, req.TaskID, task.Status(req.Status), req.ActorID)
	if err != nil {
		d, err := businessError(err)
		return TaskReply{Error: d}, err
	}
	return TaskReply{Task: view}, nil
}

func (m *TrackerModule) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (TasksReply, error) {
	f, err := toFilter(req)
	if err != nil {
		d, err := businessError(err)
		return TasksReply{Error: d}, err
	}
	views, err := m.service.ListTasks(ctx, f, req.ActorID)
	if err != nil {
		d, err := businessError(err)
		return TasksReply{Error: d}, err
	}
	return TasksReply{Tasks: views, Total: len(views)}, nil
}

func (m *TrackerModule) overdueTasks(ctx context.Context, req ActorRequest, _ *mono.Msg) (TasksReply, error) {
	views, err := m.service.OverdueTasks(ctx, req.ActorID)
	if err != nil {
		d, err := businessError(err)
		return TasksReply{Error: d}, err
	}
	return TasksReply{Tasks: views, Total: len(views)}, nil
}

func (m *TrackerModule) remindOverdue(ctx context.Context, req ActorRequest, _ *mono.Msg) (RemindReply, error) {
	n, err := m.service.RemindOverdue(ctx, req.ActorID)
	if err != nil {
		d, err := businessError(err)
		return RemindReply{Error: d}, err
	}
	return RemindReply{Notified: n}, nil
}

func toFilter(req ListTasksRequest) (task.Filter, error) {
	f := task.Filter{
		TaskListID:  req.TaskListID,
		AssignedTo:  req.AssignedTo,
		OverdueOnly: req.OverdueOnly,
		Offset:      req.Offset,
		Limit:       req.Limit,
	}
	if req.Status != nil {
		s, err := task.ParseStatus(*req.Status)
		if err != nil {
			return task.Filter{}, err
		}
		f.Status = &s
	}
	if req.Priority != nil {
		p, err := task.ParsePriority(*req.Priority)
		if err != nil {
			return task.Filter{}, err
		}
		f.Priority = &p
	}
	return f, nil
}
