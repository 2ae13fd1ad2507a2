package task

import (
	"context"
	"sync"
)

// memGateway is an in-memory Gateway used by the engine tests.
type memGateway struct {
	mu     sync.Mutex
	users  map[int64]User
	lists  map[int64]TaskList
	tasks  map[int64]Task
	nextID int64

	// listReads counts TasksByTaskList calls.
	listReads int
}

func newMemGateway() *memGateway {
	return &memGateway{
		users: make(map[int64]User),
		lists: make(map[int64]TaskList),
		tasks: make(map[int64]Task),
	}
}

func (g *memGateway) id() int64 {
	g.nextID++
	return g.nextID
}

func (g *memGateway) addUser(email string, active bool) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.id()
	g.users[id] = User{ID: id, Email: email, FullName: email, IsActive: active}
	return id
}

func (g *memGateway) GetUser(_ context.Context, id int64) (*User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	u, ok := g.users[id]
	if !ok {
		return nil, &NotFoundError{Entity: EntityUser, ID: id}
	}
	return &u, nil
}

func (g *memGateway) GetTaskList(_ context.Context, id int64) (*TaskList, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.lists[id]
	if !ok {
		return nil, &NotFoundError{Entity: EntityTaskList, ID: id}
	}
	return &l, nil
}

func (g *memGateway) TaskListsByOwner(_ context.Context, ownerID int64) ([]TaskList, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []TaskList
	for _, l := range g.lists {
		if l.OwnerID == ownerID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (g *memGateway) CreateTaskList(_ context.Context, list *TaskList) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	list.ID = g.id()
	g.lists[list.ID] = *list
	return nil
}

func (g *memGateway) UpdateTaskList(_ context.Context, list *TaskList) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lists[list.ID] = *list
	return nil
}

func (g *memGateway) DeleteTaskList(_ context.Context, id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for tid, t := range g.tasks {
		if t.TaskListID == id {
			delete(g.tasks, tid)
		}
	}
	delete(g.lists, id)
	return nil
}

func (g *memGateway) GetTask(_ context.Context, id int64) (*Task, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	t, ok := g.tasks[id]
	if !ok {
		return nil, &NotFoundError{Entity: EntityTask, ID: id}
	}
	return &t, nil
}

func (g *memGateway) TasksByTaskList(_ context.Context, taskListID int64) ([]Task, error) {
	g.mu.Lock()
	g.listReads++
	g.mu.Unlock()
	return g.TasksByTaskLists(context.Background(), []int64{taskListID})
}

func (g *memGateway) TasksByTaskLists(_ context.Context, taskListIDs []int64) ([]Task, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	want := make(map[int64]bool, len(taskListIDs))
	for _, id := range taskListIDs {
		want[id] = true
	}
	var out []Task
	for _, t := range g.tasks {
		if want[t.TaskListID] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (g *memGateway) TasksByAssignee(_ context.Context, userID int64) ([]Task, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []Task
	for _, t := range g.tasks {
		if t.AssignedTo != nil && *t.AssignedTo == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (g *memGateway) CreateTask(_ context.Context, t *Task) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	t.ID = g.id()
	g.tasks[t.ID] = *t
	return nil
}

func (g *memGateway) UpdateTask(_ context.Context, t *Task) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	stored, ok := g.tasks[t.ID]
	if !ok {
		return &NotFoundError{Entity: EntityTask, ID: t.ID}
	}
	if stored.Version != t.Version {
		return ErrConflict
	}
	t.Version++
	g.tasks[t.ID] = *t
	return nil
}

func (g *memGateway) DeleteTask(_ context.Context, id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.tasks, id)
	return nil
}
