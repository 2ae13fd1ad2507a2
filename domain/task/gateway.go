package task

import "context"

// Gateway is the persistence contract the engine works against. Get methods
// return a *NotFoundError when the row does not exist.
type Gateway interface {
	GetUser(ctx context.Context, id int64) (*User, error)

	GetTaskList(ctx context.Context, id int64) (*TaskList, error)
	TaskListsByOwner(ctx context.Context, ownerID int64) ([]TaskList, error)
	CreateTaskList(ctx context.Context, list *TaskList) error
	UpdateTaskList(ctx context.Context, list *TaskList) error
	// DeleteTaskList removes the list and every task in it.
	DeleteTaskList(ctx context.Context, id int64) error

	GetTask(ctx context.Context, id int64) (*Task, error)
	TasksByTaskList(ctx context.Context, taskListID int64) ([]Task, error)
	TasksByTaskLists(ctx context.Context, taskListIDs []int64) ([]Task, error)
	TasksByAssignee(ctx context.Context, userID int64) ([]Task, error)
	CreateTask(ctx context.Context, t *Task) error
	// UpdateTask persists t if its Version still matches the stored row,
	// then increments Version. A mismatch returns ErrConflict.
	UpdateTask(ctx context.Context, t *Task) error
	DeleteTask(ctx context.Context, id int64) error
}

// Transactor runs fn inside one storage transaction. The transaction commits
// when fn returns nil and rolls back otherwise.
type Transactor interface {
	InTx(ctx context.Context, fn func(gw Gateway) error) error
}
