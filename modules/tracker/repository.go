package tracker

import (
	"context"
	"errors"

	"github.com/example/task-tracker/domain/task"
	"gorm.io/gorm"
)

// Repository implements task.Gateway and task.Transactor on GORM.
type Repository struct {
	db *gorm.DB
}

var _ task.Gateway = (*Repository)(nil)
var _ task.Transactor = (*Repository)(nil)

// NewRepository creates a new Repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// InTx runs fn with a Repository bound to a single transaction.
func (r *Repository) InTx(ctx context.Context, fn func(gw task.Gateway) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// GetUser finds a user by ID.
func (r *Repository) GetUser(ctx context.Context, id int64) (*task.User, error) {
	var u task.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err, task.EntityUser, id)
	}
	return &u, nil
}

// GetTaskList finds a task list by ID.
func (r *Repository) GetTaskList(ctx context.Context, id int64) (*task.TaskList, error) {
	var l task.TaskList
	if err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, notFound(err, task.EntityTaskList, id)
	}
	return &l, nil
}

// TaskListsByOwner returns the lists owned by ownerID ordered by ID.
func (r *Repository) TaskListsByOwner(ctx context.Context, ownerID int64) ([]task.TaskList, error) {
	var lists []task.TaskList
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id").Find(&lists).Error
	return lists, err
}

// CreateTaskList inserts a new list and fills its ID.
func (r *Repository) CreateTaskList(ctx context.Context, list *task.TaskList) error {
	return r.db.WithContext(ctx).Create(list).Error
}

// UpdateTaskList saves the mutable list fields.
func (r *Repository) UpdateTaskList(ctx context.Context, list *task.TaskList) error {
	res := r.db.WithContext(ctx).Model(&task.TaskList{}).Where("id = ?", list.ID).Updates(map[string]any{
		"name":        list.Name,
		"description": list.Description,
		"updated_at":  list.UpdatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &task.NotFoundError{Entity: task.EntityTaskList, ID: list.ID}
	}
	return nil
}

// DeleteTaskList deletes the list and its tasks.
func (r *Repository) DeleteTaskList(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("task_list_id = ?", id).Delete(&task.Task{}).Error; err != nil {
		return err
	}
	res := db.Delete(&task.TaskList{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &task.NotFoundError{Entity: task.EntityTaskList, ID: id}
	}
	return nil
}

// GetTask finds a task by ID.
func (r *Repository) GetTask(ctx context.Context, id int64) (*task.Task, error) {
	var t task.Task
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, notFound(err, task.EntityTask, id)
	}
	return &t, nil
}

// TasksByTaskList returns the tasks of one list ordered by ID.
func (r *Repository) TasksByTaskList(ctx context.Context, taskListID int64) ([]task.Task, error) {
	var tasks []task.Task
	err := r.db.WithContext(ctx).Where("task_list_id = ?", taskListID).Order("id").Find(&tasks).Error
	return tasks, err
}

// TasksByTaskLists returns the tasks of several lists ordered by ID.
func (r *Repository) TasksByTaskLists(ctx context.Context, taskListIDs []int64) ([]task.Task, error) {
	if len(taskListIDs) == 0 {
		return nil, nil
	}
	var tasks []task.Task
	err := r.db.WithContext(ctx).Where("task_list_id IN ?", taskListIDs).Order("id").Find(&tasks).Error
	return tasks, err
}

// TasksByAssignee returns the tasks assigned to userID ordered by ID.
func (r *Repository) TasksByAssignee(ctx context.Context, userID int64) ([]task.Task, error) {
	var tasks []task.Task
	err := r.db.WithContext(ctx).Where("assigned_to = ?", userID).Order("id").Find(&tasks).Error
	return tasks, err
}

// CreateTask inserts a new task and fills its ID.
func (r *Repository) CreateTask(ctx context.Context, t *task.Task) error {
	if t.Version == 0 {
		t.Version = 1
	}
	return r.db.WithContext(ctx).Create(t).Error
}

// UpdateTask writes t only if the stored version still equals t.Version.
func (r *Repository) UpdateTask(ctx context.Context, t *task.Task) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&task.Task{}).
		Where("id = ? AND version = ?", t.ID, t.Version).
		Updates(map[string]any{
			"title":       t.Title,
			"description": t.Description,
			"status":      t.Status,
			"priority":    t.Priority,
			"assigned_to": t.AssignedTo,
			"due_date":    t.DueDate,
			"version":     t.Version + 1,
			"updated_at":  t.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := db.Model(&task.Task{}).Where("id = ?", t.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return &task.NotFoundError{Entity: task.EntityTask, ID: t.ID}
		}
		return task.ErrConflict
	}
	t.Version++
	return nil
}

// DeleteTask deletes a task by ID.
func (r *Repository) DeleteTask(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&task.Task{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &task.NotFoundError{Entity: task.EntityTask, ID: id}
	}
	return nil
}

func notFound(err error, entity string, id int64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &task.NotFoundError{Entity: entity, ID: id}
	}
	return err
}
