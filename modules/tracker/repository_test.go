package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB creates a migrated in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := storage.OpenAndMigrate(storage.Options{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { storage.Close(db) })
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string, active bool) int64 {
	t.Helper()
	u := &task.User{Email: email, FullName: email, PasswordHash: "x", IsActive: active}
	require.NoError(t, db.Create(u).Error)
	return u.ID
}

func TestRepository_NotFound(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	_, err := repo.GetUser(ctx, 42)
	var nf *task.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, task.EntityUser, nf.Entity)
	assert.Equal(t, int64(42), nf.ID)

	_, err = repo.GetTaskList(ctx, 42)
	assert.Equal(t, task.KindNotFound, task.KindOf(err))

	_, err = repo.GetTask(ctx, 42)
	assert.Equal(t, task.KindNotFound, task.KindOf(err))

	err = repo.DeleteTask(ctx, 42)
	assert.Equal(t, task.KindNotFound, task.KindOf(err))
}

func TestRepository_TaskLifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", true)
	assignee := seedUser(t, db, "assignee@example.com", true)

	list := &task.TaskList{Name: "Inbox", OwnerID: owner}
	require.NoError(t, repo.CreateTaskList(ctx, list))
	require.NotZero(t, list.ID)

	due := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	tk := &task.Task{
		Title:      "Call",
		Status:     task.StatusPending,
		Priority:   task.PriorityHigh,
		TaskListID: list.ID,
		AssignedTo: &assignee,
		DueDate:    &due,
	}
	require.NoError(t, repo.CreateTask(ctx, tk))
	assert.Equal(t, int64(1), tk.Version)

	found, err := repo.GetTask(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, "Call", found.Title)
	require.NotNil(t, found.AssignedTo)
	assert.Equal(t, assignee, *found.AssignedTo)
	require.NotNil(t, found.DueDate)
	assert.True(t, found.DueDate.Equal(due))

	found.Status = task.StatusInProgress
	found.AssignedTo = nil
	require.NoError(t, repo.UpdateTask(ctx, found))
	assert.Equal(t, int64(2), found.Version)

	reloaded, err := repo.GetTask(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusInProgress, reloaded.Status)
	assert.Nil(t, reloaded.AssignedTo)

	// tk still carries version 1.
	tk.Status = task.StatusCancelled
	err = repo.UpdateTask(ctx, tk)
	assert.True(t, errors.Is(err, task.ErrConflict))

	byList, err := repo.TasksByTaskLists(ctx, []int64{list.ID})
	require.NoError(t, err)
	assert.Len(t, byList, 1)

	none, err := repo.TasksByTaskLists(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepository_DeleteTaskListCascades(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", true)

	list := &task.TaskList{Name: "Inbox", OwnerID: owner}
	require.NoError(t, repo.CreateTaskList(ctx, list))
	for _, title := range []string{"a", "b"} {
		require.NoError(t, repo.CreateTask(ctx, &task.Task{Title: title, Status: task.StatusPending, Priority: task.PriorityLow, TaskListID: list.ID}))
	}

	require.NoError(t, repo.DeleteTaskList(ctx, list.ID))

	var count int64
	require.NoError(t, db.Model(&task.Task{}).Count(&count).Error)
	assert.Zero(t, count)

	err := repo.DeleteTaskList(ctx, list.ID)
	assert.Equal(t, task.KindNotFound, task.KindOf(err))
}

func TestRepository_InTxRollsBack(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", true)

	boom := errors.New("boom")
	err := repo.InTx(ctx, func(gw task.Gateway) error {
		if err := gw.CreateTaskList(ctx, &task.TaskList{Name: "Temp", OwnerID: owner}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	lists, err := repo.TaskListsByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, lists)
}
