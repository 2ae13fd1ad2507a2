package task

import "time"

// User is a registered account. Only existence and the IsActive flag matter
// to the lifecycle rules; credentials are owned by the auth module.
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null;type:text" json:"email"`
	FullName     string    `gorm:"type:text" json:"full_name"`
	PasswordHash string    `gorm:"not null;type:text" json:"-"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// TaskList groups tasks under a single owner. OwnerID never changes.
type TaskList struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null;type:text" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	OwnerID     int64     `gorm:"index;not null" json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the table name for the TaskList entity.
func (TaskList) TableName() string {
	return "task_lists"
}

// Task is a unit of work inside a TaskList.
type Task struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"not null;type:text" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      Status     `gorm:"index;not null;type:text" json:"status"`
	Priority    Priority   `gorm:"index;not null;type:text" json:"priority"`
	TaskListID  int64      `gorm:"index;not null" json:"task_list_id"`
	AssignedTo  *int64     `gorm:"index" json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Version     int64      `gorm:"not null;default:1" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// IsOverdue reports whether t is past its due date at now. Tasks without a
// due date and completed tasks are never overdue; cancelled tasks are.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	if t.Status == StatusCompleted {
		return false
	}
	return now.After(*t.DueDate)
}

// TaskView is the read projection of a Task.
type TaskView struct {
	Task
	IsOverdue bool `json:"is_overdue"`
}

// TaskListView is the read projection of a TaskList with derived stats.
type TaskListView struct {
	TaskList
	TaskCount            int     `json:"task_count"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// Filter narrows ListTasks. Zero values mean "no constraint"; Limit 0 means
// no limit.
type Filter struct {
	TaskListID  *int64
	Status      *Status
	Priority    *Priority
	AssignedTo  *int64
	OverdueOnly bool
	Offset      int
	Limit       int
}

// EventType names a notification-worthy state change.
type EventType string

const (
	EventAssigned  EventType = "assigned"
	EventCompleted EventType = "completed"
)

// Event is produced by a successful mutation. Recipient is the assignee for
// EventAssigned and the list owner for EventCompleted.
type Event struct {
	Type      EventType
	Task      Task
	Recipient int64
}
