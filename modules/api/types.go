package api

import (
	"encoding/json"
	"time"
)

// CreateTaskListBody is the body of POST /task-lists.
type CreateTaskListBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateTaskListBody is the body of PUT /task-lists/:id.
type UpdateTaskListBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// CreateTaskBody is the body of POST /tasks.
type CreateTaskBody struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	TaskListID  int64    `json:"task_list_id"`
	AssignedTo  *int64   `json:"assigned_to"`
	DueDate     *DueDate `json:"due_date"`
}

// UpdateTaskBody is the body of PUT /tasks/:id. Status is not accepted here.
type UpdateTaskBody struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Priority    *string  `json:"priority"`
	AssignedTo  *int64   `json:"assigned_to"`
	DueDate     *DueDate `json:"due_date"`
}

// dueDateLayouts are tried in order. Values without an offset are UTC.
var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// DueDate is a task deadline as sent by clients. Besides RFC 3339 it accepts
// a naive date-time or a bare date.
type DueDate time.Time

// UnmarshalJSON implements json.Unmarshaler.
func (d *DueDate) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return paramError("due_date must be a string")
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			*d = DueDate(t)
			return nil
		}
	}
	return paramError("due_date must be an ISO 8601 date-time such as 2024-12-31T10:00:00Z")
}

// Time returns the deadline, or nil when d is nil.
func (d *DueDate) Time() *time.Time {
	if d == nil {
		return nil
	}
	t := time.Time(*d)
	return &t
}

// StatusBody is the body of PATCH /tasks/:id/status.
type StatusBody struct {
	Status string `json:"status"`
}

// AssignBody is the body of POST /tasks/:id/assign.
type AssignBody struct {
	AssigneeID int64 `json:"assignee_id"`
}

// RegisterBody is the body of POST /auth/register.
type RegisterBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// LoginBody is the body of POST /auth/login.
type LoginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshBody is the body of POST /auth/refresh.
type RefreshBody struct {
	RefreshToken string `json:"refresh_token"`
}

// UserResponse represents a user account.
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// ListResponse wraps collection results.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

// RemindResponse reports an overdue reminder request.
type RemindResponse struct {
	Notified int `json:"notified"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
