package task

import (
	"errors"
	"fmt"
)

// Kind classifies business errors raised by the engine.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindUnauthorized      Kind = "unauthorized"
	KindInvalidTransition Kind = "invalid_transition"
	KindAssignment        Kind = "assignment_rejected"
	KindValidation        Kind = "validation_error"
	KindConflict          Kind = "conflict"
)

// Entity names used in NotFoundError.
const (
	EntityUser     = "user"
	EntityTaskList = "task_list"
	EntityTask     = "task"
)

// Assignment rejection reasons.
const (
	ReasonAssigneeNotFound = "assignee_not_found"
	ReasonAssigneeInactive = "assignee_inactive"
	ReasonTaskClosed       = "task_closed"
)

// ErrConflict is returned by a Gateway when a task row changed between
// read and write.
var ErrConflict = errors.New("task was modified concurrently")

// NotFoundError reports a missing user, task list or task.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Kind() Kind { return KindNotFound }

// UnauthorizedError reports that the caller lacks the privilege required.
type UnauthorizedError struct {
	Reason string
}

func (e *UnauthorizedError) Error() string {
	return "not authorized: " + e.Reason
}

func (e *UnauthorizedError) Kind() Kind { return KindUnauthorized }

// InvalidTransitionError reports a status change outside the lifecycle table.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition task from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Kind() Kind { return KindInvalidTransition }

// AssignmentError reports why an assignment was refused.
type AssignmentError struct {
	Reason string
	UserID int64
	Status Status
}

func (e *AssignmentError) Error() string {
	switch e.Reason {
	case ReasonAssigneeNotFound:
		return fmt.Sprintf("cannot assign task: user %d does not exist", e.UserID)
	case ReasonAssigneeInactive:
		return fmt.Sprintf("cannot assign task: user %d is inactive", e.UserID)
	case ReasonTaskClosed:
		return fmt.Sprintf("cannot assign task with status %s", e.Status)
	}
	return "cannot assign task: " + e.Reason
}

func (e *AssignmentError) Kind() Kind { return KindAssignment }

// ValidationError reports structurally malformed input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Kind() Kind { return KindValidation }

type kinded interface {
	Kind() Kind
}

// KindOf returns the business kind of err, or "" for infrastructure errors.
func KindOf(err error) Kind {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	if errors.Is(err, ErrConflict) {
		return KindConflict
	}
	return ""
}

// ErrorDetail is the serialisable form of a business error. It travels inside
// service responses so callers on the other side of the bus can rebuild the
// typed error.
type ErrorDetail struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Entity  string `json:"entity,omitempty"`
	ID      int64  `json:"id,omitempty"`
	From    Status `json:"from,omitempty"`
	To      Status `json:"to,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Status  Status `json:"status,omitempty"`
	Field   string `json:"field,omitempty"`
}

// DetailOf converts a business error into its wire form. Infrastructure
// errors return nil.
func DetailOf(err error) *ErrorDetail {
	var (
		nf *NotFoundError
		ua *UnauthorizedError
		it *InvalidTransitionError
		ae *AssignmentError
		ve *ValidationError
	)
	switch {
	case errors.As(err, &nf):
		return &ErrorDetail{Kind: KindNotFound, Message: nf.Error(), Entity: nf.Entity, ID: nf.ID}
	case errors.As(err, &ua):
		return &ErrorDetail{Kind: KindUnauthorized, Message: ua.Error(), Reason: ua.Reason}
	case errors.As(err, &it):
		return &ErrorDetail{Kind: KindInvalidTransition, Message: it.Error(), From: it.From, To: it.To}
	case errors.As(err, &ae):
		return &ErrorDetail{Kind: KindAssignment, Message: ae.Error(), Reason: ae.Reason, ID: ae.UserID, Status: ae.Status}
	case errors.As(err, &ve):
		return &ErrorDetail{Kind: KindValidation, Message: ve.Message, Field: ve.Field}
	case errors.Is(err, ErrConflict):
		return &ErrorDetail{Kind: KindConflict, Message: ErrConflict.Error()}
	}
	return nil
}

// Err rebuilds the typed error described by d.
func (d *ErrorDetail) Err() error {
	if d == nil {
		return nil
	}
	switch d.Kind {
	case KindNotFound:
		return &NotFoundError{Entity: d.Entity, ID: d.ID}
	case KindUnauthorized:
		return &UnauthorizedError{Reason: d.Reason}
	case KindInvalidTransition:
		return &InvalidTransitionError{From: d.From, To: d.To}
	case KindAssignment:
		return &AssignmentError{Reason: d.Reason, UserID: d.ID, Status: d.Status}
	case KindValidation:
		return &ValidationError{Field: d.Field, Message: d.Message}
	case KindConflict:
		return ErrConflict
	}
	return errors.New(d.Message)
}
