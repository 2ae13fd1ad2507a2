package api

import (
	"errors"
	"log"

	"github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/modules/auth"
	"github.com/gofiber/fiber/v2"
)

var trackerStatus = map[task.Kind]int{
	task.KindNotFound:          fiber.StatusNotFound,
	task.KindUnauthorized:      fiber.StatusForbidden,
	task.KindInvalidTransition: fiber.StatusBadRequest,
	task.KindAssignment:        fiber.StatusBadRequest,
	task.KindValidation:        fiber.StatusBadRequest,
	task.KindConflict:          fiber.StatusConflict,
}

// trackerError writes the HTTP response for an error returned by the
// tracker port.
func trackerError(c *fiber.Ctx, err error) error {
	kind := task.KindOf(err)
	code, ok := trackerStatus[kind]
	if !ok {
		log.Printf("[api] Tracker error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "server_error",
			Message: "Internal Server Error",
		})
	}
	return c.Status(code).JSON(ErrorResponse{
		Error:   string(kind),
		Message: err.Error(),
	})
}

// authError writes the HTTP response for an error returned by the auth port.
func authError(c *fiber.Ctx, err error) error {
	var (
		code = fiber.StatusInternalServerError
		kind = "server_error"
		msg  = "Internal Server Error"
	)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		code, kind, msg = fiber.StatusUnauthorized, "unauthorized", err.Error()
	case errors.Is(err, auth.ErrInactiveUser):
		code, kind, msg = fiber.StatusForbidden, "inactive_user", err.Error()
	case errors.Is(err, auth.ErrUserExists):
		code, kind, msg = fiber.StatusConflict, "conflict", err.Error()
	case errors.Is(err, auth.ErrUserNotFound):
		code, kind, msg = fiber.StatusNotFound, "not_found", err.Error()
	case errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrPasswordTooLong),
		errors.Is(err, auth.ErrFullNameTooLong):
		code, kind, msg = fiber.StatusBadRequest, "validation_error", err.Error()
	default:
		log.Printf("[api] Auth error: %v", err)
	}
	return c.Status(code).JSON(ErrorResponse{Error: kind, Message: msg})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

// customErrorHandler handles errors that escape the handlers.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
