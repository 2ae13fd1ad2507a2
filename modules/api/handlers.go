package api

import (
	"errors"
	"strconv"

	"github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/modules/auth"
	"github.com/example/task-tracker/modules/tracker"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	auth    auth.AuthPort
	tracker tracker.TrackerPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authPort auth.AuthPort, trackerPort tracker.TrackerPort) *Handlers {
	return &Handlers{
		auth:    authPort,
		tracker: trackerPort,
	}
}

// Register handles user registration.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var body RegisterBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if body.Email == "" || body.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	user, err := h.auth.Register(c.UserContext(), &auth.RegisterRequest{
		Email:    body.Email,
		Password: body.Password,
		FullName: body.FullName,
	})
	if err != nil {
		return authError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toUserResponse(user))
}

// Login handles user login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var body LoginBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if body.Email == "" || body.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	tokens, err := h.auth.Login(c.UserContext(), &auth.LoginRequest{Email: body.Email, Password: body.Password})
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(tokens)
}

// Refresh exchanges a refresh token for a new token pair.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var body RefreshBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if body.RefreshToken == "" {
		return badRequest(c, "Refresh token is required")
	}

	tokens, err := h.auth.Refresh(c.UserContext(), body.RefreshToken)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(tokens)
}

// Me returns the authenticated user.
func (h *Handlers) Me(c *fiber.Ctx) error {
	user, err := h.auth.GetUser(c.UserContext(), principalFrom(c).UserID)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(toUserResponse(user))
}

// CreateTaskList handles POST /task-lists.
func (h *Handlers) CreateTaskList(c *fiber.Ctx) error {
	var body CreateTaskListBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	list, err := h.tracker.CreateTaskList(c.UserContext(), &tracker.CreateTaskListRequest{
		ActorID:     principalFrom(c).UserID,
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		return trackerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(list)
}

// ListTaskLists handles GET /task-lists.
func (h *Handlers) ListTaskLists(c *fiber.Ctx) error {
	lists, err := h.tracker.ListTaskLists(c.UserContext(), principalFrom(c).UserID)
	if err != nil {
		return trackerError(c, err)
	}
	return c.JSON(ListResponse[task.TaskListView]{Items: lists, Count: len(lists)})
}

// GetTaskList handles GET /task-lists/:id.
func (h *Handlers) GetTaskList(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	list, err := h.tracker.GetTaskList(c.UserContext(), principalFrom(c).UserID, id)
	if err != nil {
		return trackerError(c, err)
	}
	return c.JSON(list)
}

// UpdateTaskList handles PUT /task-lists/:id.
func (h *Handlers) UpdateTaskList(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var body UpdateTaskListBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	list, err := h.tracker.UpdateTaskList(c.UserContext(), &tracker.UpdateTaskListRequest{
		ActorID:     principalFrom(c).UserID,
		TaskListID:  id,
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		return trackerError(c, err)
	}
	return c.JSON(list)
}

// DeleteTaskList handles DELETE /task-lists/:id.
func (h *Handlers) DeleteTaskList(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.tracker.DeleteTaskList(c.UserContext(), principalFrom(c).UserID, id); err != nil {
		return trackerError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// TaskListStats handles GET /task-lists/:id/stats.
func (h *Handlers) TaskListStats(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	stats, err := h.tracker.TaskListStats(c.UserContext(), principalFrom(c).UserID, id)
	if err != nil {
		return trackerError(c, err)
	}
	return c.JSON(stats)
}

// CreateTask handles POST /tasks.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	var body CreateTaskBody
	if err := c.BodyParser(&body); err != nil {
		return bodyError(c, err)
	}

	t, err := h.tracker.CreateTask(c.UserContext(), &tracker.CreateTaskRequest{
		ActorID:     principalFrom(c).UserID,
		Title:       body.Title,
		Description: body.Description,
		Priority:    body.Priority,
		TaskListID:  body.TaskListID,
		AssignedTo:  body.AssignedTo,
		DueDate:     body.DueDate.Time(),
	})
	if err != nil {
		return trackerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

// ListTasks handles GET /tasks with optional task_list_id, status, priority,
// assigned_to, overdue, offset and limit query parameters.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	req := &tracker.ListTasksRequest{
		ActorID:     principalFrom(c).UserID,
		OverdueOnly: c.QueryBool("overdue", false),
		Offset:      c.QueryInt("offset", 0),
		Limit:       c.QueryInt("limit", 0),
	}

	var err error
	if req.TaskListID, err = optionalInt64(c, "task_list_id"); err != nil {
		return badRequest(c, err.Error())
	}
	if req.AssignedTo, err = optionalInt64(c, "assigned_to"); err != nil {
		return badRequest(c, err.Error())
	}
	if s := c.Query("status"); s != "" {
		req.Status = &s
	}
	if p := c.Query("priority"); p != "" {
		req.Priority = &p
	}

	tasks, err := h.tracker.ListTasks(c.UserContext(), req)
	if err != nil {
		return trackerError(c, err)
	}
	return c.JSON(ListResponse[task.TaskView]{Items: tasks, Count: len(tasks)})
}

// OverdueTasks handles GET /tasks/overdue.
func (h *Handlers) OverdueTasks(c *fiber.Ctx) error {
	tasks, err := h.tracker.OverdueTasks(c.UserContext(), principalFrom(c).UserID)
	if err != nil {
		return trackerError(c, err)
	}
	return c.JSON(ListResponse[task.TaskView]{Items: tasks, Count: len(tasks)})
}

// RemindOverdue handles POST /tasks/overdue/remind.
func (h *Handlers) RemindOverdue(c *fiber.Ctx) error {
	n, err := h.tracker.RemindOverdue(c.UserContext(), principalFrom(c).UserID)
	if err != nil {
		return trackerError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(RemindResponse{Notified: n})
}

// GetTask handles GET /tasks/:id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	t, err := h.tracker.GetTask(c.UserContext(), principalFrom(c).UserID, id)
	if err != nil {
		return trackerError(c, err)
	}
	return c.JSON(t)
}

// UpdateTask handles PUT /tasks/:id.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var body UpdateTaskBody
	if err := c.BodyParser(&body); err != nil {
		return bodyError(c, err)
	}

	t, err := h.tracker.UpdateTask(c.UserContext(), &tracker.UpdateTaskRequest{
		ActorID:     principalFrom(c).UserID,
		TaskID:      id,
		Title:       body.Title,
		Description: body.Description,
		Priority:    body.Priority,
		AssignedTo:  body.AssignedTo,
		DueDate:     body.DueDate.Time(),
	})
	if err != nil {
		return trackerError(c, err)
	}
	return c.JSON(t)
}

// DeleteTask handles DELETE /tasks/:id.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.tracker.DeleteTask(c.UserContext(), principalFrom(c).UserID, id); err != nil {
		return trackerError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// TransitionStatus handles PATCH /tasks/:id/status.
func (h *Handlers) TransitionStatus(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var body StatusBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	t, err := h.tracker.TransitionStatus(c.UserContext(), principalFrom(c).UserID, id, body.Status)
	if err != nil {
		return trackerError(c, err)
	}
	return c.JSON(t)
}

// AssignTask handles POST /tasks/:id/assign.
func (h *Handlers) AssignTask(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var body AssignBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if body.AssigneeID <= 0 {
		return badRequest(c, "assignee_id is required")
	}

	t, err := h.tracker.AssignTask(c.UserContext(), principalFrom(c).UserID, id, body.AssigneeID)
	if err != nil {
		return trackerError(c, err)
	}
	return c.JSON(t)
}

type paramError string

func (e paramError) Error() string { return string(e) }

// bodyError reports a field-level parse failure as is and anything else as
// a malformed body.
func bodyError(c *fiber.Ctx, err error) error {
	var pe paramError
	if errors.As(err, &pe) {
		return badRequest(c, pe.Error())
	}
	return badRequest(c, "Invalid request body")
}

func idParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, paramError("id must be a positive integer")
	}
	return id, nil
}

func optionalInt64(c *fiber.Ctx, key string) (*int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, paramError(key + " must be an integer")
	}
	return &v, nil
}

func toUserResponse(u *auth.UserReply) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
