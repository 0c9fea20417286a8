package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskboard/task-manager/internal/api/metrics"
	"github.com/taskboard/task-manager/internal/core/domain"
	"github.com/taskboard/task-manager/internal/core/ports"
)

// HeaderIdempotencyKey lets clients retry POST /tasks safely.
const HeaderIdempotencyKey = "Idempotency-Key"

// TaskHandler handles HTTP requests for task operations. Every route
// requires the Auth middleware.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// List handles GET /tasks.
//
// @Summary      List the caller's tasks, newest first
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   taskResponse
// @Failure      401  {object}  errorResponse
// @Router       /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	tasks, err := h.service.List(c.Request().Context(), userID)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, toTaskListResponse(tasks))
}

// Get handles GET /tasks/:id.
//
// @Summary      Get one of the caller's tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Task id"
// @Success      200  {object}  taskResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}

	task, err := h.service.Get(c.Request().Context(), id, userID)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Create handles POST /tasks.
//
// @Summary      Create a task owned by the caller
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createTaskRequest  true   "Task details"
// @Success      201              {object}  taskResponse
// @Success      200              {object}  taskResponse  "Idempotent replay"
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Router       /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	idempotencyKey := c.Request().Header.Get(HeaderIdempotencyKey)
	result, err := h.service.Create(c.Request().Context(), toCreateInput(req, userID, idempotencyKey))
	if err != nil {
		return mapError(err)
	}

	metrics.TasksCreatedTotal.WithLabelValues(strconv.FormatBool(result.Replayed)).Inc()
	if result.Replayed {
		return c.JSON(http.StatusOK, toTaskResponse(result.Task))
	}
	c.Response().Header().Set(echo.HeaderLocation, "/tasks/"+strconv.FormatInt(result.Task.ID, 10))
	return c.JSON(http.StatusCreated, toTaskResponse(result.Task))
}

// Update handles PUT /tasks/:id.
//
// @Summary      Replace the editable fields of a task
// @Tags         tasks
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  int                true  "Task id"
// @Param        body  body  updateTaskRequest  true  "New task fields"
// @Success      204
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.TaskOperationsTotal.WithLabelValues("update", "invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err = h.service.Update(c.Request().Context(), toUpdateInput(req, id, userID))
	metrics.TaskOperationsTotal.WithLabelValues("update", operationResult(err)).Inc()
	if err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /tasks/:id.
//
// @Summary      Delete a task
// @Tags         tasks
// @Security     BearerAuth
// @Param        id   path  int  true  "Task id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}

	err = h.service.Delete(c.Request().Context(), id, userID)
	metrics.TaskOperationsTotal.WithLabelValues("delete", operationResult(err)).Inc()
	if err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func taskID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid task id")
	}
	return id, nil
}

func operationResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrTaskNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}
