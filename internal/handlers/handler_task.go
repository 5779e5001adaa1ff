package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/good4it/good4it_backend/internal/apperrors"
	"github.com/good4it/good4it_backend/internal/core/domain"
	portssvc "github.com/good4it/good4it_backend/internal/core/ports/services"
	"github.com/good4it/good4it_backend/internal/dto"
	"github.com/good4it/good4it_backend/internal/middleware"
)

// taskHandler handles HTTP requests related to task-for-debt.
type taskHandler struct {
	taskService portssvc.TaskSvcFacade
}

// newTaskHandler creates a new taskHandler.
func newTaskHandler(ts portssvc.TaskSvcFacade) *taskHandler {
	return &taskHandler{
		taskService: ts,
	}
}

// registerTaskRoutes registers routes related to tasks.
func registerTaskRoutes(rg *gin.RouterGroup, taskService portssvc.TaskSvcFacade) {
	h := newTaskHandler(taskService)

	tasks := rg.Group("/tasks")
	{
		tasks.POST("", h.createTask)
		tasks.GET("", h.listTasks)
		tasks.GET("/:id", h.getTask)
		tasks.POST("/:id/accept", h.acceptTask)
		tasks.POST("/:id/decline", h.declineTask)
		tasks.POST("/:id/start", h.startTask)
		tasks.POST("/:id/complete", h.completeTask)
		tasks.POST("/:id/confirm", h.confirmTask)
		tasks.POST("/:id/cancel", h.cancelTask)
	}
}

// createTask godoc
// @Summary Create a task against a debt
// @Description Assigns a chore to the borrower whose completion reduces the debt; lender only, one active task per transaction
// @Tags tasks
// @Accept  json
// @Produce  json
// @Param   task body dto.CreateTaskRequest true "Task details"
// @Success 201 {object} dto.TaskResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not the lender)"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction already has an active task"
// @Failure 500 {object} map[string]string "Failed to create task"
// @Security BearerAuth
// @Router /tasks [post]
func (h *taskHandler) createTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTask", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("transaction_id", req.TransactionID))
	logger.Info("Received request to create task", slog.String("title", req.Title))

	task, err := h.taskService.CreateTask(c.Request.Context(), req, userID)
	if err != nil {
		h.respondTaskError(c, logger, err, "Failed to create task")
		return
	}

	logger.Info("Task created successfully", slog.String("task_id", task.TaskID))
	c.JSON(http.StatusCreated, dto.ToTaskResponse(task))
}

// getTask godoc
// @Summary Get a task by ID
// @Description Retrieves a task visible to the logged-in user
// @Tags tasks
// @Produce  json
// @Param   id path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not a party to the task)"
// @Failure 404 {object} map[string]string "Task not found"
// @Failure 500 {object} map[string]string "Failed to retrieve task"
// @Security BearerAuth
// @Router /tasks/{id} [get]
func (h *taskHandler) getTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	taskID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("task_id", taskID))

	task, err := h.taskService.GetTaskByID(c.Request.Context(), taskID, userID)
	if err != nil {
		h.respondTaskError(c, logger, err, "Failed to retrieve task")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponse(task))
}

// listTasks godoc
// @Summary List tasks for the logged-in user
// @Description Retrieves a paginated list of tasks where the user is assigner or assignee
// @Tags tasks
// @Produce  json
// @Param   role query string false "Filter by role" Enums(ASSIGNED_BY, ASSIGNED_TO)
// @Param   limit query int false "Limit number of results" default(20)
// @Param   nextToken query string false "Pagination token from a previous response"
// @Success 200 {object} dto.ListTasksResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list tasks"
// @Security BearerAuth
// @Router /tasks [get]
func (h *taskHandler) listTasks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListTasksParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListTasks", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.taskService.ListTasks(c.Request.Context(), userID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error listing tasks", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list tasks", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tasks"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// acceptTask godoc
// @Summary Accept a task
// @Description Moves PENDING to ACCEPTED; assignee only
// @Tags tasks
// @Produce  json
// @Param   id path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not the assignee)"
// @Failure 404 {object} map[string]string "Task not found"
// @Failure 409 {object} map[string]string "Task is not pending"
// @Failure 500 {object} map[string]string "Failed to accept task"
// @Security BearerAuth
// @Router /tasks/{id}/accept [post]
func (h *taskHandler) acceptTask(c *gin.Context) {
	h.transition(c, "accept", h.taskService.AcceptTask)
}

// declineTask godoc
// @Summary Decline a task
// @Description Moves PENDING to DECLINED with a reason; assignee only
// @Tags tasks
// @Accept  json
// @Produce  json
// @Param   id path string true "Task ID"
// @Param   decline body dto.DeclineTaskRequest true "Decline reason"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not the assignee)"
// @Failure 404 {object} map[string]string "Task not found"
// @Failure 409 {object} map[string]string "Task is not pending"
// @Failure 500 {object} map[string]string "Failed to decline task"
// @Security BearerAuth
// @Router /tasks/{id}/decline [post]
func (h *taskHandler) declineTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	taskID := c.Param("id")

	var req dto.DeclineTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for DeclineTask", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("task_id", taskID))
	logger.Info("Received decline-task request")

	task, err := h.taskService.DeclineTask(c.Request.Context(), taskID, userID, req)
	if err != nil {
		h.respondTaskError(c, logger, err, "Failed to decline task")
		return
	}

	logger.Info("Task declined")
	c.JSON(http.StatusOK, dto.ToTaskResponse(task))
}

// startTask godoc
// @Summary Start a task
// @Description Moves PENDING or ACCEPTED to IN_PROGRESS; assignee only
// @Tags tasks
// @Produce  json
// @Param   id path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not the assignee)"
// @Failure 404 {object} map[string]string "Task not found"
// @Failure 409 {object} map[string]string "Task cannot be started"
// @Failure 500 {object} map[string]string "Failed to start task"
// @Security BearerAuth
// @Router /tasks/{id}/start [post]
func (h *taskHandler) startTask(c *gin.Context) {
	h.transition(c, "start", h.taskService.StartTask)
}

// completeTask godoc
// @Summary Mark a task as completed
// @Description Moves IN_PROGRESS to COMPLETED; assignee only
// @Tags tasks
// @Produce  json
// @Param   id path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not the assignee)"
// @Failure 404 {object} map[string]string "Task not found"
// @Failure 409 {object} map[string]string "Task is not in progress"
// @Failure 500 {object} map[string]string "Failed to complete task"
// @Security BearerAuth
// @Router /tasks/{id}/complete [post]
func (h *taskHandler) completeTask(c *gin.Context) {
	h.transition(c, "complete", h.taskService.CompleteTask)
}

// confirmTask godoc
// @Summary Confirm a completed task
// @Description Moves COMPLETED to CONFIRMED and applies the monetary effects to the debt atomically; assigner only
// @Tags tasks
// @Produce  json
// @Param   id path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not the assigner)"
// @Failure 404 {object} map[string]string "Task not found"
// @Failure 409 {object} map[string]string "Task is not completed"
// @Failure 500 {object} map[string]string "Failed to confirm task"
// @Security BearerAuth
// @Router /tasks/{id}/confirm [post]
func (h *taskHandler) confirmTask(c *gin.Context) {
	h.transition(c, "confirm", h.taskService.ConfirmTask)
}

// cancelTask godoc
// @Summary Cancel a task
// @Description Moves PENDING, ACCEPTED or IN_PROGRESS to CANCELLED; assigner only
// @Tags tasks
// @Produce  json
// @Param   id path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not the assigner)"
// @Failure 404 {object} map[string]string "Task not found"
// @Failure 409 {object} map[string]string "Task cannot be cancelled"
// @Failure 500 {object} map[string]string "Failed to cancel task"
// @Security BearerAuth
// @Router /tasks/{id}/cancel [post]
func (h *taskHandler) cancelTask(c *gin.Context) {
	h.transition(c, "cancel", h.taskService.CancelTask)
}

// transition handles the body-less task transitions which differ only in the
// service method invoked.
func (h *taskHandler) transition(c *gin.Context, name string, fn func(ctx context.Context, taskID string, actingUserID string) (*domain.Task, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	taskID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("task_id", taskID), slog.String("transition", name))
	logger.Info("Received task transition request")

	task, err := fn(c.Request.Context(), taskID, userID)
	if err != nil {
		h.respondTaskError(c, logger, err, "Failed to "+name+" task")
		return
	}

	logger.Info("Task transition applied", slog.String("status", string(task.Status)))
	c.JSON(http.StatusOK, dto.ToTaskResponse(task))
}

// respondTaskError maps service errors from task operations onto HTTP
// responses.
func (h *taskHandler) respondTaskError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Task or transaction not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("User is not the required party", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Task state conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
