package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/kanban-board-api/internal/constants"
	"github.com/yukikurage/kanban-board-api/internal/dto"
	apierrors "github.com/yukikurage/kanban-board-api/internal/errors"
	"github.com/yukikurage/kanban-board-api/internal/middleware"
	"github.com/yukikurage/kanban-board-api/internal/models"
	"github.com/yukikurage/kanban-board-api/internal/services"
	"github.com/yukikurage/kanban-board-api/internal/utils"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService    *services.TaskService
	commentService *services.CommentService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService, commentService *services.CommentService) *TaskHandler {
	return &TaskHandler{
		taskService:    taskService,
		commentService: commentService,
	}
}

// CreateTask creates a task on the board named in the body.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Board       uint64              `json:"board" binding:"required"`
		Title       string              `json:"title" binding:"required"`
		Description string              `json:"description"`
		Status      models.TaskStatus   `json:"status"`
		Priority    models.TaskPriority `json:"priority"`
		Assignee    *uint64             `json:"assignee"`
		Reviewer    *uint64             `json:"reviewer"`
		DueDate     *utils.Date         `json:"due_date"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		BoardID:     req.Board,
		CreatorID:   userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssigneeID:  req.Assignee,
		ReviewerID:  req.Reviewer,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task, 0))
}

// ListTasks returns tasks on the boards the current user can access.
// Supports equality filters: board, status, priority.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	input := services.ListTasksInput{UserID: userID}

	if boardStr := c.Query("board"); boardStr != "" {
		boardID, err := strconv.ParseUint(boardStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid board filter")
			return
		}
		input.BoardID = &boardID
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := models.TaskStatus(statusStr)
		input.Status = &status
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		priority := models.TaskPriority(priorityStr)
		input.Priority = &priority
	}

	tasks, err := h.taskService.ListTasks(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	h.respondTaskList(c, tasks)
}

// AssignedToMe returns the tasks where the current user is the assignee.
func (h *TaskHandler) AssignedToMe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	tasks, err := h.taskService.ListAssignedTo(userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	h.respondTaskList(c, tasks)
}

// Reviewing returns the tasks where the current user is the reviewer.
func (h *TaskHandler) Reviewing(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	tasks, err := h.taskService.ListReviewing(userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	h.respondTaskList(c, tasks)
}

// GetTask returns a single task.
// The task is already loaded by RequireTaskAccess middleware.
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	counts, err := h.commentService.CountForTasks([]uint64{task.ID})
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, counts[task.ID]))
}

// UpdateTask applies a partial update. The board field is immutable and its
// presence in the payload is rejected outright, whoever asks.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	// Parse raw JSON to detect which fields were sent
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if _, ok := raw["board"]; ok {
		respondTaskError(c, services.ErrTaskBoardImmutable)
		return
	}

	type UpdateTaskRequest struct {
		Title       *string              `json:"title"`
		Description *string              `json:"description"`
		Status      *models.TaskStatus   `json:"status"`
		Priority    *models.TaskPriority `json:"priority"`
		Assignee    *uint64              `json:"assignee"`
		Reviewer    *uint64              `json:"reviewer"`
		DueDate     *utils.Date          `json:"due_date"`
	}

	var req UpdateTaskRequest
	if err := json.Unmarshal(body, &req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssigneeID:  req.Assignee,
		ReviewerID:  req.Reviewer,
		DueDate:     req.DueDate,
	}

	// An explicit null clears the field, absence leaves it alone
	if v, ok := raw["assignee"]; ok && string(v) == "null" {
		input.ClearAssignee = true
	}
	if v, ok := raw["reviewer"]; ok && string(v) == "null" {
		input.ClearReviewer = true
	}
	if v, ok := raw["due_date"]; ok && string(v) == "null" {
		input.ClearDueDate = true
	}

	updated, err := h.taskService.UpdateTask(task.ID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	counts, err := h.commentService.CountForTasks([]uint64{updated.ID})
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated, counts[updated.ID]))
}

// DeleteTask deletes a task with its comments. Allowed for the task creator
// and the board owner.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	if err := h.taskService.DeleteTask(task.ID, userID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// GenerateTasks returns AI task suggestions from free text. Nothing is
// persisted.
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type GenerateTasksRequest struct {
		Board uint64 `json:"board" binding:"required"`
		Text  string `json:"text" binding:"required"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	suggestions, err := h.taskService.GenerateTasks(c.Request.Context(), services.GenerateTasksInput{
		BoardID: req.Board,
		ActorID: userID,
		Text:    req.Text,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": suggestions,
	})
}

// respondTaskList attaches comment counts and writes the list body.
func (h *TaskHandler) respondTaskList(c *gin.Context, tasks []models.Task) {
	taskIDs := make([]uint64, len(tasks))
	for i, task := range tasks {
		taskIDs[i] = task.ID
	}

	counts, err := h.commentService.CountForTasks(taskIDs)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDTOs(tasks, counts),
	})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrBoardNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotBoardMember):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTaskDeleteDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTaskTitleRequired):
		apierrors.Validation(c, map[string]string{"title": "Title is required"})
	case errors.Is(err, services.ErrTaskTitleTooLong):
		apierrors.Validation(c, map[string]string{
			"title": fmt.Sprintf("Title must be at most %d characters", constants.MaxTaskTitleLength),
		})
	case errors.Is(err, services.ErrInvalidTaskStatus):
		apierrors.Validation(c, map[string]string{"status": "Status must be one of: to-do, in-progress, review, done"})
	case errors.Is(err, services.ErrInvalidTaskPriority):
		apierrors.Validation(c, map[string]string{"priority": "Priority must be one of: low, medium, high"})
	case errors.Is(err, services.ErrTaskBoardImmutable):
		apierrors.Validation(c, map[string]string{"board": "Board cannot be changed after creation"})
	case errors.Is(err, services.ErrAssigneeNotBoardMember):
		apierrors.Validation(c, map[string]string{"assignee": "Assignee must be the board owner or a member"})
	case errors.Is(err, services.ErrReviewerNotBoardMember):
		apierrors.Validation(c, map[string]string{"reviewer": "Reviewer must be the board owner or a member"})
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, err.Error())
	case errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
