package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/kanban-board-api/internal/constants"
	"github.com/yukikurage/kanban-board-api/internal/dto"
	apierrors "github.com/yukikurage/kanban-board-api/internal/errors"
	"github.com/yukikurage/kanban-board-api/internal/middleware"
	"github.com/yukikurage/kanban-board-api/internal/services"
)

// BoardHandler coordinates board HTTP handlers.
type BoardHandler struct {
	boardService   *services.BoardService
	taskService    *services.TaskService
	commentService *services.CommentService
}

// NewBoardHandler creates a new BoardHandler.
func NewBoardHandler(boardService *services.BoardService, taskService *services.TaskService, commentService *services.CommentService) *BoardHandler {
	return &BoardHandler{
		boardService:   boardService,
		taskService:    taskService,
		commentService: commentService,
	}
}

// CreateBoard creates a board owned by the current user.
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateBoardRequest struct {
		Title   string   `json:"title" binding:"required"`
		Members []uint64 `json:"members"`
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	board, err := h.boardService.CreateBoard(services.CreateBoardInput{
		OwnerID:   userID,
		Title:     req.Title,
		MemberIDs: req.Members,
	})
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToBoardDTO(*board))
}

// ListBoards returns the boards the current user owns or belongs to.
func (h *BoardHandler) ListBoards(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	boards, stats, err := h.boardService.ListBoards(userID)
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"boards": dto.ToBoardListItemDTOs(boards, stats),
	})
}

// GetBoard returns board details with members and tasks.
// The board is already loaded by RequireBoardAccess middleware.
func (h *BoardHandler) GetBoard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	board, exists := middleware.GetBoard(c)
	if !exists {
		apierrors.InternalError(c, "Board not found in context")
		return
	}

	boardID := board.ID
	tasks, err := h.taskService.ListTasks(services.ListTasksInput{
		UserID:  userID,
		BoardID: &boardID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	taskIDs := make([]uint64, len(tasks))
	for i, task := range tasks {
		taskIDs[i] = task.ID
	}

	commentCounts, err := h.commentService.CountForTasks(taskIDs)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDetailDTO(*board, tasks, commentCounts))
}

// UpdateBoard applies a partial update. A supplied member list replaces the
// previous one entirely.
func (h *BoardHandler) UpdateBoard(c *gin.Context) {
	board, exists := middleware.GetBoard(c)
	if !exists {
		apierrors.InternalError(c, "Board not found in context")
		return
	}

	type UpdateBoardRequest struct {
		Title   *string   `json:"title"`
		Members *[]uint64 `json:"members"`
	}

	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.boardService.UpdateBoard(board.ID, services.UpdateBoardInput{
		Title:     req.Title,
		MemberIDs: req.Members,
	})
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDTO(*updated))
}

// DeleteBoard removes a board with everything on it. Owner only, enforced by
// RequireBoardOwner middleware.
func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	board, exists := middleware.GetBoard(c)
	if !exists {
		apierrors.InternalError(c, "Board not found in context")
		return
	}

	if err := h.boardService.DeleteBoard(board.ID); err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Board deleted successfully",
	})
}

func respondBoardError(c *gin.Context, err error) {
	var invalidMembers *services.InvalidMembersError

	switch {
	case errors.Is(err, services.ErrBoardNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotBoardMember):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrBoardTitleRequired):
		apierrors.Validation(c, map[string]string{"title": "Title is required"})
	case errors.Is(err, services.ErrBoardTitleTooLong):
		apierrors.Validation(c, map[string]string{
			"title": fmt.Sprintf("Title must be at most %d characters", constants.MaxBoardTitleLength),
		})
	case errors.As(err, &invalidMembers):
		apierrors.Validation(c, map[string]string{
			"members": fmt.Sprintf("Invalid member ids: %v", invalidMembers.IDs),
		})
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
