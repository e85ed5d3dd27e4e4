package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/kanban-board-api/internal/authz"
	"github.com/yukikurage/kanban-board-api/internal/constants"
	"github.com/yukikurage/kanban-board-api/internal/database"
	apierrors "github.com/yukikurage/kanban-board-api/internal/errors"
	"github.com/yukikurage/kanban-board-api/internal/models"
)

// RequireBoardAccess resolves the board from the URL and denies users who
// are neither its owner nor a member. A missing board is 404, an existing
// one the actor lacks rights to is 403. The loaded board is stored in the
// context for handlers.
func RequireBoardAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		boardIDStr := c.Param("id")
		boardID, err := strconv.ParseUint(boardIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid board ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var board models.Board
		if err := database.GetDB().
			Preload("Owner").
			Preload("Members.User").
			First(&board, boardID).Error; err != nil {
			apierrors.NotFound(c, "Board not found")
			c.Abort()
			return
		}

		if !authz.CanAccessBoard(&board, userID) {
			apierrors.Forbidden(c, "You are not a member of this board")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyBoard, board)
		c.Next()
	}
}

// RequireBoardOwner lets only the board owner through. Must run after
// RequireBoardAccess.
func RequireBoardOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		board, exists := GetBoard(c)
		if !exists {
			apierrors.Forbidden(c, "Board access required")
			c.Abort()
			return
		}

		userID, _ := GetUserID(c)
		if !authz.IsBoardOwner(board, userID) {
			apierrors.Forbidden(c, "Only the board owner can perform this action")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetBoard retrieves the board stored by RequireBoardAccess.
func GetBoard(c *gin.Context) (*models.Board, bool) {
	value, exists := c.Get(constants.ContextKeyBoard)
	if !exists {
		return nil, false
	}

	board, ok := value.(models.Board)
	if !ok {
		return nil, false
	}

	return &board, true
}
