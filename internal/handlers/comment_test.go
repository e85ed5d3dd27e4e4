package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/kanban-board-api/internal/database"
	"github.com/yukikurage/kanban-board-api/internal/dto"
	"github.com/yukikurage/kanban-board-api/internal/models"
	"github.com/yukikurage/kanban-board-api/internal/repository"
	"github.com/yukikurage/kanban-board-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// CommentHandlerTestSuite defines the test suite for CommentHandler
type CommentHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *CommentHandler
}

// SetupTest runs before each test
func (suite *CommentHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Board{},
		&models.BoardMember{},
		&models.Task{},
		&models.TaskComment{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	commentRepo := repository.NewCommentRepository(suite.db)
	commentService := services.NewCommentService(commentRepo)

	suite.handler = NewCommentHandler(commentService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *CommentHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data
func (suite *CommentHandlerTestSuite) createTestUser(email, fullname string) *models.User {
	user := &models.User{
		Email:        email,
		Fullname:     fullname,
		PasswordHash: "hashedpassword",
		IsActive:     true,
	}
	suite.db.Create(user)
	return user
}

func (suite *CommentHandlerTestSuite) createTestBoard(title string, ownerID uint64) *models.Board {
	board := &models.Board{
		Title:   title,
		OwnerID: ownerID,
	}
	suite.db.Create(board)
	return board
}

func (suite *CommentHandlerTestSuite) addBoardMember(boardID, userID uint64) {
	suite.db.Create(&models.BoardMember{
		BoardID: boardID,
		UserID:  userID,
	})
}

func (suite *CommentHandlerTestSuite) createTestTask(boardID, creatorID uint64, title string) *models.Task {
	task := &models.Task{
		BoardID:   boardID,
		Title:     title,
		Status:    models.TaskStatusToDo,
		Priority:  models.TaskPriorityMedium,
		CreatorID: &creatorID,
	}
	suite.db.Create(task)
	return task
}

func (suite *CommentHandlerTestSuite) createTestComment(taskID, authorID uint64, content string) *models.TaskComment {
	comment := &models.TaskComment{
		TaskID:   taskID,
		AuthorID: authorID,
		Content:  content,
	}
	suite.db.Create(comment)
	return comment
}

// Helper function to create authenticated context
func (suite *CommentHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("user_id", userID)

	return c, w
}

// Helper function to set task context (simulates RequireTaskAccess middleware)
func (suite *CommentHandlerTestSuite) setTaskContext(c *gin.Context, task models.Task) {
	c.Set("task", task)
}

// TestListComments_OldestFirst tests that comments come back in the order
// they were written
func (suite *CommentHandlerTestSuite) TestListComments_OldestFirst() {
	author := suite.createTestUser("author@example.com", "Author")
	board := suite.createTestBoard("Sprint 1", author.ID)
	task := suite.createTestTask(board.ID, author.ID, "Discussed")

	suite.createTestComment(task.ID, author.ID, "First")
	suite.createTestComment(task.ID, author.ID, "Second")
	suite.createTestComment(task.ID, author.ID, "Third")

	c, w := suite.createAuthContext("GET", "/api/tasks/1/comments", nil, author.ID)
	suite.setTaskContext(c, *task)

	suite.handler.ListComments(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Comments []dto.CommentDTO `json:"comments"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	suite.Require().Len(response.Comments, 3)
	assert.Equal(suite.T(), "First", response.Comments[0].Content)
	assert.Equal(suite.T(), "Second", response.Comments[1].Content)
	assert.Equal(suite.T(), "Third", response.Comments[2].Content)
	assert.Equal(suite.T(), "Author", response.Comments[0].Author)
}

// TestListComments_Empty tests listing a task with no comments
func (suite *CommentHandlerTestSuite) TestListComments_Empty() {
	author := suite.createTestUser("author@example.com", "Author")
	board := suite.createTestBoard("Sprint 1", author.ID)
	task := suite.createTestTask(board.ID, author.ID, "Quiet")

	c, w := suite.createAuthContext("GET", "/api/tasks/1/comments", nil, author.ID)
	suite.setTaskContext(c, *task)

	suite.handler.ListComments(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Comments []dto.CommentDTO `json:"comments"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), response.Comments)
}

// TestCreateComment_Success tests writing a comment
func (suite *CommentHandlerTestSuite) TestCreateComment_Success() {
	owner := suite.createTestUser("owner@example.com", "Owner")
	member := suite.createTestUser("member@example.com", "Jane Member")
	board := suite.createTestBoard("Sprint 1", owner.ID)
	suite.addBoardMember(board.ID, member.ID)
	task := suite.createTestTask(board.ID, owner.ID, "Discussed")

	requestBody := map[string]interface{}{
		"content": "  Looks good to me  ",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks/1/comments", body, member.ID)
	suite.setTaskContext(c, *task)

	suite.handler.CreateComment(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.CommentDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Looks good to me", response.Content)
	assert.Equal(suite.T(), "Jane Member", response.Author)
	assert.NotZero(suite.T(), response.ID)

	var persisted models.TaskComment
	suite.Require().NoError(suite.db.First(&persisted, response.ID).Error)
	assert.Equal(suite.T(), task.ID, persisted.TaskID)
	assert.Equal(suite.T(), member.ID, persisted.AuthorID)
}

// TestCreateComment_MissingContent tests a body without content
func (suite *CommentHandlerTestSuite) TestCreateComment_MissingContent() {
	author := suite.createTestUser("author@example.com", "Author")
	board := suite.createTestBoard("Sprint 1", author.ID)
	task := suite.createTestTask(board.ID, author.ID, "Discussed")

	c, w := suite.createAuthContext("POST", "/api/tasks/1/comments", []byte(`{}`), author.ID)
	suite.setTaskContext(c, *task)

	suite.handler.CreateComment(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateComment_WhitespaceContent tests content that trims to nothing
func (suite *CommentHandlerTestSuite) TestCreateComment_WhitespaceContent() {
	author := suite.createTestUser("author@example.com", "Author")
	board := suite.createTestBoard("Sprint 1", author.ID)
	task := suite.createTestTask(board.ID, author.ID, "Discussed")

	c, w := suite.createAuthContext("POST", "/api/tasks/1/comments", []byte(`{"content": "   "}`), author.ID)
	suite.setTaskContext(c, *task)

	suite.handler.CreateComment(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	details := response["details"].(map[string]interface{})
	assert.Contains(suite.T(), details, "content")

	var count int64
	suite.db.Model(&models.TaskComment{}).Count(&count)
	assert.Zero(suite.T(), count)
}

// TestDeleteComment_ByAuthor tests that the author can delete their comment
func (suite *CommentHandlerTestSuite) TestDeleteComment_ByAuthor() {
	owner := suite.createTestUser("owner@example.com", "Owner")
	member := suite.createTestUser("member@example.com", "Member")
	board := suite.createTestBoard("Sprint 1", owner.ID)
	suite.addBoardMember(board.ID, member.ID)
	task := suite.createTestTask(board.ID, owner.ID, "Discussed")
	comment := suite.createTestComment(task.ID, member.ID, "Mine")

	c, w := suite.createAuthContext("DELETE", "/api/tasks/1/comments/1", nil, member.ID)
	suite.setTaskContext(c, *task)
	c.Params = gin.Params{{Key: "comment_id", Value: strconv.FormatUint(comment.ID, 10)}}

	suite.handler.DeleteComment(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Comment deleted successfully", response["message"])

	var deleted models.TaskComment
	assert.Error(suite.T(), suite.db.First(&deleted, comment.ID).Error)
}

// TestDeleteComment_ByBoardOwner tests that board rights do not extend to
// other people's comments
func (suite *CommentHandlerTestSuite) TestDeleteComment_ByBoardOwner() {
	owner := suite.createTestUser("owner@example.com", "Owner")
	member := suite.createTestUser("member@example.com", "Member")
	board := suite.createTestBoard("Sprint 1", owner.ID)
	suite.addBoardMember(board.ID, member.ID)
	task := suite.createTestTask(board.ID, owner.ID, "Discussed")
	comment := suite.createTestComment(task.ID, member.ID, "Not yours")

	c, w := suite.createAuthContext("DELETE", "/api/tasks/1/comments/1", nil, owner.ID)
	suite.setTaskContext(c, *task)
	c.Params = gin.Params{{Key: "comment_id", Value: strconv.FormatUint(comment.ID, 10)}}

	suite.handler.DeleteComment(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var persisted models.TaskComment
	assert.NoError(suite.T(), suite.db.First(&persisted, comment.ID).Error)
}

// TestDeleteComment_WrongTask tests a comment id that belongs to another task
func (suite *CommentHandlerTestSuite) TestDeleteComment_WrongTask() {
	author := suite.createTestUser("author@example.com", "Author")
	board := suite.createTestBoard("Sprint 1", author.ID)
	task := suite.createTestTask(board.ID, author.ID, "Here")
	otherTask := suite.createTestTask(board.ID, author.ID, "There")
	comment := suite.createTestComment(otherTask.ID, author.ID, "Elsewhere")

	c, w := suite.createAuthContext("DELETE", "/api/tasks/1/comments/1", nil, author.ID)
	suite.setTaskContext(c, *task)
	c.Params = gin.Params{{Key: "comment_id", Value: strconv.FormatUint(comment.ID, 10)}}

	suite.handler.DeleteComment(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestDeleteComment_InvalidID tests a non-numeric comment id
func (suite *CommentHandlerTestSuite) TestDeleteComment_InvalidID() {
	author := suite.createTestUser("author@example.com", "Author")
	board := suite.createTestBoard("Sprint 1", author.ID)
	task := suite.createTestTask(board.ID, author.ID, "Discussed")

	c, w := suite.createAuthContext("DELETE", "/api/tasks/1/comments/abc", nil, author.ID)
	suite.setTaskContext(c, *task)
	c.Params = gin.Params{{Key: "comment_id", Value: "abc"}}

	suite.handler.DeleteComment(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestSuite runs the test suite
func TestCommentHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CommentHandlerTestSuite))
}
