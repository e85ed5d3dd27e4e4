package constants

// Session and context keys
const (
	SessionCookieName = "kanban_session"
	ContextKeyUserID  = "user_id"
	ContextKeyBoard   = "board"
	ContextKeyTask    = "task"
)

// Validation limits
const (
	MinPasswordLength   = 8
	MaxBoardTitleLength = 100
	MaxTaskTitleLength  = 255
)

// AI task generation
const (
	MaxAIGeneratedTasks = 20
)
