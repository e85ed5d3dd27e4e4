package dto

import (
	"github.com/yukikurage/kanban-board-api/internal/models"
	"github.com/yukikurage/kanban-board-api/internal/repository"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
}

// BoardListItemDTO represents a board in list responses, with counters
type BoardListItemDTO struct {
	ID                 uint64 `json:"id"`
	Title              string `json:"title"`
	OwnerID            uint64 `json:"owner_id"`
	MemberCount        int    `json:"member_count"`
	TicketCount        int64  `json:"ticket_count"`
	TasksToDoCount     int64  `json:"tasks_to_do_count"`
	TasksHighPrioCount int64  `json:"tasks_high_prio_count"`
}

// BoardDetailDTO represents a single board with its members and tasks
type BoardDetailDTO struct {
	ID      uint64    `json:"id"`
	Title   string    `json:"title"`
	OwnerID uint64    `json:"owner_id"`
	Members []UserDTO `json:"members"`
	Tasks   []TaskDTO `json:"tasks"`
}

// BoardDTO represents a created or updated board: owner and member data in full
type BoardDTO struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	OwnerData   *UserDTO  `json:"owner_data"`
	MembersData []UserDTO `json:"members_data"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Email:    user.Email,
		Fullname: user.Fullname,
	}
}

// ToBoardListItemDTO converts a board and its task counters to a list item
func ToBoardListItemDTO(board models.Board, stats repository.TaskStats) BoardListItemDTO {
	return BoardListItemDTO{
		ID:                 board.ID,
		Title:              board.Title,
		OwnerID:            board.OwnerID,
		MemberCount:        len(board.Members),
		TicketCount:        stats.Total,
		TasksToDoCount:     stats.ToDo,
		TasksHighPrioCount: stats.HighPriority,
	}
}

// ToBoardListItemDTOs converts boards with their counters, keyed by board id
func ToBoardListItemDTOs(boards []models.Board, stats map[uint64]repository.TaskStats) []BoardListItemDTO {
	items := make([]BoardListItemDTO, len(boards))
	for i, board := range boards {
		items[i] = ToBoardListItemDTO(board, stats[board.ID])
	}
	return items
}

// ToBoardDetailDTO converts a board with its tasks to the detail shape
func ToBoardDetailDTO(board models.Board, tasks []models.Task, commentCounts map[uint64]int64) BoardDetailDTO {
	return BoardDetailDTO{
		ID:      board.ID,
		Title:   board.Title,
		OwnerID: board.OwnerID,
		Members: memberUserDTOs(board),
		Tasks:   ToTaskDTOs(tasks, commentCounts),
	}
}

// ToBoardDTO converts a board to the create/update response shape
func ToBoardDTO(board models.Board) BoardDTO {
	dto := BoardDTO{
		ID:          board.ID,
		Title:       board.Title,
		MembersData: memberUserDTOs(board),
	}

	// Include owner if preloaded
	if board.Owner.ID != 0 {
		owner := ToUserDTO(board.Owner)
		dto.OwnerData = &owner
	}

	return dto
}

// memberUserDTOs collects the member users of a board whose rows were
// preloaded with their User relation.
func memberUserDTOs(board models.Board) []UserDTO {
	members := make([]UserDTO, 0, len(board.Members))
	for _, member := range board.Members {
		if member.User.ID != 0 {
			members = append(members, ToUserDTO(member.User))
		}
	}
	return members
}
