package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yukikurage/kanban-board-api/internal/constants"
	"github.com/yukikurage/kanban-board-api/internal/models"
	"github.com/yukikurage/kanban-board-api/internal/repository"
)

var (
	ErrBoardNotFound      = errors.New("board not found")
	ErrBoardTitleRequired = errors.New("title is required")
	ErrBoardTitleTooLong  = errors.New("title is too long")
	ErrNotBoardMember     = errors.New("user is not a member of the board")
)

// InvalidMembersError reports member ids that do not resolve to existing users.
type InvalidMembersError struct {
	IDs []uint64
}

// Error implements the error interface.
func (e *InvalidMembersError) Error() string {
	return fmt.Sprintf("invalid member ids: %v", e.IDs)
}

// BoardService provides business logic for board operations.
type BoardService struct {
	boardRepo repository.BoardRepository
	userRepo  repository.UserRepository
}

// NewBoardService creates a new BoardService.
func NewBoardService(boardRepo repository.BoardRepository, userRepo repository.UserRepository) *BoardService {
	return &BoardService{
		boardRepo: boardRepo,
		userRepo:  userRepo,
	}
}

// CreateBoardInput represents parameters to create a new board.
type CreateBoardInput struct {
	OwnerID   uint64
	Title     string
	MemberIDs []uint64
}

// CreateBoard creates a board owned by the actor, with the given users as
// its initial member set.
func (s *BoardService) CreateBoard(input CreateBoardInput) (*models.Board, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrBoardTitleRequired
	}
	if len(title) > constants.MaxBoardTitleLength {
		return nil, ErrBoardTitleTooLong
	}

	memberIDs := uniqueUint64(input.MemberIDs)
	if err := s.ensureUsersExist(memberIDs); err != nil {
		return nil, err
	}

	board := &models.Board{
		Title:   title,
		OwnerID: input.OwnerID,
	}

	if err := s.boardRepo.Create(board, memberIDs); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	return s.boardRepo.FindByID(board.ID, "Owner", "Members.User")
}

// ListBoards returns the boards the user owns or belongs to, with per-board
// task counters keyed by board id.
func (s *BoardService) ListBoards(userID uint64) ([]models.Board, map[uint64]repository.TaskStats, error) {
	boards, err := s.boardRepo.ListForUser(userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list boards: %w", err)
	}

	boardIDs := make([]uint64, len(boards))
	for i, board := range boards {
		boardIDs[i] = board.ID
	}

	stats, err := s.boardRepo.TaskStatsByBoardIDs(boardIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count board tasks: %w", err)
	}

	return boards, stats, nil
}

// GetBoard returns a board with its owner and member users.
func (s *BoardService) GetBoard(boardID uint64) (*models.Board, error) {
	board, err := s.boardRepo.FindByID(boardID, "Owner", "Members.User")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to find board: %w", err)
	}

	return board, nil
}

// UpdateBoardInput represents a partial board update. A nil MemberIDs leaves
// the member set untouched; a non-nil one replaces it entirely.
type UpdateBoardInput struct {
	Title     *string
	MemberIDs *[]uint64
}

// UpdateBoard applies a partial update. Title change and member replacement
// happen in the same transaction.
func (s *BoardService) UpdateBoard(boardID uint64, input UpdateBoardInput) (*models.Board, error) {
	board, err := s.boardRepo.FindByID(boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to find board: %w", err)
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrBoardTitleRequired
		}
		if len(title) > constants.MaxBoardTitleLength {
			return nil, ErrBoardTitleTooLong
		}
		board.Title = title
	}

	if input.MemberIDs == nil {
		if err := s.boardRepo.Update(board); err != nil {
			return nil, fmt.Errorf("failed to update board: %w", err)
		}
	} else {
		memberIDs := uniqueUint64(*input.MemberIDs)
		if err := s.ensureUsersExist(memberIDs); err != nil {
			return nil, err
		}
		if err := s.boardRepo.UpdateWithMembers(board, memberIDs); err != nil {
			return nil, fmt.Errorf("failed to update board members: %w", err)
		}
	}

	return s.boardRepo.FindByID(board.ID, "Owner", "Members.User")
}

// DeleteBoard removes a board with its tasks, comments and member rows.
func (s *BoardService) DeleteBoard(boardID uint64) error {
	if _, err := s.boardRepo.FindByID(boardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBoardNotFound
		}
		return fmt.Errorf("failed to find board: %w", err)
	}

	if err := s.boardRepo.Delete(boardID); err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}

	return nil
}

// ensureUsersExist verifies every id resolves to a user, reporting the ones
// that do not.
func (s *BoardService) ensureUsersExist(ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}

	users, err := s.userRepo.FindByIDs(ids)
	if err != nil {
		return fmt.Errorf("failed to verify members: %w", err)
	}
	if len(users) == len(ids) {
		return nil
	}

	found := make(map[uint64]struct{}, len(users))
	for _, user := range users {
		found[user.ID] = struct{}{}
	}

	invalid := make([]uint64, 0, len(ids)-len(users))
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			invalid = append(invalid, id)
		}
	}

	return &InvalidMembersError{IDs: invalid}
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
