package service

import (
	"github.com/chatterboxhq/chatterbox-backend/internal/models"
	"github.com/chatterboxhq/chatterbox-backend/internal/repository"
)

// PresenceChecker is the read side of the routing table. It is injected
// rather than reached through a package global so tests and the HTTP layer
// can share one isolated instance with the websocket layer.
type PresenceChecker interface {
	IsOnline(userID uint) bool
}

type UserService struct {
	userRepo repository.UserRepositoryInterface
	presence PresenceChecker
}

func NewUserService(userRepo repository.UserRepositoryInterface, presence PresenceChecker) *UserService {
	return &UserService{userRepo: userRepo, presence: presence}
}

func (s *UserService) GetUserByID(userID uint) (*models.User, error) {
	return s.userRepo.FindByID(userID)
}

// ListUsers returns everyone except the requester, each annotated with live
// online status from the routing table.
func (s *UserService) ListUsers(currentUserID uint) ([]models.UserWithStatus, error) {
	users, err := s.userRepo.ListOthers(currentUserID)
	if err != nil {
		return nil, err
	}

	result := make([]models.UserWithStatus, 0, len(users))
	for _, user := range users {
		result = append(result, models.UserWithStatus{
			ID:       user.ID,
			Name:     user.Name,
			Username: user.Username,
			Online:   s.presence != nil && s.presence.IsOnline(user.ID),
		})
	}
	return result, nil
}
