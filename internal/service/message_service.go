package service

import (
	"errors"
	"time"

	"github.com/chatterboxhq/chatterbox-backend/internal/models"
	"github.com/chatterboxhq/chatterbox-backend/internal/repository"
	"github.com/chatterboxhq/chatterbox-backend/internal/validation"
)

// ErrEmptyBody rejects messages whose body trims to nothing. It reaches the
// client as a validation error event; nothing is persisted.
var ErrEmptyBody = errors.New("message body is required")

var ErrMissingRecipient = errors.New("recipient is required")

var ErrMissingConversation = errors.New("conversation is required")

type MessageService struct {
	messageRepo repository.MessageRepositoryInterface
}

func NewMessageService(messageRepo repository.MessageRepositoryInterface) *MessageService {
	return &MessageService{messageRepo: messageRepo}
}

// Append validates and persists a new message with delivered=false. The row
// is durable before any delivery attempt happens; the returned message
// carries the generated id and creation timestamp.
func (s *MessageService) Append(fromID, toID uint, body string) (*models.Message, error) {
	body = validation.TrimAndLimit(body, validation.MaxMessageLength())
	if body == "" {
		return nil, ErrEmptyBody
	}
	if toID == 0 {
		return nil, ErrMissingRecipient
	}

	message := &models.Message{
		FromID:    fromID,
		ToID:      toID,
		Body:      body,
		Delivered: false,
	}

	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}

	return message, nil
}

// History returns messages between the two users in chronological order.
func (s *MessageService) History(userID, otherUserID uint, limit int, before *time.Time) ([]models.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.messageRepo.FindConversation(userID, otherUserID, limit, before)
}

// MarkDelivered is a fire-and-forget side channel off the send path: already
// delivered or unknown ids are silent no-ops.
func (s *MessageService) MarkDelivered(messageID uint) error {
	return s.messageRepo.MarkAsDelivered(messageID)
}

func (s *MessageService) ListConversations(userID uint, limit int) ([]repository.ConversationRow, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	return s.messageRepo.ListConversations(userID, limit)
}
