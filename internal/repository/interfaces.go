package repository

import (
	"time"

	"github.com/chatterboxhq/chatterbox-backend/internal/models"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	FindByUsername(username string) (*models.User, error)
	FindByID(id uint) (*models.User, error)
	ListOthers(excludeUserID uint) ([]models.User, error)
}

// MessageRepositoryInterface defines the contract for message repository operations
type MessageRepositoryInterface interface {
	Create(message *models.Message) error
	FindByID(id uint) (*models.Message, error)
	FindConversation(userID, otherUserID uint, limit int, before *time.Time) ([]models.Message, error)
	MarkAsDelivered(messageID uint) error
	ListConversations(userID uint, limit int) ([]ConversationRow, error)
}

// UnreadCountRepositoryInterface defines the contract for the unread ledger.
// Increment and MarkRead must be single atomic statements at the store level;
// callers rely on them never losing an update under concurrent writers.
type UnreadCountRepositoryInterface interface {
	Increment(userID, conversationWith uint) error
	MarkRead(userID, conversationWith uint) error
	ListPositive(userID uint) ([]models.UnreadCount, error)
	Total(userID uint) (int64, error)
}
