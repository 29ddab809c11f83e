package repository

import (
	"time"

	"github.com/chatterboxhq/chatterbox-backend/internal/models"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *MessageRepository) FindByID(id uint) (*models.Message, error) {
	var message models.Message
	err := r.db.First(&message, id).Error
	return &message, err
}

// FindConversation returns up to limit messages exchanged between the two
// users, oldest-first. Pagination walks backwards: pass the created_at of the
// oldest message already shown as before to fetch the previous page.
func (r *MessageRepository) FindConversation(userID, otherUserID uint, limit int, before *time.Time) ([]models.Message, error) {
	var messages []models.Message
	q := r.db.Where("(from_id = ? AND to_id = ?) OR (from_id = ? AND to_id = ?)",
		userID, otherUserID, otherUserID, userID)
	if before != nil {
		q = q.Where("created_at < ?", *before)
	}
	err := q.Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error

	// Reverse to get chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, err
}

// MarkAsDelivered flips the delivery flag exactly once. The WHERE guard makes
// repeated calls (and calls for unknown ids) no-ops rather than errors.
func (r *MessageRepository) MarkAsDelivered(messageID uint) error {
	return r.db.Model(&models.Message{}).
		Where("id = ? AND delivered = false", messageID).
		Updates(map[string]interface{}{
			"delivered":    true,
			"delivered_at": gorm.Expr("NOW()"),
		}).Error
}
