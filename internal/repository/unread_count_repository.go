package repository

import (
	"time"

	"github.com/chatterboxhq/chatterbox-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UnreadCountRepository struct {
	db *gorm.DB
}

func NewUnreadCountRepository(db *gorm.DB) *UnreadCountRepository {
	return &UnreadCountRepository{db: db}
}

// Increment bumps the counter for (userID, conversationWith) by one, creating
// the row at count=1 if absent. The whole read-modify-write happens inside a
// single INSERT ... ON CONFLICT DO UPDATE statement so concurrent increments
// for the same pair cannot lose updates.
func (r *UnreadCountRepository) Increment(userID, conversationWith uint) error {
	now := time.Now()
	row := models.UnreadCount{
		UserID:           userID,
		ConversationWith: conversationWith,
		Count:            1,
		LastMessageAt:    now,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "conversation_with"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count":           gorm.Expr("unread_counts.count + 1"),
			"last_message_at": now,
			"updated_at":      now,
		}),
	}).Create(&row).Error
}

// MarkRead resets the counter to zero, upserting so that acknowledging a
// conversation with no ledger row still succeeds.
func (r *UnreadCountRepository) MarkRead(userID, conversationWith uint) error {
	now := time.Now()
	row := models.UnreadCount{
		UserID:           userID,
		ConversationWith: conversationWith,
		Count:            0,
		LastMessageAt:    now,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "conversation_with"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count":           0,
			"last_message_at": now,
			"updated_at":      now,
		}),
	}).Create(&row).Error
}

func (r *UnreadCountRepository) ListPositive(userID uint) ([]models.UnreadCount, error) {
	var rows []models.UnreadCount
	err := r.db.Where("user_id = ? AND count > 0", userID).
		Order("last_message_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *UnreadCountRepository) Total(userID uint) (int64, error) {
	var total int64
	err := r.db.Model(&models.UnreadCount{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(count), 0)").
		Scan(&total).Error
	return total, err
}
