package repository

import (
	"strings"
	"time"
)

// ConversationRow is a denormalized row representing one direct-message
// conversation (1 row per peer): peer profile, last message, unread count.
//
// Deliberately not the full models.User / models.Message shape: it keeps the
// query a single round trip and avoids leaking the peer's password hash.
type ConversationRow struct {
	PeerID       uint   `gorm:"column:peer_id" json:"peer_id"`
	PeerName     string `gorm:"column:peer_name" json:"peer_name"`
	PeerUsername string `gorm:"column:peer_username" json:"peer_username"`

	UnreadCount int64 `gorm:"column:unread_count" json:"unread_count"`

	MessageID        uint      `gorm:"column:message_id" json:"message_id"`
	MessageFromID    uint      `gorm:"column:message_from_id" json:"message_from"`
	MessageToID      uint      `gorm:"column:message_to_id" json:"message_to"`
	MessageBody      string    `gorm:"column:message_body" json:"message_body"`
	MessageDelivered bool      `gorm:"column:message_delivered" json:"message_delivered"`
	MessageCreatedAt time.Time `gorm:"column:message_created_at" json:"message_created_at"`

	LastActivity time.Time `gorm:"column:last_activity" json:"last_activity"`
}

// ListConversations returns the user's conversations ordered by most recent
// activity, one row per peer with that peer's latest message. Unread counts
// come from the ledger table, not from scanning messages.
func (r *MessageRepository) ListConversations(userID uint, limit int) ([]ConversationRow, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	// Single query, no N+1: a window function picks the latest message per
	// peer, the ledger join supplies the unread count.
	query := strings.TrimSpace(`
WITH ranked AS (
	SELECT
		CASE WHEN m.from_id = ? THEN m.to_id ELSE m.from_id END AS peer_id,
		m.id AS message_id,
		m.from_id AS message_from_id,
		m.to_id AS message_to_id,
		m.body AS message_body,
		m.delivered AS message_delivered,
		m.created_at AS message_created_at,
		m.created_at AS last_activity,
		ROW_NUMBER() OVER (
			PARTITION BY CASE WHEN m.from_id = ? THEN m.to_id ELSE m.from_id END
			ORDER BY m.created_at DESC, m.id DESC
		) AS rn
	FROM messages m
	WHERE m.from_id = ? OR m.to_id = ?
)
SELECT
	t.peer_id,
	peer.name AS peer_name,
	peer.username AS peer_username,
	COALESCE(uc.count, 0) AS unread_count,
	t.message_id,
	t.message_from_id,
	t.message_to_id,
	t.message_body,
	t.message_delivered,
	t.message_created_at,
	t.last_activity
FROM ranked t
JOIN users peer ON peer.id = t.peer_id
LEFT JOIN unread_counts uc ON uc.user_id = ? AND uc.conversation_with = t.peer_id
WHERE t.rn = 1
ORDER BY t.last_activity DESC, t.message_id DESC
LIMIT ?
`)

	var rows []ConversationRow
	err := r.db.Raw(query, userID, userID, userID, userID, userID, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}
