package models

import (
	"time"
)

// UnreadCount tracks how many messages from ConversationWith the user has not
// acknowledged yet. One row per ordered (user, peer) pair; the symmetric pair
// is an independent row. Count is reset to zero on read, never deleted.
type UnreadCount struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	UserID           uint      `gorm:"not null;uniqueIndex:idx_unread_pair" json:"-"`
	ConversationWith uint      `gorm:"not null;uniqueIndex:idx_unread_pair" json:"conversation_with"`
	Count            int64     `gorm:"not null;default:0" json:"count"`
	LastMessageAt    time.Time `gorm:"not null" json:"last_message_at"`
}

// UnreadCountEntry is the wire shape pushed in unreadCounts:updated events and
// returned by the unread-counts endpoint.
type UnreadCountEntry struct {
	ConversationWith uint      `json:"conversation_with"`
	Count            int64     `json:"count"`
	LastMessageAt    time.Time `json:"last_message_at"`
}

func (u *UnreadCount) ToEntry() UnreadCountEntry {
	return UnreadCountEntry{
		ConversationWith: u.ConversationWith,
		Count:            u.Count,
		LastMessageAt:    u.LastMessageAt,
	}
}
