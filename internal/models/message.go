package models

import (
	"time"
)

// Message is a single direct message between two users. Rows are append-only:
// the only mutation ever applied is flipping Delivered (and stamping
// DeliveredAt) exactly once. Delivered=false implies DeliveredAt is null.
type Message struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_msg_pair,priority:3" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FromID uint   `gorm:"not null;index:idx_msg_pair,priority:1" json:"from"`
	ToID   uint   `gorm:"not null;index:idx_msg_pair,priority:2" json:"to"`
	Body   string `gorm:"type:text;not null" json:"body"`

	Delivered   bool       `gorm:"default:false" json:"delivered"`
	DeliveredAt *time.Time `json:"delivered_at"`
}

type MessageResponse struct {
	ID          uint       `json:"id"`
	From        uint       `json:"from"`
	To          uint       `json:"to"`
	Body        string     `json:"body"`
	Delivered   bool       `json:"delivered"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (m *Message) ToResponse() MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		From:        m.FromID,
		To:          m.ToID,
		Body:        m.Body,
		Delivered:   m.Delivered,
		DeliveredAt: m.DeliveredAt,
		CreatedAt:   m.CreatedAt,
	}
}
