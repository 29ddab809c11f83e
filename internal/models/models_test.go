package models

import (
	"testing"
	"time"
)

func TestUserToResponse(t *testing.T) {
	user := &User{
		ID:           1,
		Name:         "John Doe",
		Username:     "john_doe",
		PasswordHash: "secret-hash",
	}

	response := user.ToResponse()

	if response.ID != user.ID {
		t.Errorf("ToResponse ID = %d, want %d", response.ID, user.ID)
	}
	if response.Name != user.Name {
		t.Errorf("ToResponse Name = %q, want %q", response.Name, user.Name)
	}
	if response.Username != user.Username {
		t.Errorf("ToResponse Username = %q, want %q", response.Username, user.Username)
	}
}

func TestMessageToResponse(t *testing.T) {
	createdAt := time.Now()
	deliveredAt := createdAt.Add(time.Second)

	message := &Message{
		ID:          1,
		CreatedAt:   createdAt,
		FromID:      1,
		ToID:        2,
		Body:        "Hello, world!",
		Delivered:   true,
		DeliveredAt: &deliveredAt,
	}

	response := message.ToResponse()

	if response.ID != message.ID {
		t.Errorf("ToResponse ID = %d, want %d", response.ID, message.ID)
	}
	if response.From != message.FromID {
		t.Errorf("ToResponse From = %d, want %d", response.From, message.FromID)
	}
	if response.To != message.ToID {
		t.Errorf("ToResponse To = %d, want %d", response.To, message.ToID)
	}
	if response.Body != message.Body {
		t.Errorf("ToResponse Body = %q, want %q", response.Body, message.Body)
	}
	if !response.Delivered {
		t.Errorf("ToResponse Delivered = false, want true")
	}
	if response.DeliveredAt == nil || !response.DeliveredAt.Equal(deliveredAt) {
		t.Errorf("ToResponse DeliveredAt = %v, want %v", response.DeliveredAt, deliveredAt)
	}
	if !response.CreatedAt.Equal(createdAt) {
		t.Errorf("ToResponse CreatedAt = %v, want %v", response.CreatedAt, createdAt)
	}
}

func TestMessageToResponseUndelivered(t *testing.T) {
	message := &Message{
		ID:     2,
		FromID: 1,
		ToID:   2,
		Body:   "pending",
	}

	response := message.ToResponse()

	if response.Delivered {
		t.Errorf("ToResponse Delivered = true, want false")
	}
	if response.DeliveredAt != nil {
		t.Errorf("ToResponse DeliveredAt = %v, want nil", response.DeliveredAt)
	}
}

func TestUnreadCountToEntry(t *testing.T) {
	lastMessageAt := time.Now()

	row := &UnreadCount{
		ID:               5,
		UserID:           1,
		ConversationWith: 2,
		Count:            3,
		LastMessageAt:    lastMessageAt,
	}

	entry := row.ToEntry()

	if entry.ConversationWith != row.ConversationWith {
		t.Errorf("ToEntry ConversationWith = %d, want %d", entry.ConversationWith, row.ConversationWith)
	}
	if entry.Count != row.Count {
		t.Errorf("ToEntry Count = %d, want %d", entry.Count, row.Count)
	}
	if !entry.LastMessageAt.Equal(lastMessageAt) {
		t.Errorf("ToEntry LastMessageAt = %v, want %v", entry.LastMessageAt, lastMessageAt)
	}
}
