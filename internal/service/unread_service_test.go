package service

import (
	"sort"
	"testing"
	"time"

	"github.com/chatterboxhq/chatterbox-backend/internal/models"
)

// MockUnreadCountRepository is an in-memory stand-in for the unread ledger.
type MockUnreadCountRepository struct {
	rows map[[2]uint]*models.UnreadCount
}

func NewMockUnreadCountRepository() *MockUnreadCountRepository {
	return &MockUnreadCountRepository{rows: make(map[[2]uint]*models.UnreadCount)}
}

func (m *MockUnreadCountRepository) Increment(userID, conversationWith uint) error {
	key := [2]uint{userID, conversationWith}
	now := time.Now()
	if row, ok := m.rows[key]; ok {
		row.Count++
		row.LastMessageAt = now
		return nil
	}
	m.rows[key] = &models.UnreadCount{
		UserID:           userID,
		ConversationWith: conversationWith,
		Count:            1,
		LastMessageAt:    now,
	}
	return nil
}

func (m *MockUnreadCountRepository) MarkRead(userID, conversationWith uint) error {
	key := [2]uint{userID, conversationWith}
	if row, ok := m.rows[key]; ok {
		row.Count = 0
		return nil
	}
	// Acknowledging a conversation with no row still succeeds, like the
	// real upsert does.
	m.rows[key] = &models.UnreadCount{
		UserID:           userID,
		ConversationWith: conversationWith,
		Count:            0,
		LastMessageAt:    time.Now(),
	}
	return nil
}

func (m *MockUnreadCountRepository) ListPositive(userID uint) ([]models.UnreadCount, error) {
	var result []models.UnreadCount
	for _, row := range m.rows {
		if row.UserID == userID && row.Count > 0 {
			result = append(result, *row)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].LastMessageAt.After(result[j].LastMessageAt)
	})
	return result, nil
}

func (m *MockUnreadCountRepository) Total(userID uint) (int64, error) {
	var total int64
	for _, row := range m.rows {
		if row.UserID == userID {
			total += row.Count
		}
	}
	return total, nil
}

// Tests for UnreadService

func TestIncrement(t *testing.T) {
	mockRepo := NewMockUnreadCountRepository()
	unreadService := NewUnreadService(mockRepo)

	for i := 0; i < 3; i++ {
		if err := unreadService.Increment(1, 2); err != nil {
			t.Fatalf("Increment error = %v", err)
		}
	}

	entries, err := unreadService.CountsFor(1)
	if err != nil {
		t.Fatalf("CountsFor error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("CountsFor returned %d entries, want 1", len(entries))
	}
	if entries[0].ConversationWith != 2 || entries[0].Count != 3 {
		t.Errorf("entry = {with: %d, count: %d}, want {with: 2, count: 3}", entries[0].ConversationWith, entries[0].Count)
	}
}

func TestIncrementIsPerPeer(t *testing.T) {
	mockRepo := NewMockUnreadCountRepository()
	unreadService := NewUnreadService(mockRepo)

	unreadService.Increment(1, 2)
	unreadService.Increment(1, 2)
	unreadService.Increment(1, 3)

	entries, err := unreadService.CountsFor(1)
	if err != nil {
		t.Fatalf("CountsFor error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("CountsFor returned %d entries, want 2", len(entries))
	}

	counts := make(map[uint]int64)
	for _, e := range entries {
		counts[e.ConversationWith] = e.Count
	}
	if counts[2] != 2 || counts[3] != 1 {
		t.Errorf("counts = %v, want {2: 2, 3: 1}", counts)
	}
}

func TestMarkRead(t *testing.T) {
	mockRepo := NewMockUnreadCountRepository()
	unreadService := NewUnreadService(mockRepo)

	unreadService.Increment(1, 2)
	unreadService.Increment(1, 2)
	unreadService.Increment(1, 3)

	if err := unreadService.MarkRead(1, 2); err != nil {
		t.Fatalf("MarkRead error = %v", err)
	}

	entries, err := unreadService.CountsFor(1)
	if err != nil {
		t.Fatalf("CountsFor error = %v", err)
	}
	// Zeroed conversation drops out of the snapshot; the other survives.
	if len(entries) != 1 || entries[0].ConversationWith != 3 {
		t.Errorf("entries after MarkRead = %v, want only conversation with 3", entries)
	}
}

func TestMarkReadWithoutRow(t *testing.T) {
	mockRepo := NewMockUnreadCountRepository()
	unreadService := NewUnreadService(mockRepo)

	if err := unreadService.MarkRead(1, 99); err != nil {
		t.Errorf("MarkRead for empty conversation error = %v, want nil", err)
	}

	total, err := unreadService.TotalFor(1)
	if err != nil {
		t.Fatalf("TotalFor error = %v", err)
	}
	if total != 0 {
		t.Errorf("TotalFor = %d, want 0", total)
	}
}

func TestTotalFor(t *testing.T) {
	mockRepo := NewMockUnreadCountRepository()
	unreadService := NewUnreadService(mockRepo)

	unreadService.Increment(1, 2)
	unreadService.Increment(1, 2)
	unreadService.Increment(1, 3)
	// Another user's ledger must not bleed into the total.
	unreadService.Increment(2, 1)

	total, err := unreadService.TotalFor(1)
	if err != nil {
		t.Fatalf("TotalFor error = %v", err)
	}
	if total != 3 {
		t.Errorf("TotalFor = %d, want 3", total)
	}
}

func TestCountsForEmpty(t *testing.T) {
	mockRepo := NewMockUnreadCountRepository()
	unreadService := NewUnreadService(mockRepo)

	entries, err := unreadService.CountsFor(1)
	if err != nil {
		t.Fatalf("CountsFor error = %v", err)
	}
	if entries == nil {
		t.Errorf("CountsFor returned nil, want empty slice")
	}
	if len(entries) != 0 {
		t.Errorf("CountsFor returned %d entries, want 0", len(entries))
	}
}
