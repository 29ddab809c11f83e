package service

import (
	"github.com/chatterboxhq/chatterbox-backend/internal/models"
	"github.com/chatterboxhq/chatterbox-backend/internal/repository"
)

// UnreadService fronts the durable unread ledger. Atomicity lives in the
// repository's upsert statements, not here; this layer only shapes results.
type UnreadService struct {
	unreadRepo repository.UnreadCountRepositoryInterface
}

func NewUnreadService(unreadRepo repository.UnreadCountRepositoryInterface) *UnreadService {
	return &UnreadService{unreadRepo: unreadRepo}
}

// Increment records one more unseen message from sender in recipient's ledger.
func (s *UnreadService) Increment(recipientID, senderID uint) error {
	return s.unreadRepo.Increment(recipientID, senderID)
}

// MarkRead zeroes the counter for the conversation. Acknowledging a
// conversation that has no ledger row is a successful no-op.
func (s *UnreadService) MarkRead(userID, conversationWith uint) error {
	return s.unreadRepo.MarkRead(userID, conversationWith)
}

// CountsFor returns the user's conversations with unseen messages, most
// recent activity first. Zero-count rows are filtered out.
func (s *UnreadService) CountsFor(userID uint) ([]models.UnreadCountEntry, error) {
	rows, err := s.unreadRepo.ListPositive(userID)
	if err != nil {
		return nil, err
	}
	entries := make([]models.UnreadCountEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.ToEntry())
	}
	return entries, nil
}

func (s *UnreadService) TotalFor(userID uint) (int64, error) {
	return s.unreadRepo.Total(userID)
}
