package cache

import (
	"fmt"
	"time"

	"github.com/chatterboxhq/chatterbox-backend/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

const historyTTL = 5 * time.Minute

// HistoryCache keeps the first page of a conversation's history in Redis so
// reopening a chat does not hit Postgres every time. Entries are invalidated
// whenever either participant sends a message. Nil-safe like PresenceCache.
type HistoryCache struct {
	redis *RedisCache
}

func NewHistoryCache(redis *RedisCache) *HistoryCache {
	return &HistoryCache{redis: redis}
}

// historyKey is direction-agnostic: the same conversation page serves both
// participants.
func historyKey(userID1, userID2 uint) string {
	if userID1 > userID2 {
		userID1, userID2 = userID2, userID1
	}
	return fmt.Sprintf("history:%d:%d", userID1, userID2)
}

func (hc *HistoryCache) Get(userID1, userID2 uint) ([]models.Message, bool) {
	if hc == nil || hc.redis == nil {
		return nil, false
	}
	data, err := hc.redis.Get(historyKey(userID1, userID2))
	if err != nil || data == nil {
		return nil, false
	}

	var messages []models.Message
	if err := msgpack.Unmarshal(data, &messages); err != nil {
		return nil, false
	}
	return messages, true
}

func (hc *HistoryCache) Set(userID1, userID2 uint, messages []models.Message) error {
	if hc == nil || hc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(messages)
	if err != nil {
		return err
	}
	return hc.redis.Set(historyKey(userID1, userID2), data, historyTTL)
}

func (hc *HistoryCache) Invalidate(userID1, userID2 uint) error {
	if hc == nil || hc.redis == nil {
		return nil
	}
	return hc.redis.Delete(historyKey(userID1, userID2))
}
