package cache

import (
	"fmt"
	"strconv"
	"time"
)

// OnlineTTL matches the websocket pong timeout, so a crashed instance's
// stale entries expire on their own.
const OnlineTTL = 90 * time.Second

// PresenceCache mirrors the in-memory routing table into Redis, best-effort.
// The in-memory table remains the source of truth for routing; this mirror
// only gives operators and sidecar tools a view of who is online. Every
// method is nil-safe so the service runs unchanged without Redis.
type PresenceCache struct {
	redis *RedisCache
}

func NewPresenceCache(redis *RedisCache) *PresenceCache {
	return &PresenceCache{redis: redis}
}

func (pc *PresenceCache) SetOnline(userID uint) error {
	if pc == nil || pc.redis == nil {
		return nil
	}
	if err := pc.redis.SetAdd("online:users", userID); err != nil {
		return err
	}
	return pc.redis.Set(fmt.Sprintf("online:%d", userID), []byte("1"), OnlineTTL)
}

func (pc *PresenceCache) SetOffline(userID uint) error {
	if pc == nil || pc.redis == nil {
		return nil
	}
	if err := pc.redis.SetRemove("online:users", userID); err != nil {
		return err
	}
	return pc.redis.Delete(fmt.Sprintf("online:%d", userID))
}

func (pc *PresenceCache) Refresh(userID uint) error {
	if pc == nil || pc.redis == nil {
		return nil
	}
	return pc.redis.Set(fmt.Sprintf("online:%d", userID), []byte("1"), OnlineTTL)
}

func (pc *PresenceCache) OnlineUserIDs() ([]uint, error) {
	if pc == nil || pc.redis == nil {
		return nil, nil
	}
	members, err := pc.redis.SetMembers("online:users")
	if err != nil {
		return nil, err
	}

	userIDs := make([]uint, 0, len(members))
	for _, member := range members {
		if id, err := strconv.ParseUint(member, 10, 32); err == nil {
			userIDs = append(userIDs, uint(id))
		}
	}
	return userIDs, nil
}
