package ws

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

// putClient registers a hand-built connection straight into the routing table
// so tests can exercise the table semantics without a live socket.
func putClient(h *Hub, userID uint) *ClientConnection {
	client := &ClientConnection{
		UserID:     userID,
		ConnID:     uuid.New(),
		LastPong:   time.Now(),
		PingTicker: time.NewTicker(time.Hour),
		CloseChan:  make(chan struct{}),
	}
	h.clientsMux.Lock()
	h.clients[userID] = client
	h.clientsMux.Unlock()
	return client
}

func TestHubLookup(t *testing.T) {
	hub := NewHub()

	if _, exists := hub.Lookup(1); exists {
		t.Errorf("Lookup on empty hub found a client")
	}

	client := putClient(hub, 1)

	found, exists := hub.Lookup(1)
	if !exists || found.ConnID != client.ConnID {
		t.Errorf("Lookup did not return the registered connection")
	}
	if !hub.IsOnline(1) {
		t.Errorf("IsOnline(1) = false, want true")
	}
	if hub.IsOnline(2) {
		t.Errorf("IsOnline(2) = true, want false")
	}
}

func TestHubReconnectWins(t *testing.T) {
	hub := NewHub()

	first := putClient(hub, 1)
	second := putClient(hub, 1)

	found, exists := hub.Lookup(1)
	if !exists || found.ConnID != second.ConnID {
		t.Fatalf("Lookup returned the older connection after reconnect")
	}

	// A stale cleanup from the first connection must not evict the newer one.
	hub.Unregister(first)
	if !hub.IsOnline(1) {
		t.Errorf("stale Unregister evicted the live connection")
	}

	hub.Unregister(second)
	if hub.IsOnline(1) {
		t.Errorf("user still online after Unregister of the live connection")
	}
}

func TestHubUnregisterTwice(t *testing.T) {
	hub := NewHub()

	client := putClient(hub, 1)
	hub.Unregister(client)
	// Second call must not panic on the already closed channel.
	hub.Unregister(client)
}

func TestHubUnregisterConcurrent(t *testing.T) {
	// The session close, a failed send and the health checker can all race
	// to unregister the same connection; the channel close must stay
	// idempotent under any interleaving.
	hub := NewHub()
	for i := 0; i < 1000; i++ {
		client := putClient(hub, 1)

		var wg sync.WaitGroup
		for j := 0; j < 3; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				hub.Unregister(client)
			}()
		}
		wg.Wait()

		if hub.IsOnline(1) {
			t.Fatalf("user still online after concurrent Unregister")
		}
	}
}

func TestHubRefreshPong(t *testing.T) {
	hub := NewHub()

	client := putClient(hub, 1)
	client.LastPong = time.Now().Add(-time.Hour)
	stale := client.LastPong

	hub.refreshPong(client)

	cur, _ := hub.Lookup(1)
	if !cur.LastPong.After(stale) {
		t.Errorf("refreshPong did not advance LastPong")
	}

	// A pong arriving on an orphaned connection must not stamp liveness
	// onto the newer registration.
	newer := putClient(hub, 1)
	newer.LastPong = time.Now().Add(-time.Hour)
	marker := newer.LastPong

	hub.refreshPong(client)

	cur, _ = hub.Lookup(1)
	if !cur.LastPong.Equal(marker) {
		t.Errorf("stale pong refreshed the newer connection")
	}
}

func TestHubOnlineUserIDs(t *testing.T) {
	hub := NewHub()

	putClient(hub, 1)
	putClient(hub, 2)
	putClient(hub, 3)

	if hub.Count() != 3 {
		t.Errorf("Count() = %d, want 3", hub.Count())
	}

	ids := hub.OnlineUserIDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Errorf("OnlineUserIDs() = %v, want [1 2 3]", ids)
	}
}

func TestHubSendToUserNotConnected(t *testing.T) {
	hub := NewHub()

	err := hub.SendToUser(42, UserOnlineEvent(1))
	if err != ErrNotConnected {
		t.Errorf("SendToUser to absent user error = %v, want %v", err, ErrNotConnected)
	}
}
