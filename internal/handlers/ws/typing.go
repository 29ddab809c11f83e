package ws

import "sync"

// TypingTracker holds, per recipient, the set of users currently typing to
// them. Purely in-memory and best-effort: state is gone after a restart and
// that is fine for typing indicators.
type TypingTracker struct {
	mu sync.Mutex
	// recipientID -> set of senderIDs typing to them
	typing map[uint]map[uint]struct{}
}

func NewTypingTracker() *TypingTracker {
	return &TypingTracker{typing: make(map[uint]map[uint]struct{})}
}

// Start records that sender is typing to recipient. Idempotent.
func (t *TypingTracker) Start(recipientID, senderID uint) {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.typing[recipientID]
	if !ok {
		set = make(map[uint]struct{})
		t.typing[recipientID] = set
	}
	set[senderID] = struct{}{}
}

// Stop removes sender from recipient's typing set. Unknown pairs are no-ops.
func (t *TypingTracker) Stop(recipientID, senderID uint) {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.typing[recipientID]
	if !ok {
		return
	}
	delete(set, senderID)
	if len(set) == 0 {
		delete(t.typing, recipientID)
	}
}

// IsTyping reports whether sender is currently typing to recipient.
func (t *TypingTracker) IsTyping(recipientID, senderID uint) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.typing[recipientID]
	if !ok {
		return false
	}
	_, typing := set[senderID]
	return typing
}

// ClearAllFor removes sender from every recipient's set and returns the
// recipients that were affected, so the caller can emit synthetic typing:stop
// events to those still online. No client should keep showing "typing" for a
// user who vanished mid-type.
func (t *TypingTracker) ClearAllFor(senderID uint) []uint {
	t.mu.Lock()
	defer t.mu.Unlock()

	var recipients []uint
	for recipientID, set := range t.typing {
		if _, ok := set[senderID]; ok {
			delete(set, senderID)
			if len(set) == 0 {
				delete(t.typing, recipientID)
			}
			recipients = append(recipients, recipientID)
		}
	}
	return recipients
}
